package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/umlsync/pkg/diagram"
	"github.com/matzehuels/umlsync/pkg/observability"
)

// Parse extracts the entities declared in text. text is PlantUML source;
// callers resolve free-form answers with [Options.Source] first.
//
// Diagnostics are logged at debug level (duplicates) or warn level
// (unrecognized declarations) and returned; they never fail the run.
func Parse(ctx context.Context, text string, opts Options) (diagram.Extraction, time.Duration) {
	start := time.Now()
	ex := diagram.Extract(text)
	elapsed := time.Since(start)

	observability.Pipeline().OnExtract(ctx, len(ex.Entities), len(ex.Diagnostics), elapsed)
	if opts.Logger != nil {
		for _, d := range ex.Diagnostics {
			if d.Severity == diagram.SevWarning {
				opts.Logger.Warn(d.Message, "line", d.Line, "text", d.Text)
			} else {
				opts.Logger.Debug(d.Message, "line", d.Line)
			}
		}
	}
	return ex, elapsed
}
