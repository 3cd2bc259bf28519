package pipeline

import (
	"github.com/matzehuels/umlsync/pkg/errors"
	"github.com/matzehuels/umlsync/pkg/layout"
)

// SnapshotFromPositions validates positions received from an untrusted
// caller and returns them as a snapshot.
func SnapshotFromPositions(positions map[string]layout.Position) (layout.Snapshot, error) {
	for id, p := range positions {
		if err := errors.ValidatePosition(id, p.X, p.Y); err != nil {
			return layout.Snapshot{}, err
		}
	}
	return layout.NewSnapshot(positions), nil
}

// CheckOptions validates caller-supplied options and returns a coded
// errors.ErrCodeInvalidInput or errors.ErrCodeInvalidFormat error.
func CheckOptions(opts Options) error {
	if opts.Layout.MinGap < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "min_gap must not be negative")
	}
	for _, f := range opts.Formats {
		if err := ValidateFormat(f); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "format %q", f)
		}
	}
	return nil
}
