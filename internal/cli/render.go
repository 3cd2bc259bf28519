package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/umlsync/pkg/io"
	"github.com/matzehuels/umlsync/pkg/pipeline"
)

// urlCommand creates the url command.
func (c *CLI) urlCommand() *cobra.Command {
	var (
		format     string
		fromAnswer bool
	)

	cmd := &cobra.Command{
		Use:   "url [file.puml|-]",
		Short: "Print the PlantUML server URL for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readDocument(args[0])
			if err != nil {
				return err
			}
			opts, err := c.baseOptions()
			if err != nil {
				return err
			}
			opts.FromAnswer = fromAnswer
			if format == "" {
				format = opts.Formats[0]
			}

			runner, err := c.newRunner(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer runner.Close()

			u, err := runner.URL(text, strings.ToLower(format), opts)
			if err != nil {
				return err
			}
			if isTerminal(os.Stdout) {
				u = StyleLink.Render(u)
			}
			fmt.Println(u)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "image format: svg or png (default from config)")
	cmd.Flags().BoolVar(&fromAnswer, "from-answer", false, "read the PlantUML block out of free-form text")
	return cmd
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formats    string
		noCache    bool
		refresh    bool
		fromAnswer bool
	)

	cmd := &cobra.Command{
		Use:   "render [file.puml|-]",
		Short: "Render a document through the PlantUML server",
		Long: `Render a document through the PlantUML server.

Images are written as <output>.<format> for every requested format. Results
are cached by document content, format and server; use --refresh to bypass
the cache for one run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = baseName(args[0], "diagram")
			}
			return c.runRender(cmd.Context(), args[0], output, formats, noCache, refresh, fromAnswer)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path without extension (default: input name)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "comma-separated formats: svg, png (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "render again even when cached")
	cmd.Flags().BoolVar(&fromAnswer, "from-answer", false, "read the PlantUML block out of free-form text")
	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, output, formats string, noCache, refresh, fromAnswer bool) error {
	text, err := readDocument(input)
	if err != nil {
		return err
	}
	opts, err := c.baseOptions()
	if err != nil {
		return err
	}
	if formats != "" {
		opts.Formats = parseFormats(formats)
	}
	opts.Refresh = refresh
	opts.FromAnswer = fromAnswer

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Rendering diagram...")
	spinner.Start()

	artifacts, cached, err := runner.RenderWithCacheInfo(ctx, text, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(output, opts.Formats, artifacts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d formats", len(paths)))

	printSuccess("Rendered diagram")
	for _, p := range paths {
		printFile(p)
	}
	if cached {
		printDetail("served from cache")
	}
	return nil
}

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		positions string
		output    string
		format    string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "preview [file.puml|-]",
		Short: "Draw the canvas layout and its constraints with Graphviz",
		Long: `Draw the canvas layout and its constraints with Graphviz.

Entities are pinned at their canvas positions and every synthesized
constraint is drawn as an arrow (horizontal ones blue, vertical ones orange).
No PlantUML server is contacted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if positions == "" {
				positions = positionsPath(input)
			}
			if format == "" {
				format = pipeline.FormatSVG
			}
			if output == "" {
				output = baseName(input, "layout") + ".preview." + strings.ToLower(format)
			}
			return c.runPreview(cmd.Context(), input, positions, output, strings.ToLower(format), noCache)
		},
	}

	cmd.Flags().StringVarP(&positions, "positions", "p", "", "layout file (default: <input>.layout.json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.preview.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "image format: svg or png")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the preview cache")
	return cmd
}

func (c *CLI) runPreview(ctx context.Context, input, positions, output, format string, noCache bool) error {
	text, err := readDocument(input)
	if err != nil {
		return err
	}
	snap, _, err := io.ImportJSON(positions)
	if err != nil {
		return err
	}
	opts, err := c.baseOptions()
	if err != nil {
		return err
	}
	opts.Formats = []string{format}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	data, cached, err := runner.PreviewWithCacheInfo(ctx, text, snap, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Wrote preview")
	printFile(output)
	if cached {
		printDetail("served from cache")
	}
	return nil
}

// writeArtifacts writes one file per format next to base and returns the
// paths in format order.
func writeArtifacts(base string, formats []string, artifacts map[string][]byte) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			continue
		}
		path := base + "." + f
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// baseName strips the extension from a document path, falling back to def
// for stdin.
func baseName(path, def string) string {
	if path == stdinPath {
		return def
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}
