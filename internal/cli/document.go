package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/umlsync/pkg/diagram"
	uerrors "github.com/matzehuels/umlsync/pkg/errors"
	"github.com/matzehuels/umlsync/pkg/io"
	"github.com/matzehuels/umlsync/pkg/layout"
	"github.com/matzehuels/umlsync/pkg/pipeline"
)

// newCommand creates the new command that writes a starter document.
func (c *CLI) newCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "new [file.puml]",
		Short: "Create a new PlantUML document from the default template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := writeDocument(path, diagram.DefaultDocument); err != nil {
				return err
			}
			printSuccess("Created document")
			printFile(path)
			printNextStep("Seed a layout", "umlsync seed "+path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

// entitiesCommand creates the entities command.
func (c *CLI) entitiesCommand() *cobra.Command {
	var (
		asJSON     bool
		fromAnswer bool
		positions  string
	)

	cmd := &cobra.Command{
		Use:   "entities [file.puml|-]",
		Short: "List the entities a PlantUML document declares",
		Long: `List the entities a PlantUML document declares.

Recognized declarations start with class, actor, participant, usecase,
component, interface or object. Lines that look like declarations but cannot
be read are reported as warnings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readDocument(args[0])
			if err != nil {
				return err
			}
			if fromAnswer {
				text, _ = diagram.ExtractCode(text)
			}
			ex := diagram.Extract(text)

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(ex)
			}

			var snap layout.Snapshot
			if positions != "" {
				if snap, _, err = io.ImportJSON(positions); err != nil {
					return err
				}
			}
			if len(ex.Entities) == 0 {
				printInfo("No entities declared")
			} else {
				fmt.Println(entityTable(ex.Entities, snap))
			}
			printDiagnostics(ex.Diagnostics)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print entities and diagnostics as JSON")
	cmd.Flags().BoolVar(&fromAnswer, "from-answer", false, "read the PlantUML block out of free-form text")
	cmd.Flags().StringVarP(&positions, "positions", "p", "", "show positions from this layout file")
	return cmd
}

// seedCommand creates the seed command.
func (c *CLI) seedCommand() *cobra.Command {
	var (
		output string
		keep   bool
	)

	cmd := &cobra.Command{
		Use:   "seed [file.puml]",
		Short: "Write initial canvas positions for a document",
		Long: `Write initial canvas positions for a document.

Entities are placed on a grid in declaration order (three per row by default).
With --keep, positions already in the layout file are kept and only new
entities are placed; entities no longer in the document are dropped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = positionsPath(args[0])
			}
			return c.runSeed(cmd.Context(), args[0], output, keep)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "layout file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&keep, "keep", false, "keep positions already in the layout file")
	return cmd
}

func (c *CLI) runSeed(ctx context.Context, input, output string, keep bool) error {
	text, err := readDocument(input)
	if err != nil {
		return err
	}
	opts, err := c.baseOptions()
	if err != nil {
		return err
	}

	var known layout.Snapshot
	if keep {
		known, _, err = io.ImportJSON(output)
		switch {
		case uerrors.Is(err, uerrors.ErrCodeFileNotFound):
			c.Logger.Debug("no existing layout", "path", output)
		case err != nil:
			return err
		}
	}

	runner := pipeline.NewRunner(nil, nil, nil, c.Logger)
	seed, err := runner.Reseed(ctx, text, known, opts)
	if err != nil {
		return err
	}
	printDiagnostics(seed.Diagnostics)
	if len(seed.Dropped) > 0 {
		printWarning("Dropped positions of removed entities: %s", strings.Join(seed.Dropped, ", "))
	}

	if err := io.ExportJSON(output, seed.Nodes, nil); err != nil {
		return fmt.Errorf("write layout %s: %w", output, err)
	}

	printSuccess("Seeded %d entities", len(seed.Nodes))
	if n := len(seed.Stored); n > 0 {
		printDetail("Document already holds %d layout constraints", n)
	}
	printFile(output)
	printNextStep("Arrange", "umlsync edit "+input)
	return nil
}

// constraintsCommand creates the constraints command.
func (c *CLI) constraintsCommand() *cobra.Command {
	var (
		positions  string
		minGap     float64
		keepTrans  bool
		fromAnswer bool
	)

	cmd := &cobra.Command{
		Use:   "constraints [file.puml|-]",
		Short: "Print the ordering constraints a layout implies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if positions == "" {
				positions = positionsPath(args[0])
			}
			text, snap, opts, err := c.loadLayoutInputs(args[0], positions, minGap, fromAnswer)
			if err != nil {
				return err
			}
			if keepTrans {
				opts.Layout.KeepTransitive = true
			}

			runner := pipeline.NewRunner(nil, nil, nil, c.Logger)
			res, err := runner.ApplyLayout(cmd.Context(), text, snap, opts)
			if err != nil {
				return err
			}
			fmt.Print(constraintLines(res.Constraints))
			printStats(len(res.Entities), len(res.Constraints), false)
			if res.Stats.CycleEdges > 0 {
				printWarning("%d contradictory relations dropped", res.Stats.CycleEdges)
			}
			printDetail("%d pairs within %.0fpx ignored, %d implied relations removed",
				res.Stats.Suppressed, opts.Layout.MinGap, res.Stats.TransitiveEdges)
			return nil
		},
	}

	cmd.Flags().StringVarP(&positions, "positions", "p", "", "layout file (default: <input>.layout.json)")
	cmd.Flags().Float64Var(&minGap, "min-gap", 0, "alignment threshold in pixels (default from config)")
	cmd.Flags().BoolVar(&keepTrans, "keep-transitive", false, "keep constraints implied by others")
	cmd.Flags().BoolVar(&fromAnswer, "from-answer", false, "read the PlantUML block out of free-form text")
	return cmd
}

// applyCommand creates the apply command.
func (c *CLI) applyCommand() *cobra.Command {
	var (
		positions  string
		output     string
		inPlace    bool
		minGap     float64
		fromAnswer bool
	)

	cmd := &cobra.Command{
		Use:   "apply [file.puml|-]",
		Short: "Write a layout back into a document as hidden links",
		Long: `Write a layout back into a document as hidden links.

The constraint region between the umlsync layout markers is replaced; every
other line of the document is kept unchanged. Applying the same layout twice
leaves the document unchanged.

With --from-answer only the PlantUML block of the input is written, so it
cannot be combined with --in-place; write to a new file with -o instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if positions == "" {
				positions = positionsPath(input)
			}
			if inPlace {
				if input == stdinPath {
					return fmt.Errorf("--in-place needs a file argument")
				}
				if fromAnswer {
					return fmt.Errorf("--in-place would discard the text around the PlantUML block; use -o with --from-answer")
				}
				output = input
			}
			return c.runApply(cmd.Context(), input, positions, output, minGap, fromAnswer)
		},
	}

	cmd.Flags().StringVarP(&positions, "positions", "p", "", "layout file (default: <input>.layout.json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVarP(&inPlace, "in-place", "i", false, "rewrite the input file")
	cmd.Flags().Float64Var(&minGap, "min-gap", 0, "alignment threshold in pixels (default from config)")
	cmd.Flags().BoolVar(&fromAnswer, "from-answer", false, "read the PlantUML block out of free-form text")
	return cmd
}

func (c *CLI) runApply(ctx context.Context, input, positions, output string, minGap float64, fromAnswer bool) error {
	text, snap, opts, err := c.loadLayoutInputs(input, positions, minGap, fromAnswer)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(nil, nil, nil, c.Logger)
	res, err := runner.ApplyLayout(ctx, text, snap, opts)
	if err != nil {
		return err
	}
	printDiagnostics(res.Diagnostics)
	printWarnings(res.Warnings)

	if err := writeDocument(output, res.Text); err != nil {
		return err
	}
	if output != "" && output != stdinPath {
		if res.Changed {
			printSuccess("Applied layout")
		} else {
			printInfo("Layout already up to date")
		}
		printFile(output)
		printStats(len(res.Entities), len(res.Constraints), false)
	}
	return nil
}

// loadLayoutInputs reads a document and its layout file and returns the
// options for a synthesis run.
func (c *CLI) loadLayoutInputs(input, positions string, minGap float64, fromAnswer bool) (string, layout.Snapshot, pipeline.Options, error) {
	text, err := readDocument(input)
	if err != nil {
		return "", layout.Snapshot{}, pipeline.Options{}, err
	}
	snap, _, err := io.ImportJSON(positions)
	if err != nil {
		return "", layout.Snapshot{}, pipeline.Options{}, err
	}
	opts, err := c.baseOptions()
	if err != nil {
		return "", layout.Snapshot{}, pipeline.Options{}, err
	}
	if minGap > 0 {
		opts.Layout.MinGap = minGap
	}
	opts.FromAnswer = fromAnswer
	return text, snap, opts, nil
}
