package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	uerrors "github.com/matzehuels/umlsync/pkg/errors"
	"github.com/matzehuels/umlsync/pkg/io"
	"github.com/matzehuels/umlsync/pkg/layout"
	"github.com/matzehuels/umlsync/pkg/pipeline"
)

// errNoTerminal is returned when edit runs without an interactive terminal.
var errNoTerminal = errors.New("edit needs an interactive terminal (use seed and apply instead)")

// interactive reports whether stdin and stdout are both terminals.
var interactive = func() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

// editCommand creates the edit command.
func (c *CLI) editCommand() *cobra.Command {
	var positions string

	cmd := &cobra.Command{
		Use:   "edit [file.puml]",
		Short: "Arrange entities interactively in the terminal",
		Long: `Arrange entities interactively in the terminal.

Entities start at the positions in the layout file, or on the default grid
when there is none. Applying writes the hidden links into the document and
saves the positions, so the next edit resumes where this one stopped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == stdinPath {
				return fmt.Errorf("edit needs a file argument")
			}
			if !interactive() {
				return errNoTerminal
			}
			if positions == "" {
				positions = positionsPath(args[0])
			}
			return c.runEdit(cmd.Context(), args[0], positions)
		},
	}

	cmd.Flags().StringVarP(&positions, "positions", "p", "", "layout file (default: <input>.layout.json)")
	return cmd
}

func (c *CLI) runEdit(ctx context.Context, input, positions string) error {
	text, err := readDocument(input)
	if err != nil {
		return err
	}
	opts, err := c.baseOptions()
	if err != nil {
		return err
	}

	known, _, err := io.ImportJSON(positions)
	if err != nil && !uerrors.Is(err, uerrors.ErrCodeFileNotFound) {
		return err
	}

	runner := pipeline.NewRunner(nil, nil, nil, c.Logger)
	seed, err := runner.Reseed(ctx, text, known, opts)
	if err != nil {
		return err
	}
	if len(seed.Nodes) == 0 {
		printInfo("No entities declared in %s", input)
		return nil
	}

	// Reset restores the grid in declaration order, not canvas order.
	quiet := opts
	quiet.Logger = nil
	ex, _ := pipeline.Parse(ctx, quiet.Source(text), quiet)
	grid := layout.Grid(ex.Entities, opts.Grid)

	sess := &editSession{runner: runner, opts: opts, input: input, positions: positions, text: text}
	model := newCanvasModel(seed.Nodes, grid, func(snap layout.Snapshot) (string, error) {
		return sess.apply(ctx, snap)
	})

	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(canvasModel); ok && m.dirty {
		printWarning("Quit with unapplied changes")
		return nil
	}
	if sess.applied > 0 {
		printSuccess("Applied layout %d times", sess.applied)
		printFile(input)
		printFile(positions)
	}
	return nil
}

// editSession tracks the document between applies of one edit run.
type editSession struct {
	runner    *pipeline.Runner
	opts      pipeline.Options
	input     string
	positions string
	text      string
	applied   int
}

// apply writes snap into the document and the layout file.
func (s *editSession) apply(ctx context.Context, snap layout.Snapshot) (string, error) {
	res, err := s.runner.ApplyLayout(ctx, s.text, snap, s.opts)
	if err != nil {
		return "", err
	}
	if res.Changed {
		if err := writeDocument(s.input, res.Text); err != nil {
			return "", err
		}
		s.text = res.Text
	}
	nodes := layout.Place(res.Entities, snap, s.opts.Grid)
	if err := io.ExportJSON(s.positions, nodes, res.Constraints); err != nil {
		return "", err
	}
	s.applied++

	status := fmt.Sprintf("applied %d constraints", len(res.Constraints))
	if len(res.Warnings) > 0 {
		status += fmt.Sprintf(" (%d warnings)", len(res.Warnings))
	}
	return status, nil
}
