package cli

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"fortio.org/safecast"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/umlsync/pkg/layout"
)

const (
	stepSmall = 10.0 // px per arrow key
	stepLarge = 50.0 // px per shift+arrow

	// One terminal cell covers cellWidth × cellHeight canvas pixels.
	cellWidth  = 10.0
	cellHeight = 25.0

	maxLabelWidth = 20

	defaultCanvasWidth  = 80
	defaultCanvasHeight = 24
)

// Canvas styles
var (
	canvasBorderStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	canvasNodeStyle     = lipgloss.NewStyle().Foreground(colorWhite)
	canvasSelectedStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	canvasErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Key Bindings
// =============================================================================

type canvasKeyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	BigUp    key.Binding
	BigDown  key.Binding
	BigLeft  key.Binding
	BigRight key.Binding
	Reset    key.Binding
	Apply    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func (k canvasKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Up, k.BigUp, k.Apply, k.Help, k.Quit}
}

func (k canvasKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.Up, k.Down, k.Left, k.Right},
		{k.BigUp, k.BigDown, k.BigLeft, k.BigRight},
		{k.Reset, k.Apply, k.Help, k.Quit},
	}
}

var canvasKeys = canvasKeyMap{
	Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next entity")),
	Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous entity")),
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	BigUp:    key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("shift+arrows", "move 50px")),
	BigDown:  key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("shift+↓/J", "down 50px")),
	BigLeft:  key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("shift+←/H", "left 50px")),
	BigRight: key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("shift+→/L", "right 50px")),
	Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset to grid")),
	Apply:    key.NewBinding(key.WithKeys("a", "enter"), key.WithHelp("a", "apply")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// =============================================================================
// CanvasModel - Interactive layout editing
// =============================================================================

// applyFunc writes a layout back into the document and returns a status
// line for the canvas footer.
type applyFunc func(layout.Snapshot) (string, error)

// appliedMsg reports the outcome of an apply.
type appliedMsg struct {
	status string
	err    error
}

// canvasModel is the bubbletea model for the edit command. Every entity is
// drawn as [label] at its projected cell; the selected one is highlighted.
type canvasModel struct {
	nodes    []layout.Node
	grid     []layout.Node // positions restored by reset
	selected int
	width    int
	height   int
	apply    applyFunc
	applying bool
	dirty    bool
	status   string
	err      error
	help     help.Model
	keys     canvasKeyMap
}

func newCanvasModel(nodes, grid []layout.Node, apply applyFunc) canvasModel {
	return canvasModel{
		nodes:  slices.Clone(nodes),
		grid:   grid,
		width:  defaultCanvasWidth,
		height: defaultCanvasHeight,
		apply:  apply,
		help:   help.New(),
		keys:   canvasKeys,
	}
}

// Snapshot returns the current canvas positions.
func (m canvasModel) Snapshot() layout.Snapshot {
	return layout.SnapshotOf(m.nodes)
}

func (m canvasModel) Init() tea.Cmd {
	return nil
}

func (m canvasModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
	case appliedMsg:
		m.applying = false
		m.status, m.err = msg.status, msg.err
		if msg.err == nil {
			m.dirty = false
		}
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m canvasModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Next):
		m.cycle(1)
	case key.Matches(msg, m.keys.Prev):
		m.cycle(-1)
	case key.Matches(msg, m.keys.Up):
		m.move(0, -stepSmall)
	case key.Matches(msg, m.keys.Down):
		m.move(0, stepSmall)
	case key.Matches(msg, m.keys.Left):
		m.move(-stepSmall, 0)
	case key.Matches(msg, m.keys.Right):
		m.move(stepSmall, 0)
	case key.Matches(msg, m.keys.BigUp):
		m.move(0, -stepLarge)
	case key.Matches(msg, m.keys.BigDown):
		m.move(0, stepLarge)
	case key.Matches(msg, m.keys.BigLeft):
		m.move(-stepLarge, 0)
	case key.Matches(msg, m.keys.BigRight):
		m.move(stepLarge, 0)
	case key.Matches(msg, m.keys.Reset):
		m.reset()
	case key.Matches(msg, m.keys.Apply):
		if m.apply == nil || m.applying {
			return m, nil
		}
		m.applying = true
		m.status, m.err = "applying...", nil
		return m, m.applyCmd()
	}
	return m, nil
}

func (m *canvasModel) cycle(delta int) {
	if len(m.nodes) == 0 {
		return
	}
	m.selected = (m.selected + delta + len(m.nodes)) % len(m.nodes)
}

// move shifts the selected entity. Positions are clamped at the canvas
// origin so that every entity stays drawable.
func (m *canvasModel) move(dx, dy float64) {
	if len(m.nodes) == 0 {
		return
	}
	n := &m.nodes[m.selected]
	n.X = math.Max(0, n.X+dx)
	n.Y = math.Max(0, n.Y+dy)
	m.dirty = true
}

// reset restores the grid positions, keeping the current selection.
func (m *canvasModel) reset() {
	byID := make(map[string]layout.Position, len(m.grid))
	for _, n := range m.grid {
		byID[n.ID] = n.Position
	}
	for i := range m.nodes {
		if p, ok := byID[m.nodes[i].ID]; ok {
			m.nodes[i].Position = p
		}
	}
	m.dirty = true
}

func (m canvasModel) applyCmd() tea.Cmd {
	snap, apply := m.Snapshot(), m.apply
	return func() tea.Msg {
		status, err := apply(snap)
		return appliedMsg{status: status, err: err}
	}
}

// =============================================================================
// Rendering
// =============================================================================

func (m canvasModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("umlsync edit"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d entities", len(m.nodes))))
	if m.dirty {
		b.WriteString(StyleWarning.Render("  modified"))
	}
	b.WriteString("\n")

	// Title, status and help lines plus the border.
	cols, rows := m.width-2, m.height-5
	if m.help.ShowAll {
		rows -= 3
	}
	b.WriteString(canvasBorderStyle.Render(m.drawCanvas(max(cols, 10), max(rows, 3))))
	b.WriteString("\n")

	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m canvasModel) statusLine() string {
	var parts []string
	if len(m.nodes) > 0 {
		n := m.nodes[m.selected]
		parts = append(parts, StyleValue.Render(n.ID)+StyleDim.Render(fmt.Sprintf(" (%.0f, %.0f)", n.X, n.Y)))
	}
	switch {
	case m.err != nil:
		parts = append(parts, canvasErrorStyle.Render(m.err.Error()))
	case m.status != "":
		parts = append(parts, StyleSuccess.Render(m.status))
	}
	return strings.Join(parts, StyleDim.Render("  ·  "))
}

// drawCanvas projects every entity onto a cols × rows cell grid. Later
// entities overwrite earlier ones where labels overlap, except that the
// selected entity is always drawn last.
func (m canvasModel) drawCanvas(cols, rows int) string {
	cells := make([][]rune, rows)
	owner := make([][]int, rows)
	for r := range cells {
		cells[r] = []rune(strings.Repeat(" ", cols))
		owner[r] = slices.Repeat([]int{-1}, cols)
	}

	order := make([]int, 0, len(m.nodes))
	for i := range m.nodes {
		if i != m.selected {
			order = append(order, i)
		}
	}
	if len(m.nodes) > 0 {
		order = append(order, m.selected)
	}

	for _, i := range order {
		n := m.nodes[i]
		col, okC := cell(n.X, cellWidth)
		row, okR := cell(n.Y, cellHeight)
		if !okC || !okR || row >= rows {
			continue
		}
		for _, r := range nodeLabel(n) {
			w := runewidth.RuneWidth(r)
			if w == 0 {
				// Combining marks and other zero-width runes have no cell.
				continue
			}
			if col+w > cols {
				break
			}
			cells[row][col], owner[row][col] = r, i
			if w == 2 {
				// Wide runes occupy two cells; the second is a placeholder.
				cells[row][col+1], owner[row][col+1] = 0, i
			}
			col += w
		}
	}

	lines := make([]string, rows)
	for r := range cells {
		lines[r] = m.renderRow(cells[r], owner[r])
	}
	return strings.Join(lines, "\n")
}

// renderRow styles runs of cells that belong to the same entity.
func (m canvasModel) renderRow(cells []rune, owner []int) string {
	var b strings.Builder
	for start := 0; start < len(cells); {
		end := start
		for end < len(cells) && owner[end] == owner[start] {
			end++
		}
		var run strings.Builder
		for _, r := range cells[start:end] {
			if r != 0 {
				run.WriteRune(r)
			}
		}
		switch owner[start] {
		case -1:
			b.WriteString(run.String())
		case m.selected:
			b.WriteString(canvasSelectedStyle.Render(run.String()))
		default:
			b.WriteString(canvasNodeStyle.Render(run.String()))
		}
		start = end
	}
	return b.String()
}

// nodeLabel returns the bracketed label drawn for n, truncated to
// maxLabelWidth display cells.
func nodeLabel(n layout.Node) string {
	label := n.DisplayLabel()
	if runewidth.StringWidth(label) > maxLabelWidth {
		label = runewidth.Truncate(label, maxLabelWidth, "…")
	}
	return "[" + label + "]"
}

// cell converts a canvas coordinate to a cell index. It reports false for
// negative or non-finite coordinates.
func cell(px, size float64) (int, bool) {
	v, err := safecast.Truncate[int](math.Floor(px / size))
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
