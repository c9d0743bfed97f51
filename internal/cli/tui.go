package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/meldgrid/pkg/geom"
	"github.com/matzehuels/meldgrid/pkg/grid"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// itemColors are the background colors cycled through by item id.
var itemColors = []lipgloss.Color{"24", "29", "94", "96", "60", "66", "101", "131"}

const (
	cellWidth  = 5 // characters per grid column
	newItemW   = 2 // size of items added with "a"
	newItemH   = 2
	footerRows = 8
)

// =============================================================================
// GridViewModel - Interactive grid editor
// =============================================================================

// GridViewModel is the bubbletea model for the interactive grid viewer.
// Arrow keys drag the selected item one cell at a time and shift+arrows
// resize it from its bottom-right corner, each through a full Drag or
// Resize interaction on the engine.
type GridViewModel struct {
	Engine *grid.Engine
	Cursor int // index into the engine's items
	Status string
	Dirty  bool

	save   func(*grid.Engine) error
	height int
}

// NewGridViewModel creates a viewer for e. save is called on "s"; a nil save
// disables saving.
func NewGridViewModel(e *grid.Engine, save func(*grid.Engine) error) *GridViewModel {
	return &GridViewModel{Engine: e, save: save, height: 40}
}

func (m *GridViewModel) Init() tea.Cmd {
	return nil
}

// selected returns the id of the item under the cursor, or 0.
func (m *GridViewModel) selected() int {
	items := m.Engine.Items()
	if len(items) == 0 {
		return 0
	}
	m.Cursor = min(max(m.Cursor, 0), len(items)-1)
	return items[m.Cursor].ID
}

func (m *GridViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "n":
			m.Cursor++
			if m.Cursor >= m.Engine.Len() {
				m.Cursor = 0
			}
		case "shift+tab", "p":
			m.Cursor--
			if m.Cursor < 0 {
				m.Cursor = max(m.Engine.Len()-1, 0)
			}
		case "up", "down", "left", "right", "k", "j", "h", "l":
			dc, dr := arrowDelta(key)
			m.move(dc, dr)
		case "shift+up", "shift+down", "shift+left", "shift+right", "K", "J", "H", "L":
			dc, dr := arrowDelta(key)
			m.resize(dc, dr)
		case "a":
			m.add()
		case "x", "delete":
			if id := m.selected(); id != 0 && m.Engine.RemoveItem(id) {
				m.Status = fmt.Sprintf("removed #%d", id)
				m.Dirty = true
			}
		case "s":
			m.doSave()
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-footerRows, 5)
	}
	return m, nil
}

// arrowDelta maps an arrow or vi key, with or without shift, to a cell delta.
func arrowDelta(key string) (dc, dr int) {
	switch strings.ToLower(strings.TrimPrefix(key, "shift+")) {
	case "up", "k":
		return 0, -1
	case "down", "j":
		return 0, 1
	case "left", "h":
		return -1, 0
	case "right", "l":
		return 1, 0
	}
	return 0, 0
}

func (m *GridViewModel) move(dc, dr int) {
	id := m.selected()
	it, ok := m.Engine.Item(id)
	if !ok {
		return
	}
	res, ok := m.Engine.MoveItem(id, it.Layout.X+dc, it.Layout.Y+dr)
	if !ok {
		return
	}
	m.Status = fmt.Sprintf("move #%d: %s %s", id, res.Outcome, res.Layout)
	m.Dirty = m.Dirty || res.Moved
}

func (m *GridViewModel) resize(dc, dr int) {
	id := m.selected()
	rs, ok := m.Engine.BeginResize(id, grid.HandleSE, geom.Point{})
	if !ok {
		return
	}
	rs.MoveBy(dc, dr)
	final, resized := rs.End()
	if resized {
		m.Status = fmt.Sprintf("resize #%d: %s", id, final)
		m.Dirty = true
	} else {
		m.Status = fmt.Sprintf("resize #%d: unchanged", id)
	}
}

func (m *GridViewModel) add() {
	id, err := m.Engine.AddItem(geom.R(1, 1, newItemW, newItemH), nil)
	if err != nil {
		m.Status = err.Error()
		return
	}
	for i, it := range m.Engine.Items() {
		if it.ID == id {
			m.Cursor = i
		}
	}
	it, _ := m.Engine.Item(id)
	m.Status = fmt.Sprintf("added #%d at %s", id, it.Layout)
	m.Dirty = true
}

func (m *GridViewModel) doSave() {
	if m.save == nil {
		m.Status = "read-only: nowhere to save"
		return
	}
	if err := m.save(m.Engine); err != nil {
		m.Status = "save failed: " + err.Error()
		return
	}
	m.Status = "saved"
	m.Dirty = false
}

func (m *GridViewModel) View() string {
	var b strings.Builder

	title := "Grid"
	if m.Dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("tab select  ←↑↓→ move  ⇧+arrows resize  a add  x remove  s save  q quit"))
	b.WriteString("\n\n")

	b.WriteString(m.canvas())
	b.WriteString("\n")
	b.WriteString(m.itemTable())
	b.WriteString("\n")
	if m.Status != "" {
		b.WriteString(listNormalStyle.Render(m.Status))
		b.WriteString("\n")
	}
	return b.String()
}

// canvas draws the grid with one text row per grid row.
func (m *GridViewModel) canvas() string {
	cfg := m.Engine.Config()
	items := m.Engine.Items()
	selected := m.selected()

	rows := 1
	for _, it := range items {
		rows = max(rows, it.Layout.Bottom())
	}
	rows = min(rows, m.height)

	owner := make([][]int, rows)
	for r := range owner {
		owner[r] = make([]int, cfg.Columns)
	}
	for _, it := range items {
		for y := it.Layout.Y; y < it.Layout.Bottom() && y <= rows; y++ {
			for x := it.Layout.X; x < it.Layout.Right() && x <= cfg.Columns; x++ {
				owner[y-1][x-1] = it.ID
			}
		}
	}

	empty := listDimStyle.Render(padCell("·"))
	var b strings.Builder
	for y, line := range owner {
		for x, id := range line {
			if id == 0 {
				b.WriteString(empty)
				continue
			}
			label := ""
			if it, _ := m.Engine.Item(id); it.Layout.X == x+1 && it.Layout.Y == y+1 {
				label = "#" + strconv.Itoa(id)
			}
			style := lipgloss.NewStyle().
				Background(itemColors[id%len(itemColors)]).
				Foreground(colorWhite)
			if id == selected {
				style = style.Background(colorCyan).Bold(true)
			}
			b.WriteString(style.Render(padCell(label)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func padCell(s string) string {
	if len(s) >= cellWidth {
		return s[:cellWidth]
	}
	return s + strings.Repeat(" ", cellWidth-len(s))
}

// itemTable lists the items with their cell layouts.
func (m *GridViewModel) itemTable() string {
	items := m.Engine.Items()
	if len(items) == 0 {
		return listDimStyle.Render("  no items; press a to add one")
	}
	selected := m.selected()

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		cursor := "  "
		if it.ID == selected {
			cursor = "▸ "
		}
		l := it.Layout
		rows = append(rows, []string{
			cursor,
			"#" + strconv.Itoa(it.ID),
			strconv.Itoa(l.X), strconv.Itoa(l.Y), strconv.Itoa(l.W), strconv.Itoa(l.H),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Item", "X", "Y", "W", "H").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(items) && items[row].ID == selected {
				return listSelectedStyle
			}
			return listNormalStyle
		})
	return t.Render()
}

// runGridViewer runs the viewer until the user quits.
func runGridViewer(m *GridViewModel, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}
