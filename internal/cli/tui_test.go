package cli

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/meldgrid/pkg/geom"
	"github.com/matzehuels/meldgrid/pkg/grid"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestViewer(t *testing.T, save func(*grid.Engine) error) *GridViewModel {
	t.Helper()
	e, err := grid.New(grid.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	e.AddItem(geom.R(1, 1, 2, 2), nil)
	e.AddItem(geom.R(3, 1, 2, 2), nil)
	return NewGridViewModel(e, save)
}

func TestArrowDelta(t *testing.T) {
	tests := map[string][2]int{
		"up":          {0, -1},
		"k":           {0, -1},
		"shift+down":  {0, 1},
		"J":           {0, 1},
		"left":        {-1, 0},
		"H":           {-1, 0},
		"shift+right": {1, 0},
		"l":           {1, 0},
		"x":           {0, 0},
	}
	for key, want := range tests {
		dc, dr := arrowDelta(key)
		if dc != want[0] || dr != want[1] {
			t.Errorf("arrowDelta(%q) = (%d, %d), want (%d, %d)", key, dc, dr, want[0], want[1])
		}
	}
}

func TestGridViewerMove(t *testing.T) {
	m := newTestViewer(t, nil)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if it, _ := m.Engine.Item(1); it.Layout != geom.R(1, 2, 2, 2) {
		t.Errorf("after down: item 1 = %s", it.Layout)
	}
	if !m.Dirty || !strings.Contains(m.Status, "placed") {
		t.Errorf("dirty=%v status=%q", m.Dirty, m.Status)
	}

	// Moving left at the edge is clamped and leaves the item in place.
	m.Dirty = false
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if it, _ := m.Engine.Item(1); it.Layout != geom.R(1, 2, 2, 2) || m.Dirty {
		t.Errorf("after left at edge: item 1 = %s dirty=%v", it.Layout, m.Dirty)
	}

	// Tab selects item 2; moving it onto item 1 pushes it below.
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.selected() != 2 {
		t.Fatalf("selected = %d after tab, want 2", m.selected())
	}
	m.Update(runeKey('h'))
	// (2,1) overlaps item 1 at (1,2) so the drop scans down to row 4.
	if it, _ := m.Engine.Item(2); it.Layout != geom.R(2, 4, 2, 2) {
		t.Errorf("after h: item 2 = %s, want (2,4 2x2)", it.Layout)
	}
	if !strings.Contains(m.Status, "relocated") {
		t.Errorf("status = %q", m.Status)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.selected() != 1 {
		t.Errorf("selected = %d after shift+tab, want 1", m.selected())
	}
}

func TestGridViewerResize(t *testing.T) {
	m := newTestViewer(t, nil)

	m.Update(tea.KeyMsg{Type: tea.KeyShiftDown})
	if it, _ := m.Engine.Item(1); it.Layout != geom.R(1, 1, 2, 3) {
		t.Errorf("after shift+down: item 1 = %s", it.Layout)
	}

	// Growing right would overlap item 2.
	m.Update(tea.KeyMsg{Type: tea.KeyShiftRight})
	if it, _ := m.Engine.Item(1); it.Layout != geom.R(1, 1, 2, 3) {
		t.Errorf("after blocked shift+right: item 1 = %s", it.Layout)
	}
	if !strings.Contains(m.Status, "unchanged") {
		t.Errorf("status = %q", m.Status)
	}
}

func TestGridViewerAddRemove(t *testing.T) {
	m := newTestViewer(t, nil)

	m.Update(runeKey('a'))
	if m.Engine.Len() != 3 || m.selected() != 3 {
		t.Fatalf("after a: len=%d selected=%d", m.Engine.Len(), m.selected())
	}
	if it, _ := m.Engine.Item(3); it.Layout != geom.R(1, 3, 2, 2) {
		t.Errorf("new item = %s, want (1,3 2x2)", it.Layout)
	}

	m.Update(runeKey('x'))
	if m.Engine.Len() != 2 {
		t.Errorf("after x: len=%d", m.Engine.Len())
	}
	if _, ok := m.Engine.Item(3); ok {
		t.Error("removed item still present")
	}

	// Removing everything leaves an empty, navigable viewer.
	m.Update(tea.KeyMsg{Type: tea.KeyDelete})
	m.Update(tea.KeyMsg{Type: tea.KeyDelete})
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.Engine.Len() != 0 {
		t.Fatalf("len=%d, want 0", m.Engine.Len())
	}
	if !strings.Contains(m.View(), "no items") {
		t.Error("empty view lacks the hint")
	}
}

func TestGridViewerSave(t *testing.T) {
	m := newTestViewer(t, nil)
	m.Update(runeKey('s'))
	if !strings.Contains(m.Status, "read-only") {
		t.Errorf("status without save = %q", m.Status)
	}

	var saved int
	m = newTestViewer(t, func(e *grid.Engine) error {
		saved = e.Len()
		return nil
	})
	m.Update(runeKey('a'))
	m.Update(runeKey('s'))
	if saved != 3 || m.Dirty || m.Status != "saved" {
		t.Errorf("saved=%d dirty=%v status=%q", saved, m.Dirty, m.Status)
	}

	m = newTestViewer(t, func(*grid.Engine) error { return errors.New("disk full") })
	m.Update(runeKey('a'))
	m.Update(runeKey('s'))
	if !m.Dirty || !strings.Contains(m.Status, "disk full") {
		t.Errorf("failed save: dirty=%v status=%q", m.Dirty, m.Status)
	}
}

func TestGridViewerQuitAndView(t *testing.T) {
	m := newTestViewer(t, nil)

	for _, msg := range []tea.KeyMsg{runeKey('q'), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		if _, cmd := m.Update(msg); cmd == nil {
			t.Errorf("%s did not quit", msg)
		}
	}
	if _, cmd := m.Update(runeKey('z')); cmd != nil {
		t.Error("unbound key returned a command")
	}

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	view := m.View()
	for _, want := range []string{"Grid", "#1", "#2", "Item"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	m.Update(runeKey('a'))
	if !strings.Contains(m.View(), "Grid *") {
		t.Error("dirty view lacks the marker")
	}
}
