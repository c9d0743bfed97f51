package mindmap

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/meldgrid/pkg/errors"
	"github.com/matzehuels/meldgrid/pkg/geom"
)

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestExportImport_RoundTrip(t *testing.T) {
	e := newEngine(t)
	a := mustAdd(t, e, e.Root(), AddChild)
	a1 := mustAdd(t, e, a, AddChild)
	mustAdd(t, e, e.Root(), AddChild)
	e.Edit(a1, Fields{Text: "see [docs](https://example.com)", Color: "#abc"})
	e.ToggleCollapse(a)
	e.SetView(View{Scale: 0.5, Pan: geom.Point{X: 10, Y: 20}})

	data, err := e.Export()
	if err != nil {
		t.Fatal(err)
	}
	other := New(DefaultConfig())
	if err := other.Import(data); err != nil {
		t.Fatalf("Import: %v", err)
	}

	if other.Root() != e.Root() || other.Len() != e.Len() {
		t.Fatalf("root/len = %q/%d, want %q/%d", other.Root(), other.Len(), e.Root(), e.Len())
	}
	for _, id := range append([]string{e.Root()}, e.Descendants(e.Root())...) {
		want, _ := e.Node(id)
		got, _ := other.Node(id)
		if got.Text != want.Text || got.Color != want.Color || got.Collapsed != want.Collapsed ||
			got.Position() != want.Position() || got.Parent != want.Parent ||
			strings.Join(got.Children, ",") != strings.Join(want.Children, ",") {
			t.Errorf("node %s = %+v, want %+v", id, got, want)
		}
	}
	if other.View() != e.View() {
		t.Errorf("view = %+v, want %+v", other.View(), e.View())
	}
	if other.Selected() != other.Root() {
		t.Errorf("selected = %q, want root", other.Selected())
	}
}

func TestImport_LegacyBareTree(t *testing.T) {
	data := `{
		"id": "node_1", "text": "Central", "data": {"color": "#ff0000"}, "isCollapsed": false,
		"children": [
			{"id": "node_2", "text": "Child", "isCollapsed": true, "children": [
				{"id": "node_3", "text": "Hidden", "children": []}
			]}
		]
	}`
	e := newEngine(t)
	if err := e.Import([]byte(data)); err != nil {
		t.Fatalf("Import: %v", err)
	}
	root, _ := e.Node("node_1")
	if root.Color != "#ff0000" {
		t.Errorf("color = %q", root.Color)
	}
	child, _ := e.Node("node_2")
	if !child.Collapsed {
		t.Error("isCollapsed not honoured")
	}
	// no coordinates, so the tree was laid out
	if child.Position() != (geom.Point{X: 260, Y: 0}) {
		t.Errorf("child at %v, want (260, 0)", child.Position())
	}
	if len(e.AllNodes()) != 2 {
		t.Errorf("visible = %d, want 2", len(e.AllNodes()))
	}
}

func TestImport_Invalid(t *testing.T) {
	tests := map[string]string{
		"not json":         `{`,
		"array":            `[]`,
		"missing id":       `{"text": "a", "children": []}`,
		"missing text":     `{"id": "a", "children": []}`,
		"missing children": `{"id": "a", "text": "a"}`,
		"null tree":        `{"tree": null}`,
		"bad child":        `{"id": "a", "text": "a", "children": [{"id": "b", "children": []}]}`,
		"duplicate ids":    `{"id": "a", "text": "a", "children": [{"id": "a", "text": "b", "children": []}]}`,
		"null child":       `{"id": "a", "text": "a", "children": [null]}`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			e := newEngine(t)
			before := e.Root()
			err := e.Import([]byte(data))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Fatalf("Import error = %v, want %s", err, errors.ErrCodeInvalidFormat)
			}
			if e.Root() != before || e.Len() != 1 {
				t.Error("failed import changed the map")
			}
		})
	}
}
