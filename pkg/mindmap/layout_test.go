package mindmap

import (
	"testing"

	"github.com/matzehuels/meldgrid/pkg/geom"
)

func TestCalculateLayout(t *testing.T) {
	e := newEngine(t)
	root := e.Root()
	a := mustAdd(t, e, root, AddChild)
	a1 := mustAdd(t, e, a, AddChild)
	a2 := mustAdd(t, e, a, AddChild)
	b := mustAdd(t, e, root, AddChild)
	e.CalculateLayout()

	want := map[string]geom.Point{
		root: {X: 0, Y: 0},
		a:    {X: 260, Y: -50},
		a1:   {X: 520, Y: -100},
		a2:   {X: 520, Y: 0},
		b:    {X: 260, Y: 100},
	}
	for id, p := range want {
		if got := pos(t, e, id); got != p {
			t.Errorf("%s at %v, want %v", id, got, p)
		}
	}
	heights := map[string]float64{root: 260, a: 160, a1: 60, b: 60}
	for id, h := range heights {
		if n, _ := e.Node(id); n.SubtreeHeight != h {
			t.Errorf("%s SubtreeHeight = %v, want %v", id, n.SubtreeHeight, h)
		}
	}
}

func TestCalculateLayout_Collapsed(t *testing.T) {
	e := newEngine(t)
	root := e.Root()
	a := mustAdd(t, e, root, AddChild)
	a1 := mustAdd(t, e, a, AddChild)
	mustAdd(t, e, a, AddChild)
	b := mustAdd(t, e, root, AddChild)
	e.CalculateLayout()
	hidden := pos(t, e, a1)

	e.ToggleCollapse(a)
	e.CalculateLayout()

	if got := pos(t, e, a); got != (geom.Point{X: 260, Y: -50}) {
		t.Errorf("collapsed node at %v", got)
	}
	if got := pos(t, e, b); got != (geom.Point{X: 260, Y: 50}) {
		t.Errorf("sibling at %v, want (260, 50)", got)
	}
	if got := pos(t, e, a1); got != hidden {
		t.Errorf("hidden descendant moved from %v to %v", hidden, got)
	}
}

func TestCalculateLayout_Origin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OriginX, cfg.OriginY = 100, 200
	e := New(cfg, WithIDFunc(seqIDs()))
	c := mustAdd(t, e, e.Root(), AddChild)
	e.CalculateLayout()
	if got := pos(t, e, e.Root()); got != (geom.Point{X: 100, Y: 200}) {
		t.Errorf("root at %v", got)
	}
	if got := pos(t, e, c); got != (geom.Point{X: 360, Y: 200}) {
		t.Errorf("child at %v", got)
	}
}

// importAt builds a flat tree under a root at (0, 0) with the given
// children positions.
func importAt(t *testing.T, children map[string]geom.Point, order []string) *Engine {
	t.Helper()
	e := newEngine(t)
	doc := &DocNode{ID: "root", Text: "root", X: ptr(0), Y: ptr(0), Children: []*DocNode{}}
	for _, id := range order {
		p := children[id]
		doc.Children = append(doc.Children, &DocNode{ID: id, Text: id, X: ptr(p.X), Y: ptr(p.Y), Children: []*DocNode{}})
	}
	if err := e.Import(mustJSON(t, Document{Tree: doc})); err != nil {
		t.Fatalf("Import: %v", err)
	}
	return e
}

func ptr(v float64) *float64 { return &v }

func TestResolveCollisions_Axis(t *testing.T) {
	tests := map[string]struct {
		at     geom.Point
		want   geom.Point
		pushes int
	}{
		"tie pushes on y":      {geom.Point{X: 150, Y: 30}, geom.Point{X: 150, Y: 80}, 1},
		"smaller x push":       {geom.Point{X: 170, Y: 5}, geom.Point{X: 200, Y: 5}, 1},
		"smaller y push":       {geom.Point{X: 100, Y: 10}, geom.Point{X: 100, Y: 80}, 1},
		"pushed left of other": {geom.Point{X: -170, Y: -5}, geom.Point{X: -200, Y: -5}, 1},
		"pushed above other":   {geom.Point{X: -100, Y: -10}, geom.Point{X: -100, Y: -80}, 1},
		"no overlap":           {geom.Point{X: 180, Y: 0}, geom.Point{X: 180, Y: 0}, 0},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e := importAt(t, map[string]geom.Point{"m": tt.at}, []string{"m"})
			if got := e.ResolveCollisions("m"); got != tt.pushes {
				t.Errorf("pushes = %d, want %d", got, tt.pushes)
			}
			if got := pos(t, e, "m"); got != tt.want {
				t.Errorf("moved to %v, want %v", got, tt.want)
			}
			if got := pos(t, e, "root"); got != (geom.Point{}) {
				t.Errorf("static node moved to %v", got)
			}
		})
	}
}

func TestResolveCollisions_SinglePass(t *testing.T) {
	// m overlaps a, is pushed down into b, then pushed back up into a.
	// a was already visited, so the overlap remains.
	e := importAt(t, map[string]geom.Point{
		"a": {X: 1000, Y: 0},
		"b": {X: 1000, Y: 100},
		"m": {X: 1000, Y: 30},
	}, []string{"a", "b", "m"})

	if got := e.ResolveCollisions("m"); got != 2 {
		t.Errorf("pushes = %d, want 2", got)
	}
	if got := pos(t, e, "m"); got != (geom.Point{X: 1000, Y: 20}) {
		t.Errorf("m at %v, want (1000, 20)", got)
	}
	ma, _ := e.Box("m")
	aa, _ := e.Box("a")
	if !geom.Intersects(ma, aa) {
		t.Error("expected the residual overlap of a single pass")
	}
}

func TestResolveCollisions_IgnoresHiddenNodes(t *testing.T) {
	e := newEngine(t)
	a := mustAdd(t, e, e.Root(), AddChild)
	hidden := mustAdd(t, e, a, AddChild)
	e.ToggleCollapse(a)
	hp := pos(t, e, hidden)

	b := mustAdd(t, e, e.Root(), AddChild)
	d, _ := e.BeginDrag(b, pos(t, e, b))
	d.Move(hp)
	d.End()
	if got := pos(t, e, b); got != (geom.Point{X: hp.X, Y: hp.Y}) {
		t.Errorf("b pushed away from a hidden node: %v", got)
	}
}

func TestResolveCollisions_Unknown(t *testing.T) {
	e := newEngine(t)
	if got := e.ResolveCollisions("missing"); got != 0 {
		t.Errorf("pushes = %d", got)
	}
}
