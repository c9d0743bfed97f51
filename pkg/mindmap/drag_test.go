package mindmap

import (
	"testing"

	"github.com/matzehuels/meldgrid/pkg/geom"
)

func TestDrag_MovesSubtreeRigidly(t *testing.T) {
	e := newEngine(t)
	c := mustAdd(t, e, e.Root(), AddChild)
	g := mustAdd(t, e, c, AddChild)
	e.ToggleCollapse(c)

	d, ok := e.BeginDrag(c, geom.Point{X: 300, Y: 10})
	if !ok {
		t.Fatal("BeginDrag failed")
	}
	d.Move(geom.Point{X: 313, Y: 37})

	if got := pos(t, e, c); got != (geom.Point{X: 273, Y: 27}) {
		t.Errorf("dragged node at %v", got)
	}
	// collapsed descendants travel too
	if got := pos(t, e, g); got != (geom.Point{X: 533, Y: 27}) {
		t.Errorf("descendant at %v", got)
	}

	d.End()
	if got := pos(t, e, c); got != (geom.Point{X: 280, Y: 20}) {
		t.Errorf("dragged node snapped to %v, want (280, 20)", got)
	}
	if got := pos(t, e, g); got != (geom.Point{X: 540, Y: 20}) {
		t.Errorf("descendant snapped to %v, want (540, 20)", got)
	}
}

func TestDrag_DropResolvesOnlyDraggedNode(t *testing.T) {
	e := newEngine(t)
	c := mustAdd(t, e, e.Root(), AddChild)
	g := mustAdd(t, e, c, AddChild)

	// drop c almost on the root: c is pushed clear, g is not touched
	d, _ := e.BeginDrag(c, geom.Point{X: 260, Y: 0})
	d.Move(geom.Point{X: 10, Y: 10})
	d.End()

	if got := pos(t, e, c); got != (geom.Point{X: 20, Y: 80}) {
		t.Errorf("dragged node at %v, want (20, 80)", got)
	}
	if got := pos(t, e, g); got != (geom.Point{X: 280, Y: 20}) {
		t.Errorf("descendant at %v, want (280, 20)", got)
	}
	if got := pos(t, e, e.Root()); got != (geom.Point{}) {
		t.Errorf("root moved to %v", got)
	}
}

func TestDrag_Cancel(t *testing.T) {
	e := newEngine(t)
	c := mustAdd(t, e, e.Root(), AddChild)
	g := mustAdd(t, e, c, AddChild)
	before := map[string]geom.Point{c: pos(t, e, c), g: pos(t, e, g)}

	d, _ := e.BeginDrag(c, geom.Point{})
	d.Move(geom.Point{X: 77, Y: -33})
	d.Cancel()

	for id, p := range before {
		if got := pos(t, e, id); got != p {
			t.Errorf("%s at %v after cancel, want %v", id, got, p)
		}
	}
	if _, ok := e.BeginDrag(c, geom.Point{}); !ok {
		t.Error("BeginDrag failed after Cancel")
	}
}

func TestDrag_SingleActive(t *testing.T) {
	e := newEngine(t)
	c := mustAdd(t, e, e.Root(), AddChild)
	d, _ := e.BeginDrag(c, geom.Point{})
	if _, ok := e.BeginDrag(e.Root(), geom.Point{}); ok {
		t.Error("second drag started")
	}
	d.End()
	d.End()
	if _, ok := e.BeginDrag(e.Root(), geom.Point{}); !ok {
		t.Error("drag refused after End")
	}
	if _, ok := e.BeginDrag("missing", geom.Point{}); ok {
		t.Error("drag of missing node started")
	}
}

func TestDrag_DeletedNodeCancels(t *testing.T) {
	e := newEngine(t)
	c := mustAdd(t, e, e.Root(), AddChild)
	d, _ := e.BeginDrag(c, geom.Point{})
	d.Move(geom.Point{X: 40})
	e.DeleteNode(c)
	d.End()
	if _, ok := e.BeginDrag(e.Root(), geom.Point{}); !ok {
		t.Error("drag refused after the dragged node was deleted")
	}
}
