package mindmap

import "github.com/matzehuels/meldgrid/pkg/geom"

// Drag is an in-progress move of a node and its subtree.
type Drag struct {
	e       *Engine
	id      string
	start   geom.Point
	initial map[string]geom.Point
	order   []string
	done    bool
}

// BeginDrag captures id and all its descendants, collapsed ones included.
// pointer is in layout coordinates; see View.ToLayout. It fails for an
// unknown id or while another drag is active.
func (e *Engine) BeginDrag(id string, pointer geom.Point) (*Drag, bool) {
	n, ok := e.nodes[id]
	if !ok || e.drag != nil {
		return nil, false
	}
	d := &Drag{e: e, id: id, start: pointer, initial: map[string]geom.Point{}}
	d.capture(n)
	for _, c := range e.Descendants(id) {
		d.capture(e.nodes[c])
	}
	e.drag = d
	return d, true
}

func (d *Drag) capture(n *Node) {
	d.initial[n.ID] = geom.Point{X: n.X, Y: n.Y}
	d.order = append(d.order, n.ID)
}

// NodeID returns the dragged node.
func (d *Drag) NodeID() string { return d.id }

// Move translates every captured node by the pointer's offset from the start
// point. No collision handling happens while dragging.
func (d *Drag) Move(pointer geom.Point) {
	if d.done {
		return
	}
	dx, dy := pointer.X-d.start.X, pointer.Y-d.start.Y
	for _, id := range d.order {
		if n, ok := d.e.nodes[id]; ok {
			p := d.initial[id]
			n.X, n.Y = p.X+dx, p.Y+dy
		}
	}
}

// End snaps the dragged node and its descendants to the grid and resolves
// collisions for the dragged node alone.
func (d *Drag) End() {
	if d.done {
		return
	}
	d.done = true
	e := d.e
	e.drag = nil
	if _, ok := e.nodes[d.id]; !ok {
		return
	}
	for _, id := range append([]string{d.id}, e.Descendants(d.id)...) {
		n := e.nodes[id]
		n.X, n.Y = e.snap(n.X), e.snap(n.Y)
	}
	e.ResolveCollisions(d.id)
}

// Cancel puts every captured node back where it was.
func (d *Drag) Cancel() {
	if d.done {
		return
	}
	d.done = true
	d.e.drag = nil
	for _, id := range d.order {
		if n, ok := d.e.nodes[id]; ok {
			p := d.initial[id]
			n.X, n.Y = p.X, p.Y
		}
	}
}

func (e *Engine) cancelDrag() {
	if e.drag != nil {
		e.drag.Cancel()
	}
}
