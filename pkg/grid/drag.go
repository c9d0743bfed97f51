package grid

import (
	"github.com/matzehuels/meldgrid/pkg/geom"
	"github.com/matzehuels/meldgrid/pkg/observability"
)

// Drop outcomes reported to observability hooks.
const (
	DropPlaced    = "placed"
	DropRelocated = "relocated"
	DropReverted  = "reverted"
	DropUnchanged = "unchanged"
)

// Drag is an in-progress move of one item. Nothing is committed until End.
type Drag struct {
	e         *Engine
	id        int
	origin    geom.Rect
	start     geom.Point
	candidate geom.Rect
	outcome   string
	done      bool
}

// BeginDrag starts moving the item under pointer. It fails if the item does
// not exist or another interaction is active.
func (e *Engine) BeginDrag(id int, pointer geom.Point) (*Drag, bool) {
	it := e.find(id)
	if it == nil {
		return nil, false
	}
	d := &Drag{e: e, id: id, origin: it.Layout, start: pointer, candidate: it.Layout}
	if !e.begin(d) {
		return nil, false
	}
	return d, true
}

func (d *Drag) itemID() int { return d.id }

// Origin returns the layout the item had when the drag began.
func (d *Drag) Origin() geom.Rect { return d.origin }

// Outcome returns how End resolved the drop, one of the Drop constants, or
// "" before End.
func (d *Drag) Outcome() string { return d.outcome }

// Candidate returns the layout the item would take if dropped now.
func (d *Drag) Candidate() geom.Rect { return d.candidate }

// Move updates the candidate from the pointer's offset to the start point.
func (d *Drag) Move(pointer geom.Point) geom.Rect {
	dc, dr := d.e.Metrics().CellDelta(pointer.X-d.start.X, pointer.Y-d.start.Y)
	return d.MoveTo(d.origin.Translate(dc, dr))
}

// MoveTo sets the candidate position in cells. The size is kept and the
// origin is clamped to the grid and to row geom.MaxCoord.
func (d *Drag) MoveTo(r geom.Rect) geom.Rect {
	if d.done {
		return d.candidate
	}
	cols := d.e.cfg.Columns
	c := geom.Rect{X: r.X, Y: r.Y, W: d.origin.W, H: d.origin.H}
	c.X = min(max(c.X, 1), max(cols-c.W+1, 1))
	c.Y = min(max(c.Y, 1), geom.MaxCoord)
	d.candidate = c
	return c
}

// End drops the item. A colliding candidate is pushed down one row at a time;
// if no free row is found within MaxDragAttempts the item stays where it was.
// It returns the final layout and whether the item moved.
func (d *Drag) End() (geom.Rect, bool) {
	if d.done {
		return d.origin, false
	}
	d.done = true
	e := d.e
	e.finish(d)

	it := e.find(d.id)
	if it == nil {
		d.outcome = DropReverted
		return d.origin, false
	}

	final, outcome, attempts := d.origin, DropReverted, 0
	switch {
	case d.candidate == d.origin:
		outcome = DropUnchanged
	case !e.Collides(d.candidate, d.id):
		final, outcome = d.candidate, DropPlaced
	default:
		r, n := e.scanDown(d.candidate, d.id, e.maxDrag)
		attempts = n
		if !e.Collides(r, d.id) {
			final, outcome = r, DropRelocated
		}
	}
	d.outcome = outcome
	observability.Grid().OnDrop(d.id, outcome, attempts)
	if outcome == DropReverted {
		e.logger.Debug("drop reverted", "id", d.id, "candidate", d.candidate.String(), "attempts", attempts)
	}

	it.Layout = final
	if final == d.origin {
		return final, false
	}
	e.emit(Event{Type: EventItemMoved, ItemID: d.id, Layout: final, Previous: d.origin})
	return final, true
}

// MoveResult describes a drop made by MoveItem.
type MoveResult struct {
	Layout  geom.Rect
	Moved   bool
	Outcome string
}

// MoveItem drags id straight to the cell (x, y) and drops it. It returns
// false if the item does not exist or another interaction is active.
func (e *Engine) MoveItem(id, x, y int) (MoveResult, bool) {
	d, ok := e.BeginDrag(id, geom.Point{})
	if !ok {
		return MoveResult{}, false
	}
	d.MoveTo(geom.Rect{X: x, Y: y})
	final, moved := d.End()
	return MoveResult{Layout: final, Moved: moved, Outcome: d.Outcome()}, true
}

// Cancel abandons the drag without changing the item.
func (d *Drag) Cancel() {
	if d.done {
		return
	}
	d.done = true
	d.e.finish(d)
}
