package grid

import (
	"strings"

	"github.com/matzehuels/meldgrid/pkg/errors"
	"github.com/matzehuels/meldgrid/pkg/geom"
	"github.com/matzehuels/meldgrid/pkg/observability"
)

// Handle names the edge or corner a resize is anchored on.
type Handle string

const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNE Handle = "ne"
	HandleNW Handle = "nw"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
)

// Handles lists every resize handle.
var Handles = []Handle{HandleN, HandleS, HandleE, HandleW, HandleNE, HandleNW, HandleSE, HandleSW}

// ParseHandle converts a handle name such as "se".
func ParseHandle(s string) (Handle, error) {
	h := Handle(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range Handles {
		if h == k {
			return h, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown resize handle %q", s)
}

func (h Handle) north() bool { return strings.Contains(string(h), "n") }
func (h Handle) south() bool { return strings.Contains(string(h), "s") }
func (h Handle) east() bool  { return strings.Contains(string(h), "e") }
func (h Handle) west() bool  { return strings.Contains(string(h), "w") }

// Resize is an in-progress resize of one item. Nothing is committed until End.
type Resize struct {
	e         *Engine
	id        int
	handle    Handle
	origin    geom.Rect
	start     geom.Point
	candidate geom.Rect
	done      bool
}

// BeginResize starts resizing the item from handle h. It fails if the item
// does not exist, the handle is unknown, or another interaction is active.
func (e *Engine) BeginResize(id int, h Handle, pointer geom.Point) (*Resize, bool) {
	if _, err := ParseHandle(string(h)); err != nil {
		return nil, false
	}
	it := e.find(id)
	if it == nil {
		return nil, false
	}
	r := &Resize{e: e, id: id, handle: h, origin: it.Layout, start: pointer, candidate: it.Layout}
	if !e.begin(r) {
		return nil, false
	}
	return r, true
}

func (r *Resize) itemID() int { return r.id }

// Handle returns the handle the resize is anchored on.
func (r *Resize) Handle() Handle { return r.handle }

// Candidate returns the layout the item would take if released now.
func (r *Resize) Candidate() geom.Rect { return r.candidate }

// Move updates the candidate from the pointer's offset to the start point.
func (r *Resize) Move(pointer geom.Point) geom.Rect {
	dc, dr := r.e.Metrics().CellDelta(pointer.X-r.start.X, pointer.Y-r.start.Y)
	return r.MoveBy(dc, dr)
}

// MoveBy updates the candidate from a delta in cells relative to the
// layout the item had when the resize began.
func (r *Resize) MoveBy(dcols, drows int) geom.Rect {
	if r.done {
		return r.candidate
	}
	dcols = min(max(dcols, -geom.MaxCoord), geom.MaxCoord)
	drows = min(max(drows, -geom.MaxCoord), geom.MaxCoord)
	r.candidate = resizeRect(r.origin, r.handle, dcols, drows, r.e.cfg)
	return r.candidate
}

// resizeRect applies a handle delta to o. North and west handles keep the
// opposite edge fixed. The minimum size is applied before the column bound,
// so the column bound wins when both cannot hold.
func resizeRect(o geom.Rect, h Handle, dc, dr int, cfg Config) geom.Rect {
	c := o
	if h.north() {
		c.Y = o.Y + dr
		c.H = o.H - dr
		if c.Y < 1 {
			c.H = o.Bottom() - 1
			c.Y = 1
		}
	}
	if h.south() {
		c.H = o.H + dr
	}
	if h.west() {
		c.X = o.X + dc
		c.W = o.W - dc
		if c.X < 1 {
			c.W = o.Right() - 1
			c.X = 1
		}
	}
	if h.east() {
		c.W = o.W + dc
	}

	if c.H < cfg.MinItemH {
		c.H = cfg.MinItemH
		if h.north() {
			c.Y = max(o.Bottom()-c.H, 1)
		}
	}
	if c.W < cfg.MinItemW {
		c.W = cfg.MinItemW
		if h.west() {
			c.X = max(o.Right()-c.W, 1)
		}
	}
	c.X = max(c.X, 1)
	c.Y = min(max(c.Y, 1), geom.MaxCoord)
	c.H = min(c.H, geom.MaxCoord)

	if !c.FitsColumns(cfg.Columns) {
		if h.west() {
			c.X = max(cfg.Columns-c.W+1, 1)
		}
		if !c.FitsColumns(cfg.Columns) {
			c.W = cfg.Columns - c.X + 1
		}
	}
	return c
}

// End commits the candidate if it collides with nothing; otherwise the item
// keeps its original size. It returns the final layout and whether it changed.
func (r *Resize) End() (geom.Rect, bool) {
	if r.done {
		return r.origin, false
	}
	r.done = true
	e := r.e
	e.finish(r)

	it := e.find(r.id)
	if it == nil {
		return r.origin, false
	}
	accepted := !e.Collides(r.candidate, r.id)
	observability.Grid().OnResize(r.id, accepted)
	if !accepted {
		e.logger.Debug("resize reverted", "id", r.id, "candidate", r.candidate.String())
		return r.origin, false
	}
	it.Layout = r.candidate
	if r.candidate == r.origin {
		return r.origin, false
	}
	e.emit(Event{Type: EventItemResized, ItemID: r.id, Layout: r.candidate, Previous: r.origin})
	return r.candidate, true
}

// Cancel abandons the resize without changing the item.
func (r *Resize) Cancel() {
	if r.done {
		return
	}
	r.done = true
	r.e.finish(r)
}
