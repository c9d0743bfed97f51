package grid

import (
	"encoding/json"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meldgrid/pkg/errors"
	"github.com/matzehuels/meldgrid/pkg/geom"
	"github.com/matzehuels/meldgrid/pkg/observability"
)

// Scan bounds for automatic relocation.
const (
	DefaultMaxPlacementAttempts = 50
	DefaultMaxDragAttempts      = 30
)

// Item is a grid item. Values returned by the engine are copies.
type Item struct {
	ID      int             `json:"id"`
	Payload json.RawMessage `json:"config,omitempty"`
	Layout  geom.Rect       `json:"layout"`
}

func (it Item) clone() Item {
	it.Payload = clonePayload(it.Payload)
	return it
}

func clonePayload(p json.RawMessage) json.RawMessage {
	if p == nil {
		return nil
	}
	return append(json.RawMessage(nil), p...)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for placement warnings and listener panics.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMaxPlacementAttempts bounds the downward scan in AddItem.
func WithMaxPlacementAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxPlace = n
		}
	}
}

// WithMaxDragAttempts bounds the downward scan when a drag is dropped.
func WithMaxDragAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxDrag = n
		}
	}
}

// Engine owns grid items and keeps them free of overlaps.
type Engine struct {
	cfg      Config
	items    []*Item
	nextID   int
	maxPlace int
	maxDrag  int
	width    float64
	logger   *log.Logger
	bus      bus
	active   session
}

// session is an in-progress drag or resize.
type session interface {
	itemID() int
	Cancel()
}

// New builds an empty engine for cfg.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:      cfg.withDefaults(),
		maxPlace: DefaultMaxPlacementAttempts,
		maxDrag:  DefaultMaxDragAttempts,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// SetContainerWidth sets the pixel width used to quantize pointer deltas.
func (e *Engine) SetContainerWidth(px float64) { e.width = px }

// Metrics returns the current pixel/cell conversion.
func (e *Engine) Metrics() Metrics { return e.cfg.Metrics(e.width) }

// Len returns the number of items.
func (e *Engine) Len() int { return len(e.items) }

// NextID returns the last identifier handed out. The next item gets NextID()+1.
func (e *Engine) NextID() int { return e.nextID }

// Item returns a copy of the item with the given id.
func (e *Engine) Item(id int) (Item, bool) {
	if it := e.find(id); it != nil {
		return it.clone(), true
	}
	return Item{}, false
}

// Items returns copies of all items in insertion order.
func (e *Engine) Items() []Item {
	out := make([]Item, len(e.items))
	for i, it := range e.items {
		out[i] = it.clone()
	}
	return out
}

// Collides reports whether r overlaps any item other than exceptID.
// Pass 0 to test against every item.
func (e *Engine) Collides(r geom.Rect, exceptID int) bool {
	for _, it := range e.items {
		if it.ID != exceptID && geom.Overlaps(r, it.Layout) {
			return true
		}
	}
	return false
}

// AddItem places a new item as close to layout as possible and returns its id.
//
// A layout with any field above geom.MaxCoord is refused with
// INVALID_LAYOUT. The requested size is raised to the configured minimum, the origin is
// clamped to (1, 1), and an item overflowing the right edge is shifted left
// or, if wider than the grid, narrowed to the full width. The item then moves
// down one row at a time until it no longer collides. After
// MaxPlacementAttempts rows the last slot is accepted as is.
func (e *Engine) AddItem(layout geom.Rect, payload json.RawMessage) (int, error) {
	return e.add(layout, payload, 0)
}

func (e *Engine) add(layout geom.Rect, payload json.RawMessage, wantID int) (int, error) {
	if layout.W <= 0 || layout.H <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidLayout, "item size must be positive, got %dx%d", layout.W, layout.H)
	}
	if !layout.InRange() {
		return 0, errors.New(errors.ErrCodeInvalidLayout, "layout %s exceeds the %d cell limit", layout, geom.MaxCoord)
	}
	r := e.normalize(layout)
	r, attempts := e.scanDown(r, 0, e.maxPlace)
	exhausted := e.Collides(r, 0)
	if exhausted {
		e.logger.Warn("placement attempts exhausted, accepting overlapping slot",
			"layout", r.String(), "attempts", attempts)
	}

	id := wantID
	if id <= 0 || e.find(id) != nil {
		id = e.nextID + 1
	}
	if id > e.nextID {
		e.nextID = id
	}

	it := &Item{ID: id, Layout: r, Payload: clonePayload(payload)}
	e.items = append(e.items, it)
	observability.Grid().OnPlace(id, attempts, exhausted)
	e.logger.Debug("item added", "id", id, "layout", r.String(), "attempts", attempts)
	e.emit(Event{Type: EventItemAdded, ItemID: id, Layout: r, Payload: clonePayload(payload)})
	return id, nil
}

// normalize applies the minimum-size, origin and column-overflow clamps.
func (e *Engine) normalize(r geom.Rect) geom.Rect {
	r.W = max(r.W, e.cfg.MinItemW)
	r.H = max(r.H, e.cfg.MinItemH)
	r.X = max(r.X, 1)
	r.Y = max(r.Y, 1)
	if !r.FitsColumns(e.cfg.Columns) {
		if r.W <= e.cfg.Columns {
			r.X = e.cfg.Columns - r.W + 1
		} else {
			r.W = e.cfg.Columns
			r.X = 1
		}
	}
	return r
}

// scanDown moves r down one row at a time while it collides with an item
// other than exceptID, for at most limit rows and never past row MaxCoord.
// It returns the last position
// tried and the number of rows moved.
func (e *Engine) scanDown(r geom.Rect, exceptID, limit int) (geom.Rect, int) {
	attempts := 0
	for attempts < limit && r.Y < geom.MaxCoord && e.Collides(r, exceptID) {
		r.Y++
		attempts++
	}
	return r, attempts
}

// RemoveItem deletes an item. An interaction on that item is cancelled.
func (e *Engine) RemoveItem(id int) bool {
	for i, it := range e.items {
		if it.ID != id {
			continue
		}
		if e.active != nil && e.active.itemID() == id {
			e.active.Cancel()
		}
		e.items = append(e.items[:i], e.items[i+1:]...)
		e.logger.Debug("item removed", "id", id)
		e.emit(Event{Type: EventItemRemoved, ItemID: id, Layout: it.Layout, Payload: clonePayload(it.Payload)})
		return true
	}
	return false
}

// UpdateItemLayout replaces an item's layout. Unlike AddItem nothing is
// adjusted: an invalid, out-of-bounds or colliding layout is refused and the
// item is left untouched.
func (e *Engine) UpdateItemLayout(id int, layout geom.Rect) bool {
	it := e.find(id)
	if it == nil {
		return false
	}
	if !layout.Valid() || !layout.FitsColumns(e.cfg.Columns) {
		e.logger.Debug("layout update rejected", "id", id, "layout", layout.String(), "reason", "invalid")
		return false
	}
	if e.Collides(layout, id) {
		e.logger.Debug("layout update rejected", "id", id, "layout", layout.String(), "reason", "collision")
		e.emit(Event{Type: EventItemLayoutUpdateFailed, ItemID: id, Layout: layout, Previous: it.Layout, Reason: "collision"})
		return false
	}
	prev := it.Layout
	it.Layout = layout
	e.emit(Event{Type: EventItemLayoutUpdated, ItemID: id, Layout: layout, Previous: prev})
	return true
}

// UpdateItemPayload replaces an item's opaque payload.
func (e *Engine) UpdateItemPayload(id int, payload json.RawMessage) bool {
	it := e.find(id)
	if it == nil {
		return false
	}
	it.Payload = clonePayload(payload)
	e.emit(Event{Type: EventItemPayloadUpdated, ItemID: id, Layout: it.Layout, Payload: clonePayload(payload)})
	return true
}

func (e *Engine) find(id int) *Item {
	for _, it := range e.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// begin registers s as the active interaction, failing if one is running.
func (e *Engine) begin(s session) bool {
	if e.active != nil {
		return false
	}
	e.active = s
	return true
}

func (e *Engine) finish(s session) {
	if e.active == s {
		e.active = nil
	}
}
