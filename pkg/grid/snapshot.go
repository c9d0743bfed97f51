package grid

import (
	"encoding/json"

	"github.com/matzehuels/meldgrid/pkg/errors"
)

// Snapshot is the serialisable state of an engine.
type Snapshot struct {
	Items   []Item `json:"items"`
	NextID  int    `json:"itemIdCounter"`
	Options Config `json:"options"`
}

// GetLayout returns a deep copy of the engine state.
func (e *Engine) GetLayout() Snapshot {
	return Snapshot{Items: e.Items(), NextID: e.nextID, Options: e.cfg}
}

// LoadLayout replaces every item with those in s. Items are re-added through
// the AddItem path, so overlapping entries are relocated and entries with a
// non-positive size are skipped. Stored identifiers are kept when they are
// positive and unique. The id counter becomes the larger of s.NextID and the
// highest loaded id. An active interaction is cancelled.
//
// s.Options is ignored; use FromSnapshot to build an engine with them.
func (e *Engine) LoadLayout(s Snapshot) bool {
	if e.active != nil {
		e.active.Cancel()
	}
	e.items = nil
	e.nextID = 0

	maxID := 0
	for i, it := range s.Items {
		id, err := e.add(it.Layout, it.Payload, it.ID)
		if err != nil {
			e.logger.Warn("skipping malformed item", "index", i, "id", it.ID, "err", err)
			continue
		}
		maxID = max(maxID, id)
	}
	e.nextID = max(s.NextID, maxID)
	e.logger.Debug("layout loaded", "items", len(e.items), "next_id", e.nextID)
	e.emit(Event{Type: EventLayoutLoaded, Count: len(e.items)})
	return true
}

// FromSnapshot builds an engine with s.Options and loads s into it.
func FromSnapshot(s Snapshot, opts ...Option) (*Engine, error) {
	e, err := New(s.Options, opts...)
	if err != nil {
		return nil, err
	}
	e.LoadLayout(s)
	return e, nil
}

// MarshalJSON encodes the current layout.
func (e *Engine) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.GetLayout())
}

// DecodeSnapshot parses a JSON snapshot. Missing options fall back to
// DefaultConfig.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	s := Snapshot{Options: DefaultConfig()}
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode grid layout")
	}
	return s, nil
}
