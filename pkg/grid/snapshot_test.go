package grid

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/meldgrid/pkg/errors"
	"github.com/matzehuels/meldgrid/pkg/geom"
)

func TestGetLayout_DeepCopy(t *testing.T) {
	e := newEngine(t)
	id, _ := e.AddItem(geom.R(1, 1, 2, 2), json.RawMessage(`{"a":1}`))

	s := e.GetLayout()
	s.Items[0].Layout.X = 9
	s.Items[0].Payload[1] = 'Z'

	it, _ := e.Item(id)
	if it.Layout.X != 1 || string(it.Payload) != `{"a":1}` {
		t.Errorf("snapshot aliases engine state: %+v", it)
	}
}

func TestLoadLayout_RoundTrip(t *testing.T) {
	e := newEngine(t)
	mustAdd(t, e, geom.R(1, 1, 4, 2))
	b := mustAdd(t, e, geom.R(5, 1, 4, 2))
	mustAdd(t, e, geom.R(1, 3, 12, 1))
	e.RemoveItem(b)

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	s, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatal(err)
	}
	other, err := FromSnapshot(s)
	if err != nil {
		t.Fatal(err)
	}

	want, got := e.Items(), other.Items()
	if len(got) != len(want) {
		t.Fatalf("loaded %d items, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Layout != want[i].Layout {
			t.Errorf("item %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if other.NextID() != 3 {
		t.Errorf("NextID = %d, want 3", other.NextID())
	}
	if id := mustAdd(t, other, geom.R(1, 1, 1, 1)); id != 4 {
		t.Errorf("next id after load = %d, want 4", id)
	}
}

func TestLoadLayout_RelocatesAndSkips(t *testing.T) {
	e := newEngine(t)
	e.LoadLayout(Snapshot{
		NextID: 2,
		Items: []Item{
			{ID: 1, Layout: geom.R(1, 1, 4, 2)},
			{ID: 2, Layout: geom.R(1, 1, 4, 2)},
			{ID: 5, Layout: geom.R(1, 1, 0, 2)},
			{ID: 2, Layout: geom.R(8, 1, 2, 2)},
		},
	})

	if e.Len() != 3 {
		t.Fatalf("Len = %d, want 3", e.Len())
	}
	assertNoOverlap(t, e)
	if got := layoutOf(t, e, 2); got != geom.R(1, 3, 4, 2) {
		t.Errorf("overlapping entry placed at %v, want %v", got, geom.R(1, 3, 4, 2))
	}
	// the duplicate id 2 is given a fresh one
	items := e.Items()
	if items[2].ID != 3 {
		t.Errorf("duplicate id reassigned to %d, want 3", items[2].ID)
	}
	if e.NextID() != 3 {
		t.Errorf("NextID = %d, want 3", e.NextID())
	}
}

func TestLoadLayout_KeepsLargerCounter(t *testing.T) {
	e := newEngine(t)
	e.LoadLayout(Snapshot{NextID: 40, Items: []Item{{ID: 3, Layout: geom.R(1, 1, 1, 1)}}})
	if e.NextID() != 40 {
		t.Errorf("NextID = %d, want 40", e.NextID())
	}
}

func TestDecodeSnapshot(t *testing.T) {
	s, err := DecodeSnapshot([]byte(`{"items":[{"id":1,"config":{"k":"v"},"layout":{"x":2,"y":3,"w":4,"h":5}}],"itemIdCounter":1}`))
	if err != nil {
		t.Fatal(err)
	}
	if s.Options != DefaultConfig() {
		t.Errorf("missing options not defaulted: %+v", s.Options)
	}
	if len(s.Items) != 1 || s.Items[0].Layout != geom.R(2, 3, 4, 5) || string(s.Items[0].Payload) != `{"k":"v"}` {
		t.Errorf("items = %+v", s.Items)
	}

	if _, err := DecodeSnapshot([]byte(`{`)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("DecodeSnapshot(garbage) error = %v", err)
	}
}
