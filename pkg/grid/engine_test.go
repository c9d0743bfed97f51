package grid

import (
	"encoding/json"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/matzehuels/meldgrid/pkg/errors"
	"github.com/matzehuels/meldgrid/pkg/geom"
)

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(DefaultConfig(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func mustAdd(t *testing.T, e *Engine, r geom.Rect) int {
	t.Helper()
	id, err := e.AddItem(r, nil)
	if err != nil {
		t.Fatalf("AddItem(%v): %v", r, err)
	}
	return id
}

func layoutOf(t *testing.T, e *Engine, id int) geom.Rect {
	t.Helper()
	it, ok := e.Item(id)
	if !ok {
		t.Fatalf("item %d not found", id)
	}
	return it.Layout
}

// assertNoOverlap fails if any two items share a cell. It checks cell
// occupancy on a grid compressed to the items' edges, so it does not rely on
// geom.Overlaps and stays cheap for very tall items.
func assertNoOverlap(t *testing.T, e *Engine) {
	t.Helper()
	items := e.Items()
	var xs, ys []int
	for _, it := range items {
		l := it.Layout
		if !l.Valid() {
			t.Fatalf("item %d has invalid layout %v", it.ID, l)
		}
		xs = append(xs, l.X, l.X+l.W)
		ys = append(ys, l.Y, l.Y+l.H)
	}
	xs, ys = uniqueSorted(xs), uniqueSorted(ys)

	owner := map[[2]int]int{}
	for _, it := range items {
		l := it.Layout
		for i := sort.SearchInts(xs, l.X); xs[i] < l.X+l.W; i++ {
			for j := sort.SearchInts(ys, l.Y); ys[j] < l.Y+l.H; j++ {
				if prev, taken := owner[[2]int{i, j}]; taken {
					t.Fatalf("items %d and %d both cover the cell at column %d, row %d",
						prev, it.ID, xs[i], ys[j])
				}
				owner[[2]int{i, j}] = it.ID
			}
		}
	}
}

func uniqueSorted(v []int) []int {
	sort.Ints(v)
	out := v[:0]
	for i, x := range v {
		if i == 0 || x != v[i-1] {
			out = append(out, x)
		}
	}
	return out
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := map[string]Config{
		"zero columns":     {Columns: 0, MinItemW: 1, MinItemH: 1},
		"zero min width":   {Columns: 12, MinItemW: 0, MinItemH: 1},
		"min wider than":   {Columns: 4, MinItemW: 5, MinItemH: 1},
		"negative gap":     {Columns: 12, MinItemW: 1, MinItemH: 1, Gap: -1},
		"zero min height":  {Columns: 12, MinItemW: 1, MinItemH: 0},
		"too many columns": {Columns: geom.MaxCoord + 1, MinItemW: 1, MinItemH: 1},
	}
	for name, cfg := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := New(cfg)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("New(%+v) error = %v, want %s", cfg, err, errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestAddItem_Clamps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinItemW, cfg.MinItemH = 2, 2
	e, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		in   geom.Rect
		want geom.Rect
	}{
		{"min size", geom.R(1, 1, 1, 1), geom.R(1, 1, 2, 2)},
		{"origin", geom.R(-3, 0, 2, 2), geom.R(1, 1, 2, 2)},
		{"shift left", geom.R(10, 1, 4, 2), geom.R(9, 1, 4, 2)},
		{"too wide", geom.R(3, 1, 20, 2), geom.R(1, 1, 12, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e.LoadLayout(Snapshot{})
			id := mustAdd(t, e, tt.in)
			if got := layoutOf(t, e, id); got != tt.want {
				t.Errorf("AddItem(%v) placed at %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAddItem_RejectsNonPositiveSize(t *testing.T) {
	e := newEngine(t)
	for _, r := range []geom.Rect{geom.R(1, 1, 0, 1), geom.R(1, 1, 1, 0), geom.R(1, 1, -2, 3)} {
		if _, err := e.AddItem(r, nil); !errors.Is(err, errors.ErrCodeInvalidLayout) {
			t.Errorf("AddItem(%v) error = %v, want %s", r, err, errors.ErrCodeInvalidLayout)
		}
	}
	if e.Len() != 0 {
		t.Errorf("Len = %d, want 0", e.Len())
	}
}

func TestAddItem_RejectsOversizedLayout(t *testing.T) {
	e := newEngine(t)
	a := mustAdd(t, e, geom.R(1, 1, 4, 2))
	for _, r := range []geom.Rect{
		geom.R(1, 1, 4, math.MaxInt),
		geom.R(1, 1, math.MaxInt, 2),
		geom.R(1, math.MaxInt, 4, 2),
		geom.R(math.MaxInt, 1, 4, 2),
		geom.R(1, 1, 4, geom.MaxCoord+1),
	} {
		if _, err := e.AddItem(r, nil); !errors.Is(err, errors.ErrCodeInvalidLayout) {
			t.Errorf("AddItem(%v) error = %v, want %s", r, err, errors.ErrCodeInvalidLayout)
		}
	}
	if e.Len() != 1 || layoutOf(t, e, a) != geom.R(1, 1, 4, 2) {
		t.Errorf("grid changed by rejected adds: %v", e.Items())
	}
}

func TestAddItem_TallestItemIsRelocated(t *testing.T) {
	e := newEngine(t)
	mustAdd(t, e, geom.R(1, 1, 4, 2))
	id := mustAdd(t, e, geom.R(1, 1, 4, geom.MaxCoord))
	if got, want := layoutOf(t, e, id), geom.R(1, 3, 4, geom.MaxCoord); got != want {
		t.Errorf("tall item at %v, want %v", got, want)
	}
	assertNoOverlap(t, e)
}

func TestAddItem_ScansDown(t *testing.T) {
	e := newEngine(t)
	a := mustAdd(t, e, geom.R(1, 1, 4, 2))
	b := mustAdd(t, e, geom.R(1, 1, 4, 2))

	if got := layoutOf(t, e, a); got != geom.R(1, 1, 4, 2) {
		t.Errorf("first item at %v", got)
	}
	// rows 1-2 are taken, so the second item lands on row 3
	if got := layoutOf(t, e, b); got != geom.R(1, 3, 4, 2) {
		t.Errorf("second item at %v, want %v", got, geom.R(1, 3, 4, 2))
	}
	if b != a+1 {
		t.Errorf("ids not monotonic: %d then %d", a, b)
	}
}

func TestAddItem_ExhaustedAcceptsLastSlot(t *testing.T) {
	e := newEngine(t, WithMaxPlacementAttempts(3))
	mustAdd(t, e, geom.R(1, 1, 12, 10))
	id := mustAdd(t, e, geom.R(1, 1, 2, 2))

	// three rows down is still inside the blocker
	if got := layoutOf(t, e, id); got != geom.R(1, 4, 2, 2) {
		t.Errorf("placed at %v, want %v", got, geom.R(1, 4, 2, 2))
	}
}

func TestRemoveItem(t *testing.T) {
	e := newEngine(t)
	a := mustAdd(t, e, geom.R(1, 1, 2, 2))
	b := mustAdd(t, e, geom.R(3, 1, 2, 2))

	if !e.RemoveItem(a) {
		t.Fatal("RemoveItem returned false")
	}
	if e.RemoveItem(a) {
		t.Error("second RemoveItem returned true")
	}
	if _, ok := e.Item(a); ok {
		t.Error("removed item still present")
	}
	c := mustAdd(t, e, geom.R(1, 1, 2, 2))
	if c <= b {
		t.Errorf("id %d reused after removal, want > %d", c, b)
	}
}

func TestUpdateItemLayout(t *testing.T) {
	e := newEngine(t)
	a := mustAdd(t, e, geom.R(1, 1, 4, 2))
	b := mustAdd(t, e, geom.R(5, 1, 4, 2))

	tests := []struct {
		name string
		id   int
		r    geom.Rect
		want bool
	}{
		{"unknown id", 99, geom.R(1, 5, 1, 1), false},
		{"zero width", a, geom.R(1, 1, 0, 2), false},
		{"zero origin", a, geom.R(0, 1, 4, 2), false},
		{"past columns", a, geom.R(10, 1, 4, 2), false},
		{"collision", a, geom.R(3, 1, 4, 2), false},
		{"free slot", a, geom.R(1, 3, 6, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := e.Items()
			got := e.UpdateItemLayout(tt.id, tt.r)
			if got != tt.want {
				t.Fatalf("UpdateItemLayout(%d, %v) = %v, want %v", tt.id, tt.r, got, tt.want)
			}
			if !got {
				after := e.Items()
				for i := range before {
					if before[i].Layout != after[i].Layout {
						t.Errorf("rejected update mutated item %d: %v -> %v", before[i].ID, before[i].Layout, after[i].Layout)
					}
				}
			}
		})
	}
	if got := layoutOf(t, e, b); got != geom.R(5, 1, 4, 2) {
		t.Errorf("bystander moved to %v", got)
	}
}

func TestUpdateItemPayload(t *testing.T) {
	e := newEngine(t)
	id, err := e.AddItem(geom.R(1, 1, 2, 2), json.RawMessage(`{"title":"cpu"}`))
	if err != nil {
		t.Fatal(err)
	}
	if !e.UpdateItemPayload(id, json.RawMessage(`{"title":"mem"}`)) {
		t.Fatal("UpdateItemPayload returned false")
	}
	it, _ := e.Item(id)
	if string(it.Payload) != `{"title":"mem"}` {
		t.Errorf("payload = %s", it.Payload)
	}
	it.Payload[2] = 'X'
	again, _ := e.Item(id)
	if string(again.Payload) != `{"title":"mem"}` {
		t.Error("Item returned a payload aliasing engine state")
	}
	if e.UpdateItemPayload(42, nil) {
		t.Error("UpdateItemPayload on unknown id returned true")
	}
}

func TestNoOverlapAfterRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	e := newEngine(t, WithMaxPlacementAttempts(1000))
	e.SetContainerWidth(1200)

	for step := 0; step < 400; step++ {
		ids := e.Items()
		switch op := rng.Intn(5); {
		case op <= 1 || len(ids) == 0:
			r := geom.R(rng.Intn(14)-1, rng.Intn(8)-1, 1+rng.Intn(6), 1+rng.Intn(4))
			if _, err := e.AddItem(r, nil); err != nil {
				t.Fatalf("step %d: AddItem(%v): %v", step, r, err)
			}
		case op == 2:
			id := ids[rng.Intn(len(ids))].ID
			e.UpdateItemLayout(id, geom.R(1+rng.Intn(12), 1+rng.Intn(10), 1+rng.Intn(4), 1+rng.Intn(3)))
		case op == 3:
			id := ids[rng.Intn(len(ids))].ID
			if d, ok := e.BeginDrag(id, geom.Point{}); ok {
				d.Move(geom.Point{X: float64(rng.Intn(800) - 400), Y: float64(rng.Intn(400) - 200)})
				d.End()
			}
		default:
			id := ids[rng.Intn(len(ids))].ID
			h := Handles[rng.Intn(len(Handles))]
			if r, ok := e.BeginResize(id, h, geom.Point{}); ok {
				r.MoveBy(rng.Intn(7)-3, rng.Intn(5)-2)
				r.End()
			}
		}
		assertNoOverlap(t, e)
		for _, it := range e.Items() {
			if !it.Layout.Valid() || !it.Layout.FitsColumns(12) {
				t.Fatalf("step %d: item %d out of bounds: %v", step, it.ID, it.Layout)
			}
		}
	}
}

func TestIDsUniqueAndIncreasing(t *testing.T) {
	e := newEngine(t)
	seen := map[int]bool{}
	last := 0
	for i := 0; i < 20; i++ {
		id := mustAdd(t, e, geom.R(1, 1, 3, 1))
		if seen[id] || id <= last {
			t.Fatalf("id %d after %d is not fresh", id, last)
		}
		seen[id] = true
		last = id
		if i%3 == 0 {
			e.RemoveItem(id)
		}
	}
}

func TestNoOverlapNearLimits(t *testing.T) {
	e := newEngine(t)
	tall := mustAdd(t, e, geom.R(1, 1, 4, geom.MaxCoord))
	low := mustAdd(t, e, geom.R(5, geom.MaxCoord, 4, geom.MaxCoord))
	edge := mustAdd(t, e, geom.R(9, geom.MaxCoord-1, 4, 3))

	if ok := e.UpdateItemLayout(tall, geom.R(1, 1, 4, math.MaxInt)); ok {
		t.Error("UpdateItemLayout accepted a height past the cell limit")
	}

	res, _ := e.MoveItem(edge, 1, math.MaxInt)
	if res.Moved || res.Outcome != DropReverted {
		t.Errorf("move into the tall item: %+v, want reverted", res)
	}
	res, _ = e.MoveItem(tall, 5, math.MaxInt)
	if res.Moved || res.Outcome != DropReverted {
		t.Errorf("move onto the low item: %+v, want reverted", res)
	}

	rs, ok := e.BeginResize(low, HandleSE, geom.Point{})
	if !ok {
		t.Fatal("BeginResize failed")
	}
	if c := rs.MoveBy(math.MaxInt, math.MaxInt); !c.Valid() {
		t.Errorf("resize candidate %v out of range", c)
	}
	if _, resized := rs.End(); resized {
		t.Error("resize over the edge item was accepted")
	}

	if got := layoutOf(t, e, tall); got != geom.R(1, 1, 4, geom.MaxCoord) {
		t.Errorf("tall item moved to %v", got)
	}
	assertNoOverlap(t, e)
}

func TestMoveItem_ClampsFarRow(t *testing.T) {
	e := newEngine(t)
	id := mustAdd(t, e, geom.R(1, 1, 2, 2))
	res, ok := e.MoveItem(id, math.MaxInt, math.MaxInt)
	if !ok || !res.Moved {
		t.Fatalf("MoveItem = %+v, %v", res, ok)
	}
	if want := geom.R(11, geom.MaxCoord, 2, 2); res.Layout != want {
		t.Errorf("layout = %v, want %v", res.Layout, want)
	}
}

func TestResize_HugeDeltaStaysInRange(t *testing.T) {
	e := newEngine(t)
	id := mustAdd(t, e, geom.R(1, 1, 2, 2))
	rs, ok := e.BeginResize(id, HandleSE, geom.Point{})
	if !ok {
		t.Fatal("BeginResize failed")
	}
	rs.MoveBy(math.MaxInt, math.MaxInt)
	final, resized := rs.End()
	if want := geom.R(1, 1, 12, geom.MaxCoord); !resized || final != want {
		t.Errorf("End() = %v, %v; want %v, true", final, resized, want)
	}
}
