package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	g := NoopGridHooks{}
	g.OnPlace(1, 3, false)
	g.OnDrop(1, "reverted", 30)
	g.OnResize(1, true)

	tr := NoopTreeHooks{}
	tr.OnLayout(12, time.Millisecond)
	tr.OnCollisionPass("node", 2)

	s := NoopStoreHooks{}
	s.OnLoad(ctx, "file", "grid:main", true, time.Millisecond, nil)
	s.OnSave(ctx, "file", "grid:main", 512, time.Millisecond, nil)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/grids/{name}", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Grid().(NoopGridHooks); !ok {
		t.Error("Grid() should return NoopGridHooks by default")
	}
	if _, ok := Tree().(NoopTreeHooks); !ok {
		t.Error("Tree() should return NoopTreeHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customGrid := &testGridHooks{}
	SetGridHooks(customGrid)
	if Grid() != customGrid {
		t.Error("SetGridHooks should set custom hooks")
	}

	customTree := &testTreeHooks{}
	SetTreeHooks(customTree)
	if Tree() != customTree {
		t.Error("SetTreeHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Grid().(NoopGridHooks); !ok {
		t.Error("Reset() should restore NoopGridHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testGridHooks{}
	SetGridHooks(custom)
	SetGridHooks(nil)

	if Grid() != custom {
		t.Error("SetGridHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testGridHooks struct{ NoopGridHooks }
type testTreeHooks struct{ NoopTreeHooks }
type testStoreHooks struct{ NoopStoreHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
