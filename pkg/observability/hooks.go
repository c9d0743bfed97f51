// Package observability lets a host process count what meldgrid does
// without meldgrid importing a metrics backend.
//
// There are four hook sets: grid placement, tree layout, store access and
// HTTP requests. Each starts as a no-op and can be replaced once at startup:
//
//	observability.SetGridHooks(promGridHooks{})
//	observability.SetStoreHooks(promStoreHooks{})
//
// The engines are synchronous and context-free, so grid and tree hooks take
// no context. Store and HTTP hooks receive the request context. Callers
// emit events through the accessors:
//
//	observability.Grid().OnPlace(id, attempts, exhausted)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Grid Hooks
// =============================================================================

// GridHooks receives events from the grid placement engine.
type GridHooks interface {
	// OnPlace records an AddItem placement. attempts is the number of rows
	// scanned past the requested position; exhausted is true when the bound
	// was hit and the last position was accepted anyway.
	OnPlace(itemID, attempts int, exhausted bool)

	// OnDrop records the end of a drag. outcome is one of "placed",
	// "relocated", "reverted" or "unchanged".
	OnDrop(itemID int, outcome string, attempts int)

	// OnResize records the end of a resize.
	OnResize(itemID int, accepted bool)
}

// =============================================================================
// Tree Hooks
// =============================================================================

// TreeHooks receives events from the mind map layout engine.
type TreeHooks interface {
	// OnLayout records a full two-pass layout.
	OnLayout(nodeCount int, duration time.Duration)

	// OnCollisionPass records a single collision resolution pass and how many
	// nodes the moved node was pushed away from.
	OnCollisionPass(movedID string, pushes int)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from document persistence.
type StoreHooks interface {
	// OnLoad records a document read.
	OnLoad(ctx context.Context, backend, key string, hit bool, duration time.Duration, err error)

	// OnSave records a document write.
	OnSave(ctx context.Context, backend, key string, size int, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records a served request.
	OnRequest(ctx context.Context, method, route string, status int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopGridHooks is a no-op implementation of GridHooks.
type NoopGridHooks struct{}

func (NoopGridHooks) OnPlace(int, int, bool)  {}
func (NoopGridHooks) OnDrop(int, string, int) {}
func (NoopGridHooks) OnResize(int, bool)      {}

// NoopTreeHooks is a no-op implementation of TreeHooks.
type NoopTreeHooks struct{}

func (NoopTreeHooks) OnLayout(int, time.Duration) {}
func (NoopTreeHooks) OnCollisionPass(string, int) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(context.Context, string, string, bool, time.Duration, error) {}
func (NoopStoreHooks) OnSave(context.Context, string, string, int, time.Duration, error)  {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	gridHooks  GridHooks  = NoopGridHooks{}
	treeHooks  TreeHooks  = NoopTreeHooks{}
	storeHooks StoreHooks = NoopStoreHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetGridHooks registers custom grid hooks.
// This should be called once at application startup before any engine is used.
func SetGridHooks(h GridHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		gridHooks = h
	}
}

// SetTreeHooks registers custom tree hooks.
func SetTreeHooks(h TreeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		treeHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Grid returns the registered grid hooks.
func Grid() GridHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return gridHooks
}

// Tree returns the registered tree hooks.
func Tree() TreeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return treeHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	gridHooks = NoopGridHooks{}
	treeHooks = NoopTreeHooks{}
	storeHooks = NoopStoreHooks{}
	httpHooks = NoopHTTPHooks{}
}
