// Package grid implements the dashboard grid placement engine.
//
// An [Engine] owns a set of rectangular items on an integer grid with a fixed
// number of columns and an unbounded number of rows. Its central guarantee is
// that no two items overlap once a public operation returns.
//
// # Placement
//
// [Engine.AddItem] clamps the requested rectangle (minimum size, 1-based
// origin, column overflow) and then scans downwards one row at a time until a
// free slot is found. The scan is bounded by [DefaultMaxPlacementAttempts];
// when the bound is hit the last attempted slot is accepted and a warning is
// logged. This is a best-effort guarantee, not a strict one.
//
// [Engine.UpdateItemLayout] is strict: an invalid or colliding layout is
// rejected without mutation.
//
// # Interaction
//
// Pointer-driven moves and resizes run as sessions:
//
//	d, ok := eng.BeginDrag(id, geom.Point{X: 10, Y: 10})
//	d.Move(geom.Point{X: 130, Y: 70}) // candidate only, nothing committed
//	final, moved := d.End()
//
// On drop a colliding candidate is pushed down up to [DefaultMaxDragAttempts]
// rows before the item reverts to where it started. A resize that collides
// reverts immediately. Pixel deltas are quantized to cells through [Metrics].
//
// # Notifications
//
// Callers subscribe with [Engine.On] to the events listed in [EventType]. A
// listener that panics is recovered and logged; other listeners still run.
//
// # Concurrency
//
// An Engine is a single-writer structure with no internal locking. Callers
// that share one across goroutines must serialise access themselves.
package grid
