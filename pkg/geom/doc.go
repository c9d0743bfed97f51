// Package geom provides the geometry primitives shared by the layout engines.
//
// Two coordinate spaces are used:
//
//   - [Rect]: integer grid units with a 1-based origin, used by the grid
//     placement engine. Overlap uses half-open intervals so touching edges
//     never collide, and all arithmetic is exact.
//   - [Box]: float64 layout units, used by the mind map engine where nodes
//     are positioned by their center and nudged apart after dragging.
//
// Both are plain values; none of the functions retain their arguments.
package geom
