package geom

import "math"

// Point is a position in pixel or layout space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is an axis-aligned rectangle in float layout space.
// X and Y are the top-left corner.
type Box struct {
	X, Y, W, H float64
}

// BoxAround returns the w×h box centered on c.
func BoxAround(c Point, w, h float64) Box {
	return Box{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (b Box) Right() float64 { return b.X + b.W }

// Bottom returns the y-coordinate of the bottom edge.
func (b Box) Bottom() float64 { return b.Y + b.H }

// Empty reports whether b has no area.
func (b Box) Empty() bool { return b.W <= 0 || b.H <= 0 }

// Union returns the smallest box containing both b and o.
// An empty operand is ignored.
func (b Box) Union(o Box) Box {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	x0 := math.Min(b.X, o.X)
	y0 := math.Min(b.Y, o.Y)
	x1 := math.Max(b.Right(), o.Right())
	y1 := math.Max(b.Bottom(), o.Bottom())
	return Box{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Center returns the midpoint of b.
func (b Box) Center() Point {
	return Point{X: b.X + b.W/2, Y: b.Y + b.H/2}
}

// OverlapExtents returns how far a and b overlap on each axis.
// Either extent is 0 when the boxes are disjoint on that axis.
func OverlapExtents(a, b Box) (dx, dy float64) {
	dx = math.Max(0, math.Min(a.Right(), b.Right())-math.Max(a.X, b.X))
	dy = math.Max(0, math.Min(a.Bottom(), b.Bottom())-math.Max(a.Y, b.Y))
	return dx, dy
}

// Intersects reports whether a and b overlap with positive area.
func Intersects(a, b Box) bool {
	dx, dy := OverlapExtents(a, b)
	return dx > 0 && dy > 0
}

// Bounds returns the union of all boxes, or the zero Box if there are none.
func Bounds(boxes []Box) Box {
	var out Box
	for _, b := range boxes {
		out = out.Union(b)
	}
	return out
}
