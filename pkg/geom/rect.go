package geom

import "fmt"

// Rect is an axis-aligned rectangle on the integer grid.
// X and Y are the 1-based column and row of the top-left cell;
// W and H are the spans in cells.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// MaxCoord bounds every coordinate and span of a valid Rect. With both
// origin and span at most MaxCoord, Right and Bottom cannot overflow.
const MaxCoord = 1 << 20

// R is shorthand for Rect{X: x, Y: y, W: w, H: h}.
func R(x, y, w, h int) Rect { return Rect{X: x, Y: y, W: w, H: h} }

// Right returns the first column past the right edge (exclusive).
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the first row past the bottom edge (exclusive).
func (r Rect) Bottom() int { return r.Y + r.H }

// Valid reports whether r has positive dimensions, a positive origin, and
// no field above MaxCoord.
func (r Rect) Valid() bool {
	return r.W > 0 && r.H > 0 && r.X >= 1 && r.Y >= 1 && r.InRange()
}

// InRange reports whether no field of r exceeds MaxCoord.
func (r Rect) InRange() bool {
	return r.X <= MaxCoord && r.Y <= MaxCoord && r.W <= MaxCoord && r.H <= MaxCoord
}

// FitsColumns reports whether r lies within a grid of the given column count.
func (r Rect) FitsColumns(columns int) bool {
	return r.X+r.W-1 <= columns
}

// Translate returns r moved by (dx, dy) cells.
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Area returns the number of cells covered by r.
func (r Rect) Area() int {
	if r.W <= 0 || r.H <= 0 {
		return 0
	}
	return r.W * r.H
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

// Overlaps reports whether a and b share at least one cell.
// Rectangles that only touch along an edge do not overlap, and neither do
// rectangles with a non-positive span.
func Overlaps(a, b Rect) bool {
	return spansOverlap(a.X, a.W, b.X, b.W) && spansOverlap(a.Y, a.H, b.Y, b.H)
}

// spansOverlap reports whether [p, p+n) and [q, q+m) intersect. The ends are
// never computed, so spans reaching past math.MaxInt compare correctly as
// long as the starts are non-negative.
func spansOverlap(p, n, q, m int) bool {
	if n <= 0 || m <= 0 {
		return false
	}
	if p <= q {
		return q-p < n
	}
	return p-q < m
}
