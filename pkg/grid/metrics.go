package grid

import "math"

// Metrics converts between pixels and grid cells for one container width.
type Metrics struct {
	CellWidth  float64
	CellHeight float64
	Gap        float64
}

// Metrics returns the cell geometry for a container whose content box is
// containerWidth pixels wide. A non-positive width yields square cells of
// RowHeight pixels.
func (c Config) Metrics(containerWidth float64) Metrics {
	c = c.withDefaults()
	cw := c.RowHeight
	if containerWidth > 0 {
		cw = (containerWidth - float64(c.Columns-1)*c.Gap) / float64(c.Columns)
	}
	return Metrics{CellWidth: cw, CellHeight: c.RowHeight, Gap: c.Gap}
}

// CellDelta converts a pointer delta in pixels to a delta in cells, rounding
// to the nearest cell with halves rounded up.
func (m Metrics) CellDelta(dx, dy float64) (cols, rows int) {
	return roundHalfUp(dx / (m.CellWidth + m.Gap)), roundHalfUp(dy / (m.CellHeight + m.Gap))
}

// ItemHeight returns the pixel height of an item spanning h rows.
func (m Metrics) ItemHeight(h int) float64 {
	return float64(h)*m.CellHeight + float64(h-1)*m.Gap
}

// ItemWidth returns the pixel width of an item spanning w columns.
func (m Metrics) ItemWidth(w int) float64 {
	return float64(w)*m.CellWidth + float64(w-1)*m.Gap
}

// Origin returns the pixel offset of the top-left corner of cell (x, y).
func (m Metrics) Origin(x, y int) (px, py float64) {
	return float64(x-1) * (m.CellWidth + m.Gap), float64(y-1) * (m.CellHeight + m.Gap)
}

// roundHalfUp rounds .5 towards positive infinity, so a pointer that has
// moved exactly half a cell left stays put.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
