package mindmap

import (
	"math"

	"github.com/matzehuels/meldgrid/pkg/geom"
)

// Zoom limits and steps.
const (
	MinScale       = 0.1
	MaxScale       = 3.0
	ZoomFactor     = 1.2
	WheelZoomRatio = 0.001
	FitMargin      = 100
)

// View maps layout coordinates to the screen: screen = layout*Scale + Pan.
type View struct {
	Scale float64    `json:"scale"`
	Pan   geom.Point `json:"pan"`
}

// DefaultView is the identity transform.
func DefaultView() View { return View{Scale: 1} }

// ToLayout converts a screen point to layout coordinates.
func (v View) ToLayout(p geom.Point) geom.Point {
	s := v.scale()
	return geom.Point{X: (p.X - v.Pan.X) / s, Y: (p.Y - v.Pan.Y) / s}
}

// ToScreen converts a layout point to screen coordinates.
func (v View) ToScreen(p geom.Point) geom.Point {
	s := v.scale()
	return geom.Point{X: p.X*s + v.Pan.X, Y: p.Y*s + v.Pan.Y}
}

func (v View) scale() float64 {
	if v.Scale <= 0 {
		return 1
	}
	return v.Scale
}

// zoomAround rescales to scale while keeping the screen point (px, py) fixed.
func (v View) zoomAround(scale, px, py float64) View {
	old := v.scale()
	scale = clampScale(scale)
	r := scale / old
	return View{
		Scale: scale,
		Pan:   geom.Point{X: px - (px-v.Pan.X)*r, Y: py - (py-v.Pan.Y)*r},
	}
}

// ZoomAt applies a wheel delta around the screen point (px, py). Negative
// deltas zoom in.
func (v View) ZoomAt(delta, px, py float64) View {
	return v.zoomAround(v.scale()-delta*WheelZoomRatio, px, py)
}

// ZoomStep zooms one button step in or out around the canvas center.
func (v View) ZoomStep(in bool, canvasW, canvasH float64) View {
	f := ZoomFactor
	if !in {
		f = 1 / ZoomFactor
	}
	return v.zoomAround(v.scale()*f, canvasW/2, canvasH/2)
}

// Fit returns the view that centers bounds in a canvas of the given size,
// leaving FitMargin pixels in total and never zooming in past 1. A
// degenerate bounds box is centered at scale 1.
func Fit(bounds geom.Box, canvasW, canvasH float64) View {
	if bounds.Empty() {
		c := bounds.Center()
		return View{Scale: 1, Pan: geom.Point{X: canvasW/2 - c.X, Y: canvasH/2 - c.Y}}
	}
	s := math.Min(math.Min((canvasW-FitMargin)/bounds.W, (canvasH-FitMargin)/bounds.H), 1)
	s = clampScale(s)
	c := bounds.Center()
	return View{Scale: s, Pan: geom.Point{X: canvasW/2 - c.X*s, Y: canvasH/2 - c.Y*s}}
}

func clampScale(s float64) float64 {
	return math.Max(MinScale, math.Min(MaxScale, s))
}

// View returns the current view.
func (e *Engine) View() View { return e.view }

// SetView replaces the current view.
func (e *Engine) SetView(v View) {
	if v.Scale <= 0 {
		v.Scale = 1
	}
	e.view = v
}

// Fit centers the visible tree in a canvas of the given size.
func (e *Engine) Fit(canvasW, canvasH float64) View {
	e.view = Fit(e.Bounds(), canvasW, canvasH)
	return e.view
}

// ZoomAt applies a wheel zoom around a screen point.
func (e *Engine) ZoomAt(delta, px, py float64) View {
	e.view = e.view.ZoomAt(delta, px, py)
	return e.view
}

// ZoomStep zooms one step around the canvas center.
func (e *Engine) ZoomStep(in bool, canvasW, canvasH float64) View {
	e.view = e.view.ZoomStep(in, canvasW, canvasH)
	return e.view
}

// PanBy shifts the view by a screen offset.
func (e *Engine) PanBy(dx, dy float64) View {
	e.view.Pan.X += dx
	e.view.Pan.Y += dy
	return e.view
}
