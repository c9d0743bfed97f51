// Package render turns grids and mind maps into images.
//
// # Overview
//
// Rendering lives outside the engines; it reads their state and never mutates
// it. This package provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Exact-position SVG drawings (in [svg] subpackage)
//   - Graphviz diagrams of tree structure (in [dot] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	out := svg.Tree(engine)
//	pdf, err := render.ToPDF(ctx, out)
//	png, err := render.ToPNG(ctx, out, 2.0)  // 2x scale
//
// # SVG Drawings
//
// The [svg] subpackage draws a mind map at the coordinates the layout engine
// computed, with the same bezier connectors the interactive editor uses, and a
// grid snapshot at the pixel positions given by [grid.Metrics].
//
// # Graphviz Diagrams
//
// The [dot] subpackage writes the visible tree as a left-to-right digraph and
// renders it with the Graphviz library bundled in go-graphviz.
//
//	src := dot.ToDOT(engine, dot.Options{})
//	out, err := dot.RenderSVG(ctx, src)
//
// [svg]: github.com/matzehuels/meldgrid/pkg/render/svg
// [dot]: github.com/matzehuels/meldgrid/pkg/render/dot
// [grid.Metrics]: github.com/matzehuels/meldgrid/pkg/grid#Metrics
package render
