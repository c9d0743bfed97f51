// Package svg draws grids and mind maps as standalone SVG documents.
//
// Unlike [github.com/matzehuels/meldgrid/pkg/render/dot], which hands layout to
// Graphviz, these renderers draw exactly what the engines computed: [Tree]
// places each node box at its stored center and [Grid] converts cell
// rectangles to pixels with [grid.Metrics]. The output needs no external
// tools and can be converted further with [render.ToPNG] or [render.ToPDF].
//
// Node text may carry markdown links ("[label](https://...)"); they become
// SVG anchors. All other text is XML-escaped.
package svg
