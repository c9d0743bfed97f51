// Package dot renders mind maps as Graphviz graphs.
//
// [ToDOT] writes a left-to-right digraph of the visible nodes. It ignores the
// engine's computed coordinates and lets Graphviz do its own ranking, which
// makes it useful for quick previews and for diffing tree structure in text.
// [RenderSVG] runs the DOT source through the WebAssembly build of Graphviz
// bundled with github.com/goccy/go-graphviz, so no system install is needed.
//
//	e := mindmap.New(mindmap.DefaultConfig())
//	e.NewMap()
//	src := dot.ToDOT(e, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, src)
package dot
