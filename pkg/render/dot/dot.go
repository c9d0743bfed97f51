package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/meldgrid/pkg/mindmap"
)

// Options configures DOT output.
type Options struct {
	// ShowIDs appends the node id below the text in each label.
	ShowIDs bool
}

// ToDOT converts the visible part of a mind map to Graphviz DOT format, laid
// out left to right from the root. The result can be rendered with [RenderSVG].
//
// Collapsed nodes are drawn with a dashed outline; their hidden children are
// omitted. Node colors become the fill color.
func ToDOT(e *mindmap.Engine, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	nodes := e.AllNodes()
	for _, n := range nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, n := range nodes {
		if n.Collapsed {
			continue
		}
		for _, c := range n.Children {
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.ID, c)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n mindmap.Node, showIDs bool) string {
	label := stripLinks(n.Text)
	if showIDs {
		label += "\n" + n.ID
	}
	return label
}

func fmtAttrs(n mindmap.Node, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.ShowIDs))}
	if n.Color != "" && !strings.EqualFold(n.Color, mindmap.DefaultColor) {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", n.Color))
	}
	if n.Collapsed && len(n.Children) > 0 {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

var linkRe = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^)]+)\)`)

// stripLinks reduces markdown links to their text; DOT labels are plain.
func stripLinks(s string) string {
	return linkRe.ReplaceAllString(s, "$1")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// The returned SVG has a viewBox starting at the origin and explicit pixel size.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
