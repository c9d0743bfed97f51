package svg

import (
	"bytes"
	"fmt"
	"math"

	"github.com/matzehuels/meldgrid/pkg/geom"
	"github.com/matzehuels/meldgrid/pkg/mindmap"
)

const handleRadius = 8

// Tree draws the visible part of a mind map at its computed positions.
//
// Connectors are cubic beziers leaving the parent from the side facing the
// child, along whichever axis separates them more. Markdown links in node
// text become anchors; everything else is escaped.
func Tree(e *mindmap.Engine, opts ...Option) []byte {
	r := newRenderer(opts...)
	cfg := e.Config()
	nodes := e.AllNodes()

	b := e.Bounds()
	x, y := b.X-r.padding, b.Y-r.padding
	w, h := b.W+2*r.padding, b.H+2*r.padding

	var buf bytes.Buffer
	r.open(&buf, x, y, w, h)

	pos := make(map[string]geom.Point, len(nodes))
	for _, n := range nodes {
		pos[n.ID] = n.Position()
	}

	buf.WriteString("  <g class=\"connectors\">\n")
	for _, n := range nodes {
		if n.Collapsed {
			continue
		}
		for _, c := range n.Children {
			fmt.Fprintf(&buf, "    <path class=\"connector\" d=\"%s\"/>\n",
				Connector(pos[n.ID], pos[c], cfg.NodeWidth, cfg.NodeHeight))
		}
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("  <g class=\"nodes\">\n")
	selected := e.Selected()
	for _, n := range nodes {
		r.node(&buf, n, cfg, n.ID == selected)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r renderer) node(buf *bytes.Buffer, n mindmap.Node, cfg mindmap.Config, selected bool) {
	class := "node"
	if selected {
		class += " selected"
	}
	if n.Collapsed && len(n.Children) > 0 {
		class += " collapsed"
	}
	fill := n.Color
	if fill == "" {
		fill = mindmap.DefaultColor
	}

	fmt.Fprintf(buf, "    <g id=\"node-%s\" class=\"%s\" transform=\"translate(%s, %s)\">\n",
		escapeXML(n.ID), class, num(n.X), num(n.Y))
	fmt.Fprintf(buf, "      <rect x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\" rx=\"8\" fill=\"%s\"/>\n",
		num(-cfg.NodeWidth/2), num(-cfg.NodeHeight/2), num(cfg.NodeWidth), num(cfg.NodeHeight), escapeXML(fill))
	buf.WriteString("      <text text-anchor=\"middle\" dominant-baseline=\"central\">")
	writeLabel(buf, n.Text)
	buf.WriteString("</text>\n")

	if r.handles && len(n.Children) > 0 {
		hx := num(cfg.NodeWidth / 2)
		fmt.Fprintf(buf, "      <circle class=\"collapse-handle\" cx=\"%s\" cy=\"0\" r=\"%d\"/>\n", hx, handleRadius)
		symbol := "M -3,0 L 3,0"
		if n.Collapsed {
			symbol += " M 0,-3 L 0,3"
		}
		fmt.Fprintf(buf, "      <path d=\"%s\" stroke=\"white\" stroke-width=\"2\" transform=\"translate(%s, 0)\"/>\n", symbol, hx)
	}
	buf.WriteString("    </g>\n")
}

// Connector returns the SVG path data for the edge from a parent centered at
// p to a child centered at c, for nodes of size w by h.
//
// The edge leaves from the horizontal sides when the centers are further apart
// in x than in y, otherwise from the top or bottom. Both control points sit
// 1/2.5 of the center offset away from their endpoint.
func Connector(p, c geom.Point, w, h float64) string {
	dx, dy := c.X-p.X, c.Y-p.Y

	var sx, sy, ex, ey float64
	if math.Abs(dx) > math.Abs(dy) {
		half := w / 2
		if dx <= 0 {
			half = -half
		}
		sx, sy = p.X+half, p.Y
		ex, ey = c.X-half, c.Y
	} else {
		half := h / 2
		if dy <= 0 {
			half = -half
		}
		sx, sy = p.X, p.Y+half
		ex, ey = c.X, c.Y-half
	}

	c1x, c1y := sx+dx/2.5, sy+dy/2.5
	c2x, c2y := ex-dx/2.5, ey-dy/2.5
	return fmt.Sprintf("M %s %s C %s %s, %s %s, %s %s",
		num(sx), num(sy), num(c1x), num(c1y), num(c2x), num(c2y), num(ex), num(ey))
}
