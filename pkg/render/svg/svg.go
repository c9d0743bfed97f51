package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
)

const defaultPadding = 40

const baseCSS = `
    .connector { fill: none; stroke: #94a3b8; stroke-width: 2; }
    .node rect { stroke: #334155; stroke-width: 1.5; }
    .node.selected rect { stroke: #2563eb; stroke-width: 3; }
    .node.collapsed rect { stroke-dasharray: 6 4; }
    .node text, .item text { font-family: sans-serif; font-size: 14px; fill: #0f172a; }
    .node a { fill: #2563eb; text-decoration: underline; }
    .collapse-handle { fill: #64748b; }
    .item rect { fill: #e2e8f0; stroke: #475569; stroke-width: 1; }`

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	padding    float64
	background string
	handles    bool
}

// WithPadding sets the blank margin around the drawing, in pixels.
func WithPadding(p float64) Option { return func(r *renderer) { r.padding = p } }

// WithBackground fills the canvas with color before drawing.
func WithBackground(color string) Option { return func(r *renderer) { r.background = color } }

// WithoutHandles omits the collapse handles drawn on nodes with children.
func WithoutHandles() Option { return func(r *renderer) { r.handles = false } }

func newRenderer(opts ...Option) renderer {
	r := renderer{padding: defaultPadding, handles: true}
	for _, opt := range opts {
		opt(&r)
	}
	if r.padding < 0 {
		r.padding = 0
	}
	return r
}

func (r renderer) open(buf *bytes.Buffer, x, y, w, h float64) {
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%.0f" height="%.0f">`+"\n",
		num(x), num(y), num(w), num(h), w, h)
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", baseCSS)
	if r.background != "" {
		fmt.Fprintf(buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			num(x), num(y), num(w), num(h), escapeXML(r.background))
	}
}

// num formats v with the shortest representation that round-trips.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

var linkRe = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^)]+)\)`)

// segment is a run of label text, optionally linked.
type segment struct {
	text string
	href string
}

// segments splits s on markdown links of the form [text](http://...).
func segments(s string) []segment {
	var out []segment
	last := 0
	for _, m := range linkRe.FindAllStringSubmatchIndex(s, -1) {
		if m[0] > last {
			out = append(out, segment{text: s[last:m[0]]})
		}
		out = append(out, segment{text: s[m[2]:m[3]], href: s[m[4]:m[5]]})
		last = m[1]
	}
	if last < len(s) {
		out = append(out, segment{text: s[last:]})
	}
	return out
}

// writeLabel writes s as tspans, wrapping each link in an anchor.
func writeLabel(buf *bytes.Buffer, s string) {
	for _, seg := range segments(s) {
		if seg.href == "" {
			buf.WriteString("<tspan>" + escapeXML(seg.text) + "</tspan>")
			continue
		}
		fmt.Fprintf(buf, `<a href="%s" target="_blank" rel="noopener noreferrer"><tspan>%s</tspan></a>`,
			escapeXML(seg.href), escapeXML(seg.text))
	}
}
