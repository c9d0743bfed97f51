package svg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/matzehuels/meldgrid/pkg/grid"
)

// Grid draws the items of a snapshot at their pixel positions.
//
// The canvas spans the configured columns and every row down to the lowest
// item. Each item is labelled with the "title" string of its payload when it
// has one, and its id otherwise.
func Grid(s grid.Snapshot, m grid.Metrics, opts ...Option) []byte {
	r := newRenderer(opts...)

	rows := 1
	for _, it := range s.Items {
		rows = max(rows, it.Layout.Bottom()-1)
	}
	cols := s.Options.Columns
	if cols <= 0 {
		cols = grid.DefaultConfig().Columns
	}
	w := m.ItemWidth(cols) + 2*r.padding
	h := m.ItemHeight(rows) + 2*r.padding

	var buf bytes.Buffer
	r.open(&buf, 0-r.padding, 0-r.padding, w, h)

	buf.WriteString("  <g class=\"items\">\n")
	for _, it := range s.Items {
		px, py := m.Origin(it.Layout.X, it.Layout.Y)
		iw, ih := m.ItemWidth(it.Layout.W), m.ItemHeight(it.Layout.H)
		fmt.Fprintf(&buf, "    <g id=\"item-%d\" class=\"item\">\n", it.ID)
		fmt.Fprintf(&buf, "      <rect x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\" rx=\"4\"/>\n",
			num(px), num(py), num(iw), num(ih))
		fmt.Fprintf(&buf, "      <text x=\"%s\" y=\"%s\" text-anchor=\"middle\" dominant-baseline=\"central\">%s</text>\n",
			num(px+iw/2), num(py+ih/2), escapeXML(itemLabel(it)))
		buf.WriteString("    </g>\n")
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func itemLabel(it grid.Item) string {
	var p struct {
		Title string `json:"title"`
	}
	if len(it.Payload) > 0 && json.Unmarshal(it.Payload, &p) == nil && p.Title != "" {
		return p.Title
	}
	return "#" + strconv.Itoa(it.ID)
}
