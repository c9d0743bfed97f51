package mindmap

import "github.com/matzehuels/meldgrid/pkg/geom"

// Node is one mind map entry. X and Y are the center of the node box.
// Values returned by the engine are copies.
type Node struct {
	ID        string
	Text      string
	Color     string
	Collapsed bool
	X, Y      float64

	// SubtreeHeight is the vertical extent reserved for this node and its
	// visible descendants by the last CalculateLayout.
	SubtreeHeight float64

	// Parent is empty for the root.
	Parent   string
	Children []string
}

// Position returns the node center.
func (n Node) Position() geom.Point { return geom.Point{X: n.X, Y: n.Y} }

func (n *Node) clone() Node {
	c := *n
	c.Children = append([]string(nil), n.Children...)
	return c
}

// Fields are the user-editable attributes of a node.
type Fields struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

// AddKind selects where AddNode attaches the new node.
type AddKind int

const (
	// AddChild appends the node as the last child of the reference.
	AddChild AddKind = iota
	// AddSibling inserts the node right after the reference in its parent.
	AddSibling
)

func (k AddKind) String() string {
	switch k {
	case AddChild:
		return "child"
	case AddSibling:
		return "sibling"
	default:
		return "unknown"
	}
}

// ParseAddKind converts "child" or "sibling".
func ParseAddKind(s string) (AddKind, bool) {
	switch s {
	case "child", "":
		return AddChild, true
	case "sibling":
		return AddSibling, true
	}
	return 0, false
}
