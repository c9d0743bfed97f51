package mindmap

import (
	"bytes"
	"encoding/json"

	"github.com/matzehuels/meldgrid/pkg/errors"
)

// Document is the serialised form of a mind map: the nested tree plus the
// view it was last shown with.
type Document struct {
	Tree *DocNode `json:"tree"`
	View *View    `json:"view,omitempty"`
}

// DocNode is one node of a serialised tree.
type DocNode struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	Color     string     `json:"color,omitempty"`
	Collapsed bool       `json:"collapsed,omitempty"`
	X         *float64   `json:"x,omitempty"`
	Y         *float64   `json:"y,omitempty"`
	Children  []*DocNode `json:"children"`
}

// legacyNode accepts the attribute names used by older browser exports,
// where the color lives under data and collapse is isCollapsed.
type legacyNode struct {
	ID          *string `json:"id"`
	Text        *string `json:"text"`
	Color       string  `json:"color"`
	Collapsed   bool    `json:"collapsed"`
	IsCollapsed bool    `json:"isCollapsed"`
	Data        *struct {
		Color string `json:"color"`
	} `json:"data"`
	X        *float64      `json:"x"`
	Y        *float64      `json:"y"`
	Children []*legacyNode `json:"children"`
}

// Document returns the current tree and view.
func (e *Engine) Document() Document {
	v := e.view
	return Document{Tree: e.docNode(e.nodes[e.root]), View: &v}
}

func (e *Engine) docNode(n *Node) *DocNode {
	x, y := n.X, n.Y
	d := &DocNode{
		ID:        n.ID,
		Text:      n.Text,
		Color:     n.Color,
		Collapsed: n.Collapsed,
		X:         &x,
		Y:         &y,
		Children:  make([]*DocNode, 0, len(n.Children)),
	}
	for _, c := range n.Children {
		d.Children = append(d.Children, e.docNode(e.nodes[c]))
	}
	return d
}

// Export writes the map as indented JSON.
func (e *Engine) Export() ([]byte, error) {
	data, err := json.MarshalIndent(e.Document(), "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode mind map")
	}
	return data, nil
}

// Import replaces the map with data. data is either a document with a tree
// and optional view, or a bare tree. Every node must carry an id, a text and
// a children array, and ids must be unique. Nothing changes on error.
//
// When any node lacks coordinates the imported tree is laid out again.
func (e *Engine) Import(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid mind map JSON")
	}

	var (
		tree *legacyNode
		view *View
	)
	if raw, ok := probe["tree"]; ok {
		var doc struct {
			Tree *legacyNode `json:"tree"`
			View *View       `json:"view"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid mind map document")
		}
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return errors.New(errors.ErrCodeInvalidFormat, "document has no tree")
		}
		tree, view = doc.Tree, doc.View
	} else {
		tree = new(legacyNode)
		if err := json.Unmarshal(data, tree); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid mind map tree")
		}
	}

	nodes := make(map[string]*Node)
	positioned := true
	if err := collect(tree, "", nodes, &positioned); err != nil {
		return err
	}

	e.cancelDrag()
	e.nodes = nodes
	e.root = *tree.ID
	e.selected = e.root
	if view != nil {
		e.SetView(*view)
	}
	if !positioned {
		e.CalculateLayout()
	}
	e.logger.Debug("mind map imported", "nodes", len(nodes), "laid_out", !positioned)
	return nil
}

func collect(ln *legacyNode, parent string, out map[string]*Node, positioned *bool) error {
	if ln == nil {
		return errors.New(errors.ErrCodeInvalidFormat, "null node under %q", parent)
	}
	if ln.ID == nil || *ln.ID == "" {
		return errors.New(errors.ErrCodeInvalidFormat, "node under %q has no id", parent)
	}
	id := *ln.ID
	if ln.Text == nil {
		return errors.New(errors.ErrCodeInvalidFormat, "node %q has no text", id)
	}
	if ln.Children == nil {
		return errors.New(errors.ErrCodeInvalidFormat, "node %q has no children array", id)
	}
	if _, dup := out[id]; dup {
		return errors.New(errors.ErrCodeInvalidFormat, "duplicate node id %q", id)
	}

	color := ln.Color
	if color == "" && ln.Data != nil {
		color = ln.Data.Color
	}
	n := &Node{
		ID:        id,
		Text:      *ln.Text,
		Color:     color,
		Collapsed: ln.Collapsed || ln.IsCollapsed,
		Parent:    parent,
	}
	if ln.X != nil && ln.Y != nil {
		n.X, n.Y = *ln.X, *ln.Y
	} else {
		*positioned = false
	}
	out[id] = n
	for _, c := range ln.Children {
		if err := collect(c, id, out, positioned); err != nil {
			return err
		}
		n.Children = append(n.Children, *c.ID)
	}
	return nil
}
