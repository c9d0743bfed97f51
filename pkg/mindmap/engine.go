package mindmap

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meldgrid/pkg/errors"
	"github.com/matzehuels/meldgrid/pkg/geom"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithIDFunc replaces the node id generator.
func WithIDFunc(fn IDFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// Engine owns one mind map tree, its selection and its view.
type Engine struct {
	cfg      Config
	nodes    map[string]*Node
	root     string
	selected string
	view     View
	newID    IDFunc
	logger   *log.Logger
	drag     *Drag
}

// New returns an engine holding a fresh map with a single root node. An
// invalid cfg is replaced by DefaultConfig.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg.withDefaults(),
		newID:  DefaultIDFunc,
		logger: log.Default(),
		view:   DefaultView(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.cfg.Validate(); err != nil {
		e.logger.Warn("invalid mind map config, using defaults", "err", err)
		e.cfg = DefaultConfig()
	}
	e.NewMap()
	return e
}

// Config returns the layout geometry.
func (e *Engine) Config() Config { return e.cfg }

// NewMap discards the tree and starts over with a laid out root node, which
// becomes selected.
func (e *Engine) NewMap() {
	e.cancelDrag()
	root := &Node{ID: e.newID(), Text: DefaultRootText, Color: DefaultColor}
	e.nodes = map[string]*Node{root.ID: root}
	e.root = root.ID
	e.selected = root.ID
	e.CalculateLayout()
}

// Root returns the id of the root node.
func (e *Engine) Root() string { return e.root }

// Len returns the number of nodes, collapsed ones included.
func (e *Engine) Len() int { return len(e.nodes) }

// Node returns a copy of the node with the given id.
func (e *Engine) Node(id string) (Node, bool) {
	n, ok := e.nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.clone(), true
}

// AllNodes returns the visible nodes in pre-order: the root and every node
// that has no collapsed ancestor.
func (e *Engine) AllNodes() []Node {
	ids := e.visible()
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = e.nodes[id].clone()
	}
	return out
}

func (e *Engine) visible() []string {
	var out []string
	var walk func(id string)
	walk = func(id string) {
		n := e.nodes[id]
		out = append(out, id)
		if n.Collapsed {
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	if e.root != "" {
		walk(e.root)
	}
	return out
}

// Descendants returns the ids of every node below id in pre-order, ignoring
// collapse. It returns nil for an unknown id.
func (e *Engine) Descendants(id string) []string {
	n, ok := e.nodes[id]
	if !ok {
		return nil
	}
	var out []string
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			out = append(out, c)
			walk(e.nodes[c])
		}
	}
	walk(n)
	return out
}

// AddNode creates a node next to refID and returns its id. A child is
// appended to refID's children and starts one column to the right; a
// sibling is inserted right after refID and starts one row below. The new
// node is then pushed clear of overlaps and becomes selected.
//
// The root has no siblings.
func (e *Engine) AddNode(refID string, kind AddKind) (string, error) {
	ref, ok := e.nodes[refID]
	if !ok {
		return "", errors.New(errors.ErrCodeNotFound, "node %q not found", refID)
	}

	n := &Node{ID: e.newID(), Text: DefaultNodeText, Color: DefaultColor}
	if _, dup := e.nodes[n.ID]; dup || n.ID == "" {
		return "", errors.New(errors.ErrCodeInternal, "id generator returned unusable id %q", n.ID)
	}

	switch kind {
	case AddChild:
		n.X = ref.X + e.cfg.NodeWidth + e.cfg.HorizontalSpacing
		n.Y = ref.Y
		n.Parent = ref.ID
		ref.Children = append(ref.Children, n.ID)
	case AddSibling:
		if ref.Parent == "" {
			return "", errors.New(errors.ErrCodeInvalidInput, "the root node cannot have siblings")
		}
		parent := e.nodes[ref.Parent]
		n.X = ref.X
		n.Y = ref.Y + e.cfg.NodeHeight + e.cfg.VerticalSpacing
		n.Parent = parent.ID
		i := slices.Index(parent.Children, ref.ID)
		parent.Children = slices.Insert(parent.Children, i+1, n.ID)
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown add kind %d", kind)
	}

	e.nodes[n.ID] = n
	e.selected = n.ID
	e.ResolveCollisions(n.ID)
	e.logger.Debug("node added", "id", n.ID, "ref", refID, "kind", kind.String())
	return n.ID, nil
}

// DeleteNode removes id and its whole subtree and selects the parent.
// Deleting the root or an unknown id does nothing and returns false.
func (e *Engine) DeleteNode(id string) bool {
	n, ok := e.nodes[id]
	if !ok || n.Parent == "" {
		return false
	}
	if e.drag != nil && (e.drag.id == id || slices.Contains(e.Descendants(id), e.drag.id)) {
		e.cancelDrag()
	}

	parent := e.nodes[n.Parent]
	parent.Children = slices.DeleteFunc(parent.Children, func(c string) bool { return c == id })
	for _, d := range e.Descendants(id) {
		delete(e.nodes, d)
	}
	delete(e.nodes, id)
	e.selected = parent.ID
	e.logger.Debug("node deleted", "id", id)
	return true
}

// ToggleCollapse flips whether id's children are hidden.
func (e *Engine) ToggleCollapse(id string) bool {
	n, ok := e.nodes[id]
	if !ok {
		return false
	}
	n.Collapsed = !n.Collapsed
	return true
}

// Editable returns the editable fields of id.
func (e *Engine) Editable(id string) (Fields, bool) {
	n, ok := e.nodes[id]
	if !ok {
		return Fields{}, false
	}
	return Fields{Text: n.Text, Color: n.Color}, true
}

// Edit stores new text and color for id. An invalid color is refused.
func (e *Engine) Edit(id string, f Fields) bool {
	n, ok := e.nodes[id]
	if !ok {
		return false
	}
	if err := errors.ValidateColor(f.Color); err != nil {
		e.logger.Debug("edit rejected", "id", id, "err", err)
		return false
	}
	n.Text = f.Text
	n.Color = f.Color
	return true
}

// Selected returns the selected node id, or "" when nothing is selected.
func (e *Engine) Selected() string { return e.selected }

// Select changes the selection. The empty id clears it.
func (e *Engine) Select(id string) bool {
	if id == "" {
		e.selected = ""
		return true
	}
	if _, ok := e.nodes[id]; !ok {
		return false
	}
	e.selected = id
	return true
}

// Box returns the layout box of id.
func (e *Engine) Box(id string) (geom.Box, bool) {
	n, ok := e.nodes[id]
	if !ok {
		return geom.Box{}, false
	}
	return e.box(n), true
}

func (e *Engine) box(n *Node) geom.Box {
	return geom.BoxAround(geom.Point{X: n.X, Y: n.Y}, e.cfg.NodeWidth, e.cfg.NodeHeight)
}

// Bounds returns the box enclosing every visible node.
func (e *Engine) Bounds() geom.Box {
	var b geom.Box
	for _, id := range e.visible() {
		b = b.Union(e.box(e.nodes[id]))
	}
	return b
}
