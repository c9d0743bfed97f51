package mindmap

import (
	"math"
	"time"

	"github.com/matzehuels/meldgrid/pkg/geom"
	"github.com/matzehuels/meldgrid/pkg/observability"
)

// CalculateLayout positions the visible tree. The root goes to the config
// origin, each depth level one column further right, and children are
// stacked vertically, centered on their parent. Descendants of collapsed
// nodes keep their old positions.
func (e *Engine) CalculateLayout() {
	root, ok := e.nodes[e.root]
	if !ok {
		return
	}
	start := time.Now()
	e.measure(root)
	e.place(root, e.cfg.OriginX, e.cfg.OriginY, 0)
	observability.Tree().OnLayout(len(e.nodes), time.Since(start))
}

// measure sets SubtreeHeight bottom-up and returns it.
func (e *Engine) measure(n *Node) float64 {
	if len(n.Children) == 0 || n.Collapsed {
		n.SubtreeHeight = e.cfg.LeafHeight
		return n.SubtreeHeight
	}
	total := 0.0
	for _, c := range n.Children {
		total += e.measure(e.nodes[c])
	}
	n.SubtreeHeight = total + float64(len(n.Children)-1)*e.cfg.VerticalSpacing
	return n.SubtreeHeight
}

// place positions n at depth level and its children in consecutive slices
// below parent.Y - SubtreeHeight/2.
func (e *Engine) place(n *Node, originX, y float64, level int) {
	n.X = originX + float64(level)*(e.cfg.NodeWidth+e.cfg.HorizontalSpacing)
	n.Y = y
	if len(n.Children) == 0 || n.Collapsed {
		return
	}
	cur := y - n.SubtreeHeight/2
	for _, id := range n.Children {
		c := e.nodes[id]
		e.place(c, originX, cur+c.SubtreeHeight/2, level+1)
		cur += c.SubtreeHeight + e.cfg.VerticalSpacing
	}
}

// ResolveCollisions makes one pass over the visible nodes and pushes
// movedID away from each node it overlaps. The push is the overlap plus
// GridSize along whichever axis needs less, with ties going to Y, in the
// direction away from the other node. Only movedID moves. It returns the
// number of pushes applied.
func (e *Engine) ResolveCollisions(movedID string) int {
	moved, ok := e.nodes[movedID]
	if !ok {
		return 0
	}
	pushes := 0
	for _, id := range e.visible() {
		if id == movedID {
			continue
		}
		other := e.nodes[id]
		ox, oy := geom.OverlapExtents(e.box(moved), e.box(other))
		if ox <= 0 || oy <= 0 {
			continue
		}
		px, py := ox+e.cfg.GridSize, oy+e.cfg.GridSize
		if px < py {
			if moved.X < other.X {
				moved.X -= px
			} else {
				moved.X += px
			}
		} else {
			if moved.Y < other.Y {
				moved.Y -= py
			} else {
				moved.Y += py
			}
		}
		pushes++
	}
	observability.Tree().OnCollisionPass(movedID, pushes)
	if pushes > 0 {
		e.logger.Debug("collisions resolved", "id", movedID, "pushes", pushes)
	}
	return pushes
}

// snap rounds v to the nearest multiple of GridSize, rounding halves up.
func (e *Engine) snap(v float64) float64 {
	return math.Floor(v/e.cfg.GridSize+0.5) * e.cfg.GridSize
}
