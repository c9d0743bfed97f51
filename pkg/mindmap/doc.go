// Package mindmap implements the hierarchical mind map layout engine.
//
// The tree is stored as an arena of [Node] values keyed by id, each holding
// its parent's id and its ordered child ids. One node is the root. A node's
// X and Y are the coordinates of its center in layout space.
//
// [Engine.CalculateLayout] arranges the tree left to right in two passes:
// subtree heights bottom-up, then positions top-down, centering every child
// in the vertical slice its subtree needs. Collapsed nodes count as leaves.
//
// [Engine.ResolveCollisions] is a single local pass, not a solver: the moved
// node is pushed away from each visible node it overlaps, in turn, along the
// axis needing the shorter push. Later pushes can create new overlaps with
// nodes that were already checked; that is accepted.
//
// Dragging moves a whole subtree rigidly. On drop every moved node snaps to
// the layout grid and only the dragged node takes part in collision
// resolution.
package mindmap
