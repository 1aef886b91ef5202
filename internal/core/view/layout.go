package view

import (
	"github.com/adforge/adforge/internal/core/model"
	"github.com/adforge/adforge/internal/core/store"
)

// Layout spacing constants; columns advance with depth, rows with visible
// preorder position.
const (
	colWidth   = 340.0
	rowHeight  = 120.0
	nodeWidth  = 300.0
	nodeHeight = 96.0
)

// Position is one node's computed placement.
type Position struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ComputeLayout assigns positions to every visible node: a pure function of
// the store's structure and expansion state. Children of a collapsed node
// are skipped entirely.
func ComputeLayout(s *store.Store) []Position {
	root := s.Root()
	if root == nil {
		return nil
	}
	var out []Position
	row := 0
	var walk func(n *model.Node, depth int)
	walk = func(n *model.Node, depth int) {
		out = append(out, Position{
			ID:     n.ID,
			X:      float64(depth) * colWidth,
			Y:      float64(row) * rowHeight,
			Width:  nodeWidth,
			Height: nodeHeight,
		})
		row++
		if n.IsCollapsed() || n.Expanded == nil {
			return
		}
		for _, c := range s.Children(n.ID) {
			walk(c, depth+1)
		}
	}
	walk(root, 0)
	return out
}

// ApplyLayout writes computed positions back onto the nodes' layout hints.
func ApplyLayout(s *store.Store, positions []Position) {
	for _, p := range positions {
		if n, ok := s.Node(p.ID); ok {
			n.X, n.Y, n.Width, n.Height = p.X, p.Y, p.Width, p.Height
		}
	}
}
