package store

import (
	"fmt"

	"github.com/adforge/adforge/internal/core/model"
)

// Store is the canonical in-memory collection of tree nodes. It keeps an
// explicit children index alongside the node map so toggle-time "children
// exist" checks and subtree walks never scan the full collection.
//
// The store is not safe for concurrent use; the owning session serializes
// access. A dangling parent reference or a type/content mismatch on insert
// is a programmer error and panics.
type Store struct {
	nodes    map[string]*model.Node
	children map[string][]string
	order    []string
	rootID   string
}

func New() *Store {
	return &Store{
		nodes:    make(map[string]*model.Node),
		children: make(map[string][]string),
	}
}

// AddNodes appends a batch to the store. Parents are resolved against the
// store plus earlier nodes in the same batch, so a whole subtree can land in
// one call.
func (s *Store) AddNodes(nodes []*model.Node) {
	for _, n := range nodes {
		if n.ID == "" {
			panic("store: node with empty id")
		}
		if _, exists := s.nodes[n.ID]; exists {
			panic(fmt.Sprintf("store: duplicate node id %s", n.ID))
		}
		if n.Content == nil || n.Content.NodeType() != n.Type {
			panic(fmt.Sprintf("store: node %s type %s with mismatched content %T", n.ID, n.Type, n.Content))
		}
		if n.ParentID == "" {
			if n.Type != model.TypeRoot {
				panic(fmt.Sprintf("store: non-root node %s without parent", n.ID))
			}
			if s.rootID != "" {
				panic("store: second root node")
			}
			s.rootID = n.ID
		} else if _, ok := s.nodes[n.ParentID]; !ok {
			panic(fmt.Sprintf("store: node %s references missing parent %s", n.ID, n.ParentID))
		}
		s.nodes[n.ID] = n
		s.order = append(s.order, n.ID)
		if n.ParentID != "" {
			s.children[n.ParentID] = append(s.children[n.ParentID], n.ID)
		}
	}
}

func (s *Store) Node(id string) (*model.Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

func (s *Store) Root() *model.Node {
	if s.rootID == "" {
		return nil
	}
	return s.nodes[s.rootID]
}

func (s *Store) Len() int { return len(s.nodes) }

func (s *Store) HasChildren(id string) bool {
	return len(s.children[id]) > 0
}

// Children returns direct children in insertion order.
func (s *Store) Children(id string) []*model.Node {
	ids := s.children[id]
	out := make([]*model.Node, 0, len(ids))
	for _, cid := range ids {
		out = append(out, s.nodes[cid])
	}
	return out
}

// ChildrenOfType filters direct children by type.
func (s *Store) ChildrenOfType(id string, t model.NodeType) []*model.Node {
	var out []*model.Node
	for _, c := range s.Children(id) {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// Nodes returns every node in insertion order.
func (s *Store) Nodes() []*model.Node {
	out := make([]*model.Node, 0, len(s.order))
	for _, id := range s.order {
		if n, ok := s.nodes[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

// UpdateContent replaces a node's content in place, preserving id, parent
// and type. The replacement must carry the node's own type tag.
func (s *Store) UpdateContent(id string, content model.Content) error {
	n, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("store: node %s not found", id)
	}
	if content == nil || content.NodeType() != n.Type {
		return fmt.Errorf("store: content %T does not match node type %s", content, n.Type)
	}
	n.Content = content
	return nil
}

// SetExpanded sets the visibility flag on a synthesized node.
func (s *Store) SetExpanded(id string, expanded bool) error {
	n, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("store: node %s not found", id)
	}
	n.Expanded = model.BoolPtr(expanded)
	return nil
}

// DeleteSubtree removes a node and its entire descendant set in one update
// and returns the removed ids. The descendant set is computed breadth-first
// over the children index. Caller is responsible for having confirmed the
// deletion with the user.
func (s *Store) DeleteSubtree(id string) []string {
	if _, ok := s.nodes[id]; !ok {
		return nil
	}
	var removed []string
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		removed = append(removed, cur)
		queue = append(queue, s.children[cur]...)
	}
	for _, rid := range removed {
		n := s.nodes[rid]
		delete(s.nodes, rid)
		delete(s.children, rid)
		if n.ParentID != "" {
			s.children[n.ParentID] = removeID(s.children[n.ParentID], rid)
		}
	}
	if id == s.rootID {
		s.rootID = ""
	}
	s.compactOrder()
	return removed
}

func (s *Store) compactOrder() {
	kept := s.order[:0]
	for _, id := range s.order {
		if _, ok := s.nodes[id]; ok {
			kept = append(kept, id)
		}
	}
	s.order = kept
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
