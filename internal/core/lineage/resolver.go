// Package lineage resolves ancestor chains over the strategy tree: nearest
// ancestor of a type, and full nine-level DNA assembly for a concept.
package lineage

import (
	"errors"
	"fmt"

	"github.com/adforge/adforge/internal/core/model"
	"github.com/adforge/adforge/internal/core/store"
)

// ErrIncompleteLineage signals that a concept's strategic path does not
// reach all nine DNA levels. Expected for bulk-shortcut subtrees; such
// concepts cannot be remixed.
var ErrIncompleteLineage = errors.New("incomplete strategic lineage")

// NearestAncestorOfType walks parent links upward from nodeID, checking the
// starting node itself first, and returns the first node of the target type.
// Returns nil when no such ancestor exists on the path; that is an expected
// outcome for shortcut subtrees, not an error.
func NearestAncestorOfType(s *store.Store, nodeID string, t model.NodeType) *model.Node {
	cur, ok := s.Node(nodeID)
	for ok {
		if cur.Type == t {
			return cur
		}
		if cur.ParentID == "" {
			return nil
		}
		cur, ok = s.Node(cur.ParentID)
	}
	return nil
}

// OnPath reports whether ancestorID lies on the parent chain of nodeID
// (inclusive of nodeID itself).
func OnPath(s *store.Store, nodeID, ancestorID string) bool {
	cur, ok := s.Node(nodeID)
	for ok {
		if cur.ID == ancestorID {
			return true
		}
		if cur.ParentID == "" {
			return false
		}
		cur, ok = s.Node(cur.ParentID)
	}
	return false
}

// AssembleDNA reconstructs the full ancestor chain of a concept, starting at
// its strategic-path node and searching placement → format → trigger →
// angle → awareness → offer → objection → pain_desire → persona, each search
// rooted at the previously found ancestor. Any missing level yields
// ErrIncompleteLineage.
func AssembleDNA(s *store.Store, c *model.Concept) (*model.AdDna, error) {
	if c == nil || c.StrategicPathID == "" {
		return nil, ErrIncompleteLineage
	}
	chain := []model.NodeType{
		model.TypePlacement, model.TypeFormat, model.TypeTrigger,
		model.TypeAngle, model.TypeAwareness, model.TypeOffer,
		model.TypeObjection, model.TypePainDesire, model.TypePersona,
	}
	found := make(map[model.NodeType]*model.Node, len(chain))
	cursor := c.StrategicPathID
	for _, t := range chain {
		n := NearestAncestorOfType(s, cursor, t)
		if n == nil {
			return nil, fmt.Errorf("%w: missing %s ancestor", ErrIncompleteLineage, t)
		}
		found[t] = n
		cursor = n.ID
	}

	dna := &model.AdDna{}
	for t, n := range found {
		if err := fill(dna, t, n); err != nil {
			return nil, err
		}
	}
	return dna, nil
}

// fill copies one ancestor's payload into the DNA, rejecting tag/content
// mismatches instead of coercing.
func fill(dna *model.AdDna, t model.NodeType, n *model.Node) error {
	mismatch := func() error {
		return fmt.Errorf("node %s tagged %s carries %T content", n.ID, t, n.Content)
	}
	switch t {
	case model.TypePersona:
		c, ok := n.Content.(model.PersonaContent)
		if !ok {
			return mismatch()
		}
		dna.Persona = c.Persona
	case model.TypePainDesire:
		c, ok := n.Content.(model.PainDesireContent)
		if !ok {
			return mismatch()
		}
		dna.PainDesire = c.PainDesire
	case model.TypeObjection:
		c, ok := n.Content.(model.ObjectionContent)
		if !ok {
			return mismatch()
		}
		dna.Objection = c.Objection
	case model.TypeOffer:
		c, ok := n.Content.(model.OfferContent)
		if !ok {
			return mismatch()
		}
		dna.Offer = c.Offer
	case model.TypeAwareness:
		c, ok := n.Content.(model.AwarenessContent)
		if !ok {
			return mismatch()
		}
		dna.Awareness = c.Stage
	case model.TypeAngle:
		c, ok := n.Content.(model.AngleContent)
		if !ok {
			return mismatch()
		}
		dna.Angle = c.Angle
	case model.TypeTrigger:
		c, ok := n.Content.(model.TriggerContent)
		if !ok {
			return mismatch()
		}
		dna.Trigger = c.Trigger
	case model.TypeFormat:
		c, ok := n.Content.(model.FormatContent)
		if !ok {
			return mismatch()
		}
		dna.Format = c.Format
	case model.TypePlacement:
		c, ok := n.Content.(model.PlacementContent)
		if !ok {
			return mismatch()
		}
		dna.Placement = c.Placement
	default:
		return fmt.Errorf("unexpected dna level %s", t)
	}
	return nil
}
