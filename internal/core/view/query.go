// Package view derives read-only presentations of the strategy tree:
// flattened concept lists, conjunctive filters, persona/hypothesis grouping,
// node visibility and 2D layout. Nothing here mutates the store.
package view

import (
	"sort"

	"github.com/adforge/adforge/internal/core/lineage"
	"github.com/adforge/adforge/internal/core/model"
	"github.com/adforge/adforge/internal/core/store"
)

// UncategorizedBucket collects concepts whose lineage has no resolvable
// persona, which is the norm for shortcut subtrees with deleted ancestors.
const UncategorizedBucket = "Uncategorized"

// FlattenConcepts collects every creative node's concept in insertion order.
func FlattenConcepts(s *store.Store) []*model.Concept {
	var out []*model.Concept
	for _, n := range s.Nodes() {
		if n.Type != model.TypeCreative {
			continue
		}
		if cc, ok := n.Content.(model.CreativeContent); ok && cc.Concept != nil {
			out = append(out, cc.Concept)
		}
	}
	return out
}

// Filter is a conjunction of predicates; the zero value (or "all" in any
// field) matches everything. AngleNodeID matches concepts whose strategic
// path passes through that node.
type Filter struct {
	CampaignTag        string
	PersonaDescription string
	Format             string
	TriggerName        string
	AngleNodeID        string
}

func active(v string) bool { return v != "" && v != "all" }

// FilterConcepts returns the subsequence satisfying every active predicate.
// Filters compose: applying them together equals applying them one by one.
func FilterConcepts(s *store.Store, concepts []*model.Concept, f Filter) []*model.Concept {
	out := make([]*model.Concept, 0, len(concepts))
	for _, c := range concepts {
		if active(f.CampaignTag) && c.CampaignTag != f.CampaignTag {
			continue
		}
		if active(f.PersonaDescription) && c.PersonaDescription != f.PersonaDescription {
			continue
		}
		if active(f.Format) && string(c.Format) != f.Format {
			continue
		}
		if active(f.TriggerName) && c.Trigger.Name != f.TriggerName {
			continue
		}
		if active(f.AngleNodeID) && !lineage.OnPath(s, c.StrategicPathID, f.AngleNodeID) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// HypothesisGroup is one strategic-path bucket inside a persona group.
type HypothesisGroup struct {
	PathID   string           `json:"path_id"`
	Concepts []*model.Concept `json:"concepts"`
}

// PersonaGroup buckets concepts by nearest-ancestor persona description.
type PersonaGroup struct {
	Persona    string            `json:"persona"`
	Hypotheses []HypothesisGroup `json:"hypotheses"`
}

// GroupConcepts partitions concepts by persona, then by strategic path
// within each persona. Within a hypothesis, concepts sort by entry-point
// precedence (Emotional, Logical, Social, Evolved, Pivoted, Remixed) with
// lexical id order breaking ties; the sort is stable.
func GroupConcepts(s *store.Store, concepts []*model.Concept) []PersonaGroup {
	type key struct{ persona, path string }
	buckets := make(map[key][]*model.Concept)
	var personaOrder []string
	pathOrder := make(map[string][]string)
	seenPersona := make(map[string]bool)
	seenPath := make(map[key]bool)

	for _, c := range concepts {
		persona := UncategorizedBucket
		if n := lineage.NearestAncestorOfType(s, c.StrategicPathID, model.TypePersona); n != nil {
			if pc, ok := n.Content.(model.PersonaContent); ok {
				persona = pc.Persona.Description
			}
		}
		k := key{persona: persona, path: c.StrategicPathID}
		if !seenPersona[persona] {
			seenPersona[persona] = true
			personaOrder = append(personaOrder, persona)
		}
		if !seenPath[k] {
			seenPath[k] = true
			pathOrder[persona] = append(pathOrder[persona], c.StrategicPathID)
		}
		buckets[k] = append(buckets[k], c)
	}

	groups := make([]PersonaGroup, 0, len(personaOrder))
	for _, persona := range personaOrder {
		pg := PersonaGroup{Persona: persona}
		for _, path := range pathOrder[persona] {
			items := buckets[key{persona: persona, path: path}]
			sort.SliceStable(items, func(i, j int) bool {
				ri, rj := model.EntryPointRank(items[i].EntryPoint), model.EntryPointRank(items[j].EntryPoint)
				if ri != rj {
					return ri < rj
				}
				return items[i].ID < items[j].ID
			})
			pg.Hypotheses = append(pg.Hypotheses, HypothesisGroup{PathID: path, Concepts: items})
		}
		groups = append(groups, pg)
	}
	return groups
}

// IsVisible reports whether a node is shown: true iff no ancestor above it
// is explicitly collapsed. The root is always visible, and a node's own
// collapsed state hides only its children, not itself.
func IsVisible(s *store.Store, nodeID string) bool {
	n, ok := s.Node(nodeID)
	if !ok {
		return false
	}
	for n.ParentID != "" {
		parent, ok := s.Node(n.ParentID)
		if !ok {
			return false
		}
		if parent.IsCollapsed() {
			return false
		}
		n = parent
	}
	return true
}
