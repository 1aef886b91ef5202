package lineage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adforge/adforge/internal/core/model"
	"github.com/adforge/adforge/internal/core/store"
)

// buildFullChain assembles root → persona → … → placement → creative and
// returns the store plus the placement node id and concept.
func buildFullChain(t *testing.T) (*store.Store, string, *model.Concept) {
	t.Helper()
	s := store.New()
	add := func(n *model.Node) { s.AddNodes([]*model.Node{n}) }

	add(&model.Node{ID: "root", Type: model.TypeRoot,
		Content: model.BlueprintContent{Blueprint: model.Blueprint{Product: "Test"}}})
	add(&model.Node{ID: "persona", ParentID: "root", Type: model.TypePersona,
		Content: model.PersonaContent{Persona: model.Persona{Description: "Busy mom, 30-40", Age: "30-40"}}})
	add(&model.Node{ID: "pain", ParentID: "persona", Type: model.TypePainDesire,
		Content: model.PainDesireContent{PainDesire: model.PainDesire{Kind: model.PainKind, Text: "No time"}}})
	add(&model.Node{ID: "objection", ParentID: "pain", Type: model.TypeObjection,
		Content: model.ObjectionContent{Objection: model.Objection{Text: "Too pricey"}}})
	add(&model.Node{ID: "offer", ParentID: "objection", Type: model.TypeOffer,
		Content: model.OfferContent{Offer: model.Offer{Name: "Trial"}}})
	add(&model.Node{ID: "awareness", ParentID: "offer", Type: model.TypeAwareness,
		Content: model.AwarenessContent{Stage: model.ProblemAware}})
	add(&model.Node{ID: "angle", ParentID: "awareness", Type: model.TypeAngle,
		Content: model.AngleContent{Angle: "Hidden cost of waiting"}})
	add(&model.Node{ID: "trigger", ParentID: "angle", Type: model.TypeTrigger,
		Content: model.TriggerContent{Trigger: model.Trigger{Name: "Social Proof"}}})
	add(&model.Node{ID: "format", ParentID: "trigger", Type: model.TypeFormat,
		Content: model.FormatContent{Format: model.FormatStatic}})
	add(&model.Node{ID: "placement", ParentID: "format", Type: model.TypePlacement,
		Content: model.PlacementContent{Placement: "Facebook Feed"}})

	concept := &model.Concept{ID: "c1", StrategicPathID: "placement", Hook: "Hook"}
	add(&model.Node{ID: "c1", ParentID: "placement", Type: model.TypeCreative,
		Content: model.CreativeContent{Concept: concept}})
	return s, "placement", concept
}

func TestNearestAncestorInclusive(t *testing.T) {
	s, placementID, _ := buildFullChain(t)

	// The starting node itself matches.
	n := NearestAncestorOfType(s, placementID, model.TypePlacement)
	require.NotNil(t, n)
	assert.Equal(t, placementID, n.ID)

	n = NearestAncestorOfType(s, placementID, model.TypePersona)
	require.NotNil(t, n)
	assert.Equal(t, "persona", n.ID)
}

func TestNearestAncestorMissingIsNil(t *testing.T) {
	s := store.New()
	s.AddNodes([]*model.Node{{ID: "root", Type: model.TypeRoot,
		Content: model.BlueprintContent{Blueprint: model.Blueprint{}}}})
	s.AddNodes([]*model.Node{{ID: "p", ParentID: "root", Type: model.TypePersona,
		Content: model.PersonaContent{Persona: model.Persona{Description: "X"}}}})

	assert.Nil(t, NearestAncestorOfType(s, "p", model.TypeTrigger))
	assert.Nil(t, NearestAncestorOfType(s, "ghost", model.TypePersona))
}

func TestOnPath(t *testing.T) {
	s, placementID, _ := buildFullChain(t)
	assert.True(t, OnPath(s, placementID, "angle"))
	assert.True(t, OnPath(s, placementID, placementID))
	assert.False(t, OnPath(s, "angle", placementID))
}

func TestAssembleDNAFullChain(t *testing.T) {
	s, _, concept := buildFullChain(t)

	dna, err := AssembleDNA(s, concept)
	require.NoError(t, err)
	assert.Equal(t, "Busy mom, 30-40", dna.Persona.Description)
	assert.Equal(t, model.PainKind, dna.PainDesire.Kind)
	assert.Equal(t, "Too pricey", dna.Objection.Text)
	assert.Equal(t, "Trial", dna.Offer.Name)
	assert.Equal(t, model.ProblemAware, dna.Awareness)
	assert.Equal(t, "Hidden cost of waiting", dna.Angle)
	assert.Equal(t, "Social Proof", dna.Trigger.Name)
	assert.Equal(t, model.FormatStatic, dna.Format)
	assert.Equal(t, "Facebook Feed", dna.Placement)
}

func TestAssembleDNAShortcutSubtreeFails(t *testing.T) {
	// Bulk workflows parent creatives directly on a persona; there is no
	// placement (or anything between), so DNA assembly must report
	// incomplete lineage.
	s := store.New()
	s.AddNodes([]*model.Node{{ID: "root", Type: model.TypeRoot,
		Content: model.BlueprintContent{Blueprint: model.Blueprint{}}}})
	s.AddNodes([]*model.Node{{ID: "p", ParentID: "root", Type: model.TypePersona,
		Content: model.PersonaContent{Persona: model.Persona{Description: "Busy mom"}}}})
	concept := &model.Concept{ID: "c", StrategicPathID: "p"}
	s.AddNodes([]*model.Node{{ID: "c", ParentID: "p", Type: model.TypeCreative,
		Content: model.CreativeContent{Concept: concept}}})

	dna, err := AssembleDNA(s, concept)
	assert.Nil(t, dna)
	assert.ErrorIs(t, err, ErrIncompleteLineage)
}

func TestAssembleDNAMissingMidLevelFails(t *testing.T) {
	s, _, concept := buildFullChain(t)
	// Sever the chain by deleting the angle subtree and re-pointing the
	// concept at a path that no longer reaches an angle.
	s.DeleteSubtree("angle")
	concept.StrategicPathID = "awareness"
	dna, err := AssembleDNA(s, concept)
	assert.Nil(t, dna)
	assert.ErrorIs(t, err, ErrIncompleteLineage)
}

func TestAssembleDNAWithoutPathID(t *testing.T) {
	s, _, _ := buildFullChain(t)
	dna, err := AssembleDNA(s, &model.Concept{ID: "x"})
	assert.Nil(t, dna)
	assert.ErrorIs(t, err, ErrIncompleteLineage)
}
