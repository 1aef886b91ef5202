package mutate

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adforge/adforge/internal/core/lineage"
	"github.com/adforge/adforge/internal/core/model"
	"github.com/adforge/adforge/internal/core/store"
	"github.com/adforge/adforge/internal/gen"
	"github.com/adforge/adforge/internal/logger"
)

// fullChainStore builds a complete root-to-placement branch with one creative
// leaf whose strategic path points at the placement node.
func fullChainStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New()
	s.AddNodes([]*model.Node{{
		ID:   "root",
		Type: model.TypeRoot,
		Content: model.BlueprintContent{Blueprint: model.Blueprint{
			Product: "Test Product",
			Persona: model.Persona{Description: "Busy mom, 30-40"},
		}},
	}})
	links := []struct {
		id      string
		typ     model.NodeType
		content model.Content
	}{
		{"persona", model.TypePersona, model.PersonaContent{Persona: model.Persona{Description: "Busy mom, 30-40", Age: "30-40"}}},
		{"pain", model.TypePainDesire, model.PainDesireContent{PainDesire: model.PainDesire{Kind: model.PainKind, Text: "No time"}}},
		{"objection", model.TypeObjection, model.ObjectionContent{Objection: model.Objection{Text: "Too pricey"}}},
		{"offer", model.TypeOffer, model.OfferContent{Offer: model.Offer{Name: "Trial"}}},
		{"awareness", model.TypeAwareness, model.AwarenessContent{Stage: model.ProblemAware}},
		{"angle", model.TypeAngle, model.AngleContent{Angle: "Hidden cost"}},
		{"trigger", model.TypeTrigger, model.TriggerContent{Trigger: model.Trigger{Name: "Social Proof"}}},
		{"format", model.TypeFormat, model.FormatContent{Format: model.FormatStatic}},
		{"placement", model.TypePlacement, model.PlacementContent{Placement: "Facebook Feed"}},
	}
	parent := "root"
	for _, l := range links {
		s.AddNodes([]*model.Node{{ID: l.id, ParentID: parent, Type: l.typ, Content: l.content}})
		parent = l.id
	}
	s.AddNodes([]*model.Node{{
		ID: "concept-1", ParentID: "placement", Type: model.TypeCreative,
		Content: model.CreativeContent{Concept: &model.Concept{
			ID:                 "concept-1",
			Hook:               "Original hook",
			Angle:              "Hidden cost",
			PersonaDescription: "Busy mom, 30-40",
			StrategicPathID:    "placement",
			EntryPoint:         model.EntryEmotional,
		}},
	}})
	return s
}

func newMutateFixture(t *testing.T) (*Engine, *store.Store, *gen.MockGenerator) {
	t.Helper()
	s := fullChainStore(t)
	g := gen.NewMockGenerator()
	return New(s, g, logger.Nop()), s, g
}

func TestEvolveCreatesOneTaggedSibling(t *testing.T) {
	m, s, _ := newMutateFixture(t)
	before := s.Len()

	node, err := m.Evolve(context.Background(), "concept-1", gen.AxisAngle, json.RawMessage(`"Bolder claim"`))
	require.NoError(t, err)

	assert.Equal(t, before+1, s.Len())
	assert.Equal(t, "placement", node.ParentID)

	concept, err := model.ConceptOf(node)
	require.NoError(t, err)
	assert.Equal(t, model.EntryEvolved, concept.EntryPoint)
	assert.Equal(t, "placement", concept.StrategicPathID)

	// Source concept keeps its identity and its in-progress flag is reset.
	src, _ := s.Node("concept-1")
	srcConcept, err := model.ConceptOf(src)
	require.NoError(t, err)
	assert.Equal(t, "Original hook", srcConcept.Hook)
	assert.Equal(t, model.EntryEmotional, srcConcept.EntryPoint)
	assert.False(t, srcConcept.IsEvolving)
}

func TestEvolveTriggerResolvesBareName(t *testing.T) {
	m, _, g := newMutateFixture(t)

	var captured json.RawMessage
	g.EvolveFn = func(ctx context.Context, base *model.Concept, bp model.Blueprint, axis gen.EvolveAxis, newValue json.RawMessage) ([]*model.Concept, error) {
		captured = newValue
		evolved := base.Clone()
		evolved.ID = ""
		return []*model.Concept{evolved}, nil
	}

	_, err := m.Evolve(context.Background(), "concept-1", gen.AxisTrigger, json.RawMessage(`"Scarcity"`))
	require.NoError(t, err)

	assert.Equal(t, 1, g.CallCount("trigger_details"))
	var trigger model.Trigger
	require.NoError(t, json.Unmarshal(captured, &trigger))
	assert.Equal(t, "Scarcity", trigger.Name)
	assert.NotEmpty(t, trigger.Description, "bare name upgraded to a structured trigger")
}

func TestEvolveTriggerStructuredValuePassesThrough(t *testing.T) {
	m, _, g := newMutateFixture(t)

	raw := json.RawMessage(`{"name":"Authority","description":"Expert endorsement"}`)
	_, err := m.Evolve(context.Background(), "concept-1", gen.AxisTrigger, raw)
	require.NoError(t, err)
	assert.Zero(t, g.CallCount("trigger_details"))
}

func TestEvolveFailureLeavesStoreUnchanged(t *testing.T) {
	m, s, g := newMutateFixture(t)
	g.EvolveFn = func(ctx context.Context, base *model.Concept, bp model.Blueprint, axis gen.EvolveAxis, newValue json.RawMessage) ([]*model.Concept, error) {
		return nil, errors.New("model unavailable")
	}

	before := s.Len()
	_, err := m.Evolve(context.Background(), "concept-1", gen.AxisAngle, json.RawMessage(`"x"`))
	require.Error(t, err)
	assert.Equal(t, before, s.Len())

	src, _ := s.Node("concept-1")
	concept, _ := model.ConceptOf(src)
	assert.False(t, concept.IsEvolving, "in-progress flag reset after failure")
}

func TestQuickPivotPrefersLiveGeneratedPath(t *testing.T) {
	m, s, g := newMutateFixture(t)
	g.PivotFn = func(ctx context.Context, base *model.Concept, bp model.Blueprint, pivot gen.PivotType, cfg gen.PivotConfig) ([]*model.Concept, error) {
		pivoted := base.Clone()
		pivoted.ID = ""
		pivoted.StrategicPathID = "format" // live node, different attachment
		return []*model.Concept{pivoted}, nil
	}

	node, err := m.QuickPivot(context.Background(), "concept-1", gen.PivotEmotionalFlip, gen.PivotConfig{})
	require.NoError(t, err)

	assert.Equal(t, "format", node.ParentID)
	concept, _ := model.ConceptOf(node)
	assert.Equal(t, model.EntryPivoted, concept.EntryPoint)
	_, ok := s.Node(node.ID)
	assert.True(t, ok)
}

func TestQuickPivotDeadPathFallsBackToBase(t *testing.T) {
	m, _, g := newMutateFixture(t)
	g.PivotFn = func(ctx context.Context, base *model.Concept, bp model.Blueprint, pivot gen.PivotType, cfg gen.PivotConfig) ([]*model.Concept, error) {
		pivoted := base.Clone()
		pivoted.ID = ""
		pivoted.StrategicPathID = "no-such-node"
		return []*model.Concept{pivoted}, nil
	}

	node, err := m.QuickPivot(context.Background(), "concept-1", gen.PivotChannelAdapt, gen.PivotConfig{})
	require.NoError(t, err)
	assert.Equal(t, "placement", node.ParentID)
}

func TestRequestSuggestionsStampsComponentAndToken(t *testing.T) {
	m, _, _ := newMutateFixture(t)

	suggestions, err := m.RequestSuggestions(context.Background(), "concept-1", model.ComponentAngle)
	require.NoError(t, err)
	require.NotEmpty(t, suggestions)
	for _, s := range suggestions {
		assert.Equal(t, model.ComponentAngle, s.Component)
		assert.NotZero(t, s.Token)
	}
}

func TestRequestSuggestionsFailsFastOnIncompleteLineage(t *testing.T) {
	m, s, g := newMutateFixture(t)
	// A shortcut concept parented straight under the persona has no DNA chain.
	s.AddNodes([]*model.Node{{
		ID: "shortcut", ParentID: "persona", Type: model.TypeCreative,
		Content: model.CreativeContent{Concept: &model.Concept{
			ID: "shortcut", Hook: "Bulk", StrategicPathID: "persona",
		}},
	}})

	_, err := m.RequestSuggestions(context.Background(), "shortcut", model.ComponentTrigger)
	assert.ErrorIs(t, err, lineage.ErrIncompleteLineage)
	assert.Zero(t, g.CallCount("remix_suggestions"), "lineage gate runs before any generator call")
}

func TestRequestSuggestionsSupersededResponseDiscarded(t *testing.T) {
	m, _, g := newMutateFixture(t)

	// The first request's generator call issues a newer request before
	// returning, so its own response lands stale.
	first := true
	g.RemixSuggestionsFn = func(ctx context.Context, component model.DnaComponent, base *model.Concept, dna model.AdDna, bp model.Blueprint) ([]model.Suggestion, error) {
		if first {
			first = false
			fresh, err := m.RequestSuggestions(ctx, "concept-1", component)
			require.NoError(t, err)
			require.NotEmpty(t, fresh)
		}
		return []model.Suggestion{{Title: "Alt", Payload: json.RawMessage(`"Alt"`)}}, nil
	}

	_, err := m.RequestSuggestions(context.Background(), "concept-1", model.ComponentAngle)
	assert.ErrorIs(t, err, ErrSuperseded)
}

func TestExecuteRemixRetagsResult(t *testing.T) {
	m, s, _ := newMutateFixture(t)
	before := s.Len()

	node, err := m.ExecuteRemix(context.Background(), "concept-1", model.Suggestion{
		Component: model.ComponentAngle,
		Title:     "Bolder claim",
		Payload:   json.RawMessage(`"Bolder claim"`),
	})
	require.NoError(t, err)

	assert.Equal(t, before+1, s.Len())
	concept, err := model.ConceptOf(node)
	require.NoError(t, err)
	assert.Equal(t, model.EntryRemixed, concept.EntryPoint)
	assert.Equal(t, "placement", concept.StrategicPathID)
}

func TestExecuteRemixUnknownComponent(t *testing.T) {
	m, s, _ := newMutateFixture(t)
	before := s.Len()
	_, err := m.ExecuteRemix(context.Background(), "concept-1", model.Suggestion{Component: "mystery"})
	assert.Error(t, err)
	assert.Equal(t, before, s.Len())
}

func TestMutateNonCreativeRejected(t *testing.T) {
	m, _, _ := newMutateFixture(t)
	_, err := m.Evolve(context.Background(), "angle", gen.AxisAngle, json.RawMessage(`"x"`))
	assert.Error(t, err)

	_, err = m.Evolve(context.Background(), "ghost", gen.AxisAngle, json.RawMessage(`"x"`))
	assert.ErrorIs(t, err, ErrNodeNotFound)
}
