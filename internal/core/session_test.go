package core

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adforge/adforge/internal/core/expand"
	"github.com/adforge/adforge/internal/core/model"
	"github.com/adforge/adforge/internal/core/view"
	"github.com/adforge/adforge/internal/gen"
	"github.com/adforge/adforge/internal/logger"
)

func newSession(t *testing.T) (*Session, *gen.MockGenerator) {
	t.Helper()
	g := gen.NewMockGenerator()
	return NewSession(g, logger.Nop(), expand.Options{}), g
}

func startSession(t *testing.T, s *Session) {
	t.Helper()
	require.NoError(t, s.Start(context.Background(), gen.BlueprintInput{Caption: "ref ad"}))
}

func TestStartRootsBlueprintAndSeedPersona(t *testing.T) {
	s, _ := newSession(t)
	startSession(t, s)

	nodes := s.Tree()
	require.Len(t, nodes, 2)
	assert.Equal(t, model.TypeRoot, nodes[0].Type)
	assert.Equal(t, model.TypePersona, nodes[1].Type)
	assert.Equal(t, nodes[0].ID, nodes[1].ParentID)

	bp, ok := s.Blueprint()
	require.True(t, ok)
	assert.Equal(t, "Test Product", bp.Product)
	assert.Equal(t, bp.Persona.Description, nodes[1].Label)
}

func TestOperationsBeforeStart(t *testing.T) {
	s, _ := newSession(t)
	assert.ErrorIs(t, s.ToggleNode(context.Background(), "x"), ErrNoSession)
	assert.ErrorIs(t, s.QuickScale(context.Background(), 2), ErrNoSession)
	_, err := s.RequestRemixSuggestions(context.Background(), "x", model.ComponentAngle)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStartFailureKeepsNothing(t *testing.T) {
	s, g := newSession(t)
	g.AnalyzeBlueprintFn = func(ctx context.Context, in gen.BlueprintInput) (*model.Blueprint, error) {
		return nil, errors.New("vision refused")
	}
	require.Error(t, s.Start(context.Background(), gen.BlueprintInput{}))
	assert.Empty(t, s.Tree())
	assert.Contains(t, s.LastError(), "vision refused")
}

func TestBusyGuardRejectsOverlap(t *testing.T) {
	s, g := newSession(t)
	startSession(t, s)

	entered := make(chan struct{})
	release := make(chan struct{})
	g.PainDesiresFn = func(ctx context.Context, bp model.Blueprint, persona model.Persona) ([]model.PainDesire, error) {
		close(entered)
		<-release
		return []model.PainDesire{{Kind: model.PainKind, Text: "slow"}}, nil
	}

	personaID := s.Tree()[1].ID
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, s.ToggleNode(context.Background(), personaID))
	}()
	<-entered

	assert.True(t, s.Busy())
	assert.ErrorIs(t, s.QuickScale(context.Background(), 2), ErrBusy)
	_, err := s.Evolve(context.Background(), "any", gen.AxisAngle, nil)
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	wg.Wait()
	assert.False(t, s.Busy())
}

func TestDeleteSubtreeRequiresConfirmation(t *testing.T) {
	s, _ := newSession(t)
	startSession(t, s)
	personaID := s.Tree()[1].ID

	assert.ErrorIs(t, s.DeleteSubtree(personaID, false), ErrConfirmRequired)
	require.Len(t, s.Tree(), 2)

	require.NoError(t, s.DeleteSubtree(personaID, true))
	require.Len(t, s.Tree(), 1)
}

func TestResetDiscardsEverything(t *testing.T) {
	s, _ := newSession(t)
	startSession(t, s)
	require.NoError(t, s.QuickScale(context.Background(), 2))
	require.NotEmpty(t, s.Concepts(view.Filter{}))

	s.Reset()
	assert.Empty(t, s.Tree())
	assert.Empty(t, s.LastError())
	assert.ErrorIs(t, s.ToggleNode(context.Background(), "x"), ErrNoSession)
}

func TestLastErrorBannerLifecycle(t *testing.T) {
	s, g := newSession(t)
	startSession(t, s)
	g.PainDesiresFn = func(ctx context.Context, bp model.Blueprint, persona model.Persona) ([]model.PainDesire, error) {
		return nil, errors.New("quota exhausted")
	}

	personaID := s.Tree()[1].ID
	require.Error(t, s.ToggleNode(context.Background(), personaID))
	assert.Contains(t, s.LastError(), "quota exhausted")

	s.ClearError()
	assert.Empty(t, s.LastError())
}

func TestGenerateImagesRecordsPerItemOutcome(t *testing.T) {
	s, g := newSession(t)
	startSession(t, s)
	require.NoError(t, s.QuickScale(context.Background(), 1))

	concepts := s.Concepts(view.Filter{})
	require.NotEmpty(t, concepts)
	good, bad := concepts[0].ID, concepts[1].ID

	g.GenerateImageFn = func(ctx context.Context, prompt, ref string, explore bool) (string, error) {
		if g.CallCount("image") > 1 {
			return "", errors.New("render failed")
		}
		return "https://images.example/1.png", nil
	}

	require.NoError(t, s.GenerateImages(context.Background(), []string{good, bad}, false))

	byID := map[string]*model.Concept{}
	for _, c := range s.Concepts(view.Filter{}) {
		byID[c.ID] = c
	}
	assert.Equal(t, []string{"https://images.example/1.png"}, byID[good].ImageURLs)
	assert.Empty(t, byID[good].Error)
	assert.False(t, byID[good].IsGenerating)

	assert.Empty(t, byID[bad].ImageURLs)
	assert.Contains(t, byID[bad].Error, "render failed")
	assert.False(t, byID[bad].IsGenerating)
}

func TestSetConceptStatus(t *testing.T) {
	s, _ := newSession(t)
	startSession(t, s)
	require.NoError(t, s.QuickScale(context.Background(), 1))

	id := s.Concepts(view.Filter{})[0].ID
	require.NoError(t, s.SetConceptStatus(id, "Winner"))

	for _, c := range s.Concepts(view.Filter{}) {
		if c.ID == id {
			assert.Equal(t, "Winner", c.StatusTag)
			return
		}
	}
	t.Fatalf("concept %s not found after status update", id)
}

func TestConceptsFilterPassthrough(t *testing.T) {
	s, _ := newSession(t)
	startSession(t, s)
	require.NoError(t, s.UGCDiversityPack(context.Background()))

	all := s.Concepts(view.Filter{})
	require.NotEmpty(t, all)
	ugc := s.Concepts(view.Filter{CampaignTag: "UGC Pack"})
	assert.Equal(t, len(all), len(ugc))
	assert.Empty(t, s.Concepts(view.Filter{CampaignTag: "Other"}))

	groups := s.GroupedConcepts(view.Filter{})
	require.NotEmpty(t, groups)
}
