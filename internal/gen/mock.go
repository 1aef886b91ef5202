package gen

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/adforge/adforge/internal/core/model"
)

// MockGenerator is a configurable Generator for tests. Each method uses the
// matching hook when set and otherwise returns a small canned result; Calls
// counts invocations per operation so tests can assert that static fan-outs
// never reach the generator.
type MockGenerator struct {
	mu    sync.Mutex
	Calls map[string]int

	AnalyzeBlueprintFn   func(ctx context.Context, in BlueprintInput) (*model.Blueprint, error)
	PersonasFn           func(ctx context.Context, bp model.Blueprint, existing []model.Persona, n int) ([]model.Persona, error)
	PainDesiresFn        func(ctx context.Context, bp model.Blueprint, persona model.Persona) ([]model.PainDesire, error)
	ObjectionsFn         func(ctx context.Context, bp model.Blueprint, persona model.Persona, pd model.PainDesire) ([]model.Objection, error)
	OffersFn             func(ctx context.Context, bp model.Blueprint, persona model.Persona, obj model.Objection) ([]model.Offer, error)
	AnglesFn             func(ctx context.Context, bp model.Blueprint, persona model.Persona, aw model.AwarenessStage, obj model.Objection, pd model.PainDesire, offer model.Offer) ([]string, error)
	TriggersFn           func(ctx context.Context, bp model.Blueprint, persona model.Persona, angle string, aw model.AwarenessStage) ([]model.Trigger, error)
	TriggerDetailsFn     func(ctx context.Context, name string, bp model.Blueprint, persona model.Persona, angle string) (*model.Trigger, error)
	CreativeIdeasFn      func(ctx context.Context, req CreativeRequest) ([]*model.Concept, error)
	EvolveFn             func(ctx context.Context, base *model.Concept, bp model.Blueprint, axis EvolveAxis, newValue json.RawMessage) ([]*model.Concept, error)
	PivotFn              func(ctx context.Context, base *model.Concept, bp model.Blueprint, pivot PivotType, cfg PivotConfig) ([]*model.Concept, error)
	RemixSuggestionsFn   func(ctx context.Context, component model.DnaComponent, base *model.Concept, dna model.AdDna, bp model.Blueprint) ([]model.Suggestion, error)
	GenerateImageFn      func(ctx context.Context, prompt, referenceImage string, allowExploration bool) (string, error)
}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{Calls: make(map[string]int)}
}

func (m *MockGenerator) count(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls[op]++
}

// CallCount returns how many times an operation ran.
func (m *MockGenerator) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[op]
}

// TotalCalls sums all operations.
func (m *MockGenerator) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.Calls {
		total += n
	}
	return total
}

func (m *MockGenerator) AnalyzeBlueprint(ctx context.Context, in BlueprintInput) (*model.Blueprint, error) {
	m.count("analyze_blueprint")
	if m.AnalyzeBlueprintFn != nil {
		return m.AnalyzeBlueprintFn(ctx, in)
	}
	return &model.Blueprint{
		Product:        "Test Product",
		Persona:        model.Persona{Description: "Busy mom, 30-40", Age: "30-40", CreatorType: "relatable parent"},
		SalesMechanism: "problem-agitate-solve",
		Offer:          "30-day trial",
		Tone:           "warm, direct",
	}, nil
}

func (m *MockGenerator) GeneratePersonaVariations(ctx context.Context, bp model.Blueprint, existing []model.Persona, n int) ([]model.Persona, error) {
	m.count("personas")
	if m.PersonasFn != nil {
		return m.PersonasFn(ctx, bp, existing, n)
	}
	out := make([]model.Persona, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.Persona{
			Description: fmt.Sprintf("Persona variation %d", len(existing)+i+1),
			Age:         "25-45",
			CreatorType: "peer",
		})
	}
	return out, nil
}

func (m *MockGenerator) GeneratePainDesires(ctx context.Context, bp model.Blueprint, persona model.Persona) ([]model.PainDesire, error) {
	m.count("pain_desires")
	if m.PainDesiresFn != nil {
		return m.PainDesiresFn(ctx, bp, persona)
	}
	return []model.PainDesire{
		{Kind: model.PainKind, Text: "No time for themselves"},
		{Kind: model.PainKind, Text: "Guilt about shortcuts"},
		{Kind: model.DesireKind, Text: "Feel in control again"},
		{Kind: model.DesireKind, Text: "Be seen as capable"},
	}, nil
}

func (m *MockGenerator) GenerateObjections(ctx context.Context, bp model.Blueprint, persona model.Persona, pd model.PainDesire) ([]model.Objection, error) {
	m.count("objections")
	if m.ObjectionsFn != nil {
		return m.ObjectionsFn(ctx, bp, persona, pd)
	}
	return []model.Objection{
		{Text: "Too expensive", Counter: "Costs less than one takeout order"},
		{Text: "Won't work for me", Counter: "Works for any schedule"},
	}, nil
}

func (m *MockGenerator) GenerateOfferTypes(ctx context.Context, bp model.Blueprint, persona model.Persona, obj model.Objection) ([]model.Offer, error) {
	m.count("offers")
	if m.OffersFn != nil {
		return m.OffersFn(ctx, bp, persona, obj)
	}
	return []model.Offer{
		{Name: "Risk-free trial", Description: "30 days, full refund", Principle: "risk reversal"},
		{Name: "Starter bundle", Description: "Everything to begin", Principle: "value stacking"},
	}, nil
}

func (m *MockGenerator) GenerateAngles(ctx context.Context, bp model.Blueprint, persona model.Persona, aw model.AwarenessStage, obj model.Objection, pd model.PainDesire, offer model.Offer) ([]string, error) {
	m.count("angles")
	if m.AnglesFn != nil {
		return m.AnglesFn(ctx, bp, persona, aw, obj, pd, offer)
	}
	return []string{"The hidden cost of waiting", "What the pros do differently"}, nil
}

func (m *MockGenerator) GenerateTriggers(ctx context.Context, bp model.Blueprint, persona model.Persona, angle string, aw model.AwarenessStage) ([]model.Trigger, error) {
	m.count("triggers")
	if m.TriggersFn != nil {
		return m.TriggersFn(ctx, bp, persona, angle, aw)
	}
	return []model.Trigger{
		{Name: "Social Proof", Description: "Consensus", Example: "Join thousands", Rationale: "Safety in numbers"},
		{Name: "Scarcity", Description: "Limited supply", Example: "Only 50 left", Rationale: "Fear of missing out"},
	}, nil
}

func (m *MockGenerator) ResolveTriggerDetails(ctx context.Context, name string, bp model.Blueprint, persona model.Persona, angle string) (*model.Trigger, error) {
	m.count("trigger_details")
	if m.TriggerDetailsFn != nil {
		return m.TriggerDetailsFn(ctx, name, bp, persona, angle)
	}
	return &model.Trigger{Name: name, Description: "resolved " + name, Example: "example", Rationale: "rationale"}, nil
}

func (m *MockGenerator) GenerateCreativeIdeas(ctx context.Context, req CreativeRequest) ([]*model.Concept, error) {
	m.count("creatives")
	if m.CreativeIdeasFn != nil {
		return m.CreativeIdeasFn(ctx, req)
	}
	entries := []model.EntryPoint{model.EntryEmotional, model.EntryLogical, model.EntrySocial}
	count := req.Count
	if count <= 0 {
		count = 3
	}
	out := make([]*model.Concept, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, &model.Concept{
			Angle:              req.Angle,
			Trigger:            req.Trigger,
			Format:             req.Format,
			Placement:          req.Placement,
			AwarenessStage:     req.Awareness,
			Offer:              req.Offer,
			PersonaDescription: req.Persona.Description,
			PersonaAge:         req.Persona.Age,
			PersonaCreatorType: req.Persona.CreatorType,
			Hook:               fmt.Sprintf("Hook %d", i+1),
			Headline:           fmt.Sprintf("Headline %d", i+1),
			VisualVehicle:      "lifestyle photo",
			VisualPrompt:       "a bright kitchen scene",
			AdSetName:          fmt.Sprintf("Set %d", i+1),
			StrategicPathID:    req.PathID,
			EntryPoint:         entries[i%len(entries)],
		})
	}
	return out, nil
}

func (m *MockGenerator) EvolveConcept(ctx context.Context, base *model.Concept, bp model.Blueprint, axis EvolveAxis, newValue json.RawMessage) ([]*model.Concept, error) {
	m.count("evolve")
	if m.EvolveFn != nil {
		return m.EvolveFn(ctx, base, bp, axis, newValue)
	}
	evolved := base.Clone()
	evolved.ID = ""
	evolved.Hook = "Evolved " + base.Hook
	return []*model.Concept{evolved}, nil
}

func (m *MockGenerator) GenerateQuickPivot(ctx context.Context, base *model.Concept, bp model.Blueprint, pivot PivotType, cfg PivotConfig) ([]*model.Concept, error) {
	m.count("pivot")
	if m.PivotFn != nil {
		return m.PivotFn(ctx, base, bp, pivot, cfg)
	}
	pivoted := base.Clone()
	pivoted.ID = ""
	pivoted.Hook = "Pivoted " + base.Hook
	return []*model.Concept{pivoted}, nil
}

func (m *MockGenerator) GenerateRemixSuggestions(ctx context.Context, component model.DnaComponent, base *model.Concept, dna model.AdDna, bp model.Blueprint) ([]model.Suggestion, error) {
	m.count("remix_suggestions")
	if m.RemixSuggestionsFn != nil {
		return m.RemixSuggestionsFn(ctx, component, base, dna, bp)
	}
	return []model.Suggestion{
		{Title: "Alternative A", Description: "First alternative", Payload: json.RawMessage(`"Alternative A"`)},
		{Title: "Alternative B", Description: "Second alternative", Payload: json.RawMessage(`"Alternative B"`)},
	}, nil
}

func (m *MockGenerator) GenerateImage(ctx context.Context, prompt, referenceImage string, allowExploration bool) (string, error) {
	m.count("image")
	if m.GenerateImageFn != nil {
		return m.GenerateImageFn(ctx, prompt, referenceImage, allowExploration)
	}
	return "https://images.example/" + fmt.Sprintf("%d.png", m.CallCount("image")), nil
}
