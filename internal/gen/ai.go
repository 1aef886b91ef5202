package gen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adforge/adforge/internal/config"
	"github.com/adforge/adforge/internal/core/common"
	"github.com/adforge/adforge/internal/core/model"
	"github.com/adforge/adforge/internal/llm"
	"github.com/adforge/adforge/internal/metrics"
)

// ErrNoVision and ErrNoImages report a provider capability gap, not a
// transient failure.
var (
	ErrNoVision = errors.New("provider has no vision capability")
	ErrNoImages = errors.New("provider has no image generation capability")
)

// AIGenerator implements Generator over the configured LLM provider. Every
// method renders a prompt template, makes one call and parses the response
// against a fixed wrapper schema; a parse failure fails the operation.
type AIGenerator struct {
	clients  llm.Clients
	prompts  config.Prompts
	gencfg   config.GenerationConfig
	reranker *llm.SuggestionReranker
}

func NewAIGenerator(clients llm.Clients, prompts config.Prompts, gencfg config.GenerationConfig) *AIGenerator {
	g := &AIGenerator{clients: clients, prompts: prompts, gencfg: gencfg}
	if gencfg.RerankSuggestions {
		g.reranker = llm.NewSuggestionReranker(clients.Text)
	}
	return g
}

func observe(op string, start time.Time, err error) {
	metrics.GenerationCalls.WithLabelValues(op).Inc()
	metrics.GenerationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GenerationFailures.WithLabelValues(op).Inc()
	}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}

func (g *AIGenerator) AnalyzeBlueprint(ctx context.Context, in BlueprintInput) (bp *model.Blueprint, err error) {
	defer func(start time.Time) { observe("analyze_blueprint", start, err) }(time.Now())
	if g.clients.Vision == nil {
		return nil, ErrNoVision
	}
	prompt := fmt.Sprintf(g.prompts.Blueprint, in.Caption, in.ProductInfo, in.OfferInfo)
	resp, err := g.clients.Vision.GenerateVision(ctx, prompt, in.ImageB64, in.ImageMIME)
	if err != nil {
		return nil, err
	}
	parsed, err := common.ParseJSON[struct {
		Blueprint model.Blueprint `json:"blueprint"`
	}](resp)
	if err != nil {
		return nil, err
	}
	parsed.Blueprint.ProductInfo = in.ProductInfo
	parsed.Blueprint.OfferInfo = in.OfferInfo
	return &parsed.Blueprint, nil
}

func (g *AIGenerator) GeneratePersonaVariations(ctx context.Context, bp model.Blueprint, existing []model.Persona, n int) (out []model.Persona, err error) {
	defer func(start time.Time) { observe("personas", start, err) }(time.Now())
	var lines []string
	for _, p := range existing {
		lines = append(lines, "- "+p.Description)
	}
	prompt := fmt.Sprintf(g.prompts.Personas, mustJSON(bp), strings.Join(lines, "\n"), n)
	resp, err := g.clients.Text.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	parsed, err := common.ParseJSON[struct {
		Personas []model.Persona `json:"personas"`
	}](resp)
	if err != nil {
		return nil, err
	}
	return parsed.Personas, nil
}

func (g *AIGenerator) GeneratePainDesires(ctx context.Context, bp model.Blueprint, persona model.Persona) (out []model.PainDesire, err error) {
	defer func(start time.Time) { observe("pain_desires", start, err) }(time.Now())
	prompt := fmt.Sprintf(g.prompts.PainDesires, mustJSON(bp), mustJSON(persona))
	resp, err := g.clients.Text.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	parsed, err := common.ParseJSON[struct {
		PainDesires []model.PainDesire `json:"pain_desires"`
	}](resp)
	if err != nil {
		return nil, err
	}
	return parsed.PainDesires, nil
}

func (g *AIGenerator) GenerateObjections(ctx context.Context, bp model.Blueprint, persona model.Persona, pd model.PainDesire) (out []model.Objection, err error) {
	defer func(start time.Time) { observe("objections", start, err) }(time.Now())
	prompt := fmt.Sprintf(g.prompts.Objections, mustJSON(bp), mustJSON(persona), mustJSON(pd))
	resp, err := g.clients.Text.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	parsed, err := common.ParseJSON[struct {
		Objections []model.Objection `json:"objections"`
	}](resp)
	if err != nil {
		return nil, err
	}
	return parsed.Objections, nil
}

func (g *AIGenerator) GenerateOfferTypes(ctx context.Context, bp model.Blueprint, persona model.Persona, obj model.Objection) (out []model.Offer, err error) {
	defer func(start time.Time) { observe("offers", start, err) }(time.Now())
	prompt := fmt.Sprintf(g.prompts.Offers, mustJSON(bp), mustJSON(persona), mustJSON(obj))
	resp, err := g.clients.Text.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	parsed, err := common.ParseJSON[struct {
		Offers []model.Offer `json:"offers"`
	}](resp)
	if err != nil {
		return nil, err
	}
	return parsed.Offers, nil
}

func (g *AIGenerator) GenerateAngles(ctx context.Context, bp model.Blueprint, persona model.Persona, aw model.AwarenessStage, obj model.Objection, pd model.PainDesire, offer model.Offer) (out []string, err error) {
	defer func(start time.Time) { observe("angles", start, err) }(time.Now())
	prompt := fmt.Sprintf(g.prompts.Angles, mustJSON(bp), mustJSON(persona), aw, mustJSON(obj), mustJSON(pd), mustJSON(offer))
	resp, err := g.clients.Text.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	parsed, err := common.ParseJSON[struct {
		Angles []string `json:"angles"`
	}](resp)
	if err != nil {
		return nil, err
	}
	return parsed.Angles, nil
}

func (g *AIGenerator) GenerateTriggers(ctx context.Context, bp model.Blueprint, persona model.Persona, angle string, aw model.AwarenessStage) (out []model.Trigger, err error) {
	defer func(start time.Time) { observe("triggers", start, err) }(time.Now())
	prompt := fmt.Sprintf(g.prompts.Triggers, mustJSON(bp), mustJSON(persona), angle, aw)
	resp, err := g.clients.Text.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	parsed, err := common.ParseJSON[struct {
		Triggers []model.Trigger `json:"triggers"`
	}](resp)
	if err != nil {
		return nil, err
	}
	return parsed.Triggers, nil
}

func (g *AIGenerator) ResolveTriggerDetails(ctx context.Context, name string, bp model.Blueprint, persona model.Persona, angle string) (out *model.Trigger, err error) {
	defer func(start time.Time) { observe("trigger_details", start, err) }(time.Now())
	prompt := fmt.Sprintf(g.prompts.TriggerDetails, name, mustJSON(bp), mustJSON(persona), angle)
	resp, err := g.clients.Text.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	parsed, err := common.ParseJSON[struct {
		Trigger model.Trigger `json:"trigger"`
	}](resp)
	if err != nil {
		return nil, err
	}
	if parsed.Trigger.Name == "" {
		parsed.Trigger.Name = name
	}
	return &parsed.Trigger, nil
}

func (g *AIGenerator) GenerateCreativeIdeas(ctx context.Context, req CreativeRequest) (out []*model.Concept, err error) {
	defer func(start time.Time) { observe("creatives", start, err) }(time.Now())
	count := req.Count
	if count <= 0 {
		count = g.gencfg.CreativeCount
	}
	prompt := fmt.Sprintf(g.prompts.Creatives, mustJSON(req), count)
	resp, err := g.clients.Text.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	parsed, err := common.ParseJSON[struct {
		Concepts []*model.Concept `json:"concepts"`
	}](resp)
	if err != nil {
		return nil, err
	}
	entries := []model.EntryPoint{model.EntryEmotional, model.EntryLogical, model.EntrySocial}
	for i, c := range parsed.Concepts {
		if c.EntryPoint == "" {
			c.EntryPoint = entries[i%len(entries)]
		}
		if c.StrategicPathID == "" {
			c.StrategicPathID = req.PathID
		}
	}
	return parsed.Concepts, nil
}

func (g *AIGenerator) EvolveConcept(ctx context.Context, base *model.Concept, bp model.Blueprint, axis EvolveAxis, newValue json.RawMessage) (out []*model.Concept, err error) {
	defer func(start time.Time) { observe("evolve", start, err) }(time.Now())
	prompt := fmt.Sprintf(g.prompts.Evolve, mustJSON(base), mustJSON(bp), axis, string(newValue))
	resp, err := g.clients.Text.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	parsed, err := common.ParseJSON[struct {
		Concepts []*model.Concept `json:"concepts"`
	}](resp)
	if err != nil {
		return nil, err
	}
	return parsed.Concepts, nil
}

func (g *AIGenerator) GenerateQuickPivot(ctx context.Context, base *model.Concept, bp model.Blueprint, pivot PivotType, cfg PivotConfig) (out []*model.Concept, err error) {
	defer func(start time.Time) { observe("pivot", start, err) }(time.Now())
	prompt := fmt.Sprintf(g.prompts.Pivot, mustJSON(base), mustJSON(bp), pivot, mustJSON(cfg))
	resp, err := g.clients.Text.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	parsed, err := common.ParseJSON[struct {
		Concepts []*model.Concept `json:"concepts"`
	}](resp)
	if err != nil {
		return nil, err
	}
	return parsed.Concepts, nil
}

func (g *AIGenerator) GenerateRemixSuggestions(ctx context.Context, component model.DnaComponent, base *model.Concept, dna model.AdDna, bp model.Blueprint) (out []model.Suggestion, err error) {
	defer func(start time.Time) { observe("remix_suggestions", start, err) }(time.Now())
	prompt := fmt.Sprintf(g.prompts.RemixSuggestions, component, mustJSON(dna), mustJSON(base), mustJSON(bp), g.gencfg.RemixSuggestionCount)
	resp, err := g.clients.Text.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	parsed, err := common.ParseJSON[struct {
		Suggestions []model.Suggestion `json:"suggestions"`
	}](resp)
	if err != nil {
		return nil, err
	}
	suggestions := parsed.Suggestions
	if g.reranker != nil && len(suggestions) > 1 {
		docs := make([]string, len(suggestions))
		for i, s := range suggestions {
			docs[i] = s.Title + ": " + s.Description
		}
		query := fmt.Sprintf("strongest alternative %s for persona %q", component, base.PersonaDescription)
		if order, rerr := g.reranker.Rank(ctx, query, docs); rerr == nil && len(order) == len(suggestions) {
			ranked := make([]model.Suggestion, 0, len(suggestions))
			for _, idx := range order {
				ranked = append(ranked, suggestions[idx])
			}
			suggestions = ranked
		}
	}
	return suggestions, nil
}

func (g *AIGenerator) GenerateImage(ctx context.Context, prompt, referenceImage string, allowExploration bool) (url string, err error) {
	defer func(start time.Time) { observe("image", start, err) }(time.Now())
	if g.clients.Images == nil {
		return "", ErrNoImages
	}
	full := prompt
	if !allowExploration {
		full += "\nStay faithful to the reference composition and style."
	}
	url, err = g.clients.Images.GenerateImage(ctx, full, referenceImage)
	if err != nil {
		return "", err
	}
	metrics.ImagesGenerated.Inc()
	return url, nil
}
