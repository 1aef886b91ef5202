// Package mutate implements the three concept mutation operations: Evolve
// (one strategic axis changes), Quick Pivot (holistic re-contextualization)
// and Remix (suggest alternatives for one DNA component, then evolve from a
// chosen one). Each produces exactly one new creative node and never touches
// the source concept beyond its transient in-progress flag; a failed attempt
// leaves the store unchanged.
package mutate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/adforge/adforge/internal/core/expand"
	"github.com/adforge/adforge/internal/core/lineage"
	"github.com/adforge/adforge/internal/core/model"
	"github.com/adforge/adforge/internal/core/store"
	"github.com/adforge/adforge/internal/gen"
	"github.com/adforge/adforge/internal/logger"
	"github.com/adforge/adforge/internal/metrics"
)

var (
	ErrNodeNotFound = errors.New("node not found")
	// ErrSuperseded is returned when a suggestion response resolves after a
	// newer request was issued; the stale result is discarded.
	ErrSuperseded = errors.New("suggestion request superseded")
	// ErrEmptyResult is a generator contract breach: a successful call must
	// return at least one concept.
	ErrEmptyResult = errors.New("generator returned no concepts")
)

type Engine struct {
	store *store.Store
	gen   gen.Generator
	log   *logger.Logger

	// Monotonic token guarding remix suggestions against out-of-order
	// completion: only the latest issued request may publish its result.
	suggestionToken uint64
}

func New(s *store.Store, g gen.Generator, log *logger.Logger) *Engine {
	return &Engine{store: s, gen: g, log: log}
}

// Evolve changes exactly one strategic axis of a concept. A bare trigger
// name is resolved to a structured trigger first, since trigger evolution
// requires the full object. The result keeps the base concept's strategic
// path and is tagged Evolved.
func (m *Engine) Evolve(ctx context.Context, nodeID string, axis gen.EvolveAxis, newValue json.RawMessage) (*model.Node, error) {
	node, base, err := m.creative(nodeID)
	if err != nil {
		return nil, err
	}
	bp, err := m.blueprint()
	if err != nil {
		return nil, err
	}

	m.setFlag(node, func(c *model.Concept, on bool) { c.IsEvolving = on }, true)
	defer m.setFlag(node, func(c *model.Concept, on bool) { c.IsEvolving = on }, false)

	if axis == gen.AxisTrigger {
		newValue, err = m.resolveTriggerValue(ctx, base, bp, newValue)
		if err != nil {
			return nil, err
		}
	}

	results, err := m.gen.EvolveConcept(ctx, base, bp, axis, newValue)
	if err != nil {
		return nil, fmt.Errorf("evolve: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrEmptyResult
	}

	concept := results[0]
	concept.StrategicPathID = base.StrategicPathID
	concept.EntryPoint = model.EntryEvolved
	concept.CampaignTag = base.CampaignTag
	return m.install(concept, base, node)
}

// QuickPivot re-contextualizes a concept along one pivot axis. The result's
// strategic path comes from the generated concept when it resolves to a
// live node, since a pivot may target a different implicit attachment point.
func (m *Engine) QuickPivot(ctx context.Context, nodeID string, pivot gen.PivotType, cfg gen.PivotConfig) (*model.Node, error) {
	node, base, err := m.creative(nodeID)
	if err != nil {
		return nil, err
	}
	bp, err := m.blueprint()
	if err != nil {
		return nil, err
	}

	m.setFlag(node, func(c *model.Concept, on bool) { c.IsPivoting = on }, true)
	defer m.setFlag(node, func(c *model.Concept, on bool) { c.IsPivoting = on }, false)

	results, err := m.gen.GenerateQuickPivot(ctx, base, bp, pivot, cfg)
	if err != nil {
		return nil, fmt.Errorf("pivot %s: %w", pivot, err)
	}
	if len(results) == 0 {
		return nil, ErrEmptyResult
	}

	concept := results[0]
	if concept.StrategicPathID == "" {
		concept.StrategicPathID = base.StrategicPathID
	}
	if _, ok := m.store.Node(concept.StrategicPathID); !ok {
		concept.StrategicPathID = base.StrategicPathID
	}
	concept.EntryPoint = model.EntryPivoted
	return m.install(concept, base, node)
}

// RequestSuggestions is the first Remix phase: assemble the concept's full
// DNA — failing fast with an incomplete-lineage error before any generator
// call — then ask for alternative values for one component. Re-requesting
// before a prior request resolves supersedes it; the stale response is
// discarded when it finally lands.
func (m *Engine) RequestSuggestions(ctx context.Context, nodeID string, component model.DnaComponent) ([]model.Suggestion, error) {
	_, base, err := m.creative(nodeID)
	if err != nil {
		return nil, err
	}
	dna, err := lineage.AssembleDNA(m.store, base)
	if err != nil {
		return nil, err
	}
	bp, err := m.blueprint()
	if err != nil {
		return nil, err
	}

	token := atomic.AddUint64(&m.suggestionToken, 1)
	suggestions, err := m.gen.GenerateRemixSuggestions(ctx, component, base, *dna, bp)
	if err != nil {
		return nil, fmt.Errorf("remix suggestions: %w", err)
	}
	if atomic.LoadUint64(&m.suggestionToken) != token {
		return nil, ErrSuperseded
	}
	for i := range suggestions {
		suggestions[i].Component = component
		suggestions[i].Token = token
	}
	return suggestions, nil
}

// ExecuteRemix is the second Remix phase: evolve from the chosen
// suggestion's payload, then retag the result as Remixed.
func (m *Engine) ExecuteRemix(ctx context.Context, nodeID string, s model.Suggestion) (*model.Node, error) {
	axis, err := axisFor(s.Component)
	if err != nil {
		return nil, err
	}
	node, err := m.Evolve(ctx, nodeID, axis, s.Payload)
	if err != nil {
		return nil, err
	}
	concept, err := model.ConceptOf(node)
	if err != nil {
		return nil, err
	}
	retagged := concept.Clone()
	retagged.EntryPoint = model.EntryRemixed
	if err := m.store.UpdateContent(node.ID, model.CreativeContent{Concept: retagged}); err != nil {
		return nil, err
	}
	fresh, _ := m.store.Node(node.ID)
	return fresh, nil
}

func axisFor(c model.DnaComponent) (gen.EvolveAxis, error) {
	switch c {
	case model.ComponentPersona:
		return gen.AxisPersona, nil
	case model.ComponentPainDesire:
		return gen.AxisPainDesire, nil
	case model.ComponentOffer:
		return gen.AxisOffer, nil
	case model.ComponentAwareness:
		return gen.AxisAwareness, nil
	case model.ComponentAngle:
		return gen.AxisAngle, nil
	case model.ComponentTrigger:
		return gen.AxisTrigger, nil
	case model.ComponentFormat:
		return gen.AxisFormat, nil
	case model.ComponentPlacement:
		return gen.AxisPlacement, nil
	default:
		return "", fmt.Errorf("unknown dna component %q", c)
	}
}

// resolveTriggerValue upgrades a bare trigger name to a full structured
// trigger. Persona and angle context come from the lineage when available,
// falling back to the concept's denormalized fields.
func (m *Engine) resolveTriggerValue(ctx context.Context, base *model.Concept, bp model.Blueprint, raw json.RawMessage) (json.RawMessage, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		// Already a structured object.
		var t model.Trigger
		if err := json.Unmarshal(raw, &t); err != nil || t.Name == "" {
			return nil, fmt.Errorf("trigger value is neither a name nor a trigger object")
		}
		return raw, nil
	}

	persona := model.Persona{
		Description: base.PersonaDescription,
		Age:         base.PersonaAge,
		CreatorType: base.PersonaCreatorType,
	}
	if n := lineage.NearestAncestorOfType(m.store, base.StrategicPathID, model.TypePersona); n != nil {
		if pc, ok := n.Content.(model.PersonaContent); ok {
			persona = pc.Persona
		}
	}

	trigger, err := m.gen.ResolveTriggerDetails(ctx, name, bp, persona, base.Angle)
	if err != nil {
		return nil, fmt.Errorf("resolve trigger %q: %w", name, err)
	}
	return json.Marshal(trigger)
}

// install wraps the mutated concept as one new creative node. Attachment
// prefers the concept's strategic-path node and falls back to the source
// node's parent when that node is gone.
func (m *Engine) install(concept, base *model.Concept, source *model.Node) (*model.Node, error) {
	parentID := concept.StrategicPathID
	if _, ok := m.store.Node(parentID); !ok {
		parentID = source.ParentID
		concept.StrategicPathID = base.StrategicPathID
	}
	nodes := expand.CreativeNodes(parentID, []*model.Concept{concept})
	m.store.AddNodes(nodes)
	metrics.NodesCreated.Inc()
	m.log.Info("concept mutated", "source", source.ID, "result", nodes[0].ID, "entry", concept.EntryPoint)
	return nodes[0], nil
}

func (m *Engine) creative(nodeID string) (*model.Node, *model.Concept, error) {
	node, ok := m.store.Node(nodeID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	concept, err := model.ConceptOf(node)
	if err != nil {
		return nil, nil, err
	}
	return node, concept, nil
}

func (m *Engine) blueprint() (model.Blueprint, error) {
	root := m.store.Root()
	if root == nil {
		return model.Blueprint{}, errors.New("no blueprint: session not started")
	}
	bc, ok := root.Content.(model.BlueprintContent)
	if !ok {
		return model.Blueprint{}, fmt.Errorf("root node carries %T content", root.Content)
	}
	return bc.Blueprint, nil
}

// setFlag replaces the source concept's content in place with the transient
// in-progress flag flipped; always paired with a deferred reset so the flag
// clears on success and failure alike.
func (m *Engine) setFlag(node *model.Node, set func(*model.Concept, bool), on bool) {
	concept, err := model.ConceptOf(node)
	if err != nil {
		return
	}
	cp := concept.Clone()
	set(cp, on)
	_ = m.store.UpdateContent(node.ID, model.CreativeContent{Concept: cp})
}
