// Package expand implements toggle-or-synthesize semantics for every
// intermediate tree level, plus the bulk workflows that populate many
// branches at once.
package expand

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/adforge/adforge/internal/core/model"
	"github.com/adforge/adforge/internal/core/store"
	"github.com/adforge/adforge/internal/gen"
	"github.com/adforge/adforge/internal/logger"
	"github.com/adforge/adforge/internal/metrics"
)

var (
	ErrNodeNotFound = errors.New("node not found")
	ErrLeafNode     = errors.New("creative nodes have no expansion")
)

// Options are the generation knobs sourced from config.
type Options struct {
	PersonaVariations      int
	CreativeCount          int
	AllowVisualExploration bool
	BulkFanout             int
}

func (o Options) withDefaults() Options {
	if o.PersonaVariations <= 0 {
		o.PersonaVariations = 3
	}
	if o.CreativeCount <= 0 {
		o.CreativeCount = 3
	}
	if o.BulkFanout <= 0 {
		o.BulkFanout = 4
	}
	return o
}

type Engine struct {
	store *store.Store
	gen   gen.Generator
	log   *logger.Logger
	opts  Options
}

func New(s *store.Store, g gen.Generator, log *logger.Logger, opts Options) *Engine {
	return &Engine{store: s, gen: g, log: log, opts: opts.withDefaults()}
}

// Toggle implements the per-node state machine. Nodes with existing
// children only flip visibility; nodes without children synthesize them
// first. On synthesis failure nothing is added and the expansion flag stays
// unset, so the next toggle retries.
func (e *Engine) Toggle(ctx context.Context, nodeID string) error {
	node, ok := e.store.Node(nodeID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	if node.Type == model.TypeCreative {
		return ErrLeafNode
	}

	if e.store.HasChildren(nodeID) {
		expanded := node.Expanded != nil && *node.Expanded
		return e.store.SetExpanded(nodeID, !expanded)
	}

	children, err := e.synthesize(ctx, node)
	if err != nil {
		e.log.Warn("expansion failed", "node", nodeID, "type", node.Type, "error", err)
		return err
	}
	e.store.AddNodes(children)
	metrics.NodesCreated.Add(float64(len(children)))
	e.log.Info("expanded node", "node", nodeID, "type", node.Type, "children", len(children))
	return e.store.SetExpanded(nodeID, true)
}

// synthesize produces the child set for a node. The offer, trigger and
// format levels are static enumerations and never touch the generator; all
// other levels are AI fan-outs parameterized by the ancestor chain.
func (e *Engine) synthesize(ctx context.Context, node *model.Node) ([]*model.Node, error) {
	switch node.Type {
	case model.TypeRoot:
		return e.personaChildren(ctx, node)
	case model.TypePersona:
		return e.painDesireChildren(ctx, node)
	case model.TypePainDesire:
		return e.objectionChildren(ctx, node)
	case model.TypeObjection:
		return e.offerChildren(ctx, node)
	case model.TypeOffer:
		return staticAwarenessChildren(node), nil
	case model.TypeAwareness:
		return e.angleChildren(ctx, node)
	case model.TypeAngle:
		return e.triggerChildren(ctx, node)
	case model.TypeTrigger:
		return staticFormatChildren(node), nil
	case model.TypeFormat:
		return staticPlacementChildren(node), nil
	case model.TypePlacement:
		return e.creativeChildren(ctx, node)
	default:
		return nil, fmt.Errorf("no expansion defined for node type %s", node.Type)
	}
}

func (e *Engine) personaChildren(ctx context.Context, node *model.Node) ([]*model.Node, error) {
	bp, err := e.blueprint()
	if err != nil {
		return nil, err
	}
	var existing []model.Persona
	for _, c := range e.store.ChildrenOfType(node.ID, model.TypePersona) {
		if pc, ok := c.Content.(model.PersonaContent); ok {
			existing = append(existing, pc.Persona)
		}
	}
	personas, err := e.gen.GeneratePersonaVariations(ctx, bp, existing, e.opts.PersonaVariations)
	if err != nil {
		return nil, fmt.Errorf("persona generation: %w", err)
	}
	return PersonaNodes(node.ID, personas), nil
}

func (e *Engine) painDesireChildren(ctx context.Context, node *model.Node) ([]*model.Node, error) {
	bp, err := e.blueprint()
	if err != nil {
		return nil, err
	}
	persona, err := e.personaAt(node.ID)
	if err != nil {
		return nil, err
	}
	items, err := e.gen.GeneratePainDesires(ctx, bp, persona)
	if err != nil {
		return nil, fmt.Errorf("pain/desire generation: %w", err)
	}
	nodes := make([]*model.Node, 0, len(items))
	for _, pd := range items {
		nodes = append(nodes, newNode(node.ID, model.TypePainDesire,
			pd.Kind+": "+pd.Text, model.PainDesireContent{PainDesire: pd}))
	}
	return nodes, nil
}

func (e *Engine) objectionChildren(ctx context.Context, node *model.Node) ([]*model.Node, error) {
	bp, err := e.blueprint()
	if err != nil {
		return nil, err
	}
	persona, err := e.personaAt(node.ID)
	if err != nil {
		return nil, err
	}
	pd, err := e.painDesireAt(node.ID)
	if err != nil {
		return nil, err
	}
	items, err := e.gen.GenerateObjections(ctx, bp, persona, pd)
	if err != nil {
		return nil, fmt.Errorf("objection generation: %w", err)
	}
	nodes := make([]*model.Node, 0, len(items))
	for _, obj := range items {
		nodes = append(nodes, newNode(node.ID, model.TypeObjection,
			obj.Text, model.ObjectionContent{Objection: obj}))
	}
	return nodes, nil
}

func (e *Engine) offerChildren(ctx context.Context, node *model.Node) ([]*model.Node, error) {
	bp, err := e.blueprint()
	if err != nil {
		return nil, err
	}
	persona, err := e.personaAt(node.ID)
	if err != nil {
		return nil, err
	}
	obj, err := e.objectionAt(node.ID)
	if err != nil {
		return nil, err
	}
	items, err := e.gen.GenerateOfferTypes(ctx, bp, persona, obj)
	if err != nil {
		return nil, fmt.Errorf("offer generation: %w", err)
	}
	nodes := make([]*model.Node, 0, len(items))
	for _, offer := range items {
		nodes = append(nodes, newNode(node.ID, model.TypeOffer,
			offer.Name, model.OfferContent{Offer: offer}))
	}
	return nodes, nil
}

func (e *Engine) angleChildren(ctx context.Context, node *model.Node) ([]*model.Node, error) {
	bp, err := e.blueprint()
	if err != nil {
		return nil, err
	}
	aw, err := awarenessOf(node)
	if err != nil {
		return nil, err
	}
	persona, err := e.personaAt(node.ID)
	if err != nil {
		return nil, err
	}
	obj, err := e.objectionAt(node.ID)
	if err != nil {
		return nil, err
	}
	pd, err := e.painDesireAt(node.ID)
	if err != nil {
		return nil, err
	}
	offer, err := e.offerAt(node.ID)
	if err != nil {
		return nil, err
	}
	angles, err := e.gen.GenerateAngles(ctx, bp, persona, aw, obj, pd, offer)
	if err != nil {
		return nil, fmt.Errorf("angle generation: %w", err)
	}
	nodes := make([]*model.Node, 0, len(angles))
	for _, a := range angles {
		nodes = append(nodes, newNode(node.ID, model.TypeAngle, a, model.AngleContent{Angle: a}))
	}
	return nodes, nil
}

func (e *Engine) triggerChildren(ctx context.Context, node *model.Node) ([]*model.Node, error) {
	bp, err := e.blueprint()
	if err != nil {
		return nil, err
	}
	angle, err := angleOf(node)
	if err != nil {
		return nil, err
	}
	persona, err := e.personaAt(node.ID)
	if err != nil {
		return nil, err
	}
	aw, err := e.awarenessAt(node.ID)
	if err != nil {
		return nil, err
	}
	triggers, err := e.gen.GenerateTriggers(ctx, bp, persona, angle, aw)
	if err != nil {
		return nil, fmt.Errorf("trigger generation: %w", err)
	}
	nodes := make([]*model.Node, 0, len(triggers))
	for _, t := range triggers {
		nodes = append(nodes, newNode(node.ID, model.TypeTrigger,
			t.Name, model.TriggerContent{Trigger: t}))
	}
	return nodes, nil
}

func (e *Engine) creativeChildren(ctx context.Context, node *model.Node) ([]*model.Node, error) {
	bp, err := e.blueprint()
	if err != nil {
		return nil, err
	}
	placement, err := placementOf(node)
	if err != nil {
		return nil, err
	}
	persona, err := e.personaAt(node.ID)
	if err != nil {
		return nil, err
	}
	angle, err := e.angleAt(node.ID)
	if err != nil {
		return nil, err
	}
	trigger, err := e.triggerAt(node.ID)
	if err != nil {
		return nil, err
	}
	aw, err := e.awarenessAt(node.ID)
	if err != nil {
		return nil, err
	}
	format, err := e.formatAt(node.ID)
	if err != nil {
		return nil, err
	}
	offer, err := e.offerAt(node.ID)
	if err != nil {
		return nil, err
	}
	concepts, err := e.gen.GenerateCreativeIdeas(ctx, gen.CreativeRequest{
		Blueprint:              bp,
		Persona:                persona,
		Angle:                  angle,
		Trigger:                trigger,
		Awareness:              aw,
		Format:                 format,
		Placement:              placement,
		Offer:                  offer,
		PathID:                 node.ID,
		AllowVisualExploration: e.opts.AllowVisualExploration,
		Count:                  e.opts.CreativeCount,
	})
	if err != nil {
		return nil, fmt.Errorf("creative generation: %w", err)
	}
	return CreativeNodes(node.ID, concepts), nil
}

func (e *Engine) blueprint() (model.Blueprint, error) {
	root := e.store.Root()
	if root == nil {
		return model.Blueprint{}, errors.New("no blueprint: session not started")
	}
	bc, ok := root.Content.(model.BlueprintContent)
	if !ok {
		return model.Blueprint{}, fmt.Errorf("root node carries %T content", root.Content)
	}
	return bc.Blueprint, nil
}

// PersonaNodes builds persona nodes parented on the root.
func PersonaNodes(rootID string, personas []model.Persona) []*model.Node {
	nodes := make([]*model.Node, 0, len(personas))
	for _, p := range personas {
		nodes = append(nodes, newNode(rootID, model.TypePersona,
			p.Description, model.PersonaContent{Persona: p}))
	}
	return nodes
}

// CreativeNodes wraps concepts as creative nodes under the given parent.
// Concepts without an id or strategic path get them filled from the parent.
func CreativeNodes(parentID string, concepts []*model.Concept) []*model.Node {
	nodes := make([]*model.Node, 0, len(concepts))
	for _, c := range concepts {
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		if c.StrategicPathID == "" {
			c.StrategicPathID = parentID
		}
		label := c.AdSetName
		if label == "" {
			label = c.Hook
		}
		nodes = append(nodes, &model.Node{
			ID:       c.ID,
			ParentID: parentID,
			Type:     model.TypeCreative,
			Label:    label,
			Content:  model.CreativeContent{Concept: c},
		})
	}
	return nodes
}

func newNode(parentID string, t model.NodeType, label string, content model.Content) *model.Node {
	return &model.Node{
		ID:       uuid.New().String(),
		ParentID: parentID,
		Type:     t,
		Label:    label,
		Content:  content,
	}
}

func staticAwarenessChildren(node *model.Node) []*model.Node {
	stages := model.AwarenessStages()
	nodes := make([]*model.Node, 0, len(stages))
	for _, s := range stages {
		nodes = append(nodes, newNode(node.ID, model.TypeAwareness,
			string(s), model.AwarenessContent{Stage: s}))
	}
	return nodes
}

func staticFormatChildren(node *model.Node) []*model.Node {
	formats := model.AdFormats()
	nodes := make([]*model.Node, 0, len(formats))
	for _, f := range formats {
		nodes = append(nodes, newNode(node.ID, model.TypeFormat,
			string(f), model.FormatContent{Format: f}))
	}
	return nodes
}

func staticPlacementChildren(node *model.Node) []*model.Node {
	format, err := formatOf(node)
	placements := model.AllPlacements
	if err == nil {
		placements = model.PlacementsFor(format)
	}
	nodes := make([]*model.Node, 0, len(placements))
	for _, p := range placements {
		nodes = append(nodes, newNode(node.ID, model.TypePlacement,
			p, model.PlacementContent{Placement: p}))
	}
	return nodes
}
