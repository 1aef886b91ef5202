package expand

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/adforge/adforge/internal/core/model"
	"github.com/adforge/adforge/internal/gen"
	"github.com/adforge/adforge/internal/metrics"
)

// Bulk workflows populate many branches at once. Concept generation fans
// out per persona and results land in goroutine-indexed slots; only after
// the whole group resolves is anything flattened into a single store batch,
// so a failing branch leaves the store untouched.

const (
	quickScaleTag = "Quick Scale"
	ugcPackTag    = "UGC Pack"
)

// campaignTriggers is the fixed named-trigger set crossed with formats by
// the one-click campaign.
var campaignTriggers = []model.Trigger{
	{Name: "Social Proof", Description: "Others like you already use and endorse it", Example: "Join 40,000 happy customers", Rationale: "Reduces perceived risk through consensus"},
	{Name: "Loss Aversion", Description: "What staying put is quietly costing", Example: "Every month without it you lose hours", Rationale: "Losses weigh heavier than equivalent gains"},
	{Name: "Curiosity Gap", Description: "An open question the ad refuses to close", Example: "The 10-second habit nobody talks about", Rationale: "Unresolved questions demand resolution"},
}

// campaignFormats is the format leg of the campaign cross-product.
var campaignFormats = []model.AdFormat{model.FormatStatic, model.FormatVideo, model.FormatUGC}

// QuickScale generates persona variations and, for every persona (existing
// and new), a small concept set parented directly on the persona — the
// shortcut subtree shape.
func (e *Engine) QuickScale(ctx context.Context, variations int) error {
	if variations <= 0 {
		variations = e.opts.PersonaVariations
	}
	return e.scalePersonas(ctx, variations, quickScaleTag, "", "")
}

// UGCDiversityPack is QuickScale with every resulting concept forced to the
// UGC format and retagged.
func (e *Engine) UGCDiversityPack(ctx context.Context) error {
	return e.scalePersonas(ctx, e.opts.PersonaVariations, ugcPackTag, model.FormatUGC, "")
}

func (e *Engine) scalePersonas(ctx context.Context, variations int, tag string, forceFormat model.AdFormat, preferredArc string) error {
	bp, err := e.blueprint()
	if err != nil {
		return err
	}
	root := e.store.Root()

	existingNodes := e.store.ChildrenOfType(root.ID, model.TypePersona)
	existing := make([]model.Persona, 0, len(existingNodes))
	for _, n := range existingNodes {
		if pc, ok := n.Content.(model.PersonaContent); ok {
			existing = append(existing, pc.Persona)
		}
	}

	fresh, err := e.gen.GeneratePersonaVariations(ctx, bp, existing, variations)
	if err != nil {
		return fmt.Errorf("persona variations: %w", err)
	}
	newPersonaNodes := PersonaNodes(root.ID, fresh)

	type target struct {
		persona model.Persona
		node    *model.Node // nil for already-stored personas
		nodeID  string
	}
	var targets []target
	for _, n := range existingNodes {
		pc := n.Content.(model.PersonaContent)
		targets = append(targets, target{persona: pc.Persona, nodeID: n.ID})
	}
	for i, n := range newPersonaNodes {
		targets = append(targets, target{persona: fresh[i], node: n, nodeID: n.ID})
	}

	results := make([][]*model.Concept, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.BulkFanout)
	for i, t := range targets {
		i, t := i, t
		g.Go(func() error {
			req := gen.CreativeRequest{
				Blueprint:              bp,
				Persona:                t.persona,
				PathID:                 t.nodeID,
				AllowVisualExploration: e.opts.AllowVisualExploration,
				PreferredArc:           preferredArc,
				Count:                  e.opts.CreativeCount,
			}
			if forceFormat != "" {
				req.Format = forceFormat
			}
			concepts, err := e.gen.GenerateCreativeIdeas(gctx, req)
			if err != nil {
				return fmt.Errorf("concepts for persona %q: %w", t.persona.Description, err)
			}
			for _, c := range concepts {
				c.CampaignTag = tag
				c.StrategicPathID = t.nodeID
				c.PersonaDescription = t.persona.Description
				c.PersonaAge = t.persona.Age
				c.PersonaCreatorType = t.persona.CreatorType
				if forceFormat != "" {
					c.Format = forceFormat
				}
			}
			results[i] = concepts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Fan-in barrier passed; flatten into one batch.
	batch := append([]*model.Node{}, newPersonaNodes...)
	for i, t := range targets {
		batch = append(batch, CreativeNodes(t.nodeID, results[i])...)
	}
	e.store.AddNodes(batch)
	metrics.NodesCreated.Add(float64(len(batch)))

	_ = e.store.SetExpanded(root.ID, true)
	for _, t := range targets {
		_ = e.store.SetExpanded(t.nodeID, true)
	}
	e.log.Info("bulk workflow complete", "tag", tag, "personas", len(targets), "nodes", len(batch))
	return nil
}

// OneClickCampaign generates two extra personas and, for each of the three,
// a full formats × triggers matrix of concepts, all under one campaign tag.
func (e *Engine) OneClickCampaign(ctx context.Context) error {
	bp, err := e.blueprint()
	if err != nil {
		return err
	}
	root := e.store.Root()
	tag := fmt.Sprintf("Campaign %s", time.Now().Format("2006-01-02 15:04"))

	existingNodes := e.store.ChildrenOfType(root.ID, model.TypePersona)
	existing := make([]model.Persona, 0, len(existingNodes))
	for _, n := range existingNodes {
		if pc, ok := n.Content.(model.PersonaContent); ok {
			existing = append(existing, pc.Persona)
		}
	}

	fresh, err := e.gen.GeneratePersonaVariations(ctx, bp, existing, 2)
	if err != nil {
		return fmt.Errorf("persona variations: %w", err)
	}
	newPersonaNodes := PersonaNodes(root.ID, fresh)

	type cell struct {
		persona model.Persona
		nodeID  string
		format  model.AdFormat
		trigger model.Trigger
	}
	var cells []cell
	addPersona := func(p model.Persona, nodeID string) {
		for _, f := range campaignFormats {
			for _, t := range campaignTriggers {
				cells = append(cells, cell{persona: p, nodeID: nodeID, format: f, trigger: t})
			}
		}
	}
	for _, n := range existingNodes {
		pc := n.Content.(model.PersonaContent)
		addPersona(pc.Persona, n.ID)
	}
	for i, n := range newPersonaNodes {
		addPersona(fresh[i], n.ID)
	}

	results := make([][]*model.Concept, len(cells))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.BulkFanout)
	for i, c := range cells {
		i, c := i, c
		g.Go(func() error {
			concepts, err := e.gen.GenerateCreativeIdeas(gctx, gen.CreativeRequest{
				Blueprint:              bp,
				Persona:                c.persona,
				Trigger:                c.trigger,
				Format:                 c.format,
				PathID:                 c.nodeID,
				AllowVisualExploration: e.opts.AllowVisualExploration,
				Count:                  1,
			})
			if err != nil {
				return fmt.Errorf("campaign cell %s/%s: %w", c.format, c.trigger.Name, err)
			}
			for _, concept := range concepts {
				concept.CampaignTag = tag
				concept.StrategicPathID = c.nodeID
				concept.Format = c.format
				concept.Trigger = c.trigger
				concept.PersonaDescription = c.persona.Description
				concept.PersonaAge = c.persona.Age
				concept.PersonaCreatorType = c.persona.CreatorType
			}
			results[i] = concepts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	batch := append([]*model.Node{}, newPersonaNodes...)
	for i, c := range cells {
		batch = append(batch, CreativeNodes(c.nodeID, results[i])...)
	}
	e.store.AddNodes(batch)
	metrics.NodesCreated.Add(float64(len(batch)))

	_ = e.store.SetExpanded(root.ID, true)
	for _, n := range existingNodes {
		_ = e.store.SetExpanded(n.ID, true)
	}
	for _, n := range newPersonaNodes {
		_ = e.store.SetExpanded(n.ID, true)
	}
	e.log.Info("campaign generated", "tag", tag, "cells", len(cells), "nodes", len(batch))
	return nil
}
