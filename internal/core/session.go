// Package core owns the session: one blueprint, one strategy tree, one
// logical thread of control. The session is the only shared state container;
// it is created on start, reset on "start over" and never shared across
// sessions.
package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/adforge/adforge/internal/core/expand"
	"github.com/adforge/adforge/internal/core/model"
	"github.com/adforge/adforge/internal/core/mutate"
	"github.com/adforge/adforge/internal/core/store"
	"github.com/adforge/adforge/internal/core/view"
	"github.com/adforge/adforge/internal/gen"
	"github.com/adforge/adforge/internal/logger"
	"github.com/adforge/adforge/internal/metrics"
)

var (
	// ErrBusy rejects a top-level operation while another is in flight.
	ErrBusy = errors.New("another operation is in progress")
	// ErrConfirmRequired guards subtree deletion.
	ErrConfirmRequired = errors.New("deletion requires confirmation")
	// ErrNoSession is returned by operations that need a started session.
	ErrNoSession = errors.New("no active session: upload a reference ad first")
)

type Session struct {
	gen  gen.Generator
	log  *logger.Logger
	opts expand.Options

	// mu guards the store and engines; generation ops hold it for their
	// full duration, queries take read locks.
	mu     sync.RWMutex
	store  *store.Store
	expand *expand.Engine
	mutate *mutate.Engine

	// flagMu guards the busy indicator and banner error independently so
	// status reads never wait on an in-flight generation.
	flagMu    sync.Mutex
	busy      bool
	lastError string
}

func NewSession(g gen.Generator, log *logger.Logger, opts expand.Options) *Session {
	s := &Session{gen: g, log: log, opts: opts}
	s.initStore()
	return s
}

func (s *Session) initStore() {
	s.store = store.New()
	s.expand = expand.New(s.store, s.gen, s.log, s.opts)
	s.mutate = mutate.New(s.store, s.gen, s.log)
}

// begin claims the global busy indicator; every generation-backed operation
// goes through it and releases via end in a defer, success or failure.
func (s *Session) begin() error {
	s.flagMu.Lock()
	defer s.flagMu.Unlock()
	if s.busy {
		metrics.BusyRejections.Inc()
		return ErrBusy
	}
	s.busy = true
	return nil
}

func (s *Session) end() {
	s.flagMu.Lock()
	s.busy = false
	s.flagMu.Unlock()
}

func (s *Session) Busy() bool {
	s.flagMu.Lock()
	defer s.flagMu.Unlock()
	return s.busy
}

// setError records the banner message shown to the user; it never blocks
// interaction elsewhere in the tree.
func (s *Session) setError(err error) {
	if err == nil {
		return
	}
	s.flagMu.Lock()
	s.lastError = err.Error()
	s.flagMu.Unlock()
}

func (s *Session) LastError() string {
	s.flagMu.Lock()
	defer s.flagMu.Unlock()
	return s.lastError
}

func (s *Session) ClearError() {
	s.flagMu.Lock()
	s.lastError = ""
	s.flagMu.Unlock()
}

// Start analyzes the reference ad and roots a fresh tree: one blueprint
// node plus a seed persona child taken from the blueprint itself.
func (s *Session) Start(ctx context.Context, in gen.BlueprintInput) (err error) {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()
	defer func() { s.setError(err) }()

	bp, err := s.gen.AnalyzeBlueprint(ctx, in)
	if err != nil {
		return fmt.Errorf("blueprint analysis: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.initStore()
	root := &model.Node{
		ID:      uuid.New().String(),
		Type:    model.TypeRoot,
		Label:   bp.Product,
		Content: model.BlueprintContent{Blueprint: *bp},
	}
	seed := &model.Node{
		ID:       uuid.New().String(),
		ParentID: root.ID,
		Type:     model.TypePersona,
		Label:    bp.Persona.Description,
		Content:  model.PersonaContent{Persona: bp.Persona},
	}
	s.store.AddNodes([]*model.Node{root, seed})
	metrics.NodesCreated.Add(2)
	_ = s.store.SetExpanded(root.ID, true)
	s.log.Info("session started", "product", bp.Product, "persona", bp.Persona.Description)
	return nil
}

// Reset discards everything. Nothing survives a reset.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	metrics.NodesDeleted.Add(float64(s.store.Len()))
	s.initStore()
	s.ClearError()
	s.log.Info("session reset")
}

func (s *Session) started() error {
	if s.store.Root() == nil {
		return ErrNoSession
	}
	return nil
}

// ToggleNode expands or collapses one node, synthesizing children on first
// expansion.
func (s *Session) ToggleNode(ctx context.Context, nodeID string) (err error) {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()
	defer func() { s.setError(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.started(); err != nil {
		return err
	}
	return s.expand.Toggle(ctx, nodeID)
}

// DeleteSubtree removes a node and all descendants. The confirmed flag is
// the caller's assertion that the user approved; declining is a no-op
// upstream, not an error here.
func (s *Session) DeleteSubtree(nodeID string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := s.store.DeleteSubtree(nodeID)
	metrics.NodesDeleted.Add(float64(len(removed)))
	s.log.Info("subtree deleted", "node", nodeID, "removed", len(removed))
	return nil
}

func (s *Session) QuickScale(ctx context.Context, variations int) (err error) {
	return s.runWorkflow(ctx, func(ctx context.Context) error {
		return s.expand.QuickScale(ctx, variations)
	})
}

func (s *Session) UGCDiversityPack(ctx context.Context) error {
	return s.runWorkflow(ctx, s.expand.UGCDiversityPack)
}

func (s *Session) OneClickCampaign(ctx context.Context) error {
	return s.runWorkflow(ctx, s.expand.OneClickCampaign)
}

func (s *Session) runWorkflow(ctx context.Context, fn func(context.Context) error) (err error) {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()
	defer func() { s.setError(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.started(); err != nil {
		return err
	}
	return fn(ctx)
}

func (s *Session) Evolve(ctx context.Context, nodeID string, axis gen.EvolveAxis, newValue json.RawMessage) (n *model.Node, err error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()
	defer func() { s.setError(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.started(); err != nil {
		return nil, err
	}
	return s.mutate.Evolve(ctx, nodeID, axis, newValue)
}

func (s *Session) QuickPivot(ctx context.Context, nodeID string, pivot gen.PivotType, cfg gen.PivotConfig) (n *model.Node, err error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()
	defer func() { s.setError(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.started(); err != nil {
		return nil, err
	}
	return s.mutate.QuickPivot(ctx, nodeID, pivot, cfg)
}

// RequestRemixSuggestions deliberately skips the busy guard: re-requesting
// for a different component while one request is outstanding is the
// supported way to supersede it.
func (s *Session) RequestRemixSuggestions(ctx context.Context, nodeID string, component model.DnaComponent) (out []model.Suggestion, err error) {
	defer func() { s.setError(err) }()
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.started(); err != nil {
		return nil, err
	}
	return s.mutate.RequestSuggestions(ctx, nodeID, component)
}

func (s *Session) ExecuteRemix(ctx context.Context, nodeID string, suggestion model.Suggestion) (n *model.Node, err error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()
	defer func() { s.setError(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.started(); err != nil {
		return nil, err
	}
	return s.mutate.ExecuteRemix(ctx, nodeID, suggestion)
}

// GenerateImages renders images for the given concepts one at a time:
// sequential on purpose, to bound load on the generator and give per-item
// progress. A failing item records its error on the concept and the loop
// moves on.
func (s *Session) GenerateImages(ctx context.Context, nodeIDs []string, allowExploration bool) (err error) {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()
	defer func() { s.setError(err) }()

	for i, id := range nodeIDs {
		s.log.Info("generating image", "node", id, "progress", fmt.Sprintf("%d/%d", i+1, len(nodeIDs)))
		s.generateOneImage(ctx, id, allowExploration)
	}
	return nil
}

func (s *Session) generateOneImage(ctx context.Context, nodeID string, allowExploration bool) {
	s.mu.Lock()
	node, ok := s.store.Node(nodeID)
	if !ok {
		s.mu.Unlock()
		return
	}
	concept, cerr := model.ConceptOf(node)
	if cerr != nil {
		s.mu.Unlock()
		return
	}
	marked := concept.Clone()
	marked.IsGenerating = true
	_ = s.store.UpdateContent(nodeID, model.CreativeContent{Concept: marked})
	prompt := concept.VisualPrompt
	s.mu.Unlock()

	url, gerr := s.gen.GenerateImage(ctx, prompt, "", allowExploration)

	s.mu.Lock()
	defer s.mu.Unlock()
	node, ok = s.store.Node(nodeID)
	if !ok {
		return
	}
	concept, cerr = model.ConceptOf(node)
	if cerr != nil {
		return
	}
	done := concept.Clone()
	done.IsGenerating = false
	if gerr != nil {
		done.Error = gerr.Error()
		s.log.Warn("image generation failed", "node", nodeID, "error", gerr)
	} else {
		done.Error = ""
		done.ImageURLs = append(done.ImageURLs, url)
	}
	_ = s.store.UpdateContent(nodeID, model.CreativeContent{Concept: done})
}

// SetConceptStatus applies a user lifecycle label to a concept.
func (s *Session) SetConceptStatus(nodeID, statusTag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	node, ok := s.store.Node(nodeID)
	if !ok {
		return fmt.Errorf("node %s not found", nodeID)
	}
	concept, err := model.ConceptOf(node)
	if err != nil {
		return err
	}
	tagged := concept.Clone()
	tagged.StatusTag = statusTag
	return s.store.UpdateContent(nodeID, model.CreativeContent{Concept: tagged})
}

// Read-side derivations.

func (s *Session) Tree() []*model.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Nodes()
}

func (s *Session) Layout() []view.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view.ComputeLayout(s.store)
}

func (s *Session) Concepts(f view.Filter) []*model.Concept {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view.FilterConcepts(s.store, view.FlattenConcepts(s.store), f)
}

func (s *Session) GroupedConcepts(f view.Filter) []view.PersonaGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view.GroupConcepts(s.store, view.FilterConcepts(s.store, view.FlattenConcepts(s.store), f))
}

func (s *Session) Blueprint() (*model.Blueprint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	root := s.store.Root()
	if root == nil {
		return nil, false
	}
	bc, ok := root.Content.(model.BlueprintContent)
	if !ok {
		return nil, false
	}
	bp := bc.Blueprint
	return &bp, true
}
