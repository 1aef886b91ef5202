// Package gen defines the external generation collaborator: every AI-backed
// operation the tree engines call, as one interface. The engines treat it as
// an opaque function from structured input to structured output; schema
// mismatches surface as errors from the implementation, never as partial
// results.
package gen

import (
	"context"
	"encoding/json"

	"github.com/adforge/adforge/internal/core/model"
)

// BlueprintInput carries the uploaded reference ad and its user-supplied
// context.
type BlueprintInput struct {
	ImageB64    string
	ImageMIME   string
	Caption     string
	ProductInfo string
	OfferInfo   string
}

// CreativeRequest parameterizes creative-idea generation with the full
// strategic context of the attachment point.
type CreativeRequest struct {
	Blueprint              model.Blueprint
	Persona                model.Persona
	Angle                  string
	Trigger                model.Trigger
	Awareness              model.AwarenessStage
	Format                 model.AdFormat
	Placement              string
	Offer                  model.Offer
	PathID                 string
	AllowVisualExploration bool
	PreferredArc           string
	Count                  int
}

// EvolveAxis names the single strategic axis an Evolve call changes.
type EvolveAxis string

const (
	AxisAngle      EvolveAxis = "angle"
	AxisTrigger    EvolveAxis = "trigger"
	AxisFormat     EvolveAxis = "format"
	AxisPlacement  EvolveAxis = "placement"
	AxisAwareness  EvolveAxis = "awareness"
	AxisOffer      EvolveAxis = "offer"
	AxisPainDesire EvolveAxis = "painDesire"
	AxisPersona    EvolveAxis = "persona"
)

// PivotType names one of the nine holistic re-contextualizations.
type PivotType string

const (
	PivotAgeShift       PivotType = "age-shift"
	PivotGenderFlip     PivotType = "gender-flip"
	PivotLifestyleSwap  PivotType = "lifestyle-swap"
	PivotMarketExpand   PivotType = "market-expand"
	PivotAwarenessShift PivotType = "awareness-shift"
	PivotChannelAdapt   PivotType = "channel-adapt"
	PivotEmotionalFlip  PivotType = "emotional-flip"
	PivotProofTypeShift PivotType = "proof-type-shift"
	PivotUrgencyShift   PivotType = "urgency-vs-evergreen"
)

// PivotConfig is the per-type configuration payload; unused fields stay
// empty.
type PivotConfig struct {
	TargetAge     string `json:"target_age,omitempty"`
	TargetGender  string `json:"target_gender,omitempty"`
	TargetCountry string `json:"target_country,omitempty"`
	TargetChannel string `json:"target_channel,omitempty"`
	Lifestyle     string `json:"lifestyle,omitempty"`
	Emotion       string `json:"emotion,omitempty"`
	ProofType     string `json:"proof_type,omitempty"`
	Urgency       string `json:"urgency,omitempty"`
}

// Generator is the full capability surface of the external AI backend. All
// calls are fallible and return complete results or an error; there is no
// streaming.
type Generator interface {
	AnalyzeBlueprint(ctx context.Context, in BlueprintInput) (*model.Blueprint, error)
	GeneratePersonaVariations(ctx context.Context, bp model.Blueprint, existing []model.Persona, n int) ([]model.Persona, error)
	GeneratePainDesires(ctx context.Context, bp model.Blueprint, persona model.Persona) ([]model.PainDesire, error)
	GenerateObjections(ctx context.Context, bp model.Blueprint, persona model.Persona, pd model.PainDesire) ([]model.Objection, error)
	GenerateOfferTypes(ctx context.Context, bp model.Blueprint, persona model.Persona, obj model.Objection) ([]model.Offer, error)
	GenerateAngles(ctx context.Context, bp model.Blueprint, persona model.Persona, aw model.AwarenessStage, obj model.Objection, pd model.PainDesire, offer model.Offer) ([]string, error)
	GenerateTriggers(ctx context.Context, bp model.Blueprint, persona model.Persona, angle string, aw model.AwarenessStage) ([]model.Trigger, error)
	ResolveTriggerDetails(ctx context.Context, name string, bp model.Blueprint, persona model.Persona, angle string) (*model.Trigger, error)
	GenerateCreativeIdeas(ctx context.Context, req CreativeRequest) ([]*model.Concept, error)
	EvolveConcept(ctx context.Context, base *model.Concept, bp model.Blueprint, axis EvolveAxis, newValue json.RawMessage) ([]*model.Concept, error)
	GenerateQuickPivot(ctx context.Context, base *model.Concept, bp model.Blueprint, pivot PivotType, cfg PivotConfig) ([]*model.Concept, error)
	GenerateRemixSuggestions(ctx context.Context, component model.DnaComponent, base *model.Concept, dna model.AdDna, bp model.Blueprint) ([]model.Suggestion, error)
	GenerateImage(ctx context.Context, prompt, referenceImage string, allowExploration bool) (string, error)
}
