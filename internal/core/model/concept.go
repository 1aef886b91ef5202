package model

import "encoding/json"

// EntryPoint records which psychological framing or mutation produced a
// concept. Grouping sorts concepts by entry-point precedence.
type EntryPoint string

const (
	EntryEmotional EntryPoint = "Emotional"
	EntryLogical   EntryPoint = "Logical"
	EntrySocial    EntryPoint = "Social"
	EntryEvolved   EntryPoint = "Evolved"
	EntryPivoted   EntryPoint = "Pivoted"
	EntryRemixed   EntryPoint = "Remixed"
)

var entryPointRank = map[EntryPoint]int{
	EntryEmotional: 0,
	EntryLogical:   1,
	EntrySocial:    2,
	EntryEvolved:   3,
	EntryPivoted:   4,
	EntryRemixed:   5,
}

// EntryPointRank returns the sort precedence of an entry point. Unrecognized
// tags sink to the end; callers break ties on concept id.
func EntryPointRank(e EntryPoint) int {
	if r, ok := entryPointRank[e]; ok {
		return r
	}
	return len(entryPointRank)
}

type CarouselSlide struct {
	Headline     string `json:"headline"`
	Description  string `json:"description"`
	VisualPrompt string `json:"visual_prompt"`
}

// Concept is the terminal creative artifact carried by a creative node.
// Strategic fields are denormalized from the ancestor chain at generation
// time; StrategicPathID points at the node whose ancestry is the concept's
// DNA and is the attachment point for sibling concepts.
type Concept struct {
	ID string `json:"id"`

	Angle          string         `json:"angle"`
	Trigger        Trigger        `json:"trigger"`
	Format         AdFormat       `json:"format"`
	Placement      string         `json:"placement"`
	AwarenessStage AwarenessStage `json:"awareness_stage"`
	Offer          Offer          `json:"offer"`

	PersonaDescription string `json:"persona_description"`
	PersonaAge         string `json:"persona_age"`
	PersonaCreatorType string `json:"persona_creator_type"`

	Hook           string          `json:"hook"`
	Headline       string          `json:"headline"`
	VisualVehicle  string          `json:"visual_vehicle"`
	VisualPrompt   string          `json:"visual_prompt"`
	CarouselSlides []CarouselSlide `json:"carousel_slides,omitempty"`
	AdSetName      string          `json:"ad_set_name"`

	StrategicPathID string     `json:"strategic_path_id"`
	CampaignTag     string     `json:"campaign_tag,omitempty"`
	EntryPoint      EntryPoint `json:"entry_point"`

	ImageURLs          []string `json:"image_urls,omitempty"`
	IsGenerating       bool     `json:"is_generating,omitempty"`
	IsEvolving         bool     `json:"is_evolving,omitempty"`
	IsPivoting         bool     `json:"is_pivoting,omitempty"`
	Error              string   `json:"error,omitempty"`
	StatusTag          string   `json:"status_tag,omitempty"`
	PerformanceSignals []string `json:"performance_signals,omitempty"`
}

// Clone returns a deep-enough copy for in-place content replacement: slices
// are copied so flag flips on the copy never alias the stored concept.
func (c *Concept) Clone() *Concept {
	cp := *c
	cp.CarouselSlides = append([]CarouselSlide(nil), c.CarouselSlides...)
	cp.ImageURLs = append([]string(nil), c.ImageURLs...)
	cp.PerformanceSignals = append([]string(nil), c.PerformanceSignals...)
	return &cp
}

// AdDna is the reconstructed nine-level ancestor chain of one concept. It is
// an ephemeral view assembled on demand for Remix; it is never stored.
type AdDna struct {
	Persona    Persona        `json:"persona"`
	PainDesire PainDesire     `json:"pain_desire"`
	Objection  Objection      `json:"objection"`
	Offer      Offer          `json:"offer"`
	Awareness  AwarenessStage `json:"awareness"`
	Angle      string         `json:"angle"`
	Trigger    Trigger        `json:"trigger"`
	Format     AdFormat       `json:"format"`
	Placement  string         `json:"placement"`
}

// DnaComponent names one remixable axis of a concept's DNA.
type DnaComponent string

const (
	ComponentPersona    DnaComponent = "persona"
	ComponentPainDesire DnaComponent = "painDesire"
	ComponentObjection  DnaComponent = "objection"
	ComponentOffer      DnaComponent = "offer"
	ComponentAwareness  DnaComponent = "awareness"
	ComponentAngle      DnaComponent = "angle"
	ComponentTrigger    DnaComponent = "trigger"
	ComponentFormat     DnaComponent = "format"
	ComponentPlacement  DnaComponent = "placement"
)

// Suggestion is one alternative value for a DNA component, produced by the
// first Remix phase. Payload is opaque to the caller and handed back
// verbatim to ExecuteRemix.
type Suggestion struct {
	Component   DnaComponent    `json:"component"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Payload     json.RawMessage `json:"payload"`
	Token       uint64          `json:"token"`
}
