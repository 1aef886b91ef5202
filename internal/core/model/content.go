package model

import "fmt"

// Content is the polymorphic payload of a node. The concrete shape is
// determined by the sibling Type tag; NodeType() is the discriminator the
// store checks on insert so a tag/shape mismatch can never enter the tree.
type Content interface {
	NodeType() NodeType
}

type BlueprintContent struct {
	Blueprint Blueprint `json:"blueprint"`
}

type PersonaContent struct {
	Persona Persona `json:"persona"`
}

type PainDesireContent struct {
	PainDesire PainDesire `json:"pain_desire"`
}

type ObjectionContent struct {
	Objection Objection `json:"objection"`
}

type OfferContent struct {
	Offer Offer `json:"offer"`
}

type AwarenessContent struct {
	Stage AwarenessStage `json:"stage"`
}

type AngleContent struct {
	Angle string `json:"angle"`
}

type TriggerContent struct {
	Trigger Trigger `json:"trigger"`
}

type FormatContent struct {
	Format AdFormat `json:"format"`
}

type PlacementContent struct {
	Placement string `json:"placement"`
}

type CreativeContent struct {
	Concept *Concept `json:"concept"`
}

func (BlueprintContent) NodeType() NodeType  { return TypeRoot }
func (PersonaContent) NodeType() NodeType    { return TypePersona }
func (PainDesireContent) NodeType() NodeType { return TypePainDesire }
func (ObjectionContent) NodeType() NodeType  { return TypeObjection }
func (OfferContent) NodeType() NodeType      { return TypeOffer }
func (AwarenessContent) NodeType() NodeType  { return TypeAwareness }
func (AngleContent) NodeType() NodeType      { return TypeAngle }
func (TriggerContent) NodeType() NodeType    { return TypeTrigger }
func (FormatContent) NodeType() NodeType     { return TypeFormat }
func (PlacementContent) NodeType() NodeType  { return TypePlacement }
func (CreativeContent) NodeType() NodeType   { return TypeCreative }

// ConceptOf extracts the concept from a creative node, rejecting any
// tag/shape mismatch instead of coercing.
func ConceptOf(n *Node) (*Concept, error) {
	if n.Type != TypeCreative {
		return nil, fmt.Errorf("node %s is %s, not creative", n.ID, n.Type)
	}
	cc, ok := n.Content.(CreativeContent)
	if !ok || cc.Concept == nil {
		return nil, fmt.Errorf("node %s: creative tag with %T content", n.ID, n.Content)
	}
	return cc.Concept, nil
}

