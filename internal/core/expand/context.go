package expand

import (
	"fmt"

	"github.com/adforge/adforge/internal/core/lineage"
	"github.com/adforge/adforge/internal/core/model"
)

// Ancestor payload accessors. Each resolves the nearest ancestor of the
// required type and unwraps its payload; a missing level is an incomplete
// lineage, a tag/shape mismatch is a contract error.

func (e *Engine) ancestor(nodeID string, t model.NodeType) (*model.Node, error) {
	n := lineage.NearestAncestorOfType(e.store, nodeID, t)
	if n == nil {
		return nil, fmt.Errorf("%w: no %s ancestor of node %s", lineage.ErrIncompleteLineage, t, nodeID)
	}
	return n, nil
}

func (e *Engine) personaAt(nodeID string) (model.Persona, error) {
	n, err := e.ancestor(nodeID, model.TypePersona)
	if err != nil {
		return model.Persona{}, err
	}
	c, ok := n.Content.(model.PersonaContent)
	if !ok {
		return model.Persona{}, contentMismatch(n)
	}
	return c.Persona, nil
}

func (e *Engine) painDesireAt(nodeID string) (model.PainDesire, error) {
	n, err := e.ancestor(nodeID, model.TypePainDesire)
	if err != nil {
		return model.PainDesire{}, err
	}
	c, ok := n.Content.(model.PainDesireContent)
	if !ok {
		return model.PainDesire{}, contentMismatch(n)
	}
	return c.PainDesire, nil
}

func (e *Engine) objectionAt(nodeID string) (model.Objection, error) {
	n, err := e.ancestor(nodeID, model.TypeObjection)
	if err != nil {
		return model.Objection{}, err
	}
	c, ok := n.Content.(model.ObjectionContent)
	if !ok {
		return model.Objection{}, contentMismatch(n)
	}
	return c.Objection, nil
}

func (e *Engine) offerAt(nodeID string) (model.Offer, error) {
	n, err := e.ancestor(nodeID, model.TypeOffer)
	if err != nil {
		return model.Offer{}, err
	}
	c, ok := n.Content.(model.OfferContent)
	if !ok {
		return model.Offer{}, contentMismatch(n)
	}
	return c.Offer, nil
}

func (e *Engine) awarenessAt(nodeID string) (model.AwarenessStage, error) {
	n, err := e.ancestor(nodeID, model.TypeAwareness)
	if err != nil {
		return "", err
	}
	return awarenessOf(n)
}

func (e *Engine) angleAt(nodeID string) (string, error) {
	n, err := e.ancestor(nodeID, model.TypeAngle)
	if err != nil {
		return "", err
	}
	return angleOf(n)
}

func (e *Engine) triggerAt(nodeID string) (model.Trigger, error) {
	n, err := e.ancestor(nodeID, model.TypeTrigger)
	if err != nil {
		return model.Trigger{}, err
	}
	c, ok := n.Content.(model.TriggerContent)
	if !ok {
		return model.Trigger{}, contentMismatch(n)
	}
	return c.Trigger, nil
}

func (e *Engine) formatAt(nodeID string) (model.AdFormat, error) {
	n, err := e.ancestor(nodeID, model.TypeFormat)
	if err != nil {
		return "", err
	}
	return formatOf(n)
}

// Direct payload extractors for a node already in hand.

func awarenessOf(n *model.Node) (model.AwarenessStage, error) {
	c, ok := n.Content.(model.AwarenessContent)
	if !ok {
		return "", contentMismatch(n)
	}
	return c.Stage, nil
}

func angleOf(n *model.Node) (string, error) {
	c, ok := n.Content.(model.AngleContent)
	if !ok {
		return "", contentMismatch(n)
	}
	return c.Angle, nil
}

func formatOf(n *model.Node) (model.AdFormat, error) {
	c, ok := n.Content.(model.FormatContent)
	if !ok {
		return "", contentMismatch(n)
	}
	return c.Format, nil
}

func placementOf(n *model.Node) (string, error) {
	c, ok := n.Content.(model.PlacementContent)
	if !ok {
		return "", contentMismatch(n)
	}
	return c.Placement, nil
}

func contentMismatch(n *model.Node) error {
	return fmt.Errorf("node %s tagged %s carries %T content", n.ID, n.Type, n.Content)
}
