package model

// NodeType tags a node with its level in the strategy tree. Content shapes
// are keyed off this tag; see Content.
type NodeType string

const (
	TypeRoot       NodeType = "root"
	TypePersona    NodeType = "persona"
	TypePainDesire NodeType = "pain_desire"
	TypeObjection  NodeType = "objection"
	TypeOffer      NodeType = "offer"
	TypeAwareness  NodeType = "awareness"
	TypeAngle      NodeType = "angle"
	TypeTrigger    NodeType = "trigger"
	TypeFormat     NodeType = "format"
	TypePlacement  NodeType = "placement"
	TypeCreative   NodeType = "creative"
)

// ManualChain is the fixed type sequence from root to a creative node when
// the tree is explored level by level. Bulk workflows shortcut it by
// parenting creatives directly under a persona.
var ManualChain = []NodeType{
	TypePersona, TypePainDesire, TypeObjection, TypeOffer, TypeAwareness,
	TypeAngle, TypeTrigger, TypeFormat, TypePlacement, TypeCreative,
}

// Node is the universal tree element. ParentID is empty only for the root.
//
// Expanded is tri-state: nil means children were never synthesized, false
// means synthesized but collapsed, true means synthesized and visible. The
// nil/false distinction drives toggle-or-synthesize in the expansion engine.
type Node struct {
	ID       string   `json:"id"`
	ParentID string   `json:"parentId,omitempty"`
	Type     NodeType `json:"type"`
	Label    string   `json:"label"`
	Content  Content  `json:"content"`
	Expanded *bool    `json:"isExpanded,omitempty"`

	// Layout hints, owned by the layout engine.
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// IsCollapsed reports whether the node is explicitly collapsed (children
// exist but are hidden). A node with Expanded == nil is not collapsed, it is
// simply unexpanded.
func (n *Node) IsCollapsed() bool {
	return n.Expanded != nil && !*n.Expanded
}

// BoolPtr is a convenience for setting Expanded.
func BoolPtr(b bool) *bool { return &b }
