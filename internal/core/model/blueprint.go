package model

// Blueprint is the strategic summary extracted from the reference ad. It
// roots the session: every generation call downstream is parameterized by it.
type Blueprint struct {
	Product        string  `json:"product"`
	ProductInfo    string  `json:"product_info,omitempty"`
	OfferInfo      string  `json:"offer_info,omitempty"`
	Persona        Persona `json:"persona"`
	SalesMechanism string  `json:"sales_mechanism"`
	Offer          string  `json:"offer"`
	Tone           string  `json:"tone"`
}

type Persona struct {
	Description string `json:"description"`
	Age         string `json:"age"`
	CreatorType string `json:"creator_type"`
}

// PainDesire is one pain point or desire of a persona. Kind is "Pain" or
// "Desire".
type PainDesire struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

const (
	PainKind   = "Pain"
	DesireKind = "Desire"
)

type Objection struct {
	Text    string `json:"text"`
	Counter string `json:"counter,omitempty"`
}

type Offer struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Principle   string `json:"principle"`
}

// AwarenessStage is one of the four fixed stages. Expansion of an offer node
// always fans out to exactly these, with no generation call.
type AwarenessStage string

const (
	ProblemAware  AwarenessStage = "Problem Aware"
	SolutionAware AwarenessStage = "Solution Aware"
	ProductAware  AwarenessStage = "Product Aware"
	MostAware     AwarenessStage = "Most Aware"
)

// AwarenessStages returns the fixed fan-out in funnel order.
func AwarenessStages() []AwarenessStage {
	return []AwarenessStage{ProblemAware, SolutionAware, ProductAware, MostAware}
}

type Trigger struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Example     string `json:"example"`
	Rationale   string `json:"rationale"`
}

// AdFormat is the fixed creative-format enum. Expansion of a trigger node
// always fans out to exactly these, with no generation call.
type AdFormat string

const (
	FormatStatic   AdFormat = "Static Image"
	FormatCarousel AdFormat = "Carousel"
	FormatVideo    AdFormat = "Short Video"
	FormatUGC      AdFormat = "UGC"
	FormatMeme     AdFormat = "Meme"
)

func AdFormats() []AdFormat {
	return []AdFormat{FormatStatic, FormatCarousel, FormatVideo, FormatUGC, FormatMeme}
}

// AllPlacements is the fallback for formats with no dedicated mapping.
var AllPlacements = []string{
	"Facebook Feed", "Instagram Feed", "Instagram Stories",
	"Instagram Reels", "TikTok", "YouTube Shorts",
}

var placementsByFormat = map[AdFormat][]string{
	FormatStatic:   {"Facebook Feed", "Instagram Feed", "Instagram Stories"},
	FormatCarousel: {"Facebook Feed", "Instagram Feed"},
	FormatVideo:    {"TikTok", "Instagram Reels", "YouTube Shorts"},
	FormatUGC:      {"TikTok", "Instagram Reels", "Facebook Feed"},
}

// PlacementsFor returns the allowed placements for a format, falling back to
// all placements for unmapped formats.
func PlacementsFor(f AdFormat) []string {
	if p, ok := placementsByFormat[f]; ok {
		return p
	}
	return AllPlacements
}
