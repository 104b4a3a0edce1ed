package model

// Sentinel values substituted when a snapshot item lacks a usable field.
// Records are never dropped for missing metadata alone; they carry these
// placeholders into the digest instead.
const (
	NoTitle       = "Untitled" // Title placeholder
	NoURL         = "#"        // Inert href for items without a link
	UnknownSource = "unknown"  // Source label when nothing can be inferred
)

// ContentRecord is the flat, normalized form of one news item recovered
// from a snapshot file, regardless of how deeply it was nested
type ContentRecord struct {
	Title      string `json:"title"`               // Item headline (never empty, see NoTitle)
	URL        string `json:"url"`                 // Item link (never empty, see NoURL)
	Source     string `json:"source"`              // Explicit source field or inherited container label
	Summary    string `json:"summary,omitempty"`   // Short body text, sanitized
	Published  string `json:"published,omitempty"` // Publication timestamp as found, uninterpreted
	Importance Tier   `json:"importance"`          // Assigned by the classifier, zero until then
}

// Tier ranks how prominently a record should surface in the digest.
// Higher is more prominent.
type Tier int

const (
	TierNone    Tier = 0 // Not yet classified
	TierDefault Tier = 1 // Regular news coverage
	TierVendor  Tier = 3 // First-party lab and vendor announcements
	TierVideo   Tier = 4 // Video content
	TierSocial  Tier = 5 // Expert social feeds
)

func (t Tier) String() string {
	switch t {
	case TierDefault:
		return "news"
	case TierVendor:
		return "vendor"
	case TierVideo:
		return "video"
	case TierSocial:
		return "social"
	default:
		return "unclassified"
	}
}
