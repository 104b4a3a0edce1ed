package model

import "time"

// SectionSpec describes one digest section: which importance tiers feed
// it and how many records it may hold. Specs are evaluated in order and
// a record lands in the first section that accepts its tier.
type SectionSpec struct {
	Name     string `yaml:"name"`
	Tiers    []int  `yaml:"tiers"`
	MaxItems int    `yaml:"max_items"` // <= 0 means unlimited
}

// Accepts reports whether a record of the given tier belongs to this section.
func (s SectionSpec) Accepts(t Tier) bool {
	for _, n := range s.Tiers {
		if Tier(n) == t {
			return true
		}
	}
	return false
}

// Section is one rendered group of records in a digest
type Section struct {
	Name    string          `json:"name"`
	Records []ContentRecord `json:"records"`
}

// Digest is the fully assembled newsletter, ready for delivery.
// HTML and Text are alternative representations of the same sections
// and always agree on item membership, ordering, and counts.
type Digest struct {
	Subject     string    `json:"subject"`
	HTML        string    `json:"-"`
	Text        string    `json:"-"`
	Sections    []Section `json:"sections"`
	Overview    string    `json:"overview,omitempty"` // Optional LLM-written intro, empty when disabled
	GeneratedAt time.Time `json:"generated_at"`
}

// ItemCount returns the total number of records across all sections.
func (d *Digest) ItemCount() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Records)
	}
	return n
}
