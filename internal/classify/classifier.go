package classify

import (
	"fmt"
	"strings"

	"github.com/newsradar-io/newsradar/internal/model"
)

// Classifier assigns importance tiers from keyword vocabularies. Tier
// rules are checked highest first and the first match wins; a record
// matching nothing gets the default tier, never zero.
type Classifier struct {
	config *model.ImportanceConfig
	social []string
	video  []string
	vendor []string
}

// NewClassifier creates a classifier from the given vocabularies
func NewClassifier(config *model.ImportanceConfig) *Classifier {
	if config == nil {
		config = &model.DefaultConfig().Importance
	}

	return &Classifier{
		config: config,
		social: lowerTerms(config.Social),
		video:  lowerTerms(config.Video),
		vendor: lowerTerms(config.Vendor),
	}
}

// Classify returns the importance tier for a single record. Social and
// video cues may hide in either the source label or the URL; vendor
// matching trusts the source label only, so that a news article merely
// linking to a lab's site is not promoted.
func (c *Classifier) Classify(rec model.ContentRecord) model.Tier {
	source := strings.ToLower(rec.Source)
	sourceAndURL := source + " " + strings.ToLower(rec.URL)

	if containsAny(sourceAndURL, c.social) {
		return model.TierSocial
	}
	if containsAny(sourceAndURL, c.video) {
		return model.TierVideo
	}
	if containsAny(source, c.vendor) {
		return model.TierVendor
	}
	return model.TierDefault
}

// Apply classifies every record in place and tallies the result per
// tier. Each record is classified independently, so input order never
// affects assignment.
func (c *Classifier) Apply(records []model.ContentRecord) TierCounts {
	counts := make(TierCounts)
	for i := range records {
		records[i].Importance = c.Classify(records[i])
		counts[records[i].Importance]++
	}
	return counts
}

// TierCounts tallies how many records landed in each tier
type TierCounts map[model.Tier]int

// Total returns the number of classified records.
func (tc TierCounts) Total() int {
	n := 0
	for _, v := range tc {
		n += v
	}
	return n
}

// String renders the tally highest tier first, e.g.
// "social 2, video 1, vendor 3, news 10".
func (tc TierCounts) String() string {
	order := []model.Tier{model.TierSocial, model.TierVideo, model.TierVendor, model.TierDefault}

	var parts []string
	for _, tier := range order {
		if n := tc[tier]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", tier, n))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

func containsAny(haystack string, terms []string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

func lowerTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
