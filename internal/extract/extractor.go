package extract

import (
	"sort"
	"strconv"
	"strings"

	"github.com/newsradar-io/newsradar/internal/model"
)

// Extractor recovers flat content records from arbitrarily nested
// snapshot JSON. Collector output has no fixed schema: items may sit in
// a top-level list, under named feed keys, or inside wrapper objects,
// and field names drift between collector versions. The extractor walks
// the whole structure and normalizes whatever looks like a news item.
type Extractor struct {
	titleKeys   []string
	linkKeys    []string
	sourceKeys  []string
	summaryKeys []string
	dateKeys    []string
	labelKeys   []string
}

// NewExtractor creates an extractor with the field synonyms the
// collectors are known to emit.
func NewExtractor() *Extractor {
	return &Extractor{
		titleKeys:   []string{"title"},
		linkKeys:    []string{"url", "link"},
		sourceKeys:  []string{"source_name", "source", "feed_title"},
		summaryKeys: []string{"summary", "description", "text", "content"},
		dateKeys:    []string{"published", "date", "published_at"},
		labelKeys:   []string{"name", "site_name"},
	}
}

// Extract walks root depth-first and returns every news item found, in
// traversal order. label seeds source inheritance for items that carry
// no source field of their own; pass "" when nothing is known.
func (e *Extractor) Extract(root any, label string) []model.ContentRecord {
	if label == "" {
		label = model.UnknownSource
	}
	var records []model.ContentRecord
	e.walk(root, label, &records)
	return records
}

func (e *Extractor) walk(node any, label string, out *[]model.ContentRecord) {
	switch v := node.(type) {
	case map[string]any:
		if e.isRecord(v) {
			// A matched item is a leaf; nested structures inside it
			// (media blocks, metrics) belong to the item.
			*out = append(*out, e.record(v, label))
			return
		}

		// A container may name the feed its children belong to.
		if name := firstString(v, e.labelKeys); name != "" {
			label = name
		}

		// Map iteration order is randomized; walk keys sorted so
		// record order is stable across runs.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			child := v[k]
			childLabel := label
			// A list under a string key is usually a feed named by that key.
			if _, ok := child.([]any); ok && k != "" {
				childLabel = k
			}
			e.walk(child, childLabel, out)
		}
	case []any:
		for _, item := range v {
			e.walk(item, label, out)
		}
	}
	// Scalars hold no items.
}

// isRecord reports whether node itself is a news item: anything with a
// title and a link, by any known synonym. Key presence decides the
// match; unusable values fall back to placeholders during extraction.
func (e *Extractor) isRecord(node map[string]any) bool {
	return hasAnyKey(node, e.titleKeys) && hasAnyKey(node, e.linkKeys)
}

// record normalizes one matched node. Missing or unusable fields get
// sentinel values; nothing is dropped here.
func (e *Extractor) record(node map[string]any, label string) model.ContentRecord {
	title := Sanitize(firstString(node, e.titleKeys), maxTitleLen)
	if title == "" {
		title = model.NoTitle
	}

	url := firstString(node, e.linkKeys)
	if url == "" {
		url = model.NoURL
	}

	source := Sanitize(firstString(node, e.sourceKeys), maxSourceLen)
	if source == "" {
		source = Sanitize(label, maxSourceLen)
	}
	if source == "" {
		source = model.UnknownSource
	}

	return model.ContentRecord{
		Title:     title,
		URL:       url,
		Source:    source,
		Summary:   Sanitize(firstString(node, e.summaryKeys), maxSummaryLen),
		Published: firstString(node, e.dateKeys),
	}
}

// Dedupe drops records whose URL was already seen, keeping the first
// occurrence. Placeholder URLs are exempt: two items that both lack a
// link are not the same item.
func Dedupe(records []model.ContentRecord) []model.ContentRecord {
	seen := make(map[string]bool)
	var unique []model.ContentRecord

	for _, rec := range records {
		if rec.URL == model.NoURL {
			unique = append(unique, rec)
			continue
		}
		key := strings.ToLower(rec.URL)
		if !seen[key] {
			seen[key] = true
			unique = append(unique, rec)
		}
	}

	return unique
}

// firstString returns the value of the first key in keys holding a
// usable scalar. One shared lookup keeps synonym priority identical
// across every field.
func firstString(node map[string]any, keys []string) string {
	for _, k := range keys {
		if v, ok := node[k]; ok {
			if s := scalarString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func hasAnyKey(node map[string]any, keys []string) bool {
	for _, k := range keys {
		if _, ok := node[k]; ok {
			return true
		}
	}
	return false
}

// scalarString coerces a JSON scalar to a trimmed string. Numbers show
// up in the wild as epoch timestamps in date fields.
func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return ""
}
