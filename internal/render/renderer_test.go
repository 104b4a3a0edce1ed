package render

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/newsradar-io/newsradar/internal/model"
)

func TestRenderer_SortBeforePartition(t *testing.T) {
	renderer := NewRenderer(nil, true)

	records := []model.ContentRecord{
		{Title: "old vendor", Source: "s", URL: "u1", Importance: model.TierVendor, Published: "2025-11-01"},
		{Title: "fresh news", Source: "s", URL: "u2", Importance: model.TierDefault, Published: "2025-11-03"},
		{Title: "fresh vendor", Source: "s", URL: "u3", Importance: model.TierVendor, Published: "2025-11-02"},
		{Title: "old news", Source: "s", URL: "u4", Importance: model.TierDefault, Published: "2025-11-02"},
	}

	digest := renderer.Render(records, "")

	// Top Stories accepts vendor and default; the section must follow
	// the global order: tier descending, then published descending.
	var got []string
	for _, rec := range digest.Sections[0].Records {
		got = append(got, rec.Title)
	}
	want := []string{"fresh vendor", "old vendor", "fresh news", "old news"}

	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Expected order %v, got %v", want, got)
	}
}

func TestRenderer_ConcatenationMatchesGlobalSort(t *testing.T) {
	renderer := NewRenderer(nil, false)

	records := []model.ContentRecord{
		{Title: "n1", Source: "s", URL: "u1", Importance: model.TierDefault, Published: "2025-11-01"},
		{Title: "so1", Source: "s", URL: "u2", Importance: model.TierSocial, Published: "2025-11-01"},
		{Title: "v1", Source: "s", URL: "u3", Importance: model.TierVideo, Published: "2025-11-02"},
		{Title: "ve1", Source: "s", URL: "u4", Importance: model.TierVendor, Published: "2025-11-03"},
		{Title: "so2", Source: "s", URL: "u5", Importance: model.TierSocial, Published: "2025-11-02"},
	}

	digest := renderer.Render(records, "")

	// Within every section, records must appear in globally sorted
	// order, with no section sorted by its own rule.
	global := sortRecords(records)
	pos := make(map[string]int)
	for i, rec := range global {
		pos[rec.URL] = i
	}

	for _, sec := range digest.Sections {
		last := -1
		for _, rec := range sec.Records {
			if pos[rec.URL] < last {
				t.Errorf("Section '%s' breaks global order at '%s'", sec.Name, rec.Title)
			}
			last = pos[rec.URL]
		}
	}
}

func TestRenderer_EmptyPublishedSortsLast(t *testing.T) {
	renderer := NewRenderer(nil, false)

	records := []model.ContentRecord{
		{Title: "undated", Source: "s", URL: "u1", Importance: model.TierDefault, Published: ""},
		{Title: "dated", Source: "s", URL: "u2", Importance: model.TierDefault, Published: "2025-11-01"},
	}

	digest := renderer.Render(records, "")

	top := digest.Sections[0].Records
	if len(top) != 2 {
		t.Fatalf("Expected 2 records in Top Stories, got %d", len(top))
	}
	if top[0].Title != "dated" || top[1].Title != "undated" {
		t.Errorf("Expected undated record last, got %s then %s", top[0].Title, top[1].Title)
	}
}

func TestRenderer_SectionCapDropsOverflow(t *testing.T) {
	specs := []model.SectionSpec{
		{Name: "Top", Tiers: []int{1}, MaxItems: 2},
	}
	renderer := NewRenderer(specs, false)

	var records []model.ContentRecord
	for i := 0; i < 5; i++ {
		records = append(records, model.ContentRecord{
			Title:      fmt.Sprintf("story %d", i),
			URL:        fmt.Sprintf("u%d", i),
			Source:     "s",
			Importance: model.TierDefault,
			Published:  fmt.Sprintf("2025-11-0%d", i+1),
		})
	}

	digest := renderer.Render(records, "")

	if len(digest.Sections[0].Records) != 2 {
		t.Fatalf("Expected cap of 2, got %d", len(digest.Sections[0].Records))
	}
	// Freshest first, overflow dropped from the tail.
	if digest.Sections[0].Records[0].Title != "story 4" {
		t.Errorf("Expected freshest record first, got '%s'", digest.Sections[0].Records[0].Title)
	}
	if digest.ItemCount() != 2 {
		t.Errorf("Expected overall count 2 after cap, got %d", digest.ItemCount())
	}
}

func TestRenderer_FirstAcceptingSectionWins(t *testing.T) {
	specs := []model.SectionSpec{
		{Name: "A", Tiers: []int{1}, MaxItems: 1},
		{Name: "B", Tiers: []int{1}, MaxItems: 10},
	}
	renderer := NewRenderer(specs, false)

	records := []model.ContentRecord{
		{Title: "one", URL: "u1", Source: "s", Importance: model.TierDefault, Published: "2025-11-02"},
		{Title: "two", URL: "u2", Source: "s", Importance: model.TierDefault, Published: "2025-11-01"},
	}

	digest := renderer.Render(records, "")

	if len(digest.Sections[0].Records) != 1 {
		t.Errorf("Expected section A to take 1 record, got %d", len(digest.Sections[0].Records))
	}
	// Overflow from the first accepting section is dropped, not
	// spilled into the next.
	if len(digest.Sections[1].Records) != 0 {
		t.Errorf("Expected section B empty, got %d records", len(digest.Sections[1].Records))
	}
}

func TestRenderer_UnmatchedTierDropped(t *testing.T) {
	specs := []model.SectionSpec{
		{Name: "Social only", Tiers: []int{5}, MaxItems: 10},
	}
	renderer := NewRenderer(specs, false)

	records := []model.ContentRecord{
		{Title: "tweet", URL: "u1", Source: "s", Importance: model.TierSocial},
		{Title: "clip", URL: "u2", Source: "s", Importance: model.TierVideo},
	}

	digest := renderer.Render(records, "")

	if digest.ItemCount() != 1 {
		t.Errorf("Expected record with no matching section dropped, got %d items", digest.ItemCount())
	}
}

func TestRenderer_RepresentationParity(t *testing.T) {
	renderer := NewRenderer(nil, true)

	records := []model.ContentRecord{
		{Title: "story A", URL: "u1", Source: "src", Importance: model.TierDefault, Published: "2025-11-02"},
		{Title: "story B", URL: "u2", Source: "src", Importance: model.TierVendor, Published: "2025-11-01"},
		{Title: "thread C", URL: "u3", Source: "src", Importance: model.TierSocial},
	}

	digest := renderer.Render(records, "")

	for _, sec := range digest.Sections {
		header := fmt.Sprintf("%s (%d)", sec.Name, len(sec.Records))
		if !strings.Contains(digest.Text, header) {
			t.Errorf("Expected text representation to contain '%s'", header)
		}
		if !strings.Contains(digest.HTML, header) {
			t.Errorf("Expected HTML representation to contain '%s'", header)
		}
		for _, rec := range sec.Records {
			if !strings.Contains(digest.Text, rec.Title) {
				t.Errorf("Expected text to contain '%s'", rec.Title)
			}
			if !strings.Contains(digest.HTML, rec.Title) {
				t.Errorf("Expected HTML to contain '%s'", rec.Title)
			}
		}
	}
}

func TestRenderer_EmptyInput(t *testing.T) {
	renderer := NewRenderer(nil, true)

	digest := renderer.Render(nil, "")

	if len(digest.Sections) != 3 {
		t.Fatalf("Expected all 3 sections present, got %d", len(digest.Sections))
	}
	if digest.ItemCount() != 0 {
		t.Errorf("Expected 0 items, got %d", digest.ItemCount())
	}
	for _, sec := range digest.Sections {
		header := fmt.Sprintf("%s (0)", sec.Name)
		if !strings.Contains(digest.Text, header) {
			t.Errorf("Expected explicit zero count '%s' in text", header)
		}
	}
	if !strings.Contains(digest.Text, noItemsText) {
		t.Error("Expected placeholder text in text representation")
	}
	if !strings.Contains(digest.HTML, noItemsText) {
		t.Error("Expected placeholder text in HTML representation")
	}
}

func TestRenderer_SubjectCarriesDate(t *testing.T) {
	withFixedNow(t, time.Date(2025, 11, 2, 7, 30, 0, 0, time.UTC))
	renderer := NewRenderer(nil, false)

	digest := renderer.Render(nil, "")

	if digest.Subject != "AI News Radar · 2025-11-02" {
		t.Errorf("Expected dated subject, got '%s'", digest.Subject)
	}
}

func TestRenderer_HTMLEscaping(t *testing.T) {
	renderer := NewRenderer(nil, false)

	records := []model.ContentRecord{
		{Title: `<script>alert("x")</script> & more`, URL: "https://example.com/?a=1&b=2", Source: "s", Importance: model.TierDefault},
	}

	digest := renderer.Render(records, "")

	if strings.Contains(digest.HTML, "<script>alert") {
		t.Error("Expected title markup escaped in HTML")
	}
	if !strings.Contains(digest.HTML, "&lt;script&gt;") {
		t.Error("Expected escaped title entities in HTML")
	}
	if !strings.Contains(digest.HTML, "a=1&amp;b=2") {
		t.Error("Expected ampersand escaped in href")
	}
	// The plain-text body is not HTML and must stay readable.
	if !strings.Contains(digest.Text, `<script>alert("x")</script> & more`) {
		t.Error("Expected raw title preserved in text representation")
	}
}

func TestRenderer_Overview(t *testing.T) {
	renderer := NewRenderer(nil, false)

	digest := renderer.Render(nil, "Quiet day in AI land.")

	if !strings.Contains(digest.Text, "Quiet day in AI land.") {
		t.Error("Expected overview in text representation")
	}
	if !strings.Contains(digest.HTML, "Quiet day in AI land.") {
		t.Error("Expected overview in HTML representation")
	}

	without := renderer.Render(nil, "")
	if strings.Contains(without.HTML, "border-left") {
		t.Error("Expected no overview block when overview is empty")
	}
}

func TestRenderer_FooterToggle(t *testing.T) {
	with := NewRenderer(nil, true).Render(nil, "")
	if !strings.Contains(with.Text, "Generated") {
		t.Error("Expected footer when enabled")
	}

	without := NewRenderer(nil, false).Render(nil, "")
	if strings.Contains(without.Text, "Generated") {
		t.Error("Expected no footer when disabled")
	}
}

func withFixedNow(t *testing.T, ts time.Time) {
	t.Helper()
	prev := timeNow
	timeNow = func() time.Time { return ts }
	t.Cleanup(func() { timeNow = prev })
}
