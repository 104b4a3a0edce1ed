package render

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/newsradar-io/newsradar/internal/model"
)

// timeNow is swapped out in tests for deterministic subjects.
var timeNow = time.Now

const noItemsText = "No items today."

// Renderer turns classified records into the two digest bodies. Both
// representations are built from one shared sort-and-partition pass, so
// membership, ordering, and counts can never drift apart.
type Renderer struct {
	specs         []model.SectionSpec
	includeFooter bool
}

// NewRenderer creates a renderer for the given section layout
func NewRenderer(specs []model.SectionSpec, includeFooter bool) *Renderer {
	if len(specs) == 0 {
		specs = model.DefaultConfig().Sections
	}
	return &Renderer{
		specs:         specs,
		includeFooter: includeFooter,
	}
}

// Render assembles the digest for the given records. overview is an
// optional lead paragraph; pass "" to omit it. Records the section
// layout has no home for are dropped, as is per-section overflow.
func (r *Renderer) Render(records []model.ContentRecord, overview string) *model.Digest {
	now := timeNow()

	sorted := sortRecords(records)

	digest := &model.Digest{
		Subject:     "AI News Radar · " + now.Format("2006-01-02"),
		Sections:    r.partition(sorted),
		Overview:    overview,
		GeneratedAt: now,
	}

	digest.Text = r.renderText(digest)
	digest.HTML = r.renderHTML(digest)

	return digest
}

// sortRecords orders by importance descending, then by published
// timestamp descending. Published strings compare lexically: ISO-8601
// input sorts chronologically, mixed formats at least sort
// consistently, and records with no timestamp go last.
func sortRecords(records []model.ContentRecord) []model.ContentRecord {
	sorted := make([]model.ContentRecord, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Importance != sorted[j].Importance {
			return sorted[i].Importance > sorted[j].Importance
		}
		return sorted[i].Published > sorted[j].Published
	})

	return sorted
}

// partition distributes globally sorted records into sections. A record
// goes to the first section accepting its tier; if that section is
// already full the record is dropped, never spilled into a later one.
func (r *Renderer) partition(sorted []model.ContentRecord) []model.Section {
	sections := make([]model.Section, len(r.specs))
	for i, spec := range r.specs {
		sections[i] = model.Section{Name: spec.Name}
	}

	for _, rec := range sorted {
		for i, spec := range r.specs {
			if !spec.Accepts(rec.Importance) {
				continue
			}
			if spec.MaxItems <= 0 || len(sections[i].Records) < spec.MaxItems {
				sections[i].Records = append(sections[i].Records, rec)
			}
			break
		}
	}

	return sections
}

func (r *Renderer) renderText(d *model.Digest) string {
	var b strings.Builder

	b.WriteString(d.Subject + "\n")
	b.WriteString(strings.Repeat("=", 56) + "\n\n")

	if d.Overview != "" {
		b.WriteString(d.Overview + "\n\n")
	}

	for _, sec := range d.Sections {
		fmt.Fprintf(&b, "%s (%d)\n", sec.Name, len(sec.Records))
		b.WriteString(strings.Repeat("-", 56) + "\n")

		if len(sec.Records) == 0 {
			b.WriteString(noItemsText + "\n\n")
			continue
		}

		for i, rec := range sec.Records {
			fmt.Fprintf(&b, "%2d. %s | %s | %s\n", i+1, rec.Title, rec.Source, rec.URL)
			if rec.Summary != "" {
				fmt.Fprintf(&b, "    %s\n", rec.Summary)
			}
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "--\nGenerated %s by newsradar\n", d.GeneratedAt.Format(time.RFC1123))
	}

	return b.String()
}

func (r *Renderer) renderHTML(d *model.Digest) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"></head>\n")
	b.WriteString("<body style=\"margin:0;padding:0;background-color:#f5f6f8;\">\n")
	b.WriteString("<div style=\"max-width:640px;margin:0 auto;padding:24px;font-family:Arial,Helvetica,sans-serif;color:#1f2430;\">\n")

	fmt.Fprintf(&b, "<h1 style=\"font-size:22px;margin:0 0 16px;\">%s</h1>\n", html.EscapeString(d.Subject))

	if d.Overview != "" {
		fmt.Fprintf(&b, "<div style=\"background:#ffffff;border-left:3px solid #3d6ff2;padding:12px 16px;font-size:14px;line-height:1.5;margin-bottom:8px;\">%s</div>\n",
			html.EscapeString(d.Overview))
	}

	for _, sec := range d.Sections {
		r.writeSectionHTML(&b, sec)
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "<div style=\"margin-top:32px;font-size:11px;color:#9aa0b4;\">Generated %s by newsradar</div>\n",
			html.EscapeString(d.GeneratedAt.Format(time.RFC1123)))
	}

	b.WriteString("</div>\n</body>\n</html>\n")

	return b.String()
}

func (r *Renderer) writeSectionHTML(b *strings.Builder, sec model.Section) {
	fmt.Fprintf(b, "<h2 style=\"font-size:16px;border-bottom:2px solid #e4e6ee;padding-bottom:6px;margin:28px 0 10px;\">%s (%d)</h2>\n",
		html.EscapeString(sec.Name), len(sec.Records))

	if len(sec.Records) == 0 {
		fmt.Fprintf(b, "<p style=\"color:#9aa0b4;font-size:13px;\">%s</p>\n", noItemsText)
		return
	}

	b.WriteString("<table style=\"width:100%;border-collapse:collapse;\">\n")
	for i, rec := range sec.Records {
		b.WriteString("<tr><td style=\"padding:10px 0;border-bottom:1px solid #eef0f5;\">\n")

		fmt.Fprintf(b, "<a href=\"%s\" style=\"color:#1f2430;font-size:14px;font-weight:bold;text-decoration:none;\">%d. %s</a>",
			html.EscapeString(rec.URL), i+1, html.EscapeString(rec.Title))
		if badge := tierBadge(rec.Importance); badge != "" {
			fmt.Fprintf(b, " <span style=\"font-size:10px;color:#3d6ff2;border:1px solid #3d6ff2;border-radius:3px;padding:0 4px;vertical-align:middle;\">%s</span>", badge)
		}
		b.WriteString("\n")

		fmt.Fprintf(b, "<div style=\"font-size:12px;color:#9aa0b4;margin-top:2px;\">%s</div>\n", html.EscapeString(rec.Source))

		if rec.Summary != "" {
			fmt.Fprintf(b, "<div style=\"font-size:13px;color:#4a4f63;line-height:1.45;margin-top:4px;\">%s</div>\n", html.EscapeString(rec.Summary))
		}

		b.WriteString("</td></tr>\n")
	}
	b.WriteString("</table>\n")
}

// tierBadge labels promoted records; regular news carries no badge.
func tierBadge(t model.Tier) string {
	if t <= model.TierDefault {
		return ""
	}
	return strings.ToUpper(t.String())
}
