package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/newsradar-io/newsradar/internal/model"
)

func testConfig(t *testing.T) *model.Config {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Data.Dir = t.TempDir()
	cfg.Output.Archive = false
	return cfg
}

func writeSnapshot(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write snapshot %s: %v", name, err)
	}
}

func TestBuildDigest_EmptyDataDir(t *testing.T) {
	cfg := testConfig(t)
	p := NewPipeline(cfg)

	result, err := p.BuildDigest(context.Background())
	if err != nil {
		t.Fatalf("BuildDigest failed: %v", err)
	}

	if result.Records != 0 {
		t.Errorf("Expected 0 records from empty dir, got %d", result.Records)
	}
	if len(result.Sources) != 0 {
		t.Errorf("Expected no sources, got %v", result.Sources)
	}
	if len(result.Skipped) != 0 {
		t.Errorf("Expected no skipped candidates for absent files, got %v", result.Skipped)
	}
	if result.Digest == nil {
		t.Fatal("Expected a digest even with no data")
	}
	if len(result.Digest.Sections) != len(cfg.Sections) {
		t.Errorf("Expected %d sections, got %d", len(cfg.Sections), len(result.Digest.Sections))
	}
	if !strings.Contains(result.Digest.Text, "No items today.") {
		t.Error("Expected placeholder text in empty digest")
	}
}

func TestBuildDigest_MergesAllSnapshotKinds(t *testing.T) {
	cfg := testConfig(t)

	writeSnapshot(t, cfg.Data.Dir, "latest-24h.json", `{
		"articles": [
			{"title": "Vendor ships model", "url": "https://openai.com/news/a", "source_name": "openai"},
			{"title": "Plain story", "url": "https://example.com/b", "source": "Reuters"},
			{"title": "Plain story again", "url": "https://EXAMPLE.com/b", "source": "Reuters"}
		]
	}`)
	writeSnapshot(t, cfg.Data.Dir, "twitter.json", `{
		"twitter": [
			{"title": "Hot take", "link": "https://x.com/u/1"}
		]
	}`)
	writeSnapshot(t, cfg.Data.Dir, "youtube.json", `[
		{"title": "Conference talk", "url": "https://youtu.be/abc"}
	]`)

	p := NewPipeline(cfg)
	result, err := p.BuildDigest(context.Background())
	if err != nil {
		t.Fatalf("BuildDigest failed: %v", err)
	}

	if len(result.Sources) != 3 {
		t.Fatalf("Expected 3 snapshot sources, got %v", result.Sources)
	}
	// Duplicate URL collapses, case-insensitively
	if result.Records != 4 {
		t.Errorf("Expected 4 records after dedup, got %d", result.Records)
	}

	sections := make(map[string]int)
	for _, s := range result.Digest.Sections {
		sections[s.Name] = len(s.Records)
	}
	if sections["Top Stories"] != 2 {
		t.Errorf("Expected 2 records in Top Stories, got %d", sections["Top Stories"])
	}
	if sections["Expert Feeds"] != 1 {
		t.Errorf("Expected 1 record in Expert Feeds, got %d", sections["Expert Feeds"])
	}
	if sections["Videos"] != 1 {
		t.Errorf("Expected 1 record in Videos, got %d", sections["Videos"])
	}

	if result.Counts[model.TierVendor] != 1 {
		t.Errorf("Expected 1 vendor record, got %d", result.Counts[model.TierVendor])
	}
	if result.Counts[model.TierSocial] != 1 {
		t.Errorf("Expected 1 social record, got %d", result.Counts[model.TierSocial])
	}
	if result.Counts[model.TierVideo] != 1 {
		t.Errorf("Expected 1 video record, got %d", result.Counts[model.TierVideo])
	}
}

func TestBuildDigest_FallsThroughMalformedSnapshot(t *testing.T) {
	cfg := testConfig(t)

	writeSnapshot(t, cfg.Data.Dir, "latest-24h.json", `{broken`)
	writeSnapshot(t, cfg.Data.Dir, "latest.json", `{"articles": [{"title": "Backup story", "url": "https://example.com/x"}]}`)

	p := NewPipeline(cfg)
	result, err := p.BuildDigest(context.Background())
	if err != nil {
		t.Fatalf("BuildDigest failed: %v", err)
	}

	if result.Records != 1 {
		t.Errorf("Expected 1 record from fallback snapshot, got %d", result.Records)
	}
	if len(result.Skipped) != 1 {
		t.Errorf("Expected 1 skipped candidate, got %v", result.Skipped)
	}
	if len(result.Sources) != 1 || filepath.Base(result.Sources[0]) != "latest.json" {
		t.Errorf("Expected latest.json as the winning source, got %v", result.Sources)
	}
}

func TestRun_MissingDeliveryConfig(t *testing.T) {
	cfg := testConfig(t)
	p := NewPipeline(cfg)

	result, err := p.Run(context.Background())
	if err == nil {
		t.Fatal("Expected error for unconfigured delivery")
	}
	if !strings.Contains(err.Error(), "delivery not configured") {
		t.Errorf("Expected configuration error, got %v", err)
	}
	if result == nil || result.Digest == nil {
		t.Fatal("Expected the digest to be built before delivery failed")
	}
	if result.Delivery != nil {
		t.Error("Expected no delivery result when configuration is incomplete")
	}
}

func TestPreview_WritesBothRepresentations(t *testing.T) {
	cfg := testConfig(t)
	writeSnapshot(t, cfg.Data.Dir, "latest-24h.json", `{"articles": [{"title": "Preview story", "url": "https://example.com/p"}]}`)

	p := NewPipeline(cfg)
	outDir := filepath.Join(t.TempDir(), "preview")

	result, err := p.Preview(context.Background(), outDir)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}

	html, err := os.ReadFile(result.ArchiveHTML)
	if err != nil {
		t.Fatalf("Failed to read preview HTML: %v", err)
	}
	text, err := os.ReadFile(result.ArchiveText)
	if err != nil {
		t.Fatalf("Failed to read preview text: %v", err)
	}

	if !strings.Contains(string(html), "Preview story") {
		t.Error("Expected story title in preview HTML")
	}
	if !strings.Contains(string(text), "Preview story") {
		t.Error("Expected story title in preview text")
	}
	if !strings.Contains(string(text), result.Digest.Subject) {
		t.Error("Expected subject line in preview text")
	}
}

func TestBuildDigest_CancelledContext(t *testing.T) {
	cfg := testConfig(t)
	p := NewPipeline(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.BuildDigest(ctx); err == nil {
		t.Fatal("Expected error for cancelled context")
	}
}
