package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/newsradar-io/newsradar/internal/cache"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	return path
}

func TestLoader_FirstCandidateWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "latest-24h.json", `[{"title":"fresh","url":"u1"}]`)
	writeFile(t, dir, "latest.json", `[{"title":"stale","url":"u2"}]`)

	loader := NewLoader(dir, nil)
	res := loader.Load(KindNews)

	if !res.Found() {
		t.Fatal("Expected a snapshot to be found")
	}
	if filepath.Base(res.Path) != "latest-24h.json" {
		t.Errorf("Expected latest-24h.json to win, got '%s'", res.Path)
	}
}

func TestLoader_FallsThroughMalformedCandidate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "latest-24h.json", `{not json`)
	writeFile(t, dir, "latest.json", `[{"title":"ok","url":"u"}]`)

	loader := NewLoader(dir, nil)
	res := loader.Load(KindNews)

	if !res.Found() {
		t.Fatal("Expected fallback candidate to be used")
	}
	if filepath.Base(res.Path) != "latest.json" {
		t.Errorf("Expected latest.json, got '%s'", res.Path)
	}
	if len(res.Skipped) != 1 {
		t.Fatalf("Expected 1 skipped candidate, got %d", len(res.Skipped))
	}
}

func TestLoader_NothingFound(t *testing.T) {
	loader := NewLoader(t.TempDir(), nil)

	res := loader.Load(KindNews)

	if res.Found() {
		t.Error("Expected nothing found in empty directory")
	}
	if res.Path != "" {
		t.Errorf("Expected empty path, got '%s'", res.Path)
	}
	if len(res.Skipped) != 0 {
		t.Errorf("Expected no skip diagnostics for absent files, got %v", res.Skipped)
	}
}

func TestLoader_NullSnapshotSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "latest-24h.json", `null`)

	loader := NewLoader(dir, nil)
	res := loader.Load(KindNews)

	if res.Found() {
		t.Error("Expected null snapshot to count as unusable")
	}
	if len(res.Skipped) != 1 {
		t.Errorf("Expected 1 skip diagnostic, got %d", len(res.Skipped))
	}
}

func TestLoader_SocialUnwrapsWrapperKey(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "twitter.json", `{"twitter":[{"title":"t1","url":"u1"}],"fetched":"2025-11-02"}`)

	loader := NewLoader(dir, nil)
	res := loader.Load(KindSocial)

	if !res.Found() {
		t.Fatal("Expected social snapshot found")
	}
	if res.Label != "twitter" {
		t.Errorf("Expected label 'twitter', got '%s'", res.Label)
	}
	list, ok := res.Root.([]any)
	if !ok {
		t.Fatalf("Expected unwrapped list, got %T", res.Root)
	}
	if len(list) != 1 {
		t.Errorf("Expected 1 item, got %d", len(list))
	}
}

func TestLoader_SocialUnwrapsItemsKey(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "social.json", `{"items":[{"title":"t1","url":"u1"},{"title":"t2","url":"u2"}]}`)

	loader := NewLoader(dir, nil)
	res := loader.Load(KindSocial)

	if !res.Found() {
		t.Fatal("Expected social snapshot found")
	}
	list, ok := res.Root.([]any)
	if !ok {
		t.Fatalf("Expected unwrapped list, got %T", res.Root)
	}
	if len(list) != 2 {
		t.Errorf("Expected 2 items, got %d", len(list))
	}
}

func TestLoader_VideoBareList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "youtube.json", `[{"title":"v1","url":"u1"}]`)

	loader := NewLoader(dir, nil)
	res := loader.Load(KindVideo)

	if !res.Found() {
		t.Fatal("Expected video snapshot found")
	}
	if res.Label != "youtube" {
		t.Errorf("Expected label 'youtube', got '%s'", res.Label)
	}
	if _, ok := res.Root.([]any); !ok {
		t.Errorf("Expected bare list preserved, got %T", res.Root)
	}
}

func TestLoader_CacheKeyedByMtime(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "latest-24h.json", `[{"title":"first","url":"u1"}]`)

	stamp := time.Date(2025, 11, 2, 6, 0, 0, 0, time.UTC)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatalf("Failed to set mtime: %v", err)
	}

	loader := NewLoader(dir, cache.NewMemoryCache(time.Minute, time.Minute))

	first := loader.Load(KindNews)
	if !first.Found() {
		t.Fatal("Expected first load to succeed")
	}

	// Replace content but keep the mtime: the cached bytes must win.
	writeFile(t, dir, "latest-24h.json", `[{"title":"second","url":"u2"}]`)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatalf("Failed to reset mtime: %v", err)
	}

	second := loader.Load(KindNews)
	if !second.Found() {
		t.Fatal("Expected second load to succeed")
	}

	firstItem := first.Root.([]any)[0].(map[string]any)
	secondItem := second.Root.([]any)[0].(map[string]any)
	if secondItem["title"] != firstItem["title"] {
		t.Errorf("Expected cached bytes for unchanged mtime, got '%v'", secondItem["title"])
	}

	// A changed mtime invalidates the cached entry.
	later := stamp.Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("Failed to bump mtime: %v", err)
	}

	third := loader.Load(KindNews)
	thirdItem := third.Root.([]any)[0].(map[string]any)
	if thirdItem["title"] != "second" {
		t.Errorf("Expected fresh read after mtime change, got '%v'", thirdItem["title"])
	}
}
