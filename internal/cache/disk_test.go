package cache

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestDiskCache_RoundTrip(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	key := Key("overview", "2025-11-02")

	if _, found := c.Get(key); found {
		t.Fatal("Expected miss before Set")
	}

	if err := c.Set(key, []byte("the day's overview"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := c.Get(key)
	if !found {
		t.Fatal("Expected hit after Set")
	}
	if string(got) != "the day's overview" {
		t.Errorf("Expected stored value back, got %q", got)
	}
}

func TestDiskCache_ExpiredEntryIsDropped(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	key := Key("overview", "2025-11-01")

	if err := c.Set(key, []byte("stale"), -time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, found := c.Get(key); found {
		t.Error("Expected expired entry to miss")
	}
	if _, err := os.Stat(c.path(key)); !os.IsNotExist(err) {
		t.Error("Expected expired entry file to be removed")
	}
}

func TestDiskCache_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	if err := c.Set(Key("a"), []byte("x"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("Expected no temp files after Set, found %s", e.Name())
		}
	}
}

func TestKey_Stable(t *testing.T) {
	a := Key("data/latest.json", "2025-11-02T07:30:15Z")
	b := Key("data/latest.json", "2025-11-02T07:30:15Z")
	if a != b {
		t.Errorf("Expected identical keys for identical parts, got %q and %q", a, b)
	}

	if Key("data/latest.json") == Key("data", "latest.json") {
		t.Error("Expected part boundaries to matter in key derivation")
	}
}
