package scorecache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const sampleOutput = "Aligning structures...\nGA-score: 0.8317\ndone\n"

func TestCacheStoreAndLookup(t *testing.T) {
	cache := New(t.TempDir(), nil)
	key := NewPairKey("1abc", "2xyz")

	if err := cache.Store(key, sampleOutput); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	rec, ok := cache.Lookup(key)
	if !ok {
		t.Fatal("Lookup failed to find stored record")
	}
	if rec.Score != 0.8317 {
		t.Errorf("Score mismatch: got %v, want 0.8317", rec.Score)
	}
	if rec.RawOutput != sampleOutput {
		t.Errorf("RawOutput mismatch: got %q", rec.RawOutput)
	}
}

func TestCacheLookupReversedOrdering(t *testing.T) {
	cache := New(t.TempDir(), nil)

	if err := cache.Store(NewPairKey("1abc", "2xyz"), sampleOutput); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	rec, ok := cache.Lookup(NewPairKey("2xyz", "1abc"))
	if !ok {
		t.Fatal("Lookup should find the pair under the reversed ordering")
	}
	if rec.Score != 0.8317 {
		t.Errorf("Score mismatch: got %v, want 0.8317", rec.Score)
	}
}

func TestCacheStoreKeepsCallOrder(t *testing.T) {
	dir := t.TempDir()
	cache := New(dir, nil)

	if err := cache.Store(NewPairKey("2xyz", "1abc"), sampleOutput); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "2xyz_1abc.out")); err != nil {
		t.Fatalf("expected file named from call order: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "1abc_2xyz.out")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected no file under the reversed ordering, got err=%v", err)
	}
}

func TestCacheLookupMiss(t *testing.T) {
	cache := New(t.TempDir(), nil)

	if _, ok := cache.Lookup(NewPairKey("1abc", "2xyz")); ok {
		t.Error("Lookup should miss on an empty cache")
	}
}

func TestCacheStoresFailedOutput(t *testing.T) {
	cache := New(t.TempDir(), nil)
	key := NewPairKey("1abc", "2xyz")

	if err := cache.Store(key, ""); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	rec, ok := cache.Lookup(key)
	if !ok {
		t.Fatal("failed output should still be cached")
	}
	if rec.Score != Sentinel {
		t.Errorf("Score mismatch: got %v, want sentinel", rec.Score)
	}
}

func TestCacheStoreOverwritesInPlace(t *testing.T) {
	cache := New(t.TempDir(), nil)
	key := NewPairKey("1abc", "2xyz")

	if err := cache.Store(key, ""); err != nil {
		t.Fatalf("first Store failed: %v", err)
	}
	if err := cache.Store(key, sampleOutput); err != nil {
		t.Fatalf("second Store failed: %v", err)
	}

	rec, ok := cache.Lookup(key)
	if !ok {
		t.Fatal("Lookup failed after overwrite")
	}
	if rec.Score != 0.8317 {
		t.Errorf("Score mismatch after overwrite: got %v", rec.Score)
	}
	if cache.Count() != 1 {
		t.Errorf("Count mismatch: got %d, want 1", cache.Count())
	}
}

func TestCacheCount(t *testing.T) {
	cache := New(t.TempDir(), nil)

	if cache.Count() != 0 {
		t.Fatalf("Count on empty cache: got %d, want 0", cache.Count())
	}
	if err := cache.Store(NewPairKey("1abc", "2xyz"), sampleOutput); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := cache.Store(NewPairKey("1abc", "3def"), sampleOutput); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if cache.Count() != 2 {
		t.Errorf("Count mismatch: got %d, want 2", cache.Count())
	}
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"plain marker line", "GA-score: 0.92", 0.92},
		{"marker after noise", "loading\nprogress 50%\nGA-score:\t 0.123456\n", 0.123456},
		{"no marker", "alignment failed\n", Sentinel},
		{"empty output", "", Sentinel},
		{"marker without colon", "GA-score 0.5\n", Sentinel},
		{"unparseable value", "GA-score: n/a\n", Sentinel},
		{"first marker line decides", "GA-score: 0.4\nGA-score: 0.9\n", 0.4},
		{"bad first marker is final", "GA-score: bad\nGA-score: 0.9\n", Sentinel},
		{"negative passthrough", "GA-score: -1.0\n", -1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseScore(tt.raw); got != tt.want {
				t.Errorf("ParseScore(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestPairKeyLabel(t *testing.T) {
	if got := NewPairKey("1abc", "2xyz").Label(); got != "1abc<->2xyz" {
		t.Errorf("Label mismatch: got %q", got)
	}
}
