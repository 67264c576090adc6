package scorecache

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"sredun/internal/logging"
)

const (
	// ScoreMarker prefixes the stdout line that carries the similarity score.
	ScoreMarker = "GA-score"

	// Sentinel is the score recorded when no valid value could be extracted.
	Sentinel = -1.0

	fileSuffix = ".out"
)

// PairKey identifies a receptor pair by name, in the order the caller asked
// for the comparison. Lookups consult both orderings; stores keep only this
// one, so the on-disk name reflects whichever direction was computed first.
type PairKey struct {
	First  string
	Second string
}

// NewPairKey builds a key from two receptor names in call order.
func NewPairKey(first, second string) PairKey {
	return PairKey{First: first, Second: second}
}

// Label renders the pair for logs and status lines.
func (k PairKey) Label() string {
	return k.First + "<->" + k.Second
}

// Record is one cached scoring result: the raw scorer stdout plus the score
// re-extracted from it. Failed invocations are recorded too, so Score may be
// the sentinel.
type Record struct {
	RawOutput string
	Score     float64
}

// Cache memoizes scoring results as one file per pair under dir. There is no
// locking: two workers racing on the same uncached pair both compute and the
// last write wins, which costs duplicate work but never corrupts a record.
type Cache struct {
	dir    string
	logger *slog.Logger
}

// New returns a cache rooted at dir. The directory is created lazily on the
// first store.
func New(dir string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Cache{
		dir:    dir,
		logger: logging.NewComponentLogger(logger, "scorecache"),
	}
}

// Dir reports the directory backing the cache.
func (c *Cache) Dir() string {
	return c.dir
}

// Lookup returns the cached record for the pair, checking the requested
// ordering first and the reversed ordering second. Content is re-parsed on
// every read. A file that exists but cannot be read degrades to a sentinel
// record rather than triggering recomputation.
func (c *Cache) Lookup(key PairKey) (Record, bool) {
	for _, path := range []string{
		c.pairPath(key.First, key.Second),
		c.pairPath(key.Second, key.First),
	} {
		raw, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			c.logger.Warn("cache file unreadable",
				logging.String("path", path),
				logging.Error(err))
			return Record{Score: Sentinel}, true
		}
		rec := Record{RawOutput: string(raw), Score: ParseScore(string(raw))}
		c.logger.Debug("cache hit",
			logging.String(logging.FieldPair, key.Label()),
			logging.String("path", path),
			logging.Float64("score", rec.Score))
		return rec, true
	}
	return Record{}, false
}

// Store persists raw scorer output for the pair under the supplied ordering.
// The write goes through a temp file and rename so readers never observe a
// partial record. Output from failed invocations is stored as well; once a
// pair has a file it is never scored again.
func (c *Cache) Store(key PairKey, rawOutput string) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	path := c.pairPath(key.First, key.Second)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(rawOutput), 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("finalize cache file: %w", err)
	}
	c.logger.Debug("cache store",
		logging.String(logging.FieldPair, key.Label()),
		logging.String("path", path))
	return nil
}

// Count reports how many pair files the cache currently holds.
func (c *Cache) Count() int {
	matches, err := filepath.Glob(filepath.Join(c.dir, "*"+fileSuffix))
	if err != nil {
		return 0
	}
	return len(matches)
}

func (c *Cache) pairPath(a, b string) string {
	return filepath.Join(c.dir, a+"_"+b+fileSuffix)
}

// ParseScore extracts the similarity score from raw scorer output: the first
// line beginning with the marker contributes the text after its first colon,
// trimmed and parsed as a float. Missing marker or an unparseable value yields
// the sentinel.
func ParseScore(raw string) float64 {
	for _, line := range strings.Split(raw, "\n") {
		if !strings.HasPrefix(line, ScoreMarker) {
			continue
		}
		_, value, found := strings.Cut(line, ":")
		if !found {
			return Sentinel
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return Sentinel
		}
		return score
	}
	return Sentinel
}
