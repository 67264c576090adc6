package compare

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"sredun/internal/logging"
	"sredun/internal/receptor"
	"sredun/internal/scorecache"
	"sredun/internal/scorer"
)

// Scorer is the scoring dependency. *scorer.Scorer satisfies it.
type Scorer interface {
	Score(ctx context.Context, source, target *receptor.Receptor) (scorer.Result, error)
}

// Outcome reports one finished pair comparison. Failed distinguishes a real
// failure from any legitimate score, so callers never have to infer failure
// from the sentinel value alone; the sentinel still flows into the matrix.
type Outcome struct {
	SourceIndex int
	TargetIndex int
	SourceName  string
	TargetName  string
	Score       float64
	FromCache   bool
	Failed      bool
}

// Observer receives outcomes in completion order, serialized by the comparer
// even when workers run in parallel.
type Observer func(Outcome)

// Stats summarizes the comparisons a comparer has performed.
type Stats struct {
	Pairs      int
	CacheHits  int
	ScorerRuns int
	Failures   int
}

// Option configures the comparer.
type Option func(*Comparer)

// WithWorkers enables the pooled strategy with a bound of n concurrent pair
// comparisons per row. n <= 0 selects the host's logical CPU count.
func WithWorkers(n int) Option {
	return func(c *Comparer) {
		if n <= 0 {
			n = runtime.NumCPU()
		}
		c.workers = n
	}
}

// WithObserver registers a callback for finished pairs.
func WithObserver(fn Observer) Option {
	return func(c *Comparer) {
		c.observer = fn
	}
}

// Comparer walks receptor pairs cache-first: every comparison consults the
// result cache under both orderings and only cache misses reach the scorer.
// Freshly computed output is stored immediately, before the next pair starts.
type Comparer struct {
	cache   *scorecache.Cache
	scoring Scorer
	workers int
	logger  *slog.Logger

	observer   Observer
	observerMu sync.Mutex

	pairs      atomic.Int64
	cacheHits  atomic.Int64
	scorerRuns atomic.Int64
	failures   atomic.Int64
}

// New constructs a comparer. The default strategy is sequential; WithWorkers
// switches rows to the bounded pool.
func New(cache *scorecache.Cache, scoring Scorer, logger *slog.Logger, opts ...Option) (*Comparer, error) {
	if cache == nil {
		return nil, errors.New("cache required")
	}
	if scoring == nil {
		return nil, errors.New("scorer required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	c := &Comparer{
		cache:   cache,
		scoring: scoring,
		workers: 1,
		logger:  logging.NewComponentLogger(logger, "compare"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Workers reports the effective pool bound, 1 meaning sequential.
func (c *Comparer) Workers() int {
	return c.workers
}

// Stats returns a snapshot of the comparer's counters.
func (c *Comparer) Stats() Stats {
	return Stats{
		Pairs:      int(c.pairs.Load()),
		CacheHits:  int(c.cacheHits.Load()),
		ScorerRuns: int(c.scorerRuns.Load()),
		Failures:   int(c.failures.Load()),
	}
}

// CompareOne resolves a single pair. Self-comparisons take this exact path
// too; the diagonal is computed and cached like any other pair. A non-nil
// error means the context ended, every other condition is captured in the
// outcome.
func (c *Comparer) CompareOne(ctx context.Context, source, target *receptor.Receptor) (Outcome, error) {
	out := Outcome{
		SourceIndex: source.Index,
		TargetIndex: target.Index,
		SourceName:  source.Name,
		TargetName:  target.Name,
	}
	key := scorecache.NewPairKey(source.Name, target.Name)

	if rec, ok := c.cache.Lookup(key); ok {
		out.Score = rec.Score
		out.FromCache = true
		out.Failed = rec.Score == scorecache.Sentinel
		c.account(out, true)
		c.observe(out)
		return out, nil
	}

	res, err := c.scoring.Score(ctx, source, target)
	if err != nil {
		out.Score = scorecache.Sentinel
		out.Failed = true
		return out, err
	}
	if storeErr := c.cache.Store(key, res.RawOutput); storeErr != nil {
		logging.WithContext(ctx, c.logger).Warn("cache store failed",
			logging.String(logging.FieldPair, key.Label()),
			logging.Error(storeErr))
	}
	out.Score = res.Score
	out.Failed = res.Failed
	c.account(out, false)
	c.observe(out)
	return out, nil
}

// Row compares one source against every target, returning scores in target
// order regardless of strategy or completion order.
func (c *Comparer) Row(ctx context.Context, source *receptor.Receptor, targets []*receptor.Receptor) ([]float64, error) {
	if c.workers > 1 {
		return c.rowPooled(ctx, source, targets)
	}
	return c.rowSequential(ctx, source, targets)
}

func (c *Comparer) rowSequential(ctx context.Context, source *receptor.Receptor, targets []*receptor.Receptor) ([]float64, error) {
	scores := make([]float64, len(targets))
	for i, target := range targets {
		out, err := c.CompareOne(ctx, source, target)
		if err != nil {
			return nil, err
		}
		scores[i] = out.Score
	}
	return scores, nil
}

func (c *Comparer) rowPooled(ctx context.Context, source *receptor.Receptor, targets []*receptor.Receptor) ([]float64, error) {
	scores := make([]float64, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, target := range targets {
		g.Go(func() error {
			out, err := c.CompareOne(gctx, source, target)
			if err != nil {
				return err
			}
			scores[i] = out.Score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

// Matrix builds one row per source, rows in source order. Full runs pass the
// same slice for sources and targets; restricted queries narrow either side.
func (c *Comparer) Matrix(ctx context.Context, sources, targets []*receptor.Receptor) ([][]float64, error) {
	matrix := make([][]float64, 0, len(sources))
	for _, source := range sources {
		row, err := c.Row(ctx, source, targets)
		if err != nil {
			return nil, err
		}
		matrix = append(matrix, row)
	}
	return matrix, nil
}

func (c *Comparer) account(out Outcome, fromCache bool) {
	c.pairs.Add(1)
	if fromCache {
		c.cacheHits.Add(1)
	} else {
		c.scorerRuns.Add(1)
	}
	if out.Failed {
		c.failures.Add(1)
	}
}

func (c *Comparer) observe(out Outcome) {
	if c.observer == nil {
		return
	}
	c.observerMu.Lock()
	defer c.observerMu.Unlock()
	c.observer(out)
}
