package scorer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"sredun/internal/logging"
	"sredun/internal/receptor"
	"sredun/internal/scorecache"
)

// maxAttempts is the fixed invocation budget for one pair. Retries fire
// immediately, with no backoff.
const maxAttempts = 3

// ErrNoScore reports output that carried no parseable score marker line.
// It counts as a failed attempt like any process error.
var ErrNoScore = errors.New("no score marker in output")

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (string, error)
}

// Attempt describes one scorer invocation for observers. Number is 1-based;
// Final marks the attempt after which no retry follows.
type Attempt struct {
	Pair    string
	Number  int
	Final   bool
	Command string
	Err     error
}

// Option configures the scorer.
type Option func(*Scorer)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(s *Scorer) {
		if exec != nil {
			s.exec = exec
		}
	}
}

// WithObserver registers a callback invoked on every failed attempt.
func WithObserver(fn func(Attempt)) Option {
	return func(s *Scorer) {
		s.observer = fn
	}
}

// Result is the outcome of scoring one pair. Failed means the attempt budget
// was exhausted; Score is then the sentinel and RawOutput holds whatever the
// last attempt produced, possibly nothing.
type Result struct {
	RawOutput string
	Score     float64
	Attempts  int
	Failed    bool
}

// Scorer wraps the external comparison binary.
type Scorer struct {
	binary   string
	timeout  time.Duration
	exec     Executor
	observer func(Attempt)
	logger   *slog.Logger
}

// New constructs a scorer around the given binary. timeoutSeconds bounds each
// individual attempt; zero disables the bound.
func New(binary string, timeoutSeconds int, logger *slog.Logger, opts ...Option) (*Scorer, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("scorer binary required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Scorer{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    commandExecutor{},
		logger:  logging.NewComponentLogger(logger, "scorer"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Score runs the comparison between the artifact sets of two receptors. Both
// receptors must be prepared. A non-nil error is returned only when the
// context is done; exhausted retries are reported through Result.Failed so
// the caller can keep iterating pairs.
func (s *Scorer) Score(ctx context.Context, source, target *receptor.Receptor) (Result, error) {
	args := []string{
		"-s1", source.PocketPath(),
		"-s1cf", source.FeaturesPath(),
		"-s2", target.PocketPath(),
		"-s2cf", target.FeaturesPath(),
	}
	command := s.binary + " " + strings.Join(args, " ")
	pair := scorecache.NewPairKey(source.Name, target.Name).Label()

	var lastOutput string
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		output, err := s.runOnce(ctx, args)
		lastOutput = output
		if err == nil {
			score := scorecache.ParseScore(output)
			if score != scorecache.Sentinel {
				logging.WithContext(ctx, s.logger).Debug("pair scored",
					logging.String(logging.FieldPair, pair),
					logging.Float64("score", score),
					logging.Int("attempt", attempt))
				return Result{RawOutput: output, Score: score, Attempts: attempt}, nil
			}
			err = ErrNoScore
		}

		final := attempt == maxAttempts
		s.report(ctx, Attempt{Pair: pair, Number: attempt, Final: final, Command: command, Err: err})

		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{
				RawOutput: lastOutput,
				Score:     scorecache.Sentinel,
				Attempts:  attempt,
				Failed:    true,
			}, ctxErr
		}
	}
	return Result{
		RawOutput: lastOutput,
		Score:     scorecache.Sentinel,
		Attempts:  maxAttempts,
		Failed:    true,
	}, nil
}

func (s *Scorer) runOnce(ctx context.Context, args []string) (string, error) {
	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.exec.Run(runCtx, s.binary, args)
}

func (s *Scorer) report(ctx context.Context, attempt Attempt) {
	log := logging.WithContext(ctx, s.logger)
	attrs := logging.Args(
		logging.String(logging.FieldPair, attempt.Pair),
		logging.Int("attempt", attempt.Number),
		logging.String("command", attempt.Command),
		logging.Error(attempt.Err),
	)
	if attempt.Final {
		log.Error("scorer failed", attrs...)
	} else {
		log.Warn("scorer attempt failed, retrying", attrs...)
	}
	if s.observer != nil {
		s.observer(attempt)
	}
}
