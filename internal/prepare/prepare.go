package prepare

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sredun/internal/logging"
	"sredun/internal/receptor"
	"sredun/internal/services"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (string, error)
}

// Result reports artifact preparation for one receptor.
type Result struct {
	Receptor      *receptor.Receptor
	PrimaryPath   string
	SecondaryPath string
	OK            bool
	Err           error
}

// Option configures the preparer.
type Option func(*Preparer)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(p *Preparer) {
		if exec != nil {
			p.exec = exec
		}
	}
}

// Preparer materializes the two on-disk artifacts every comparison needs:
// the pocket structure written from the receptor payload and the chemical
// feature file produced by the external generator. Preparation is idempotent;
// artifacts that already exist are left untouched.
type Preparer struct {
	generator      string
	generatorClass string
	timeout        time.Duration
	exec           Executor
	logger         *slog.Logger
}

// New constructs a preparer around the feature generator command.
// timeoutSeconds bounds each generator invocation; zero disables the bound.
func New(generator, generatorClass string, timeoutSeconds int, logger *slog.Logger, opts ...Option) (*Preparer, error) {
	generator = strings.TrimSpace(generator)
	if generator == "" {
		return nil, errors.New("generator binary required")
	}
	generatorClass = strings.TrimSpace(generatorClass)
	if generatorClass == "" {
		return nil, errors.New("generator class required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Preparer{
		generator:      generator,
		generatorClass: generatorClass,
		timeout:        time.Duration(timeoutSeconds) * time.Second,
		exec:           commandExecutor{},
		logger:         logging.NewComponentLogger(logger, "prepare"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Prepare ensures both artifacts exist for the receptor. Failures are
// reported in the result rather than returned so callers can attempt every
// receptor before deciding the run's fate.
func (p *Preparer) Prepare(ctx context.Context, rec *receptor.Receptor) Result {
	res := Result{
		Receptor:      rec,
		PrimaryPath:   rec.PocketPath(),
		SecondaryPath: rec.FeaturesPath(),
	}
	if err := p.ensurePrimary(rec, res.PrimaryPath); err != nil {
		res.Err = err
		return res
	}
	if err := p.ensureSecondary(ctx, rec, res.PrimaryPath, res.SecondaryPath); err != nil {
		res.Err = err
		return res
	}
	res.OK = true
	return res
}

// PrepareAll attempts preparation for every receptor, never stopping early,
// and returns the per-receptor results alongside a single fatal error when
// any of them failed. No comparison may run after a non-nil error.
func (p *Preparer) PrepareAll(ctx context.Context, receptors []*receptor.Receptor) ([]Result, error) {
	results := make([]Result, 0, len(receptors))
	failed := 0
	for _, rec := range receptors {
		res := p.Prepare(ctx, rec)
		if !res.OK {
			failed++
			logging.WithContext(ctx, p.logger).Error("artifact preparation failed",
				logging.String(logging.FieldReceptor, rec.Name),
				logging.Error(res.Err))
		}
		results = append(results, res)
	}
	if failed > 0 {
		return results, services.Wrap(services.ErrExternalTool, "prepare", "",
			fmt.Sprintf("%d of %d receptors failed preparation", failed, len(receptors)), nil)
	}
	return results, nil
}

func (p *Preparer) ensurePrimary(rec *receptor.Receptor, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return services.Wrap(services.ErrExternalTool, "prepare", "stat structure", rec.Name, err)
	}
	if strings.TrimSpace(rec.Payload) == "" {
		return services.Wrap(services.ErrValidation, "prepare", "write structure",
			fmt.Sprintf("%s has an empty record payload", rec.Name), nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return services.Wrap(services.ErrExternalTool, "prepare", "write structure", rec.Name, err)
	}
	if err := os.WriteFile(path, []byte(rec.Payload), 0o644); err != nil {
		return services.Wrap(services.ErrExternalTool, "prepare", "write structure", rec.Name, err)
	}
	p.logger.Debug("structure written",
		logging.String(logging.FieldReceptor, rec.Name),
		logging.String("path", path))
	return nil
}

func (p *Preparer) ensureSecondary(ctx context.Context, rec *receptor.Receptor, primary, secondary string) error {
	if _, err := os.Stat(secondary); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return services.Wrap(services.ErrExternalTool, "prepare", "stat features", rec.Name, err)
	}

	runCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if _, err := p.exec.Run(runCtx, p.generator, []string{p.generatorClass, primary}); err != nil {
		return services.Wrap(services.ErrExternalTool, "prepare", "generate features", rec.Name, err)
	}
	if _, err := os.Stat(secondary); err != nil {
		return services.Wrap(services.ErrExternalTool, "prepare", "generate features",
			fmt.Sprintf("%s: generator exited cleanly but produced no %s", rec.Name, filepath.Base(secondary)), nil)
	}
	p.logger.Debug("features generated",
		logging.String(logging.FieldReceptor, rec.Name),
		logging.String("path", secondary))
	return nil
}
