package testsupport

import (
	"path/filepath"
	"testing"

	"sredun/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Tool commands are pinned explicitly so the environment fallback never
// leaks into tests; override them with WithTools when stubs are in play.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.Workdir = filepath.Join(base, "analysis")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Tools.Scorer = "glosa"
	cfgVal.Tools.Generator = "java"
	cfgVal.Ledger.Path = filepath.Join(base, "ledger", "sredun.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithWorkdir overrides the working directory on the test config.
func WithWorkdir(dir string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.Workdir = dir
	}
}

// WithTools sets the scorer and generator commands on the test config.
func WithTools(scorerCmd, generatorCmd string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Tools.Scorer = scorerCmd
		b.cfg.Tools.Generator = generatorCmd
	}
}

// WithConcurrent enables the pooled strategy with the given worker bound.
func WithConcurrent(workers int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Compare.Concurrent = true
		b.cfg.Compare.Workers = workers
	}
}

// WithThreshold sets the similarity cutoff on the test config.
func WithThreshold(threshold float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Compare.Threshold = threshold
	}
}

// WithLedgerDisabled turns off run recording on the test config.
func WithLedgerDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ledger.Enabled = false
	}
}
