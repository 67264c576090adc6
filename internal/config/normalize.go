package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	if err := c.normalizeLedger(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.Workdir) == "" {
		c.Paths.Workdir = defaultWorkdir
	}
	if c.Paths.Workdir, err = expandPath(c.Paths.Workdir); err != nil {
		return fmt.Errorf("paths.workdir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.Scorer = strings.TrimSpace(c.Tools.Scorer)
	if c.Tools.Scorer == "" {
		if value, ok := os.LookupEnv("SREDUN_SCORER"); ok && strings.TrimSpace(value) != "" {
			c.Tools.Scorer = strings.TrimSpace(value)
		} else {
			c.Tools.Scorer = defaultScorer
		}
	}
	c.Tools.Generator = strings.TrimSpace(c.Tools.Generator)
	if c.Tools.Generator == "" {
		if value, ok := os.LookupEnv("SREDUN_GENERATOR"); ok && strings.TrimSpace(value) != "" {
			c.Tools.Generator = strings.TrimSpace(value)
		} else {
			c.Tools.Generator = defaultGenerator
		}
	}
	c.Tools.GeneratorClass = strings.TrimSpace(c.Tools.GeneratorClass)
	if c.Tools.GeneratorClass == "" {
		c.Tools.GeneratorClass = defaultGeneratorClass
	}
	if c.Tools.TimeoutSeconds < 0 {
		c.Tools.TimeoutSeconds = 0
	}
}

func (c *Config) normalizeLedger() error {
	var err error
	if strings.TrimSpace(c.Ledger.Path) == "" {
		c.Ledger.Path = filepath.Join(c.Paths.Workdir, defaultLedgerFile)
	}
	if c.Ledger.Path, err = expandPath(c.Ledger.Path); err != nil {
		return fmt.Errorf("ledger.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
