package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateCompare(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.Workdir == "" {
		return errors.New("paths.workdir must be set")
	}
	return nil
}

func (c *Config) validateTools() error {
	if c.Tools.Scorer == "" {
		return errors.New("tools.scorer must be set")
	}
	if c.Tools.Generator == "" {
		return errors.New("tools.generator must be set")
	}
	if c.Tools.GeneratorClass == "" {
		return errors.New("tools.generator_class must be set")
	}
	return nil
}

func (c *Config) validateCompare() error {
	if c.Compare.Threshold < 0 || c.Compare.Threshold > 1 {
		return errors.New("compare.threshold must be between 0 and 1")
	}
	if c.Compare.Workers < 0 {
		return errors.New("compare.workers must be >= 0 (0 uses the host CPU count)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
