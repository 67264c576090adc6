package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	Workdir string `toml:"workdir"`
	LogDir  string `toml:"log_dir"`
}

// Tools contains the external binaries the engine drives.
type Tools struct {
	Scorer         string `toml:"scorer"`
	Generator      string `toml:"generator"`
	GeneratorClass string `toml:"generator_class"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Compare contains execution settings for pair comparison.
type Compare struct {
	Concurrent bool    `toml:"concurrent"`
	Workers    int     `toml:"workers"`
	Threshold  float64 `toml:"threshold"`
	Exclusive  bool    `toml:"exclusive"`
}

// Ledger contains configuration for the run history database.
type Ledger struct {
	Enabled bool   `toml:"enabled"` // Default: true
	Path    string `toml:"path"`    // Default: <workdir>/sredun.db
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for sredun.
//
// Configuration sections by subsystem:
//   - Paths: working directory for artifacts/cache and optional log directory
//   - Tools: scorer and chemical-feature generator binaries
//   - Compare: concurrency, worker bound, similarity threshold, workdir lock
//   - Ledger: run history database
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Tools   Tools   `toml:"tools"`
	Compare Compare `toml:"compare"`
	Ledger  Ledger  `toml:"ledger"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/sredun/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("sredun.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// Overrides carries command-line values that take precedence over the loaded
// configuration. Empty fields leave the config untouched.
type Overrides struct {
	Workdir   string
	LogLevel  string
	LogFormat string
}

// ApplyOverrides layers command-line overrides onto a loaded config and
// re-validates the result. A workdir override drags the ledger path along
// with it unless the ledger path was set explicitly.
func (c *Config) ApplyOverrides(o Overrides) error {
	if value := strings.TrimSpace(o.Workdir); value != "" {
		expanded, err := expandPath(value)
		if err != nil {
			return fmt.Errorf("workdir override: %w", err)
		}
		if c.Ledger.Path == filepath.Join(c.Paths.Workdir, defaultLedgerFile) {
			c.Ledger.Path = filepath.Join(expanded, defaultLedgerFile)
		}
		c.Paths.Workdir = expanded
	}
	if value := strings.TrimSpace(o.LogLevel); value != "" {
		c.Logging.Level = strings.ToLower(value)
	}
	if value := strings.TrimSpace(o.LogFormat); value != "" {
		c.Logging.Format = strings.ToLower(value)
	}
	return c.Validate()
}

// EnsureDirectories creates the directories a run needs before it starts.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.Workdir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.Workdir, err)
	}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
		}
	}
	if c.Ledger.Enabled && strings.TrimSpace(c.Ledger.Path) != "" {
		if err := os.MkdirAll(filepath.Dir(c.Ledger.Path), 0o755); err != nil {
			return fmt.Errorf("create ledger directory %q: %w", filepath.Dir(c.Ledger.Path), err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
