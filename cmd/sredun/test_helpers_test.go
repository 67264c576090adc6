package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sredun/internal/config"
	"sredun/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	database   string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	binDir := filepath.Join(base, "bin")
	scorerPath := testsupport.StubScorer(t, binDir, 0.8317)
	generatorPath := testsupport.StubGenerator(t, binDir)

	cfg := testsupport.NewConfig(t, testsupport.WithTools(scorerPath, generatorPath))

	configPath := filepath.Join(homeDir, ".config", "sredun", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	database := testsupport.WriteDatabase(t, base, "1abc", "2xyz")

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		database:   database,
		baseDir:    base,
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nworkdir = %q\nlog_dir = %q\n\n[tools]\nscorer = %q\ngenerator = %q\n\n[ledger]\nenabled = %t\npath = %q\n",
		cfg.Paths.Workdir,
		cfg.Paths.LogDir,
		cfg.Tools.Scorer,
		cfg.Tools.Generator,
		cfg.Ledger.Enabled,
		cfg.Ledger.Path,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	return runCLIWithStdin(t, args, configPath, nil)
}

func runCLIWithStdin(t *testing.T, args []string, configPath string, stdin io.Reader) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q to not contain %q", output, substr)
	}
}
