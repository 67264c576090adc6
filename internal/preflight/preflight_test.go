package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"sredun/internal/config"
)

func TestCheckDirectoryAccessOK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccessNotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccessNotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckToolsReportsMissing(t *testing.T) {
	binDir := t.TempDir()
	scorerPath := filepath.Join(binDir, "glosa")
	if err := os.WriteFile(scorerPath, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	cfg := &config.Config{}
	cfg.Tools.Scorer = scorerPath
	cfg.Tools.Generator = "definitely-missing-generator"

	statuses := CheckTools(cfg)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if !statuses[0].Available {
		t.Errorf("scorer should be available: %s", statuses[0].Detail)
	}
	if statuses[1].Available {
		t.Error("generator should be missing")
	}
}

func TestRunAllCoversDirectoriesAndTools(t *testing.T) {
	workdir := t.TempDir()
	cfg := &config.Config{}
	cfg.Paths.Workdir = workdir
	cfg.Paths.LogDir = filepath.Join(workdir, "missing-logs")
	cfg.Tools.Scorer = "definitely-missing-scorer"
	cfg.Tools.Generator = "definitely-missing-generator"
	cfg.Ledger.Enabled = true
	cfg.Ledger.Path = filepath.Join(workdir, "sredun.db")

	results := RunAll(cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	if !results[0].Passed {
		t.Errorf("working directory should pass: %s", results[0].Detail)
	}
	if results[1].Passed {
		t.Error("missing log directory should fail")
	}
	if !results[2].Passed {
		t.Errorf("ledger directory should pass: %s", results[2].Detail)
	}
	if results[3].Passed || results[4].Passed {
		t.Error("missing tools should fail")
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if results := RunAll(nil); results != nil {
		t.Fatalf("expected nil results, got %v", results)
	}
}
