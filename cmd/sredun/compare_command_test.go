package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"sredun/internal/report"
	"sredun/internal/runs"
	"sredun/internal/testsupport"
)

func TestCompareCommandEndToEnd(t *testing.T) {
	env := setupCLITestEnv(t)
	outputPath := filepath.Join(env.baseDir, "report.txt")

	stdout, _, err := runCLI(t, []string{"compare", env.database, "--output", outputPath}, env.configPath)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}

	requireContains(t, stdout, "[+] All files loaded properly (4/4)")
	requireContains(t, stdout, "========= RECEPTORS MAPPING =========")
	requireContains(t, stdout, "[0]:\t1abc")
	requireContains(t, stdout, "[1]:\t2xyz")
	requireContains(t, stdout, "[+] 0<->1\t1abc<->2xyz\tscore:\t 0.831700")
	requireContains(t, stdout, "========= SIMILARITY MATRIX =========")
	requireContains(t, stdout, "0.8317\t0.8317")

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("read output file: %v", err)
	}
	want := "========= RECEPTORS MAPPING =========\n" +
		"[0]:\t1abc\n[1]:\t2xyz\n\n" +
		"========= SIMILARITY MATRIX =========\n" +
		"0.8317\t0.8317\n0.8317\t0.8317\n\n"
	if string(content) != want {
		t.Fatalf("output file mismatch\n got: %q\nwant: %q", content, want)
	}

	ledger := testsupport.MustOpenLedger(t, env.cfg.Ledger.Path)
	records, err := ledger.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 recorded run, got %d", len(records))
	}
	run := records[0]
	if run.Mode != "compare" || run.Status != runs.StatusCompleted {
		t.Fatalf("unexpected run record: mode=%s status=%s", run.Mode, run.Status)
	}
	if run.Receptors != 2 || run.Pairs != 4 || run.ScorerRuns != 3 || run.CacheHits != 1 || run.Failures != 0 {
		t.Fatalf("unexpected run counters: %+v", run)
	}
	if run.FinishedAt == nil {
		t.Fatal("expected run to be finished")
	}
}

func TestCompareCommandSecondRunFullyCached(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"compare", env.database}, env.configPath); err != nil {
		t.Fatalf("first compare: %v", err)
	}
	stdout, _, err := runCLI(t, []string{"compare", env.database}, env.configPath)
	if err != nil {
		t.Fatalf("second compare: %v", err)
	}
	requireContains(t, stdout, "0.8317\t0.8317")

	ledger := testsupport.MustOpenLedger(t, env.cfg.Ledger.Path)
	records, err := ledger.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected newest run, got %d records", len(records))
	}
	if records[0].ScorerRuns != 0 || records[0].CacheHits != 4 {
		t.Fatalf("expected fully cached second run, got %+v", records[0])
	}
}

func TestCompareCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, []string{"compare", env.database, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("compare --json: %v", err)
	}
	requireNotContains(t, stdout, "=========")

	var doc report.Document
	if err := json.Unmarshal([]byte(stdout), &doc); err != nil {
		t.Fatalf("stdout is not a JSON document: %v\n%s", err, stdout)
	}
	if doc.Mode != "compare" {
		t.Fatalf("unexpected mode %q", doc.Mode)
	}
	if len(doc.Receptors) != 2 || doc.Receptors[1].Name != "2xyz" {
		t.Fatalf("unexpected receptors: %+v", doc.Receptors)
	}
	if len(doc.Matrix) != 2 || doc.Matrix[0][1] != 0.8317 {
		t.Fatalf("unexpected matrix: %+v", doc.Matrix)
	}
	if doc.Stats.Pairs != 4 || doc.Stats.CacheHits != 1 {
		t.Fatalf("unexpected stats: %+v", doc.Stats)
	}
	if len(doc.FailedPairs) != 0 {
		t.Fatalf("expected no failed pairs, got %+v", doc.FailedPairs)
	}
}

func TestCompareCommandPreparationFailureGate(t *testing.T) {
	env := setupCLITestEnv(t)
	failing := "#!/bin/sh\nexit 3\n"
	if err := os.WriteFile(env.cfg.Tools.Generator, []byte(failing), 0o755); err != nil {
		t.Fatalf("replace generator stub: %v", err)
	}

	stdout, _, err := runCLI(t, []string{"compare", env.database}, env.configPath)
	if err == nil {
		t.Fatal("expected preparation failure")
	}
	requireContains(t, stdout, "[-] Preparing files failed")
	requireNotContains(t, stdout, "RECEPTORS MAPPING")
	requireNotContains(t, stdout, "score:")

	ledger := testsupport.MustOpenLedger(t, env.cfg.Ledger.Path)
	records, err := ledger.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(records) != 1 || records[0].Status != runs.StatusFailed {
		t.Fatalf("expected failed run record, got %+v", records)
	}
}

func TestCompareCommandScorerFailureContinues(t *testing.T) {
	env := setupCLITestEnv(t)
	failing := "#!/bin/sh\necho \"alignment failed\" >&2\nexit 1\n"
	if err := os.WriteFile(env.cfg.Tools.Scorer, []byte(failing), 0o755); err != nil {
		t.Fatalf("replace scorer stub: %v", err)
	}

	stdout, _, err := runCLI(t, []string{"compare", env.database}, env.configPath)
	if err != nil {
		t.Fatalf("compare should survive scorer failures: %v", err)
	}
	requireContains(t, stdout, "RETRYING...")
	requireContains(t, stdout, "[-] 0<->1\t1abc<->2xyz\tscore:\tERROR")
	requireContains(t, stdout, "0.0000\t0.0000")

	ledger := testsupport.MustOpenLedger(t, env.cfg.Ledger.Path)
	records, err := ledger.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(records) != 1 || records[0].Failures != 4 {
		t.Fatalf("expected 4 failed pairs, got %+v", records)
	}
	if records[0].Status != runs.StatusCompleted {
		t.Fatalf("scoring failures must not fail the run, got %s", records[0].Status)
	}
}

func TestCompareCommandThresholdZeroesMatrixNotRanking(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, []string{"compare", env.database, "--threshold", "0.9", "--entity", "0"}, env.configPath)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	requireContains(t, stdout, "========= RECEPTOR SIMILARITIES =========")
	requireContains(t, stdout, "0.8317\t[1]:\t2xyz")
	requireContains(t, stdout, "0.0000\t0.0000")
}

func TestCompareCommandRejectsOutOfRangeEntity(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, []string{"compare", env.database, "--entity", "5"}, env.configPath)
	if err == nil {
		t.Fatal("expected selection error")
	}
	requireContains(t, stdout, "[-] Wrong receptor selected, available indexes: (0 - 1)")
}

func TestCompareCommandRejectsBadThreshold(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"compare", env.database, "--threshold", "1.5"}, env.configPath)
	if err == nil {
		t.Fatal("expected threshold validation error")
	}
}
