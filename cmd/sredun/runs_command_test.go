package main

import (
	"strings"
	"testing"
)

func TestRunsCommandListsAndClears(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"compare", env.database}, env.configPath); err != nil {
		t.Fatalf("compare: %v", err)
	}

	stdout, _, err := runCLI(t, []string{"runs"}, env.configPath)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, stdout, "compare")
	requireContains(t, stdout, "completed")

	stdout, _, err = runCLI(t, []string{"runs", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("runs clear: %v", err)
	}
	requireContains(t, stdout, "Removed 1 run records")

	stdout, _, err = runCLI(t, []string{"runs"}, env.configPath)
	if err != nil {
		t.Fatalf("runs after clear: %v", err)
	}
	requireContains(t, stdout, "No runs recorded")
}

func TestRunsCommandHonorsLimit(t *testing.T) {
	env := setupCLITestEnv(t)

	for range 3 {
		if _, _, err := runCLI(t, []string{"compare", env.database}, env.configPath); err != nil {
			t.Fatalf("compare: %v", err)
		}
	}

	stdout, _, err := runCLI(t, []string{"runs", "--limit", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("runs --limit: %v", err)
	}
	if got := strings.Count(stdout, "compare"); got != 1 {
		t.Fatalf("expected 1 listed run, saw %d", got)
	}
}
