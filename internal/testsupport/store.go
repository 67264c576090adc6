package testsupport

import (
	"testing"

	"sredun/internal/runs"
)

// MustOpenLedger opens a runs.Store for tests and registers cleanup.
func MustOpenLedger(t testing.TB, path string) *runs.Store {
	t.Helper()

	store, err := runs.Open(path)
	if err != nil {
		t.Fatalf("runs.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
