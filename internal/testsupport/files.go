package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// StubBinary writes an executable shell script under dir and returns its path.
func StubBinary(t testing.TB, dir, name, script string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", path, err)
	}
	return path
}

// StubScorer writes a scorer that always prints the given score.
func StubScorer(t testing.TB, dir string, score float64) string {
	t.Helper()
	script := fmt.Sprintf("#!/bin/sh\necho \"GA-score: %.6f\"\n", score)
	return StubBinary(t, dir, "glosa", script)
}

// StubFailingScorer writes a scorer that always exits non-zero.
func StubFailingScorer(t testing.TB, dir string) string {
	t.Helper()
	return StubBinary(t, dir, "glosa", "#!/bin/sh\necho \"alignment failed\" >&2\nexit 1\n")
}

// StubGenerator writes a generator that copies the structure it is pointed
// at into the expected feature file, mimicking the real tool's side effect.
// The structure path arrives as the final argument.
func StubGenerator(t testing.TB, dir string) string {
	t.Helper()
	script := "#!/bin/sh\nsrc=\"$2\"\ncp \"$src\" \"${src%.pdb}-cf.pdb\"\n"
	return StubBinary(t, dir, "java", script)
}

// Database builds a merged receptor database from record names. Each record
// carries the upper-cased name with the pocket suffix on its first line, one
// placeholder atom, and the record separator.
func Database(names ...string) string {
	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "HEADER    %s_POCKET\n", strings.ToUpper(name))
		b.WriteString("ATOM      1  N   ALA A   1      11.104   6.134  -6.504  1.00  0.00           N\n")
		b.WriteString("END\n")
	}
	return b.String()
}

// WriteDatabase writes a merged database file under dir and returns its path.
func WriteDatabase(t testing.TB, dir string, names ...string) string {
	t.Helper()

	path := filepath.Join(dir, "receptors.db")
	if err := os.WriteFile(path, []byte(Database(names...)), 0o644); err != nil {
		t.Fatalf("write database %s: %v", path, err)
	}
	return path
}
