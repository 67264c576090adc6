package receptor

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrMalformedRecord indicates a database chunk too short to describe a
// receptor. Callers skip these records; they never consume an index.
var ErrMalformedRecord = errors.New("malformed receptor record")

// pocketSuffix is stripped from receptor identifiers after lowercasing.
const pocketSuffix = "_pocket"

// Receptor is one comparable binding pocket parsed from a merged PDB database.
// Index and Name are immutable after registration.
type Receptor struct {
	Index   int
	Name    string
	Payload string

	workdir string
}

// PocketPath returns the on-disk location of the pocket PDB artifact.
// The file is not required to exist yet.
func (r *Receptor) PocketPath() string {
	return filepath.Join(r.workdir, r.Name+"_pocket.pdb")
}

// FeaturesPath returns the on-disk location of the chemical features artifact.
// The file is not required to exist yet.
func (r *Receptor) FeaturesPath() string {
	return filepath.Join(r.workdir, r.Name+"_pocket-cf.pdb")
}

// Info renders the tab-separated index/name label used in mapping and
// similarity listings.
func (r *Receptor) Info() string {
	return fmt.Sprintf("[%d]:\t%s", r.Index, r.Name)
}

// ShortInfo renders the compact index/name label.
func (r *Receptor) ShortInfo() string {
	return fmt.Sprintf("[%d]: %s", r.Index, r.Name)
}

// parseName extracts the receptor identifier from a record payload: the second
// whitespace-separated token of the first line, lowercased, with any trailing
// _pocket suffix removed.
func parseName(payload string) (string, error) {
	firstLine := payload
	if idx := strings.IndexByte(payload, '\n'); idx >= 0 {
		firstLine = payload[:idx]
	}
	tokens := strings.Fields(firstLine)
	if len(tokens) < 2 {
		return "", fmt.Errorf("%w: first line %q has %d tokens, need at least 2",
			ErrMalformedRecord, strings.TrimSpace(firstLine), len(tokens))
	}
	name := cases.Lower(language.Und).String(tokens[1])
	return strings.TrimSuffix(name, pocketSuffix), nil
}
