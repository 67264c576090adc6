package receptor

import "strings"

// recordSeparator splits a merged PDB database into receptor records.
const recordSeparator = "END"

// recordTerminator is appended to every extracted record payload.
const recordTerminator = "TER"

// Registry assigns stable zero-based indices to receptors in encounter order
// and owns lookup by index. Independent registries never share counter state.
type Registry struct {
	workdir   string
	receptors []*Receptor
}

// NewRegistry creates an empty registry whose receptors derive artifact paths
// under workdir.
func NewRegistry(workdir string) *Registry {
	return &Registry{workdir: workdir}
}

// Register parses a raw record payload and mints the next receptor. Malformed
// payloads return ErrMalformedRecord and consume no index.
func (g *Registry) Register(payload string) (*Receptor, error) {
	name, err := parseName(payload)
	if err != nil {
		return nil, err
	}
	rec := &Receptor{
		Index:   len(g.receptors),
		Name:    name,
		Payload: payload,
		workdir: g.workdir,
	}
	g.receptors = append(g.receptors, rec)
	return rec, nil
}

// ByIndex returns the receptor with the given index.
func (g *Registry) ByIndex(index int) (*Receptor, bool) {
	if index < 0 || index >= len(g.receptors) {
		return nil, false
	}
	return g.receptors[index], true
}

// All returns the registered receptors in index order. The returned slice is
// shared read-only state; callers must not mutate it.
func (g *Registry) All() []*Receptor {
	return g.receptors
}

// Len reports how many receptors are registered.
func (g *Registry) Len() int {
	return len(g.receptors)
}

// ParseDatabase splits merged PDB content into record payloads. Records are
// separated by the END keyword; each surviving record is trimmed and closed
// with a TER line, matching the layout the artifact preparer writes to disk.
func ParseDatabase(content string) []string {
	chunks := strings.Split(content, recordSeparator)
	payloads := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		trimmed := strings.TrimSpace(chunk)
		if trimmed == "" {
			continue
		}
		payloads = append(payloads, trimmed+"\n"+recordTerminator)
	}
	return payloads
}

// LoadDatabase registers every record in the merged database content.
// Malformed records are skipped; the counts let callers report both.
func LoadDatabase(g *Registry, content string) (added, skipped int) {
	for _, payload := range ParseDatabase(content) {
		if _, err := g.Register(payload); err != nil {
			skipped++
			continue
		}
		added++
	}
	return added, skipped
}
