package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external tool the comparison engine relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a tool.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// EngineRequirements lists the tools a comparison run invokes. Both commands
// come from the resolved config, so explicit paths are honored as-is.
func EngineRequirements(scorerBinary, generatorBinary string) []Requirement {
	return []Requirement{
		{
			Name:        "Scorer",
			Command:     scorerBinary,
			Description: "Computes pairwise pocket similarity",
		},
		{
			Name:        "Feature generator",
			Command:     generatorBinary,
			Description: "Derives chemical feature files from pocket structures",
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
