package runs

import "time"

// Status represents the lifecycle of a recorded run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

// Run is one ledger row: a single invocation of the comparison engine.
type Run struct {
	ID           string
	Mode         string
	DatabasePath string
	Receptors    int
	Pairs        int
	CacheHits    int
	ScorerRuns   int
	Failures     int
	Status       Status
	ErrorText    string
	StartedAt    time.Time
	FinishedAt   *time.Time
}

// Duration reports the run's wall clock time, zero while it is still open.
func (r *Run) Duration() time.Duration {
	if r == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summary carries the terminal counters written when a run finishes.
type Summary struct {
	Receptors  int
	Pairs      int
	CacheHits  int
	ScorerRuns int
	Failures   int
	Status     Status
	ErrorText  string
}
