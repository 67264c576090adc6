package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Document is the machine-readable form of one run's output. Matrix holds
// the thresholded scores exactly as the text section prints them; ranking
// and failures carry what the text surface can only hint at.
type Document struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Mode        string          `json:"mode"`
	Threshold   float64         `json:"threshold"`
	Receptors   []ReceptorEntry `json:"receptors"`
	Matrix      [][]float64     `json:"matrix,omitempty"`
	Ranking     []RankEntry     `json:"ranking,omitempty"`
	FailedPairs []FailedPair    `json:"failed_pairs,omitempty"`
	Stats       RunStats        `json:"stats"`
}

// ReceptorEntry mirrors one mapping line.
type ReceptorEntry struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// RankEntry mirrors one similarities line.
type RankEntry struct {
	Index int     `json:"index"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// FailedPair names a comparison that exhausted its scorer attempts.
type FailedPair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// RunStats summarizes the run's comparison work.
type RunStats struct {
	Pairs      int `json:"pairs"`
	CacheHits  int `json:"cache_hits"`
	ScorerRuns int `json:"scorer_runs"`
	Failures   int `json:"failures"`
}

// Encode writes the document as indented JSON with a trailing newline.
func (d Document) Encode(w io.Writer) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return err
	}
	return nil
}
