package simmatrix

import (
	"math"
	"sort"
)

// Round4 rounds to 4 decimal places, halves away from zero.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// Threshold returns a copy of the matrix with every entry below t replaced by
// exactly 0.0 and every surviving entry rounded to 4 decimal places. The rule
// is uniform: the diagonal and sentinel entries get no special treatment, and
// the comparison uses the raw value, not the rounded one.
func Threshold(matrix [][]float64, t float64) [][]float64 {
	out := make([][]float64, len(matrix))
	for i, row := range matrix {
		outRow := make([]float64, len(row))
		for j, v := range row {
			if v < t {
				outRow[j] = 0.0
				continue
			}
			outRow[j] = Round4(v)
		}
		out[i] = outRow
	}
	return out
}

// Ranked pairs one comparison target with its similarity to the ranked row's
// source receptor.
type Ranked struct {
	Index int
	Name  string
	Score float64
}

// Rank orders a raw score row descending by score. The sort is stable, so
// equal scores keep their index order. Reported scores are rounded to 4
// decimal places after sorting; the sort itself uses the raw values, which is
// why ranking operates on the unthresholded row.
func Rank(row []float64, names []string) []Ranked {
	ranked := make([]Ranked, len(row))
	for i, v := range row {
		ranked[i] = Ranked{Index: i, Score: v}
		if i < len(names) {
			ranked[i].Name = names[i]
		}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Score > ranked[b].Score
	})
	for i := range ranked {
		ranked[i].Score = Round4(ranked[i].Score)
	}
	return ranked
}

// NormalizeShape pads a copy of the matrix with zero-filled rows until it is
// square. Single-row query results become presentable as a full grid this
// way; the padding is display-only and never feeds back into scoring.
func NormalizeShape(matrix [][]float64) [][]float64 {
	out := make([][]float64, len(matrix))
	for i, row := range matrix {
		out[i] = append([]float64(nil), row...)
	}
	if len(out) == 0 {
		return out
	}
	width := len(out[0])
	for len(out) < width {
		out = append(out, make([]float64, width))
	}
	return out
}
