package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"sredun/internal/receptor"
	"sredun/internal/simmatrix"
)

// Section titles rendered on the output surface.
const (
	SectionMapping      = "RECEPTORS MAPPING"
	SectionSimilarities = "RECEPTOR SIMILARITIES"
	SectionMatrix       = "SIMILARITY MATRIX"
)

// SectionHeader renders a section title line.
func SectionHeader(title string) string {
	return "========= " + title + " ========="
}

// Mapping renders one index-to-name line per receptor.
func Mapping(receptors []*receptor.Receptor) string {
	lines := make([]string, 0, len(receptors))
	for _, rec := range receptors {
		lines = append(lines, rec.Info())
	}
	return strings.Join(lines, "\n")
}

// Similarities renders the selected-receptor block: the receptor being
// ranked, a column header, then one line per target in rank order.
func Similarities(selected *receptor.Receptor, ranked []simmatrix.Ranked) string {
	var b strings.Builder
	b.WriteString("Selected receptor:\n\t")
	b.WriteString(selected.Info())
	b.WriteString("\n\nscore\tindex\tid\n")
	for _, r := range ranked {
		fmt.Fprintf(&b, "\n%.4f\t[%d]:\t%s", r.Score, r.Index, r.Name)
	}
	return b.String()
}

// MatrixRows renders a matrix as tab-separated 4-decimal rows.
func MatrixRows(matrix [][]float64) string {
	rows := make([]string, 0, len(matrix))
	for _, row := range matrix {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprintf("%.4f", v)
		}
		rows = append(rows, strings.Join(cells, "\t"))
	}
	return strings.Join(rows, "\n")
}

// Writer emits report sections to stdout and, when an output path is set,
// mirrors the exact same bytes to the file. The file is truncated once when
// the writer is created and appended to section by section afterwards.
type Writer struct {
	stdout io.Writer
	file   *os.File
}

// NewWriter wraps stdout and optionally opens outputPath for mirroring.
func NewWriter(stdout io.Writer, outputPath string) (*Writer, error) {
	w := &Writer{stdout: stdout}
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("create output file: %w", err)
		}
		w.file = f
	}
	return w, nil
}

// Section writes one titled section followed by a blank separator line.
func (w *Writer) Section(title, body string) error {
	return w.Raw(SectionHeader(title) + "\n" + body + "\n\n")
}

// Raw writes text verbatim to stdout and the mirror file.
func (w *Writer) Raw(text string) error {
	if _, err := io.WriteString(w.stdout, text); err != nil {
		return err
	}
	if w.file != nil {
		if _, err := io.WriteString(w.file, text); err != nil {
			return fmt.Errorf("write output file: %w", err)
		}
	}
	return nil
}

// Close releases the mirror file, if any. Closing twice is harmless.
func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}
