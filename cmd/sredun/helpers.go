package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"sredun/internal/compare"
	"sredun/internal/config"
	"sredun/internal/logging"
	"sredun/internal/prepare"
	"sredun/internal/receptor"
	"sredun/internal/runs"
	"sredun/internal/scorer"
	"sredun/internal/services"
)

// Scores above this render in the highlight color on live pair lines.
const highScore = 0.8

// linePrinter serializes live progress lines emitted by concurrent observers.
type linePrinter struct {
	mu  sync.Mutex
	out io.Writer
}

func (p *linePrinter) Println(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, line)
}

// readDatabase returns the merged database content named by the positional
// argument, or everything on stdin when the argument is "-" or absent.
func readDatabase(cmd *cobra.Command, args []string) (string, string, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("read database from stdin: %w", err)
		}
		return string(data), "stdin", nil
	}
	path, err := config.ExpandPath(args[0])
	if err != nil {
		return "", "", fmt.Errorf("resolve database path: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read database: %w", err)
	}
	return string(data), path, nil
}

// loadReceptors fills a registry from database content, reporting skipped
// malformed records on out.
func loadReceptors(cfg *config.Config, content, source string, out io.Writer) ([]*receptor.Receptor, error) {
	registry := receptor.NewRegistry(cfg.Paths.Workdir)
	added, skipped := receptor.LoadDatabase(registry, content)
	if skipped > 0 {
		fmt.Fprintf(out, "[-] Skipped %d malformed receptor records\n", skipped)
	}
	if added == 0 {
		return nil, fmt.Errorf("no receptor records in %s", source)
	}
	return registry.All(), nil
}

func pairLine(out compare.Outcome, colorize bool) string {
	info := fmt.Sprintf("%d<->%d\t%s<->%s\tscore:\t",
		out.SourceIndex, out.TargetIndex, out.SourceName, out.TargetName)
	if out.Failed {
		return "[-] " + info + colorText("ERROR", ansiRed, colorize)
	}
	color := ansiGreen
	if out.Score > highScore {
		color = ansiYellow
	}
	return "[+] " + info + colorText(fmt.Sprintf("% .6f", out.Score), color, colorize)
}

func retryLine(attempt scorer.Attempt, colorize bool) string {
	return fmt.Sprintf("[*] %s\tscore:\t%s\t%s",
		attempt.Pair,
		colorText("ERROR", ansiRed, colorize),
		colorText("RETRYING...", ansiBlue, colorize))
}

func prepareLine(res prepare.Result, colorize bool) string {
	prefix := fmt.Sprintf("[*] [%s] Checking files...", res.Receptor.Name)
	if res.OK {
		return prefix +
			"\t" + colorText(res.PrimaryPath, ansiGreen, colorize) +
			"\t" + colorText(res.SecondaryPath, ansiGreen, colorize)
	}
	return prefix + "\t" + colorText(res.Err.Error(), ansiRed, colorize)
}

func fmtErrThreshold(value float64) error {
	return fmt.Errorf("threshold %v out of range (0.0 - 1.0)", value)
}

// openLedger opens the run history store, or reports why it is unavailable.
func openLedger(cfg *config.Config) (*runs.Store, error) {
	if !cfg.Ledger.Enabled {
		return nil, fmt.Errorf("run ledger is disabled in configuration")
	}
	return runs.Open(cfg.Ledger.Path)
}

// startRun records the beginning of a comparison run. A nil return means the
// ledger is disabled or unavailable; the run proceeds without history.
func startRun(ctx context.Context, cfg *config.Config, logger *slog.Logger, mode, source string) (*runs.Store, *runs.Run) {
	if !cfg.Ledger.Enabled {
		return nil, nil
	}
	ledger, err := runs.Open(cfg.Ledger.Path)
	if err != nil {
		logger.Warn("run ledger unavailable", logging.Error(err))
		return nil, nil
	}
	run, err := ledger.StartRun(ctx, mode, source)
	if err != nil {
		logger.Warn("run ledger write failed", logging.Error(err))
		ledger.Close()
		return nil, nil
	}
	return ledger, run
}

// finishRun closes out a ledger entry. It writes on a fresh context so a
// canceled run still lands in the history, and closes the store.
func finishRun(ledger *runs.Store, run *runs.Run, logger *slog.Logger, receptors int, stats compare.Stats, runErr error) {
	if ledger == nil {
		return
	}
	defer ledger.Close()
	if run == nil {
		return
	}
	summary := runs.Summary{
		Receptors:  receptors,
		Pairs:      stats.Pairs,
		CacheHits:  stats.CacheHits,
		ScorerRuns: stats.ScorerRuns,
		Failures:   stats.Failures,
		Status:     runs.StatusCompleted,
	}
	if runErr != nil {
		summary.Status = services.FailureStatus(runErr)
		summary.ErrorText = runErr.Error()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ledger.FinishRun(ctx, run.ID, summary); err != nil {
		logger.Warn("run ledger update failed", logging.Error(err))
	}
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Truncate(time.Millisecond).String()
}
