package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sredun/internal/compare"
	"sredun/internal/config"
	"sredun/internal/prepare"
	"sredun/internal/receptor"
	"sredun/internal/report"
	"sredun/internal/scorecache"
	"sredun/internal/scorer"
	"sredun/internal/services"
	"sredun/internal/simmatrix"
	"sredun/internal/workdir"
)

func newCompareCommand(cctx *commandContext) *cobra.Command {
	var concurrent bool
	var workers int
	var threshold float64
	var outputPath string
	var jsonOut bool
	var entity int

	cmd := &cobra.Command{
		Use:   "compare [database]",
		Short: "Compare every receptor pocket against every other",
		Long: `Compare parses a merged pocket database, prepares structure and
chemical-feature files for every receptor, then scores all receptor pairs
cache-first and prints the mapping and similarity matrix sections.

The database argument may be a file path or "-" for standard input; omitting
it also reads standard input.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			quiet := jsonOut

			eng, err := buildEngine(cmd, cctx, args, engineOptions{
				withLock:   true,
				concurrent: concurrent,
				workers:    workers,
				workersSet: cmd.Flags().Changed("workers"),
				quiet:      quiet,
			})
			if err != nil {
				return err
			}
			defer eng.release()

			effThreshold := eng.cfg.Compare.Threshold
			if cmd.Flags().Changed("threshold") {
				effThreshold = threshold
			}
			if effThreshold < 0 || effThreshold > 1 {
				return fmtErrThreshold(effThreshold)
			}
			if entity >= 0 && entity >= len(eng.receptors) {
				return eng.rejectSelection(entity)
			}

			ledger, run := startRun(cmd.Context(), eng.cfg, eng.logger, "compare", eng.source)
			ctx := cmd.Context()
			if run != nil {
				ctx = services.WithRunID(ctx, run.ID)
			}

			if err := eng.prepareReceptors(services.WithStage(ctx, "prepare")); err != nil {
				finishRun(ledger, run, eng.logger, len(eng.receptors), compare.Stats{}, err)
				return err
			}

			var writer *report.Writer
			if !quiet {
				writer, err = report.NewWriter(stdout, outputPath)
				if err != nil {
					finishRun(ledger, run, eng.logger, len(eng.receptors), compare.Stats{}, err)
					return err
				}
				defer writer.Close()
				if err := writer.Section(report.SectionMapping, report.Mapping(eng.receptors)); err != nil {
					finishRun(ledger, run, eng.logger, len(eng.receptors), compare.Stats{}, err)
					return err
				}
			}

			matrix, err := eng.comparer.Matrix(services.WithStage(ctx, "score"), eng.receptors, eng.receptors)
			if err != nil {
				finishRun(ledger, run, eng.logger, len(eng.receptors), eng.comparer.Stats(), err)
				return err
			}
			stats := eng.comparer.Stats()
			thresholded := simmatrix.Threshold(matrix, effThreshold)

			var ranked []simmatrix.Ranked
			if entity >= 0 {
				ranked = simmatrix.Rank(matrix[entity], eng.names())
			}

			if quiet {
				doc := eng.document("compare", effThreshold, thresholded, ranked, stats)
				if err := emitJSON(stdout, outputPath, doc); err != nil {
					finishRun(ledger, run, eng.logger, len(eng.receptors), stats, err)
					return err
				}
				finishRun(ledger, run, eng.logger, len(eng.receptors), stats, nil)
				return nil
			}

			if ranked != nil {
				if err := writer.Section(report.SectionSimilarities, report.Similarities(eng.receptors[entity], ranked)); err != nil {
					finishRun(ledger, run, eng.logger, len(eng.receptors), stats, err)
					return err
				}
			}
			if err := writer.Section(report.SectionMatrix, report.MatrixRows(thresholded)); err != nil {
				finishRun(ledger, run, eng.logger, len(eng.receptors), stats, err)
				return err
			}
			if err := writer.Close(); err != nil {
				finishRun(ledger, run, eng.logger, len(eng.receptors), stats, err)
				return err
			}
			finishRun(ledger, run, eng.logger, len(eng.receptors), stats, nil)
			return nil
		},
	}

	cmd.Flags().BoolVar(&concurrent, "concurrent", false, "Score each row with a bounded worker pool")
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker pool size, 0 uses the host CPU count")
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "Similarity threshold, matrix entries below it print as 0.0")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Mirror report sections to this file")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit a JSON document instead of text sections")
	cmd.Flags().IntVarP(&entity, "entity", "e", -1, "Also print ranked similarities for this receptor index")
	return cmd
}

// engineOptions select how buildEngine assembles the comparison pipeline.
type engineOptions struct {
	withLock   bool
	concurrent bool
	workers    int
	workersSet bool
	quiet      bool
}

// engine bundles everything a comparison command needs once the database is
// parsed: configuration, logging, the prepared receptor set, and the
// cache-first comparer with its live-line observers attached.
type engine struct {
	cfg         *config.Config
	logger      *slog.Logger
	stdout      io.Writer
	colorize    bool
	quiet       bool
	source      string
	receptors   []*receptor.Receptor
	preparer    *prepare.Preparer
	comparer    *compare.Comparer
	cache       *scorecache.Cache
	lock        *workdir.Lock
	failedPairs []report.FailedPair
}

func buildEngine(cmd *cobra.Command, cctx *commandContext, args []string, opts engineOptions) (*engine, error) {
	cfg, err := cctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := cctx.engineLogger()
	if err != nil {
		return nil, err
	}

	content, source, err := readDatabase(cmd, args)
	if err != nil {
		return nil, err
	}
	stdout := cmd.OutOrStdout()
	diagnostics := stdout
	if opts.quiet {
		diagnostics = cmd.ErrOrStderr()
	}
	receptors, err := loadReceptors(cfg, content, source, diagnostics)
	if err != nil {
		return nil, err
	}

	eng := &engine{
		cfg:       cfg,
		logger:    logger,
		stdout:    stdout,
		colorize:  shouldColorize(stdout),
		quiet:     opts.quiet,
		source:    source,
		receptors: receptors,
	}

	if opts.withLock && cfg.Compare.Exclusive {
		lock, err := workdir.Acquire(cfg.Paths.Workdir)
		if err != nil {
			return nil, err
		}
		eng.lock = lock
	}

	eng.preparer, err = prepare.New(cfg.Tools.Generator, cfg.Tools.GeneratorClass, cfg.Tools.TimeoutSeconds, logger)
	if err != nil {
		eng.release()
		return nil, err
	}

	printer := &linePrinter{out: stdout}
	var scorerOpts []scorer.Option
	if !opts.quiet {
		scorerOpts = append(scorerOpts, scorer.WithObserver(func(attempt scorer.Attempt) {
			if attempt.Final {
				return
			}
			printer.Println(retryLine(attempt, eng.colorize))
		}))
	}
	scoring, err := scorer.New(cfg.Tools.Scorer, cfg.Tools.TimeoutSeconds, logger, scorerOpts...)
	if err != nil {
		eng.release()
		return nil, err
	}

	eng.cache = scorecache.New(cfg.Paths.Workdir, logger)

	compareOpts := []compare.Option{
		compare.WithObserver(func(out compare.Outcome) {
			if out.Failed {
				eng.failedPairs = append(eng.failedPairs, report.FailedPair{
					Source: out.SourceName,
					Target: out.TargetName,
				})
			}
			if !opts.quiet {
				printer.Println(pairLine(out, eng.colorize))
			}
		}),
	}
	if opts.concurrent || cfg.Compare.Concurrent {
		poolSize := cfg.Compare.Workers
		if opts.workersSet {
			poolSize = opts.workers
		}
		compareOpts = append(compareOpts, compare.WithWorkers(poolSize))
	}
	eng.comparer, err = compare.New(eng.cache, scoring, logger, compareOpts...)
	if err != nil {
		eng.release()
		return nil, err
	}

	return eng, nil
}

func (e *engine) release() {
	if e.lock != nil {
		e.lock.Release()
		e.lock = nil
	}
}

func (e *engine) names() []string {
	names := make([]string, len(e.receptors))
	for i, rec := range e.receptors {
		names[i] = rec.Name
	}
	return names
}

// prepareReceptors materializes artifacts for every receptor, printing the
// per-receptor check lines and the loading summary. A non-nil error means at
// least one receptor failed and no comparison may run.
func (e *engine) prepareReceptors(ctx context.Context) error {
	results, err := e.preparer.PrepareAll(ctx, e.receptors)
	if !e.quiet {
		for _, res := range results {
			fmt.Fprintln(e.stdout, prepareLine(res, e.colorize))
		}
	}
	if err != nil {
		if !e.quiet {
			fmt.Fprintln(e.stdout, "[-] Preparing files failed")
		}
		return err
	}
	if !e.quiet {
		total := len(e.receptors) * 2
		fmt.Fprintf(e.stdout, "[+] All files loaded properly (%d/%d)\n\n", total, total)
	}
	return nil
}

// rejectSelection reports an out-of-range receptor index the way the text
// surface expects it and returns the validation error for the exit code.
func (e *engine) rejectSelection(index int) error {
	if !e.quiet {
		fmt.Fprintf(e.stdout, "[-] Wrong receptor selected, available indexes: (0 - %d)\n", len(e.receptors)-1)
	}
	return services.Wrap(services.ErrValidation, "select", "",
		fmt.Sprintf("receptor index %d out of range (0 - %d)", index, len(e.receptors)-1), nil)
}

func (e *engine) document(mode string, threshold float64, matrix [][]float64, ranked []simmatrix.Ranked, stats compare.Stats) report.Document {
	entries := make([]report.ReceptorEntry, len(e.receptors))
	for i, rec := range e.receptors {
		entries[i] = report.ReceptorEntry{Index: rec.Index, Name: rec.Name}
	}
	var ranking []report.RankEntry
	for _, r := range ranked {
		ranking = append(ranking, report.RankEntry{Index: r.Index, Name: r.Name, Score: r.Score})
	}
	return report.Document{
		GeneratedAt: time.Now().UTC(),
		Mode:        mode,
		Threshold:   threshold,
		Receptors:   entries,
		Matrix:      matrix,
		Ranking:     ranking,
		FailedPairs: e.failedPairs,
		Stats: report.RunStats{
			Pairs:      stats.Pairs,
			CacheHits:  stats.CacheHits,
			ScorerRuns: stats.ScorerRuns,
			Failures:   stats.Failures,
		},
	}
}

func emitJSON(stdout io.Writer, outputPath string, doc report.Document) error {
	if err := doc.Encode(stdout); err != nil {
		return err
	}
	if outputPath == "" {
		return nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := doc.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
