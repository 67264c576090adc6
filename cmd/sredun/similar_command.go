package main

import (
	"github.com/spf13/cobra"

	"sredun/internal/compare"
	"sredun/internal/report"
	"sredun/internal/services"
	"sredun/internal/simmatrix"
)

func newSimilarCommand(cctx *commandContext) *cobra.Command {
	var concurrent bool
	var workers int
	var threshold float64
	var outputPath string
	var jsonOut bool
	var entity int
	var target int

	cmd := &cobra.Command{
		Use:   "similar [database]",
		Short: "Rank every receptor by similarity to one selected receptor",
		Long: `Similar scores the selected receptor against every receptor in the
database, or against a single target when --target is given, and prints the
ranked similarities followed by the padded matrix section.`,
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
			if entity < 0 || entity >= len(eng.receptors) {
				return eng.rejectSelection(entity)
			}
			targetSet := cmd.Flags().Changed("target")
			if targetSet && (target < 0 || target >= len(eng.receptors)) {
				return eng.rejectSelection(target)
			}

			ledger, run := startRun(cmd.Context(), eng.cfg, eng.logger, "similar", eng.source)
			ctx := cmd.Context()
			if run != nil {
				ctx = services.WithRunID(ctx, run.ID)
			}

			if err := eng.prepareReceptors(services.WithStage(ctx, "prepare")); err != nil {
				finishRun(ledger, run, eng.logger, len(eng.receptors), compare.Stats{}, err)
				return err
			}

			var scores []float64
			var ranked []simmatrix.Ranked
			selected := eng.receptors[entity]
			scoreCtx := services.WithStage(ctx, "score")
			if targetSet {
				out, err := eng.comparer.CompareOne(scoreCtx, selected, eng.receptors[target])
				if err != nil {
					finishRun(ledger, run, eng.logger, len(eng.receptors), eng.comparer.Stats(), err)
					return err
				}
				scores = []float64{out.Score}
				ranked = []simmatrix.Ranked{{
					Index: target,
					Name:  eng.receptors[target].Name,
					Score: simmatrix.Round4(out.Score),
				}}
			} else {
				scores, err = eng.comparer.Row(scoreCtx, selected, eng.receptors)
				if err != nil {
					finishRun(ledger, run, eng.logger, len(eng.receptors), eng.comparer.Stats(), err)
					return err
				}
				ranked = simmatrix.Rank(scores, eng.names())
			}
			stats := eng.comparer.Stats()
			matrix := simmatrix.NormalizeShape(simmatrix.Threshold([][]float64{scores}, effThreshold))

			if quiet {
				doc := eng.document("similar", effThreshold, matrix, ranked, stats)
				if err := emitJSON(stdout, outputPath, doc); err != nil {
					finishRun(ledger, run, eng.logger, len(eng.receptors), stats, err)
					return err
				}
				finishRun(ledger, run, eng.logger, len(eng.receptors), stats, nil)
				return nil
			}

			writer, err := report.NewWriter(stdout, outputPath)
			if err != nil {
				finishRun(ledger, run, eng.logger, len(eng.receptors), stats, err)
				return err
			}
			defer writer.Close()
			if err := writer.Section(report.SectionSimilarities, report.Similarities(selected, ranked)); err != nil {
				finishRun(ledger, run, eng.logger, len(eng.receptors), stats, err)
				return err
			}
			if err := writer.Section(report.SectionMatrix, report.MatrixRows(matrix)); err != nil {
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

	cmd.Flags().BoolVar(&concurrent, "concurrent", false, "Score the row with a bounded worker pool")
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker pool size, 0 uses the host CPU count")
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "Similarity threshold, matrix entries below it print as 0.0")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Mirror report sections to this file")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit a JSON document instead of text sections")
	cmd.Flags().IntVarP(&entity, "entity", "e", -1, "Index of the receptor to rank against")
	cmd.Flags().IntVar(&target, "target", -1, "Compare only against this receptor index")
	cmd.MarkFlagRequired("entity")
	return cmd
}
