package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"sredun/internal/config"
	"sredun/internal/logging"
	"sredun/internal/preflight"
	"sredun/internal/runs"
	"sredun/internal/scorecache"
)

func newStatusCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration, environment checks, and run statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			printSectionHeader(out, "Configuration", colorize)
			printConfigLine(out, "Config file", cctx.configSource())
			printConfigLine(out, "Working directory", cfg.Paths.Workdir)
			logDir := cfg.Paths.LogDir
			if logDir == "" {
				logDir = "-"
			}
			printConfigLine(out, "Log directory", logDir)
			printConfigLine(out, "Scorer", cfg.Tools.Scorer)
			printConfigLine(out, "Feature generator", cfg.Tools.Generator+" "+cfg.Tools.GeneratorClass)
			printConfigLine(out, "Concurrent", fmt.Sprintf("%s (workers: %s)", yesNo(cfg.Compare.Concurrent), workersLabel(cfg.Compare.Workers)))
			printConfigLine(out, "Threshold", fmt.Sprintf("%.4f", cfg.Compare.Threshold))
			printConfigLine(out, "Exclusive lock", yesNo(cfg.Compare.Exclusive))
			fmt.Fprintln(out)

			printSectionHeader(out, "Environment", colorize)
			for _, result := range preflight.RunAll(cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			fmt.Fprintln(out)

			printSectionHeader(out, "Score cache", colorize)
			cache := scorecache.New(cfg.Paths.Workdir, logging.NewNop())
			fmt.Fprintln(out, renderStatusLine("Cached pairs", statusInfo, strconv.Itoa(cache.Count()), colorize))
			fmt.Fprintln(out)

			printSectionHeader(out, "Run ledger", colorize)
			printLedgerStatus(cmd, cfg, out, colorize)
			return nil
		},
	}
}

func printLedgerStatus(cmd *cobra.Command, cfg *config.Config, out io.Writer, colorize bool) {
	if !cfg.Ledger.Enabled {
		fmt.Fprintln(out, renderStatusLine("Ledger", statusWarn, "Disabled", colorize))
		return
	}
	ledger, err := runs.Open(cfg.Ledger.Path)
	if err != nil {
		fmt.Fprintln(out, renderStatusLine("Ledger", statusWarn, err.Error(), colorize))
		return
	}
	defer ledger.Close()

	count, err := ledger.Count(cmd.Context())
	if err != nil {
		fmt.Fprintln(out, renderStatusLine("Ledger", statusWarn, err.Error(), colorize))
		return
	}
	fmt.Fprintln(out, renderStatusLine("Recorded runs", statusInfo, strconv.Itoa(count), colorize))

	latest, err := ledger.List(cmd.Context(), 1)
	if err != nil || len(latest) == 0 {
		return
	}
	run := latest[0]
	kind := statusOK
	switch run.Status {
	case runs.StatusFailed:
		kind = statusError
	case runs.StatusCanceled:
		kind = statusWarn
	case runs.StatusRunning:
		kind = statusInfo
	}
	detail := fmt.Sprintf("%s (%s, started %s)", run.Mode, run.Status, run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintln(out, renderStatusLine("Last run", kind, detail, colorize))
}

func printSectionHeader(out io.Writer, title string, colorize bool) {
	for _, line := range renderSectionHeader(title, colorize) {
		fmt.Fprintln(out, line)
	}
}

func printConfigLine(out io.Writer, label, value string) {
	fmt.Fprintf(out, "%s%-*s %s\n", statusIndent, statusLabelWidth, label+":", value)
}

func workersLabel(n int) string {
	if n <= 0 {
		return "auto"
	}
	return strconv.Itoa(n)
}
