package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newRunsCommand(cctx *commandContext) *cobra.Command {
	var limit int

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded comparison runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			ledger, err := openLedger(cfg)
			if err != nil {
				return err
			}
			defer ledger.Close()

			records, err := ledger.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, run := range records {
				id := run.ID
				if len(id) > 8 {
					id = id[:8]
				}
				rows = append(rows, []string{
					id,
					run.Mode,
					strconv.Itoa(run.Receptors),
					strconv.Itoa(run.Pairs),
					strconv.Itoa(run.CacheHits),
					strconv.Itoa(run.Failures),
					string(run.Status),
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					formatDuration(run.Duration()),
				})
			}
			table := renderTable(
				[]string{"ID", "Mode", "Receptors", "Pairs", "Hits", "Failures", "Status", "Started", "Duration"},
				rows,
				2, 3, 4, 5,
			)
			fmt.Fprintln(out, table)
			return nil
		},
	}
	runsCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many runs, newest first")

	runsCmd.AddCommand(newRunsClearCommand(cctx))
	return runsCmd
}

func newRunsClearCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			ledger, err := openLedger(cfg)
			if err != nil {
				return err
			}
			defer ledger.Close()

			removed, err := ledger.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run records\n", removed)
			return nil
		},
	}
}
