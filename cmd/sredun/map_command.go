package main

import (
	"github.com/spf13/cobra"

	"sredun/internal/report"
	"sredun/internal/services"
)

func newMapCommand(cctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "map [database]",
		Short: "Parse a database, prepare artifacts, and print the receptor mapping",
		Long: `Map parses a merged pocket database, prepares structure and
chemical-feature files for every receptor, and prints the index-to-name
mapping section without running any comparison.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(cmd, cctx, args, engineOptions{})
			if err != nil {
				return err
			}
			defer eng.release()

			if err := eng.prepareReceptors(services.WithStage(cmd.Context(), "prepare")); err != nil {
				return err
			}

			writer, err := report.NewWriter(cmd.OutOrStdout(), outputPath)
			if err != nil {
				return err
			}
			defer writer.Close()
			if err := writer.Section(report.SectionMapping, report.Mapping(eng.receptors)); err != nil {
				return err
			}
			return writer.Close()
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Mirror the mapping section to this file")
	return cmd
}
