package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/nexus-audit/internal/dataset"
	"github.com/HendryAvila/nexus-audit/internal/format"
	"github.com/HendryAvila/nexus-audit/internal/tools"
)

func newDatasetCmd(a *app) *cobra.Command {
	var column string
	var markdown bool
	cmd := &cobra.Command{
		Use:   "dataset <file.csv>",
		Short: "Profile a CSV dataset for bias review",
		Long: `Prints descriptive statistics for every column of a CSV file with a
header row and, with --column, the distribution of one column.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			mode := format.ASCII
			if markdown {
				mode = format.Markdown
			}
			limits := dataset.Limits{MaxBytes: a.cfg.Dataset.MaxBytes, MaxRows: a.cfg.Dataset.MaxRows}
			out, err := tools.Profile(cmd.Context(), f, limits, column, mode)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&column, "column", "c", "", "show the distribution of this column")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "render tables as Markdown")
	return cmd
}
