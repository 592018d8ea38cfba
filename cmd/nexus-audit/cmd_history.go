package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/nexus-audit/internal/archive"
	"github.com/HendryAvila/nexus-audit/internal/format"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "List archived audits, or print one archived report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := archive.New(archive.Config{Path: a.cfg.ArchivePath()})
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				rec, err := store.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprint(out, rec.Report)
				return nil
			}

			stats, err := store.Stats()
			if err != nil {
				return err
			}
			records, err := store.Recent(limit)
			if err != nil {
				return err
			}
			fmt.Fprint(out, archive.RenderStats(stats, format.ASCII))
			fmt.Fprintln(out)
			fmt.Fprint(out, archive.RenderRecent(records, time.Now(), format.ASCII))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of recent audits to list")
	return cmd
}
