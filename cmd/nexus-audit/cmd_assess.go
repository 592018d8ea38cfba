package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/nexus-audit/internal/answers"
	"github.com/HendryAvila/nexus-audit/internal/archive"
	"github.com/HendryAvila/nexus-audit/internal/assessment"
	"github.com/HendryAvila/nexus-audit/internal/format"
)

// cliSessionID tags archive entries created from the command line.
const cliSessionID = "cli"

func newAssessCmd(a *app) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "assess <answers.yaml>",
		Short: "Run an audit from an answers file and print the report",
		Long: `Reads the answers of all three modules from a YAML file, runs the audit
and prints the Markdown report. Only the autonomy section is required.

Example answers file:

  system_name: Loan scorer
  autonomy:
    level: 2
    comprehension: 3
    capability: 3
    context: 4
    accountability: 2
  values:
    weights: {fairness: 25, transparency: 20, privacy: 15, autonomy: 15, security: 15, sustainability: 10}
  bias:
    detected: [sampling]
    checklist: [proxy_variables]`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := answers.Load(args[0])
			if err != nil {
				return err
			}
			sess := assessment.NewSession(cliSessionID)
			if err := f.Apply(sess); err != nil {
				return err
			}
			st := sess.Snapshot()

			doc, err := assessment.Render(st, time.Now())
			if err != nil {
				return err
			}
			agg, err := assessment.Aggregate(st)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, format.TierBadge(agg.Tier))
			fmt.Fprintln(out)
			fmt.Fprint(out, doc)

			if !save {
				return nil
			}
			store, err := archive.New(archive.Config{Path: a.cfg.ArchivePath()})
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rec, err := archive.NewRecord(cliSessionID, st, doc)
			if err != nil {
				return err
			}
			rec, err = store.Save(rec)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Archived as %s\n", rec.ID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "archive", false, "also save the report to the local archive")
	return cmd
}
