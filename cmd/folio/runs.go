package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/folio/internal/article"
	"github.com/jackzampolin/folio/internal/ledger"
	"github.com/jackzampolin/folio/internal/output"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded batch runs",
	Long: `Inspect batch runs recorded in the ledger.

Examples:
  folio runs                 # most recent runs
  folio runs show <run-id>   # warnings and article outcomes of one run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLedger(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.Runs(cmd.Context(), runsLimit)
		if err != nil {
			return err
		}
		if output.IsStructured() {
			return output.Print(runs)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSTARTED\tISSUES\tARTICLES\tFAILED\tLOW HYPHENATION")
		for _, r := range runs {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\n", r.ID, r.StartedAt, r.Issues, r.Articles, r.Failed, r.LowHyphenation)
		}
		return tw.Flush()
	},
}

// runDetail is the structured output of runs show.
type runDetail struct {
	Events   []article.Event  `json:"events" yaml:"events"`
	Outcomes []ledger.Outcome `json:"outcomes" yaml:"outcomes"`
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the warnings and article outcomes of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openLedger(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		events, err := store.Events(ctx, args[0])
		if err != nil {
			return err
		}
		outcomes, err := store.Outcomes(ctx, args[0])
		if err != nil {
			return err
		}
		if output.IsStructured() {
			return output.Print(runDetail{Events: events, Outcomes: outcomes})
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Warnings (%d):\n", len(events))
		for _, e := range events {
			fmt.Fprintf(w, "  %s\n", e.Message())
		}
		fmt.Fprintf(w, "Articles (%d):\n", len(outcomes))
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, o := range outcomes {
			fmt.Fprintf(tw, "  %s\t%02d\t%s\t%s\t%s\n", o.Issue, o.Position, o.Status, o.Article, o.Error)
		}
		return tw.Flush()
	},
}

func openLedger(cmd *cobra.Command) (*ledger.Store, error) {
	svc, err := services(cmd)
	if err != nil {
		return nil, err
	}
	path := svc.Home.ResolveLedger(svc.Config.Get().Batch.LedgerPath)
	return ledger.Open(cmd.Context(), path, svc.Logger)
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "number of runs to list")
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
