package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/folio/internal/batch"
	"github.com/jackzampolin/folio/internal/ledger"
	"github.com/jackzampolin/folio/internal/output"
)

var (
	runWorkers     int
	runOutputDir   string
	runNoLedger    bool
	runOldestFirst bool
	runFlat        bool
)

var runCmd = &cobra.Command{
	Use:   "run <root>",
	Short: "Extract every issue in an archive folder",
	Long: `Extract every issue in an archive folder.

PDFs directly in the root and in its sub-folders (one per year) are
processed newest first. Each PDF needs a manifest next to it; PDFs without
one are skipped. Per issue the articles are written to
<output>/<NNN>_articles_txt/ together with <NNN>_magazine.json, and a
status overview of all articles goes to <output>/extraction_status.xlsx.

Runs, warnings and per-article outcomes are recorded in the ledger
(~/.folio/ledger.db) unless --no-ledger is given.

Examples:
  folio run /archive/bms
  folio run /archive/bms --workers 4 --out-dir ./out
  folio run /archive/bms -o json     # print the run report as JSON`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := services(cmd)
		if err != nil {
			return err
		}
		cfg := svc.Config.Get()
		logger := svc.Logger

		if err := svc.Home.EnsureExists(); err != nil {
			return err
		}
		// Long runs pick up log level changes from the config file.
		if svc.Config.ConfigFileUsed() != "" {
			svc.Config.WatchConfig(logger)
		}

		opts := batch.Options{
			Root:         args[0],
			OutputDir:    svc.Home.ResolveOutput(cfg.Batch.OutputDir),
			Workers:      cfg.Batch.Workers,
			YearFolders:  cfg.Batch.YearFolders && !runFlat,
			Reverse:      cfg.Batch.Reverse && !runOldestFirst,
			OpenAttempts: cfg.Batch.OpenAttempts,
			OpenDelay:    time.Duration(cfg.Batch.OpenDelayMS) * time.Millisecond,
			Extraction:   cfg.Extraction,
			Labels:       cfg.Labels,
		}
		if runOutputDir != "" {
			opts.OutputDir = runOutputDir
		}
		if cmd.Flags().Changed("workers") {
			opts.Workers = runWorkers
		}

		var runnerOpts []batch.Option
		if cfg.Batch.Ledger && !runNoLedger {
			store, err := ledger.Open(ctx, svc.Home.ResolveLedger(cfg.Batch.LedgerPath), logger)
			if err != nil {
				return err
			}
			defer store.Close()
			runnerOpts = append(runnerOpts, batch.WithLedger(store))
		}

		runner, err := batch.NewRunner(opts, logger, runnerOpts...)
		if err != nil {
			return err
		}
		report, runErr := runner.Run(ctx)
		if report == nil {
			return runErr
		}

		if output.IsStructured() {
			if err := output.Print(report); err != nil {
				return err
			}
			return runErr
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Issues:    %d\n", len(report.Issues))
		fmt.Fprintf(w, "Articles:  %d (%d failed)\n", report.Articles, report.Failed)
		fmt.Fprintf(w, "Low hyphenation: %d\n", report.LowHyphenation())
		for _, ir := range report.Issues {
			for _, hit := range ir.LowHyphenation {
				fmt.Fprintf(w, "  %s article %02d: %s (%.2f per 1000)\n", ir.Issue, hit.Position, hit.Title, hit.HyphensPer1000)
			}
		}
		if report.StatusFile != "" {
			fmt.Fprintf(w, "Status:    %s\n", report.StatusFile)
		}
		if report.RunID != "" {
			fmt.Fprintf(w, "Run:       %s\n", report.RunID)
		}
		return runErr
	},
}

func init() {
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "articles extracted in parallel (default: config, 0 = one per CPU)")
	runCmd.Flags().StringVar(&runOutputDir, "out-dir", "", "output directory (default: config or ~/.folio/output)")
	runCmd.Flags().BoolVar(&runNoLedger, "no-ledger", false, "do not record the run in the ledger")
	runCmd.Flags().BoolVar(&runOldestFirst, "oldest-first", false, "process issues in ascending order")
	runCmd.Flags().BoolVar(&runFlat, "flat", false, "ignore sub-folders of the root")

	rootCmd.AddCommand(runCmd)
}
