package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/folio/internal/config"
	"github.com/jackzampolin/folio/internal/home"
	"github.com/jackzampolin/folio/internal/output"
	"github.com/jackzampolin/folio/internal/svcctx"
	"github.com/jackzampolin/folio/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Article extraction for digitised magazine archives",
	Long: `Folio turns the PDFs of a magazine archive into clean article text.

For every issue it reads a manifest listing the articles and their printed
start pages, maps printed pages to PDF pages via the table of contents, and
extracts each article's body text from the multi-column layout:
  - Body text, intro and sub-headings are told apart by font and size
  - Columns are read in order and words broken at line ends are rejoined
  - The article ends at its end marker

Results are written as plain text files, one JSON document per issue and an
extraction_status.xlsx overview.`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.folio/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "folio home directory (default: ~/.folio)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "text", "output format: text, yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)",
	)

	rootCmd.PersistentPreRunE = setupServices

	rootCmd.AddCommand(versionCmd)
}

// setupServices loads configuration and builds the logger before any
// command runs.
func setupServices(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	output.SetFormat(format)

	h, err := home.New(homeDir)
	if err != nil {
		return err
	}

	file := cfgFile
	if file == "" && h.ConfigExists() {
		file = h.ConfigPath()
	}
	cm, err := config.NewManager(file)
	if err != nil {
		return err
	}

	// The level follows config reloads unless --log-level pins it.
	level := new(slog.LevelVar)
	if err := cm.TrackLevel(level, logLevel); err != nil {
		return err
	}
	// Logs go to stderr so structured output on stdout stays parseable.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if file := cm.ConfigFileUsed(); file != "" {
		logger.Debug("config loaded", "file", file)
	}

	cmd.SetContext(svcctx.WithServices(cmd.Context(), &svcctx.Services{
		Config: cm,
		Logger: logger,
		Home:   h,
	}))
	return nil
}

// services returns the services set up for the running command.
func services(cmd *cobra.Command) (*svcctx.Services, error) {
	s := svcctx.ServicesFrom(cmd.Context())
	if s == nil || s.Config == nil {
		return nil, fmt.Errorf("services not initialized")
	}
	return s, nil
}
