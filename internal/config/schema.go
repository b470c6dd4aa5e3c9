package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackzampolin/folio/internal/article"
	"github.com/jackzampolin/folio/internal/issue"
)

// Config holds folio configuration.
// Stored at: {home}/config.yaml or ./config.yaml
type Config struct {
	Extraction article.Config  `mapstructure:"extraction" yaml:"extraction" json:"extraction"`
	Batch      BatchConfig      `mapstructure:"batch" yaml:"batch" json:"batch"`
	Labels     issue.LabelTable `mapstructure:"labels" yaml:"labels" json:"labels"`
	LogLevel   string           `mapstructure:"log_level" yaml:"log_level" json:"log_level"` // debug, info, warn, error
}

// BatchConfig controls the batch runner.
type BatchConfig struct {
	Workers     int    `mapstructure:"workers" yaml:"workers" json:"workers"`                // article workers (0: one per CPU)
	OutputDir   string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`       // empty: {home}/output
	YearFolders bool   `mapstructure:"year_folders" yaml:"year_folders" json:"year_folders"` // also scan sub-folders of the root
	Reverse     bool   `mapstructure:"reverse" yaml:"reverse" json:"reverse"`                // newest issues first
	Ledger      bool   `mapstructure:"ledger" yaml:"ledger" json:"ledger"`
	LedgerPath  string `mapstructure:"ledger_path" yaml:"ledger_path" json:"ledger_path"` // empty: {home}/ledger.db

	// Opening a document is retried, e.g. for files still syncing from a
	// network share.
	OpenAttempts uint `mapstructure:"open_attempts" yaml:"open_attempts" json:"open_attempts"`
	OpenDelayMS  int  `mapstructure:"open_delay_ms" yaml:"open_delay_ms" json:"open_delay_ms"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Extraction: article.DefaultConfig(),
		Batch: BatchConfig{
			YearFolders:  true,
			Reverse:      true,
			Ledger:       true,
			OpenAttempts: 3,
			OpenDelayMS:  200,
		},
		Labels:   issue.DefaultLabelTable(),
		LogLevel: "info",
	}
}

// Validate checks the configuration for values the pipeline cannot use.
func (c *Config) Validate() error {
	if err := c.Extraction.Validate(); err != nil {
		return fmt.Errorf("extraction: %w", err)
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch: negative worker count %d", c.Batch.Workers)
	}
	if c.Batch.OpenDelayMS < 0 {
		return fmt.Errorf("batch: negative open delay %d", c.Batch.OpenDelayMS)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
