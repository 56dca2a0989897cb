package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/seismic-catalog-etl/internal/config"
	"github.com/couchcryptid/seismic-catalog-etl/internal/domain"
	"github.com/couchcryptid/seismic-catalog-etl/internal/observability"
	"github.com/spf13/cobra"
)

var (
	// Global flags (override environment when set)
	flagData      string
	flagYear      string
	flagColumn    string
	flagSchemes   string
	flagLogLevel  string
	flagLogFormat string

	// Loaded configuration and logger, set before any subcommand runs
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "seismic",
	Short:         "Prepare earthquake catalog dashboards",
	Long:          `seismic loads a USGS-style earthquake catalog CSV, normalizes it, and builds the statistics, classifications and drill-downs behind the catalog dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&flagData, "data", "", "catalog CSV path (env DATA_PATH)")
	f.StringVar(&flagYear, "year", "", `year filter: "all", a year, or a comma list (env YEAR)`)
	f.StringVar(&flagColumn, "column", "", "analyzed column, or a comma list (env COLUMN)")
	f.StringVar(&flagSchemes, "schemes", "", "YAML file overriding classification ranges (env SCHEMES_PATH)")
	f.StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error (env LOG_LEVEL)")
	f.StringVar(&flagLogFormat, "log-format", "", "json or text (env LOG_FORMAT)")

	rootCmd.AddCommand(exportCmd, drilldownCmd, validateCmd, genmockCmd)
}

func loadConfig(cmd *cobra.Command) error {
	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	f := cmd.Flags()
	if f.Changed("data") {
		c.DataPath = flagData
	}
	if f.Changed("year") {
		c.Year = flagYear
	}
	if f.Changed("column") {
		c.Column = flagColumn
	}
	if f.Changed("schemes") {
		c.SchemesPath = flagSchemes
	}
	if f.Changed("log-level") {
		c.LogLevel = flagLogLevel
	}
	if f.Changed("log-format") {
		c.LogFormat = flagLogFormat
	}
	if err := applyCommandOverrides(cmd, c); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}

	cfg = c
	logger = observability.NewLogger(cfg)
	return nil
}

// loadSchemes returns the built-in classification tables, or the ones in
// path when it is set.
func loadSchemes(path string) (domain.Schemes, error) {
	if path == "" {
		return domain.DefaultSchemes(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Schemes{}, fmt.Errorf("read schemes: %w", err)
	}
	schemes, err := domain.LoadSchemes(data)
	if err != nil {
		return domain.Schemes{}, fmt.Errorf("%s: %w", path, err)
	}
	return schemes, nil
}

// writeMetrics dumps the run's metrics when a textfile path is configured.
func writeMetrics(metrics *observability.Metrics) {
	if cfg.MetricsTextfile == "" {
		return
	}
	if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
		logger.Error("write metrics textfile", "error", err, "path", cfg.MetricsTextfile)
		return
	}
	logger.Debug("metrics written", "path", cfg.MetricsTextfile)
}
