package main

import (
	"context"
	"fmt"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/couchcryptid/seismic-catalog-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/seismic-catalog-etl/internal/adapter/jsonfile"
	kafkaadapter "github.com/couchcryptid/seismic-catalog-etl/internal/adapter/kafka"
	"github.com/couchcryptid/seismic-catalog-etl/internal/config"
	"github.com/couchcryptid/seismic-catalog-etl/internal/dashboard"
	"github.com/couchcryptid/seismic-catalog-etl/internal/observability"
	"github.com/couchcryptid/seismic-catalog-etl/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	exOutput        string
	exKafka         bool
	exHistogramBins int
	exHeatmapBins   int
	exTopN          int
	exMetrics       string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Build dashboard snapshots and write them to a file, stdout or Kafka",
	Long: `export loads the catalog once and publishes one snapshot per
(year, column) selection. Snapshots go to Kafka when enabled, to one JSON
file per selection when --output is set, and to stdout otherwise.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVarP(&exOutput, "output", "o", "", "base path for snapshot files (env OUTPUT_PATH)")
	f.BoolVar(&exKafka, "kafka", false, "publish to Kafka instead of files (env KAFKA_ENABLED)")
	f.IntVar(&exHistogramBins, "bins", 0, "histogram bins (env HISTOGRAM_BINS)")
	f.IntVar(&exHeatmapBins, "heatmap-bins", 0, "heatmap bins per axis (env HEATMAP_BINS)")
	f.IntVar(&exTopN, "top", 0, "ranking length (env TOP_N)")
	f.StringVar(&exMetrics, "metrics-file", "", "write Prometheus metrics here after the run (env METRICS_TEXTFILE)")
}

// applyCommandOverrides copies subcommand-local flags onto c.
func applyCommandOverrides(cmd *cobra.Command, c *config.Config) error {
	f := cmd.Flags()
	changed := func(name string) bool {
		return f.Lookup(name) != nil && f.Changed(name)
	}
	if changed("output") {
		c.OutputPath = exOutput
	}
	if changed("kafka") {
		c.KafkaEnabled = exKafka
	}
	if changed("bins") {
		c.HistogramBins = exHistogramBins
	}
	if changed("heatmap-bins") {
		c.HeatmapBins = exHeatmapBins
	}
	if changed("top") {
		c.TopN = exTopN
	}
	if changed("metrics-file") {
		c.MetricsTextfile = exMetrics
	}
	return nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	schemes, err := loadSchemes(cfg.SchemesPath)
	if err != nil {
		return err
	}
	selections, err := parseSelections(cfg.Year, cfg.Column)
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics()
	defer writeMetrics(metrics)

	builder := dashboard.NewBuilder(dashboard.Options{
		HistogramBins: cfg.HistogramBins,
		HeatmapBins:   cfg.HeatmapBins,
		TopN:          cfg.TopN,
	}, schemes)

	reader := csvfile.NewReader(cfg.DataPath, logger)
	transformer := pipeline.NewTransformer(logger, metrics)

	var loader pipeline.SnapshotLoader
	var closeSink func() error
	switch {
	case cfg.KafkaEnabled:
		w := kafkaadapter.NewWriter(cfg, logger)
		loader, closeSink = w, w.Close
		logger.Info("publishing to kafka", "topic", cfg.KafkaSinkTopic, "brokers", cfg.KafkaBrokers)
	case cfg.OutputPath != "":
		loader = jsonfile.NewFileWriter(cfg.OutputPath, logger)
		logger.Info("writing snapshot files", "base", cfg.OutputPath)
	default:
		loader = jsonfile.NewStreamWriter(cmd.OutOrStdout(), logger)
	}

	p := pipeline.New(reader, transformer, loader, builder, logger, metrics)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := p.Run(ctx, selections)

	if closeSink != nil {
		if err := closeWithTimeout(closeSink, cfg.ShutdownTimeout); err != nil {
			logger.Error("sink close error", "error", err)
		}
	}
	return runErr
}

// parseSelections expands comma lists of years and columns into every
// (year, column) pair, years outermost. Duplicates are dropped.
func parseSelections(years, columns string) ([]dashboard.Selection, error) {
	var out []dashboard.Selection
	for _, y := range splitList(years) {
		for _, c := range splitList(columns) {
			sel, err := dashboard.ParseSelection(y, c)
			if err != nil {
				return nil, err
			}
			if !slices.Contains(out, sel) {
				out = append(out, sel)
			}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no selections in year %q and column %q", years, columns)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// closeWithTimeout runs closeFn and gives up waiting after d. kafka-go's
// writer flushes pending batches in Close and takes no context.
func closeWithTimeout(closeFn func() error, d time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- closeFn() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("close sink: %w", ctx.Err())
	}
}
