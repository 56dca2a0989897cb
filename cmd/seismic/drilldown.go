package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/couchcryptid/seismic-catalog-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/seismic-catalog-etl/internal/aggregate"
	"github.com/couchcryptid/seismic-catalog-etl/internal/dashboard"
	"github.com/couchcryptid/seismic-catalog-etl/internal/observability"
	"github.com/couchcryptid/seismic-catalog-etl/internal/pipeline"
	"github.com/spf13/cobra"
)

var drilldownCmd = &cobra.Command{
	Use:   "drilldown <month|year> <value>",
	Short: "Print the tooltip for a hovered monthly bar or trend point",
	Long: `drilldown answers the dashboard's hover queries from the command line.

  month N   events in month N (1-12) of the --year selection, busiest day
  year Y    events in year Y across the whole catalog, busiest month`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"month", "year"},
	RunE:      runDrillDown,
}

func runDrillDown(cmd *cobra.Command, args []string) error {
	kind := args[0]
	if kind != "month" && kind != "year" {
		return fmt.Errorf("unknown drill-down %q: want month or year", kind)
	}
	key, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", kind, args[1], aggregate.ErrInvalidBucket)
	}

	schemes, err := loadSchemes(cfg.SchemesPath)
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
	p := pipeline.New(
		csvfile.NewReader(cfg.DataPath, logger),
		pipeline.NewTransformer(logger, metrics),
		nil,
		builder,
		logger,
		metrics,
	)
	catalog, err := p.Load(cmd.Context())
	if err != nil {
		return err
	}

	session := dashboard.NewSession(builder, catalog)
	if err := session.SelectYear(cfg.Year); err != nil {
		return err
	}

	var d aggregate.DrillDown
	if kind == "month" {
		d, err = session.HoverMonth(key)
	} else {
		d, err = session.HoverYear(key)
	}
	if err != nil {
		return err
	}
	metrics.DrillDownQueries.WithLabelValues(kind).Inc()

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
