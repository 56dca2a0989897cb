package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "seismic_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for a pipeline run.
type Metrics struct {
	RowsRead           prometheus.Counter
	FieldParseFailures *prometheus.CounterVec // labels: field
	EventsLoaded       prometheus.Counter
	PipelineRunning    prometheus.Gauge

	// Snapshot metrics.
	SnapshotsProduced     prometheus.Counter
	SnapshotBuildDuration prometheus.Histogram
	SinkErrors            prometheus.Counter

	// Interaction metrics.
	DrillDownQueries *prometheus.CounterVec // labels: kind={month,year}

	gatherer prometheus.Gatherer
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Total raw rows read from the catalog source.",
		}),
		FieldParseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_parse_failures_total",
			Help:      "Fields that did not parse during normalization, by column.",
		}, []string{"field"}),
		EventsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_loaded_total",
			Help:      "Total events normalized into the catalog.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while a pipeline run is active, 0 otherwise.",
		}),
		SnapshotsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_produced_total",
			Help:      "Total dashboard snapshots written to the sink.",
		}),
		SnapshotBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_build_duration_seconds",
			Help:      "Time to compute all chart datasets for one selection.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		SinkErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_errors_total",
			Help:      "Failed snapshot writes, including retried attempts.",
		}),
		DrillDownQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drilldown_queries_total",
			Help:      "Hover drill-down queries by bucket kind.",
		}, []string{"kind"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RowsRead,
		m.FieldParseFailures,
		m.EventsLoaded,
		m.PipelineRunning,
		m.SnapshotsProduced,
		m.SnapshotBuildDuration,
		m.SinkErrors,
		m.DrillDownQueries,
	}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	m.gatherer = prometheus.DefaultGatherer
	return m
}

// NewMetricsForTesting creates Metrics on a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	m := newMetrics()
	reg := prometheus.NewRegistry()
	reg.MustRegister(m.collectors()...)
	m.gatherer = reg
	return m
}

// WriteTextfile writes the current metric values in the text exposition
// format, for pickup by a node_exporter textfile collector. The file is
// written atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
