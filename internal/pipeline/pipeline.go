package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/couchcryptid/seismic-catalog-etl/internal/dashboard"
	"github.com/couchcryptid/seismic-catalog-etl/internal/domain"
	"github.com/couchcryptid/seismic-catalog-etl/internal/observability"
)

// RowExtractor reads the raw catalog table from its source.
type RowExtractor interface {
	ExtractRows(ctx context.Context) ([]domain.RawRow, error)
	Source() string
}

// Transformer normalizes raw rows into events.
type Transformer interface {
	Transform(ctx context.Context, rows []domain.RawRow) ([]domain.SeismicEvent, error)
}

// SnapshotLoader writes one dashboard snapshot to the destination.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context, snap dashboard.Snapshot) error
}

const (
	initialBackoff  = 200 * time.Millisecond
	maxBackoff      = 5 * time.Second
	maxLoadAttempts = 3
)

// Pipeline orchestrates extract, normalize, build and load for one run.
type Pipeline struct {
	extractor   RowExtractor
	transformer Transformer
	loader      SnapshotLoader
	builder     *dashboard.Builder
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// New creates a Pipeline with the given stages and observability.
func New(e RowExtractor, t Transformer, l SnapshotLoader, b *dashboard.Builder, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		builder:     b,
		logger:      logger,
		metrics:     metrics,
	}
}

// Load extracts and normalizes the catalog once.
func (p *Pipeline) Load(ctx context.Context) (domain.Catalog, error) {
	rows, err := p.extractor.ExtractRows(ctx)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("extract rows: %w", err)
	}
	p.metrics.RowsRead.Add(float64(len(rows)))

	events, err := p.transformer.Transform(ctx, rows)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("transform rows: %w", err)
	}
	p.metrics.EventsLoaded.Add(float64(len(events)))

	catalog := domain.NewCatalog(p.extractor.Source(), events)
	p.logger.Info("catalog loaded", "source", catalog.Source, "events", catalog.Len())
	return catalog, nil
}

// Run loads the catalog and publishes one snapshot per selection, in order.
// It stops at the first snapshot the sink still rejects after retries, or
// when ctx is cancelled.
func (p *Pipeline) Run(ctx context.Context, selections []dashboard.Selection) error {
	p.logger.Info("pipeline started", "selections", len(selections), "run_id", p.builder.RunID())
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	catalog, err := p.Load(ctx)
	if err != nil {
		return err
	}
	if err := p.Publish(ctx, catalog, selections); err != nil {
		return err
	}

	p.logger.Info("pipeline finished", "snapshots", len(selections))
	return nil
}

// Publish builds and loads a snapshot for each selection over catalog.
func (p *Pipeline) Publish(ctx context.Context, catalog domain.Catalog, selections []dashboard.Selection) error {
	years := domain.DistinctYears(catalog.Events)

	for _, sel := range selections {
		if err := ctx.Err(); err != nil {
			p.logger.Info("pipeline stopping", "reason", err)
			return err
		}

		if !sel.Year.IsAll() && !slices.Contains(years, sel.Year.Value()) {
			p.logger.Warn("selected year not present in catalog", "year", sel.Year.String())
		}

		start := time.Now()
		snap := p.builder.Snapshot(catalog, sel)
		p.metrics.SnapshotBuildDuration.Observe(time.Since(start).Seconds())

		if err := p.loadWithRetry(ctx, snap); err != nil {
			return fmt.Errorf("load snapshot %s: %w", sel.Key(), err)
		}
		p.metrics.SnapshotsProduced.Inc()
		p.logger.Debug("snapshot loaded", "key", snap.Key(), "events", snap.Analysis.Events)
	}
	return nil
}

// loadWithRetry writes snap, retrying transport failures with exponential
// backoff: start at 200ms, double each retry, cap at 5s.
func (p *Pipeline) loadWithRetry(ctx context.Context, snap dashboard.Snapshot) error {
	backoff := initialBackoff
	var err error
	for attempt := 1; attempt <= maxLoadAttempts; attempt++ {
		err = p.loader.LoadSnapshot(ctx, snap)
		if err == nil {
			return nil
		}
		p.metrics.SinkErrors.Inc()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.logger.Error("load snapshot failed", "error", err, "key", snap.Key(), "attempt", attempt)
		if attempt == maxLoadAttempts {
			break
		}
		if !sleepWithContext(ctx, backoff) {
			return ctx.Err()
		}
		backoff = nextBackoff(backoff, maxBackoff)
	}
	return err
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
