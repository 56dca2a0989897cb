package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/seismic-catalog-etl/internal/dashboard"
	"github.com/couchcryptid/seismic-catalog-etl/internal/domain"
	"github.com/couchcryptid/seismic-catalog-etl/internal/observability"
	"github.com/couchcryptid/seismic-catalog-etl/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockExtractor struct {
	rows []domain.RawRow
	err  error
}

func (m *mockExtractor) ExtractRows(ctx context.Context) ([]domain.RawRow, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rows, ctx.Err()
}

func (m *mockExtractor) Source() string { return "mock.csv" }

type failingTransformer struct {
	err error
}

func (f *failingTransformer) Transform(context.Context, []domain.RawRow) ([]domain.SeismicEvent, error) {
	return nil, f.err
}

// mockLoader records every snapshot it accepts and rejects the first
// failures attempts.
type mockLoader struct {
	failures int
	attempts int
	loaded   []dashboard.Snapshot
}

func (m *mockLoader) LoadSnapshot(_ context.Context, snap dashboard.Snapshot) error {
	m.attempts++
	if m.attempts <= m.failures {
		return errors.New("broker unavailable")
	}
	m.loaded = append(m.loaded, snap)
	return nil
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

func newTestPipeline(ext pipeline.RowExtractor, tfm pipeline.Transformer, ldr pipeline.SnapshotLoader, metrics *observability.Metrics) *pipeline.Pipeline {
	if tfm == nil {
		tfm = pipeline.NewTransformer(slog.Default(), metrics)
	}
	b := dashboard.NewBuilder(dashboard.DefaultOptions(), domain.DefaultSchemes())
	return pipeline.New(ext, tfm, ldr, b, slog.Default(), metrics)
}

func testRows() []domain.RawRow {
	return []domain.RawRow{
		{"time": "2023-03-01T10:00:00.000Z", "mag": "5.4", "depth": "35", "latitude": "-33.4", "longitude": "-70.6", "place": "10 km N of Santiago, Chile"},
		{"time": "2023-03-20T02:00:00.000Z", "mag": "4.1", "depth": "10", "latitude": "35.6", "longitude": "139.7", "place": "Tokyo, Japan"},
		{"time": "2022-07-04T00:00:00.000Z", "mag": "6.8", "depth": "120", "latitude": "-6.1", "longitude": "130.2", "place": "Banda Sea"},
		{"time": "garbage", "mag": "n/a", "depth": "7"},
	}
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	ldr := &mockLoader{}
	metrics := newTestMetrics()
	p := newTestPipeline(&mockExtractor{rows: testRows()}, nil, ldr, metrics)

	selections := []dashboard.Selection{
		dashboard.DefaultSelection(),
		{Year: domain.Year(2023), Column: domain.ColumnDepth},
	}
	require.NoError(t, p.Run(context.Background(), selections))

	require.Len(t, ldr.loaded, 2)
	gotKeys := []string{ldr.loaded[0].Key(), ldr.loaded[1].Key()}
	if diff := cmp.Diff([]string{"all/mag", "2023/depth"}, gotKeys); diff != "" {
		t.Fatalf("snapshot keys mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "mock.csv", ldr.loaded[0].Source)
	assert.Equal(t, 4, ldr.loaded[0].Analysis.Events)
	assert.Equal(t, 2, ldr.loaded[1].Analysis.Events)
	assert.Equal(t, ldr.loaded[0].RunID, ldr.loaded[1].RunID, "one run id per run")

	assert.InDelta(t, 4, testutil.ToFloat64(metrics.RowsRead), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(metrics.EventsLoaded), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.SnapshotsProduced), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.FieldParseFailures.WithLabelValues("mag")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.PipelineRunning), 0)
}

func TestPipeline_Run_RetriesSinkFailures(t *testing.T) {
	ldr := &mockLoader{failures: 2}
	metrics := newTestMetrics()
	p := newTestPipeline(&mockExtractor{rows: testRows()}, nil, ldr, metrics)

	require.NoError(t, p.Run(context.Background(), []dashboard.Selection{dashboard.DefaultSelection()}))
	assert.Equal(t, 3, ldr.attempts)
	assert.Len(t, ldr.loaded, 1)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.SinkErrors), 0)
}

func TestPipeline_Run_GivesUpAfterMaxAttempts(t *testing.T) {
	ldr := &mockLoader{failures: 100}
	metrics := newTestMetrics()
	p := newTestPipeline(&mockExtractor{rows: testRows()}, nil, ldr, metrics)

	selections := []dashboard.Selection{
		dashboard.DefaultSelection(),
		{Year: domain.Year(2022), Column: domain.ColumnMag},
	}
	err := p.Run(context.Background(), selections)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all/mag")
	assert.Equal(t, 3, ldr.attempts, "second selection is never attempted")
	assert.Empty(t, ldr.loaded)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.SnapshotsProduced), 0)
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ldr := &mockLoader{}
	p := newTestPipeline(&mockExtractor{rows: testRows()}, nil, ldr, newTestMetrics())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Run(ctx, []dashboard.Selection{dashboard.DefaultSelection()})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ldr.loaded)
}

func TestPipeline_Run_CancelDuringBackoff(t *testing.T) {
	ldr := &mockLoader{failures: 100}
	p := newTestPipeline(&mockExtractor{rows: testRows()}, nil, ldr, newTestMetrics())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := p.Run(ctx, []dashboard.Selection{dashboard.DefaultSelection()})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, ldr.attempts)
	assert.Less(t, time.Since(start), time.Second)
}

func TestPipeline_Run_ExtractError(t *testing.T) {
	ldr := &mockLoader{}
	boom := errors.New("disk gone")
	p := newTestPipeline(&mockExtractor{err: boom}, nil, ldr, newTestMetrics())

	err := p.Run(context.Background(), []dashboard.Selection{dashboard.DefaultSelection()})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "extract rows")
	assert.Empty(t, ldr.loaded)
}

func TestPipeline_Run_TransformError(t *testing.T) {
	ldr := &mockLoader{}
	boom := errors.New("bad data")
	p := newTestPipeline(&mockExtractor{rows: testRows()}, &failingTransformer{err: boom}, ldr, newTestMetrics())

	err := p.Run(context.Background(), []dashboard.Selection{dashboard.DefaultSelection()})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "transform rows")
	assert.Empty(t, ldr.loaded)
}

func TestPipeline_Publish_AbsentYearStillLoads(t *testing.T) {
	ldr := &mockLoader{}
	metrics := newTestMetrics()
	p := newTestPipeline(&mockExtractor{rows: testRows()}, nil, ldr, metrics)

	catalog, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mock.csv", catalog.Source)

	sel := dashboard.Selection{Year: domain.Year(1999), Column: domain.ColumnMag}
	require.NoError(t, p.Publish(context.Background(), catalog, []dashboard.Selection{sel}))

	require.Len(t, ldr.loaded, 1)
	assert.Equal(t, "1999", ldr.loaded[0].Year)
	assert.Zero(t, ldr.loaded[0].Analysis.Events)
}

func TestPipeline_Publish_NoSelections(t *testing.T) {
	ldr := &mockLoader{}
	p := newTestPipeline(&mockExtractor{rows: testRows()}, nil, ldr, newTestMetrics())

	catalog, err := p.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), catalog, nil))
	assert.Zero(t, ldr.attempts)
}

func TestCatalogTransformer_CancelledContext(t *testing.T) {
	tfm := pipeline.NewTransformer(slog.Default(), newTestMetrics())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tfm.Transform(ctx, testRows())
	require.ErrorIs(t, err, context.Canceled)
}
