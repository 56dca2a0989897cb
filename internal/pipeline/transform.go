package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/seismic-catalog-etl/internal/domain"
	"github.com/couchcryptid/seismic-catalog-etl/internal/observability"
)

// CatalogTransformer implements Transformer using the domain normalizer and
// meters every field that fails to parse.
type CatalogTransformer struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates a CatalogTransformer.
func NewTransformer(logger *slog.Logger, metrics *observability.Metrics) *CatalogTransformer {
	return &CatalogTransformer{logger: logger, metrics: metrics}
}

// Transform normalizes rows. Parse failures never drop a row; they are
// counted per column and summarized in one log line.
func (t *CatalogTransformer) Transform(ctx context.Context, rows []domain.RawRow) ([]domain.SeismicEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	events := domain.NormalizeRows(rows)

	failures := make(map[domain.Column]int)
	for i := range events {
		for _, c := range events[i].UndefinedFields() {
			failures[c]++
		}
	}
	for c, n := range failures {
		t.metrics.FieldParseFailures.WithLabelValues(string(c)).Add(float64(n))
	}
	if len(failures) > 0 {
		attrs := make([]any, 0, 2*len(failures)+2)
		attrs = append(attrs, "rows", len(rows))
		for _, c := range append(domain.NumericColumns(), domain.ColumnTime) {
			if n := failures[c]; n > 0 {
				attrs = append(attrs, string(c), n)
			}
		}
		t.logger.Warn("fields left undefined during normalization", attrs...)
	}

	return events, nil
}
