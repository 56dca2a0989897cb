// Package csvfile reads the static catalog table from a CSV file.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/seismic-catalog-etl/internal/domain"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Reader loads catalog rows from a CSV file with a header row.
// It implements pipeline.RowExtractor.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a Reader for path.
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// Source returns the file path.
func (r *Reader) Source() string { return r.path }

// ExtractRows reads the whole file.
func (r *Reader) ExtractRows(ctx context.Context) ([]domain.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	r.logger.Debug("catalog file read", "path", r.path, "rows", len(rows))
	return rows, nil
}

// ReadRows parses CSV text into raw rows keyed by lower-cased header name.
// Every cell is kept as text; typing is the normalizer's job. Rows shorter
// than the header are padded with empty cells and longer ones truncated. A
// file with no data rows yields no rows and no error.
func ReadRows(rd io.Reader) ([]domain.RawRow, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) < 2 {
		return []domain.RawRow{}, nil
	}
	width := len(records[0])
	for i, rec := range records[1:] {
		records[i+1] = fitWidth(rec, width)
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("parse csv: %w", df.Err)
	}

	records = df.Records()
	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(name))
	}

	rows := make([]domain.RawRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(domain.RawRow, len(header))
		for i, cell := range rec {
			row[header[i]] = cell
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func fitWidth(rec []string, width int) []string {
	if len(rec) >= width {
		return rec[:width]
	}
	return append(rec, make([]string, width-len(rec))...)
}
