package dashboard

import (
	"fmt"
	"time"

	"github.com/couchcryptid/seismic-catalog-etl/internal/domain"
)

// Selection is the analyst's control state: a year filter and a column.
type Selection struct {
	Year   domain.YearSelector
	Column domain.Column
}

// DefaultSelection is every year, magnitude column.
func DefaultSelection() Selection {
	return Selection{Year: domain.AllYears, Column: domain.ColumnMag}
}

// ParseSelection parses UI text for both controls.
func ParseSelection(year, column string) (Selection, error) {
	y, err := domain.ParseYearSelector(year)
	if err != nil {
		return Selection{}, err
	}
	c, err := domain.ParseColumn(column)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Year: y, Column: c}, nil
}

// Key identifies the selection as "year/column", e.g. "2023/mag".
func (s Selection) Key() string {
	return fmt.Sprintf("%s/%s", s.Year, s.Column)
}

// Snapshot is the full rendering handoff for one selection.
type Snapshot struct {
	RunID    string    `json:"run_id"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
	Year     string    `json:"year"`
	Column   string    `json:"column"`

	Overview  Overview       `json:"overview"`
	Analysis  ColumnAnalysis `json:"column_analysis"`
	Relations Relations      `json:"relations"`
}

// Key returns the selection key the snapshot was built for.
func (s Snapshot) Key() string {
	return s.Year + "/" + s.Column
}

// Snapshot builds every page for sel. The column and relations pages use the
// year-filtered events.
func (b *Builder) Snapshot(catalog domain.Catalog, sel Selection) Snapshot {
	events := domain.FilterByYear(catalog.Events, sel.Year)
	return Snapshot{
		RunID:     b.runID,
		Source:    catalog.Source,
		LoadedAt:  catalog.LoadedAt,
		Year:      sel.Year.String(),
		Column:    string(sel.Column),
		Overview:  b.Overview(catalog, sel.Year),
		Analysis:  b.ColumnAnalysis(events, sel.Column),
		Relations: b.Relations(events),
	}
}
