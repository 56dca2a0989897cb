package dashboard

import (
	"github.com/couchcryptid/seismic-catalog-etl/internal/aggregate"
	"github.com/couchcryptid/seismic-catalog-etl/internal/domain"
)

// Session holds one analyst's view of a loaded catalog. Each control change
// recomputes the filtered event set; the most recent call wins. A Session is
// not safe for concurrent use.
type Session struct {
	builder  *Builder
	catalog  domain.Catalog
	sel      Selection
	filtered []domain.SeismicEvent
}

// NewSession starts a session on catalog with the default selection.
func NewSession(b *Builder, catalog domain.Catalog) *Session {
	s := &Session{builder: b, catalog: catalog}
	s.apply(DefaultSelection())
	return s
}

func (s *Session) apply(sel Selection) {
	s.sel = sel
	s.filtered = domain.FilterByYear(s.catalog.Events, sel.Year)
}

// Selection returns the current control state.
func (s *Session) Selection() Selection { return s.sel }

// Events returns the year-filtered events.
func (s *Session) Events() []domain.SeismicEvent { return s.filtered }

// Reload replaces the catalog wholesale, keeping the current selection.
func (s *Session) Reload(catalog domain.Catalog) {
	s.catalog = catalog
	s.apply(s.sel)
}

// SelectYear applies the year selector text. On error the selection is unchanged.
func (s *Session) SelectYear(text string) error {
	y, err := domain.ParseYearSelector(text)
	if err != nil {
		return err
	}
	sel := s.sel
	sel.Year = y
	s.apply(sel)
	return nil
}

// SelectColumn applies the column selector text. On error the selection is unchanged.
func (s *Session) SelectColumn(text string) error {
	c, err := domain.ParseColumn(text)
	if err != nil {
		return err
	}
	s.sel.Column = c
	return nil
}

// Snapshot builds every page for the current selection.
func (s *Session) Snapshot() Snapshot {
	return s.builder.Snapshot(s.catalog, s.sel)
}

// HoverMonth returns the tooltip for a monthly bar of the filtered set.
func (s *Session) HoverMonth(month int) (aggregate.DrillDown, error) {
	return aggregate.MonthDrillDown(s.filtered, month)
}

// HoverYear returns the tooltip for a trend-line point. The trend line spans
// the whole catalog, so the year filter does not apply.
func (s *Session) HoverYear(year int) (aggregate.DrillDown, error) {
	return aggregate.YearDrillDown(s.catalog.Events, year)
}
