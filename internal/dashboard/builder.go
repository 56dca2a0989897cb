// Package dashboard composes the aggregation engines into the datasets each
// dashboard page renders, and tracks the analyst's current selection.
package dashboard

import (
	"math"
	"slices"

	"github.com/couchcryptid/seismic-catalog-etl/internal/aggregate"
	"github.com/couchcryptid/seismic-catalog-etl/internal/domain"
	"github.com/google/uuid"
)

// Options tunes chart resolution.
type Options struct {
	HistogramBins int
	HeatmapBins   int
	TopN          int
}

// DefaultOptions returns 20 histogram bins, a 10x10 heatmap and top-10 rankings.
func DefaultOptions() Options {
	return Options{HistogramBins: 20, HeatmapBins: 10, TopN: 10}
}

// Builder computes dashboard views. All snapshots from one Builder share a
// run ID.
type Builder struct {
	opts    Options
	schemes domain.Schemes
	runID   string
}

// NewBuilder creates a Builder. Zero option fields fall back to their defaults.
func NewBuilder(opts Options, schemes domain.Schemes) *Builder {
	def := DefaultOptions()
	if opts.HistogramBins <= 0 {
		opts.HistogramBins = def.HistogramBins
	}
	if opts.HeatmapBins <= 0 {
		opts.HeatmapBins = def.HeatmapBins
	}
	if opts.TopN <= 0 {
		opts.TopN = def.TopN
	}
	return &Builder{opts: opts, schemes: schemes, runID: uuid.NewString()}
}

// RunID identifies the snapshots produced by this Builder.
func (b *Builder) RunID() string { return b.runID }

// Options returns the effective options.
func (b *Builder) Options() Options { return b.opts }

// Overview builds the general-analysis page for the selected year.
func (b *Builder) Overview(catalog domain.Catalog, sel domain.YearSelector) Overview {
	all := catalog.Events
	events := domain.FilterByYear(all, sel)

	years := domain.DistinctYears(all)
	info := DatasetInfo{
		Source:   catalog.Source,
		LoadedAt: catalog.LoadedAt,
		Records:  len(all),
		Years:    years,
	}
	if len(years) > 0 {
		info.FirstYear = years[0]
		info.LastYear = years[len(years)-1]
	}

	trend := aggregate.YearlyCounts(all)
	trendDrill := make([]aggregate.DrillDown, 0, len(trend))
	for _, kc := range trend {
		// Keys come from parsed times, so the year is always defined.
		d, _ := aggregate.YearDrillDown(all, kc.Key)
		trendDrill = append(trendDrill, d)
	}

	monthly := aggregate.MonthlyCounts(events)
	monthDrill := make([]aggregate.DrillDown, 0, len(monthly))
	for _, kc := range monthly {
		d, _ := aggregate.MonthDrillDown(events, kc.Key)
		monthDrill = append(monthDrill, d)
	}

	return Overview{
		Dataset:          info,
		Trend:            trend,
		TrendDrillDowns:  trendDrill,
		Magnitude:        aggregate.Summarize(domain.ColumnMag.Values(events)),
		Map:              b.mapPoints(events),
		MapLegend:        domain.Classify(events, b.schemes.MapColor, domain.ColumnMag.Accessor()),
		Monthly:          monthly,
		MonthDrillDowns:  monthDrill,
		MagnitudeClasses: domain.NonEmpty(domain.Classify(events, b.schemes.Magnitude, domain.ColumnMag.Accessor())),
	}
}

func (b *Builder) mapPoints(events []domain.SeismicEvent) []MapPoint {
	out := make([]MapPoint, 0, len(events))
	for i := range events {
		e := &events[i]
		if !e.HasCoordinates() {
			continue
		}
		out = append(out, MapPoint{
			ID:        e.ID,
			Latitude:  e.Latitude,
			Longitude: e.Longitude,
			Mag:       Float(e.Mag),
			Depth:     Float(e.Depth),
			Place:     e.Place,
			Class:     b.schemes.MapColor.ClassOf(e.Mag),
		})
	}
	return out
}

// ColumnAnalysis builds the per-column page over events.
func (b *Builder) ColumnAnalysis(events []domain.SeismicEvent, column domain.Column) ColumnAnalysis {
	ca := ColumnAnalysis{Column: column, Events: len(events)}

	if column.Numeric() {
		values := column.Values(events)
		summary := aggregate.Summarize(values)
		box := summary.Boxplot()
		ca.Summary = &summary
		ca.Boxplot = &box
		ca.Histogram = aggregate.Histogram(values, b.opts.HistogramBins)
	}

	switch column {
	case domain.ColumnMag:
		ca.Classes = domain.NonEmpty(domain.Classify(events, b.schemes.Magnitude, column.Accessor()))
	case domain.ColumnDepth:
		ca.Classes = domain.NonEmpty(domain.Classify(events, b.schemes.Depth, column.Accessor()))
	case domain.ColumnLatitude, domain.ColumnLongitude:
		ca.Geo = geoPoints(events)
		if lo, hi, ok := aggregate.Extent(domain.ColumnDepth.Values(events)); ok {
			ca.DepthExtent = &Range{Min: lo, Max: hi}
		}
	case domain.ColumnTime:
		ca.Monthly = aggregate.MonthlyCounts(events)
	case domain.ColumnPlace:
		ca.Ranking = aggregate.TopN(aggregate.CountryCounts(events), b.opts.TopN)
	case domain.ColumnNet:
		ca.Ranking = aggregate.TopN(aggregate.NetworkCounts(events), b.opts.TopN)
	}
	return ca
}

func geoPoints(events []domain.SeismicEvent) []GeoPoint {
	out := make([]GeoPoint, 0, len(events))
	for i := range events {
		if !events[i].HasCoordinates() {
			continue
		}
		out = append(out, GeoPoint{
			Longitude: events[i].Longitude,
			Latitude:  events[i].Latitude,
			Depth:     Float(events[i].Depth),
		})
	}
	return out
}

// Relations builds the relationships page over events.
func (b *Builder) Relations(events []domain.SeismicEvent) Relations {
	depths := domain.ColumnDepth.Values(events)
	mags := domain.ColumnMag.Values(events)

	scatter := make([]Point, 0, len(events))
	for i := range events {
		if math.IsNaN(depths[i]) || math.IsNaN(mags[i]) {
			continue
		}
		scatter = append(scatter, Point{X: depths[i], Y: mags[i]})
	}

	series := make([]TimePoint, 0, len(events))
	for i := range events {
		if !events[i].HasTime() || math.IsNaN(mags[i]) {
			continue
		}
		series = append(series, TimePoint{Time: events[i].Time, Value: mags[i]})
	}
	slices.SortStableFunc(series, func(a, b TimePoint) int {
		return a.Time.Compare(b.Time)
	})

	heatmap := aggregate.Heatmap(depths, mags, b.opts.HeatmapBins)
	return Relations{
		DepthVsMagnitude: scatter,
		Heatmap:          heatmap,
		HeatmapCells:     heatmap.NonEmptyCells(),
		MagnitudeSeries:  series,
	}
}
