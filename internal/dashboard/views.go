package dashboard

import (
	"encoding/json"
	"math"
	"time"

	"github.com/couchcryptid/seismic-catalog-etl/internal/aggregate"
	"github.com/couchcryptid/seismic-catalog-etl/internal/domain"
)

// Float is a chart value that may be undefined. NaN encodes as null.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// Point is one mark of a scatter plot.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TimePoint is one vertex of a time-series line.
type TimePoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// MapPoint is one event plotted on the world map.
type MapPoint struct {
	ID        string  `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Mag       Float   `json:"mag"`
	Depth     Float   `json:"depth"`
	Place     string  `json:"place"`
	Class     string  `json:"class,omitempty"`
}

// GeoPoint is a lon/lat scatter mark coloured by depth.
type GeoPoint struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Depth     Float   `json:"depth"`
}

// Range is a closed value extent used for colour scales.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DatasetInfo describes the loaded catalog as a whole.
type DatasetInfo struct {
	Source    string    `json:"source"`
	LoadedAt  time.Time `json:"loaded_at"`
	Records   int       `json:"records"`
	FirstYear int       `json:"first_year,omitempty"`
	LastYear  int       `json:"last_year,omitempty"`
	Years     []int     `json:"years"`
}

// Overview feeds the general-analysis page: the trend line covers the whole
// catalog, everything else the selected year.
type Overview struct {
	Dataset          DatasetInfo               `json:"dataset"`
	Trend            []aggregate.KeyCount[int] `json:"trend"`
	TrendDrillDowns  []aggregate.DrillDown     `json:"trend_drilldowns"`
	Magnitude        aggregate.Summary         `json:"magnitude"`
	Map              []MapPoint                `json:"map"`
	MapLegend        []domain.Bucket           `json:"map_legend"`
	Monthly          []aggregate.KeyCount[int] `json:"monthly"`
	MonthDrillDowns  []aggregate.DrillDown     `json:"month_drilldowns"`
	MagnitudeClasses []domain.Bucket           `json:"magnitude_classes"`
}

// ColumnAnalysis feeds the per-column page. Which fields are set depends on
// the column kind.
type ColumnAnalysis struct {
	Column    domain.Column      `json:"column"`
	Events    int                `json:"events"`
	Summary   *aggregate.Summary `json:"summary,omitempty"`
	Histogram []aggregate.Bin    `json:"histogram,omitempty"`
	Boxplot   *aggregate.Boxplot `json:"boxplot,omitempty"`

	// mag and depth
	Classes []domain.Bucket `json:"classes,omitempty"`

	// latitude and longitude
	Geo         []GeoPoint `json:"geo,omitempty"`
	DepthExtent *Range     `json:"depth_extent,omitempty"`

	// time
	Monthly []aggregate.KeyCount[int] `json:"monthly,omitempty"`

	// place and net
	Ranking []aggregate.KeyCount[string] `json:"ranking,omitempty"`
}

// Relations feeds the relationships page.
type Relations struct {
	DepthVsMagnitude []Point               `json:"depth_vs_magnitude"`
	Heatmap          aggregate.HeatmapGrid `json:"heatmap"`
	HeatmapCells     []aggregate.Cell      `json:"heatmap_cells"`
	MagnitudeSeries  []TimePoint           `json:"magnitude_series"`
}
