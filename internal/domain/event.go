package domain

import (
	"encoding/json"
	"math"
	"time"
)

// UnknownCountry is the country assigned when an event has no place text.
const UnknownCountry = "Desconocido"

// RawRow is one row of the source table keyed by header column name.
// Missing columns read as the empty string.
type RawRow map[string]string

// Get returns the cell for column, or "" when the column is absent.
func (r RawRow) Get(column string) string {
	if r == nil {
		return ""
	}
	return r[column]
}

// SeismicEvent is the typed representation of a catalog row after
// normalization. Numeric fields that failed to parse hold NaN; a time that
// failed to parse leaves Time zero and Year/Month/Day at 0.
type SeismicEvent struct {
	ID      string
	TimeRaw string
	Time    time.Time
	Year    int
	Month   int
	Day     int

	Mag       float64
	Depth     float64
	Latitude  float64
	Longitude float64

	Place       string
	Country     string
	CountryCode string

	// Measurement-quality fields.
	Net  string
	Nst  float64
	Gap  float64
	Dmin float64
	Rms  float64
}

// MarshalJSON writes unparsed numeric fields as null and omits an unparsed time.
func (e SeismicEvent) MarshalJSON() ([]byte, error) {
	type wire struct {
		ID          string     `json:"id"`
		TimeRaw     string     `json:"time_raw"`
		Time        *time.Time `json:"time,omitempty"`
		Year        int        `json:"year,omitempty"`
		Month       int        `json:"month,omitempty"`
		Day         int        `json:"day,omitempty"`
		Mag         *float64   `json:"mag"`
		Depth       *float64   `json:"depth"`
		Latitude    *float64   `json:"latitude"`
		Longitude   *float64   `json:"longitude"`
		Place       string     `json:"place"`
		Country     string     `json:"country"`
		CountryCode string     `json:"country_code,omitempty"`
		Net         string     `json:"net"`
		Nst         *float64   `json:"nst"`
		Gap         *float64   `json:"gap"`
		Dmin        *float64   `json:"dmin"`
		Rms         *float64   `json:"rms"`
	}
	w := wire{
		ID:          e.ID,
		TimeRaw:     e.TimeRaw,
		Mag:         nullable(e.Mag),
		Depth:       nullable(e.Depth),
		Latitude:    nullable(e.Latitude),
		Longitude:   nullable(e.Longitude),
		Place:       e.Place,
		Country:     e.Country,
		CountryCode: e.CountryCode,
		Net:         e.Net,
		Nst:         nullable(e.Nst),
		Gap:         nullable(e.Gap),
		Dmin:        nullable(e.Dmin),
		Rms:         nullable(e.Rms),
	}
	if e.HasTime() {
		t := e.Time
		w.Time = &t
		w.Year, w.Month, w.Day = e.Year, e.Month, e.Day
	}
	return json.Marshal(w)
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// HasTime reports whether the event's time parsed.
func (e SeismicEvent) HasTime() bool {
	return !e.Time.IsZero()
}

// HasCoordinates reports whether both latitude and longitude parsed.
func (e SeismicEvent) HasCoordinates() bool {
	return !math.IsNaN(e.Latitude) && !math.IsNaN(e.Longitude)
}

// UndefinedFields lists the typed columns that did not parse for this event.
func (e SeismicEvent) UndefinedFields() []Column {
	var out []Column
	if !e.HasTime() {
		out = append(out, ColumnTime)
	}
	for _, c := range NumericColumns() {
		if math.IsNaN(c.Value(e)) {
			out = append(out, c)
		}
	}
	return out
}

// Catalog is a loaded event collection. It is replaced wholesale on reload.
type Catalog struct {
	Events   []SeismicEvent
	Source   string
	LoadedAt time.Time
}

// NewCatalog stamps a freshly normalized event set with the load time.
func NewCatalog(source string, events []SeismicEvent) Catalog {
	return Catalog{
		Events:   events,
		Source:   source,
		LoadedAt: clock.Now().UTC(),
	}
}

// Len returns the number of events in the catalog.
func (c Catalog) Len() int { return len(c.Events) }
