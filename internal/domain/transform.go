package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/biter777/countries"
)

// timeLayouts are tried in order when parsing the catalog "time" column.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizeRows converts raw rows into events. The output has the same order
// and length as the input; a row is never dropped for a bad field.
func NormalizeRows(rows []RawRow) []SeismicEvent {
	events := make([]SeismicEvent, len(rows))
	for i, row := range rows {
		events[i] = NormalizeRow(row)
	}
	return events
}

// NormalizeRow parses a single raw row. Each field is parsed independently:
// a numeric field that fails becomes NaN and a time that fails leaves the
// calendar fields at 0, while the remaining fields stay usable.
func NormalizeRow(row RawRow) SeismicEvent {
	timeRaw := strings.TrimSpace(row.Get("time"))
	place := strings.TrimSpace(row.Get("place"))
	country := extractCountry(place)

	e := SeismicEvent{
		TimeRaw:     timeRaw,
		Mag:         parseFloatOrNaN(row.Get("mag")),
		Depth:       parseFloatOrNaN(row.Get("depth")),
		Latitude:    parseFloatOrNaN(row.Get("latitude")),
		Longitude:   parseFloatOrNaN(row.Get("longitude")),
		Place:       place,
		Country:     country,
		CountryCode: resolveCountryCode(country),
		Net:         strings.TrimSpace(row.Get("net")),
		Nst:         parseFloatOrNaN(row.Get("nst")),
		Gap:         parseFloatOrNaN(row.Get("gap")),
		Dmin:        parseFloatOrNaN(row.Get("dmin")),
		Rms:         parseFloatOrNaN(row.Get("rms")),
	}

	if t, ok := parseEventTime(timeRaw); ok {
		e.Time = t
		e.Year = t.Year()
		e.Month = int(t.Month())
		e.Day = t.Day()
	}

	e.ID = generateID(timeRaw, e.Latitude, e.Longitude, e.Mag, place)
	return e
}

// parseFloatOrNaN parses a string as float64, returning NaN on failure or
// when the result is infinite.
func parseFloatOrNaN(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// parseEventTime parses the catalog timestamp in UTC.
func parseEventTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// extractCountry returns the text after the last comma of a USGS place,
// e.g. "10km SW of Example, Chile" -> "Chile". A place without a comma is
// returned whole.
func extractCountry(place string) string {
	place = strings.TrimSpace(place)
	if place == "" {
		return UnknownCountry
	}
	if i := strings.LastIndex(place, ","); i >= 0 {
		place = place[i+1:]
	}
	country := strings.TrimSpace(place)
	if country == "" {
		return UnknownCountry
	}
	return country
}

// resolveCountryCode maps a country name to its ISO 3166-1 alpha-2 code.
// Region names that are not countries (US states, seas) resolve to "".
func resolveCountryCode(country string) string {
	if country == "" || country == UnknownCountry {
		return ""
	}
	code := countries.ByName(country)
	if code == countries.Unknown {
		return ""
	}
	return code.Alpha2()
}

// generateID produces a deterministic ID from the event's identifying
// fields, so re-loading the same file yields the same IDs.
func generateID(timeRaw string, lat, lon, mag float64, place string) string {
	input := fmt.Sprintf("%s|%.4f|%.4f|%g|%s", timeRaw, lat, lon, mag, place)
	hash := sha256.Sum256([]byte(input))
	return "eq-" + hex.EncodeToString(hash[:8])
}
