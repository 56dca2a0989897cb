package domain

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testTime  = "2023-03-05T14:22:10.123Z"
	testPlace = "10km SW of Example, Chile"
)

func fullRow() RawRow {
	return RawRow{
		"time":      testTime,
		"mag":       "5.4",
		"depth":     "35.2",
		"latitude":  "-33.45",
		"longitude": "-70.66",
		"place":     testPlace,
		"net":       "us",
		"nst":       "42",
		"gap":       "31",
		"dmin":      "0.812",
		"rms":       "0.91",
	}
}

func TestNormalizeRow(t *testing.T) {
	t.Run("complete row", func(t *testing.T) {
		e := NormalizeRow(fullRow())

		assert.Equal(t, testTime, e.TimeRaw)
		assert.Equal(t, time.Date(2023, 3, 5, 14, 22, 10, 123000000, time.UTC), e.Time)
		assert.Equal(t, 2023, e.Year)
		assert.Equal(t, 3, e.Month)
		assert.Equal(t, 5, e.Day)
		assert.Equal(t, 5.4, e.Mag)
		assert.Equal(t, 35.2, e.Depth)
		assert.Equal(t, -33.45, e.Latitude)
		assert.Equal(t, -70.66, e.Longitude)
		assert.Equal(t, testPlace, e.Place)
		assert.Equal(t, "Chile", e.Country)
		assert.Equal(t, "CL", e.CountryCode)
		assert.Equal(t, "us", e.Net)
		assert.Equal(t, 42.0, e.Nst)
		assert.Equal(t, 31.0, e.Gap)
		assert.Equal(t, 0.812, e.Dmin)
		assert.Equal(t, 0.91, e.Rms)
		assert.True(t, strings.HasPrefix(e.ID, "eq-"))
		assert.Empty(t, e.UndefinedFields())
	})

	t.Run("unparseable magnitude becomes NaN", func(t *testing.T) {
		row := fullRow()
		row["mag"] = "abc"
		e := NormalizeRow(row)

		assert.True(t, math.IsNaN(e.Mag))
		assert.Equal(t, 35.2, e.Depth, "other fields unaffected")
		assert.Equal(t, []Column{ColumnMag}, e.UndefinedFields())
	})

	t.Run("missing columns", func(t *testing.T) {
		e := NormalizeRow(RawRow{"mag": "3.1"})

		assert.Equal(t, 3.1, e.Mag)
		assert.True(t, math.IsNaN(e.Depth))
		assert.True(t, math.IsNaN(e.Latitude))
		assert.False(t, e.HasTime())
		assert.Equal(t, 0, e.Year)
		assert.Equal(t, UnknownCountry, e.Country)
		assert.Empty(t, e.CountryCode)
		assert.Contains(t, e.UndefinedFields(), ColumnTime)
	})

	t.Run("bad time leaves calendar fields undefined", func(t *testing.T) {
		row := fullRow()
		row["time"] = "yesterday"
		e := NormalizeRow(row)

		assert.False(t, e.HasTime())
		assert.Equal(t, 0, e.Year)
		assert.Equal(t, 0, e.Month)
		assert.Equal(t, 0, e.Day)
		assert.Equal(t, 5.4, e.Mag)
	})

	t.Run("zero is a value not a failure", func(t *testing.T) {
		row := fullRow()
		row["depth"] = "0"
		e := NormalizeRow(row)

		assert.Equal(t, 0.0, e.Depth)
	})

	t.Run("nil row", func(t *testing.T) {
		e := NormalizeRow(nil)
		assert.True(t, math.IsNaN(e.Mag))
		assert.Equal(t, UnknownCountry, e.Country)
	})
}

func TestNormalizeRows(t *testing.T) {
	rows := []RawRow{
		fullRow(),
		{"mag": "garbage"},
		{},
	}
	events := NormalizeRows(rows)

	require.Len(t, events, 3, "no row is dropped")
	assert.Equal(t, 5.4, events[0].Mag)
	assert.True(t, math.IsNaN(events[1].Mag))
	assert.True(t, math.IsNaN(events[2].Mag))
}

func TestParseFloatOrNaN(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		isNaN bool
	}{
		{"integer", "42", 42, false},
		{"decimal", "4.25", 4.25, false},
		{"negative", "-70.66", -70.66, false},
		{"padded", "  2.5 ", 2.5, false},
		{"zero", "0", 0, false},
		{"empty", "", 0, true},
		{"whitespace", "   ", 0, true},
		{"text", "abc", 0, true},
		{"infinity", "Inf", 0, true},
		{"overflow", "1e400", 0, true},
		{"nan literal", "NaN", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFloatOrNaN(tt.input)
			if tt.isNaN {
				assert.True(t, math.IsNaN(got))
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEventTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"RFC3339 with millis", "2023-03-05T14:22:10.123Z", time.Date(2023, 3, 5, 14, 22, 10, 123000000, time.UTC), true},
		{"RFC3339", "2023-03-05T14:22:10Z", time.Date(2023, 3, 5, 14, 22, 10, 0, time.UTC), true},
		{"offset converted to UTC", "2023-03-05T23:30:00-03:00", time.Date(2023, 3, 6, 2, 30, 0, 0, time.UTC), true},
		{"no zone", "2023-03-05T14:22:10", time.Date(2023, 3, 5, 14, 22, 10, 0, time.UTC), true},
		{"space separated", "2023-03-05 14:22:10", time.Date(2023, 3, 5, 14, 22, 10, 0, time.UTC), true},
		{"date only", "2023-03-05", time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "not a date", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseEventTime(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
		})
	}
}

func TestExtractCountry(t *testing.T) {
	tests := []struct {
		name  string
		place string
		want  string
	}{
		{"locality and country", "10km SW of Example, Chile", "Chile"},
		{"multiple commas", "5km N of A, B, Japan", "Japan"},
		{"surrounding space", "  12km E of X ,  Peru  ", "Peru"},
		{"no comma", "Fiji region", "Fiji region"},
		{"empty", "", UnknownCountry},
		{"blank", "   ", UnknownCountry},
		{"trailing comma", "somewhere,", UnknownCountry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractCountry(tt.place))
		})
	}
}

func TestResolveCountryCode(t *testing.T) {
	tests := []struct {
		name    string
		country string
		want    string
	}{
		{"country", "Chile", "CL"},
		{"another country", "Japan", "JP"},
		{"unknown sentinel", UnknownCountry, ""},
		{"empty", "", ""},
		{"not a country", "Fiji region offshore trench", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveCountryCode(tt.country))
		})
	}
}

func TestGenerateID(t *testing.T) {
	t.Run("includes prefix", func(t *testing.T) {
		id := generateID(testTime, -33.45, -70.66, 5.4, testPlace)
		assert.True(t, strings.HasPrefix(id, "eq-"))
		assert.Len(t, id, len("eq-")+16)
	})

	t.Run("deterministic", func(t *testing.T) {
		a := generateID(testTime, -33.45, -70.66, 5.4, testPlace)
		b := generateID(testTime, -33.45, -70.66, 5.4, testPlace)
		assert.Equal(t, a, b)
	})

	t.Run("different inputs produce different IDs", func(t *testing.T) {
		a := generateID(testTime, -33.45, -70.66, 5.4, testPlace)
		b := generateID(testTime, -33.45, -70.66, 5.5, testPlace)
		assert.NotEqual(t, a, b)
	})

	t.Run("same row normalizes to same ID", func(t *testing.T) {
		assert.Equal(t, NormalizeRow(fullRow()).ID, NormalizeRow(fullRow()).ID)
	})
}

func TestSeismicEventMarshalJSON(t *testing.T) {
	t.Run("NaN fields encode as null", func(t *testing.T) {
		e := NormalizeRow(RawRow{"mag": "4.5", "place": testPlace})
		data, err := json.Marshal(e)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, 4.5, decoded["mag"])
		assert.Nil(t, decoded["depth"])
		assert.NotContains(t, decoded, "time")
		assert.NotContains(t, decoded, "year")
		assert.Equal(t, "Chile", decoded["country"])
	})

	t.Run("parsed time included", func(t *testing.T) {
		data, err := json.Marshal(NormalizeRow(fullRow()))
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, "2023-03-05T14:22:10.123Z", decoded["time"])
		assert.Equal(t, float64(2023), decoded["year"])
	})
}

func TestNewCatalog(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	defer SetClock(nil)

	events := NormalizeRows([]RawRow{fullRow(), fullRow()})
	c := NewCatalog("data/data.csv", events)

	assert.Equal(t, "data/data.csv", c.Source)
	assert.Equal(t, fixed, c.LoadedAt)
	assert.Equal(t, 2, c.Len())
}

func TestSetClock(t *testing.T) {
	t.Run("set custom clock", func(t *testing.T) {
		fixedTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		SetClock(clockwork.NewFakeClockAt(fixedTime))
		assert.Equal(t, fixedTime, clock.Now())

		SetClock(nil)
	})

	t.Run("reset to real clock", func(t *testing.T) {
		fixedTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		SetClock(clockwork.NewFakeClockAt(fixedTime))
		SetClock(nil)

		assert.NotEqual(t, fixedTime, clock.Now())
	})
}
