package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownColumn is returned when a column identifier is not part of the
// analysable set.
var ErrUnknownColumn = errors.New("unknown column")

// Column identifies a catalog column selectable for analysis.
type Column string

const (
	ColumnMag       Column = "mag"
	ColumnDepth     Column = "depth"
	ColumnLatitude  Column = "latitude"
	ColumnLongitude Column = "longitude"
	ColumnNst       Column = "nst"
	ColumnGap       Column = "gap"
	ColumnDmin      Column = "dmin"
	ColumnRms       Column = "rms"
	ColumnNet       Column = "net"
	ColumnTime      Column = "time"
	ColumnPlace     Column = "place"
)

var allColumns = []Column{
	ColumnMag, ColumnDepth, ColumnLatitude, ColumnLongitude,
	ColumnNst, ColumnGap, ColumnDmin, ColumnRms,
	ColumnNet, ColumnTime, ColumnPlace,
}

// Columns returns every selectable column in display order.
func Columns() []Column {
	out := make([]Column, len(allColumns))
	copy(out, allColumns)
	return out
}

// NumericColumns returns the columns with a float accessor.
func NumericColumns() []Column {
	return []Column{
		ColumnMag, ColumnDepth, ColumnLatitude, ColumnLongitude,
		ColumnNst, ColumnGap, ColumnDmin, ColumnRms,
	}
}

// ParseColumn resolves a column identifier, ignoring case and surrounding space.
func ParseColumn(s string) (Column, error) {
	c := Column(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range allColumns {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColumn, s)
}

// Numeric reports whether the column has a float accessor.
func (c Column) Numeric() bool {
	switch c {
	case ColumnMag, ColumnDepth, ColumnLatitude, ColumnLongitude,
		ColumnNst, ColumnGap, ColumnDmin, ColumnRms:
		return true
	default:
		return false
	}
}

// Value returns the column's numeric value for e, or NaN for non-numeric
// columns and unparsed fields.
func (c Column) Value(e SeismicEvent) float64 {
	switch c {
	case ColumnMag:
		return e.Mag
	case ColumnDepth:
		return e.Depth
	case ColumnLatitude:
		return e.Latitude
	case ColumnLongitude:
		return e.Longitude
	case ColumnNst:
		return e.Nst
	case ColumnGap:
		return e.Gap
	case ColumnDmin:
		return e.Dmin
	case ColumnRms:
		return e.Rms
	default:
		return math.NaN()
	}
}

// Accessor returns Value bound to this column.
func (c Column) Accessor() func(SeismicEvent) float64 {
	return c.Value
}

// Values extracts the column from every event, NaN included.
func (c Column) Values(events []SeismicEvent) []float64 {
	out := make([]float64, len(events))
	for i := range events {
		out[i] = c.Value(events[i])
	}
	return out
}
