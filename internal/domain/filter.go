package domain

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidYear is returned when a year selector is neither a year in
// [MinYear, MaxYear] nor the "all" sentinel.
var ErrInvalidYear = errors.New("invalid year selector")

// Bounds accepted by ParseYearSelector.
const (
	MinYear = 1
	MaxYear = 9999
)

// YearSelector is the current year filter: either a single year or All.
type YearSelector struct {
	year int
	all  bool
}

// AllYears selects every event.
var AllYears = YearSelector{all: true}

// Year selects events from a single year.
func Year(y int) YearSelector { return YearSelector{year: y} }

// IsAll reports whether the selector is the "all" sentinel.
func (s YearSelector) IsAll() bool { return s.all }

// Value returns the selected year; it is 0 for All.
func (s YearSelector) Value() int {
	if s.all {
		return 0
	}
	return s.year
}

func (s YearSelector) String() string {
	if s.all {
		return "all"
	}
	return strconv.Itoa(s.year)
}

// ParseYearSelector coerces UI text into a selector. Years round-trip through
// select controls as text, so " 2023 " and "2023.0" both select 2023.
// "", "all" and "todos" select every year.
func ParseYearSelector(s string) (YearSelector, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "all", "todos":
		return AllYears, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || v != math.Trunc(v) || v < MinYear || v > MaxYear {
		return YearSelector{}, fmt.Errorf("%w: %q", ErrInvalidYear, s)
	}
	return Year(int(v)), nil
}

// FilterByYear returns the events whose Year equals the selector, preserving
// order. All returns events unchanged.
func FilterByYear(events []SeismicEvent, sel YearSelector) []SeismicEvent {
	if sel.IsAll() {
		return events
	}
	out := make([]SeismicEvent, 0, len(events))
	for i := range events {
		if events[i].HasTime() && events[i].Year == sel.year {
			out = append(out, events[i])
		}
	}
	return out
}

// DistinctYears returns the sorted set of years present among events with a
// parsed time.
func DistinctYears(events []SeismicEvent) []int {
	seen := make(map[int]struct{})
	var years []int
	for i := range events {
		if !events[i].HasTime() {
			continue
		}
		y := events[i].Year
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		years = append(years, y)
	}
	slices.Sort(years)
	return years
}
