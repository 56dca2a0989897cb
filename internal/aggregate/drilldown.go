package aggregate

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/couchcryptid/seismic-catalog-etl/internal/domain"
)

// ErrInvalidBucket is returned when a drill-down targets a month outside
// 1..12 or an undefined year.
var ErrInvalidBucket = errors.New("invalid drill-down bucket")

// DrillDown is the tooltip payload for a hovered bar or point: the bucket's
// total and its busiest sub-bucket (day within a month, month within a year).
type DrillDown struct {
	BucketLabel  string `json:"bucket_label"`
	BucketKey    int    `json:"bucket_key"`
	TotalCount   int    `json:"total_count"`
	PeakSubKey   int    `json:"peak_sub_key"`
	PeakSubCount int    `json:"peak_sub_count"`
}

// HasPeak reports whether the bucket held any events. When it did not,
// PeakSubKey and PeakSubCount are 0.
func (d DrillDown) HasPeak() bool { return d.TotalCount > 0 }

// MonthDrillDown counts the events in month (1..12) and finds the day with
// the most events. Ties go to the earliest day.
func MonthDrillDown(events []domain.SeismicEvent, month int) (DrillDown, error) {
	if month < 1 || month > 12 {
		return DrillDown{}, fmt.Errorf("%w: month %d", ErrInvalidBucket, month)
	}
	d := DrillDown{BucketLabel: time.Month(month).String(), BucketKey: month}
	days := CountBy(events, func(e domain.SeismicEvent) (int, bool) {
		return e.Day, e.HasTime() && e.Month == month
	})
	fillPeak(&d, days)
	return d, nil
}

// YearDrillDown counts the events in year and finds the month with the most
// events. Ties go to the earliest month.
func YearDrillDown(events []domain.SeismicEvent, year int) (DrillDown, error) {
	if year == 0 {
		return DrillDown{}, fmt.Errorf("%w: year %d", ErrInvalidBucket, year)
	}
	d := DrillDown{BucketLabel: strconv.Itoa(year), BucketKey: year}
	months := CountBy(events, func(e domain.SeismicEvent) (int, bool) {
		return e.Month, e.HasTime() && e.Year == year
	})
	fillPeak(&d, months)
	return d, nil
}

func fillPeak(d *DrillDown, sub []KeyCount[int]) {
	for _, kc := range sub {
		d.TotalCount += kc.Count
		if kc.Count > d.PeakSubCount || (kc.Count == d.PeakSubCount && kc.Key < d.PeakSubKey) {
			d.PeakSubKey = kc.Key
			d.PeakSubCount = kc.Count
		}
	}
}
