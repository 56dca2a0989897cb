package aggregate

import "github.com/couchcryptid/seismic-catalog-etl/internal/domain"

// YearlyCounts counts events per year, ascending. Events without a parsed
// time are left out.
func YearlyCounts(events []domain.SeismicEvent) []KeyCount[int] {
	return SortByKey(CountBy(events, func(e domain.SeismicEvent) (int, bool) {
		return e.Year, e.HasTime()
	}))
}

// MonthlyCounts counts events per calendar month (1..12), ascending.
func MonthlyCounts(events []domain.SeismicEvent) []KeyCount[int] {
	return SortByKey(CountBy(events, func(e domain.SeismicEvent) (int, bool) {
		return e.Month, e.HasTime()
	}))
}

// CountryCounts counts events per derived country in first-seen order.
func CountryCounts(events []domain.SeismicEvent) []KeyCount[string] {
	return CountBy(events, func(e domain.SeismicEvent) (string, bool) {
		return e.Country, true
	})
}

// NetworkCounts counts events per contributing network, skipping blanks.
func NetworkCounts(events []domain.SeismicEvent) []KeyCount[string] {
	return CountBy(events, func(e domain.SeismicEvent) (string, bool) {
		return e.Net, e.Net != ""
	})
}
