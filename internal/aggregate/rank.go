package aggregate

import "slices"

// TopN returns the n largest groups by count, descending. Ties keep the
// order they have in counts, which is first-seen order for CountBy output.
// Fewer than n groups returns all of them; n <= 0 returns none. The input
// is not modified.
func TopN[K comparable](counts []KeyCount[K], n int) []KeyCount[K] {
	if n <= 0 {
		return []KeyCount[K]{}
	}
	ranked := SortByCount(slices.Clone(counts))
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	if ranked == nil {
		ranked = []KeyCount[K]{}
	}
	return ranked
}
