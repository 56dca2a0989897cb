package aggregate

import (
	"math"
	"sort"
)

// Bin is one histogram bin. Bins are half-open [Lower, Upper) except the
// last, which also holds Upper.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram splits the finite values into bins equal-width bins spanning
// [min, max]. NaN values are ignored. Empty input returns no bins, a single
// distinct value returns one bin holding every value, and bins < 1 is
// treated as 1.
func Histogram(values []float64, bins int) []Bin {
	finite := finiteValues(values)
	if len(finite) == 0 {
		return []Bin{}
	}
	edges := binEdges(finite, bins)
	out := edgesToBins(edges)
	for _, v := range finite {
		out[binIndex(edges, v)].Count++
	}
	return out
}

// binEdges returns bins+1 ascending edges over the extent of values, which
// must be non-empty and finite. The outer edges are exactly min and max.
func binEdges(values []float64, bins int) []float64 {
	if bins < 1 {
		bins = 1
	}
	lo, hi, _ := Extent(values)
	if lo == hi {
		return []float64{lo, hi}
	}
	// Interpolate so extents wider than MaxFloat64 stay finite.
	edges := make([]float64, bins+1)
	for i := range edges {
		f := float64(i) / float64(bins)
		edges[i] = lo*(1-f) + hi*f
	}
	edges[bins] = hi
	return edges
}

// binIndex locates v among edges. The comparison is against the same edge
// values stored in the bins, so a bin's bounds and its count always agree;
// values at or above the last inner edge land in the final bin.
func binIndex(edges []float64, v float64) int {
	inner := edges[1 : len(edges)-1]
	return sort.Search(len(inner), func(i int) bool { return inner[i] > v })
}

func finiteValues(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if isFinite(v) {
			out = append(out, v)
		}
	}
	return out
}

// Extent returns the minimum and maximum of the non-NaN values; ok is false
// when there are none.
func Extent(values []float64) (lo, hi float64, ok bool) {
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if !ok {
		return math.NaN(), math.NaN(), false
	}
	return lo, hi, true
}
