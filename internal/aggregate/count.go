// Package aggregate computes the statistical datasets the dashboard charts
// consume: grouped counts, histograms, summary statistics, heatmaps,
// rankings and hover drill-downs. Every function is pure and safe to call
// with empty input.
package aggregate

import (
	"cmp"
	"slices"
)

// KeyCount is one group of a grouped count.
type KeyCount[K comparable] struct {
	Key   K   `json:"key"`
	Count int `json:"count"`
}

// CountBy groups items by key and counts each group. Groups appear in the
// order their key was first seen. key returns false to skip an item.
func CountBy[T any, K comparable](items []T, key func(T) (K, bool)) []KeyCount[K] {
	index := make(map[K]int)
	var out []KeyCount[K]
	for i := range items {
		k, ok := key(items[i])
		if !ok {
			continue
		}
		if j, seen := index[k]; seen {
			out[j].Count++
			continue
		}
		index[k] = len(out)
		out = append(out, KeyCount[K]{Key: k, Count: 1})
	}
	if out == nil {
		out = []KeyCount[K]{}
	}
	return out
}

// SortByKey orders counts by ascending key, in place, and returns them.
func SortByKey[K cmp.Ordered](counts []KeyCount[K]) []KeyCount[K] {
	slices.SortStableFunc(counts, func(a, b KeyCount[K]) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return counts
}

// SortByCount orders counts by descending count, in place. Equal counts keep
// their existing relative order.
func SortByCount[K comparable](counts []KeyCount[K]) []KeyCount[K] {
	slices.SortStableFunc(counts, func(a, b KeyCount[K]) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return counts
}

// Total sums the counts.
func Total[K comparable](counts []KeyCount[K]) int {
	n := 0
	for _, c := range counts {
		n += c.Count
	}
	return n
}
