package domain

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrInvalidScheme marks a classification table that overlaps, leaves gaps,
// or does not cover the whole number line.
var ErrInvalidScheme = errors.New("invalid classification scheme")

// Range is one class of a scheme: Lower is inclusive, Upper exclusive.
// Use math.Inf for open ends.
type Range struct {
	Label string
	Lower float64
	Upper float64
}

// Contains reports whether v falls in [Lower, Upper). NaN is never contained.
func (r Range) Contains(v float64) bool {
	return v >= r.Lower && v < r.Upper
}

// Scheme is an ordered, validated classification table.
type Scheme struct {
	Name   string
	Ranges []Range
}

// Bucket is the count of events falling in one range of a scheme.
type Bucket struct {
	Label string  `json:"label"`
	Lower float64 `json:"-"`
	Upper float64 `json:"-"`
	Count int     `json:"count"`
}

// Contains is the bucket's membership predicate.
func (b Bucket) Contains(v float64) bool {
	return v >= b.Lower && v < b.Upper
}

// NewScheme validates ranges and returns a Scheme. The ranges must have
// unique non-empty labels, Lower < Upper, and together tile (-Inf, +Inf)
// without overlap or gaps. Declaration order is kept for output.
func NewScheme(name string, ranges ...Range) (Scheme, error) {
	if len(ranges) == 0 {
		return Scheme{}, fmt.Errorf("%w: %s: no ranges", ErrInvalidScheme, name)
	}

	labels := make(map[string]struct{}, len(ranges))
	for _, r := range ranges {
		if r.Label == "" {
			return Scheme{}, fmt.Errorf("%w: %s: empty label", ErrInvalidScheme, name)
		}
		if _, dup := labels[r.Label]; dup {
			return Scheme{}, fmt.Errorf("%w: %s: duplicate label %q", ErrInvalidScheme, name, r.Label)
		}
		labels[r.Label] = struct{}{}
		if math.IsNaN(r.Lower) || math.IsNaN(r.Upper) || r.Lower >= r.Upper {
			return Scheme{}, fmt.Errorf("%w: %s: range %q has lower %g >= upper %g", ErrInvalidScheme, name, r.Label, r.Lower, r.Upper)
		}
	}

	sorted := slices.Clone(ranges)
	slices.SortFunc(sorted, func(a, b Range) int {
		switch {
		case a.Lower < b.Lower:
			return -1
		case a.Lower > b.Lower:
			return 1
		default:
			return 0
		}
	})

	if !math.IsInf(sorted[0].Lower, -1) {
		return Scheme{}, fmt.Errorf("%w: %s: values below %g are unclassified", ErrInvalidScheme, name, sorted[0].Lower)
	}
	if last := sorted[len(sorted)-1]; !math.IsInf(last.Upper, 1) {
		return Scheme{}, fmt.Errorf("%w: %s: values at or above %g are unclassified", ErrInvalidScheme, name, last.Upper)
	}
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		switch {
		case cur.Lower < prev.Upper:
			return Scheme{}, fmt.Errorf("%w: %s: %q overlaps %q", ErrInvalidScheme, name, cur.Label, prev.Label)
		case cur.Lower > prev.Upper:
			return Scheme{}, fmt.Errorf("%w: %s: gap between %q and %q", ErrInvalidScheme, name, prev.Label, cur.Label)
		}
	}

	return Scheme{Name: name, Ranges: slices.Clone(ranges)}, nil
}

// MustScheme is NewScheme for package-level tables; it panics on an invalid table.
func MustScheme(name string, ranges ...Range) Scheme {
	s, err := NewScheme(name, ranges...)
	if err != nil {
		panic(err)
	}
	return s
}

// Labels returns the range labels in declaration order.
func (s Scheme) Labels() []string {
	out := make([]string, len(s.Ranges))
	for i, r := range s.Ranges {
		out[i] = r.Label
	}
	return out
}

// ClassOf returns the label of the first range containing v, or "" for NaN.
func (s Scheme) ClassOf(v float64) string {
	for _, r := range s.Ranges {
		if r.Contains(v) {
			return r.Label
		}
	}
	return ""
}

// Classify counts events per range of scheme using accessor. Every range gets
// a bucket, in declaration order, even when its count is zero. Events whose
// accessor value is NaN are left out of all buckets.
func Classify(events []SeismicEvent, scheme Scheme, accessor func(SeismicEvent) float64) []Bucket {
	buckets := make([]Bucket, len(scheme.Ranges))
	for i, r := range scheme.Ranges {
		buckets[i] = Bucket{Label: r.Label, Lower: r.Lower, Upper: r.Upper}
	}
	for i := range events {
		v := accessor(events[i])
		if math.IsNaN(v) {
			continue
		}
		for j := range buckets {
			if buckets[j].Contains(v) {
				buckets[j].Count++
				break
			}
		}
	}
	return buckets
}

// NonEmpty drops zero-count buckets, keeping order. Charts use it so empty
// slices do not render.
func NonEmpty(buckets []Bucket) []Bucket {
	out := make([]Bucket, 0, len(buckets))
	for _, b := range buckets {
		if b.Count > 0 {
			out = append(out, b)
		}
	}
	return out
}
