package aggregate

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
)

// Summary holds descriptive statistics over the parsed values of a column.
// Any statistic that is undefined for the input is NaN and encodes as null.
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	Min    float64
	Max    float64
	StdDev float64
	Q1     float64
	Q3     float64
}

// Summarize computes the summary of the non-NaN values. Quantiles use linear
// interpolation between closest ranks (h = (n-1)p) and StdDev is the sample
// deviation, so it is NaN for fewer than two values. Empty input gives
// Count 0 and every other field NaN.
func Summarize(values []float64) Summary {
	sorted := finiteValues(values)
	slices.Sort(sorted)

	s := Summary{
		Count:  len(sorted),
		Mean:   mean(sorted),
		Median: Quantile(sorted, 0.5),
		Min:    math.NaN(),
		Max:    math.NaN(),
		StdDev: sampleStdDev(sorted),
		Q1:     Quantile(sorted, 0.25),
		Q3:     Quantile(sorted, 0.75),
	}
	if len(sorted) > 0 {
		s.Min = sorted[0]
		s.Max = sorted[len(sorted)-1]
		// Rounding in the sum can push the mean of equal values past them.
		s.Mean = math.Min(math.Max(s.Mean, s.Min), s.Max)
	}
	return s
}

// Quantile returns the p-quantile of ascending-sorted, NaN-free values using
// linear interpolation. It returns NaN for empty input; p is clamped to [0, 1].
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 || math.IsNaN(p) {
		return math.NaN()
	}
	if p <= 0 || n == 1 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev uses Welford's update to keep large catalogs stable.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	var m, m2 float64
	for i, v := range values {
		delta := v - m
		m += delta / float64(i+1)
		m2 += delta * (v - m)
	}
	return math.Sqrt(m2 / float64(len(values)-1))
}

// Defined reports whether the summary covers at least one value.
func (s Summary) Defined() bool { return s.Count > 0 }

// MarshalJSON encodes undefined statistics as null.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Count  int      `json:"count"`
		Mean   *float64 `json:"mean"`
		Median *float64 `json:"median"`
		Min    *float64 `json:"min"`
		Max    *float64 `json:"max"`
		StdDev *float64 `json:"std_dev"`
		Q1     *float64 `json:"q1"`
		Q3     *float64 `json:"q3"`
	}{
		Count:  s.Count,
		Mean:   nullable(s.Mean),
		Median: nullable(s.Median),
		Min:    nullable(s.Min),
		Max:    nullable(s.Max),
		StdDev: nullable(s.StdDev),
		Q1:     nullable(s.Q1),
		Q3:     nullable(s.Q3),
	})
}

// Boxplot is the five-number summary drawn by box-and-whisker charts.
type Boxplot struct {
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Boxplot returns the box geometry taken straight from the summary quantiles.
func (s Summary) Boxplot() Boxplot {
	return Boxplot{Min: s.Min, Q1: s.Q1, Median: s.Median, Q3: s.Q3, Max: s.Max}
}

// IQR is the interquartile range Q3 - Q1.
func (b Boxplot) IQR() float64 { return b.Q3 - b.Q1 }

// MarshalJSON encodes undefined quantiles as null.
func (b Boxplot) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Min    *float64 `json:"min"`
		Q1     *float64 `json:"q1"`
		Median *float64 `json:"median"`
		Q3     *float64 `json:"q3"`
		Max    *float64 `json:"max"`
	}{
		Min:    nullable(b.Min),
		Q1:     nullable(b.Q1),
		Median: nullable(b.Median),
		Q3:     nullable(b.Q3),
		Max:    nullable(b.Max),
	})
}

// FormatStat renders v with prec decimals, or "N/A" when it is undefined.
func FormatStat(v float64, prec int) string {
	if !isFinite(v) {
		return "N/A"
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func nullable(v float64) *float64 {
	if !isFinite(v) {
		return nil
	}
	return &v
}
