package stats

import (
	"math"
	"slices"
)

// CalculateMedianDiscrete finds the median value in a slice of integers.
func CalculateMedianDiscrete(values []int) float64 {
	if len(values) == 0 {
		return 0
	}

	// Work on a copy to avoid mutating the original
	temp := slices.Clone(values)
	slices.Sort(temp)

	n := len(temp)
	if n%2 == 1 {
		return float64(temp[n/2])
	}
	return float64(temp[n/2-1]+temp[n/2]) / 2.0
}

// Percentiles summarizes the spread of a set of ticket durations in days.
type Percentiles struct {
	Count  int     `json:"count"`
	Median float64 `json:"median"`
	P70    float64 `json:"p70"`
	P85    float64 `json:"p85"`
	P95    float64 `json:"p95"`
	Max    float64 `json:"max"`
}

// CalculatePercentiles uses the nearest-rank index int(n*q) on the sorted
// values, rounded to one decimal. An empty input yields the zero value.
func CalculatePercentiles(values []int) Percentiles {
	n := len(values)
	if n == 0 {
		return Percentiles{}
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	at := func(q float64) float64 {
		idx := int(float64(n) * q)
		if idx >= n {
			idx = n - 1
		}
		return math.Round(float64(sorted[idx])*10) / 10
	}

	return Percentiles{
		Count:  n,
		Median: CalculateMedianDiscrete(sorted),
		P70:    at(0.70),
		P85:    at(0.85),
		P95:    at(0.95),
		Max:    float64(sorted[n-1]),
	}
}
