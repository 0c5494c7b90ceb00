package roi

import (
	"math"

	"github.com/shopspring/decimal"
)

// mean returns 0 for an empty slice so results never carry NaN.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values) / float64(len(values))
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// ratioPercent returns (num/den)*100, or 0 when den is not positive.
func ratioPercent(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den * 100
}

// round1 rounds rates, hours, days and percents for display.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// roundMoney rounds to cents half away from zero in decimal arithmetic,
// so 0.125 becomes 0.13 rather than whatever its binary form suggests.
func roundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
