package usecase

import "github.com/shopspring/decimal"

const MaxRounds = 3

// ceilingFactor caps a negotiated rate at 120% of the posted rate.
var ceilingFactor = decimal.RequireFromString("1.20")

// CeilingRate returns original × 1.20. An unknown (nil or zero) original rate
// falls back to the carrier's own offer, which accepts anything.
func CeilingRate(originalRate *float64, offer float64) float64 {
	if originalRate == nil || *originalRate == 0 {
		return offer
	}
	return decimal.NewFromFloat(*originalRate).Mul(ceilingFactor).InexactFloat64()
}

func exceeds(offer, ceiling float64) bool {
	return decimal.NewFromFloat(offer).GreaterThan(decimal.NewFromFloat(ceiling))
}

func minRate(a, b float64) float64 {
	return decimal.Min(decimal.NewFromFloat(a), decimal.NewFromFloat(b)).InexactFloat64()
}

func rateDifference(final, original float64) float64 {
	return decimal.NewFromFloat(final).Sub(decimal.NewFromFloat(original)).InexactFloat64()
}

func roundPercent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2).
		InexactFloat64()
}
