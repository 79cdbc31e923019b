// Package war computes the wealth-asset ratio: an efficiency metric
// dividing the wealth balance by the acquisition value of everything
// the account owns.
package war

import (
	"wealth-arena/internal/domain"
)

// TrendWindow is how many trailing history samples classify the trend.
const TrendWindow = 3

// TrendThreshold is the ratio delta separating stable from moving.
const TrendThreshold = 0.05

// Ratio divides wealth by portfolio value, guarding the empty
// portfolio.
func Ratio(wealth, portfolioValue int64) float64 {
	if portfolioValue == 0 {
		return 0
	}
	return float64(wealth) / float64(portfolioValue)
}

// TierFor classifies a ratio.
func TierFor(ratio float64) domain.WARTier {
	switch {
	case ratio >= 0.8:
		return domain.WARTierLegendary
	case ratio >= 0.6:
		return domain.WARTierExcellent
	case ratio >= 0.4:
		return domain.WARTierGood
	case ratio >= 0.2:
		return domain.WARTierAverage
	default:
		return domain.WARTierPoor
	}
}

// TrendOf compares the first and last of the trailing samples. Fewer
// than TrendWindow samples is always stable.
func TrendOf(history []domain.WARSample) domain.Trend {
	if len(history) < TrendWindow {
		return domain.TrendStable
	}
	window := history[len(history)-TrendWindow:]
	delta := window[len(window)-1].Ratio - window[0].Ratio
	switch {
	case delta > TrendThreshold:
		return domain.TrendRising
	case delta < -TrendThreshold:
		return domain.TrendFalling
	default:
		return domain.TrendStable
	}
}

// Peak returns the running maximum ratio over the full history,
// including the current ratio.
func Peak(history []domain.WARSample, current float64) float64 {
	peak := current
	for _, s := range history {
		if s.Ratio > peak {
			peak = s.Ratio
		}
	}
	return peak
}

// Compute builds the full record from current state plus history. Rank
// is left zero; the leaderboard assigns it from snapshots.
func Compute(accountID string, wealth, portfolioValue int64, history []domain.WARSample) domain.WARRecord {
	ratio := Ratio(wealth, portfolioValue)
	return domain.WARRecord{
		AccountID:      accountID,
		Ratio:          ratio,
		PeakRatio:      Peak(history, ratio),
		Tier:           TierFor(ratio),
		Trend:          TrendOf(history),
		PortfolioValue: portfolioValue,
		History:        history,
	}
}
