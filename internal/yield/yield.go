// Package yield holds the pure balance and yield arithmetic: profit
// per cycle, geometric outlet cost growth, milestone multipliers,
// portfolio value and risk scoring. No state, no side effects.
package yield

import (
	"math"

	"wealth-arena/internal/domain"
)

// MilestoneMultiplier compounds the bonus factor once for every
// threshold less than or equal to the current outlet count.
func MilestoneMultiplier(outlets int, cfg domain.MilestoneConfig) float64 {
	mult := 1.0
	for _, threshold := range cfg.Thresholds {
		if outlets >= threshold {
			mult *= cfg.BonusFactor
		}
	}
	return mult
}

// ProfitPerCycle is the credits produced by one full cycle of an asset.
func ProfitPerCycle(asset domain.Asset, cfg domain.MilestoneConfig) int64 {
	mult := MilestoneMultiplier(asset.Outlets, cfg)
	return int64(math.Floor(float64(asset.YieldPerTick) * float64(asset.Outlets) * mult))
}

// OutletCost prices qty additional outlets with geometric growth:
// sum of baseCost * growth^(currentOutlets+i-1) for i in [0, qty),
// rounded to the nearest integer.
func OutletCost(baseCost int64, growth float64, currentOutlets, qty int) int64 {
	if qty <= 0 {
		return 0
	}
	total := 0.0
	for i := 0; i < qty; i++ {
		total += float64(baseCost) * math.Pow(growth, float64(currentOutlets+i-1))
	}
	return int64(math.Round(total))
}

// PortfolioValue sums the acquisition costs of all owned productive
// assets, basic and enhanced.
func PortfolioValue(account *domain.Account, catalog map[string]domain.EnhancedAsset) int64 {
	var total int64
	for _, a := range account.Assets {
		total += a.AcquisitionCost
	}
	for _, id := range account.Enhanced {
		if e, ok := catalog[id]; ok {
			total += e.Cost
		}
	}
	return total
}

// RiskScore is 100 minus the average condition across owned basic
// assets, rounded. An empty portfolio carries no risk.
func RiskScore(assets []domain.Asset) int {
	if len(assets) == 0 {
		return 0
	}
	var sum float64
	for _, a := range assets {
		sum += a.Condition
	}
	return int(math.Round(100 - sum/float64(len(assets))))
}
