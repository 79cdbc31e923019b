// Package condition implements asset degradation over elapsed time and
// the four maintenance actions that restore it. All functions are pure:
// callers pass the current clock and commit the returned state.
package condition

import (
	"math"

	"wealth-arena/internal/domain"
)

// DegradationRate returns condition points lost per day for a
// category/tier pair. Unknown tiers fall back to the tier-1 rate.
func DegradationRate(category domain.Category, tier int, cfg domain.DegradationConfig) float64 {
	base := cfg.CategoryRates[category]
	mult, ok := cfg.TierMultipliers[tier]
	if !ok {
		mult = 1.0
	}
	return base * mult
}

// EfficiencyMultiplier is the step function of condition.
func EfficiencyMultiplier(cond float64) float64 {
	switch {
	case cond >= 80:
		return 1.00
	case cond >= 60:
		return 0.95
	case cond >= 40:
		return 0.85
	case cond >= 20:
		return 0.70
	case cond > 0:
		return 0.50
	default:
		return 0
	}
}

// Warning classifies a condition value.
func Warning(cond float64) domain.WarningLevel {
	switch {
	case cond >= 60:
		return domain.WarningGood
	case cond >= 40:
		return domain.WarningCaution
	case cond > 0:
		return domain.WarningCritical
	default:
		return domain.WarningBroken
	}
}

// Tick advances degradation to nowMs and returns the updated state.
// Elapsed days since the last check are charged at the category/tier
// rate, halved while inside the post-maintenance slowdown window.
// Condition floors at zero; an elapsed offline window puts the asset
// back online implicitly (OfflineUntil is simply in the past).
func Tick(c *domain.AssetCondition, asset domain.EnhancedAsset, nowMs int64, cfg domain.DegradationConfig) *domain.AssetCondition {
	out := c.Clone()
	if nowMs <= c.LastCheckedAt {
		return out
	}

	elapsedDays := float64(nowMs-c.LastCheckedAt) / float64(24*60*60*1000)
	rate := DegradationRate(asset.Category, asset.Tier, cfg)

	slowdown := 1.0
	if nowMs < c.SlowdownUntil {
		slowdown = cfg.SlowdownFactor
	}

	out.Condition = math.Max(0, c.Condition-elapsedDays*rate*slowdown)
	out.LastCheckedAt = nowMs
	return out
}

// MaintenanceCost prices an action. Scaling discounts larger assets
// (20% above cost 100, 10% above 50); each active synergy grants a 5%
// discount capped at 25%. Floored, minimum 1.
func MaintenanceCost(assetCost int64, action domain.MaintenanceActionConfig, activeSynergies int) int64 {
	scaling := 1.0
	switch {
	case assetCost > 100:
		scaling = 0.8
	case assetCost > 50:
		scaling = 0.9
	}

	discount := 1.0 - 0.05*float64(activeSynergies)
	if discount < 0.75 {
		discount = 0.75
	}

	cost := int64(math.Floor(float64(assetCost) * action.CostMultiplier * scaling * discount))
	if cost < 1 {
		cost = 1
	}
	return cost
}

// ApplyMaintenance performs the action at nowMs and returns the new
// condition state plus the appended history record. The caller has
// already verified and debited the cost.
func ApplyMaintenance(c *domain.AssetCondition, action domain.MaintenanceAction, cfg domain.MaintenanceActionConfig, cost int64, recordID string, nowMs int64) *domain.AssetCondition {
	out := c.Clone()
	out.Condition = math.Min(100, c.Condition+cfg.Restore)
	out.LastMaintained = nowMs
	out.LastCheckedAt = nowMs
	out.SlowdownUntil = nowMs + cfg.SlowdownMs
	if cfg.OfflineMs > 0 {
		out.OfflineUntil = nowMs + cfg.OfflineMs
	}
	if action == domain.MaintenanceUpgrade {
		// Permanent bonus only ever accumulates.
		out.UpgradeBonus += cfg.PermanentBonus
	}
	out.History = append(out.History, domain.MaintenanceRecord{
		RecordID:    recordID,
		AssetID:     c.AssetID,
		Action:      action,
		Cost:        cost,
		Restored:    cfg.Restore,
		PerformedAt: nowMs,
	})
	return out
}

// EffectiveMultiplier combines the condition step function with the
// accumulated permanent upgrade bonus. An offline asset contributes
// nothing.
func EffectiveMultiplier(c *domain.AssetCondition, nowMs int64) float64 {
	if !c.Online(nowMs) {
		return 0
	}
	return EfficiencyMultiplier(c.Condition) + c.UpgradeBonus
}
