package economy

import (
	"wealth-arena/internal/combat"
	"wealth-arena/internal/condition"
	"wealth-arena/internal/domain"
	"wealth-arena/internal/synergy"
	"wealth-arena/internal/yield"
)

// Per-active-asset combat bonus for offensive/defensive holdings.
const activeAssetCombatBonus = 0.05

// evaluateSynergies classifies the account's owned enhanced assets.
func (c *Controller) evaluateSynergies(a *domain.Account) synergy.Evaluation {
	counts := synergy.CountByCategory(a.Enhanced, c.catalog)
	return synergy.Evaluate(counts, c.tables.Synergies)
}

// businessMultiplier aggregates the basic-asset contribution to the
// work reward, scaled down by unrepaired sabotage damage.
func (c *Controller) businessMultiplier(a *domain.Account) float64 {
	mult := 1.0
	for _, asset := range a.Assets {
		mult += 0.10 * float64(asset.Level) * yield.MilestoneMultiplier(asset.Outlets, c.tables.Milestones)
	}
	if a.Battle.SabotageDamagePct > 0 {
		mult *= 1 - a.Battle.SabotageDamagePct/100
	}
	return mult
}

// enhancedMultiplier sums the work bonuses of active enhanced assets,
// each scaled by its condition efficiency and permanent upgrades. An
// offline asset contributes nothing.
func (c *Controller) enhancedMultiplier(a *domain.Account, nowMs int64) float64 {
	mult := 1.0
	for _, id := range a.Active {
		e, ok := c.catalog[id]
		if !ok {
			continue
		}
		cond, ok := a.Conditions[id]
		if !ok {
			continue
		}
		mult += (e.WorkMultiplier - 1) * condition.EffectiveMultiplier(cond, nowMs)
	}
	return mult
}

// combatBonuses derives the business/synergy attack and defense
// bonuses from active holdings plus synergy effects.
func (c *Controller) combatBonuses(a *domain.Account, eval synergy.Evaluation) (attack, defense float64) {
	for _, id := range a.Active {
		e, ok := c.catalog[id]
		if !ok {
			continue
		}
		switch e.Category {
		case domain.CategoryOffensive:
			attack += activeAssetCombatBonus
		case domain.CategoryDefensive:
			defense += activeAssetCombatBonus
		}
	}
	attack += eval.Effect(synergy.EffectAttackBonus)
	defense += eval.Effect(synergy.EffectDefenseBonus)
	return attack, defense
}

// fighter builds the combat snapshot of an account.
func (c *Controller) fighter(a *domain.Account, nowMs int64) combat.Fighter {
	eval := c.evaluateSynergies(a)
	attack, defense := c.combatBonuses(a, eval)

	f := combat.Fighter{
		ID:           a.ID,
		Credits:      a.Credits,
		Wealth:       a.Wealth,
		AttackBonus:  attack,
		DefenseBonus: defense,
		Battle:       a.Battle.Clone(),
	}

	for _, id := range a.Enhanced {
		e, ok := c.catalog[id]
		if !ok {
			continue
		}
		if e.SabotageImmunity {
			f.SabotageImmunity = true
		}
		if e.SabotageMitigation {
			f.SabotageMitigation = true
		}
	}

	for _, asset := range a.Assets {
		if !asset.LandAsset {
			continue
		}
		f.OwnsLand = true
		cyclesPerDay := int64(24*60*60*1000) / asset.CycleMs
		f.LandDailyYield += yield.ProfitPerCycle(asset, c.tables.Milestones) * cyclesPerDay
	}

	return f
}
