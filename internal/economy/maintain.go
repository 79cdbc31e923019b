package economy

import (
	"fmt"

	"wealth-arena/internal/condition"
	"wealth-arena/internal/domain"
	"wealth-arena/internal/idhash"
)

// reduceMaintain performs one maintenance action on an owned enhanced
// asset. Validation happens against the degradation-advanced state; a
// failed attempt deducts nothing and changes nothing.
func (c *Controller) reduceMaintain(a *domain.Account, assetID string, action domain.MaintenanceAction, nowMs int64) (domain.Result, []domain.Event) {
	entry, ok := c.catalog[assetID]
	if !ok || !a.OwnsEnhanced(assetID) {
		return domain.Failure(domain.FailInvalidCommand, fmt.Sprintf("enhanced asset %q not owned", assetID)), nil
	}
	cfg, ok := c.tables.Maintenance[action]
	if !ok {
		return domain.Failure(domain.FailInvalidCommand, fmt.Sprintf("unknown maintenance action %q", action)), nil
	}
	cond, ok := a.Conditions[assetID]
	if !ok {
		return domain.Failure(domain.FailInvalidCommand, "no condition tracking for asset"), nil
	}

	eval := c.evaluateSynergies(a)
	cost := condition.MaintenanceCost(entry.Cost, cfg, eval.ActiveCount())
	if a.Credits < cost {
		return domain.Failure(domain.FailInsufficientFunds, fmt.Sprintf("maintenance costs %d credits", cost)), nil
	}

	// Charge, then apply against the degradation-advanced condition.
	a.Credits -= cost
	ticked := condition.Tick(cond, entry, nowMs, c.tables.Degradation)
	recordID := idhash.MaintenanceRecordID(a.ID, assetID, string(action), nowMs)
	a.Conditions[assetID] = condition.ApplyMaintenance(ticked, action, cfg, cost, recordID, nowMs)

	amounts := map[string]int64{
		"cost":      cost,
		"condition": int64(a.Conditions[assetID].Condition),
	}
	return domain.Successful(fmt.Sprintf("%s maintenance on %s", action, entry.Name), amounts),
		[]domain.Event{{
			EventID:   idhash.EventID(string(domain.EventMaintenancePerformed), a.ID, assetID, nowMs),
			Type:      domain.EventMaintenancePerformed,
			AccountID: a.ID,
			At:        nowMs,
			Amounts:   amounts,
			Detail:    string(action),
		}}
}

// reduceActivateAbility triggers an owned asset's ability per its mode.
func (c *Controller) reduceActivateAbility(a *domain.Account, assetID string, nowMs int64) (domain.Result, []domain.Event) {
	entry, ok := c.catalog[assetID]
	if !ok || !a.OwnsEnhanced(assetID) {
		return domain.Failure(domain.FailInvalidCommand, fmt.Sprintf("enhanced asset %q not owned", assetID)), nil
	}

	ability := entry.Ability
	switch ability.Mode {
	case domain.AbilityInstant:
		if last, used := a.AbilityLastUsed[assetID]; used && nowMs < last+ability.CooldownMs {
			return domain.Failure(domain.FailCooldownActive, "ability on cooldown"), nil
		}
		if !debit(a, domain.CurrencyCredits, ability.Cost) {
			return domain.Failure(domain.FailInsufficientFunds, "insufficient credits"), nil
		}
		a.QuickServiceCharges += ability.Uses

	case domain.AbilitySustained:
		if a.RapidProcessingUntil > nowMs {
			return domain.Failure(domain.FailAlreadyProtected, "a sustained ability is already active"), nil
		}
		if !debit(a, domain.CurrencyCredits, ability.Cost) {
			return domain.Failure(domain.FailInsufficientFunds, "insufficient credits"), nil
		}
		a.RapidProcessingUntil = nowMs + ability.DurationMs
		a.EffectMultiplier = ability.WorkMultiplier

	case domain.AbilityUpgrade:
		if _, used := a.AbilityLastUsed[assetID]; used {
			return domain.Failure(domain.FailInvalidCommand, "upgrade already applied"), nil
		}
		if !debit(a, domain.CurrencyCredits, ability.Cost) {
			return domain.Failure(domain.FailInsufficientFunds, "insufficient credits"), nil
		}
		if cond, ok := a.Conditions[assetID]; ok {
			next := cond.Clone()
			next.UpgradeBonus += ability.PermanentBonus
			a.Conditions[assetID] = next
		}

	default:
		return domain.Failure(domain.FailInvalidCommand, "passive abilities cannot be activated"), nil
	}

	if a.AbilityLastUsed == nil {
		a.AbilityLastUsed = make(map[string]int64)
	}
	a.AbilityLastUsed[assetID] = nowMs

	return domain.Successful(fmt.Sprintf("activated %s ability of %s", ability.Mode, entry.Name), map[string]int64{"cost": ability.Cost}),
		[]domain.Event{{
			EventID:   idhash.EventID(string(domain.EventAbilityActivated), a.ID, assetID, nowMs),
			Type:      domain.EventAbilityActivated,
			AccountID: a.ID,
			At:        nowMs,
			Amounts:   map[string]int64{"cost": ability.Cost},
			Detail:    string(ability.Mode),
		}}
}
