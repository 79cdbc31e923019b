package economy

import (
	"context"
	"errors"
	"fmt"

	"wealth-arena/internal/combat"
	"wealth-arena/internal/domain"
	"wealth-arena/internal/idhash"
	"wealth-arena/internal/storage"
)

// applyAttack resolves one attack: read both accounts, gate, resolve
// through the pure combat engine, then commit both sides atomically.
func (c *Controller) applyAttack(ctx context.Context, cmd domain.Command, nowMs int64) (domain.Result, []domain.Event, error) {
	if cmd.TargetID == "" || cmd.TargetID == cmd.AccountID {
		return domain.Failure(domain.FailInvalidCommand, "invalid attack target"), nil, nil
	}
	typeCfg, ok := c.tables.Attacks[cmd.AttackType]
	if !ok {
		return domain.Failure(domain.FailInvalidCommand, fmt.Sprintf("unknown attack type %q", cmd.AttackType)), nil, nil
	}

	attacker, err := c.accounts.Get(ctx, cmd.AccountID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Failure(domain.FailUnknownAccount, "account not found"), nil, nil
		}
		return domain.Result{}, nil, err
	}
	defender, err := c.accounts.Get(ctx, cmd.TargetID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Failure(domain.FailUnknownAccount, "target not found"), nil, nil
		}
		return domain.Result{}, nil, err
	}

	in := combat.Input{
		Attacker:    c.fighter(attacker, nowMs),
		Defender:    c.fighter(defender, nowMs),
		Type:        cmd.AttackType,
		TypeCfg:     typeCfg,
		Tiers:       c.tables.WealthTiers,
		Cfg:         c.tables.Combat,
		NowMs:       nowMs,
		Roll:        c.rng.Float64(),
		CounterRoll: c.rng.Float64(),
	}

	if reason := combat.CheckEligibility(in); reason != domain.FailNone {
		return domain.Failure(reason, "attack not eligible"), nil, nil
	}

	raidID := idhash.RaidID(attacker.ID, defender.ID, nowMs)
	out := combat.Resolve(in, raidID)

	atk := attacker.Clone()
	def := defender.Clone()
	c.commitOutcome(atk, def, cmd.AttackType, out, nowMs)

	if err := c.checkBalances(atk, def); err != nil {
		return domain.Result{}, nil, err
	}
	if err := c.accounts.UpdatePair(ctx, atk, def); err != nil {
		return domain.Result{}, nil, err
	}

	return c.attackResult(atk, def, out, nowMs)
}

// commitOutcome writes a combat outcome into both account clones.
func (c *Controller) commitOutcome(atk, def *domain.Account, attackType domain.AttackType, out combat.Outcome, nowMs int64) {
	// Cost is charged on every valid attempt.
	switch out.Currency {
	case domain.CurrencyWealth:
		atk.Wealth -= out.CostCharged
	default:
		atk.Credits -= out.CostCharged
	}
	atk.Battle.LastAttackAt[attackType] = nowMs
	atk.LastActive = nowMs

	if out.Success {
		c.commitSuccess(atk, def, attackType, out, nowMs)
	} else {
		c.commitFailure(atk, def, out, nowMs)
	}
}

func (c *Controller) commitSuccess(atk, def *domain.Account, attackType domain.AttackType, out combat.Outcome, nowMs int64) {
	atk.BattlesWon++
	atk.Battle.Hits[def.ID] = &domain.ConsecutiveHits{Count: out.Consecutive, LastAt: nowMs}

	if attackType == domain.AttackSabotage {
		def.Battle.SabotageDamagePct += out.SabotagePct
		return
	}

	// Loot moves between wealth balances, never below zero.
	loot := out.Loot
	if loot > def.Wealth {
		loot = def.Wealth
	}
	def.Wealth -= loot
	atk.Wealth += loot

	if out.RaidTriggered && out.Raid != nil {
		atk.Battle.Raids = append(atk.Battle.Raids, *out.Raid)
	}
}

func (c *Controller) commitFailure(atk, def *domain.Account, out combat.Outcome, nowMs int64) {
	// Penalty in the attack currency, clamped so balances stay >= 0.
	penalty := out.Penalty
	switch out.Currency {
	case domain.CurrencyWealth:
		if penalty > atk.Wealth {
			penalty = atk.Wealth
		}
		atk.Wealth -= penalty
	default:
		if penalty > atk.Credits {
			penalty = atk.Credits
		}
		atk.Credits -= penalty
	}

	delete(atk.Battle.Hits, def.ID)
	// The defender fended off the attack and enters the immunity
	// window.
	def.Battle.LastDefendedAt = nowMs
}

func (c *Controller) attackResult(atk, def *domain.Account, out combat.Outcome, nowMs int64) (domain.Result, []domain.Event, error) {
	amounts := map[string]int64{
		"cost": out.CostCharged,
	}
	var msg string
	if out.Success {
		amounts["theft"] = out.Theft
		amounts["loot"] = out.Loot
		msg = fmt.Sprintf("attack succeeded, looted %d wealth", out.Loot)
		if out.SabotagePct > 0 {
			amounts["sabotagePct"] = int64(out.SabotagePct)
			msg = fmt.Sprintf("sabotage dealt %.0f%% damage", out.SabotagePct)
		}
		if out.RaidTriggered {
			msg += " (raid triggered)"
		}
	} else {
		amounts["penalty"] = out.Penalty
		msg = "attack failed"
		if out.CounterAttack {
			msg = "attack failed and was countered"
		}
	}

	events := []domain.Event{{
		EventID:   idhash.EventID(string(domain.EventAttackResolved), atk.ID, def.ID, nowMs),
		Type:      domain.EventAttackResolved,
		AccountID: atk.ID,
		TargetID:  def.ID,
		At:        nowMs,
		Amounts:   amounts,
		Detail:    msg,
	}}
	if out.RaidTriggered && out.Raid != nil {
		events = append(events, domain.Event{
			EventID:   idhash.EventID(string(domain.EventRaidTriggered), atk.ID, def.ID, nowMs),
			Type:      domain.EventRaidTriggered,
			AccountID: atk.ID,
			TargetID:  def.ID,
			At:        nowMs,
			Amounts:   map[string]int64{"dailyYield": out.Raid.DailyYield, "days": int64(out.Raid.DaysLeft)},
		})
	}

	// A valid attempt always commits (the cost is charged either way);
	// the combat outcome travels in the amounts.
	if out.Success {
		amounts["won"] = 1
	} else {
		amounts["won"] = 0
	}
	return domain.Result{Success: true, Amounts: amounts, Message: msg}, events, nil
}

// reduceShield purchases a shield tier.
func (c *Controller) reduceShield(a *domain.Account, tier string, nowMs int64) (domain.Result, []domain.Event) {
	cfg, ok := c.tables.Shields[tier]
	if !ok {
		return domain.Failure(domain.FailInvalidCommand, fmt.Sprintf("unknown shield tier %q", tier)), nil
	}
	if a.Battle.ShieldActive(nowMs) {
		return domain.Failure(domain.FailAlreadyProtected, "shield already active"), nil
	}
	if !debit(a, domain.CurrencyCredits, cfg.Cost) {
		return domain.Failure(domain.FailInsufficientFunds, "insufficient credits"), nil
	}
	a.Battle.ShieldUntil = nowMs + cfg.DurationMs

	return domain.Successful(fmt.Sprintf("%s shield active", tier), map[string]int64{"cost": cfg.Cost}),
		[]domain.Event{{
			EventID:   idhash.EventID(string(domain.EventShieldActivated), a.ID, "", nowMs),
			Type:      domain.EventShieldActivated,
			AccountID: a.ID,
			At:        nowMs,
			Amounts:   map[string]int64{"cost": cfg.Cost, "until": a.Battle.ShieldUntil},
			Detail:    tier,
		}}
}

// reduceTribute pays tribute for protection from one specific target.
func (c *Controller) reduceTribute(a *domain.Account, targetID string, nowMs int64) (domain.Result, []domain.Event) {
	if targetID == "" || targetID == a.ID {
		return domain.Failure(domain.FailInvalidCommand, "invalid tribute target"), nil
	}
	if a.Battle.TributeTo(targetID, nowMs) != nil {
		return domain.Failure(domain.FailAlreadyProtected, "tribute already active for target"), nil
	}
	cfg := c.tables.Tribute
	if !debit(a, domain.CurrencyCredits, cfg.Cost) {
		return domain.Failure(domain.FailInsufficientFunds, "insufficient credits"), nil
	}
	a.Battle.Tributes = append(a.Battle.Tributes, domain.Tribute{
		TargetID: targetID,
		Until:    nowMs + cfg.DurationMs,
	})

	return domain.Successful("tribute paid", map[string]int64{"cost": cfg.Cost}),
		[]domain.Event{{
			EventID:   idhash.EventID(string(domain.EventTributePaid), a.ID, targetID, nowMs),
			Type:      domain.EventTributePaid,
			AccountID: a.ID,
			TargetID:  targetID,
			At:        nowMs,
			Amounts:   map[string]int64{"cost": cfg.Cost},
		}}
}

// reduceRepairSabotage clears accumulated sabotage damage at a cost
// proportional to the damage percentage.
func (c *Controller) reduceRepairSabotage(a *domain.Account, nowMs int64) (domain.Result, []domain.Event) {
	if a.Battle.SabotageDamagePct <= 0 {
		return domain.Failure(domain.FailNotRepairable, "no sabotage damage"), nil
	}
	cost := combat.SabotageRepairCost(a.Battle.SabotageDamagePct, c.tables.Combat)
	if !debit(a, domain.CurrencyCredits, cost) {
		return domain.Failure(domain.FailInsufficientFunds, fmt.Sprintf("repair costs %d credits", cost)), nil
	}
	repaired := a.Battle.SabotageDamagePct
	a.Battle.SabotageDamagePct = 0

	return domain.Successful(fmt.Sprintf("repaired %.0f%% sabotage damage", repaired), map[string]int64{"cost": cost}),
		[]domain.Event{{
			EventID:   idhash.EventID(string(domain.EventSabotageRepaired), a.ID, "", nowMs),
			Type:      domain.EventSabotageRepaired,
			AccountID: a.ID,
			At:        nowMs,
			Amounts:   map[string]int64{"cost": cost, "repairedPct": int64(repaired)},
		}}
}
