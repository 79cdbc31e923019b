// Package combat resolves player-versus-player attacks: eligibility
// gating, success probability, theft with diminishing returns,
// counter-attacks, escalating retry costs and raid triggering. All
// functions are pure; randomness enters only through caller-supplied
// rolls so resolution is deterministic under test.
package combat

import (
	"math"

	"wealth-arena/internal/domain"
)

// Fighter is the read-only snapshot of one side of an attack.
type Fighter struct {
	ID      string
	Credits int64
	Wealth  int64

	// Aggregated business/synergy bonuses.
	AttackBonus  float64
	DefenseBonus float64

	// Sabotage defenses from owned enhanced assets.
	SabotageImmunity   bool
	SabotageMitigation bool

	// Land holdings (raid eligibility).
	OwnsLand       bool
	LandDailyYield int64

	Battle domain.BattleState
}

// Balance returns the fighter's balance in the given currency.
func (f Fighter) Balance(c domain.Currency) int64 {
	if c == domain.CurrencyWealth {
		return f.Wealth
	}
	return f.Credits
}

// Input carries everything needed to gate and resolve one attack.
type Input struct {
	Attacker Fighter
	Defender Fighter

	Type    domain.AttackType
	TypeCfg domain.AttackConfig
	Tiers   []domain.WealthTier
	Cfg     domain.CombatConfig

	NowMs int64

	// Roll decides success (success iff Roll < success rate);
	// CounterRoll decides the counter-attack on failure. Both in [0, 1).
	Roll        float64
	CounterRoll float64
}

// Outcome is the resolution result. The caller commits it atomically
// to both accounts.
type Outcome struct {
	Success     bool
	SuccessRate float64
	// CostCharged is the escalated attack cost, deducted on every
	// valid attempt regardless of outcome.
	CostCharged int64
	Currency    domain.Currency

	// Theft is the pre-slippage amount; Loot is what the attacker
	// actually gains after diminishing returns.
	Theft int64
	Loot  int64

	// Failure path. Penalty is charged in addition to CostCharged.
	Penalty       int64
	CounterAttack bool

	// Sabotage path.
	SabotagePct float64

	// Raid path.
	RaidTriggered bool
	Raid          *domain.Raid

	// Consecutive is the attacker's consecutive-success count against
	// this defender after resolution.
	Consecutive int
}

// TierFor finds the wealth tier containing the given wealth. Bands are
// contiguous and the last band is unbounded (MaxWealth == 0).
func TierFor(wealth int64, tiers []domain.WealthTier) (domain.WealthTier, bool) {
	for _, t := range tiers {
		if wealth >= t.MinWealth && (t.MaxWealth == 0 || wealth < t.MaxWealth) {
			return t, true
		}
	}
	return domain.WealthTier{}, false
}

// ConsecutiveAgainst returns the attacker's live consecutive-success
// count against defenderID. A streak older than the raid window has
// lapsed and counts as zero.
func ConsecutiveAgainst(battle domain.BattleState, defenderID string, nowMs, windowMs int64) int {
	h := battle.HitsAgainst(defenderID)
	if h.Count == 0 {
		return 0
	}
	if nowMs-h.LastAt > windowMs {
		return 0
	}
	return h.Count
}

// EscalatedCost charges 10% (the configured step) more per consecutive
// success against the same defender, rounded up.
func EscalatedCost(base int64, consecutive int, step float64) int64 {
	return int64(math.Ceil(float64(base) * (1 + step*float64(consecutive))))
}

// SuccessRate combines the base rate, both wealth-tier modifiers and
// both business/synergy bonuses, clamped to the configured band.
func SuccessRate(attacker, defender Fighter, tiers []domain.WealthTier, cfg domain.CombatConfig) float64 {
	rate := cfg.BaseSuccess
	if t, ok := TierFor(attacker.Wealth, tiers); ok {
		rate += t.Modifier
	}
	if t, ok := TierFor(defender.Wealth, tiers); ok {
		rate -= t.Modifier
	}
	rate += attacker.AttackBonus
	rate -= defender.DefenseBonus
	return math.Min(cfg.MaxSuccess, math.Max(cfg.MinSuccess, rate))
}

// CheckEligibility runs the precondition chain and returns the first
// failure, or FailNone. Funds and stakes are checked before the
// defense gates. No state is touched.
func CheckEligibility(in Input) domain.FailureReason {
	atk, def := in.Attacker, in.Defender

	if def.Wealth < in.Cfg.MinTargetWealth {
		return domain.FailBelowMinimumWealth
	}

	if in.Type == domain.AttackWealthAssault || in.Type == domain.AttackLandSiege {
		required := int64(math.Ceil(float64(def.Wealth) * in.Cfg.AssaultWealthFraction))
		if atk.Wealth < required {
			return domain.FailBelowMinimumWealth
		}
	}

	if last, ok := atk.Battle.LastAttackAt[in.Type]; ok && in.NowMs < last+in.TypeCfg.CooldownMs {
		return domain.FailCooldownActive
	}

	consecutive := ConsecutiveAgainst(atk.Battle, def.ID, in.NowMs, in.Cfg.RaidWindowMs)
	cost := EscalatedCost(in.TypeCfg.Cost, consecutive, in.Cfg.EscalationStep)
	if atk.Balance(in.TypeCfg.Currency) < cost {
		return domain.FailInsufficientFunds
	}

	lower := int64(math.Floor(float64(atk.Wealth) * in.Cfg.WealthRatioMin))
	upper := int64(math.Ceil(float64(atk.Wealth) * in.Cfg.WealthRatioMax))
	if def.Wealth < lower || def.Wealth > upper {
		return domain.FailOutOfWealthRange
	}

	if !in.TypeCfg.BypassDefense {
		if in.NowMs < def.Battle.LastDefendedAt+in.Cfg.DefenseImmunityMs {
			return domain.FailDefenseImmune
		}
		if def.Battle.ShieldActive(in.NowMs) {
			return domain.FailShielded
		}
		// A tribute the defender paid to this attacker buys them off.
		if def.Battle.TributeTo(atk.ID, in.NowMs) != nil {
			return domain.FailTributeProtected
		}
	}

	return domain.FailNone
}

// Resolve executes an eligible attack. The escalated cost is always
// charged; success steals from the defender's wealth tier, failure
// costs a penalty with a counter-attack chance.
func Resolve(in Input, raidID string) Outcome {
	consecutive := ConsecutiveAgainst(in.Attacker.Battle, in.Defender.ID, in.NowMs, in.Cfg.RaidWindowMs)
	cost := EscalatedCost(in.TypeCfg.Cost, consecutive, in.Cfg.EscalationStep)
	rate := SuccessRate(in.Attacker, in.Defender, in.Tiers, in.Cfg)

	out := Outcome{
		SuccessRate: rate,
		CostCharged: cost,
		Currency:    in.TypeCfg.Currency,
	}

	if in.Roll >= rate {
		return resolveFailure(in, out, cost)
	}

	out.Success = true
	out.Consecutive = consecutive + 1

	if in.Type == domain.AttackSabotage {
		out.SabotagePct = sabotageDamage(in.Defender, in.Cfg)
		return out
	}

	tier, ok := TierFor(in.Defender.Wealth, in.Tiers)
	if ok {
		theft := int64(math.Floor(float64(in.Defender.Wealth) * tier.TheftRate))
		if theft > tier.MaxTheft {
			theft = tier.MaxTheft
		}
		out.Theft = theft

		slippage := math.Max(in.Cfg.SlippageFloor, 1-in.Cfg.SlippageStep*float64(consecutive))
		out.Loot = int64(math.Floor(float64(theft) * slippage))
	}

	if in.Type == domain.AttackLandSiege {
		out.RaidTriggered, out.Raid = checkRaid(in, out.Consecutive, raidID)
	}

	return out
}

// resolveFailure applies the per-type penalty and the counter-attack
// chance, and resets the consecutive streak. The penalty is charged on
// top of CostCharged, which the caller deducts on every attempt.
func resolveFailure(in Input, out Outcome, cost int64) Outcome {
	switch in.TypeCfg.PenaltyMode {
	case domain.PenaltyHalfCost:
		out.Penalty = int64(math.Ceil(float64(cost) / 2))
	default:
		out.Penalty = in.TypeCfg.Surcharge
	}

	if in.CounterRoll < in.Cfg.CounterAttackChance {
		out.CounterAttack = true
		out.Penalty *= 2
	}

	out.Consecutive = 0
	return out
}

// sabotageDamage computes the work-multiplier debuff, honoring the
// defender's immunity and mitigation assets.
func sabotageDamage(def Fighter, cfg domain.CombatConfig) float64 {
	if def.SabotageImmunity {
		return 0
	}
	dmg := cfg.SabotageDamagePct
	if def.SabotageMitigation {
		dmg /= 2
	}
	if def.Battle.SabotageDamagePct+dmg > cfg.SabotageMaxPct {
		dmg = cfg.SabotageMaxPct - def.Battle.SabotageDamagePct
	}
	if dmg < 0 {
		dmg = 0
	}
	return dmg
}

// checkRaid triggers a raid when the attacker has accumulated enough
// consecutive successes inside the rolling window against a land
// owner. The raid pays a fixed fraction of the defender's daily land
// yield for a fixed number of days.
func checkRaid(in Input, consecutive int, raidID string) (bool, *domain.Raid) {
	if !in.Defender.OwnsLand {
		return false, nil
	}
	if consecutive < in.Cfg.RaidMinConsecutive {
		return false, nil
	}

	daily := int64(math.Floor(float64(in.Defender.LandDailyYield) * in.Cfg.RaidYieldFraction))
	if daily <= 0 {
		return false, nil
	}
	return true, &domain.Raid{
		RaidID:      raidID,
		DefenderID:  in.Defender.ID,
		DailyYield:  daily,
		DaysLeft:    in.Cfg.RaidDays,
		TriggeredAt: in.NowMs,
	}
}

// SabotageRepairCost prices repairing accumulated sabotage damage.
func SabotageRepairCost(damagePct float64, cfg domain.CombatConfig) int64 {
	return int64(math.Ceil(damagePct * float64(cfg.SabotageRepairPerPct)))
}

// CollectRaidPayouts advances active raids to nowMs and returns the
// surviving raids plus the total payout due. Each raid pays its daily
// yield once per elapsed day until its days run out.
func CollectRaidPayouts(raids []domain.Raid, nowMs int64) ([]domain.Raid, int64) {
	const dayMs = int64(24 * 60 * 60 * 1000)

	var kept []domain.Raid
	var total int64
	for _, r := range raids {
		anchor := r.LastPayoutAt
		if anchor == 0 {
			anchor = r.TriggeredAt
		}
		days := int((nowMs - anchor) / dayMs)
		if days > r.DaysLeft {
			days = r.DaysLeft
		}
		if days > 0 {
			total += r.DailyYield * int64(days)
			r.DaysLeft -= days
			r.LastPayoutAt = anchor + int64(days)*dayMs
		}
		if r.DaysLeft > 0 {
			kept = append(kept, r)
		}
	}
	return kept, total
}
