package economy

import (
	"fmt"
	"math"
	"time"

	"wealth-arena/internal/combat"
	"wealth-arena/internal/condition"
	"wealth-arena/internal/domain"
	"wealth-arena/internal/idhash"
	"wealth-arena/internal/synergy"
)

// reduceWork applies one work action to the account clone. The work
// action is also the natural time-check: asset degradation and due
// raid payouts advance here.
func (c *Controller) reduceWork(a *domain.Account, nowMs int64) (domain.Result, []domain.Event) {
	work := c.tables.Work

	// Extended lockout after exhausting the session.
	if a.WorkLockoutUntil > 0 {
		if nowMs < a.WorkLockoutUntil {
			return domain.Failure(domain.FailWorkLockout, "work session locked out"), nil
		}
		a.WorkLockoutUntil = 0
		a.WorkSessionCount = 0
	}

	cooldown := work.CooldownMs
	if a.RapidProcessingUntil > nowMs {
		cooldown = work.RapidCooldownMs
	}
	if a.LastWorkAt > 0 && nowMs < a.LastWorkAt+cooldown {
		return domain.Failure(domain.FailCooldownActive, "work cooldown active"), nil
	}

	// Advance time-based state before computing the reward.
	c.tickConditions(a, nowMs)
	var raidPayout int64
	a.Battle.Raids, raidPayout = combat.CollectRaidPayouts(a.Battle.Raids, nowMs)

	base := work.BaseReward
	quickService := false
	if a.QuickServiceCharges > 0 {
		base = work.QuickServiceReward
		a.QuickServiceCharges--
		quickService = true
	}

	eval := c.evaluateSynergies(a)
	businessMult := c.businessMultiplier(a)
	enhancedMult := c.enhancedMultiplier(a, nowMs)
	synergyMult := 1 + eval.Effect(synergy.EffectWorkMultiplier)
	effectMult := 1.0
	if a.RapidProcessingUntil > nowMs && a.EffectMultiplier > 0 {
		effectMult = a.EffectMultiplier
	}

	reward := int64(math.Floor(float64(base) * businessMult * enhancedMult * synergyMult * effectMult))
	a.Credits += reward + raidPayout

	streakAdvanced := c.advanceStreak(a, nowMs)
	xp := work.XPBase + work.XPPerStreak*int64(a.WorkStreak)
	a.XP += xp

	a.WorkSessionCount++
	if a.WorkSessionCount >= work.SessionMax {
		a.WorkLockoutUntil = nowMs + work.LockoutMs
	}
	a.WorkSessions++
	a.LastWorkAt = nowMs

	amounts := map[string]int64{
		"reward": reward,
		"xp":     xp,
	}
	if raidPayout > 0 {
		amounts["raidPayout"] = raidPayout
	}

	events := []domain.Event{{
		EventID:   idhash.EventID(string(domain.EventWorked), a.ID, "", nowMs),
		Type:      domain.EventWorked,
		AccountID: a.ID,
		At:        nowMs,
		Amounts:   amounts,
	}}
	if streakAdvanced {
		events = append(events, domain.Event{
			EventID:   idhash.EventID(string(domain.EventStreakAdvanced), a.ID, "", nowMs),
			Type:      domain.EventStreakAdvanced,
			AccountID: a.ID,
			At:        nowMs,
			Amounts:   map[string]int64{"streak": int64(a.WorkStreak)},
		})
	}

	msg := fmt.Sprintf("earned %d credits", reward)
	if quickService {
		msg += " (quick service)"
	}
	return domain.Successful(msg, amounts), events
}

// tickConditions advances degradation for every owned enhanced asset.
func (c *Controller) tickConditions(a *domain.Account, nowMs int64) {
	for id, cond := range a.Conditions {
		e, ok := c.catalog[id]
		if !ok {
			continue
		}
		a.Conditions[id] = condition.Tick(cond, e, nowMs, c.tables.Degradation)
	}
}

// advanceStreak maintains the calendar-day work streak: consecutive
// days extend it, a gap restarts it. Returns true when it moved.
func (c *Controller) advanceStreak(a *domain.Account, nowMs int64) bool {
	if a.LastWorkAt == 0 {
		a.WorkStreak = 1
		return true
	}
	lastDay := time.UnixMilli(a.LastWorkAt).UTC().Truncate(24 * time.Hour)
	today := time.UnixMilli(nowMs).UTC().Truncate(24 * time.Hour)
	switch days := int(today.Sub(lastDay).Hours() / 24); {
	case days == 1:
		a.WorkStreak++
		return true
	case days > 1:
		a.WorkStreak = 1
		return true
	default:
		return false
	}
}
