package domain

// AttackType identifies one of the four attack kinds.
type AttackType string

// Attack types.
const (
	AttackStandard      AttackType = "standard"
	AttackWealthAssault AttackType = "wealth_assault"
	AttackLandSiege     AttackType = "land_siege"
	AttackSabotage      AttackType = "business_sabotage"
)

// AttackTypes lists all attack types in canonical order.
var AttackTypes = []AttackType{
	AttackStandard,
	AttackWealthAssault,
	AttackLandSiege,
	AttackSabotage,
}

// ConsecutiveHits tracks successive successful attacks against one
// defender, used for cost escalation, loot slippage and raid gating.
type ConsecutiveHits struct {
	Count  int
	LastAt int64 // unix ms of the last recorded success
}

// Raid is an active multi-day payout won through a land siege.
type Raid struct {
	RaidID       string
	DefenderID   string
	DailyYield   int64
	DaysLeft     int
	TriggeredAt  int64
	LastPayoutAt int64
}

// Tribute grants the payer immunity from one specific target.
type Tribute struct {
	TargetID string
	Until    int64 // unix ms
}

// BattleState holds all combat-related account state. Mutated only by
// combat commands and time-based expiry checks.
type BattleState struct {
	LastAttackAt   map[AttackType]int64 // per-type cooldown anchors
	LastDefendedAt int64                // start of the post-defense immunity window
	ShieldUntil    int64                // unix ms, 0 = no shield

	// Hits is keyed by defender id on the attacker's side.
	Hits map[string]*ConsecutiveHits

	Raids    []Raid
	Tributes []Tribute

	// SabotageDamagePct is the accumulated, repairable work-multiplier
	// debuff in percent (0..100).
	SabotageDamagePct float64
}

// NewBattleState returns an empty, initialized battle state.
func NewBattleState() BattleState {
	return BattleState{
		LastAttackAt: make(map[AttackType]int64),
		Hits:         make(map[string]*ConsecutiveHits),
	}
}

// Clone returns a deep copy.
func (b BattleState) Clone() BattleState {
	cp := b
	cp.LastAttackAt = make(map[AttackType]int64, len(b.LastAttackAt))
	for k, v := range b.LastAttackAt {
		cp.LastAttackAt[k] = v
	}
	cp.Hits = make(map[string]*ConsecutiveHits, len(b.Hits))
	for k, v := range b.Hits {
		h := *v
		cp.Hits[k] = &h
	}
	cp.Raids = append([]Raid(nil), b.Raids...)
	cp.Tributes = append([]Tribute(nil), b.Tributes...)
	return cp
}

// ShieldActive reports whether a shield is unexpired at nowMs.
func (b BattleState) ShieldActive(nowMs int64) bool {
	return b.ShieldUntil > nowMs
}

// TributeTo returns the unexpired tribute to targetID, or nil.
func (b BattleState) TributeTo(targetID string, nowMs int64) *Tribute {
	for i := range b.Tributes {
		if b.Tributes[i].TargetID == targetID && b.Tributes[i].Until > nowMs {
			return &b.Tributes[i]
		}
	}
	return nil
}

// HitsAgainst returns the consecutive-success record for defenderID,
// treating a missing entry as zero.
func (b BattleState) HitsAgainst(defenderID string) ConsecutiveHits {
	if h, ok := b.Hits[defenderID]; ok {
		return *h
	}
	return ConsecutiveHits{}
}
