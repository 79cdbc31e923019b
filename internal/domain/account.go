package domain

// Account is the root aggregate for a single player. The economy
// controller is the only writer; engines receive copies or read-only
// views and never mutate an account in place.
type Account struct {
	ID   string
	Name string

	// Currency balances. Invariant: both are >= 0 after every
	// committed action; no command may commit a negative balance.
	Credits int64 // primary currency
	Wealth  int64 // secondary currency (wealth token)

	// Work / streak state.
	WorkStreak       int
	LastWorkAt       int64 // unix ms, 0 = never worked
	WorkSessionCount int   // work actions inside the current session
	WorkLockoutUntil int64 // unix ms, extended lockout after session cap
	XP               int64
	WorkSessions     int64 // lifetime counter, pushed to leaderboard
	BattlesWon       int64

	// Productive holdings.
	Assets     []Asset                    // basic assets, owned exclusively
	Enhanced   []string                   // owned enhanced-asset catalog ids
	Active     []string                   // active subset of Enhanced, len <= MaxActiveEnhanced
	Conditions map[string]*AssetCondition // per owned enhanced id

	// Ability state.
	QuickServiceCharges  int   // remaining instant-ability charges
	RapidProcessingUntil int64 // sustained ability end, unix ms
	EffectMultiplier     float64
	// AbilityLastUsed anchors per-ability cooldowns and one-shot
	// upgrade abilities, keyed by enhanced-asset id.
	AbilityLastUsed map[string]int64

	Battle BattleState

	// LastActive is bumped on every committed command.
	LastActive int64

	// Version is an optimistic-concurrency counter. Every committed
	// mutation increments it; the two-account combat commit uses it to
	// detect concurrent writers.
	Version int64
}

// MaxActiveEnhanced bounds the active enhanced-asset slots used for
// synergy and combat calculations.
const MaxActiveEnhanced = 3

// NewAccount creates a fresh account with initialized containers.
func NewAccount(id, name string, startingCredits int64, nowMs int64) *Account {
	return &Account{
		ID:              id,
		Name:            name,
		Credits:         startingCredits,
		Conditions:      make(map[string]*AssetCondition),
		AbilityLastUsed: make(map[string]int64),
		Battle:          NewBattleState(),
		LastActive:      nowMs,
	}
}

// Clone returns a deep copy safe to mutate without aliasing the
// original's slices or maps.
func (a *Account) Clone() *Account {
	cp := *a
	cp.Assets = append([]Asset(nil), a.Assets...)
	cp.Enhanced = append([]string(nil), a.Enhanced...)
	cp.Active = append([]string(nil), a.Active...)
	cp.Conditions = make(map[string]*AssetCondition, len(a.Conditions))
	for id, c := range a.Conditions {
		cc := c.Clone()
		cp.Conditions[id] = cc
	}
	cp.AbilityLastUsed = make(map[string]int64, len(a.AbilityLastUsed))
	for id, at := range a.AbilityLastUsed {
		cp.AbilityLastUsed[id] = at
	}
	cp.Battle = a.Battle.Clone()
	return &cp
}

// OwnsEnhanced reports whether the enhanced-asset id is owned.
func (a *Account) OwnsEnhanced(id string) bool {
	for _, e := range a.Enhanced {
		if e == id {
			return true
		}
	}
	return false
}

// OwnsAsset reports whether the basic asset id is owned.
func (a *Account) OwnsAsset(id string) bool {
	for i := range a.Assets {
		if a.Assets[i].ID == id {
			return true
		}
	}
	return false
}

// AssetByID returns a pointer into Assets, or nil.
func (a *Account) AssetByID(id string) *Asset {
	for i := range a.Assets {
		if a.Assets[i].ID == id {
			return &a.Assets[i]
		}
	}
	return nil
}

// Snapshot is the minimal view pushed to the leaderboard service.
type Snapshot struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Wealth       int64  `json:"wealth"`
	AssetCount   int    `json:"assetCount"`
	BattlesWon   int64  `json:"battlesWon"`
	WorkSessions int64  `json:"workSessions"`
	LastActive   int64  `json:"lastActive"`
}

// Snapshot extracts the leaderboard view of the account.
func (a *Account) Snapshot() Snapshot {
	return Snapshot{
		ID:           a.ID,
		Name:         a.Name,
		Wealth:       a.Wealth,
		AssetCount:   len(a.Assets) + len(a.Enhanced),
		BattlesWon:   a.BattlesWon,
		WorkSessions: a.WorkSessions,
		LastActive:   a.LastActive,
	}
}
