package domain

// Configuration tables. These are data, not code: the whole table set
// is externally loadable (internal/config) and passed into the engines
// as arguments. Engines never reach for ambient configuration.

// WorkConfig tunes the work action.
type WorkConfig struct {
	BaseReward         int64 `yaml:"base_reward"`
	QuickServiceReward int64 `yaml:"quick_service_reward"`
	CooldownMs         int64 `yaml:"cooldown_ms"`
	RapidCooldownMs    int64 `yaml:"rapid_cooldown_ms"`
	SessionMax         int   `yaml:"session_max"`
	LockoutMs          int64 `yaml:"lockout_ms"`
	XPBase             int64 `yaml:"xp_base"`
	XPPerStreak        int64 `yaml:"xp_per_streak"`
}

// MilestoneConfig tunes outlet milestones and cost growth.
type MilestoneConfig struct {
	Thresholds   []int   `yaml:"thresholds"`
	BonusFactor  float64 `yaml:"bonus_factor"`
	OutletGrowth float64 `yaml:"outlet_growth"`
}

// DegradationConfig tunes asset wear.
type DegradationConfig struct {
	// CategoryRates are condition points lost per day at tier 1.
	CategoryRates map[Category]float64 `yaml:"category_rates"`
	// TierMultipliers scale the category rate by tier.
	TierMultipliers map[int]float64 `yaml:"tier_multipliers"`
	// SlowdownFactor applies while inside the post-maintenance window.
	SlowdownFactor float64 `yaml:"slowdown_factor"`
	// DefaultSlowdownMs is the window length when an action grants none.
	DefaultSlowdownMs int64 `yaml:"default_slowdown_ms"`
}

// MaintenanceActionConfig describes one maintenance action.
type MaintenanceActionConfig struct {
	CostMultiplier float64 `yaml:"cost_multiplier"`
	Restore        float64 `yaml:"restore"`
	OfflineMs      int64   `yaml:"offline_ms"`
	SlowdownMs     int64   `yaml:"slowdown_ms"`
	// PermanentBonus is applied cumulatively by the upgrade action only.
	PermanentBonus float64 `yaml:"permanent_bonus"`
}

// SynergyDef defines one alliance bonus.
type SynergyDef struct {
	Name     string     `yaml:"name"`
	Priority int        `yaml:"priority"`
	Required []Category `yaml:"required"`
	MinCount int        `yaml:"min_count"`
	// CompleteSet requires >= 1 in every category, bypassing the
	// divided minimum-count formula.
	CompleteSet bool               `yaml:"complete_set"`
	Effects     map[string]float64 `yaml:"effects"`
}

// PenaltyMode selects how a failed attack is penalized.
type PenaltyMode string

// Penalty modes.
const (
	PenaltySurcharge PenaltyMode = "surcharge" // cost + fixed surcharge
	PenaltyHalfCost  PenaltyMode = "half_cost" // half the escalated cost
)

// AttackConfig describes one attack type.
type AttackConfig struct {
	Cost          int64       `yaml:"cost"`
	Currency      Currency    `yaml:"currency"`
	CooldownMs    int64       `yaml:"cooldown_ms"`
	BypassDefense bool        `yaml:"bypass_defense"`
	PenaltyMode   PenaltyMode `yaml:"penalty_mode"`
	Surcharge     int64       `yaml:"surcharge"`
}

// WealthTier is one contiguous defender-wealth band.
type WealthTier struct {
	Name      string  `yaml:"name"`
	MinWealth int64   `yaml:"min_wealth"`
	MaxWealth int64   `yaml:"max_wealth"` // 0 = unbounded
	TheftRate float64 `yaml:"theft_rate"`
	Modifier  float64 `yaml:"modifier"`
	MaxTheft  int64   `yaml:"max_theft"`
}

// CombatConfig tunes combat resolution shared across attack types.
type CombatConfig struct {
	BaseSuccess           float64 `yaml:"base_success"`
	MinSuccess            float64 `yaml:"min_success"`
	MaxSuccess            float64 `yaml:"max_success"`
	MinTargetWealth       int64   `yaml:"min_target_wealth"`
	WealthRatioMin        float64 `yaml:"wealth_ratio_min"`
	WealthRatioMax        float64 `yaml:"wealth_ratio_max"`
	AssaultWealthFraction float64 `yaml:"assault_wealth_fraction"`
	DefenseImmunityMs     int64   `yaml:"defense_immunity_ms"`
	EscalationStep        float64 `yaml:"escalation_step"`
	SlippageStep          float64 `yaml:"slippage_step"`
	SlippageFloor         float64 `yaml:"slippage_floor"`
	CounterAttackChance   float64 `yaml:"counter_attack_chance"`
	RaidWindowMs          int64   `yaml:"raid_window_ms"`
	RaidMinConsecutive    int     `yaml:"raid_min_consecutive"`
	RaidYieldFraction     float64 `yaml:"raid_yield_fraction"`
	RaidDays              int     `yaml:"raid_days"`
	SabotageDamagePct     float64 `yaml:"sabotage_damage_pct"`
	SabotageMaxPct        float64 `yaml:"sabotage_max_pct"`
	SabotageRepairPerPct  int64   `yaml:"sabotage_repair_per_pct"`
}

// ShieldTierConfig describes one purchasable shield tier.
type ShieldTierConfig struct {
	Cost       int64 `yaml:"cost"`
	DurationMs int64 `yaml:"duration_ms"`
}

// TributeConfig tunes tribute payments.
type TributeConfig struct {
	Cost       int64 `yaml:"cost"`
	DurationMs int64 `yaml:"duration_ms"`
}

// PoolConfig seeds the liquidity pool.
type PoolConfig struct {
	ReserveCredits float64 `yaml:"reserve_credits"`
	ReserveWealth  float64 `yaml:"reserve_wealth"`
	FeeBps         int64   `yaml:"fee_bps"`
	MaxTradeSize   float64 `yaml:"max_trade_size"`
}

// Tables is the full, externally loadable game configuration.
type Tables struct {
	Work        WorkConfig                                    `yaml:"work"`
	Milestones  MilestoneConfig                               `yaml:"milestones"`
	Degradation DegradationConfig                             `yaml:"degradation"`
	Maintenance map[MaintenanceAction]MaintenanceActionConfig `yaml:"maintenance"`
	Synergies   []SynergyDef                                  `yaml:"synergies"`
	Attacks     map[AttackType]AttackConfig                   `yaml:"attacks"`
	WealthTiers []WealthTier                                  `yaml:"wealth_tiers"`
	Combat      CombatConfig                                  `yaml:"combat"`
	Shields     map[string]ShieldTierConfig                   `yaml:"shields"`
	Tribute     TributeConfig                                 `yaml:"tribute"`
	Pool        PoolConfig                                    `yaml:"pool"`
	Catalog     []EnhancedAsset                               `yaml:"catalog"`
	BasicAssets []Asset                                       `yaml:"basic_assets"`
}

// CatalogByID indexes the enhanced-asset catalog.
func (t *Tables) CatalogByID() map[string]EnhancedAsset {
	m := make(map[string]EnhancedAsset, len(t.Catalog))
	for _, e := range t.Catalog {
		m[e.ID] = e
	}
	return m
}

// BasicAssetByID returns the basic-asset offer with the given id, or nil.
func (t *Tables) BasicAssetByID(id string) *Asset {
	for i := range t.BasicAssets {
		if t.BasicAssets[i].ID == id {
			return &t.BasicAssets[i]
		}
	}
	return nil
}
