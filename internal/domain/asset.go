package domain

// Asset is a basic productive unit owned exclusively by one account.
type Asset struct {
	ID              string
	Name            string
	Level           int
	YieldPerTick    int64 // credits per cycle per outlet
	Outlets         int
	CycleMs         int64
	Condition       float64 // 0..100
	AcquisitionCost int64
	LandAsset       bool // land assets are raid-eligible targets
}

// Category classifies enhanced assets for synergy and degradation.
type Category string

// Enhanced-asset categories.
const (
	CategoryEfficiency Category = "efficiency"
	CategoryDefensive  Category = "defensive"
	CategoryOffensive  Category = "offensive"
	CategoryUtility    Category = "utility"
)

// Categories lists all categories in canonical order.
var Categories = []Category{
	CategoryEfficiency,
	CategoryDefensive,
	CategoryOffensive,
	CategoryUtility,
}

// AbilityMode discriminates the ability sum type. Per-mode fields live
// on Ability; only the fields for the tagged mode are meaningful.
type AbilityMode string

// Ability modes.
const (
	AbilityInstant   AbilityMode = "instant"
	AbilitySustained AbilityMode = "sustained"
	AbilityUpgrade   AbilityMode = "upgrade"
	AbilityPassive   AbilityMode = "passive"
)

// Ability describes an enhanced asset's special ability.
type Ability struct {
	Mode AbilityMode

	Cost int64 // activation cost in credits (instant/sustained/upgrade)

	// Instant mode.
	CooldownMs int64
	Uses       int // charges granted per activation

	// Sustained mode.
	DurationMs int64
	// WorkMultiplier applied while the sustained window is open.
	WorkMultiplier float64

	// Upgrade mode: one-shot permanent delta.
	PermanentBonus float64
}

// EnhancedAsset is a catalog entry. Accounts reference entries by id;
// the catalog itself is shared, immutable configuration.
type EnhancedAsset struct {
	ID           string
	Name         string
	Category     Category
	Tier         int
	Cost         int64
	CostCurrency Currency
	// WorkMultiplier contributes to the work reward while the asset is
	// active (scaled by its condition efficiency).
	WorkMultiplier float64
	Ability        Ability
	// Prerequisites are catalog ids that must be owned before purchase.
	Prerequisites []string

	// Sabotage defense flags.
	SabotageImmunity   bool // fully blocks sabotage damage
	SabotageMitigation bool // halves sabotage damage
}

// Currency selects which balance a cost is charged against.
type Currency string

// Currencies.
const (
	CurrencyCredits Currency = "credits"
	CurrencyWealth  Currency = "wealth"
)
