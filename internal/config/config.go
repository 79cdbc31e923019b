// Package config loads the game configuration tables from YAML and
// supplies complete defaults so the engine is playable with no file.
package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"wealth-arena/internal/domain"
)

// Time constants in milliseconds.
const (
	minuteMs = int64(60 * 1000)
	hourMs   = 60 * minuteMs
	dayMs    = 24 * hourMs
)

// Default returns the built-in table set.
func Default() *domain.Tables {
	return &domain.Tables{
		Work: domain.WorkConfig{
			BaseReward:         25,
			QuickServiceReward: 40,
			CooldownMs:         2 * hourMs,
			RapidCooldownMs:    1 * hourMs,
			SessionMax:         4,
			LockoutMs:          6 * hourMs,
			XPBase:             10,
			XPPerStreak:        2,
		},
		Milestones: domain.MilestoneConfig{
			Thresholds:   []int{10, 25, 50, 100},
			BonusFactor:  1.2,
			OutletGrowth: 1.15,
		},
		Degradation: domain.DegradationConfig{
			CategoryRates: map[domain.Category]float64{
				domain.CategoryEfficiency: 2.0,
				domain.CategoryDefensive:  1.5,
				domain.CategoryOffensive:  3.0,
				domain.CategoryUtility:    1.0,
			},
			TierMultipliers: map[int]float64{
				1: 1.0,
				2: 1.25,
				3: 1.5,
			},
			SlowdownFactor:    0.5,
			DefaultSlowdownMs: 7 * dayMs,
		},
		Maintenance: map[domain.MaintenanceAction]domain.MaintenanceActionConfig{
			domain.MaintenanceRoutine: {
				CostMultiplier: 0.10,
				Restore:        25,
				SlowdownMs:     7 * dayMs,
			},
			domain.MaintenanceMajor: {
				CostMultiplier: 0.25,
				Restore:        60,
				OfflineMs:      2 * hourMs,
				SlowdownMs:     14 * dayMs,
			},
			domain.MaintenanceUpgrade: {
				CostMultiplier: 0.50,
				Restore:        40,
				OfflineMs:      4 * hourMs,
				SlowdownMs:     10 * dayMs,
				PermanentBonus: 0.05,
			},
			domain.MaintenanceEmergency: {
				CostMultiplier: 0.75,
				Restore:        100,
				OfflineMs:      30 * minuteMs,
				SlowdownMs:     3 * dayMs,
			},
		},
		Synergies: defaultSynergies(),
		Attacks: map[domain.AttackType]domain.AttackConfig{
			domain.AttackStandard: {
				Cost:        50,
				Currency:    domain.CurrencyCredits,
				CooldownMs:  30 * minuteMs,
				PenaltyMode: domain.PenaltySurcharge,
				Surcharge:   25,
			},
			domain.AttackWealthAssault: {
				Cost:        100,
				Currency:    domain.CurrencyWealth,
				CooldownMs:  2 * hourMs,
				PenaltyMode: domain.PenaltySurcharge,
				Surcharge:   50,
			},
			domain.AttackLandSiege: {
				Cost:        200,
				Currency:    domain.CurrencyCredits,
				CooldownMs:  4 * hourMs,
				PenaltyMode: domain.PenaltyHalfCost,
			},
			domain.AttackSabotage: {
				Cost:          150,
				Currency:      domain.CurrencyCredits,
				CooldownMs:    6 * hourMs,
				BypassDefense: true,
				PenaltyMode:   domain.PenaltyHalfCost,
			},
		},
		WealthTiers: []domain.WealthTier{
			{Name: "LOW", MinWealth: 0, MaxWealth: 100, TheftRate: 0.15, Modifier: -0.10, MaxTheft: 10},
			{Name: "MEDIUM", MinWealth: 100, MaxWealth: 500, TheftRate: 0.10, Modifier: 0, MaxTheft: 20},
			{Name: "HIGH", MinWealth: 500, MaxWealth: 2000, TheftRate: 0.08, Modifier: 0.05, MaxTheft: 100},
			{Name: "ELITE", MinWealth: 2000, MaxWealth: 0, TheftRate: 0.05, Modifier: 0.10, MaxTheft: 500},
		},
		Combat: domain.CombatConfig{
			BaseSuccess:           0.6,
			MinSuccess:            0.10,
			MaxSuccess:            0.95,
			MinTargetWealth:       50,
			WealthRatioMin:        0.5,
			WealthRatioMax:        2.0,
			AssaultWealthFraction: 0.25,
			DefenseImmunityMs:     1 * hourMs,
			EscalationStep:        0.10,
			SlippageStep:          0.10,
			SlippageFloor:         0.5,
			CounterAttackChance:   0.25,
			RaidWindowMs:          24 * hourMs,
			RaidMinConsecutive:    3,
			RaidYieldFraction:     0.05,
			RaidDays:              3,
			SabotageDamagePct:     10,
			SabotageMaxPct:        50,
			SabotageRepairPerPct:  20,
		},
		Shields: map[string]domain.ShieldTierConfig{
			"bronze": {Cost: 100, DurationMs: 4 * hourMs},
			"silver": {Cost: 250, DurationMs: 12 * hourMs},
			"gold":   {Cost: 500, DurationMs: 24 * hourMs},
		},
		Tribute: domain.TributeConfig{
			Cost:       75,
			DurationMs: 12 * hourMs,
		},
		Pool: domain.PoolConfig{
			ReserveCredits: 450000,
			ReserveWealth:  12000000,
			FeeBps:         300,
			MaxTradeSize:   50000,
		},
		Catalog:     defaultCatalog(),
		BasicAssets: defaultBasicAssets(),
	}
}

func defaultSynergies() []domain.SynergyDef {
	return []domain.SynergyDef{
		{
			Name:     "efficiency_network",
			Priority: 10,
			Required: []domain.Category{domain.CategoryEfficiency},
			MinCount: 2,
			Effects:  map[string]float64{"workMultiplierBonus": 0.15},
		},
		{
			Name:     "fortress_pact",
			Priority: 20,
			Required: []domain.Category{domain.CategoryDefensive},
			MinCount: 2,
			Effects:  map[string]float64{"defenseBonus": 0.10},
		},
		{
			Name:     "war_machine",
			Priority: 30,
			Required: []domain.Category{domain.CategoryOffensive},
			MinCount: 2,
			Effects:  map[string]float64{"attackBonus": 0.10},
		},
		{
			Name:     "logistics_combine",
			Priority: 40,
			Required: []domain.Category{domain.CategoryEfficiency, domain.CategoryUtility},
			MinCount: 4,
			Effects:  map[string]float64{"workMultiplierBonus": 0.25, "costReduction": 0.10},
		},
		{
			Name:        "complete_monopoly",
			Priority:    100,
			Required:    domain.Categories,
			MinCount:    4,
			CompleteSet: true,
			Effects: map[string]float64{
				"workMultiplierBonus": 0.50,
				"attackBonus":         0.15,
				"defenseBonus":        0.15,
			},
		},
	}
}

func defaultCatalog() []domain.EnhancedAsset {
	return []domain.EnhancedAsset{
		{
			ID: "express_counter", Name: "Express Counter",
			Category: domain.CategoryEfficiency, Tier: 1,
			Cost: 500, CostCurrency: domain.CurrencyCredits,
			WorkMultiplier: 1.2,
			Ability:        domain.Ability{Mode: domain.AbilityInstant, Cost: 50, CooldownMs: 4 * hourMs, Uses: 3},
		},
		{
			ID: "automation_suite", Name: "Automation Suite",
			Category: domain.CategoryEfficiency, Tier: 2,
			Cost: 2000, CostCurrency: domain.CurrencyCredits,
			WorkMultiplier: 1.5,
			Prerequisites:  []string{"express_counter"},
			Ability:        domain.Ability{Mode: domain.AbilitySustained, Cost: 150, DurationMs: 2 * hourMs, WorkMultiplier: 1.5},
		},
		{
			ID: "guard_post", Name: "Guard Post",
			Category: domain.CategoryDefensive, Tier: 1,
			Cost: 600, CostCurrency: domain.CurrencyCredits,
			WorkMultiplier:     1.1,
			SabotageMitigation: true,
			Ability:            domain.Ability{Mode: domain.AbilityPassive},
		},
		{
			ID: "vault_complex", Name: "Vault Complex",
			Category: domain.CategoryDefensive, Tier: 3,
			Cost: 5000, CostCurrency: domain.CurrencyWealth,
			WorkMultiplier:   1.2,
			Prerequisites:    []string{"guard_post"},
			SabotageImmunity: true,
			Ability:          domain.Ability{Mode: domain.AbilityPassive},
		},
		{
			ID: "raider_den", Name: "Raider Den",
			Category: domain.CategoryOffensive, Tier: 1,
			Cost: 800, CostCurrency: domain.CurrencyCredits,
			WorkMultiplier: 1.1,
			Ability:        domain.Ability{Mode: domain.AbilityUpgrade, Cost: 400, PermanentBonus: 0.05},
		},
		{
			ID: "siege_works", Name: "Siege Works",
			Category: domain.CategoryOffensive, Tier: 2,
			Cost: 3000, CostCurrency: domain.CurrencyWealth,
			WorkMultiplier: 1.2,
			Prerequisites:  []string{"raider_den"},
			Ability:        domain.Ability{Mode: domain.AbilityPassive},
		},
		{
			ID: "courier_hub", Name: "Courier Hub",
			Category: domain.CategoryUtility, Tier: 1,
			Cost: 400, CostCurrency: domain.CurrencyCredits,
			WorkMultiplier: 1.15,
			Ability:        domain.Ability{Mode: domain.AbilityInstant, Cost: 40, CooldownMs: 2 * hourMs, Uses: 2},
		},
		{
			ID: "trade_exchange", Name: "Trade Exchange",
			Category: domain.CategoryUtility, Tier: 2,
			Cost: 2500, CostCurrency: domain.CurrencyCredits,
			WorkMultiplier: 1.3,
			Prerequisites:  []string{"courier_hub"},
			Ability:        domain.Ability{Mode: domain.AbilitySustained, Cost: 120, DurationMs: 1 * hourMs, WorkMultiplier: 1.3},
		},
	}
}

func defaultBasicAssets() []domain.Asset {
	return []domain.Asset{
		{ID: "food_stand", Name: "Food Stand", Level: 1, YieldPerTick: 5, Outlets: 1, CycleMs: 10 * minuteMs, Condition: 100, AcquisitionCost: 100},
		{ID: "workshop", Name: "Workshop", Level: 2, YieldPerTick: 12, Outlets: 1, CycleMs: 20 * minuteMs, Condition: 100, AcquisitionCost: 350},
		{ID: "warehouse", Name: "Warehouse", Level: 3, YieldPerTick: 30, Outlets: 1, CycleMs: 30 * minuteMs, Condition: 100, AcquisitionCost: 1200},
		{ID: "land_estate", Name: "Land Estate", Level: 4, YieldPerTick: 80, Outlets: 1, CycleMs: 1 * hourMs, Condition: 100, AcquisitionCost: 5000, LandAsset: true},
	}
}

// Load reads tables from a YAML file layered over the defaults. An
// empty path or missing file yields the defaults unchanged.
func Load(path string) (*domain.Tables, error) {
	tables := Default()
	if path == "" {
		return tables, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return tables, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, tables); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := Validate(tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// Validate checks numeric sanity of a table set.
func Validate(t *domain.Tables) error {
	if t.Work.BaseReward <= 0 {
		return fmt.Errorf("work.base_reward must be positive")
	}
	if t.Work.SessionMax <= 0 {
		return fmt.Errorf("work.session_max must be positive")
	}
	if t.Milestones.OutletGrowth <= 1 {
		return fmt.Errorf("milestones.outlet_growth must be > 1")
	}
	if !sort.IntsAreSorted(t.Milestones.Thresholds) {
		return fmt.Errorf("milestones.thresholds must be ascending")
	}
	if t.Pool.FeeBps < 0 || t.Pool.FeeBps >= 10000 {
		return fmt.Errorf("pool.fee_bps must be in [0, 10000)")
	}
	if t.Pool.ReserveCredits <= 0 || t.Pool.ReserveWealth <= 0 {
		return fmt.Errorf("pool reserves must be positive")
	}
	if t.Combat.MinSuccess < 0 || t.Combat.MaxSuccess > 1 || t.Combat.MinSuccess >= t.Combat.MaxSuccess {
		return fmt.Errorf("combat success clamp [%v, %v] is invalid", t.Combat.MinSuccess, t.Combat.MaxSuccess)
	}
	if err := validateTiers(t.WealthTiers); err != nil {
		return err
	}
	for action, cfg := range t.Maintenance {
		if cfg.CostMultiplier <= 0 {
			return fmt.Errorf("maintenance.%s.cost_multiplier must be positive", action)
		}
		if cfg.Restore <= 0 {
			return fmt.Errorf("maintenance.%s.restore must be positive", action)
		}
	}
	for _, def := range t.Synergies {
		if len(def.Required) == 0 {
			return fmt.Errorf("synergy %q requires at least one category", def.Name)
		}
		if def.MinCount <= 0 {
			return fmt.Errorf("synergy %q min_count must be positive", def.Name)
		}
	}
	for at, cfg := range t.Attacks {
		if cfg.Cost <= 0 {
			return fmt.Errorf("attack %s cost must be positive", at)
		}
		if cfg.Currency != domain.CurrencyCredits && cfg.Currency != domain.CurrencyWealth {
			return fmt.Errorf("attack %s has unknown currency %q", at, cfg.Currency)
		}
	}
	return nil
}

// validateTiers checks the wealth-tier bands are contiguous and
// non-overlapping, starting at zero.
func validateTiers(tiers []domain.WealthTier) error {
	if len(tiers) == 0 {
		return fmt.Errorf("wealth_tiers must not be empty")
	}
	sorted := append([]domain.WealthTier(nil), tiers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinWealth < sorted[j].MinWealth })

	if sorted[0].MinWealth != 0 {
		return fmt.Errorf("wealth_tiers must start at 0")
	}
	for i := 0; i < len(sorted)-1; i++ {
		if sorted[i].MaxWealth != sorted[i+1].MinWealth {
			return fmt.Errorf("wealth tier %q does not end where %q begins", sorted[i].Name, sorted[i+1].Name)
		}
	}
	if sorted[len(sorted)-1].MaxWealth != 0 {
		return fmt.Errorf("last wealth tier %q must be unbounded", sorted[len(sorted)-1].Name)
	}
	return nil
}
