// Package synergy classifies an account's enhanced-asset holdings
// into alliance bonuses. Higher-priority synergies suppress the
// contributions of lower-priority ones on overlapping effect keys, so
// no stat is ever double counted.
package synergy

import (
	"math"
	"sort"

	"wealth-arena/internal/domain"
)

// Effect keys shared between definitions and consumers.
const (
	EffectWorkMultiplier = "workMultiplierBonus"
	EffectAttackBonus    = "attackBonus"
	EffectDefenseBonus   = "defenseBonus"
	EffectCostReduction  = "costReduction"
)

// Evaluation is the outcome of classifying a holding set.
type Evaluation struct {
	// Active definitions, sorted by priority descending.
	Active []domain.SynergyDef
	// Effects holds, per key, the value of the highest-priority active
	// synergy defining that key. Lower-priority definitions of the same
	// key are fully suppressed.
	Effects map[string]float64
}

// ActiveCount returns the number of active synergies.
func (e Evaluation) ActiveCount() int { return len(e.Active) }

// Effect returns the aggregated value for a key, 0 when absent.
func (e Evaluation) Effect(key string) float64 { return e.Effects[key] }

// CountByCategory tallies owned enhanced assets per category.
func CountByCategory(ownedIDs []string, catalog map[string]domain.EnhancedAsset) map[domain.Category]int {
	counts := make(map[domain.Category]int)
	for _, id := range ownedIDs {
		if e, ok := catalog[id]; ok {
			counts[e.Category]++
		}
	}
	return counts
}

// Evaluate classifies the category counts against the definitions.
func Evaluate(counts map[domain.Category]int, defs []domain.SynergyDef) Evaluation {
	var active []domain.SynergyDef
	for _, def := range defs {
		if satisfied(counts, def) {
			active = append(active, def)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority > active[j].Priority
	})

	effects := make(map[string]float64)
	for i, def := range active {
		for key, value := range def.Effects {
			if definedByHigherPriority(active[:i], key) {
				continue
			}
			effects[key] += value
		}
	}

	return Evaluation{Active: active, Effects: effects}
}

// satisfied checks a definition's category requirements. The divided
// minimum applies per required category; a complete-set definition
// instead requires at least one asset in every category.
func satisfied(counts map[domain.Category]int, def domain.SynergyDef) bool {
	if def.CompleteSet {
		for _, cat := range def.Required {
			if counts[cat] < 1 {
				return false
			}
		}
		return true
	}

	perCategory := int(math.Ceil(float64(def.MinCount) / float64(len(def.Required))))
	for _, cat := range def.Required {
		if counts[cat] < perCategory {
			return false
		}
	}
	return true
}

// definedByHigherPriority reports whether any already-accepted
// (higher-priority) active synergy defines the effect key.
func definedByHigherPriority(higher []domain.SynergyDef, key string) bool {
	for _, def := range higher {
		if _, ok := def.Effects[key]; ok {
			return true
		}
	}
	return false
}
