package synergy

import (
	"math"
	"testing"

	"wealth-arena/internal/domain"
)

func testDefs() []domain.SynergyDef {
	return []domain.SynergyDef{
		{
			Name:     "efficiency_network",
			Priority: 10,
			Required: []domain.Category{domain.CategoryEfficiency},
			MinCount: 2,
			Effects:  map[string]float64{EffectWorkMultiplier: 0.15},
		},
		{
			Name:     "war_machine",
			Priority: 30,
			Required: []domain.Category{domain.CategoryOffensive},
			MinCount: 2,
			Effects:  map[string]float64{EffectAttackBonus: 0.10},
		},
		{
			Name:     "logistics_combine",
			Priority: 40,
			Required: []domain.Category{domain.CategoryEfficiency, domain.CategoryUtility},
			MinCount: 4,
			Effects:  map[string]float64{EffectWorkMultiplier: 0.25, EffectCostReduction: 0.10},
		},
		{
			Name:        "complete_monopoly",
			Priority:    100,
			Required:    domain.Categories,
			MinCount:    4,
			CompleteSet: true,
			Effects: map[string]float64{
				EffectWorkMultiplier: 0.50,
				EffectAttackBonus:    0.15,
				EffectDefenseBonus:   0.15,
			},
		},
	}
}

func TestCountByCategory(t *testing.T) {
	catalog := map[string]domain.EnhancedAsset{
		"a": {ID: "a", Category: domain.CategoryEfficiency},
		"b": {ID: "b", Category: domain.CategoryEfficiency},
		"c": {ID: "c", Category: domain.CategoryOffensive},
	}

	counts := CountByCategory([]string{"a", "b", "c", "missing"}, catalog)
	if counts[domain.CategoryEfficiency] != 2 {
		t.Errorf("efficiency count = %d, want 2", counts[domain.CategoryEfficiency])
	}
	if counts[domain.CategoryOffensive] != 1 {
		t.Errorf("offensive count = %d, want 1", counts[domain.CategoryOffensive])
	}
	if counts[domain.CategoryDefensive] != 0 {
		t.Errorf("defensive count = %d, want 0", counts[domain.CategoryDefensive])
	}
}

func TestEvaluate_NoneActive(t *testing.T) {
	eval := Evaluate(map[domain.Category]int{domain.CategoryEfficiency: 1}, testDefs())
	if eval.ActiveCount() != 0 {
		t.Fatalf("ActiveCount = %d, want 0", eval.ActiveCount())
	}
	if eval.Effect(EffectWorkMultiplier) != 0 {
		t.Errorf("work multiplier effect = %v, want 0", eval.Effect(EffectWorkMultiplier))
	}
}

func TestEvaluate_SingleCategory(t *testing.T) {
	counts := map[domain.Category]int{domain.CategoryEfficiency: 2}
	eval := Evaluate(counts, testDefs())

	if eval.ActiveCount() != 1 {
		t.Fatalf("ActiveCount = %d, want 1", eval.ActiveCount())
	}
	if eval.Active[0].Name != "efficiency_network" {
		t.Errorf("active synergy = %s, want efficiency_network", eval.Active[0].Name)
	}
	if got := eval.Effect(EffectWorkMultiplier); math.Abs(got-0.15) > 1e-9 {
		t.Errorf("work multiplier effect = %v, want 0.15", got)
	}
}

func TestEvaluate_MultiCategoryMinimum(t *testing.T) {
	// logistics_combine needs ceil(4/2)=2 per required category.
	counts := map[domain.Category]int{
		domain.CategoryEfficiency: 2,
		domain.CategoryUtility:    1,
	}
	eval := Evaluate(counts, testDefs())
	for _, def := range eval.Active {
		if def.Name == "logistics_combine" {
			t.Fatal("logistics_combine should not activate with 1 utility asset")
		}
	}

	counts[domain.CategoryUtility] = 2
	eval = Evaluate(counts, testDefs())
	found := false
	for _, def := range eval.Active {
		if def.Name == "logistics_combine" {
			found = true
		}
	}
	if !found {
		t.Fatal("logistics_combine should activate with 2 efficiency and 2 utility")
	}
}

func TestEvaluate_HigherPrioritySuppressesSharedKeys(t *testing.T) {
	// Both logistics_combine and efficiency_network define the work
	// multiplier key; only the higher-priority one may contribute.
	counts := map[domain.Category]int{
		domain.CategoryEfficiency: 2,
		domain.CategoryUtility:    2,
	}
	eval := Evaluate(counts, testDefs())

	if eval.ActiveCount() != 2 {
		t.Fatalf("ActiveCount = %d, want 2", eval.ActiveCount())
	}
	if got := eval.Effect(EffectWorkMultiplier); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("work multiplier effect = %v, want 0.25 (suppressed stacking)", got)
	}
	if got := eval.Effect(EffectCostReduction); math.Abs(got-0.10) > 1e-9 {
		t.Errorf("cost reduction effect = %v, want 0.10", got)
	}
}

func TestEvaluate_CompleteSetDominates(t *testing.T) {
	counts := map[domain.Category]int{
		domain.CategoryEfficiency: 2,
		domain.CategoryDefensive:  1,
		domain.CategoryOffensive:  2,
		domain.CategoryUtility:    2,
	}
	eval := Evaluate(counts, testDefs())

	if eval.Active[0].Name != "complete_monopoly" {
		t.Fatalf("highest-priority active = %s, want complete_monopoly", eval.Active[0].Name)
	}
	// The monopoly defines all three combat/work keys, so the lower
	// synergies may only add keys it does not define.
	if got := eval.Effect(EffectWorkMultiplier); math.Abs(got-0.50) > 1e-9 {
		t.Errorf("work multiplier effect = %v, want 0.50", got)
	}
	if got := eval.Effect(EffectAttackBonus); math.Abs(got-0.15) > 1e-9 {
		t.Errorf("attack bonus = %v, want 0.15", got)
	}
	if got := eval.Effect(EffectCostReduction); math.Abs(got-0.10) > 1e-9 {
		t.Errorf("cost reduction = %v, want 0.10 from logistics_combine", got)
	}
}
