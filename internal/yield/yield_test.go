package yield

import (
	"math"
	"testing"

	"wealth-arena/internal/domain"
)

var testMilestones = domain.MilestoneConfig{
	Thresholds:   []int{10, 25, 50, 100},
	BonusFactor:  1.2,
	OutletGrowth: 1.15,
}

func TestMilestoneMultiplier(t *testing.T) {
	tests := []struct {
		outlets int
		want    float64
	}{
		{0, 1.0},
		{9, 1.0},
		{10, 1.2},
		{24, 1.2},
		{25, 1.44},
		{50, 1.728},
		{100, 2.0736},
		{500, 2.0736},
	}

	for _, tt := range tests {
		got := MilestoneMultiplier(tt.outlets, testMilestones)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("MilestoneMultiplier(%d) = %v, want %v", tt.outlets, got, tt.want)
		}
	}
}

func TestProfitPerCycle(t *testing.T) {
	asset := domain.Asset{YieldPerTick: 5, Outlets: 10}

	// 5 * 10 * 1.2 = 60
	if got := ProfitPerCycle(asset, testMilestones); got != 60 {
		t.Errorf("ProfitPerCycle = %d, want 60", got)
	}

	// No outlets, no profit.
	asset.Outlets = 0
	if got := ProfitPerCycle(asset, testMilestones); got != 0 {
		t.Errorf("ProfitPerCycle with zero outlets = %d, want 0", got)
	}
}

func TestProfitPerCycle_FloorsFractional(t *testing.T) {
	// 3 * 11 * 1.2 = 39.6 -> 39
	asset := domain.Asset{YieldPerTick: 3, Outlets: 11}
	if got := ProfitPerCycle(asset, testMilestones); got != 39 {
		t.Errorf("ProfitPerCycle = %d, want 39", got)
	}
}

func TestOutletCost(t *testing.T) {
	// First outlet from 1 existing: 100 * 1.15^0 = 100
	if got := OutletCost(100, 1.15, 1, 1); got != 100 {
		t.Errorf("OutletCost(1,1) = %d, want 100", got)
	}

	// Two outlets from 1 existing: 100 + 115 = 215
	if got := OutletCost(100, 1.15, 1, 2); got != 215 {
		t.Errorf("OutletCost(1,2) = %d, want 215", got)
	}

	// Price grows with current outlet count.
	low := OutletCost(100, 1.15, 1, 1)
	high := OutletCost(100, 1.15, 20, 1)
	if high <= low {
		t.Errorf("expected cost at 20 outlets (%d) above cost at 1 (%d)", high, low)
	}

	if got := OutletCost(100, 1.15, 5, 0); got != 0 {
		t.Errorf("OutletCost with qty 0 = %d, want 0", got)
	}
}

func TestPortfolioValue(t *testing.T) {
	catalog := map[string]domain.EnhancedAsset{
		"guard_post": {ID: "guard_post", Cost: 250},
	}
	account := &domain.Account{
		Assets: []domain.Asset{
			{ID: "food_stand", AcquisitionCost: 50},
			{ID: "workshop", AcquisitionCost: 150},
		},
		Enhanced: []string{"guard_post", "unknown"},
	}

	// 50 + 150 + 250; the unknown id contributes nothing.
	if got := PortfolioValue(account, catalog); got != 450 {
		t.Errorf("PortfolioValue = %d, want 450", got)
	}
}

func TestRiskScore(t *testing.T) {
	if got := RiskScore(nil); got != 0 {
		t.Errorf("RiskScore(empty) = %d, want 0", got)
	}

	assets := []domain.Asset{
		{Condition: 100},
		{Condition: 50},
	}
	// 100 - 75 = 25
	if got := RiskScore(assets); got != 25 {
		t.Errorf("RiskScore = %d, want 25", got)
	}

	worn := []domain.Asset{{Condition: 0}}
	if got := RiskScore(worn); got != 100 {
		t.Errorf("RiskScore(worn) = %d, want 100", got)
	}
}
