package config

import (
	"os"
	"path/filepath"
	"testing"

	"wealth-arena/internal/domain"
)

func TestDefaultPassesValidation(t *testing.T) {
	tables := Default()
	if err := Validate(tables); err != nil {
		t.Fatalf("Validate(Default()) = %v", err)
	}
}

func TestDefaultWealthTiersContiguous(t *testing.T) {
	tiers := Default().WealthTiers
	if len(tiers) == 0 {
		t.Fatal("no wealth tiers")
	}
	if tiers[0].MinWealth != 0 {
		t.Errorf("first tier starts at %d, want 0", tiers[0].MinWealth)
	}
	for i := 0; i < len(tiers)-1; i++ {
		if tiers[i].MaxWealth != tiers[i+1].MinWealth {
			t.Errorf("tier %q ends at %d but %q starts at %d",
				tiers[i].Name, tiers[i].MaxWealth, tiers[i+1].Name, tiers[i+1].MinWealth)
		}
	}
	if last := tiers[len(tiers)-1]; last.MaxWealth != 0 {
		t.Errorf("last tier %q has max %d, want 0 (unbounded)", last.Name, last.MaxWealth)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	tables, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") = %v", err)
	}
	if tables.Work.BaseReward != Default().Work.BaseReward {
		t.Errorf("base reward = %d, want default %d", tables.Work.BaseReward, Default().Work.BaseReward)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	tables, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load(missing) = %v", err)
	}
	if tables.Pool.FeeBps != Default().Pool.FeeBps {
		t.Errorf("fee bps = %d, want default %d", tables.Pool.FeeBps, Default().Pool.FeeBps)
	}
}

func TestLoadOverlaysYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	body := []byte("work:\n  base_reward: 99\npool:\n  fee_bps: 500\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}

	tables, err := Load(path)
	if err != nil {
		t.Fatalf("Load = %v", err)
	}
	if tables.Work.BaseReward != 99 {
		t.Errorf("base reward = %d, want 99", tables.Work.BaseReward)
	}
	if tables.Pool.FeeBps != 500 {
		t.Errorf("fee bps = %d, want 500", tables.Pool.FeeBps)
	}
	// Untouched sections keep their defaults.
	if tables.Work.SessionMax != Default().Work.SessionMax {
		t.Errorf("session max = %d, want default %d", tables.Work.SessionMax, Default().Work.SessionMax)
	}
}

func TestLoadRejectsInvalidOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	body := []byte("pool:\n  fee_bps: 10000\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for fee_bps out of range")
	}
}

func TestValidateRejectsBrokenTables(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.Tables)
	}{
		{"zero base reward", func(t *domain.Tables) { t.Work.BaseReward = 0 }},
		{"unsorted milestones", func(t *domain.Tables) { t.Milestones.Thresholds = []int{25, 10} }},
		{"outlet growth below one", func(t *domain.Tables) { t.Milestones.OutletGrowth = 0.9 }},
		{"negative reserves", func(t *domain.Tables) { t.Pool.ReserveCredits = -1 }},
		{"inverted success clamp", func(t *domain.Tables) { t.Combat.MinSuccess = 0.9; t.Combat.MaxSuccess = 0.5 }},
		{"tiers not starting at zero", func(t *domain.Tables) { t.WealthTiers[0].MinWealth = 10 }},
		{"bounded last tier", func(t *domain.Tables) { t.WealthTiers[len(t.WealthTiers)-1].MaxWealth = 9999 }},
		{"gap between tiers", func(t *domain.Tables) { t.WealthTiers[0].MaxWealth = 90 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tables := Default()
			tc.mutate(tables)
			if err := Validate(tables); err == nil {
				t.Errorf("Validate accepted tables with %s", tc.name)
			}
		})
	}
}
