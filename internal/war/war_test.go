package war

import (
	"testing"

	"wealth-arena/internal/domain"
)

func samples(ratios ...float64) []domain.WARSample {
	out := make([]domain.WARSample, len(ratios))
	for i, r := range ratios {
		out[i] = domain.WARSample{AccountID: "a", Ratio: r, RecordedAt: int64(i)}
	}
	return out
}

func TestRatio(t *testing.T) {
	if got := Ratio(500, 1000); got != 0.5 {
		t.Errorf("Ratio = %v, want 0.5", got)
	}
	// Empty portfolio guards the division.
	if got := Ratio(500, 0); got != 0 {
		t.Errorf("Ratio with empty portfolio = %v, want 0", got)
	}
	if got := Ratio(0, 1000); got != 0 {
		t.Errorf("Ratio with no wealth = %v, want 0", got)
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		ratio float64
		want  domain.WARTier
	}{
		{0.9, domain.WARTierLegendary},
		{0.8, domain.WARTierLegendary},
		{0.79, domain.WARTierExcellent},
		{0.6, domain.WARTierExcellent},
		{0.5, domain.WARTierGood},
		{0.3, domain.WARTierAverage},
		{0.1, domain.WARTierPoor},
		{0, domain.WARTierPoor},
	}
	for _, tt := range tests {
		if got := TierFor(tt.ratio); got != tt.want {
			t.Errorf("TierFor(%v) = %s, want %s", tt.ratio, got, tt.want)
		}
	}
}

func TestTrendOf(t *testing.T) {
	// Too little history is always stable.
	if got := TrendOf(samples(0.1, 0.9)); got != domain.TrendStable {
		t.Errorf("short history trend = %s, want stable", got)
	}

	if got := TrendOf(samples(0.2, 0.3, 0.4)); got != domain.TrendRising {
		t.Errorf("trend = %s, want rising", got)
	}
	if got := TrendOf(samples(0.4, 0.3, 0.2)); got != domain.TrendFalling {
		t.Errorf("trend = %s, want falling", got)
	}
	// Delta inside the threshold is stable.
	if got := TrendOf(samples(0.40, 0.45, 0.44)); got != domain.TrendStable {
		t.Errorf("trend = %s, want stable", got)
	}

	// Only the trailing window counts: early collapse, recent rise.
	if got := TrendOf(samples(0.9, 0.1, 0.2, 0.3, 0.4)); got != domain.TrendRising {
		t.Errorf("windowed trend = %s, want rising", got)
	}
}

func TestPeak(t *testing.T) {
	if got := Peak(samples(0.2, 0.7, 0.4), 0.5); got != 0.7 {
		t.Errorf("Peak = %v, want 0.7", got)
	}
	// The current ratio can itself be the peak.
	if got := Peak(samples(0.2, 0.3), 0.9); got != 0.9 {
		t.Errorf("Peak = %v, want 0.9", got)
	}
	if got := Peak(nil, 0.1); got != 0.1 {
		t.Errorf("Peak with no history = %v, want 0.1", got)
	}
}

func TestCompute(t *testing.T) {
	history := samples(0.2, 0.3, 0.4)
	record := Compute("a", 450, 1000, history)

	if record.AccountID != "a" {
		t.Errorf("AccountID = %s", record.AccountID)
	}
	if record.Ratio != 0.45 {
		t.Errorf("Ratio = %v, want 0.45", record.Ratio)
	}
	if record.Tier != domain.WARTierGood {
		t.Errorf("Tier = %s, want good", record.Tier)
	}
	if record.Trend != domain.TrendRising {
		t.Errorf("Trend = %s, want rising", record.Trend)
	}
	if record.PeakRatio != 0.45 {
		t.Errorf("PeakRatio = %v, want 0.45", record.PeakRatio)
	}
	if record.PortfolioValue != 1000 {
		t.Errorf("PortfolioValue = %d", record.PortfolioValue)
	}
}
