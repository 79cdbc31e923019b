package amm

import (
	"errors"
	"math"
	"testing"

	"wealth-arena/internal/domain"
)

func testPool() *domain.LiquidityPool {
	return &domain.LiquidityPool{
		PoolID:         "main",
		ReserveCredits: 450000,
		ReserveWealth:  12000000,
		FeeBps:         300,
		MaxTradeSize:   50000,
	}
}

func TestQuote_CreditsToWealth(t *testing.T) {
	pool := testPool()

	q, err := Quote(pool, domain.SwapCreditsToWealth, 1000)
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}

	// Constant product: rawOut = 12000000 - k/451000, fee 3% of that.
	k := 450000.0 * 12000000.0
	rawOut := 12000000.0 - k/451000.0
	wantOut := rawOut - rawOut*0.03

	if math.Abs(q.AmountOut-wantOut) > 1e-6 {
		t.Errorf("AmountOut = %v, want %v", q.AmountOut, wantOut)
	}
	if q.AmountOut >= rawOut {
		t.Error("fee was not deducted from output")
	}
	if q.NewReserveCredits != 451000 {
		t.Errorf("NewReserveCredits = %v, want 451000", q.NewReserveCredits)
	}
	// Impact is the relative spot-price move after the trade.
	oldPrice := 12000000.0 / 450000.0
	newPrice := q.NewReserveWealth / q.NewReserveCredits
	wantImpact := math.Abs(newPrice-oldPrice) / oldPrice * 100
	if math.Abs(q.PriceImpactPct-wantImpact) > 1e-9 {
		t.Errorf("PriceImpactPct = %v, want %v", q.PriceImpactPct, wantImpact)
	}
	if q.PriceImpactPct <= 0 {
		t.Errorf("PriceImpactPct = %v, want > 0", q.PriceImpactPct)
	}
}

func TestQuote_Idempotent(t *testing.T) {
	pool := testPool()

	first, err := Quote(pool, domain.SwapCreditsToWealth, 500)
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	second, err := Quote(pool, domain.SwapCreditsToWealth, 500)
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if first.AmountOut != second.AmountOut || first.Fee != second.Fee {
		t.Errorf("quoting twice diverged: %v vs %v", first, second)
	}
	// Quoting never mutates the pool.
	if pool.ReserveCredits != 450000 || pool.ReserveWealth != 12000000 {
		t.Error("Quote mutated pool reserves")
	}
}

func TestQuote_Rejections(t *testing.T) {
	paused := testPool()
	paused.Paused = true
	if _, err := Quote(paused, domain.SwapCreditsToWealth, 100); !errors.Is(err, ErrPoolPaused) {
		t.Errorf("paused pool error = %v, want ErrPoolPaused", err)
	}

	pool := testPool()
	if _, err := Quote(pool, domain.SwapCreditsToWealth, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero amount error = %v, want ErrInvalidAmount", err)
	}
	if _, err := Quote(pool, domain.SwapCreditsToWealth, -5); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative amount error = %v, want ErrInvalidAmount", err)
	}
	if _, err := Quote(pool, domain.SwapCreditsToWealth, 50001); !errors.Is(err, ErrTradeTooLarge) {
		t.Errorf("oversize trade error = %v, want ErrTradeTooLarge", err)
	}

	drained := testPool()
	drained.ReserveWealth = 0
	if _, err := Quote(drained, domain.SwapCreditsToWealth, 100); !errors.Is(err, ErrInvalidReserves) {
		t.Errorf("drained pool error = %v, want ErrInvalidReserves", err)
	}
}

func TestExecute_KNeverDecreases(t *testing.T) {
	pool := testPool()
	k := pool.ReserveCredits * pool.ReserveWealth

	directions := []domain.SwapDirection{
		domain.SwapCreditsToWealth,
		domain.SwapWealthToCredits,
		domain.SwapCreditsToWealth,
	}
	for _, dir := range directions {
		next, _, err := Execute(pool, dir, 2000, 0, 0)
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		newK := next.ReserveCredits * next.ReserveWealth
		if newK < k-1e-6 {
			t.Fatalf("k decreased: %v -> %v", k, newK)
		}
		k = newK
		pool = next
	}
}

func TestExecute_VersionAdvancesAndOriginalUntouched(t *testing.T) {
	pool := testPool()
	pool.Version = 7

	next, q, err := Execute(pool, domain.SwapCreditsToWealth, 100, 0, 0)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if next.Version != 8 {
		t.Errorf("Version = %d, want 8", next.Version)
	}
	if pool.Version != 7 || pool.ReserveCredits != 450000 {
		t.Error("Execute mutated the input pool")
	}
	if next.ReserveCredits != q.NewReserveCredits || next.ReserveWealth != q.NewReserveWealth {
		t.Error("committed reserves disagree with the quote")
	}
}

func TestExecute_SlippageGuard(t *testing.T) {
	pool := testPool()

	q, err := Quote(pool, domain.SwapCreditsToWealth, 1000)
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}

	// Unchanged reserves: the fresh output matches the quote.
	if _, _, err := Execute(pool, domain.SwapCreditsToWealth, 1000, q.AmountOut, 1); err != nil {
		t.Fatalf("Execute with fresh quote failed: %v", err)
	}

	// Someone else trades first; the stale quote is now optimistic.
	moved, _, err := Execute(pool, domain.SwapCreditsToWealth, 40000, 0, 0)
	if err != nil {
		t.Fatalf("setup trade failed: %v", err)
	}
	_, _, err = Execute(moved, domain.SwapCreditsToWealth, 1000, q.AmountOut, 0.01)
	if !errors.Is(err, ErrSlippageExceeded) {
		t.Errorf("stale quote error = %v, want ErrSlippageExceeded", err)
	}

	// A generous tolerance still goes through.
	if _, _, err := Execute(moved, domain.SwapCreditsToWealth, 1000, q.AmountOut, 50); err != nil {
		t.Errorf("tolerant execute failed: %v", err)
	}
}

func TestSpotPrice(t *testing.T) {
	pool := testPool()

	toWealth := SpotPrice(pool, domain.SwapCreditsToWealth)
	toCredits := SpotPrice(pool, domain.SwapWealthToCredits)
	if math.Abs(toWealth-12000000.0/450000.0) > 1e-9 {
		t.Errorf("credits->wealth spot = %v", toWealth)
	}
	if math.Abs(toWealth*toCredits-1) > 1e-9 {
		t.Errorf("spot prices not reciprocal: %v * %v", toWealth, toCredits)
	}

	drained := testPool()
	drained.ReserveCredits = 0
	if SpotPrice(drained, domain.SwapCreditsToWealth) != 0 {
		t.Error("drained pool spot price should be 0")
	}
}
