package domain

// SwapDirection selects which reserve the input is added to.
type SwapDirection string

// Swap directions.
const (
	SwapCreditsToWealth SwapDirection = "credits_to_wealth"
	SwapWealthToCredits SwapDirection = "wealth_to_credits"
)

// LiquidityPool is the constant-product pool converting between the
// two in-game currencies. Both reserves stay > 0 while the pool is
// active; reserveA*reserveB never decreases across a swap once the
// fee is retained in the output reserve.
type LiquidityPool struct {
	PoolID         string
	ReserveCredits float64
	ReserveWealth  float64
	FeeBps         int64 // fee in basis points, deducted from output
	Paused         bool
	MaxTradeSize   float64

	// Version guards concurrent swap commits.
	Version int64
}

// Clone returns a copy.
func (p *LiquidityPool) Clone() *LiquidityPool {
	cp := *p
	return &cp
}

// SwapQuote is the pure pricing result for a proposed swap.
type SwapQuote struct {
	Direction      SwapDirection
	AmountIn       float64
	AmountOut      float64 // after fee
	Fee            float64
	PriceImpactPct float64
	// Reserves after applying the swap (fee retained in the pool).
	NewReserveCredits float64
	NewReserveWealth  float64
}
