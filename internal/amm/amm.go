// Package amm prices swaps between the two in-game currencies with a
// constant-product two-reserve model. Quoting is pure and idempotent;
// execution additionally enforces the caller's slippage tolerance.
package amm

import (
	"errors"
	"math"

	"wealth-arena/internal/domain"
)

// Engine errors map onto the typed failure reasons at the controller
// boundary.
var (
	ErrPoolPaused       = errors.New("pool is paused")
	ErrTradeTooLarge    = errors.New("trade exceeds max trade size")
	ErrInvalidReserves  = errors.New("pool reserves must be positive")
	ErrInvalidAmount    = errors.New("swap amount must be positive")
	ErrSlippageExceeded = errors.New("executed output below slippage tolerance")
)

// Quote prices a swap without touching the pool. The fee is taken from
// the raw constant-product output, so the retained fee grows k
// slightly on every trade.
func Quote(pool *domain.LiquidityPool, direction domain.SwapDirection, amountIn float64) (*domain.SwapQuote, error) {
	if pool.Paused {
		return nil, ErrPoolPaused
	}
	if amountIn <= 0 {
		return nil, ErrInvalidAmount
	}
	if amountIn > pool.MaxTradeSize {
		return nil, ErrTradeTooLarge
	}
	if pool.ReserveCredits <= 0 || pool.ReserveWealth <= 0 {
		return nil, ErrInvalidReserves
	}

	reserveIn, reserveOut := pool.ReserveCredits, pool.ReserveWealth
	if direction == domain.SwapWealthToCredits {
		reserveIn, reserveOut = pool.ReserveWealth, pool.ReserveCredits
	}

	k := reserveIn * reserveOut
	newReserveIn := reserveIn + amountIn
	rawOut := reserveOut - k/newReserveIn
	fee := rawOut * float64(pool.FeeBps) / 10000
	amountOut := rawOut - fee

	// Fee stays in the output reserve.
	newReserveOut := reserveOut - amountOut

	oldPrice := reserveOut / reserveIn
	newPrice := newReserveOut / newReserveIn
	impact := math.Abs(newPrice-oldPrice) / oldPrice * 100

	q := &domain.SwapQuote{
		Direction:      direction,
		AmountIn:       amountIn,
		AmountOut:      amountOut,
		Fee:            fee,
		PriceImpactPct: impact,
	}
	if direction == domain.SwapCreditsToWealth {
		q.NewReserveCredits = newReserveIn
		q.NewReserveWealth = newReserveOut
	} else {
		q.NewReserveWealth = newReserveIn
		q.NewReserveCredits = newReserveOut
	}
	return q, nil
}

// Execute re-quotes against the pool's current reserves and commits
// the swap to a copy of the pool. quotedOut is the output the caller
// was promised; execution fails if the fresh output has slipped below
// quotedOut*(1 - maxSlippagePct/100). Pass quotedOut <= 0 to skip the
// guard (the caller accepts any price).
func Execute(pool *domain.LiquidityPool, direction domain.SwapDirection, amountIn, quotedOut, maxSlippagePct float64) (*domain.LiquidityPool, *domain.SwapQuote, error) {
	q, err := Quote(pool, direction, amountIn)
	if err != nil {
		return nil, nil, err
	}

	if quotedOut > 0 {
		minOut := quotedOut * (1 - maxSlippagePct/100)
		if q.AmountOut < minOut {
			return nil, nil, ErrSlippageExceeded
		}
	}

	next := pool.Clone()
	next.ReserveCredits = q.NewReserveCredits
	next.ReserveWealth = q.NewReserveWealth
	next.Version++
	return next, q, nil
}

// SpotPrice returns the marginal output-per-input exchange rate for a
// direction, zero when reserves are unusable.
func SpotPrice(pool *domain.LiquidityPool, direction domain.SwapDirection) float64 {
	if pool.ReserveCredits <= 0 || pool.ReserveWealth <= 0 {
		return 0
	}
	if direction == domain.SwapCreditsToWealth {
		return pool.ReserveWealth / pool.ReserveCredits
	}
	return pool.ReserveCredits / pool.ReserveWealth
}
