package economy

import (
	"context"
	"errors"
	"fmt"
	"math"

	"wealth-arena/internal/amm"
	"wealth-arena/internal/domain"
	"wealth-arena/internal/idhash"
	"wealth-arena/internal/storage"
)

// Quote prices a swap against current reserves without committing
// anything. Quoting twice with unchanged reserves returns identical
// output.
func (c *Controller) Quote(ctx context.Context, direction domain.SwapDirection, amount float64) (*domain.SwapQuote, error) {
	pool, err := c.pools.Get(ctx, c.poolID)
	if err != nil {
		return nil, err
	}
	return amm.Quote(pool, direction, amount)
}

// PoolState returns the current pool snapshot.
func (c *Controller) PoolState(ctx context.Context) (*domain.LiquidityPool, error) {
	return c.pools.Get(ctx, c.poolID)
}

// applySwap converts between the two currencies through the pool. The
// pool commit goes first: a reserve conflict there leaves nothing
// written and the controller replays the whole command against fresh
// state. Once the reserves have moved the command must not be
// replayed, so the account side is committed by re-applying the fixed
// debit and credit against fresh reads until it lands.
func (c *Controller) applySwap(ctx context.Context, cmd domain.Command, nowMs int64) (domain.Result, []domain.Event, error) {
	account, err := c.accounts.Get(ctx, cmd.AccountID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Failure(domain.FailUnknownAccount, "account not found"), nil, nil
		}
		return domain.Result{}, nil, err
	}
	pool, err := c.pools.Get(ctx, c.poolID)
	if err != nil {
		return domain.Result{}, nil, err
	}

	amountIn := int64(math.Ceil(cmd.Amount))
	inCurrency, outCurrency := domain.CurrencyCredits, domain.CurrencyWealth
	if cmd.Direction == domain.SwapWealthToCredits {
		inCurrency, outCurrency = domain.CurrencyWealth, domain.CurrencyCredits
	}

	next := account.Clone()
	if !debit(next, inCurrency, amountIn) {
		return domain.Failure(domain.FailInsufficientFunds, fmt.Sprintf("insufficient %s", inCurrency)), nil, nil
	}

	// The pool is priced on the same integer amount the account is
	// debited for.
	newPool, quote, err := amm.Execute(pool, cmd.Direction, float64(amountIn), cmd.QuotedAmountOut, cmd.MaxSlippagePct)
	if err != nil {
		return swapFailure(err), nil, nil
	}

	amountOut := int64(math.Floor(quote.AmountOut))
	credit(next, outCurrency, amountOut)
	next.LastActive = nowMs

	if err := c.checkBalances(next); err != nil {
		return domain.Result{}, nil, err
	}
	if err := c.pools.Update(ctx, newPool); err != nil {
		return domain.Result{}, nil, err
	}
	if err := c.commitSwapAccount(ctx, next, inCurrency, outCurrency, amountIn, amountOut, nowMs); err != nil {
		// The reserves already moved, so put them back before handing
		// the error up. A replayed command would debit the account a
		// second time otherwise.
		if revertErr := c.revertPool(ctx, newPool.ReserveCredits-pool.ReserveCredits, newPool.ReserveWealth-pool.ReserveWealth); revertErr != nil {
			return domain.Result{}, nil, fmt.Errorf("swap account commit failed: %v; pool revert failed: %w", err, revertErr)
		}
		if errors.Is(err, errSwapFundsRaced) {
			return domain.Failure(domain.FailInsufficientFunds, fmt.Sprintf("insufficient %s", inCurrency)), nil, nil
		}
		return domain.Result{}, nil, err
	}

	amounts := map[string]int64{
		"amountIn":  amountIn,
		"amountOut": amountOut,
		"fee":       int64(math.Ceil(quote.Fee)),
	}
	return domain.Successful(fmt.Sprintf("swapped %d %s for %d %s", amountIn, inCurrency, amountOut, outCurrency), amounts),
		[]domain.Event{{
			EventID:   idhash.EventID(string(domain.EventSwapExecuted), next.ID, "", nowMs),
			Type:      domain.EventSwapExecuted,
			AccountID: next.ID,
			At:        nowMs,
			Amounts:   amounts,
			Detail:    string(cmd.Direction),
		}}, nil
}

// errSwapFundsRaced marks a debit that no longer fits after a
// concurrent write to the same account.
var errSwapFundsRaced = errors.New("swap funds raced away")

// commitSwapAccount lands the debit and credit of an executed swap.
// On a version conflict it re-reads the account and re-applies the
// same integer deltas instead of surfacing the conflict, because the
// pool commit behind this swap has already happened.
func (c *Controller) commitSwapAccount(ctx context.Context, next *domain.Account, inCurrency, outCurrency domain.Currency, amountIn, amountOut, nowMs int64) error {
	err := c.accounts.Update(ctx, next)
	for attempt := 0; attempt < c.retries && errors.Is(err, storage.ErrVersionConflict); attempt++ {
		fresh, getErr := c.accounts.Get(ctx, next.ID)
		if getErr != nil {
			return getErr
		}
		redo := fresh.Clone()
		if !debit(redo, inCurrency, amountIn) {
			return errSwapFundsRaced
		}
		credit(redo, outCurrency, amountOut)
		redo.LastActive = nowMs
		if err = c.accounts.Update(ctx, redo); err == nil {
			*next = *redo
		}
	}
	return err
}

// revertPool applies the inverse reserve deltas of a swap whose
// account side could not be committed.
func (c *Controller) revertPool(ctx context.Context, deltaCredits, deltaWealth float64) error {
	var err error
	for attempt := 0; attempt <= c.retries; attempt++ {
		var pool *domain.LiquidityPool
		if pool, err = c.pools.Get(ctx, c.poolID); err != nil {
			return err
		}
		reverted := pool.Clone()
		reverted.ReserveCredits -= deltaCredits
		reverted.ReserveWealth -= deltaWealth
		reverted.Version++
		if err = c.pools.Update(ctx, reverted); err == nil || !errors.Is(err, storage.ErrVersionConflict) {
			return err
		}
	}
	return err
}

// swapFailure maps amm engine errors onto typed failure reasons.
func swapFailure(err error) domain.Result {
	switch {
	case errors.Is(err, amm.ErrPoolPaused):
		return domain.Failure(domain.FailPoolPaused, "pool is paused")
	case errors.Is(err, amm.ErrTradeTooLarge):
		return domain.Failure(domain.FailTradeTooLarge, "trade exceeds max size")
	case errors.Is(err, amm.ErrSlippageExceeded):
		return domain.Failure(domain.FailSlippageExceeded, "slippage tolerance exceeded")
	default:
		return domain.Failure(domain.FailInvalidCommand, err.Error())
	}
}
