// Package economy is the orchestration layer: the only component that
// mutates state. Each command is validated fully against a snapshot,
// reduced through the pure engines, then committed as a single atomic
// write (two writes for combat, guarded by account versions).
package economy

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"wealth-arena/internal/domain"
	"wealth-arena/internal/storage"
)

// Controller errors.
var (
	ErrUnknownCommand   = errors.New("unknown command type")
	ErrRetriesExhausted = errors.New("optimistic commit retries exhausted")
)

// Roller supplies the randomness for probabilistic resolution. The
// engines themselves stay deterministic; only the controller rolls.
type Roller interface {
	Float64() float64
}

// Clock returns the current time. Injected so tests drive it.
type Clock func() time.Time

// Options configures a Controller.
type Options struct {
	Accounts   storage.AccountStore
	Pools      storage.PoolStore
	WARHistory storage.WARHistoryStore
	EventLog   storage.EventLogStore // optional
	Tables     *domain.Tables
	PoolID     string
	Rng        Roller
	Clock      Clock
	Logger     *log.Logger
	// CommitRetries bounds optimistic-concurrency retries per command.
	CommitRetries int
}

// Controller applies commands to accounts and the liquidity pool.
type Controller struct {
	accounts   storage.AccountStore
	pools      storage.PoolStore
	warHistory storage.WARHistoryStore
	eventLog   storage.EventLogStore
	tables     *domain.Tables
	catalog    map[string]domain.EnhancedAsset
	poolID     string
	rng        Roller
	clock      Clock
	logger     *log.Logger
	retries    int
}

// NewController creates a controller.
func NewController(opts Options) *Controller {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "economy: ", log.LstdFlags)
	}
	retries := opts.CommitRetries
	if retries <= 0 {
		retries = 3
	}
	return &Controller{
		accounts:   opts.Accounts,
		pools:      opts.Pools,
		warHistory: opts.WARHistory,
		eventLog:   opts.EventLog,
		tables:     opts.Tables,
		catalog:    opts.Tables.CatalogByID(),
		poolID:     opts.PoolID,
		rng:        opts.Rng,
		clock:      clock,
		logger:     logger,
		retries:    retries,
	}
}

// Apply executes one command. Domain-rule rejections come back as a
// failed Result with a typed reason and commit nothing; the error
// return is reserved for storage/infrastructure failures.
func (c *Controller) Apply(ctx context.Context, cmd domain.Command) (domain.Result, []domain.Event, error) {
	var lastErr error
	for attempt := 0; attempt < c.retries; attempt++ {
		result, events, err := c.applyOnce(ctx, cmd)
		if err == nil {
			if len(events) > 0 {
				c.recordEvents(ctx, events)
			}
			return result, events, nil
		}
		if !errors.Is(err, storage.ErrVersionConflict) {
			return domain.Result{}, nil, err
		}
		lastErr = err
		c.logger.Printf("version conflict applying %s for %s, retrying (%d/%d)",
			cmd.Type, cmd.AccountID, attempt+1, c.retries)
	}
	return domain.Result{}, nil, fmt.Errorf("%w: %v", ErrRetriesExhausted, lastErr)
}

// applyOnce runs a single validate-reduce-commit pass.
func (c *Controller) applyOnce(ctx context.Context, cmd domain.Command) (domain.Result, []domain.Event, error) {
	nowMs := c.clock().UnixMilli()

	if cmd.Type == domain.CmdAttack {
		return c.applyAttack(ctx, cmd, nowMs)
	}
	if cmd.Type == domain.CmdSwap {
		return c.applySwap(ctx, cmd, nowMs)
	}

	account, err := c.accounts.Get(ctx, cmd.AccountID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Failure(domain.FailUnknownAccount, "account not found"), nil, nil
		}
		return domain.Result{}, nil, err
	}

	next := account.Clone()
	var result domain.Result
	var events []domain.Event

	switch cmd.Type {
	case domain.CmdWork:
		result, events = c.reduceWork(next, nowMs)
	case domain.CmdBuyAsset:
		result, events = c.reduceBuyAsset(next, cmd.AssetID, nowMs)
	case domain.CmdBuyEnhanced:
		result, events = c.reduceBuyEnhanced(next, cmd.AssetID, nowMs)
	case domain.CmdBuyOutlets:
		result, events = c.reduceBuyOutlets(next, cmd.AssetID, cmd.Qty, nowMs)
	case domain.CmdMaintain:
		result, events = c.reduceMaintain(next, cmd.AssetID, cmd.Action, nowMs)
	case domain.CmdShield:
		result, events = c.reduceShield(next, cmd.ShieldTier, nowMs)
	case domain.CmdTribute:
		result, events = c.reduceTribute(next, cmd.TargetID, nowMs)
	case domain.CmdRepairSabotage:
		result, events = c.reduceRepairSabotage(next, nowMs)
	case domain.CmdActivateAbility:
		result, events = c.reduceActivateAbility(next, cmd.AssetID, nowMs)
	default:
		return domain.Result{}, nil, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Type)
	}

	if !result.Success {
		// Rejected commands commit nothing.
		return result, nil, nil
	}

	next.LastActive = nowMs
	if err := c.checkBalances(next); err != nil {
		return domain.Result{}, nil, err
	}
	if err := c.accounts.Update(ctx, next); err != nil {
		return domain.Result{}, nil, err
	}
	return result, events, nil
}

// checkBalances enforces the non-negative balance invariant before any
// commit. A reducer that produced a negative balance is a bug, not a
// domain rejection.
func (c *Controller) checkBalances(accounts ...*domain.Account) error {
	for _, a := range accounts {
		if a.Credits < 0 || a.Wealth < 0 {
			return fmt.Errorf("refusing to commit negative balance for %s: credits=%d wealth=%d",
				a.ID, a.Credits, a.Wealth)
		}
	}
	return nil
}

// recordEvents appends events to the analytic log. Log failures are
// not fatal to the already-committed command.
func (c *Controller) recordEvents(ctx context.Context, events []domain.Event) {
	if c.eventLog == nil {
		return
	}
	refs := make([]*domain.Event, len(events))
	for i := range events {
		refs[i] = &events[i]
	}
	if err := c.eventLog.Append(ctx, refs); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		c.logger.Printf("event log append failed: %v", err)
	}
}

// debit removes amount from the account's balance in the given
// currency, reporting false when funds are insufficient.
func debit(a *domain.Account, currency domain.Currency, amount int64) bool {
	switch currency {
	case domain.CurrencyWealth:
		if a.Wealth < amount {
			return false
		}
		a.Wealth -= amount
	default:
		if a.Credits < amount {
			return false
		}
		a.Credits -= amount
	}
	return true
}

// credit adds amount to the balance in the given currency.
func credit(a *domain.Account, currency domain.Currency, amount int64) {
	if currency == domain.CurrencyWealth {
		a.Wealth += amount
		return
	}
	a.Credits += amount
}
