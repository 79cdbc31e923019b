package storage

import (
	"context"

	"wealth-arena/internal/domain"
)

// AccountStore persists player accounts. Updates are guarded by the
// account's Version counter: a committed update must observe the
// version it read or fail with ErrVersionConflict.
type AccountStore interface {
	// Insert adds a new account. Returns ErrDuplicateKey if the id exists.
	Insert(ctx context.Context, a *domain.Account) error

	// Get retrieves an account by id. Returns ErrNotFound if absent.
	Get(ctx context.Context, accountID string) (*domain.Account, error)

	// Update commits a mutated account, incrementing Version. Returns
	// ErrVersionConflict if the stored version moved since the read.
	Update(ctx context.Context, a *domain.Account) error

	// UpdatePair commits two mutated accounts atomically (the combat
	// double-write): both versions must match or neither account
	// changes and ErrVersionConflict is returned.
	UpdatePair(ctx context.Context, a, b *domain.Account) error

	// List returns all accounts (leaderboard snapshot source).
	List(ctx context.Context) ([]*domain.Account, error)
}

// PoolStore persists the liquidity pool.
type PoolStore interface {
	// Insert adds a pool. Returns ErrDuplicateKey if the id exists.
	Insert(ctx context.Context, p *domain.LiquidityPool) error

	// Get retrieves a pool by id. Returns ErrNotFound if absent.
	Get(ctx context.Context, poolID string) (*domain.LiquidityPool, error)

	// Update commits new reserves, guarded by Version.
	Update(ctx context.Context, p *domain.LiquidityPool) error
}

// WARHistoryStore keeps the append-only wealth-asset-ratio samples.
type WARHistoryStore interface {
	// Append adds samples. Duplicate (account_id, recorded_at) pairs
	// fail the batch with ErrDuplicateKey.
	Append(ctx context.Context, samples []*domain.WARSample) error

	// GetByAccount retrieves samples for an account, recorded_at ASC.
	GetByAccount(ctx context.Context, accountID string) ([]*domain.WARSample, error)
}

// EventLogStore keeps the append-only domain event log.
type EventLogStore interface {
	// Append adds events. Duplicate event ids fail the batch with
	// ErrDuplicateKey.
	Append(ctx context.Context, events []*domain.Event) error

	// GetByAccount retrieves events where the account is actor or
	// target, at ASC.
	GetByAccount(ctx context.Context, accountID string) ([]*domain.Event, error)
}
