package postgres

import (
	"context"
	"fmt"

	"wealth-arena/internal/domain"
	"wealth-arena/internal/storage"
)

// PoolStore implements storage.PoolStore backed by Postgres.
type PoolStore struct {
	pool *Pool
}

var _ storage.PoolStore = (*PoolStore)(nil)

// NewPoolStore creates a PoolStore.
func NewPoolStore(pool *Pool) *PoolStore {
	return &PoolStore{pool: pool}
}

// Insert stores a new liquidity pool.
func (s *PoolStore) Insert(ctx context.Context, p *domain.LiquidityPool) error {
	if p == nil || p.PoolID == "" {
		return fmt.Errorf("%w: pool id is required", storage.ErrInvalidInput)
	}

	query := `
		INSERT INTO pools (pool_id, reserve_credits, reserve_wealth, fee_bps, paused, max_trade_size, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.pool.Exec(ctx, query,
		p.PoolID, p.ReserveCredits, p.ReserveWealth, p.FeeBps, p.Paused, p.MaxTradeSize, p.Version)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("%w: pool %s", storage.ErrDuplicateKey, p.PoolID)
		}
		return fmt.Errorf("insert pool: %w", err)
	}
	return nil
}

// Get retrieves a pool by id.
func (s *PoolStore) Get(ctx context.Context, poolID string) (*domain.LiquidityPool, error) {
	if poolID == "" {
		return nil, fmt.Errorf("%w: pool id is required", storage.ErrInvalidInput)
	}

	query := `
		SELECT pool_id, reserve_credits, reserve_wealth, fee_bps, paused, max_trade_size, version
		FROM pools WHERE pool_id = $1`

	var p domain.LiquidityPool
	err := s.pool.QueryRow(ctx, query, poolID).Scan(
		&p.PoolID, &p.ReserveCredits, &p.ReserveWealth, &p.FeeBps, &p.Paused, &p.MaxTradeSize, &p.Version)
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("%w: pool %s", storage.ErrNotFound, poolID)
		}
		return nil, fmt.Errorf("get pool: %w", err)
	}
	return &p, nil
}

// Update commits new reserves. The caller's copy carries the version it
// read plus one; the stored row must still be exactly one behind.
func (s *PoolStore) Update(ctx context.Context, p *domain.LiquidityPool) error {
	if p == nil || p.PoolID == "" {
		return fmt.Errorf("%w: pool id is required", storage.ErrInvalidInput)
	}

	query := `
		UPDATE pools SET
			reserve_credits = $3, reserve_wealth = $4, fee_bps = $5,
			paused = $6, max_trade_size = $7, version = $8
		WHERE pool_id = $1 AND version = $2`

	tag, err := s.pool.Exec(ctx, query,
		p.PoolID, p.Version-1,
		p.ReserveCredits, p.ReserveWealth, p.FeeBps, p.Paused, p.MaxTradeSize, p.Version)
	if err != nil {
		return fmt.Errorf("update pool: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		err := s.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM pools WHERE pool_id = $1)`, p.PoolID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check pool existence: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: pool %s", storage.ErrNotFound, p.PoolID)
		}
		return fmt.Errorf("%w: pool %s", storage.ErrVersionConflict, p.PoolID)
	}
	return nil
}
