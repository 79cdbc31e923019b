package postgres

import (
	"context"
	"fmt"

	"wealth-arena/internal/domain"
	"wealth-arena/internal/storage"
)

// WARHistoryStore implements storage.WARHistoryStore backed by Postgres.
type WARHistoryStore struct {
	pool *Pool
}

var _ storage.WARHistoryStore = (*WARHistoryStore)(nil)

// NewWARHistoryStore creates a WARHistoryStore.
func NewWARHistoryStore(pool *Pool) *WARHistoryStore {
	return &WARHistoryStore{pool: pool}
}

// Append adds samples in one transaction. A duplicate
// (account_id, recorded_at) pair fails the whole batch.
func (s *WARHistoryStore) Append(ctx context.Context, samples []*domain.WARSample) error {
	if len(samples) == 0 {
		return nil
	}
	for _, sample := range samples {
		if sample == nil || sample.AccountID == "" {
			return fmt.Errorf("%w: sample account id is required", storage.ErrInvalidInput)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO war_history (account_id, ratio, recorded_at)
		VALUES ($1, $2, $3)`

	for _, sample := range samples {
		if _, err := tx.Exec(ctx, query, sample.AccountID, sample.Ratio, sample.RecordedAt); err != nil {
			if isDuplicateKeyError(err) {
				return fmt.Errorf("%w: sample %s/%d", storage.ErrDuplicateKey, sample.AccountID, sample.RecordedAt)
			}
			return fmt.Errorf("insert sample: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetByAccount retrieves an account's samples ordered by recorded_at.
func (s *WARHistoryStore) GetByAccount(ctx context.Context, accountID string) ([]*domain.WARSample, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: account id is required", storage.ErrInvalidInput)
	}

	query := `
		SELECT account_id, ratio, recorded_at
		FROM war_history
		WHERE account_id = $1
		ORDER BY recorded_at ASC`

	rows, err := s.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("get samples: %w", err)
	}
	defer rows.Close()

	var samples []*domain.WARSample
	for rows.Next() {
		var sample domain.WARSample
		if err := rows.Scan(&sample.AccountID, &sample.Ratio, &sample.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		samples = append(samples, &sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}
	return samples, nil
}
