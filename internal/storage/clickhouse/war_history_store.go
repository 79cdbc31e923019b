package clickhouse

import (
	"context"
	"fmt"

	"wealth-arena/internal/domain"
	"wealth-arena/internal/storage"
)

// WARHistoryStore implements storage.WARHistoryStore using ClickHouse.
// Intended for analytic deployments where the ratio history grows
// without bound; MergeTree does not enforce uniqueness, so duplicates
// are checked explicitly before insert.
type WARHistoryStore struct {
	conn *Conn
}

// NewWARHistoryStore creates a WARHistoryStore.
func NewWARHistoryStore(conn *Conn) *WARHistoryStore {
	return &WARHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.WARHistoryStore = (*WARHistoryStore)(nil)

// Append adds samples. Fails the entire batch on a duplicate
// (account_id, recorded_at) pair.
func (s *WARHistoryStore) Append(ctx context.Context, samples []*domain.WARSample) error {
	if len(samples) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		accountID  string
		recordedAt int64
	}
	seen := make(map[key]struct{})
	for _, sample := range samples {
		if sample == nil || sample.AccountID == "" {
			return storage.ErrInvalidInput
		}
		k := key{sample.AccountID, sample.RecordedAt}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing rows
	for _, sample := range samples {
		exists, err := s.exists(ctx, sample.AccountID, sample.RecordedAt)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO war_history (account_id, ratio, recorded_at)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, sample := range samples {
		if err := batch.Append(sample.AccountID, sample.Ratio, uint64(sample.RecordedAt)); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByAccount retrieves an account's samples ordered by recorded_at ASC.
func (s *WARHistoryStore) GetByAccount(ctx context.Context, accountID string) ([]*domain.WARSample, error) {
	query := `
		SELECT account_id, ratio, recorded_at
		FROM war_history
		WHERE account_id = ?
		ORDER BY recorded_at ASC
	`

	rows, err := s.conn.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("query by account id: %w", err)
	}
	defer rows.Close()

	var samples []*domain.WARSample
	for rows.Next() {
		var (
			sample     domain.WARSample
			recordedAt uint64
		)
		if err := rows.Scan(&sample.AccountID, &sample.Ratio, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		sample.RecordedAt = int64(recordedAt)
		samples = append(samples, &sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}
	return samples, nil
}

// exists checks if a sample with the given key exists.
func (s *WARHistoryStore) exists(ctx context.Context, accountID string, recordedAt int64) (bool, error) {
	query := `
		SELECT count(*) FROM war_history
		WHERE account_id = ? AND recorded_at = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, accountID, uint64(recordedAt)).Scan(&count); err != nil {
		return false, fmt.Errorf("count samples: %w", err)
	}
	return count > 0, nil
}
