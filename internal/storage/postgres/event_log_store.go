package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"wealth-arena/internal/domain"
	"wealth-arena/internal/storage"
)

// EventLogStore implements storage.EventLogStore backed by Postgres.
type EventLogStore struct {
	pool *Pool
}

var _ storage.EventLogStore = (*EventLogStore)(nil)

// NewEventLogStore creates an EventLogStore.
func NewEventLogStore(pool *Pool) *EventLogStore {
	return &EventLogStore{pool: pool}
}

// Append adds events in one transaction. A duplicate event id fails
// the whole batch.
func (s *EventLogStore) Append(ctx context.Context, events []*domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	for _, e := range events {
		if e == nil || e.EventID == "" {
			return fmt.Errorf("%w: event id is required", storage.ErrInvalidInput)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO event_log (event_id, event_type, account_id, target_id, at, amounts, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, e := range events {
		amountsJSON, err := json.Marshal(e.Amounts)
		if err != nil {
			return fmt.Errorf("marshal amounts: %w", err)
		}
		if _, err := tx.Exec(ctx, query,
			e.EventID, string(e.Type), e.AccountID, e.TargetID, e.At, amountsJSON, e.Detail); err != nil {
			if isDuplicateKeyError(err) {
				return fmt.Errorf("%w: event %s", storage.ErrDuplicateKey, e.EventID)
			}
			return fmt.Errorf("insert event: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetByAccount retrieves events where the account is actor or target,
// ordered by time.
func (s *EventLogStore) GetByAccount(ctx context.Context, accountID string) ([]*domain.Event, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: account id is required", storage.ErrInvalidInput)
	}

	query := `
		SELECT event_id, event_type, account_id, target_id, at, amounts, detail
		FROM event_log
		WHERE account_id = $1 OR target_id = $1
		ORDER BY at ASC, event_id ASC`

	rows, err := s.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("get events: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		var (
			e           domain.Event
			eventType   string
			amountsJSON []byte
		)
		if err := rows.Scan(&e.EventID, &eventType, &e.AccountID, &e.TargetID, &e.At, &amountsJSON, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Type = domain.EventType(eventType)
		if len(amountsJSON) > 0 {
			if err := json.Unmarshal(amountsJSON, &e.Amounts); err != nil {
				return nil, fmt.Errorf("unmarshal amounts: %w", err)
			}
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
