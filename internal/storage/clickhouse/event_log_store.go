package clickhouse

import (
	"context"
	"encoding/json"
	"fmt"

	"wealth-arena/internal/domain"
	"wealth-arena/internal/storage"
)

// EventLogStore implements storage.EventLogStore using ClickHouse.
// Amounts are stored as a JSON string column; the log is read back
// whole per account, never filtered by amount.
type EventLogStore struct {
	conn *Conn
}

// NewEventLogStore creates an EventLogStore.
func NewEventLogStore(conn *Conn) *EventLogStore {
	return &EventLogStore{conn: conn}
}

// Compile-time interface check.
var _ storage.EventLogStore = (*EventLogStore)(nil)

// Append adds events. Fails the entire batch on a duplicate event id.
func (s *EventLogStore) Append(ctx context.Context, events []*domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[string]struct{})
	for _, e := range events {
		if e == nil || e.EventID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := seen[e.EventID]; exists {
			return storage.ErrDuplicateKey
		}
		seen[e.EventID] = struct{}{}
	}

	// Check for duplicates against existing rows
	for _, e := range events {
		exists, err := s.exists(ctx, e.EventID)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO event_log (event_id, event_type, account_id, target_id, at, amounts, detail)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, e := range events {
		amountsJSON, err := json.Marshal(e.Amounts)
		if err != nil {
			return fmt.Errorf("marshal amounts: %w", err)
		}
		err = batch.Append(
			e.EventID, string(e.Type), e.AccountID, e.TargetID,
			uint64(e.At), string(amountsJSON), e.Detail,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByAccount retrieves events where the account is actor or target,
// ordered by at ASC.
func (s *EventLogStore) GetByAccount(ctx context.Context, accountID string) ([]*domain.Event, error) {
	query := `
		SELECT event_id, event_type, account_id, target_id, at, amounts, detail
		FROM event_log
		WHERE account_id = ? OR target_id = ?
		ORDER BY at ASC, event_id ASC
	`

	rows, err := s.conn.Query(ctx, query, accountID, accountID)
	if err != nil {
		return nil, fmt.Errorf("query by account id: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		var (
			e           domain.Event
			eventType   string
			at          uint64
			amountsJSON string
		)
		if err := rows.Scan(&e.EventID, &eventType, &e.AccountID, &e.TargetID, &at, &amountsJSON, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Type = domain.EventType(eventType)
		e.At = int64(at)
		if amountsJSON != "" && amountsJSON != "null" {
			if err := json.Unmarshal([]byte(amountsJSON), &e.Amounts); err != nil {
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

// exists checks if an event with the given id exists.
func (s *EventLogStore) exists(ctx context.Context, eventID string) (bool, error) {
	query := `SELECT count(*) FROM event_log WHERE event_id = ?`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, eventID).Scan(&count); err != nil {
		return false, fmt.Errorf("count events: %w", err)
	}
	return count > 0, nil
}
