package memory

import (
	"context"
	"sort"
	"sync"

	"wealth-arena/internal/domain"
	"wealth-arena/internal/storage"
)

// EventLogStore is an in-memory implementation of storage.EventLogStore.
type EventLogStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Event // keyed by event id
}

// NewEventLogStore creates a new in-memory event log store.
func NewEventLogStore() *EventLogStore {
	return &EventLogStore{data: make(map[string]*domain.Event)}
}

// Append adds events. Fails the whole batch on any duplicate.
func (s *EventLogStore) Append(_ context.Context, events []*domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range events {
		if e == nil || e.EventID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[e.EventID]; exists {
			return storage.ErrDuplicateKey
		}
	}
	for _, e := range events {
		cp := *e
		if e.Amounts != nil {
			cp.Amounts = make(map[string]int64, len(e.Amounts))
			for k, v := range e.Amounts {
				cp.Amounts[k] = v
			}
		}
		s.data[e.EventID] = &cp
	}
	return nil
}

// GetByAccount retrieves events where the account is actor or target,
// at ASC.
func (s *EventLogStore) GetByAccount(_ context.Context, accountID string) ([]*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Event
	for _, e := range s.data {
		if e.AccountID == accountID || e.TargetID == accountID {
			cp := *e
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].At < result[j].At })
	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.EventLogStore = (*EventLogStore)(nil)
