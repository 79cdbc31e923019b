package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"wealth-arena/internal/domain"
	"wealth-arena/internal/storage"
)

// WARHistoryStore is an in-memory implementation of
// storage.WARHistoryStore.
type WARHistoryStore struct {
	mu   sync.RWMutex
	data map[string]*domain.WARSample // keyed by account_id|recorded_at
}

// NewWARHistoryStore creates a new in-memory WAR history store.
func NewWARHistoryStore() *WARHistoryStore {
	return &WARHistoryStore{data: make(map[string]*domain.WARSample)}
}

// Append adds samples. Fails the whole batch on any duplicate.
func (s *WARHistoryStore) Append(_ context.Context, samples []*domain.WARSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sample := range samples {
		if sample == nil || sample.AccountID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[sampleKey(sample)]; exists {
			return storage.ErrDuplicateKey
		}
	}
	for _, sample := range samples {
		cp := *sample
		s.data[sampleKey(sample)] = &cp
	}
	return nil
}

// GetByAccount retrieves samples for an account, recorded_at ASC.
func (s *WARHistoryStore) GetByAccount(_ context.Context, accountID string) ([]*domain.WARSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.WARSample
	for _, sample := range s.data {
		if sample.AccountID == accountID {
			cp := *sample
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RecordedAt < result[j].RecordedAt })
	return result, nil
}

func sampleKey(s *domain.WARSample) string {
	return fmt.Sprintf("%s|%d", s.AccountID, s.RecordedAt)
}

// Verify interface compliance at compile time.
var _ storage.WARHistoryStore = (*WARHistoryStore)(nil)
