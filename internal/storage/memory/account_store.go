package memory

import (
	"context"
	"sort"
	"sync"

	"wealth-arena/internal/domain"
	"wealth-arena/internal/storage"
)

// AccountStore is an in-memory implementation of storage.AccountStore.
type AccountStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Account
}

// NewAccountStore creates a new in-memory account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{data: make(map[string]*domain.Account)}
}

// Insert adds a new account. Returns ErrDuplicateKey if the id exists.
func (s *AccountStore) Insert(_ context.Context, a *domain.Account) error {
	if a == nil || a.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[a.ID]; exists {
		return storage.ErrDuplicateKey
	}
	s.data[a.ID] = a.Clone()
	return nil
}

// Get retrieves an account by id. Returns ErrNotFound if absent.
func (s *AccountStore) Get(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.data[accountID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return a.Clone(), nil
}

// Update commits a mutated account, incrementing Version. The caller's
// copy must carry the version it read.
func (s *AccountStore) Update(_ context.Context, a *domain.Account) error {
	if a == nil || a.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commitLocked(a)
}

// UpdatePair commits two accounts atomically: both versions are checked
// before either is written.
func (s *AccountStore) UpdatePair(_ context.Context, a, b *domain.Account) error {
	if a == nil || b == nil || a.ID == "" || b.ID == "" || a.ID == b.ID {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkVersionLocked(a); err != nil {
		return err
	}
	if err := s.checkVersionLocked(b); err != nil {
		return err
	}
	if err := s.commitLocked(a); err != nil {
		return err
	}
	return s.commitLocked(b)
}

// List returns all accounts sorted by id.
func (s *AccountStore) List(_ context.Context) ([]*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Account, 0, len(s.data))
	for _, a := range s.data {
		result = append(result, a.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *AccountStore) checkVersionLocked(a *domain.Account) error {
	stored, exists := s.data[a.ID]
	if !exists {
		return storage.ErrNotFound
	}
	if stored.Version != a.Version {
		return storage.ErrVersionConflict
	}
	return nil
}

func (s *AccountStore) commitLocked(a *domain.Account) error {
	if err := s.checkVersionLocked(a); err != nil {
		return err
	}
	next := a.Clone()
	next.Version++
	s.data[a.ID] = next
	return nil
}

// Verify interface compliance at compile time.
var _ storage.AccountStore = (*AccountStore)(nil)
