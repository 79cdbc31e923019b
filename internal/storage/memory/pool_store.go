package memory

import (
	"context"
	"sync"

	"wealth-arena/internal/domain"
	"wealth-arena/internal/storage"
)

// PoolStore is an in-memory implementation of storage.PoolStore.
type PoolStore struct {
	mu   sync.RWMutex
	data map[string]*domain.LiquidityPool
}

// NewPoolStore creates a new in-memory pool store.
func NewPoolStore() *PoolStore {
	return &PoolStore{data: make(map[string]*domain.LiquidityPool)}
}

// Insert adds a pool. Returns ErrDuplicateKey if the id exists.
func (s *PoolStore) Insert(_ context.Context, p *domain.LiquidityPool) error {
	if p == nil || p.PoolID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.PoolID]; exists {
		return storage.ErrDuplicateKey
	}
	s.data[p.PoolID] = p.Clone()
	return nil
}

// Get retrieves a pool by id. Returns ErrNotFound if absent.
func (s *PoolStore) Get(_ context.Context, poolID string) (*domain.LiquidityPool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[poolID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return p.Clone(), nil
}

// Update commits new reserves. The caller's copy carries the version
// it read plus one (the amm engine bumps it); the stored version must
// be exactly one behind.
func (s *PoolStore) Update(_ context.Context, p *domain.LiquidityPool) error {
	if p == nil || p.PoolID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.data[p.PoolID]
	if !exists {
		return storage.ErrNotFound
	}
	if stored.Version != p.Version-1 {
		return storage.ErrVersionConflict
	}
	s.data[p.PoolID] = p.Clone()
	return nil
}

// Verify interface compliance at compile time.
var _ storage.PoolStore = (*PoolStore)(nil)
