package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wealth-arena/internal/domain"
	"wealth-arena/internal/storage"
)

func TestWARHistoryStore_AppendAndGetByAccount(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewWARHistoryStore(pool)
	ctx := context.Background()

	err := store.Append(ctx, []*domain.WARSample{
		{AccountID: "alice", Ratio: 0.52, RecordedAt: 1700000300000},
		{AccountID: "alice", Ratio: 0.45, RecordedAt: 1700000100000},
		{AccountID: "bob", Ratio: 0.30, RecordedAt: 1700000200000},
	})
	require.NoError(t, err)

	samples, err := store.GetByAccount(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, samples, 2)

	// Ascending by recorded_at.
	assert.Equal(t, int64(1700000100000), samples[0].RecordedAt)
	assert.InDelta(t, 0.45, samples[0].Ratio, 1e-9)
	assert.Equal(t, int64(1700000300000), samples[1].RecordedAt)

	empty, err := store.GetByAccount(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestWARHistoryStore_DuplicateRollsBackBatch(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewWARHistoryStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, []*domain.WARSample{
		{AccountID: "alice", Ratio: 0.45, RecordedAt: 1700000100000},
	}))

	err := store.Append(ctx, []*domain.WARSample{
		{AccountID: "alice", Ratio: 0.50, RecordedAt: 1700000200000},
		{AccountID: "alice", Ratio: 0.45, RecordedAt: 1700000100000},
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	samples, err := store.GetByAccount(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, samples, 1, "failed batch must not partially land")
}
