package memory

import (
	"context"
	"errors"
	"testing"

	"wealth-arena/internal/domain"
	"wealth-arena/internal/storage"
)

func TestWARHistoryStore_AppendAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewWARHistoryStore()

	batch := []*domain.WARSample{
		{AccountID: "alice", Ratio: 0.5, RecordedAt: 3000},
		{AccountID: "alice", Ratio: 0.4, RecordedAt: 1000},
		{AccountID: "bob", Ratio: 0.2, RecordedAt: 2000},
	}
	if err := store.Append(ctx, batch); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := store.GetByAccount(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByAccount: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].RecordedAt != 1000 || got[1].RecordedAt != 3000 {
		t.Errorf("order = %d,%d, want ascending 1000,3000", got[0].RecordedAt, got[1].RecordedAt)
	}

	empty, err := store.GetByAccount(ctx, "nobody")
	if err != nil {
		t.Fatalf("GetByAccount(nobody): %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("len = %d, want 0", len(empty))
	}
}

func TestWARHistoryStore_DuplicateFailsWholeBatch(t *testing.T) {
	ctx := context.Background()
	store := NewWARHistoryStore()

	if err := store.Append(ctx, []*domain.WARSample{
		{AccountID: "alice", Ratio: 0.5, RecordedAt: 1000},
	}); err != nil {
		t.Fatal(err)
	}

	err := store.Append(ctx, []*domain.WARSample{
		{AccountID: "alice", Ratio: 0.6, RecordedAt: 2000},
		{AccountID: "alice", Ratio: 0.5, RecordedAt: 1000}, // duplicate key
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Append = %v, want ErrDuplicateKey", err)
	}

	// Nothing from the failed batch landed.
	got, _ := store.GetByAccount(ctx, "alice")
	if len(got) != 1 {
		t.Errorf("len = %d after failed batch, want 1", len(got))
	}
}
