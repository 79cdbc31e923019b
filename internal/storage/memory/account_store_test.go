package memory

import (
	"context"
	"errors"
	"testing"

	"wealth-arena/internal/domain"
	"wealth-arena/internal/storage"
)

func newTestAccount(id string) *domain.Account {
	return domain.NewAccount(id, id, 100, 1000)
}

func TestAccountStore_InsertAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewAccountStore()

	a := newTestAccount("alice")
	if err := store.Insert(ctx, a); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := store.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != "alice" || got.Credits != 100 {
		t.Errorf("got id=%s credits=%d, want alice/100", got.ID, got.Credits)
	}

	if err := store.Insert(ctx, newTestAccount("alice")); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("duplicate Insert = %v, want ErrDuplicateKey", err)
	}
	if _, err := store.Get(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}
}

func TestAccountStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewAccountStore()
	if err := store.Insert(ctx, newTestAccount("alice")); err != nil {
		t.Fatal(err)
	}

	first, _ := store.Get(ctx, "alice")
	first.Credits = 999999
	first.Conditions["x"] = &domain.AssetCondition{Condition: 1}

	second, _ := store.Get(ctx, "alice")
	if second.Credits != 100 {
		t.Errorf("stored credits = %d, mutation leaked through Get", second.Credits)
	}
	if len(second.Conditions) != 0 {
		t.Error("stored conditions mutated through Get copy")
	}
}

func TestAccountStore_UpdateVersionGuard(t *testing.T) {
	ctx := context.Background()
	store := NewAccountStore()
	if err := store.Insert(ctx, newTestAccount("alice")); err != nil {
		t.Fatal(err)
	}

	a, _ := store.Get(ctx, "alice")
	a.Credits = 250
	if err := store.Update(ctx, a); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ := store.Get(ctx, "alice")
	if got.Credits != 250 {
		t.Errorf("credits = %d, want 250", got.Credits)
	}
	if got.Version != a.Version+1 {
		t.Errorf("version = %d, want %d", got.Version, a.Version+1)
	}

	// Re-committing the stale copy must conflict.
	if err := store.Update(ctx, a); !errors.Is(err, storage.ErrVersionConflict) {
		t.Errorf("stale Update = %v, want ErrVersionConflict", err)
	}
	if err := store.Update(ctx, newTestAccount("missing")); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Update(missing) = %v, want ErrNotFound", err)
	}
}

func TestAccountStore_UpdatePairAtomic(t *testing.T) {
	ctx := context.Background()
	store := NewAccountStore()
	for _, id := range []string{"alice", "bob"} {
		if err := store.Insert(ctx, newTestAccount(id)); err != nil {
			t.Fatal(err)
		}
	}

	alice, _ := store.Get(ctx, "alice")
	bob, _ := store.Get(ctx, "bob")
	alice.Credits = 50
	bob.Credits = 150
	if err := store.UpdatePair(ctx, alice, bob); err != nil {
		t.Fatalf("UpdatePair: %v", err)
	}

	gotA, _ := store.Get(ctx, "alice")
	gotB, _ := store.Get(ctx, "bob")
	if gotA.Credits != 50 || gotB.Credits != 150 {
		t.Errorf("credits = %d/%d, want 50/150", gotA.Credits, gotB.Credits)
	}

	// One stale side rejects the whole commit.
	gotA.Credits = 1
	bob.Credits = 2 // bob still carries the pre-commit version
	if err := store.UpdatePair(ctx, gotA, bob); !errors.Is(err, storage.ErrVersionConflict) {
		t.Fatalf("UpdatePair with stale side = %v, want ErrVersionConflict", err)
	}
	unchanged, _ := store.Get(ctx, "alice")
	if unchanged.Credits != 50 {
		t.Errorf("alice credits = %d after failed pair commit, want 50", unchanged.Credits)
	}

	if err := store.UpdatePair(ctx, gotA, gotA); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("UpdatePair same account = %v, want ErrInvalidInput", err)
	}
}

func TestAccountStore_List(t *testing.T) {
	ctx := context.Background()
	store := NewAccountStore()
	for _, id := range []string{"charlie", "alice", "bob"} {
		if err := store.Insert(ctx, newTestAccount(id)); err != nil {
			t.Fatal(err)
		}
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"alice", "bob", "charlie"}
	if len(all) != len(want) {
		t.Fatalf("len = %d, want %d", len(all), len(want))
	}
	for i, a := range all {
		if a.ID != want[i] {
			t.Errorf("entry %d = %s, want %s", i, a.ID, want[i])
		}
	}
}
