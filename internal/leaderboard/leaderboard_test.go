package leaderboard

import (
	"testing"

	"wealth-arena/internal/domain"
)

func sampleBoard() []domain.Snapshot {
	return []domain.Snapshot{
		{ID: "carol", Name: "Carol", Wealth: 900, WorkSessions: 3, BattlesWon: 1},
		{ID: "alice", Name: "Alice", Wealth: 1500, WorkSessions: 10, BattlesWon: 4},
		{ID: "bob", Name: "Bob", Wealth: 900, WorkSessions: 5, BattlesWon: 0},
		{ID: "dave", Name: "Dave", Wealth: 900, WorkSessions: 3, BattlesWon: 2},
	}
}

func TestRank_WealthDescending(t *testing.T) {
	entries := Rank(sampleBoard())
	if len(entries) != 4 {
		t.Fatalf("entries = %d, want 4", len(entries))
	}
	if entries[0].Snapshot.ID != "alice" || entries[0].Rank != 1 {
		t.Errorf("top entry = %s rank %d, want alice rank 1", entries[0].Snapshot.ID, entries[0].Rank)
	}
	for i, e := range entries {
		if e.Rank != i+1 {
			t.Errorf("entry %d rank = %d, want %d", i, e.Rank, i+1)
		}
	}
}

func TestRank_TieBreaks(t *testing.T) {
	entries := Rank(sampleBoard())

	// Three accounts tie at 900: bob leads on work sessions, then
	// dave beats carol on battles won, then id would decide.
	gotOrder := []string{entries[1].Snapshot.ID, entries[2].Snapshot.ID, entries[3].Snapshot.ID}
	wantOrder := []string{"bob", "dave", "carol"}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Fatalf("tie order = %v, want %v", gotOrder, wantOrder)
		}
	}
}

func TestRank_IDTieBreakDeterministic(t *testing.T) {
	snaps := []domain.Snapshot{
		{ID: "zeta", Wealth: 100, WorkSessions: 1, BattlesWon: 1},
		{ID: "alpha", Wealth: 100, WorkSessions: 1, BattlesWon: 1},
	}
	entries := Rank(snaps)
	if entries[0].Snapshot.ID != "alpha" {
		t.Errorf("first = %s, want alpha", entries[0].Snapshot.ID)
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	snaps := sampleBoard()
	first := snaps[0].ID
	Rank(snaps)
	if snaps[0].ID != first {
		t.Errorf("input reordered, first = %s, want %s", snaps[0].ID, first)
	}
}

func TestRankOf(t *testing.T) {
	entries := Rank(sampleBoard())
	if got := RankOf(entries, "alice"); got != 1 {
		t.Errorf("RankOf(alice) = %d, want 1", got)
	}
	if got := RankOf(entries, "carol"); got != 4 {
		t.Errorf("RankOf(carol) = %d, want 4", got)
	}
	if got := RankOf(entries, "missing"); got != 0 {
		t.Errorf("RankOf(missing) = %d, want 0", got)
	}
}

func TestTopN(t *testing.T) {
	entries := Rank(sampleBoard())
	top := TopN(entries, 2)
	if len(top) != 2 {
		t.Fatalf("len(top) = %d, want 2", len(top))
	}
	if top[1].Snapshot.ID != "bob" {
		t.Errorf("second = %s, want bob", top[1].Snapshot.ID)
	}
	if got := TopN(entries, 10); len(got) != 4 {
		t.Errorf("oversized n returned %d entries, want 4", len(got))
	}
	if got := TopN(entries, 0); len(got) != 0 {
		t.Errorf("n=0 returned %d entries, want 0", len(got))
	}
}
