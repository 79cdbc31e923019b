// Package leaderboard ranks account snapshots. The engine consumes
// only its own computed rank and a top-N slice; persistence of the
// board itself lives behind the external service boundary.
package leaderboard

import (
	"sort"

	"wealth-arena/internal/domain"
)

// Entry is one ranked row.
type Entry struct {
	Rank     int             `json:"rank"`
	Snapshot domain.Snapshot `json:"snapshot"`
	Ratio    float64         `json:"ratio"`
}

// Rank orders snapshots by wealth descending, breaking ties by
// lifetime work sessions, then battles won, then id for determinism.
func Rank(snapshots []domain.Snapshot) []Entry {
	sorted := append([]domain.Snapshot(nil), snapshots...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Wealth != b.Wealth {
			return a.Wealth > b.Wealth
		}
		if a.WorkSessions != b.WorkSessions {
			return a.WorkSessions > b.WorkSessions
		}
		if a.BattlesWon != b.BattlesWon {
			return a.BattlesWon > b.BattlesWon
		}
		return a.ID < b.ID
	})

	entries := make([]Entry, len(sorted))
	for i, s := range sorted {
		entries[i] = Entry{Rank: i + 1, Snapshot: s}
	}
	return entries
}

// RankOf returns the rank for an account id, 0 when absent.
func RankOf(entries []Entry, accountID string) int {
	for _, e := range entries {
		if e.Snapshot.ID == accountID {
			return e.Rank
		}
	}
	return 0
}

// TopN returns the first n entries.
func TopN(entries []Entry, n int) []Entry {
	if n > len(entries) {
		n = len(entries)
	}
	return entries[:n]
}
