package game

import "sort"

// DefaultMonsterKey is the board used by stats queries when no monster is
// active.
const DefaultMonsterKey = "default"

// Board accumulates damage dealt against one monster, keyed by player id.
// Totals only ever grow while the monster is active. Ranking is by descending
// damage with ties kept in insertion order.
type Board struct {
	order  []string
	damage map[string]float64
}

func NewBoard() *Board {
	return &Board{damage: make(map[string]float64)}
}

// Add accumulates amount for the given player. Non-positive amounts are
// ignored.
func (b *Board) Add(playerID string, amount float64) {
	if amount <= 0 {
		return
	}
	if _, ok := b.damage[playerID]; !ok {
		b.order = append(b.order, playerID)
	}
	b.damage[playerID] += amount
}

func (b *Board) Damage(playerID string) float64 {
	return b.damage[playerID]
}

func (b *Board) Len() int {
	return len(b.order)
}

// ranked returns player ids by descending damage; equal totals keep their
// insertion order.
func (b *Board) ranked() []string {
	ids := make([]string, len(b.order))
	copy(ids, b.order)
	sort.SliceStable(ids, func(i, j int) bool {
		return b.damage[ids[i]] > b.damage[ids[j]]
	})
	return ids
}

// Rank returns the 1-based rank of playerID, or 0 if it has no entry.
func (b *Board) Rank(playerID string) int {
	if _, ok := b.damage[playerID]; !ok {
		return 0
	}
	for i, id := range b.ranked() {
		if id == playerID {
			return i + 1
		}
	}
	return 0
}

// Entry is one ranked leaderboard row. Name is resolved at query time, so a
// later rename shows up retroactively.
type Entry struct {
	ID     string
	Name   string
	Damage float64
}

// TopN returns the first n ranked entries, resolving display names through
// nameOf.
func (b *Board) TopN(n int, nameOf func(id string) string) []Entry {
	ids := b.ranked()
	if len(ids) > n {
		ids = ids[:n]
	}
	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, Entry{ID: id, Name: nameOf(id), Damage: b.damage[id]})
	}
	return entries
}
