package game

import "math"

// JackpotBase is the pool value every lobby starts with and resets to after an
// award.
const JackpotBase = 1000.00

// Round2 rounds to 2 decimal places, half-up. Every jackpot mutation and every
// award allocation goes through this so repeated small contributions cannot
// drift through asymmetric rounding.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// Allocation is one contributor's cut of an awarded jackpot. Derived at award
// time, broadcast, never stored.
type Allocation struct {
	ID     string
	Name   string
	Amount float64
}

// Award splits pool across the board's contributors:
//
//	rank 1 gets 50%, rank 2 gets 20%, rank 3 gets 10%; a missing rank's share
//	is simply not handed out. The remaining 20% is split pro-rata among
//	contributors outside the top 3, weighted by damage; if their damage sums
//	to zero the remainder goes to nobody.
//
// Each allocation is rounded independently, so the sum may fall a few cents
// short of the pool.
func Award(pool float64, b *Board, nameOf func(id string) string) []Allocation {
	ids := b.ranked()
	allocs := make([]Allocation, 0, len(ids))

	var restTotal float64
	for _, id := range ids[min(3, len(ids)):] {
		restTotal += b.Damage(id)
	}

	topShares := []float64{0.5, 0.2, 0.1}
	for i, id := range ids {
		var amount float64
		if i < len(topShares) {
			amount = pool * topShares[i]
		} else if restTotal > 0 {
			amount = pool * 0.2 * b.Damage(id) / restTotal
		}
		allocs = append(allocs, Allocation{ID: id, Name: nameOf(id), Amount: Round2(amount)})
	}
	return allocs
}
