package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound2HalfUp(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.004, 1.00},
		{1.006, 1.01},
		{0.125, 0.13}, // exact binary half rounds up
		{2.5, 2.5},
		{1000, 1000},
		{0, 0},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, Round2(tc.in), 1e-9, "Round2(%v)", tc.in)
	}
}

func TestContributionsAssociativeUpToRounding(t *testing.T) {
	// Contributing a then b lands within one cent of contributing a+b at once.
	a, b := 0.1, 0.2

	stepped := JackpotBase
	stepped = Round2(stepped + a)
	stepped = Round2(stepped + b)

	direct := Round2(JackpotBase + a + b)

	assert.InDelta(t, direct, stepped, 0.01)
}

// boardWith builds an accumulator directly so tests can include zero-damage
// contributors, which Add would refuse.
func boardWith(entries ...struct {
	id     string
	damage float64
}) *Board {
	b := NewBoard()
	for _, e := range entries {
		b.order = append(b.order, e.id)
		b.damage[e.id] = e.damage
	}
	return b
}

type contributor = struct {
	id     string
	damage float64
}

func TestAwardTopThreeShares(t *testing.T) {
	b := boardWith(
		contributor{"c1", 100},
		contributor{"c2", 50},
		contributor{"c3", 0},
	)

	allocs := Award(1000.00, b, selfName)
	require.Len(t, allocs, 3)

	assert.Equal(t, "c1", allocs[0].ID)
	assert.InDelta(t, 500.00, allocs[0].Amount, 1e-9)
	assert.Equal(t, "c2", allocs[1].ID)
	assert.InDelta(t, 200.00, allocs[1].Amount, 1e-9)
	assert.Equal(t, "c3", allocs[2].ID)
	assert.InDelta(t, 100.00, allocs[2].Amount, 1e-9)
	// The 20% remainder has no non-top-3 contributors to go to; it is simply
	// not handed out.
}

func TestAwardProRataRemainder(t *testing.T) {
	b := boardWith(
		contributor{"c1", 100},
		contributor{"c2", 50},
		contributor{"c3", 40},
		contributor{"c4", 30},
		contributor{"c5", 10},
	)

	allocs := Award(1000.00, b, selfName)
	require.Len(t, allocs, 5)

	// 20% of the pool split 30:10 across the two outside the top 3.
	assert.InDelta(t, 150.00, allocs[3].Amount, 1e-9)
	assert.InDelta(t, 50.00, allocs[4].Amount, 1e-9)
}

func TestAwardZeroDamageRemainderGoesToNobody(t *testing.T) {
	b := boardWith(
		contributor{"c1", 100},
		contributor{"c2", 50},
		contributor{"c3", 40},
		contributor{"c4", 0},
		contributor{"c5", 0},
	)

	allocs := Award(1000.00, b, selfName)
	require.Len(t, allocs, 5)
	assert.Zero(t, allocs[3].Amount)
	assert.Zero(t, allocs[4].Amount)
}

func TestAwardZeroPoolAllocatesZeros(t *testing.T) {
	b := NewBoard()
	b.Add("a", 10)
	b.Add("b", 20)

	allocs := Award(0, b, selfName)
	require.Len(t, allocs, 2)
	for _, a := range allocs {
		assert.Zero(t, a.Amount)
	}
}

func TestAwardSkippedRanksNotRedistributed(t *testing.T) {
	b := NewBoard()
	b.Add("only", 42)

	allocs := Award(1000.00, b, selfName)
	require.Len(t, allocs, 1)
	assert.InDelta(t, 500.00, allocs[0].Amount, 1e-9)
}

func TestAwardEmptyBoard(t *testing.T) {
	allocs := Award(1000.00, NewBoard(), selfName)
	assert.Empty(t, allocs)
}

func TestAwardRoundsEachAllocationIndependently(t *testing.T) {
	// Thirds produce repeating decimals; every allocation must still be an
	// exact 2-decimal value even if the sum drifts a few cents from the pool.
	b := boardWith(
		contributor{"c1", 90},
		contributor{"c2", 80},
		contributor{"c3", 70},
		contributor{"c4", 1},
		contributor{"c5", 1},
		contributor{"c6", 1},
	)

	allocs := Award(100.00, b, selfName)
	require.Len(t, allocs, 6)
	for _, a := range allocs {
		assert.InDelta(t, a.Amount, Round2(a.Amount), 1e-9, "allocation %s not 2dp", a.ID)
	}
	// 20.00 * 1/3 rounds to 6.67 each; the extra cent of slack is accepted.
	assert.InDelta(t, 6.67, allocs[3].Amount, 1e-9)
}
