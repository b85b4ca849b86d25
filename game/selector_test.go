package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantio/verdant/util"
)

func makeSelector(seed int64) *Selector {
	return NewSelector(rand.New(rand.NewSource(seed)))
}

func TestSelectMove_DeterministicBranch(t *testing.T) {
	ass := assert.New(t)
	sel := makeSelector(1)

	// whenever the next multiple of 4 is 1-3 away, that distance is played
	for total := 0; total < Target-1; total++ {
		dist := 4 - total%4
		if dist > MaxSay {
			continue
		}
		count, err := sel.SelectMove(total)
		ass.NoError(err)
		ass.Equal(dist, count, "total %d", total)
	}
}

func TestSelectMove_Total17(t *testing.T) {
	ass := assert.New(t)
	sel := makeSelector(1)

	count, err := sel.SelectMove(17)
	ass.NoError(err)
	ass.Equal(3, count) // lands on 20
}

func TestSelectMove_RandomBranch(t *testing.T) {
	ass := assert.New(t)
	sel := makeSelector(42)

	// at a multiple of 4 the target is out of reach; moves are random in
	// {1,2,3} and every value shows up over enough trials
	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		count, err := sel.SelectMove(0)
		ass.NoError(err)
		ass.GreaterOrEqual(count, MinSay)
		ass.LessOrEqual(count, MaxSay)
		seen[count] = true
	}
	ass.Len(seen, 3)
}

func TestSelectMove_NeverExceedsTarget(t *testing.T) {
	ass := assert.New(t)
	sel := makeSelector(7)

	for total := 0; total < Target; total++ {
		for i := 0; i < 20; i++ {
			count, err := sel.SelectMove(total)
			require.NoError(t, err)
			ass.LessOrEqual(total+count, Target)
			if total < Target-1 {
				// never voluntarily lands on 21
				ass.Less(total+count, Target, "total %d", total)
			}
		}
	}
}

func TestSelectMove_ForcedLoss(t *testing.T) {
	ass := assert.New(t)
	sel := makeSelector(1)

	// at 20 the only legal move says 21
	count, err := sel.SelectMove(20)
	ass.NoError(err)
	ass.Equal(1, count)
}

func TestSelectMove_InvalidState(t *testing.T) {
	ass := assert.New(t)
	sel := makeSelector(1)

	for _, total := range []int{-1, 21, 22, 100} {
		_, err := sel.SelectMove(total)
		require.Error(t, err, "total %d", total)
		ass.Equal(util.ErrorCode(util.EC_InvalidState), err.(*util.Error).Code)
	}
}

func TestSelectMove_SeededDeterminism(t *testing.T) {
	ass := assert.New(t)

	a, b := makeSelector(99), makeSelector(99)
	for i := 0; i < 50; i++ {
		ca, errA := a.SelectMove(8)
		cb, errB := b.SelectMove(8)
		ass.NoError(errA)
		ass.NoError(errB)
		ass.Equal(ca, cb)
	}
}
