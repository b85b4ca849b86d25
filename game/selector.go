package game

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/verdantio/verdant/util"
)

// Game constants for Don't Say 21: players alternate speaking 1-3
// consecutive numbers and whoever says Target loses.
const (
	Target = 21
	MinSay = 1
	MaxSay = 3
)

// Selector picks how many numbers the automated player speaks next.
// The random source is injected so tests can seed it.
type Selector struct {
	rng *rand.Rand
	log *logrus.Entry
}

// NewSelector creates a Selector drawing from the specified random source
func NewSelector(rng *rand.Rand) *Selector {
	return &Selector{
		rng,
		util.Logger.WithField("module", "game"),
	}
}

// nextMultipleDist is the distance from total to the next multiple of 4
// strictly above it
func nextMultipleDist(total int) int {
	return (MaxSay + 1) - total%(MaxSay+1)
}

// SelectMove returns how many numbers to speak from runningTotal. It ends
// the turn on the next multiple of 4 when that is reachable, and otherwise
// plays a random legal move that never lands on Target voluntarily. The
// total must be in [0, Target-1]; anything else is an invalid state.
func (s *Selector) SelectMove(runningTotal int) (count int, err error) {
	if runningTotal < 0 || runningTotal >= Target {
		err = util.NewInvalidStateError("runningTotal",
			fmt.Sprintf("running total out of range: %d", runningTotal))
		return
	}
	// largest move that stays below Target
	maxSafe := Target - 1 - runningTotal
	if maxSafe < MinSay {
		// every move reaches Target; lose with the smallest one
		count = MinSay
		s.log.WithField("runningTotal", runningTotal).Debug("forced losing move")
		return
	}
	if dist := nextMultipleDist(runningTotal); dist <= MaxSay && dist <= maxSafe {
		count = dist
		return
	}
	limit := MaxSay
	if limit > maxSafe {
		limit = maxSafe
	}
	count = MinSay + s.rng.Intn(limit-MinSay+1)
	return
}
