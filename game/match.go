package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/verdantio/verdant/util"
)

// Player identifies one of the two parties in a match
type Player int

const (
	PlayerNone Player = iota
	PlayerHuman
	PlayerBot
)

func (p Player) String() string {
	switch p {
	case PlayerHuman:
		return "human"
	case PlayerBot:
		return "bot"
	default:
		return "none"
	}
}

// Move is one applied turn of a match
type Move struct {
	Player Player `json:"player"`
	Count  int    `json:"count"`
	Said   string `json:"said"`
}

// Match is the state of one Don't Say 21 round: a monotonically increasing
// running total with alternating turn ownership. The match ends when a
// player is forced to reach Target.
type Match struct {
	Total int
	Next  Player
	Moves []Move

	loser Player
}

// NewMatch creates a match starting at 0 with first to move
func NewMatch(first Player) *Match {
	return &Match{Next: first}
}

// SpokenNumbers formats the numbers spoken by a move of count numbers after
// start, e.g. SpokenNumbers(17, 3) == "18, 19, 20"
func SpokenNumbers(start, count int) string {
	nums := make([]string, count)
	for i := 0; i < count; i++ {
		nums[i] = strconv.Itoa(start + 1 + i)
	}
	return strings.Join(nums, ", ")
}

// Apply advances the match by p speaking count numbers. Moves past Target
// are clipped to end exactly on it, since a forced player must still say
// Target and lose.
func (m *Match) Apply(p Player, count int) (said string, err error) {
	if m.Over() {
		err = util.NewInvalidStateError("match", "match is already over")
		return
	}
	if p != m.Next {
		err = util.NewInvalidStateError("player",
			fmt.Sprintf("it is not %v's turn", p))
		return
	}
	if count < MinSay || count > MaxSay {
		err = util.NewError(util.EC_Range,
			fmt.Sprintf("count out of range: %d", count))
		return
	}
	if m.Total+count > Target {
		count = Target - m.Total
	}
	said = SpokenNumbers(m.Total, count)
	m.Total += count
	m.Moves = append(m.Moves, Move{p, count, said})
	if m.Total >= Target {
		m.loser = p
		m.Next = PlayerNone
	} else {
		m.Next = m.other(p)
	}
	return
}

// ApplyBotMove selects a move with the specified Selector and applies it
// for the bot
func (m *Match) ApplyBotMove(s *Selector) (said string, err error) {
	count, err := s.SelectMove(m.Total)
	if err != nil {
		return
	}
	return m.Apply(PlayerBot, count)
}

func (m *Match) other(p Player) Player {
	if p == PlayerHuman {
		return PlayerBot
	}
	return PlayerHuman
}

// Over reports whether the match has ended
func (m *Match) Over() bool {
	return m.Total >= Target
}

// Loser returns the player who said Target, or PlayerNone while the match
// is still running
func (m *Match) Loser() Player {
	return m.loser
}

// Winner returns the player who did not say Target, or PlayerNone while
// the match is still running
func (m *Match) Winner() Player {
	if m.loser == PlayerNone {
		return PlayerNone
	}
	return m.other(m.loser)
}
