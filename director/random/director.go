package random

import (
	"math/rand"
	"time"

	"github.com/they4kman/gosweep/game"
)

// Director reveals a uniformly chosen hidden, unflagged cell each move
type Director struct {
	rand *rand.Rand
}

// New returns a Director drawing from r, or from a time-seeded source if r is nil
func New(r *rand.Rand) *Director {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Director{rand: r}
}

func (director *Director) Act(board *game.Board) (game.CellAction, bool) {
	if board.State().IsOver() {
		return game.CellAction{}, false
	}

	var candidates []game.Pos
	for _, pos := range board.Positions() {
		if board.Visual(pos) == game.HiddenVisual {
			candidates = append(candidates, pos)
		}
	}

	if len(candidates) == 0 {
		return game.CellAction{}, false
	}
	return candidates[director.rand.Intn(len(candidates))].Click(), true
}
