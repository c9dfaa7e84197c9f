package constraint

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/they4kman/gosweep/director/random"
	"github.com/they4kman/gosweep/game"
	"github.com/they4kman/gosweep/util/collections"
)

// Rounds of observation splitting performed before each move
const simplifyRounds = 4

// Director deduces safe cells and mines from revealed counts, and guesses the
// least likely mine only when nothing can be deduced
type Director struct {
	rand     *rand.Rand
	fallback *random.Director
}

func New(r *rand.Rand) *Director {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Director{
		rand:     r,
		fallback: random.New(r),
	}
}

// Observation states that exactly numMines of cells are mines
type Observation struct {
	// Revealed cell the observation was read from; nil for derived observations
	origin   *game.Pos
	numMines int
	cells    collections.Set[game.Pos]
}

func (observation Observation) String() string {
	cells := observation.sortedCells()
	cellsRepr := make([]string, len(cells))
	for i, cell := range cells {
		cellsRepr[i] = cell.String()
	}

	originRepr := "?"
	if observation.origin != nil {
		originRepr = observation.origin.String()
	}

	return fmt.Sprintf("Obs[%8s, %d ε %s]", originRepr, observation.numMines, strings.Join(cellsRepr, ", "))
}

func (observation Observation) MineProbability() float64 {
	return float64(observation.numMines) / float64(len(observation.cells))
}

func (observation Observation) sortedCells() []game.Pos {
	return observation.cells.Sorted(lessPos)
}

func lessPos(a, b game.Pos) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
}

type knowledge struct {
	observations []*Observation
	byCell       map[game.Pos][]*Observation
}

// observe reads one observation from every revealed numbered cell that still
// borders hidden cells
func observe(board *game.Board) *knowledge {
	known := &knowledge{byCell: make(map[game.Pos][]*Observation)}

	for _, pos := range board.Positions() {
		visual := board.Visual(pos)
		if visual.Kind != game.VisualRevealed || visual.Count == 0 {
			continue
		}

		origin := pos
		observation := &Observation{
			origin:   &origin,
			numMines: visual.Count,
			cells:    make(collections.Set[game.Pos]),
		}
		for _, neighbor := range board.Neighbors(pos) {
			switch board.Visual(neighbor).Kind {
			case game.VisualFlagged:
				observation.numMines--
			case game.VisualHidden:
				observation.cells.Add(neighbor)
			}
		}

		known.add(observation)
	}

	return known
}

// add records an observation unless it is vacuous, contradicts itself (a
// misplaced flag), or duplicates a known cell set
func (known *knowledge) add(observation *Observation) bool {
	if len(observation.cells) == 0 || observation.numMines < 0 || observation.numMines > len(observation.cells) {
		return false
	}

	for cell := range observation.cells {
		for _, other := range known.byCell[cell] {
			if other.cells.Equal(observation.cells) {
				return false
			}
		}
		// Every observation covering all of these cells shares this one
		break
	}

	known.observations = append(known.observations, observation)
	for cell := range observation.cells {
		known.byCell[cell] = append(known.byCell[cell], observation)
	}
	return true
}

// simplify derives new observations from overlapping pairs. Returns whether
// anything was learned.
func (known *knowledge) simplify() bool {
	learned := false

	for _, observation := range known.observations {
		visited := make(collections.Set[*Observation])

		for _, cell := range observation.sortedCells() {
			for _, other := range known.byCell[cell] {
				if other == observation || visited.Contains(other) {
					continue
				}
				visited.Add(other)

				shared, isSubset := observation.cells.IntersectionEx(other.cells)
				if isSubset {
					split := &Observation{
						numMines: other.numMines - observation.numMines,
						cells:    other.cells.Difference(observation.cells),
					}
					learned = known.add(split) || learned
				} else if observation.numMines == 1 && len(shared) > 1 {
					// The shared cells hold at most one of other's mines
					otherOnly := other.cells.Difference(shared)
					occludedMines := other.numMines - observation.numMines
					if occludedMines == len(otherOnly) {
						occluded := &Observation{numMines: occludedMines, cells: otherOnly}
						learned = known.add(occluded) || learned
					}
				}
			}
		}
	}

	return learned
}

func (director *Director) Act(board *game.Board) (game.CellAction, bool) {
	switch board.State() {
	case game.NotStarted:
		return game.Pos{Row: board.Rows() / 2, Col: board.Columns() / 2}.Click(), true
	case game.Won, game.Lost:
		return game.CellAction{}, false
	}

	known := observe(board)
	for round := 0; round < simplifyRounds; round++ {
		if !known.simplify() {
			break
		}
	}

	actors := []func(*game.Board, *knowledge) (game.CellAction, bool){
		director.actDeliberate,
		director.actLowestProbability,
	}
	for _, actor := range actors {
		if action, ok := actor(board, known); ok {
			game.Log.WithFields(logrus.Fields{
				"action":       action,
				"observations": len(known.observations),
			}).Debug("constraint director acted")
			return action, true
		}
	}

	return director.fallback.Act(board)
}

func (director *Director) actDeliberate(board *game.Board, known *knowledge) (game.CellAction, bool) {
	for _, observation := range known.observations {
		switch {
		case observation.numMines == 0 && observation.origin != nil:
			return observation.origin.MiddleClick(), true
		case observation.numMines == 0:
			return observation.sortedCells()[0].Click(), true
		case observation.numMines == len(observation.cells):
			return observation.sortedCells()[0].RightClick(), true
		}
	}
	return game.CellAction{}, false
}

func (director *Director) actLowestProbability(board *game.Board, known *knowledge) (game.CellAction, bool) {
	// A cell is as risky as the most pessimistic observation covering it
	probabilities := make(map[game.Pos]float64)
	for _, observation := range known.observations {
		probability := observation.MineProbability()
		for cell := range observation.cells {
			if past, ok := probabilities[cell]; !ok || probability > past {
				probabilities[cell] = probability
			}
		}
	}
	if len(probabilities) == 0 {
		return game.CellAction{}, false
	}

	lowest := math.Inf(1)
	var candidates, unconstrained []game.Pos
	numHidden := 0
	for _, pos := range board.Positions() {
		if board.Visual(pos) != game.HiddenVisual {
			continue
		}
		numHidden++

		probability, constrained := probabilities[pos]
		switch {
		case !constrained:
			unconstrained = append(unconstrained, pos)
		case probability < lowest:
			lowest = probability
			candidates = []game.Pos{pos}
		case probability == lowest:
			candidates = append(candidates, pos)
		}
	}

	// Cells away from the frontier may be the safer guess
	if len(unconstrained) > 0 {
		density := float64(board.MinesRemaining()) / float64(numHidden)
		if density < lowest {
			candidates = unconstrained
		}
	}

	return candidates[director.rand.Intn(len(candidates))].Click(), true
}
