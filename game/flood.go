package game

import "github.com/gammazero/deque"

type NeighborGetter func(Pos) []Pos

// Visitor is called once per entered position and reports whether the fill
// should continue through that position's neighbors
type Visitor func(Pos) bool

// flood walks outward from origin breadth-first. enter is asked before a
// position is queued and must remember its answer, so no position is entered
// twice. Uses a work-list rather than recursion, so region size is bounded
// only by the board.
func flood(origin Pos, enter func(Pos) bool, visit Visitor, getNeighbors NeighborGetter) {
	if !enter(origin) {
		return
	}

	var queue deque.Deque
	queue.PushBack(origin)

	for queue.Len() > 0 {
		pos := queue.PopFront().(Pos)
		if !visit(pos) {
			continue
		}

		for _, neighbor := range getNeighbors(pos) {
			if enter(neighbor) {
				queue.PushBack(neighbor)
			}
		}
	}
}

// expand reveals origin and the zero-count region connected to it, including
// that region's numbered border. Returns the newly revealed positions in the
// order they were opened.
func (board *Board) expand(origin Pos) []Pos {
	var revealed []Pos

	enter := func(pos Pos) bool {
		cell := board.cellAt(pos)
		if cell.isRevealed || cell.isFlagged || cell.isMine {
			return false
		}
		cell.isRevealed = true
		return true
	}

	visit := func(pos Pos) bool {
		revealed = append(revealed, pos)
		return board.cellAt(pos).numMines == 0
	}

	flood(origin, enter, visit, board.Neighbors)

	if len(revealed) > 1 {
		Log.WithField("origin", origin).Debugf("cascade revealed %d cells", len(revealed))
	}
	return revealed
}
