package game

// Director plays the game on the player's behalf. It only looks at what a
// player could see: cell visuals, flag counts and the game state.
type Director interface {
	// Act picks the next move, or reports false when it has none to offer
	Act(board *Board) (CellAction, bool)
}

// Play lets director drive board until the game ends, the director gives up,
// or maxMoves actions have been applied. A non-positive maxMoves allows four
// moves per cell.
func Play(board *Board, director Director, maxMoves int) GameState {
	if maxMoves <= 0 {
		maxMoves = 4 * board.NumCells()
	}

	for move := 0; move < maxMoves && !board.State().IsOver(); move++ {
		action, ok := director.Act(board)
		if !ok {
			Log.WithField("state", board.State()).Debug("director has no move")
			break
		}
		board.Apply(action)
	}
	return board.State()
}
