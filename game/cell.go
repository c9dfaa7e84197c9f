package game

import "fmt"

// Pos addresses a cell by zero-based row and column
type Pos struct {
	Row, Col int
}

func (pos Pos) String() string {
	return fmt.Sprintf("(%d, %d)", pos.Row, pos.Col)
}

// Cell holds the state of one grid square. The Board owns every Cell; callers
// only ever receive copies.
type Cell struct {
	isMine, isRevealed, isFlagged bool
	numMines                      uint8
}

func (cell Cell) IsMine() bool {
	return cell.isMine
}

func (cell Cell) IsRevealed() bool {
	return cell.isRevealed
}

func (cell Cell) IsFlagged() bool {
	return cell.isFlagged
}

// IsHiddenPlain reports whether the cell is neither revealed nor flagged
func (cell Cell) IsHiddenPlain() bool {
	return !cell.isRevealed && !cell.isFlagged
}

// NumMines is the adjacent mine count. Zero until mines are placed.
func (cell Cell) NumMines() int {
	return int(cell.numMines)
}

func (cell Cell) visual(state GameState, detonated bool) CellVisual {
	switch {
	case cell.isRevealed && cell.isMine:
		if detonated {
			return DetonatedVisual
		}
		return MineVisual
	case cell.isRevealed:
		return RevealedVisual(int(cell.numMines))
	case cell.isFlagged:
		return FlaggedVisual
	case cell.isMine && state == Lost:
		return MineVisual
	default:
		return HiddenVisual
	}
}

// serialize renders the cell for debug output. Mines are visible.
func (cell Cell) serialize(detonated bool) string {
	switch {
	case cell.isMine:
		switch {
		case detonated:
			return "*"
		case cell.isFlagged:
			return "F"
		default:
			return "O"
		}
	case cell.isFlagged:
		return "f"
	case cell.isRevealed:
		if cell.numMines == 0 {
			return "."
		}
		return fmt.Sprint(cell.numMines)
	default:
		return "#"
	}
}

type Action int

const (
	Click Action = iota
	RightClick
	MiddleClick
)

func (action Action) String() string {
	switch action {
	case Click:
		return "click"
	case RightClick:
		return "right-click"
	case MiddleClick:
		return "middle-click"
	default:
		return fmt.Sprintf("Action(%d)", int(action))
	}
}

// CellAction is a single move addressed at one cell
type CellAction struct {
	Pos    Pos
	Action Action
}

func (action CellAction) String() string {
	return fmt.Sprintf("%s %v", action.Action, action.Pos)
}

// Click reveals the cell
func (pos Pos) Click() CellAction {
	return CellAction{pos, Click}
}

// RightClick toggles the cell's flag
func (pos Pos) RightClick() CellAction {
	return CellAction{pos, RightClick}
}

// MiddleClick opens the cell's neighbors
func (pos Pos) MiddleClick() CellAction {
	return CellAction{pos, MiddleClick}
}
