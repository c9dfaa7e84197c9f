package game

import "fmt"

type GameState int

const (
	NotStarted GameState = iota
	InProgress
	Won
	Lost
)

func (state GameState) String() string {
	switch state {
	case NotStarted:
		return "not started"
	case InProgress:
		return "in progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("GameState(%d)", int(state))
	}
}

// IsOver reports whether the state is terminal
func (state GameState) IsOver() bool {
	return state == Won || state == Lost
}

type VisualKind int

const (
	VisualHidden VisualKind = iota
	VisualFlagged
	VisualRevealed
	VisualMine
	VisualDetonated
)

// CellVisual is what a presentation layer needs to draw a single cell.
// Count is only meaningful for VisualRevealed.
type CellVisual struct {
	Kind  VisualKind
	Count int
}

var (
	HiddenVisual    = CellVisual{Kind: VisualHidden}
	FlaggedVisual   = CellVisual{Kind: VisualFlagged}
	MineVisual      = CellVisual{Kind: VisualMine}
	DetonatedVisual = CellVisual{Kind: VisualDetonated}
)

func RevealedVisual(count int) CellVisual {
	return CellVisual{Kind: VisualRevealed, Count: count}
}

func (visual CellVisual) String() string {
	switch visual.Kind {
	case VisualHidden:
		return "#"
	case VisualFlagged:
		return "f"
	case VisualRevealed:
		if visual.Count == 0 {
			return "."
		}
		return fmt.Sprint(visual.Count)
	case VisualMine:
		return "O"
	case VisualDetonated:
		return "*"
	default:
		return "?"
	}
}

// Largest first-click safe zone: the 3x3 block around the clicked cell
const safeZoneSpan = 3
