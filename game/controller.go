package game

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
)

type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

func (button Button) String() string {
	switch button {
	case ButtonPrimary:
		return "primary"
	case ButtonSecondary:
		return "secondary"
	default:
		return fmt.Sprintf("Button(%d)", int(button))
	}
}

// InputState tracks which mouse buttons are held and whether a chord just
// fired
type InputState int

const (
	Idle InputState = iota
	PrimaryDown
	SecondaryDown
	BothDown
	// Both buttons were down and secondary was released first, firing a chord.
	// The primary release that ends this hold must not reveal.
	SecureAfterChord
)

func (state InputState) String() string {
	switch state {
	case Idle:
		return "idle"
	case PrimaryDown:
		return "primary down"
	case SecondaryDown:
		return "secondary down"
	case BothDown:
		return "both down"
	case SecureAfterChord:
		return "secure after chord"
	default:
		return fmt.Sprintf("InputState(%d)", int(state))
	}
}

// View is the presentation side of a Controller
type View interface {
	// ShowPressed draws or clears the sunken look of a hidden cell under a
	// held primary button
	ShowPressed(pos Pos, pressed bool)
	// Refresh redraws the cells listed in result.Changed
	Refresh(result Result)
	// Reset redraws everything for a newly created board
	Reset(board *Board)
}

// Controller turns pointer events into board operations. It owns the board
// and replaces it on NewGame.
type Controller struct {
	board *Board
	view  View
	rand  *rand.Rand

	state      InputState
	pressed    Pos
	hasPressed bool
}

type nopView struct{}

func (nopView) ShowPressed(Pos, bool) {}
func (nopView) Refresh(Result)        {}
func (nopView) Reset(*Board)          {}

// NewController takes ownership of board. A nil view discards all updates.
func NewController(board *Board, view View) *Controller {
	if view == nil {
		view = nopView{}
	}
	return &Controller{
		board: board,
		view:  view,
		rand:  board.rand,
	}
}

func (controller *Controller) Board() *Board {
	return controller.board
}

func (controller *Controller) State() InputState {
	return controller.state
}

// NewGame replaces the board with a fresh one built from difficulty. The old
// board is kept when the difficulty is invalid.
func (controller *Controller) NewGame(difficulty Difficulty) error {
	config := difficulty.boardConfig()
	config.Rand = controller.rand

	board, err := CreateBoard(config)
	if err != nil {
		return err
	}

	controller.board = board
	controller.state = Idle
	controller.hasPressed = false
	controller.view.Reset(board)

	Log.WithField("difficulty", difficulty).Info("started new game")
	return nil
}

// Perform applies an action directly, bypassing button tracking
func (controller *Controller) Perform(action CellAction) {
	controller.refresh(controller.board.Apply(action))
}

func (controller *Controller) Press(button Button, pos Pos) {
	from := controller.state

	switch {
	case from == Idle && button == ButtonPrimary:
		controller.press(pos)
		controller.state = PrimaryDown
	case from == Idle && button == ButtonSecondary:
		controller.refresh(controller.board.ToggleFlag(pos.Row, pos.Col))
		controller.state = SecondaryDown
	case from == PrimaryDown && button == ButtonSecondary:
		controller.state = BothDown
	case from == SecondaryDown && button == ButtonPrimary:
		controller.press(pos)
		controller.state = BothDown
	case from == SecureAfterChord && button == ButtonSecondary:
		controller.state = BothDown
	}

	controller.logTransition("press", button, pos, from)
}

func (controller *Controller) Move(pos Pos) {
	switch controller.state {
	case PrimaryDown, BothDown, SecureAfterChord:
		controller.press(pos)
	}
}

func (controller *Controller) Release(button Button, pos Pos) {
	from := controller.state

	switch {
	case from == PrimaryDown && button == ButtonPrimary:
		controller.unpress()
		controller.refresh(controller.board.Reveal(pos.Row, pos.Col))
		controller.state = Idle
	case from == SecondaryDown && button == ButtonSecondary:
		controller.state = Idle
	case from == BothDown && button == ButtonPrimary:
		controller.unpress()
		controller.refresh(controller.board.OpenNeighbors(pos.Row, pos.Col))
		controller.state = SecondaryDown
	case from == BothDown && button == ButtonSecondary:
		controller.refresh(controller.board.OpenNeighbors(pos.Row, pos.Col))
		controller.state = SecureAfterChord
	case from == SecureAfterChord && button == ButtonPrimary:
		controller.unpress()
		controller.state = Idle
	}

	controller.logTransition("release", button, pos, from)
}

// press moves the pressed look to pos, if pos can show it
func (controller *Controller) press(pos Pos) {
	if controller.hasPressed && controller.pressed == pos {
		return
	}
	controller.unpress()

	if controller.board.State().IsOver() || !controller.board.Contains(pos) {
		return
	}
	if cell := controller.board.cells[pos.Row][pos.Col]; !cell.IsHiddenPlain() {
		return
	}

	controller.pressed, controller.hasPressed = pos, true
	controller.view.ShowPressed(pos, true)
}

func (controller *Controller) unpress() {
	if controller.hasPressed {
		controller.hasPressed = false
		controller.view.ShowPressed(controller.pressed, false)
	}
}

func (controller *Controller) refresh(result Result) {
	if len(result.Changed) > 0 {
		controller.view.Refresh(result)
	}
}

func (controller *Controller) logTransition(event string, button Button, pos Pos, from InputState) {
	if from == controller.state {
		return
	}
	Log.WithFields(logrus.Fields{
		"button": button,
		"pos":    pos,
		"from":   from,
		"to":     controller.state,
	}).Debug(event)
}
