package game_test

import (
	"testing"

	"github.com/they4kman/gosweep/game"
)

type fakeView struct {
	pressed   map[game.Pos]bool
	refreshes []game.Result
	resets    int
}

func newFakeView() *fakeView {
	return &fakeView{pressed: make(map[game.Pos]bool)}
}

func (view *fakeView) ShowPressed(pos game.Pos, pressed bool) {
	if pressed {
		view.pressed[pos] = true
	} else {
		delete(view.pressed, pos)
	}
}

func (view *fakeView) Refresh(result game.Result) {
	view.refreshes = append(view.refreshes, result)
}

func (view *fakeView) Reset(*game.Board) {
	view.resets++
}

func (view *fakeView) onlyPressed(t *testing.T, want ...game.Pos) {
	t.Helper()
	if len(view.pressed) != len(want) {
		t.Fatalf("expected %v pressed, got %v", want, view.pressed)
	}
	for _, pos := range want {
		if !view.pressed[pos] {
			t.Fatalf("expected %v pressed, got %v", want, view.pressed)
		}
	}
}

var (
	corner = game.Pos{Row: 0, Col: 0}
	center = game.Pos{Row: 1, Col: 1}
	edge   = game.Pos{Row: 1, Col: 2}
	far    = game.Pos{Row: 2, Col: 2}
)

// newTestController builds a 3x3 board with a single mine in the corner
func newTestController(t *testing.T) (*game.Controller, *fakeView) {
	t.Helper()
	view := newFakeView()
	return game.NewController(layoutBoard(t, 3, 3, corner), view), view
}

func expectState(t *testing.T, controller *game.Controller, want game.InputState) {
	t.Helper()
	if got := controller.State(); got != want {
		t.Fatalf("expected input state %v, got %v", want, got)
	}
}

func TestControllerPrimaryClick(t *testing.T) {
	controller, view := newTestController(t)

	controller.Press(game.ButtonPrimary, far)
	expectState(t, controller, game.PrimaryDown)
	view.onlyPressed(t, far)

	controller.Move(center)
	view.onlyPressed(t, center)

	controller.Release(game.ButtonPrimary, center)
	expectState(t, controller, game.Idle)
	view.onlyPressed(t)

	if visual := controller.Board().Visual(center); visual != game.RevealedVisual(1) {
		t.Fatalf("expected the release to reveal %v, got %v", center, visual)
	}
	if len(view.refreshes) != 1 || view.refreshes[0].Changed[0] != center {
		t.Fatalf("expected one refresh for %v, got %v", center, view.refreshes)
	}
}

func TestControllerSecondaryFlags(t *testing.T) {
	controller, view := newTestController(t)

	controller.Press(game.ButtonSecondary, corner)
	expectState(t, controller, game.SecondaryDown)
	if visual := controller.Board().Visual(corner); visual != game.FlaggedVisual {
		t.Fatalf("expected the press to flag, got %v", visual)
	}

	controller.Release(game.ButtonSecondary, corner)
	expectState(t, controller, game.Idle)
	if controller.Board().Visual(corner) != game.FlaggedVisual || len(view.refreshes) != 1 {
		t.Fatalf("release changed the flag")
	}
}

func TestControllerChordOnPrimaryRelease(t *testing.T) {
	controller, view := newTestController(t)
	controller.Perform(center.Click())
	controller.Perform(corner.RightClick())

	controller.Press(game.ButtonSecondary, center)
	expectState(t, controller, game.SecondaryDown)
	controller.Press(game.ButtonPrimary, center)
	expectState(t, controller, game.BothDown)
	// Revealed cells never look pressed
	view.onlyPressed(t)

	controller.Release(game.ButtonPrimary, center)
	expectState(t, controller, game.SecondaryDown)
	if controller.Board().State() != game.Won {
		t.Fatalf("expected the chord to win, got %v", controller.Board().State())
	}

	controller.Release(game.ButtonSecondary, center)
	expectState(t, controller, game.Idle)
}

func TestControllerSecureAfterChord(t *testing.T) {
	controller, view := newTestController(t)
	controller.Perform(center.Click())

	controller.Press(game.ButtonPrimary, center)
	controller.Press(game.ButtonSecondary, center)
	expectState(t, controller, game.BothDown)

	// No flags around the center, so the chord does nothing
	controller.Release(game.ButtonSecondary, center)
	expectState(t, controller, game.SecureAfterChord)

	controller.Move(far)
	view.onlyPressed(t, far)

	controller.Release(game.ButtonPrimary, far)
	expectState(t, controller, game.Idle)
	view.onlyPressed(t)
	if visual := controller.Board().Visual(far); visual != game.HiddenVisual {
		t.Fatalf("primary release after a chord revealed %v: %v", far, visual)
	}

	// Only that one release is suppressed
	controller.Press(game.ButtonPrimary, far)
	controller.Release(game.ButtonPrimary, far)
	if visual := controller.Board().Visual(far); visual.Kind != game.VisualRevealed {
		t.Fatalf("expected the next click to reveal %v, got %v", far, visual)
	}
}

func TestControllerSecondaryFirstChord(t *testing.T) {
	controller, _ := newTestController(t)
	controller.Perform(center.Click())

	controller.Press(game.ButtonSecondary, center)
	controller.Press(game.ButtonPrimary, center)
	controller.Release(game.ButtonSecondary, center)
	expectState(t, controller, game.SecureAfterChord)

	controller.Press(game.ButtonSecondary, center)
	expectState(t, controller, game.BothDown)

	controller.Release(game.ButtonSecondary, edge)
	controller.Release(game.ButtonPrimary, edge)
	expectState(t, controller, game.Idle)
	if visual := controller.Board().Visual(edge); visual != game.HiddenVisual {
		t.Fatalf("secure release revealed %v: %v", edge, visual)
	}
}

func TestControllerIgnoresUnmatchedEvents(t *testing.T) {
	controller, view := newTestController(t)

	controller.Release(game.ButtonPrimary, center)
	controller.Release(game.ButtonSecondary, center)
	controller.Move(center)
	expectState(t, controller, game.Idle)
	view.onlyPressed(t)

	controller.Press(game.ButtonPrimary, center)
	controller.Press(game.ButtonPrimary, far)
	expectState(t, controller, game.PrimaryDown)
	controller.Release(game.ButtonSecondary, far)
	expectState(t, controller, game.PrimaryDown)

	if len(view.refreshes) != 0 || controller.Board().State() != game.NotStarted {
		t.Fatalf("ignored events touched the board")
	}
}

func TestControllerPressVisualRules(t *testing.T) {
	controller, view := newTestController(t)
	controller.Perform(corner.RightClick())

	controller.Press(game.ButtonPrimary, corner)
	view.onlyPressed(t)

	controller.Move(game.Pos{Row: -1, Col: 0})
	view.onlyPressed(t)

	controller.Move(far)
	view.onlyPressed(t, far)

	controller.Release(game.ButtonPrimary, game.Pos{Row: 3, Col: 3})
	expectState(t, controller, game.Idle)
	view.onlyPressed(t)
	if controller.Board().State() != game.NotStarted {
		t.Fatalf("release outside the board started the game")
	}

	// Win the game, then try pressing again
	controller.Perform(far.Click())
	if controller.Board().State() != game.Won {
		t.Fatalf("expected a win, got %v", controller.Board().State())
	}
	controller.Press(game.ButtonPrimary, far)
	view.onlyPressed(t)
}

func TestControllerNewGame(t *testing.T) {
	controller, view := newTestController(t)
	controller.Press(game.ButtonPrimary, far)
	old := controller.Board()

	if err := controller.NewGame(game.Difficulty{Name: "bad", Rows: 0, Columns: 3}); err == nil {
		t.Fatalf("expected an error for an empty board")
	}
	if controller.Board() != old || view.resets != 0 {
		t.Fatalf("failed NewGame replaced the board")
	}

	if err := controller.NewGame(game.Beginner); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	board := controller.Board()
	if board == old || board.Rows() != 8 || board.Columns() != 8 || board.NumMines() != 10 {
		t.Fatalf("expected a fresh beginner board, got %dx%d", board.Rows(), board.Columns())
	}
	if view.resets != 1 {
		t.Fatalf("expected the view to be reset once, got %d", view.resets)
	}
	expectState(t, controller, game.Idle)
}

func TestControllerWithoutView(t *testing.T) {
	controller := game.NewController(layoutBoard(t, 3, 3, corner), nil)
	controller.Press(game.ButtonPrimary, far)
	controller.Release(game.ButtonPrimary, far)

	if controller.Board().State() != game.Won {
		t.Fatalf("expected a win, got %v", controller.Board().State())
	}
}
