package termui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/they4kman/gosweep/game"
)

const (
	// Each cell is drawn as a glyph followed by a space, so the grid looks
	// roughly square in most fonts
	cellColumns = 2

	boardTop  = 2
	boardLeft = 1
)

var (
	baseStyle     = tcell.StyleDefault
	hiddenStyle   = baseStyle.Background(tcell.ColorSilver).Foreground(tcell.ColorBlack)
	pressedStyle  = baseStyle.Background(tcell.ColorLightGray).Foreground(tcell.ColorBlack)
	revealedStyle = baseStyle.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack)
	flagStyle     = hiddenStyle.Foreground(tcell.ColorRed).Bold(true)
	mineStyle     = revealedStyle.Foreground(tcell.ColorBlack).Bold(true)
	detonateStyle = baseStyle.Background(tcell.ColorRed).Foreground(tcell.ColorBlack).Bold(true)
	headerStyle   = baseStyle.Bold(true)
)

var countColors = [...]tcell.Color{
	1: tcell.ColorBlue,
	2: tcell.ColorGreen,
	3: tcell.ColorRed,
	4: tcell.ColorNavy,
	5: tcell.ColorMaroon,
	6: tcell.ColorTeal,
	7: tcell.ColorBlack,
	8: tcell.ColorGray,
}

// directorTick is posted from the ticker goroutine so director moves run on
// the event loop alongside input
type directorTick struct{}

type terminal struct {
	screen     tcell.Screen
	config     game.GameConfig
	difficulty game.Difficulty
	controller *game.Controller

	director game.Director
	paused   bool

	buttons    tcell.ButtonMask
	pointer    game.Pos
	pressed    game.Pos
	hasPressed bool
}

// Run takes over the terminal and plays until the user quits. director may
// be nil for manual play.
func Run(config game.GameConfig, director game.Director) error {
	board, err := game.CreateBoard(config.BoardConfig(config.NewRand()))
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	return run(screen, config, board, director)
}

func run(screen tcell.Screen, config game.GameConfig, board *game.Board, director game.Director) error {
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer screen.Fini()

	screen.SetStyle(baseStyle)
	screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents)

	t := &terminal{
		screen:     screen,
		config:     config,
		difficulty: config.Difficulty,
		director:   director,
	}
	t.controller = game.NewController(board, t)
	t.Reset(board)

	done := make(chan struct{})
	defer close(done)
	if director != nil {
		go t.tick(done)
	}

	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			t.drawAll()
			screen.Sync()
		case *tcell.EventKey:
			if quit := t.handleKey(ev); quit {
				return nil
			}
		case *tcell.EventMouse:
			t.handleMouse(ev)
		case *tcell.EventInterrupt:
			if _, ok := ev.Data().(directorTick); ok {
				t.act()
			}
		}
	}
}

func (t *terminal) tick(done <-chan struct{}) {
	ticker := time.NewTicker(t.config.DirectorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			// Dropped ticks are fine; the next one will act
			_ = t.screen.PostEvent(tcell.NewEventInterrupt(directorTick{}))
		}
	}
}

func (t *terminal) act() {
	if t.paused {
		return
	}
	if action, ok := t.director.Act(t.controller.Board()); ok {
		t.controller.Perform(action)
	}
}

func (t *terminal) handleKey(ev *tcell.EventKey) (quit bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyEnter:
		t.newGame(t.difficulty)
		return false
	case tcell.KeyRune:
	default:
		return false
	}

	switch ev.Rune() {
	case 'q':
		return true
	case 'r':
		t.newGame(t.difficulty)
	case '1':
		t.newGame(game.Beginner)
	case '2':
		t.newGame(game.Intermediate)
	case '3':
		t.newGame(game.Expert)
	case ' ':
		if t.director != nil {
			t.paused = !t.paused
			t.drawHeader()
			t.screen.Show()
		}
	case 'n':
		// Single step while paused
		if t.director != nil && t.paused {
			t.paused = false
			t.act()
			t.paused = true
		}
	}
	return false
}

func (t *terminal) newGame(difficulty game.Difficulty) {
	if err := t.controller.NewGame(difficulty); err != nil {
		game.Log.WithError(err).Error("could not start a new game")
		return
	}
	t.difficulty = difficulty
}

// handleMouse derives press and release edges from the button mask, which
// tcell reports as the full set of held buttons on every event
func (t *terminal) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	pos := screenToGrid(x, y)
	buttons := ev.Buttons()
	pressed := buttons &^ t.buttons
	released := t.buttons &^ buttons
	t.buttons = buttons

	if pressed&tcell.ButtonPrimary != 0 {
		t.controller.Press(game.ButtonPrimary, pos)
	}
	if pressed&tcell.ButtonSecondary != 0 {
		t.controller.Press(game.ButtonSecondary, pos)
	}

	if pos != t.pointer {
		t.pointer = pos
		t.controller.Move(pos)
	}

	if released&tcell.ButtonPrimary != 0 {
		t.controller.Release(game.ButtonPrimary, pos)
	}
	if released&tcell.ButtonSecondary != 0 {
		t.controller.Release(game.ButtonSecondary, pos)
	}

	if pressed&tcell.ButtonMiddle != 0 {
		t.controller.Perform(pos.MiddleClick())
	}
}

func screenToGrid(x, y int) game.Pos {
	col := x - boardLeft
	if col < 0 {
		// Integer division rounds toward zero
		col -= cellColumns - 1
	}
	return game.Pos{Row: y - boardTop, Col: col / cellColumns}
}

func (t *terminal) ShowPressed(pos game.Pos, pressed bool) {
	t.pressed, t.hasPressed = pos, pressed
	t.drawCell(pos)
	t.screen.Show()
}

func (t *terminal) Refresh(result game.Result) {
	for _, pos := range result.Changed {
		t.drawCell(pos)
	}
	t.drawHeader()
	t.screen.Show()
}

func (t *terminal) Reset(board *game.Board) {
	t.hasPressed = false
	t.drawAll()
}

func (t *terminal) drawAll() {
	t.screen.Clear()
	t.drawHeader()
	for _, pos := range t.controller.Board().Positions() {
		t.drawCell(pos)
	}
	t.drawHelp()
	t.screen.Show()
}

func (t *terminal) drawHeader() {
	board := t.controller.Board()
	width, _ := t.screen.Size()
	for x := 0; x < width; x++ {
		t.screen.SetContent(x, 0, ' ', nil, baseStyle)
	}

	header := fmt.Sprintf("%03d  %s", board.MinesRemaining(), t.difficulty.Name)
	style := headerStyle
	switch board.State() {
	case game.Won:
		header += "  WIN!"
		style = style.Foreground(tcell.ColorGreen)
	case game.Lost:
		header += "  LOSE :("
		style = style.Foreground(tcell.ColorRed)
	}
	if t.paused {
		header += "  paused"
	}
	t.drawString(boardLeft, 0, header, style)
}

func (t *terminal) drawHelp() {
	board := t.controller.Board()
	help := "q quit  r restart  1/2/3 presets"
	if t.director != nil {
		help += "  space pause  n step"
	}
	t.drawString(boardLeft, boardTop+board.Rows()+1, help, baseStyle.Dim(true))
}

func (t *terminal) drawString(x, y int, s string, style tcell.Style) {
	for i, r := range s {
		t.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (t *terminal) drawCell(pos game.Pos) {
	board := t.controller.Board()
	if !board.Contains(pos) {
		return
	}

	glyph, style := cellGlyph(board.Visual(pos))
	if t.hasPressed && t.pressed == pos {
		style = pressedStyle
	}

	x, y := boardLeft+pos.Col*cellColumns, boardTop+pos.Row
	t.screen.SetContent(x, y, glyph, nil, style)
	t.screen.SetContent(x+1, y, ' ', nil, style)
}

func cellGlyph(visual game.CellVisual) (rune, tcell.Style) {
	switch visual.Kind {
	case game.VisualFlagged:
		return 'F', flagStyle
	case game.VisualMine:
		return '*', mineStyle
	case game.VisualDetonated:
		return '*', detonateStyle
	case game.VisualRevealed:
		if visual.Count == 0 {
			return ' ', revealedStyle
		}
		return rune('0' + visual.Count), revealedStyle.Foreground(countColors[visual.Count]).Bold(true)
	default:
		return ' ', hiddenStyle
	}
}
