package pixelui

import (
	"fmt"
	"math"
	"time"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"github.com/faiface/pixel/text"
	"github.com/gammazero/deque"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"

	"github.com/they4kman/gosweep/game"
)

const (
	title = "gosweep"

	cellWidth      = 16
	headerHeight   = 50
	minWindowWidth = 200

	// Transparency of annotations when first displayed
	annotationBaseAlpha = 0.5
	// Total time an annotation will be displayed
	annotationDuration = 200 * time.Millisecond
)

var countColors = [...]pixel.RGBA{
	1: pixel.ToRGBA(colornames.Blue),
	2: pixel.ToRGBA(colornames.Green),
	3: pixel.ToRGBA(colornames.Red),
	4: pixel.ToRGBA(colornames.Navy),
	5: pixel.ToRGBA(colornames.Maroon),
	6: pixel.ToRGBA(colornames.Teal),
	7: pixel.ToRGBA(colornames.Black),
	8: pixel.ToRGBA(colornames.Dimgray),
}

// annotation highlights the cell a director just acted on
type annotation struct {
	action     game.CellAction
	firstShown time.Time
}

type window struct {
	win        *pixelgl.Window
	config     game.GameConfig
	difficulty game.Difficulty
	controller *game.Controller

	director game.Director
	paused   bool
	nextAct  time.Time

	// Last visual drawn for every cell; Refresh updates only changed entries
	visuals    [][]game.CellVisual
	pressed    game.Pos
	hasPressed bool
	hovered    game.Pos
	isDirty    bool

	boardTopLeft pixel.Vec
	cells        *imdraw.IMDraw
	atlas        *text.Atlas
	countText    *text.Text
	scoreText    *text.Text
	cellPosText  *text.Text

	annotations deque.Deque
}

// Run opens a window and plays until it is closed. It must be called from
// the function passed to pixelgl.Run. director may be nil for manual play.
func Run(config game.GameConfig, director game.Director) error {
	board, err := game.CreateBoard(config.BoardConfig(config.NewRand()))
	if err != nil {
		return err
	}

	win, err := pixelgl.NewWindow(pixelgl.WindowConfig{
		Title:  title,
		Bounds: windowBounds(board),
		VSync:  true,
	})
	if err != nil {
		return fmt.Errorf("opening window: %w", err)
	}

	w := &window{
		win:        win,
		config:     config,
		difficulty: config.Difficulty,
		director:   director,
		cells:      imdraw.New(nil),
		atlas:      text.NewAtlas(basicfont.Face7x13, text.ASCII),
	}
	w.countText = text.New(pixel.ZV, w.atlas)
	w.controller = game.NewController(board, w)
	w.Reset(board)

	w.loop()
	return nil
}

func windowBounds(board *game.Board) pixel.Rect {
	return pixel.R(
		0, 0,
		math.Max(float64(board.Columns()*cellWidth), minWindowWidth),
		float64(board.Rows()*cellWidth+headerHeight),
	)
}

func (w *window) ShowPressed(pos game.Pos, pressed bool) {
	w.pressed, w.hasPressed = pos, pressed
	w.isDirty = true
}

func (w *window) Refresh(result game.Result) {
	board := w.controller.Board()
	for _, pos := range result.Changed {
		w.visuals[pos.Row][pos.Col] = board.Visual(pos)
	}
	w.isDirty = true
}

func (w *window) Reset(board *game.Board) {
	w.win.SetBounds(windowBounds(board))

	topLeft := w.win.Bounds().Vertices()[1]
	topRight := w.win.Bounds().Max
	w.boardTopLeft = topLeft.Sub(pixel.V(0, headerHeight))

	w.scoreText = text.New(topLeft.Add(pixel.V(20, -30)), w.atlas)
	w.cellPosText = text.New(topRight.Add(pixel.V(-60, -30)), w.atlas)
	w.cellPosText.Color = colornames.Darkcyan

	w.visuals = make([][]game.CellVisual, board.Rows())
	for row := range w.visuals {
		w.visuals[row] = make([]game.CellVisual, board.Columns())
		for col := range w.visuals[row] {
			w.visuals[row][col] = board.Visual(game.Pos{Row: row, Col: col})
		}
	}

	w.hasPressed = false
	for w.annotations.Len() > 0 {
		w.annotations.PopFront()
	}
	w.isDirty = true
}

func (w *window) loop() {
	var (
		frames = 0
		second = time.Tick(time.Second)
	)

	for !w.win.Closed() {
		w.win.Update()

		frames++
		select {
		case <-second:
			w.win.SetTitle(fmt.Sprintf("%s | FPS: %d", title, frames))
			frames = 0
		default:
		}

		w.handleKeys()
		w.handleMouse()
		w.tickDirector()
		w.draw()
	}
}

func (w *window) newGame(difficulty game.Difficulty) {
	if err := w.controller.NewGame(difficulty); err != nil {
		game.Log.WithError(err).Error("could not start a new game")
		return
	}
	w.difficulty = difficulty
}

func (w *window) handleKeys() {
	switch {
	case w.win.JustPressed(pixelgl.KeyEscape):
		w.win.SetClosed(true)
	case w.win.JustPressed(pixelgl.KeyEnter), w.win.JustPressed(pixelgl.KeyR):
		w.newGame(w.difficulty)
	case w.win.JustPressed(pixelgl.Key1):
		w.newGame(game.Beginner)
	case w.win.JustPressed(pixelgl.Key2):
		w.newGame(game.Intermediate)
	case w.win.JustPressed(pixelgl.Key3):
		w.newGame(game.Expert)
	}

	if w.director == nil {
		return
	}

	// Pause with Space
	if w.win.JustPressed(pixelgl.KeySpace) {
		w.paused = !w.paused
	}

	// Perform single step while paused with Right Arrow
	if w.paused && (w.win.JustPressed(pixelgl.KeyRight) || w.win.Repeated(pixelgl.KeyRight)) {
		w.act()
	}
}

func (w *window) handleMouse() {
	pos := w.screenToGrid(w.win.MousePosition())

	if w.win.JustPressed(pixelgl.MouseButtonLeft) {
		w.controller.Press(game.ButtonPrimary, pos)
	}
	if w.win.JustPressed(pixelgl.MouseButtonRight) {
		w.controller.Press(game.ButtonSecondary, pos)
	}

	if pos != w.hovered {
		w.hovered = pos
		w.controller.Move(pos)
	}

	if w.win.JustReleased(pixelgl.MouseButtonLeft) {
		w.controller.Release(game.ButtonPrimary, pos)
	}
	if w.win.JustReleased(pixelgl.MouseButtonRight) {
		w.controller.Release(game.ButtonSecondary, pos)
	}

	if w.win.JustPressed(pixelgl.MouseButtonMiddle) {
		w.controller.Perform(pos.MiddleClick())
	}
}

func (w *window) tickDirector() {
	if w.director == nil || w.paused {
		return
	}
	if now := time.Now(); now.After(w.nextAct) {
		w.nextAct = now.Add(w.config.DirectorInterval)
		w.act()
	}
}

func (w *window) act() {
	action, ok := w.director.Act(w.controller.Board())
	if !ok {
		return
	}
	w.controller.Perform(action)
	w.annotations.PushBack(annotation{action: action, firstShown: time.Now()})
}

func (w *window) screenToGrid(v pixel.Vec) game.Pos {
	return game.Pos{
		Row: int(math.Floor((w.boardTopLeft.Y - v.Y) / cellWidth)),
		Col: int(math.Floor((v.X - w.boardTopLeft.X) / cellWidth)),
	}
}

// cellRect is the on-screen area of the cell at pos
func (w *window) cellRect(pos game.Pos) pixel.Rect {
	min := w.boardTopLeft.Add(pixel.V(float64(cellWidth*pos.Col), -float64(cellWidth*(pos.Row+1))))
	return pixel.Rect{Min: min, Max: min.Add(pixel.V(cellWidth, cellWidth))}
}

func (w *window) draw() {
	w.win.Clear(colornames.Gainsboro)

	w.drawHeader()

	if w.isDirty {
		w.redrawCells()
		w.isDirty = false
	}
	w.cells.Draw(w.win)
	w.countText.Draw(w.win, pixel.IM)

	w.drawAnnotations()
}

func (w *window) drawHeader() {
	board := w.controller.Board()

	w.scoreText.Clear()
	w.scoreText.Color = colornames.Black
	fmt.Fprintf(w.scoreText, "%03d", board.MinesRemaining())

	switch board.State() {
	case game.Won:
		w.scoreText.Color = colornames.Green
		fmt.Fprint(w.scoreText, "   WIN!")
	case game.Lost:
		w.scoreText.Color = colornames.Red
		fmt.Fprint(w.scoreText, "   LOSE :(")
	}
	if w.paused {
		w.scoreText.Color = colornames.Black
		fmt.Fprint(w.scoreText, "  paused")
	}
	w.scoreText.Draw(w.win, pixel.IM)

	w.cellPosText.Clear()
	if w.win.MouseInsideWindow() && board.Contains(w.hovered) {
		fmt.Fprint(w.cellPosText, w.hovered)
		w.cellPosText.Draw(w.win, pixel.IM)
	}
}

func (w *window) redrawCells() {
	w.cells.Clear()
	w.countText.Clear()

	for row, visuals := range w.visuals {
		for col, visual := range visuals {
			pos := game.Pos{Row: row, Col: col}
			pressed := w.hasPressed && w.pressed == pos
			w.drawCell(w.cellRect(pos), visual, pressed)
		}
	}
}

func (w *window) drawCell(rect pixel.Rect, visual game.CellVisual, pressed bool) {
	imd := w.cells

	imd.Color = colornames.Gray
	imd.Push(rect.Min, rect.Max)
	imd.Rectangle(0)

	fill := colornames.Silver
	switch {
	case visual.Kind == game.VisualDetonated:
		fill = colornames.Red
	case pressed, visual.Kind == game.VisualRevealed, visual.Kind == game.VisualMine:
		fill = colornames.Lightgray
	}
	imd.Color = fill
	imd.Push(rect.Min.Add(pixel.V(1, 1)), rect.Max)
	imd.Rectangle(0)

	center := rect.Center()
	switch visual.Kind {
	case game.VisualFlagged:
		imd.Color = colornames.Black
		imd.Push(center.Add(pixel.V(-3, -5)), center.Add(pixel.V(-3, 5)))
		imd.Line(1)
		imd.Color = colornames.Red
		imd.Push(center.Add(pixel.V(-3, 0)), center.Add(pixel.V(4, 5)))
		imd.Rectangle(0)

	case game.VisualMine, game.VisualDetonated:
		imd.Color = colornames.Black
		imd.Push(center)
		imd.Circle(4, 0)

	case game.VisualRevealed:
		if visual.Count > 0 {
			w.countText.Dot = center.Add(pixel.V(-3.5, -4))
			w.countText.Color = countColors[visual.Count]
			fmt.Fprint(w.countText, visual.Count)
		}
	}
}

func (w *window) drawAnnotations() {
	if w.annotations.Len() == 0 {
		return
	}

	imd := imdraw.New(nil)
	now := time.Now()

	for i, n := 0, w.annotations.Len(); i < n; i++ {
		note := w.annotations.PopFront().(annotation)

		timeShown := now.Sub(note.firstShown)
		if timeShown > annotationDuration {
			continue
		}
		w.annotations.PushBack(note)

		var baseColor pixel.RGBA
		switch note.action.Action {
		case game.Click:
			baseColor = pixel.RGB(1, 0, 0)
		case game.RightClick:
			baseColor = pixel.RGB(0, 0, 1)
		case game.MiddleClick:
			baseColor = pixel.RGB(0, 1, 0)
		}

		progress := 1 - float64(timeShown)/float64(annotationDuration)
		alpha := annotationBaseAlpha * InOutCubic(progress)

		rect := w.cellRect(note.action.Pos)
		imd.Color = baseColor.Mul(pixel.Alpha(alpha))
		imd.Push(rect.Min, rect.Max)
		imd.Rectangle(0) // 0 = filled
	}

	imd.Draw(w.win)
}

func InOutCubic(t float64) float64 {
	t *= 2
	if t < 1 {
		return 0.5 * t * t * t
	}
	t -= 2
	return 0.5 * (t*t*t + 2)
}
