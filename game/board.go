package game

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/they4kman/gosweep/util/collections"
)

type BoardConfig struct {
	Rows, Columns int
	NumMines      int

	// Source for mine placement. A time-seeded source is used when nil.
	Rand *rand.Rand

	// Fixed mine positions, placed verbatim on the first reveal. NumMines is
	// ignored when set, and the first click gets no safe zone.
	Layout []Pos
}

// Result describes what a single board operation changed
type Result struct {
	// Positions whose visual changed, each listed once, in the order they changed
	Changed []Pos
	// Game state after the operation
	State GameState

	// Set when the operation revealed a mine
	HitMine   bool
	Detonated Pos
}

type Board struct {
	rows, columns int
	numMines      int
	cells         [][]Cell

	state         GameState
	numFlags      int
	remainingSafe int
	detonated     Pos

	layout []Pos
	rand   *rand.Rand
}

// MaxMines returns the most mines a board of the given size accepts while
// still leaving room for the safe zone around any first click
func MaxMines(rows, columns int) int {
	zoneRows, zoneColumns := rows, columns
	if zoneRows > safeZoneSpan {
		zoneRows = safeZoneSpan
	}
	if zoneColumns > safeZoneSpan {
		zoneColumns = safeZoneSpan
	}
	return rows*columns - zoneRows*zoneColumns
}

func NewBoard(rows, columns, numMines int) (*Board, error) {
	return CreateBoard(BoardConfig{Rows: rows, Columns: columns, NumMines: numMines})
}

func CreateBoard(config BoardConfig) (*Board, error) {
	if config.Layout != nil {
		config.NumMines = len(config.Layout)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	board := &Board{
		rows:          config.Rows,
		columns:       config.Columns,
		numMines:      config.NumMines,
		cells:         make([][]Cell, config.Rows),
		state:         NotStarted,
		remainingSafe: config.Rows*config.Columns - config.NumMines,
		layout:        config.Layout,
		rand:          config.Rand,
	}
	if board.rand == nil {
		board.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for row := range board.cells {
		board.cells[row] = make([]Cell, config.Columns)
	}

	return board, nil
}

func (config BoardConfig) validate() error {
	invalid := func(reason string) error {
		return &ConfigurationError{
			Rows:    config.Rows,
			Columns: config.Columns,
			Mines:   config.NumMines,
			Reason:  reason,
		}
	}

	switch {
	case config.Rows <= 0:
		return invalid("rows must be positive")
	case config.Columns <= 0:
		return invalid("columns must be positive")
	case config.NumMines < 0:
		return invalid("mine count cannot be negative")
	}

	if config.Layout != nil {
		seen := make(collections.Set[Pos])
		for _, pos := range config.Layout {
			if pos.Row < 0 || pos.Col < 0 || pos.Row >= config.Rows || pos.Col >= config.Columns {
				return invalid("layout mine " + pos.String() + " is outside the board")
			}
			if seen.Contains(pos) {
				return invalid("layout mine " + pos.String() + " is listed twice")
			}
			seen.Add(pos)
		}
		return nil
	}

	if limit := MaxMines(config.Rows, config.Columns); config.NumMines > limit {
		return invalid(fmt.Sprintf("the first-click safe zone leaves room for at most %d mines", limit))
	}
	return nil
}

func (board *Board) Rows() int {
	return board.rows
}

func (board *Board) Columns() int {
	return board.columns
}

func (board *Board) NumCells() int {
	return board.rows * board.columns
}

func (board *Board) NumMines() int {
	return board.numMines
}

func (board *Board) NumFlags() int {
	return board.numFlags
}

// MinesRemaining is the mine count minus placed flags. It goes negative when
// the player over-flags.
func (board *Board) MinesRemaining() int {
	return board.numMines - board.numFlags
}

func (board *Board) State() GameState {
	return board.state
}

func (board *Board) Contains(pos Pos) bool {
	return pos.Row >= 0 && pos.Col >= 0 && pos.Row < board.rows && pos.Col < board.columns
}

// CellAt returns a copy of the cell at pos
func (board *Board) CellAt(pos Pos) (Cell, error) {
	if !board.Contains(pos) {
		return Cell{}, &OperationError{Op: "cell", Pos: pos, Reason: "outside the board"}
	}
	return board.cells[pos.Row][pos.Col], nil
}

// Visual returns how the cell at pos should currently be drawn. Positions
// outside the board read as hidden.
func (board *Board) Visual(pos Pos) CellVisual {
	if !board.Contains(pos) {
		return HiddenVisual
	}
	detonated := board.state == Lost && pos == board.detonated
	return board.cells[pos.Row][pos.Col].visual(board.state, detonated)
}

// Positions lists every position of the board in row-major order
func (board *Board) Positions() []Pos {
	positions := make([]Pos, 0, board.NumCells())
	for row := 0; row < board.rows; row++ {
		for col := 0; col < board.columns; col++ {
			positions = append(positions, Pos{row, col})
		}
	}
	return positions
}

// Neighbors lists the up-to-8 positions surrounding pos, in row-major order
func (board *Board) Neighbors(pos Pos) []Pos {
	neighbors := make([]Pos, 0, 8)
	board.forEachNeighbor(pos, func(neighbor Pos) {
		neighbors = append(neighbors, neighbor)
	})
	return neighbors
}

func (board *Board) forEachNeighbor(pos Pos, visit func(Pos)) {
	for row := pos.Row - 1; row <= pos.Row+1; row++ {
		if row < 0 || row >= board.rows {
			continue
		}
		for col := pos.Col - 1; col <= pos.Col+1; col++ {
			if col < 0 || col >= board.columns || (row == pos.Row && col == pos.Col) {
				continue
			}
			visit(Pos{row, col})
		}
	}
}

// MineLocations lists mined positions in row-major order. Empty until the
// mines have been placed.
func (board *Board) MineLocations() []Pos {
	var mines []Pos
	for _, pos := range board.Positions() {
		if board.cells[pos.Row][pos.Col].isMine {
			mines = append(mines, pos)
		}
	}
	return mines
}

func (board *Board) cellAt(pos Pos) *Cell {
	return &board.cells[pos.Row][pos.Col]
}

func (board *Board) noChange() Result {
	return Result{State: board.state}
}

// PlaceMines distributes the board's mines over every cell outside the 3x3
// block centred on (row, col) and computes adjacency counts. Reveal calls it
// on the first click; it may only run once per board.
func (board *Board) PlaceMines(row, col int) error {
	origin := Pos{row, col}
	if !board.Contains(origin) {
		return &OperationError{Op: "place mines", Pos: origin, Reason: "outside the board"}
	}
	if board.state != NotStarted {
		return &OperationError{Op: "place mines", Pos: origin, Reason: "mines were already placed"}
	}

	if board.layout != nil {
		for _, mine := range board.layout {
			board.cellAt(mine).isMine = true
		}
	} else {
		eligible := make([]Pos, 0, board.NumCells())
		for _, pos := range board.Positions() {
			if abs(pos.Row-row) <= 1 && abs(pos.Col-col) <= 1 {
				continue
			}
			eligible = append(eligible, pos)
		}

		// Partial Fisher-Yates: each prefix slot is drawn uniformly from the
		// slots not yet taken
		for i := 0; i < board.numMines; i++ {
			j := i + board.rand.Intn(len(eligible)-i)
			eligible[i], eligible[j] = eligible[j], eligible[i]
			board.cellAt(eligible[i]).isMine = true
		}
	}

	for _, pos := range board.Positions() {
		if board.cellAt(pos).isMine {
			board.forEachNeighbor(pos, func(neighbor Pos) {
				board.cellAt(neighbor).numMines++
			})
		}
	}

	board.state = InProgress
	Log.WithFields(logrus.Fields{
		"origin": origin,
		"mines":  board.numMines,
		"rows":   board.rows,
		"cols":   board.columns,
	}).Debug("placed mines")
	return nil
}

// Reveal opens the cell at (row, col). The first reveal of a board places the
// mines. Revealing a zero-count cell opens its whole zero region and the
// numbered border around it.
func (board *Board) Reveal(row, col int) Result {
	pos := Pos{row, col}
	if !board.Contains(pos) {
		Log.WithField("pos", pos).Debug("ignoring reveal outside the board")
		return board.noChange()
	}
	if board.state.IsOver() {
		return board.noChange()
	}

	cell := board.cellAt(pos)
	if cell.isRevealed || cell.isFlagged {
		return board.noChange()
	}

	if board.state == NotStarted {
		if err := board.PlaceMines(row, col); err != nil {
			Log.WithError(err).Error("could not start game")
			return board.noChange()
		}
	}

	if cell.isMine {
		return board.lose(pos)
	}

	changed := board.expand(pos)
	board.remainingSafe -= len(changed)
	if board.remainingSafe == 0 {
		board.win()
	}

	return Result{Changed: changed, State: board.state}
}

func (board *Board) lose(pos Pos) Result {
	board.cellAt(pos).isRevealed = true
	board.state = Lost
	board.detonated = pos

	// Every other unflagged mine now shows as a mine
	changed := []Pos{pos}
	for _, mine := range board.MineLocations() {
		if mine != pos && !board.cellAt(mine).isFlagged {
			changed = append(changed, mine)
		}
	}

	Log.WithFields(logrus.Fields{
		"pos":       pos,
		"remaining": board.remainingSafe,
	}).Info("mine revealed, game lost")

	return Result{Changed: changed, State: board.state, HitMine: true, Detonated: pos}
}

func (board *Board) win() {
	board.state = Won
	Log.WithFields(logrus.Fields{
		"rows":  board.rows,
		"cols":  board.columns,
		"mines": board.numMines,
	}).Info("all safe cells revealed, game won")
}

// ToggleFlag flips the flag on a hidden cell
func (board *Board) ToggleFlag(row, col int) Result {
	pos := Pos{row, col}
	if !board.Contains(pos) {
		Log.WithField("pos", pos).Debug("ignoring flag outside the board")
		return board.noChange()
	}
	if board.state.IsOver() {
		return board.noChange()
	}

	cell := board.cellAt(pos)
	if cell.isRevealed {
		return board.noChange()
	}

	cell.isFlagged = !cell.isFlagged
	if cell.isFlagged {
		board.numFlags++
	} else {
		board.numFlags--
	}

	return Result{Changed: []Pos{pos}, State: board.state}
}

// OpenNeighbors reveals every hidden, unflagged neighbor of a revealed
// numbered cell, provided the number of flags around it matches its count.
// A mismatched flag count leaves the board untouched.
func (board *Board) OpenNeighbors(row, col int) Result {
	pos := Pos{row, col}
	if !board.Contains(pos) {
		Log.WithField("pos", pos).Debug("ignoring chord outside the board")
		return board.noChange()
	}
	if board.state.IsOver() {
		return board.noChange()
	}

	cell := board.cellAt(pos)
	if !cell.isRevealed || cell.numMines == 0 {
		return board.noChange()
	}

	numFlags := 0
	var targets []Pos
	board.forEachNeighbor(pos, func(neighbor Pos) {
		switch neighborCell := board.cellAt(neighbor); {
		case neighborCell.isFlagged:
			numFlags++
		case !neighborCell.isRevealed:
			targets = append(targets, neighbor)
		}
	})

	if numFlags != int(cell.numMines) {
		return board.noChange()
	}

	result := board.noChange()
	for _, target := range targets {
		step := board.Reveal(target.Row, target.Col)
		result.Changed = append(result.Changed, step.Changed...)
		result.State = step.State
		if step.HitMine {
			result.HitMine = true
			result.Detonated = step.Detonated
		}
		if board.state.IsOver() {
			break
		}
	}
	return result
}

// Apply performs a single cell action
func (board *Board) Apply(action CellAction) Result {
	switch action.Action {
	case Click:
		return board.Reveal(action.Pos.Row, action.Pos.Col)
	case RightClick:
		return board.ToggleFlag(action.Pos.Row, action.Pos.Col)
	case MiddleClick:
		return board.OpenNeighbors(action.Pos.Row, action.Pos.Col)
	default:
		Log.WithField("action", action).Warn("ignoring unknown action")
		return board.noChange()
	}
}

// String renders the board with mines visible, one row per line:
// # hidden, f flag, F flagged mine, O mine, * detonated mine, . empty, 1-8 counts
func (board *Board) String() string {
	var builder strings.Builder
	for row, cells := range board.cells {
		if row > 0 {
			builder.WriteByte('\n')
		}
		for col, cell := range cells {
			detonated := board.state == Lost && board.detonated == Pos{row, col}
			builder.WriteString(cell.serialize(detonated))
		}
	}
	return builder.String()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
