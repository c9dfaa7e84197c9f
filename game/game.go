package game

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// Difficulty is the set of parameters a new board is built from
type Difficulty struct {
	Name    string
	Rows    int
	Columns int
	Mines   int
}

var (
	Beginner     = Difficulty{Name: "beginner", Rows: 8, Columns: 8, Mines: 10}
	Intermediate = Difficulty{Name: "intermediate", Rows: 16, Columns: 16, Mines: 40}
	Expert       = Difficulty{Name: "expert", Rows: 16, Columns: 30, Mines: 99}
)

var Presets = []Difficulty{Beginner, Intermediate, Expert}

// LookupDifficulty finds a preset by case-insensitive name
func LookupDifficulty(name string) (Difficulty, bool) {
	for _, preset := range Presets {
		if strings.EqualFold(preset.Name, name) {
			return preset, true
		}
	}
	return Difficulty{}, false
}

// Custom returns a difficulty with the given dimensions, keeping the preset
// name if the dimensions happen to match one
func Custom(rows, columns, mines int) Difficulty {
	for _, preset := range Presets {
		if preset.Rows == rows && preset.Columns == columns && preset.Mines == mines {
			return preset
		}
	}
	return Difficulty{Name: "custom", Rows: rows, Columns: columns, Mines: mines}
}

func (difficulty Difficulty) String() string {
	return fmt.Sprintf("%s (%dx%d, %d mines)", difficulty.Name, difficulty.Rows, difficulty.Columns, difficulty.Mines)
}

func (difficulty Difficulty) boardConfig() BoardConfig {
	return BoardConfig{
		Rows:     difficulty.Rows,
		Columns:  difficulty.Columns,
		NumMines: difficulty.Mines,
	}
}
