package cmd

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/they4kman/gosweep/director/constraint"
	"github.com/they4kman/gosweep/director/random"
	"github.com/they4kman/gosweep/game"
)

const (
	uiPixel    = game.UIPixel
	uiTerminal = game.UITerminal

	directorNone       = "none"
	directorRandom     = "random"
	directorConstraint = "constraint"
)

var flags = struct {
	configPath       string
	preset           presetValue
	rows, columns    int
	mines            int
	seed             int64
	ui               choiceValue
	director         choiceValue
	directorInterval time.Duration
	logLevel         string
}{
	preset:   presetValue(game.Expert),
	ui:       newChoiceValue(uiPixel, uiPixel, uiTerminal),
	director: newChoiceValue(directorNone, directorNone, directorRandom, directorConstraint),
}

func addGameFlags(cmd *cobra.Command) {
	defaults := game.NewGameConfig()
	fs := cmd.PersistentFlags()

	fs.StringVar(&flags.configPath, "config", "", "YAML file to read settings from; flags override it")
	fs.Var(&flags.preset, "preset", "Board preset: beginner (8x8, 10 mines), intermediate (16x16, 40) or expert (16x30, 99)")
	fs.IntVarP(&flags.rows, "rows", "r", defaults.Difficulty.Rows, "Height of game board, in cells")
	fs.IntVarP(&flags.columns, "columns", "c", defaults.Difficulty.Columns, "Width of game board, in cells")
	fs.IntVarP(&flags.mines, "mines", "m", defaults.Difficulty.Mines, "Number of mines to place in the game board")
	fs.Int64Var(&flags.seed, "seed", 0, "Seed for mine placement and directors (0 picks one from the clock)")
	fs.VarP(&flags.director, "director", "d", `Make the computer play.
none: manual play
random: reveal random cells
constraint: deduce from revealed numbers, guessing only when stuck`)
	fs.DurationVar(&flags.directorInterval, "director-interval", defaults.DirectorInterval, "Delay between director moves")
	fs.StringVar(&flags.logLevel, "log-level", defaults.LogLevel, "Log level: panic, fatal, error, warn, info or debug")
}

// resolveConfig layers defaults, the config file and explicitly set flags, in
// that order
func resolveConfig(cmd *cobra.Command) (game.GameConfig, error) {
	config := game.NewGameConfig()

	if flags.configPath != "" {
		var err error
		if config, err = game.LoadConfig(flags.configPath, config); err != nil {
			return config, err
		}
	}

	fs := cmd.Flags()
	if fs.Changed("preset") {
		config.Difficulty = game.Difficulty(flags.preset)
	}
	if fs.Changed("rows") || fs.Changed("columns") || fs.Changed("mines") {
		difficulty := config.Difficulty
		if fs.Changed("rows") {
			difficulty.Rows = flags.rows
		}
		if fs.Changed("columns") {
			difficulty.Columns = flags.columns
		}
		if fs.Changed("mines") {
			difficulty.Mines = flags.mines
		}
		config.Difficulty = game.Custom(difficulty.Rows, difficulty.Columns, difficulty.Mines)
	}
	if fs.Changed("seed") {
		config.Seed = flags.seed
	}
	if fs.Changed("ui") {
		config.UI = flags.ui.value
	}
	if fs.Changed("director") {
		config.Director = flags.director.value
	}
	if fs.Changed("director-interval") {
		config.DirectorInterval = flags.directorInterval
	}
	if fs.Changed("log-level") {
		config.LogLevel = flags.logLevel
	}

	// Values from the config file bypass flag validation
	if !flags.ui.isValid(config.UI) {
		return config, fmt.Errorf("invalid ui %q, expected %s", config.UI, flags.ui.choiceList())
	}
	if !flags.director.isValid(config.Director) {
		return config, fmt.Errorf("invalid director %q, expected %s", config.Director, flags.director.choiceList())
	}
	if config.DirectorInterval <= 0 {
		return config, fmt.Errorf("director interval must be positive, got %v", config.DirectorInterval)
	}

	return config, nil
}

// newDirector returns nil for manual play
func newDirector(name string, r *rand.Rand) (game.Director, error) {
	switch name {
	case directorNone:
		return nil, nil
	case directorRandom:
		return random.New(r), nil
	case directorConstraint:
		return constraint.New(r), nil
	default:
		return nil, fmt.Errorf("unknown director %q", name)
	}
}

type presetValue game.Difficulty

func (value *presetValue) String() string {
	return value.Name
}

func (value *presetValue) Set(name string) error {
	difficulty, ok := game.LookupDifficulty(name)
	if !ok {
		return fmt.Errorf("unknown preset")
	}
	*value = presetValue(difficulty)
	return nil
}

func (value *presetValue) Type() string {
	return "preset"
}

// choiceValue is a string flag restricted to a fixed set of values
type choiceValue struct {
	value   string
	choices map[string]struct{}
}

func newChoiceValue(value string, choices ...string) choiceValue {
	choice := choiceValue{value: value, choices: make(map[string]struct{})}
	for _, name := range choices {
		choice.choices[name] = struct{}{}
	}
	return choice
}

func (value *choiceValue) isValid(choice string) bool {
	_, isValid := value.choices[choice]
	return isValid
}

func (value *choiceValue) choiceList() string {
	choices := make([]string, 0, len(value.choices))
	for choice := range value.choices {
		choices = append(choices, choice)
	}
	sort.Strings(choices)
	return strings.Join(choices, "|")
}

func (value *choiceValue) String() string {
	return value.value
}

func (value *choiceValue) Set(choice string) error {
	if !value.isValid(choice) {
		return fmt.Errorf("expected %s", value.choiceList())
	}
	value.value = choice
	return nil
}

func (value *choiceValue) Type() string {
	return "string"
}
