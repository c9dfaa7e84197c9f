package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/they4kman/gosweep/game"
)

var numGames int

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Let a director play games without a window and report how it did",
	Long: `Play a number of games headlessly with the chosen director (the
constraint director when none is given), logging every result.

	gosweep simulate --games 1000 --preset beginner --seed 42`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if numGames <= 0 {
			return fmt.Errorf("--games must be positive, got %d", numGames)
		}

		config, err := resolveConfig(cmd)
		if err != nil {
			return err
		}

		closeLog, err := setupLogging(config, false)
		if err != nil {
			return err
		}
		defer closeLog()

		if config.Director == directorNone {
			config.Director = directorConstraint
		}
		r := config.NewRand()
		director, err := newDirector(config.Director, r)
		if err != nil {
			return err
		}

		tally, err := simulate(config.BoardConfig(r), director, numGames)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s director on %s: %s\n", config.Director, config.Difficulty, tally)
		return nil
	},
}

func init() {
	simulateCmd.Flags().IntVarP(&numGames, "games", "n", 100, "Number of games to play")
	rootCmd.AddCommand(simulateCmd)
}

type tally struct {
	Won, Lost, Unfinished int
}

func (t tally) Total() int {
	return t.Won + t.Lost + t.Unfinished
}

func (t tally) String() string {
	rate := 0.0
	if total := t.Total(); total > 0 {
		rate = 100 * float64(t.Won) / float64(total)
	}
	return fmt.Sprintf("%d won, %d lost, %d unfinished (%.1f%% win rate)", t.Won, t.Lost, t.Unfinished, rate)
}

// simulate plays games on boards built from boardConfig. All boards draw
// from the same source, so a seeded run is reproducible.
func simulate(boardConfig game.BoardConfig, director game.Director, games int) (tally, error) {
	var result tally

	for i := 1; i <= games; i++ {
		board, err := game.CreateBoard(boardConfig)
		if err != nil {
			return result, err
		}

		state := game.Play(board, director, 0)
		switch state {
		case game.Won:
			result.Won++
		case game.Lost:
			result.Lost++
		default:
			result.Unfinished++
		}

		game.Log.WithFields(logrus.Fields{
			"game":  i,
			"state": state,
			"flags": board.NumFlags(),
		}).Info("game finished")
	}

	return result, nil
}
