package cmd

import (
	"fmt"
	"os"

	"github.com/faiface/pixel/pixelgl"
	"github.com/spf13/cobra"

	"github.com/they4kman/gosweep/ui/pixelui"
	"github.com/they4kman/gosweep/ui/termui"
)

var rootCmd = &cobra.Command{
	Use:   "gosweep",
	Short: "Play manual or computer-driven Minesweeper",
	Long: `gosweep is a Minesweeper game which supports human- or
computer-driven playing.

Run with no arguments to play manually in a window
	gosweep

Play in the terminal instead, on a beginner board
	gosweep --ui term --preset beginner

Use the director flag to make the computer play for you
	gosweep --director constraint

Press and release the left button to reveal, the right button to flag, and
both buttons (or the middle button) over a number to open its neighbors.
Enter or r restarts, 1/2/3 switch between the presets.
`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := resolveConfig(cmd)
		if err != nil {
			return err
		}

		closeLog, err := setupLogging(config, config.UI == uiTerminal)
		if err != nil {
			return err
		}
		defer closeLog()

		director, err := newDirector(config.Director, config.NewRand())
		if err != nil {
			return err
		}

		switch config.UI {
		case uiTerminal:
			return termui.Run(config, director)
		default:
			pixelgl.Run(func() {
				err = pixelui.Run(config, director)
			})
			return err
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	addGameFlags(rootCmd)
	rootCmd.Flags().Var(&flags.ui, "ui", `Front end to play in.
pixel: desktop window
term: the current terminal, with mouse support`)
}
