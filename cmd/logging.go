package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/they4kman/gosweep/game"
)

// setupLogging applies the configured level and destination to game.Log.
// When the terminal UI owns the screen and no log file is set, logs are
// dropped. The returned func closes the log file, if any.
func setupLogging(config game.GameConfig, ownsTerminal bool) (func(), error) {
	level, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	game.Log.SetLevel(level)

	switch {
	case config.LogFile != "":
		file, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		game.Log.SetOutput(file)
		return func() { file.Close() }, nil

	case ownsTerminal:
		game.Log.SetOutput(ioutil.Discard)
	}

	return func() {}, nil
}
