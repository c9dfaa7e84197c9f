package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/they4kman/gosweep/game"
)

func parseGameFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addGameFlags(cmd)
	cmd.Flags().Var(&flags.ui, "ui", "")
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v) failed: %v", args, err)
	}
	return cmd
}

func TestResolveConfigDefaults(t *testing.T) {
	config, err := resolveConfig(parseGameFlags(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config != game.NewGameConfig() {
		t.Fatalf("expected defaults, got %+v", config)
	}
}

func TestResolveConfigFlags(t *testing.T) {
	cmd := parseGameFlags(t,
		"--preset", "intermediate",
		"-m", "30",
		"--seed", "99",
		"--ui", "term",
		"-d", "random",
		"--director-interval", "1s",
		"--log-level", "debug",
	)

	config, err := resolveConfig(cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := game.Difficulty{Name: "custom", Rows: 16, Columns: 16, Mines: 30}
	if config.Difficulty != want {
		t.Fatalf("expected %v, got %v", want, config.Difficulty)
	}
	if config.Seed != 99 || config.UI != uiTerminal || config.Director != directorRandom {
		t.Fatalf("unexpected config %+v", config)
	}
	if config.DirectorInterval != time.Second || config.LogLevel != "debug" {
		t.Fatalf("unexpected config %+v", config)
	}
}

func TestResolveConfigFileUnderFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gosweep.yaml")
	document := "preset: beginner\nseed: 5\ndirector: constraint\n"
	if err := os.WriteFile(path, []byte(document), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := resolveConfig(parseGameFlags(t, "--config", path, "--seed", "6"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Difficulty != game.Beginner || config.Seed != 6 || config.Director != directorConstraint {
		t.Fatalf("unexpected config %+v", config)
	}
}

func TestResolveConfigRejectsBadFileValues(t *testing.T) {
	documents := []string{
		"ui: browser\n",
		"director: oracle\n",
		"director_interval: 0s\n",
	}

	for _, document := range documents {
		path := filepath.Join(t.TempDir(), "gosweep.yaml")
		if err := os.WriteFile(path, []byte(document), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := resolveConfig(parseGameFlags(t, "--config", path)); err == nil {
			t.Fatalf("expected an error for %q", document)
		}
	}
}

func TestFlagValuesRejectUnknownNames(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addGameFlags(cmd)

	for _, args := range [][]string{{"--preset", "nightmare"}, {"-d", "oracle"}} {
		if err := cmd.ParseFlags(args); err == nil {
			t.Fatalf("expected %v to be rejected", args)
		}
	}
}

func TestNewDirector(t *testing.T) {
	for _, name := range []string{directorRandom, directorConstraint} {
		director, err := newDirector(name, nil)
		if err != nil || director == nil {
			t.Fatalf("newDirector(%q) = %v, %v", name, director, err)
		}
	}

	if director, err := newDirector(directorNone, nil); err != nil || director != nil {
		t.Fatalf("expected no director for manual play, got %v, %v", director, err)
	}
	if _, err := newDirector("oracle", nil); err == nil {
		t.Fatalf("expected an error for an unknown director")
	}
}

func TestSimulate(t *testing.T) {
	config := game.NewGameConfig()
	config.Difficulty = game.Beginner
	config.Seed = 21
	r := config.NewRand()

	director, err := newDirector(directorConstraint, r)
	if err != nil {
		t.Fatal(err)
	}

	result, err := simulate(config.BoardConfig(r), director, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total() != 10 || result.Unfinished != 0 {
		t.Fatalf("expected 10 finished games, got %v", result)
	}

	if _, err := simulate(game.BoardConfig{Rows: 0, Columns: 1}, director, 1); err == nil {
		t.Fatalf("expected an error for an invalid board")
	}
}

func TestSimulateCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"simulate", "--games", "3", "--preset", "beginner", "--seed", "1", "--log-level", "error"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "constraint director on beginner") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestTallyString(t *testing.T) {
	if got := (tally{Won: 3, Lost: 1}).String(); got != "3 won, 1 lost, 0 unfinished (75.0% win rate)" {
		t.Fatalf("unexpected tally %q", got)
	}
}
