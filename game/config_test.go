package game_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/they4kman/gosweep/game"
)

func TestLookupDifficulty(t *testing.T) {
	tests := map[string]game.Difficulty{
		"beginner":     {Name: "beginner", Rows: 8, Columns: 8, Mines: 10},
		"Intermediate": {Name: "intermediate", Rows: 16, Columns: 16, Mines: 40},
		"EXPERT":       {Name: "expert", Rows: 16, Columns: 30, Mines: 99},
	}
	for name, want := range tests {
		got, ok := game.LookupDifficulty(name)
		if !ok || got != want {
			t.Fatalf("LookupDifficulty(%q) = %v, %v", name, got, ok)
		}
	}

	if _, ok := game.LookupDifficulty("nightmare"); ok {
		t.Fatalf("found a preset that does not exist")
	}
}

func TestCustomKeepsPresetNames(t *testing.T) {
	if got := game.Custom(16, 16, 40); got != game.Intermediate {
		t.Fatalf("expected intermediate, got %v", got)
	}
	if got := game.Custom(10, 12, 20); got.Name != "custom" || got.Rows != 10 || got.Columns != 12 || got.Mines != 20 {
		t.Fatalf("unexpected custom difficulty %v", got)
	}
}

func TestParseConfig(t *testing.T) {
	in := []byte(`
preset: beginner
mines: 12
seed: 42
ui: term
director: constraint
director_interval: 250ms
log_level: debug
`)

	config, err := game.ParseConfig(in, game.NewGameConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := game.Difficulty{Name: "custom", Rows: 8, Columns: 8, Mines: 12}
	if config.Difficulty != want {
		t.Fatalf("expected %v, got %v", want, config.Difficulty)
	}
	if config.Seed != 42 || config.UI != "term" || config.Director != "constraint" || config.LogLevel != "debug" {
		t.Fatalf("unexpected config %+v", config)
	}
	if config.DirectorInterval != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %v", config.DirectorInterval)
	}
}

func TestParseConfigKeepsUnsetFields(t *testing.T) {
	base := game.NewGameConfig()
	base.Seed = 7

	config, err := game.ParseConfig([]byte("ui: term\n"), base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Seed != 7 || config.Difficulty != game.Expert || config.UI != "term" {
		t.Fatalf("unexpected config %+v", config)
	}
}

func TestParseConfigErrors(t *testing.T) {
	documents := map[string]string{
		"unknown preset": "preset: nightmare\n",
		"unknown key":    "colour: blue\n",
		"bad interval":   "director_interval: soon\n",
		"not a mapping":  "- beginner\n",
	}

	for name, document := range documents {
		base := game.NewGameConfig()
		config, err := game.ParseConfig([]byte(document), base)
		if err == nil {
			t.Fatalf("%s: expected an error", name)
		}
		if config != base {
			t.Fatalf("%s: failed parse modified the config", name)
		}
	}
}

func TestConfigRoundTrip(t *testing.T) {
	configs := []game.GameConfig{game.NewGameConfig(), game.NewGameConfig()}
	configs[1].Difficulty = game.Custom(9, 11, 17)
	configs[1].Seed = 1234
	configs[1].UI = game.UITerminal
	configs[1].Director = "random"
	configs[1].DirectorInterval = time.Second
	configs[1].LogFile = "gosweep.log"

	for _, config := range configs {
		parsed, err := game.ParseConfig([]byte(config.Serialize()), game.GameConfig{})
		if err != nil {
			t.Fatalf("could not parse serialized config:\n%s\n%v", config.Serialize(), err)
		}
		if parsed != config {
			t.Fatalf("round trip changed the config: %+v != %+v", parsed, config)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gosweep.yaml")
	if err := os.WriteFile(path, []byte("preset: intermediate\n"), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := game.LoadConfig(path, game.NewGameConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Difficulty != game.Intermediate {
		t.Fatalf("expected intermediate, got %v", config.Difficulty)
	}

	if _, err := game.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), config); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestBoardConfigFromGameConfig(t *testing.T) {
	config := game.NewGameConfig()
	config.Difficulty = game.Beginner
	config.Seed = 5

	first, err := game.CreateBoard(config.BoardConfig(config.NewRand()))
	if err != nil {
		t.Fatal(err)
	}
	second, err := game.CreateBoard(config.BoardConfig(config.NewRand()))
	if err != nil {
		t.Fatal(err)
	}

	first.Reveal(0, 0)
	second.Reveal(0, 0)
	if first.String() != second.String() {
		t.Fatalf("the same seed produced different boards:\n%s\n\n%s", first, second)
	}
}
