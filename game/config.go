package game

import (
	"fmt"
	"io/ioutil"
	"math/rand"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	UIPixel    = "pixel"
	UITerminal = "term"
)

type GameConfig struct {
	Difficulty Difficulty

	// Seed for mine placement and the directors. Zero picks a time-based seed.
	Seed int64

	// Front end to launch: UIPixel or UITerminal
	UI string

	// Name of the computer player, or "none" for manual play
	Director string
	// Delay between director moves
	DirectorInterval time.Duration

	LogLevel string
	// Log destination; empty means stderr, which the terminal UI discards
	LogFile string
}

func NewGameConfig() GameConfig {
	return GameConfig{
		Difficulty:       Expert,
		UI:               UIPixel,
		Director:         "none",
		DirectorInterval: 100 * time.Millisecond,
		LogLevel:         "info",
	}
}

// NewRand returns a source seeded from the config, resolving a zero seed to
// the current time
func (config GameConfig) NewRand() *rand.Rand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// BoardConfig builds the board parameters for the configured difficulty
func (config GameConfig) BoardConfig(r *rand.Rand) BoardConfig {
	boardConfig := config.Difficulty.boardConfig()
	boardConfig.Rand = r
	return boardConfig
}

// configFile is the on-disk form of GameConfig. Pointers tell unset keys
// apart from zero values.
type configFile struct {
	Preset           string         `yaml:"preset,omitempty"`
	Rows             *int           `yaml:"rows,omitempty"`
	Columns          *int           `yaml:"columns,omitempty"`
	Mines            *int           `yaml:"mines,omitempty"`
	Seed             *int64         `yaml:"seed,omitempty"`
	UI               *string        `yaml:"ui,omitempty"`
	Director         *string        `yaml:"director,omitempty"`
	DirectorInterval *time.Duration `yaml:"director_interval,omitempty"`
	LogLevel         *string        `yaml:"log_level,omitempty"`
	LogFile          *string        `yaml:"log_file,omitempty"`
}

// ParseConfig overlays the YAML document in onto base. A preset is applied
// first; explicit rows, columns and mines then override its fields.
func ParseConfig(in []byte, base GameConfig) (GameConfig, error) {
	var file configFile
	if err := yaml.UnmarshalStrict(in, &file); err != nil {
		return base, fmt.Errorf("parsing config: %w", err)
	}

	config := base
	if file.Preset != "" {
		preset, ok := LookupDifficulty(file.Preset)
		if !ok {
			return base, fmt.Errorf("parsing config: unknown preset %q", file.Preset)
		}
		config.Difficulty = preset
	}

	custom := false
	if file.Rows != nil {
		config.Difficulty.Rows, custom = *file.Rows, true
	}
	if file.Columns != nil {
		config.Difficulty.Columns, custom = *file.Columns, true
	}
	if file.Mines != nil {
		config.Difficulty.Mines, custom = *file.Mines, true
	}
	if custom {
		config.Difficulty = Custom(config.Difficulty.Rows, config.Difficulty.Columns, config.Difficulty.Mines)
	}

	if file.Seed != nil {
		config.Seed = *file.Seed
	}
	if file.UI != nil {
		config.UI = *file.UI
	}
	if file.Director != nil {
		config.Director = *file.Director
	}
	if file.DirectorInterval != nil {
		config.DirectorInterval = *file.DirectorInterval
	}
	if file.LogLevel != nil {
		config.LogLevel = *file.LogLevel
	}
	if file.LogFile != nil {
		config.LogFile = *file.LogFile
	}

	return config, nil
}

func LoadConfig(path string, base GameConfig) (GameConfig, error) {
	in, err := ioutil.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("reading config: %w", err)
	}
	return ParseConfig(in, base)
}

// Serialize renders the config in the format ParseConfig reads
func (config GameConfig) Serialize() string {
	file := configFile{
		Rows:             &config.Difficulty.Rows,
		Columns:          &config.Difficulty.Columns,
		Mines:            &config.Difficulty.Mines,
		Seed:             &config.Seed,
		UI:               &config.UI,
		Director:         &config.Director,
		DirectorInterval: &config.DirectorInterval,
		LogLevel:         &config.LogLevel,
	}
	if preset, ok := LookupDifficulty(config.Difficulty.Name); ok && preset == config.Difficulty {
		file = configFile{
			Preset:           config.Difficulty.Name,
			Seed:             file.Seed,
			UI:               file.UI,
			Director:         file.Director,
			DirectorInterval: file.DirectorInterval,
			LogLevel:         file.LogLevel,
		}
	}
	if config.LogFile != "" {
		file.LogFile = &config.LogFile
	}

	out, err := yaml.Marshal(&file)
	if err != nil {
		panic(err)
	}
	return string(out)
}
