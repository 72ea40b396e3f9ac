// Package config loads engine settings from defaults, an optional
// gobang.yaml file, and GOBANG_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	// BoardDim is the side length of the board.
	BoardDim int `mapstructure:"board-dim"`
	// Threads is the root search worker count. Zero means one worker
	// per CPU.
	Threads int `mapstructure:"threads"`
	// TTMemFraction is the share of system memory given to the
	// transposition table.
	TTMemFraction float64 `mapstructure:"tt-mem-fraction"`
	// CandidateRadius bounds move generation to cells within this
	// Chebyshev distance of an existing stone.
	CandidateRadius int `mapstructure:"candidate-radius"`
	// WeightsFile optionally overrides the built-in evaluation
	// weights with a YAML file.
	WeightsFile string `mapstructure:"weights-file"`
	// ZobristSeed seeds the hash key generator. Zero selects random
	// keys per process.
	ZobristSeed uint64 `mapstructure:"zobrist-seed"`
	// Debug turns on debug logging and pretty console output.
	Debug bool `mapstructure:"debug"`
}

func defaultViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("board-dim", 19)
	v.SetDefault("threads", 0)
	v.SetDefault("tt-mem-fraction", 0.25)
	v.SetDefault("candidate-radius", 2)
	v.SetDefault("weights-file", "")
	v.SetDefault("zobrist-seed", 0x6f6d6f6b75)
	v.SetDefault("debug", false)

	v.SetEnvPrefix("gobang")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration. A missing config file is not an
// error; a present but unparseable one is.
func Load() (*Config, error) {
	v := defaultViper()
	v.SetConfigName("gobang")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/gobang")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return unmarshal(v)
}

// Default returns the built-in configuration without touching the
// filesystem.
func Default() *Config {
	c, _ := unmarshal(defaultViper())
	return c
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	if c.Threads <= 0 {
		c.Threads = runtime.NumCPU()
	}
	return &c, nil
}
