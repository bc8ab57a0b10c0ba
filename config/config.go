// Package config reads the TOML settings file shared by the programs.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"github.com/undeconstructed/pictogo/canvas"
	"github.com/undeconstructed/pictogo/game"
)

type Config struct {
	Players []string  `toml:"players"`
	Mode    game.Mode `toml:"mode"`
	// WordsDir holds easymode.txt and hardmode.txt. Empty means the built in
	// lists.
	WordsDir string `toml:"words_dir"`
	LogLevel string `toml:"log_level"`

	Canvas CanvasConfig `toml:"canvas"`
	Web    WebConfig    `toml:"web"`
	GRPC   GRPCConfig   `toml:"grpc"`
	TCP    TCPConfig    `toml:"tcp"`
	Repl   ReplConfig   `toml:"repl"`
}

type CanvasConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type WebConfig struct {
	Addr string `toml:"addr"`
	// Origins may open the websocket, as host patterns.
	Origins []string `toml:"origins"`
}

type GRPCConfig struct {
	Addr string `toml:"addr"`
}

// TCPConfig is the line based comms gateway. An empty address turns it off.
type TCPConfig struct {
	Addr string `toml:"addr"`
}

type ReplConfig struct {
	History string `toml:"history"`
}

// Default is used for anything a file leaves out.
func Default() Config {
	return Config{
		Players:  []string{"Player 1", "Player 2"},
		Mode:     game.Easy,
		LogLevel: "info",
		Canvas: CanvasConfig{
			Width:  canvas.DefaultWidth,
			Height: canvas.DefaultHeight,
		},
		Web: WebConfig{
			Addr:    "0.0.0.0:1235",
			Origins: []string{"localhost:*"},
		},
		GRPC: GRPCConfig{
			Addr: "0.0.0.0:1236",
		},
		TCP: TCPConfig{
			Addr: "0.0.0.0:1234",
		},
		Repl: ReplConfig{
			History: "~/.pictogo_history",
		},
	}
}

// Load reads path over the defaults. An empty path gives just the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Parse(nil)
	}

	path, err := homedir.Expand(path)
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	return Parse(data)
}

// Parse reads TOML over the defaults, expands ~ in paths and validates.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	var err error
	if cfg.WordsDir, err = homedir.Expand(cfg.WordsDir); err != nil {
		return Config{}, err
	}
	if cfg.Repl.History, err = homedir.Expand(cfg.Repl.History); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if len(c.Players) < 2 {
		return game.ErrTooFewPlayers
	}
	seen := map[string]bool{}
	for _, p := range c.Players {
		if p == "" {
			return errors.New("player names cannot be empty")
		}
		if seen[p] {
			return fmt.Errorf("player named twice: %s", p)
		}
		seen[p] = true
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 || c.Canvas.Width > canvas.MaxSide || c.Canvas.Height > canvas.MaxSide {
		return fmt.Errorf("bad canvas size %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("bad log level: %w", err)
	}
	return nil
}

// Level is the zerolog level named by LogLevel.
func (c Config) Level() zerolog.Level {
	l, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}
