// Package config assembles the service configuration from YAML or JSON.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/worldpos/internal/core/observability/log"
	"github.com/zeusync/worldpos/internal/core/systems/movement"
	"github.com/zeusync/worldpos/internal/core/world"
	"github.com/zeusync/worldpos/internal/server"
)

var ErrInvalid = errors.New("invalid configuration")

// Config is the root of the service configuration
type Config struct {
	Log    LogConfig    `json:"log" yaml:"log"`
	Tick   TickConfig   `json:"tick" yaml:"tick"`
	Player PlayerConfig `json:"player" yaml:"player"`
	World  world.Config `json:"world" yaml:"world"`
	Server server.Config `json:"server" yaml:"server"`
}

type LogConfig struct {
	Level       log.Level `json:"level" yaml:"level"`
	Encoding    string    `json:"encoding" yaml:"encoding"`
	OutputPaths []string  `json:"output_paths,omitempty" yaml:"output_paths,omitempty"`
}

type TickConfig struct {
	// Rate is the number of simulation ticks per second.
	Rate float64 `json:"rate" yaml:"rate"`
	// MaxFPS caps the loop frequency. Zero leaves it uncapped.
	MaxFPS      int           `json:"max_fps" yaml:"max_fps"`
	FPSInterval time.Duration `json:"fps_interval" yaml:"fps_interval"`
	// MaxCatchUp bounds the ticks run for one frame after a stall.
	MaxCatchUp int `json:"max_catch_up" yaml:"max_catch_up"`
}

// PlayerConfig describes the entity spawned at startup
type PlayerConfig struct {
	Name     string          `json:"name" yaml:"name"`
	Start    []string        `json:"start" yaml:"start"`
	Bearing  float64         `json:"bearing" yaml:"bearing"`
	Follow   bool            `json:"follow" yaml:"follow"`
	Movement movement.Config `json:"movement" yaml:"movement"`
}

// StartValues returns the start coordinates as vector literals.
func (p PlayerConfig) StartValues() []any {
	values := make([]any, len(p.Start))
	for i, s := range p.Start {
		values[i] = s
	}
	return values
}

// Default returns the built-in configuration
func Default() *Config {
	player := movement.DefaultConfig()
	player.SpeedMax *= 100
	player.SpeedAccel *= 100
	player.SpeedDamp *= 100

	return &Config{
		Log: LogConfig{
			Level:    log.LevelInfo,
			Encoding: "json",
		},
		Tick: TickConfig{
			Rate:        60,
			MaxFPS:      120,
			FPSInterval: 100 * time.Millisecond,
			MaxCatchUp:  10,
		},
		Player: PlayerConfig{
			Name:     "player",
			Start:    []string{"0", "0", "0"},
			Follow:   true,
			Movement: player,
		},
		World: world.DefaultConfig(),
		Server: server.DefaultConfig(),
	}
}

// Validate checks every section
func (c *Config) Validate() error {
	switch c.Log.Encoding {
	case "json", "console":
	default:
		return fmt.Errorf("log encoding %q: %w", c.Log.Encoding, ErrInvalid)
	}
	if c.Tick.Rate <= 0 {
		return fmt.Errorf("tick rate %v must be positive: %w", c.Tick.Rate, ErrInvalid)
	}
	if c.Tick.MaxFPS < 0 {
		return fmt.Errorf("max_fps %d must not be negative: %w", c.Tick.MaxFPS, ErrInvalid)
	}
	if c.Tick.MaxCatchUp <= 0 {
		return fmt.Errorf("max_catch_up %d must be positive: %w", c.Tick.MaxCatchUp, ErrInvalid)
	}
	if len(c.Player.Start) == 0 {
		return fmt.Errorf("player start is empty: %w", ErrInvalid)
	}
	if err := c.Player.Movement.Validate(); err != nil {
		return fmt.Errorf("player: %w", err)
	}
	if err := c.World.Validate(); err != nil {
		return fmt.Errorf("world: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// LoadYAML reads a YAML document over the defaults.
func LoadYAML(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadJSON reads a JSON document over the defaults. Durations are given
// in nanoseconds.
func LoadJSON(r io.Reader) (*Config, error) {
	c := Default()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode json config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile picks the decoder from the file extension.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(f)
	case ".yaml", ".yml":
		return LoadYAML(f)
	default:
		return nil, fmt.Errorf("config %s: unsupported extension: %w", path, ErrInvalid)
	}
}
