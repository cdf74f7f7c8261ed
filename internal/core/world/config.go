package world

import (
	"fmt"

	"github.com/zeusync/worldpos/internal/core/coord"
)

// Config holds world settings
type Config struct {
	// TileSize is the edge length of one tile in world units.
	TileSize    int64  `json:"tile_size" yaml:"tile_size"`
	DefaultTile Tile   `json:"default_tile" yaml:"default_tile"`
	Seed        uint64 `json:"seed" yaml:"seed"`

	// Shards partitions the entity registry.
	Shards int `json:"shards" yaml:"shards"`
	// Workers bounds concurrent body steps. Zero means unbounded.
	Workers int `json:"workers" yaml:"workers"`

	CameraRadix int64 `json:"camera_radix" yaml:"camera_radix"`
	// CameraSpeed caps camera travel per tick. Zero snaps to the target.
	CameraSpeed float64 `json:"camera_speed" yaml:"camera_speed"`
}

// DefaultConfig returns default world settings
func DefaultConfig() Config {
	return Config{
		TileSize:    40,
		DefaultTile: Water,
		Shards:      16,
		CameraRadix: coord.DefaultRadix,
	}
}

// Validate validates world settings
func (c Config) Validate() error {
	if c.TileSize <= 0 {
		return fmt.Errorf("tile_size %d must be positive: %w", c.TileSize, ErrInvalidConfig)
	}
	if c.DefaultTile > Coal {
		return fmt.Errorf("default_tile %d: %w", c.DefaultTile, ErrInvalidConfig)
	}
	if c.Shards <= 0 {
		return fmt.Errorf("shards %d must be positive: %w", c.Shards, ErrInvalidConfig)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers %d must not be negative: %w", c.Workers, ErrInvalidConfig)
	}
	if c.CameraRadix < coord.MinRadix {
		return fmt.Errorf("camera_radix %d: %w", c.CameraRadix, coord.ErrRadix)
	}
	if c.CameraSpeed < 0 {
		return fmt.Errorf("camera_speed must not be negative: %w", ErrInvalidConfig)
	}
	return nil
}
