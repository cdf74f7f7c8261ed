package movement

import (
	"errors"
	"fmt"

	"github.com/zeusync/worldpos/internal/core/coord"
)

// Config holds the kinematic tuning of a body
type Config struct {
	// Radix of the body's position vector.
	Radix int64 `json:"radix" yaml:"radix"`

	// SpeedMax caps the speed vector length. Zero disables the cap.
	SpeedMax   float64 `json:"speed_max" yaml:"speed_max"`
	SpeedAccel float64 `json:"speed_accel" yaml:"speed_accel"`
	SpeedDamp  float64 `json:"speed_damp" yaml:"speed_damp"`

	// Turning is in radians per second.
	TurnMax   float64 `json:"turn_max" yaml:"turn_max"`
	TurnAccel float64 `json:"turn_accel" yaml:"turn_accel"`
	TurnDamp  float64 `json:"turn_damp" yaml:"turn_damp"`
}

// DefaultConfig returns the default body tuning
func DefaultConfig() Config {
	return Config{
		Radix:      256,
		SpeedMax:   1,
		SpeedAccel: 3,
		SpeedDamp:  4,
		TurnMax:    4,
		TurnAccel:  16,
		TurnDamp:   100000,
	}
}

// Validate validates the body configuration
func (c Config) Validate() error {
	if c.Radix < coord.MinRadix {
		return fmt.Errorf("movement radix %d: %w", c.Radix, coord.ErrRadix)
	}
	for name, value := range map[string]float64{
		"speed_max":   c.SpeedMax,
		"speed_accel": c.SpeedAccel,
		"speed_damp":  c.SpeedDamp,
		"turn_max":    c.TurnMax,
		"turn_accel":  c.TurnAccel,
		"turn_damp":   c.TurnDamp,
	} {
		if value < 0 {
			return fmt.Errorf("movement %s must not be negative: %w", name, ErrInvalidConfig)
		}
	}
	return nil
}

// Movement errors
var (
	ErrInvalidConfig = errors.New("invalid movement configuration")
)
