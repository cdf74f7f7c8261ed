package movement

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/zeusync/worldpos/internal/core/coord"
	"github.com/zeusync/worldpos/internal/core/systems/physics"
)

// SpeedPrecision is the number of fractional digits kept on speed
// components and per-tick deltas.
const SpeedPrecision = 12

// Controls is the input state applied on every tick.
type Controls struct {
	Forward  bool `json:"forward" yaml:"forward"`
	Backward bool `json:"backward" yaml:"backward"`
	Left     bool `json:"left" yaml:"left"`
	Right    bool `json:"right" yaml:"right"`
}

// Body is a steerable point with inertia. It owns its position vector and
// is the only writer of it.
type Body struct {
	config   Config
	controls Controls

	position *coord.Vector
	speed    []decimal.Decimal

	bearing float64
	turning float64
	heading physics.Vec3

	moved  bool
	turned bool
}

// NewBody creates a body at start facing bearing radians.
func NewBody(start []any, bearing float64, config Config) (*Body, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	position, err := coord.New(start, coord.WithRadix(config.Radix))
	if err != nil {
		return nil, err
	}

	speed := make([]decimal.Decimal, position.Len())
	for i := range speed {
		speed[i] = decimal.Zero
	}

	return &Body{
		config:   config,
		position: position,
		speed:    speed,
		bearing:  physics.WrapAngle(bearing),
		heading:  physics.Heading(bearing),
	}, nil
}

// SetControls replaces the input state used by Tick.
func (b *Body) SetControls(c Controls) {
	b.controls = c
}

// Controls returns the current input state.
func (b *Body) Controls() Controls {
	return b.controls
}

// Tick applies the current controls and advances the body by frameTime.
func (b *Body) Tick(frameTime float64) error {
	if b.controls.Forward {
		if err := b.Accelerate(frameTime, false); err != nil {
			return err
		}
	}
	if b.controls.Backward {
		if err := b.Accelerate(frameTime, true); err != nil {
			return err
		}
	}
	if b.controls.Left {
		b.Turn(frameTime, false)
	}
	if b.controls.Right {
		b.Turn(frameTime, true)
	}
	return b.Step(frameTime)
}

// Accelerate pushes the body along its heading by SpeedAccel.
func (b *Body) Accelerate(frameTime float64, backwards bool) error {
	return b.AccelerateBy(b.config.SpeedAccel, frameTime, backwards)
}

// AccelerateBy pushes the body along its heading by amount per second.
func (b *Body) AccelerateBy(amount, frameTime float64, backwards bool) error {
	if backwards {
		amount = -amount
	}
	ft := decimal.NewFromFloat(frameTime)
	scale := decimal.NewFromFloat(amount)
	for i, h := range b.heading.Components(len(b.speed)) {
		increment := decimal.NewFromFloat(h).Mul(scale).Mul(ft)
		b.speed[i] = b.speed[i].Add(increment).Round(SpeedPrecision)
	}
	b.moved = true
	return b.limitSpeed()
}

// Turn changes the turning rate by TurnAccel.
func (b *Body) Turn(frameTime float64, backwards bool) {
	b.TurnBy(b.config.TurnAccel, frameTime, backwards)
}

// TurnBy changes the turning rate by amount per second.
func (b *Body) TurnBy(amount, frameTime float64, backwards bool) {
	if backwards {
		amount = -amount
	}
	b.turning = physics.Clamp(b.turning+amount*frameTime, b.config.TurnMax)
	b.turned = true
}

// Step advances the body by frameTime seconds. Ticks without fresh input
// damp turning and speed toward zero first.
func (b *Body) Step(frameTime float64) error {
	if !b.turned && b.turning != 0 {
		b.turning = physics.Approach(b.turning, b.config.TurnDamp*frameTime)
		b.turned = true
	}
	if b.turned {
		b.bearing = physics.WrapAngle(b.bearing + b.turning*frameTime)
		b.heading = physics.Heading(b.bearing)
		b.turned = false
	}

	if !b.moved {
		damp := decimal.NewFromFloat(b.config.SpeedDamp * frameTime)
		for i, s := range b.speed {
			if s.IsZero() {
				continue
			}
			b.speed[i] = approach(s, damp)
			b.moved = true
		}
	}

	if !b.moved {
		return nil
	}
	ft := decimal.NewFromFloat(frameTime)
	delta := make([]any, len(b.speed))
	for i, s := range b.speed {
		delta[i] = s.Mul(ft).Round(SpeedPrecision)
	}
	if _, err := b.position.Move(delta); err != nil {
		return err
	}
	b.moved = false
	return nil
}

// Teleport replaces the position, keeping the radix and arity.
func (b *Body) Teleport(values []any) error {
	position, err := coord.New(values, coord.WithConfig(b.position.Config()))
	if err != nil {
		return err
	}
	if position.Len() != b.position.Len() {
		return fmt.Errorf("teleport to %d axes, body has %d: %w", position.Len(), b.position.Len(), coord.ErrArity)
	}
	b.position = position
	return nil
}

// Position returns a copy of the current position.
func (b *Body) Position() *coord.Vector {
	return b.position.Clone()
}

// Coordinates returns the formatted position axes.
func (b *Body) Coordinates() []string {
	return b.position.Strings()
}

// Speed returns a copy of the speed vector.
func (b *Body) Speed() []decimal.Decimal {
	out := make([]decimal.Decimal, len(b.speed))
	copy(out, b.speed)
	return out
}

// Bearing returns the heading angle in radians.
func (b *Body) Bearing() float64 { return b.bearing }

// Turning returns the turning rate in radians per second.
func (b *Body) Turning() float64 { return b.turning }

func (b *Body) limitSpeed() error {
	if b.config.SpeedMax <= 0 {
		return nil
	}
	limit := decimal.NewFromFloat(b.config.SpeedMax)
	norm, err := coord.Magnitude(b.speed)
	if err != nil {
		return err
	}
	if !norm.GreaterThan(limit) {
		return nil
	}
	factor := limit.DivRound(norm, SpeedPrecision+4)
	for i := range b.speed {
		b.speed[i] = b.speed[i].Mul(factor).Round(SpeedPrecision)
	}
	return nil
}

func approach(value, step decimal.Decimal) decimal.Decimal {
	if value.IsPositive() {
		return decimal.Max(decimal.Zero, value.Sub(step))
	}
	return decimal.Min(decimal.Zero, value.Add(step))
}
