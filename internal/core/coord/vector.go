package coord

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// DefaultRadix is the limb radix used when no option overrides it.
	DefaultRadix int64 = 65535
	// MinRadix is the smallest usable radix.
	MinRadix int64 = 2

	MinAxes = 1
	MaxAxes = 3
)

// Config holds the per-vector settings fixed at construction.
type Config struct {
	// Radix is the limb base. Larger values need fewer limbs per axis.
	Radix int64 `json:"radix" yaml:"radix"`
}

// DefaultConfig returns the default vector configuration
func DefaultConfig() Config {
	return Config{Radix: DefaultRadix}
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.Radix < MinRadix {
		return newError("coord.Config", ErrRadix, "radix %d below %d", c.Radix, MinRadix)
	}
	return nil
}

// Option configures a Vector at construction
type Option func(*Config)

// WithRadix overrides the limb radix.
func WithRadix(radix int64) Option {
	return func(c *Config) {
		c.Radix = radix
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(config Config) Option {
	return func(c *Config) {
		*c = config
	}
}

// Vector is a fixed-arity position whose axes are stored as limb sequences.
// A Vector has a single writer; reads must not overlap a mutation.
type Vector struct {
	config Config
	base   decimal.Decimal
	axes   [][]decimal.Decimal
}

// New builds a vector from one literal per axis.
func New(values []any, opts ...Option) (*Vector, error) {
	const op = "coord.New"

	v, err := newEmpty(len(values), opts...)
	if err != nil {
		return nil, err
	}
	for i, value := range values {
		lit, err := Canonicalize(value)
		if err != nil {
			return nil, err
		}
		limbs, err := EncodeLiteral(lit, v.config.Radix)
		if err != nil {
			return nil, err
		}
		v.axes[i] = limbs
	}
	if err = v.validate(op); err != nil {
		return nil, err
	}
	return v, nil
}

// MustNew is like New but panics on a fault.
func MustNew(values []any, opts ...Option) *Vector {
	v, err := New(values, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// FromLimbs builds a vector directly from limb sequences, skipping literal
// parsing. The input is copied and normalized.
func FromLimbs(axes [][]decimal.Decimal, opts ...Option) (*Vector, error) {
	const op = "coord.FromLimbs"

	v, err := newEmpty(len(axes), opts...)
	if err != nil {
		return nil, err
	}
	for i, limbs := range axes {
		for j, limb := range limbs {
			if j > 0 && !limb.IsInteger() {
				return nil, newError(op, ErrValue, "axis %d limb %d = %s is not an integer", i, j, limb)
			}
		}
		v.axes[i] = normalize(cloneLimbs(limbs), v.base)
	}
	if err = v.validate(op); err != nil {
		return nil, err
	}
	return v, nil
}

// Copy returns an independent deep copy of src.
func Copy(src *Vector) *Vector {
	if src == nil {
		return nil
	}
	return src.Clone()
}

func newEmpty(arity int, opts ...Option) (*Vector, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if arity < MinAxes || arity > MaxAxes {
		return nil, newError("coord.New", ErrArity, "value given must be tuple or list of %d to %d values", MinAxes, MaxAxes)
	}
	return &Vector{
		config: config,
		base:   decimal.NewFromInt(config.Radix),
		axes:   make([][]decimal.Decimal, arity),
	}, nil
}

// Clone returns an independent deep copy.
func (v *Vector) Clone() *Vector {
	return &Vector{
		config: v.config,
		base:   v.base,
		axes:   v.cloneAxes(),
	}
}

// Len returns the number of axes.
func (v *Vector) Len() int { return len(v.axes) }

// Radix returns the limb radix.
func (v *Vector) Radix() int64 { return v.config.Radix }

// Config returns the construction settings.
func (v *Vector) Config() Config { return v.config }

// Limbs returns a copy of one axis's limbs, least significant first.
func (v *Vector) Limbs(axis int) ([]decimal.Decimal, error) {
	if err := v.checkIndex("coord.Limbs", axis); err != nil {
		return nil, err
	}
	return cloneLimbs(v.axes[axis]), nil
}

// Get returns the absolute decimal text of one axis.
func (v *Vector) Get(axis int) (string, error) {
	if err := v.checkIndex("coord.Get", axis); err != nil {
		return "", err
	}
	return Format(v.axes[axis], v.config.Radix), nil
}

// Value returns the exact decimal value of one axis.
func (v *Vector) Value(axis int) (decimal.Decimal, error) {
	if err := v.checkIndex("coord.Value", axis); err != nil {
		return decimal.Zero, err
	}
	return Value(v.axes[axis], v.config.Radix), nil
}

// Set replaces one axis from a fresh literal.
func (v *Vector) Set(axis int, value any) error {
	const op = "coord.Set"

	if err := v.checkIndex(op, axis); err != nil {
		return err
	}
	lit, err := Canonicalize(value)
	if err != nil {
		return err
	}
	limbs, err := EncodeLiteral(lit, v.config.Radix)
	if err != nil {
		return err
	}
	v.axes[axis] = limbs
	return nil
}

// Strings returns the formatted value of every axis.
func (v *Vector) Strings() []string {
	out := make([]string, len(v.axes))
	for i, limbs := range v.axes {
		out[i] = Format(limbs, v.config.Radix)
	}
	return out
}

// String renders the vector as "(x, y, z)".
func (v *Vector) String() string {
	return "(" + strings.Join(v.Strings(), ", ") + ")"
}

// GoString renders the vector as "Vector(x, y, z)".
func (v *Vector) GoString() string {
	return "Vector" + v.String()
}

// Equal reports whether both vectors hold the same values on every axis.
func (v *Vector) Equal(other *Vector) bool {
	if other == nil || len(v.axes) != len(other.axes) {
		return false
	}
	for i := range v.axes {
		if !Value(v.axes[i], v.config.Radix).Equal(Value(other.axes[i], other.config.Radix)) {
			return false
		}
	}
	return true
}

func (v *Vector) checkIndex(op string, axis int) error {
	if axis < 0 || axis >= len(v.axes) {
		return indexError(op, axis, len(v.axes))
	}
	return nil
}

func (v *Vector) validate(op string) error {
	for i, limbs := range v.axes {
		if err := Validate(limbs, v.config.Radix); err != nil {
			return newError(op, ErrInvariant, "axis %d: %v", i, err)
		}
	}
	return nil
}

func (v *Vector) cloneAxes() [][]decimal.Decimal {
	axes := make([][]decimal.Decimal, len(v.axes))
	for i, limbs := range v.axes {
		axes[i] = cloneLimbs(limbs)
	}
	return axes
}

func cloneLimbs(limbs []decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(limbs), len(limbs)+1)
	copy(out, limbs)
	return out
}
