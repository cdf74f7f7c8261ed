package coord

import (
	"math/big"
	"reflect"

	"github.com/shopspring/decimal"
)

// ClampPrecision is the number of fractional digits kept after scaling a
// delta down to a speed or magnitude limit.
const ClampPrecision = 16

// magnitudeBits is the big.Float mantissa size used for square roots.
const magnitudeBits = 256

type moveOptions struct {
	maxSpeed any
	reverse  bool
}

// MoveOption configures a single Move call
type MoveOption func(*moveOptions)

// WithMaxSpeed limits the Euclidean length of the applied delta.
func WithMaxSpeed(speed any) MoveOption {
	return func(o *moveOptions) {
		o.maxSpeed = speed
	}
}

// Reversed negates the delta before it is applied.
func Reversed() MoveOption {
	return func(o *moveOptions) {
		o.reverse = true
	}
}

// Move adds a relative delta, one component per axis, and returns the
// receiver. Every component is validated before any limb changes, and a
// failed call leaves the vector as it was.
func (v *Vector) Move(delta []any, opts ...MoveOption) (*Vector, error) {
	const op = "coord.Move"

	var options moveOptions
	for _, opt := range opts {
		opt(&options)
	}

	deltas, err := v.operands(op, delta)
	if err != nil {
		return nil, err
	}

	if options.maxSpeed != nil {
		limit, err := Canonicalize(options.maxSpeed)
		if err != nil {
			return nil, err
		}
		if limit.Negative {
			return nil, newError(op, ErrValue, "max speed %s is negative", limit)
		}
		if deltas, err = clampTo(deltas, limit.Decimal()); err != nil {
			return nil, err
		}
	}
	if options.reverse {
		for i := range deltas {
			deltas[i] = deltas[i].Neg()
		}
	}

	if err = v.apply(op, deltas); err != nil {
		return nil, err
	}
	return v, nil
}

// Add returns a new vector moved by other. Other is either a *Vector or a
// slice holding one literal per axis.
func (v *Vector) Add(other any) (*Vector, error) {
	const op = "coord.Add"

	deltas, err := v.operands(op, other)
	if err != nil {
		return nil, err
	}
	out := v.Clone()
	if err = out.apply(op, deltas); err != nil {
		return nil, err
	}
	return out, nil
}

// Sub returns a new vector moved by the negation of other.
func (v *Vector) Sub(other any) (*Vector, error) {
	const op = "coord.Sub"

	deltas, err := v.operands(op, other)
	if err != nil {
		return nil, err
	}
	for i := range deltas {
		deltas[i] = deltas[i].Neg()
	}
	out := v.Clone()
	if err = out.apply(op, deltas); err != nil {
		return nil, err
	}
	return out, nil
}

// SubFrom returns other minus v as a new vector with v's configuration.
func (v *Vector) SubFrom(other any) (*Vector, error) {
	const op = "coord.SubFrom"

	start, err := v.operands(op, other)
	if err != nil {
		return nil, err
	}
	out := &Vector{config: v.config, base: v.base, axes: make([][]decimal.Decimal, len(v.axes))}
	for i := range v.axes {
		out.axes[i] = []decimal.Decimal{decimal.Zero}
	}
	if err = out.apply(op, start); err != nil {
		return nil, err
	}

	neg := make([]decimal.Decimal, len(v.axes))
	for i, limbs := range v.axes {
		neg[i] = Value(limbs, v.config.Radix).Neg()
	}
	if err = out.apply(op, neg); err != nil {
		return nil, err
	}
	return out, nil
}

// Scale returns a new vector with every axis multiplied. The multiplier is
// a single literal or a slice with one literal per axis.
func (v *Vector) Scale(multiplier any) (*Vector, error) {
	const op = "coord.Scale"

	var factors []decimal.Decimal
	if isSequence(multiplier) {
		var err error
		if factors, err = v.operands(op, multiplier); err != nil {
			return nil, err
		}
	} else {
		lit, err := Canonicalize(multiplier)
		if err != nil {
			return nil, err
		}
		factors = make([]decimal.Decimal, len(v.axes))
		for i := range factors {
			factors[i] = lit.Decimal()
		}
	}

	out := v.Clone()
	for i := range out.axes {
		out.axes[i] = normalize(scaleLimbs(out.axes[i], factors[i], out.base), out.base)
	}
	if err := out.validate(op); err != nil {
		return nil, err
	}
	return out, nil
}

// ClampMagnitude returns a new vector scaled down so that its Euclidean
// magnitude does not exceed limit. Vectors already within limit are copied.
func (v *Vector) ClampMagnitude(limit any) (*Vector, error) {
	const op = "coord.ClampMagnitude"

	lit, err := Canonicalize(limit)
	if err != nil {
		return nil, err
	}
	if lit.Negative {
		return nil, newError(op, ErrValue, "magnitude limit %s is negative", lit)
	}

	values := make([]decimal.Decimal, len(v.axes))
	for i, limbs := range v.axes {
		values[i] = Value(limbs, v.config.Radix)
	}
	norm, err := Magnitude(values)
	if err != nil {
		return nil, err
	}
	if !norm.GreaterThan(lit.Decimal()) {
		return v.Clone(), nil
	}
	return v.Scale(lit.Decimal().DivRound(norm, ClampPrecision))
}

// Magnitude returns the Euclidean length of components, rounded to
// ClampPrecision fractional digits. A failed square root surfaces as an
// invariant fault.
func Magnitude(components []decimal.Decimal) (decimal.Decimal, error) {
	const op = "coord.Magnitude"

	sum := decimal.Zero
	for _, c := range components {
		sum = sum.Add(c.Mul(c))
	}
	if sum.IsZero() {
		return decimal.Zero, nil
	}
	return sqrtDecimal(op, sum)
}

func sqrtDecimal(op string, square decimal.Decimal) (decimal.Decimal, error) {
	if square.IsNegative() {
		return decimal.Zero, newError(op, ErrInvariant, "square root of negative %s", square)
	}
	f, _, err := big.ParseFloat(square.String(), 10, magnitudeBits, big.ToNearestEven)
	if err != nil {
		return decimal.Zero, newError(op, ErrInvariant, "parse %s: %v", square, err)
	}
	root := new(big.Float).SetPrec(magnitudeBits).Sqrt(f)
	norm, err := decimal.NewFromString(root.Text('f', ClampPrecision+2))
	if err != nil {
		return decimal.Zero, newError(op, ErrInvariant, "root of %s: %v", square, err)
	}
	return norm.Round(ClampPrecision), nil
}

// apply encodes each nonzero delta, adds it limb-wise into a scratch copy
// and swaps the copy in once every axis normalizes cleanly.
func (v *Vector) apply(op string, deltas []decimal.Decimal) error {
	scratch := v.cloneAxes()
	for i, delta := range deltas {
		if delta.IsZero() {
			continue
		}
		encoded, err := EncodeLiteral(FromDecimal(delta), v.config.Radix)
		if err != nil {
			return err
		}
		scratch[i] = normalize(addLimbs(scratch[i], encoded), v.base)
		if err = Validate(scratch[i], v.config.Radix); err != nil {
			return newError(op, ErrInvariant, "axis %d: %v", i, err)
		}
	}
	v.axes = scratch
	return nil
}

// operands turns a *Vector or a per-axis slice into exact decimals.
func (v *Vector) operands(op string, other any) ([]decimal.Decimal, error) {
	if o, ok := other.(*Vector); ok {
		if o == nil {
			return nil, valueError(op, other)
		}
		if o.Len() != v.Len() {
			return nil, arityError(op, v.Len())
		}
		out := make([]decimal.Decimal, o.Len())
		for i, limbs := range o.axes {
			out[i] = Value(limbs, o.config.Radix)
		}
		return out, nil
	}

	values, ok := toSlice(other)
	if !ok {
		return nil, arityError(op, v.Len())
	}
	if len(values) != v.Len() {
		return nil, arityError(op, v.Len())
	}
	out := make([]decimal.Decimal, len(values))
	for i, value := range values {
		lit, err := Canonicalize(value)
		if err != nil {
			return nil, err
		}
		out[i] = lit.Decimal()
	}
	return out, nil
}

func clampTo(deltas []decimal.Decimal, limit decimal.Decimal) ([]decimal.Decimal, error) {
	norm, err := Magnitude(deltas)
	if err != nil {
		return nil, err
	}
	if !norm.GreaterThan(limit) {
		return deltas, nil
	}
	factor := limit.DivRound(norm, ClampPrecision+4)
	for i := range deltas {
		deltas[i] = deltas[i].Mul(factor).Round(ClampPrecision)
	}
	return deltas, nil
}

func addLimbs(dst, src []decimal.Decimal) []decimal.Decimal {
	for i, limb := range src {
		if i < len(dst) {
			dst[i] = dst[i].Add(limb)
		} else {
			dst = append(dst, limb)
		}
	}
	return dst
}

// scaleLimbs multiplies every limb and pushes the fractional part of each
// higher limb down into the limb below it, so only limb 0 keeps a fraction.
func scaleLimbs(limbs []decimal.Decimal, factor, base decimal.Decimal) []decimal.Decimal {
	for i := range limbs {
		limbs[i] = limbs[i].Mul(factor)
	}
	for i := len(limbs) - 1; i > 0; i-- {
		whole := limbs[i].Truncate(0)
		if frac := limbs[i].Sub(whole); !frac.IsZero() {
			limbs[i] = whole
			limbs[i-1] = limbs[i-1].Add(frac.Mul(base))
		}
	}
	return limbs
}

func isSequence(value any) bool {
	if value == nil {
		return false
	}
	kind := reflect.TypeOf(value).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

func toSlice(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case nil:
		return nil, false
	}
	if !isSequence(value) {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
