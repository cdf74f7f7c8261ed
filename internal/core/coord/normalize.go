package coord

import (
	"github.com/shopspring/decimal"
)

// Normalize returns a copy of limbs with carries and borrows propagated so
// that every limb lies strictly inside (-radix, radix), every nonzero limb
// shares the sign of the represented value and no zero limb trails the most
// significant one.
func Normalize(limbs []decimal.Decimal, radix int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(limbs))
	copy(out, limbs)
	return normalize(out, decimal.NewFromInt(radix))
}

// normalize works in place and may grow the slice.
func normalize(limbs []decimal.Decimal, base decimal.Decimal) []decimal.Decimal {
	if len(limbs) == 0 {
		return append(limbs, decimal.Zero)
	}

	// Carry sweep. QuoRem truncates the quotient toward zero, so the
	// remainder keeps the sign of the limb it came from.
	carry := decimal.Zero
	for i := range limbs {
		if carry.IsZero() && limbs[i].Abs().LessThan(base) {
			continue
		}
		carry, limbs[i] = limbs[i].Add(carry).QuoRem(base, 0)
	}
	for !carry.IsZero() {
		var limb decimal.Decimal
		carry, limb = carry.QuoRem(base, 0)
		limbs = append(limbs, limb)
	}

	// Borrow sweep: lower limbs opposing the leading sign borrow one unit
	// from the limb above.
	if sign := leadingSign(limbs); sign != 0 {
		unit := decimal.NewFromInt(int64(sign))
		borrow := base.Mul(unit)
		for i := 0; i < len(limbs)-1; i++ {
			if limbs[i].Sign() == -sign {
				limbs[i] = limbs[i].Add(borrow)
				limbs[i+1] = limbs[i+1].Sub(unit)
			}
		}
	}

	for len(limbs) > 1 && limbs[len(limbs)-1].IsZero() {
		limbs = limbs[:len(limbs)-1]
	}
	return limbs
}

// Validate checks a limb sequence against the normalized form.
func Validate(limbs []decimal.Decimal, radix int64) error {
	const op = "coord.Validate"

	if len(limbs) == 0 {
		return newError(op, ErrInvariant, "empty limb sequence")
	}
	base := decimal.NewFromInt(radix)
	sign := leadingSign(limbs)

	for i, limb := range limbs {
		if !limb.Abs().LessThan(base) {
			return newError(op, ErrInvariant, "limb %d = %s outside radix %d", i, limb, radix)
		}
		if i > 0 && !limb.IsInteger() {
			return newError(op, ErrInvariant, "limb %d = %s is not an integer", i, limb)
		}
		if s := limb.Sign(); s != 0 && s != sign {
			return newError(op, ErrInvariant, "limb %d = %s has mixed sign", i, limb)
		}
	}
	if n := len(limbs); n > 1 && limbs[n-1].IsZero() {
		return newError(op, ErrInvariant, "trailing zero limb at %d", n-1)
	}
	return nil
}

func leadingSign(limbs []decimal.Decimal) int {
	for i := len(limbs) - 1; i >= 0; i-- {
		if s := limbs[i].Sign(); s != 0 {
			return s
		}
	}
	return 0
}
