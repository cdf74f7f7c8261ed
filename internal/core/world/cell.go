package world

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/zeusync/worldpos/internal/core/coord"
)

// SplitWorld splits a formatted coordinate into its integer part and its
// signed fractional part. "-0.5" gives (0, -0.5).
func SplitWorld(text string) (*big.Int, decimal.Decimal, error) {
	lit, err := coord.ParseLiteral(text)
	if err != nil {
		return nil, decimal.Zero, err
	}
	integer, ok := new(big.Int).SetString(lit.Integer, 10)
	if !ok {
		return nil, decimal.Zero, fmt.Errorf("split %q: %w", text, coord.ErrValue)
	}
	fraction, err := decimal.NewFromString("0." + lit.Fraction)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("split %q: %w", text, coord.ErrValue)
	}
	if lit.Negative {
		integer.Neg(integer)
		fraction = fraction.Neg()
	}
	return integer, fraction, nil
}

// Cell maps a formatted coordinate onto a grid of the given cell size. It
// returns the cell index, rounded toward negative infinity, and the offset
// inside that cell in [0, size).
func Cell(text string, size int64) (*big.Int, decimal.Decimal, error) {
	if size <= 0 {
		return nil, decimal.Zero, fmt.Errorf("cell size %d: %w", size, ErrInvalidConfig)
	}
	lit, err := coord.ParseLiteral(text)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return cellOf(lit.Decimal(), size)
}

func cellOf(value decimal.Decimal, size int64) (*big.Int, decimal.Decimal, error) {
	span := decimal.NewFromInt(size)
	q, r := value.QuoRem(span, 0)
	if r.IsNegative() {
		q = q.Sub(decimal.NewFromInt(1))
		r = r.Add(span)
	}
	return q.BigInt(), r, nil
}
