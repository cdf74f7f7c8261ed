package coord

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Format rebuilds the absolute decimal text of an axis from its limbs.
// The integer part is accumulated with big integers and the fraction digits
// are taken from the text of limb 0, so no float rounding is involved.
func Format(limbs []decimal.Decimal, radix int64) string {
	if len(limbs) == 0 {
		return "0.0"
	}

	base := big.NewInt(radix)
	total := new(big.Int)
	for i := len(limbs) - 1; i >= 0; i-- {
		total.Mul(total, base)
		total.Add(total, limbs[i].Truncate(0).BigInt())
	}

	text := total.String() + "." + fractionDigits(limbs[0])

	// A value in (-1, 0) has an integer part of "0" which carries no sign.
	if total.Sign() == 0 && leadingSign(limbs) < 0 {
		text = "-" + text
	}
	return text
}

// Value reconstructs the exact decimal value of an axis.
func Value(limbs []decimal.Decimal, radix int64) decimal.Decimal {
	base := decimal.NewFromInt(radix)
	total := decimal.Zero
	for i := len(limbs) - 1; i >= 0; i-- {
		total = total.Mul(base).Add(limbs[i])
	}
	return total
}

func fractionDigits(limb decimal.Decimal) string {
	frac := limb.Sub(limb.Truncate(0)).Abs()
	_, digits, found := strings.Cut(frac.String(), ".")
	if !found || digits == "" {
		return "0"
	}
	return digits
}
