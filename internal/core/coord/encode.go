package coord

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Encode converts Split output into limbs of the given radix, least
// significant first. The integer text decides the sign, so "-0" with a
// nonzero fraction encodes a negative value. Limb 0 carries the fraction.
func Encode(integer, fraction string, radix int64) ([]decimal.Decimal, error) {
	if radix < MinRadix {
		return nil, newError("coord.Encode", ErrRadix, "radix %d below %d", radix, MinRadix)
	}

	negative := strings.HasPrefix(integer, "-")
	digits := strings.TrimPrefix(integer, "-")
	if digits == "" || !isDigits(digits) || fraction == "" || !isDigits(fraction) {
		return nil, valueError("coord.Encode", integer+"."+fraction)
	}

	magnitude, _ := new(big.Int).SetString(digits, 10)
	base := big.NewInt(radix)
	remainder := new(big.Int)

	limbs := make([]decimal.Decimal, 0, 4)
	for magnitude.Cmp(base) >= 0 {
		magnitude.QuoRem(magnitude, base, remainder)
		limbs = append(limbs, signed(decimal.NewFromBigInt(remainder, 0), negative))
	}
	limbs = append(limbs, signed(decimal.NewFromBigInt(magnitude, 0), negative))

	limbs[0] = limbs[0].Add(signed(fractionValue(fraction), negative))
	return limbs, nil
}

// EncodeLiteral encodes a canonical literal.
func EncodeLiteral(lit Literal, radix int64) ([]decimal.Decimal, error) {
	integer, fraction := lit.Parts()
	return Encode(integer, fraction, radix)
}

// fractionValue is 0.<digits> built from the digit string.
func fractionValue(digits string) decimal.Decimal {
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" {
		return decimal.Zero
	}
	value, _ := new(big.Int).SetString(trimmed, 10)
	return decimal.NewFromBigInt(value, -int32(len(digits)))
}

func signed(d decimal.Decimal, negative bool) decimal.Decimal {
	if negative {
		return d.Neg()
	}
	return d
}
