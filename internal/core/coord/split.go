package coord

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Literal is a canonical decimal number held as text.
// Integer and Fraction contain digits only; both are at least "0".
type Literal struct {
	Negative bool
	Integer  string
	Fraction string
}

// Zero is the canonical zero literal
var Zero = Literal{Integer: "0", Fraction: "0"}

// String renders the literal as "[-]integer.fraction".
func (l Literal) String() string {
	integer, fraction := l.Parts()
	return integer + "." + fraction
}

// Parts returns the literal in Split form. The sign is folded into the
// integer text, so -0.5 yields ("-0", "5").
func (l Literal) Parts() (integer, fraction string) {
	if l.Negative {
		return "-" + l.Integer, l.Fraction
	}
	return l.Integer, l.Fraction
}

// IsZero reports whether the literal represents zero.
func (l Literal) IsZero() bool {
	return l.Integer == "0" && l.Fraction == "0"
}

// Neg returns the literal with its sign flipped. Zero stays positive.
func (l Literal) Neg() Literal {
	if l.IsZero() {
		return l
	}
	l.Negative = !l.Negative
	return l
}

// Decimal converts the literal to an exact decimal without float parsing.
func (l Literal) Decimal() decimal.Decimal {
	digits := strings.TrimLeft(l.Integer+l.Fraction, "0")
	if digits == "" {
		return decimal.Zero
	}
	value, _ := new(big.Int).SetString(digits, 10)
	if l.Negative {
		value.Neg(value)
	}
	return decimal.NewFromBigInt(value, -int32(len(l.Fraction)))
}

// Split separates a decimal literal into its integer and fractional text.
// A literal without a point yields (literal, "0"). Empty parts become "0"
// and a sign on an integer-less literal stays on the integer text.
func Split(literal string) (integer, fraction string, err error) {
	sign, body := splitSign(strings.TrimSpace(literal))
	if body == "" {
		return "", "", valueError("coord.Split", literal)
	}

	integer, fraction, found := strings.Cut(body, ".")
	if !found {
		fraction = "0"
	}
	if integer == "" && fraction == "" {
		return "", "", valueError("coord.Split", literal)
	}
	if !isDigits(integer) || !isDigits(fraction) {
		return "", "", valueError("coord.Split", literal)
	}

	if integer == "" {
		integer = "0"
	}
	if fraction == "" {
		fraction = "0"
	}
	return sign + integer, fraction, nil
}

// Canonicalize converts any accepted input into a Literal. Text, Go integer
// and float kinds, decimals, big integers and Stringers are accepted. Floats
// are rendered with their shortest exact text before splitting.
func Canonicalize(value any) (Literal, error) {
	text, err := literalText(value)
	if err != nil {
		return Literal{}, err
	}
	return ParseLiteral(text)
}

// MaxLiteralDigits bounds the digit count a scientific literal may expand
// to. Plain literals are not limited beyond their own length.
const MaxLiteralDigits = 4096

// ParseLiteral canonicalizes a textual literal. Scientific notation is
// expanded at text level, up to MaxLiteralDigits digits.
func ParseLiteral(text string) (Literal, error) {
	const op = "coord.ParseLiteral"

	text = strings.TrimSpace(text)
	if strings.ContainsAny(text, "eE") {
		d, err := decimal.NewFromString(text)
		if err != nil {
			return Literal{}, valueError(op, text)
		}
		if n := expandedDigits(d); n > MaxLiteralDigits {
			return Literal{}, newError(op, ErrValue, "literal %q expands to %d digits, limit %d", text, n, MaxLiteralDigits)
		}
		text = d.String()
	}

	integer, fraction, err := Split(text)
	if err != nil {
		return Literal{}, err
	}

	lit := Literal{
		Negative: strings.HasPrefix(integer, "-"),
		Integer:  strings.TrimLeft(strings.TrimPrefix(integer, "-"), "0"),
		Fraction: strings.TrimRight(fraction, "0"),
	}
	if lit.Integer == "" {
		lit.Integer = "0"
	}
	if lit.Fraction == "" {
		lit.Fraction = "0"
	}
	if lit.IsZero() {
		lit.Negative = false
	}
	return lit, nil
}

// expandedDigits is the digit count of d written without an exponent.
func expandedDigits(d decimal.Decimal) int64 {
	exp := int64(d.Exponent())
	if exp < 0 {
		exp = -exp
	}
	return int64(d.NumDigits()) + exp
}

// FromDecimal converts an exact decimal into a Literal.
func FromDecimal(d decimal.Decimal) Literal {
	// decimal text is always digits with an optional sign and point
	lit, _ := ParseLiteral(d.String())
	return lit
}

func literalText(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", valueError("coord.Canonicalize", value)
	case Literal:
		return v.String(), nil
	case string:
		return v, nil
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return "", valueError("coord.Canonicalize", value)
		}
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", valueError("coord.Canonicalize", value)
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case decimal.Decimal:
		return v.String(), nil
	case *big.Int:
		if v == nil {
			return "", valueError("coord.Canonicalize", value)
		}
		return v.String(), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", valueError("coord.Canonicalize", value)
	}
}

func splitSign(text string) (sign, body string) {
	switch {
	case strings.HasPrefix(text, "-"):
		return "-", text[1:]
	case strings.HasPrefix(text, "+"):
		return "", text[1:]
	default:
		return "", text
	}
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
