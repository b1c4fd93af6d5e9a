package pricing

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Limits on what the rounding math will accept. Rescaling a decimal costs
// time proportional to its exponent, so magnitudes outside these bounds are
// treated as garbage rather than numbers.
const (
	MinExponent = -12
	MaxExponent = 15
	MaxDigits   = 40
	maxInputLen = 64
)

// Bounded reports whether d fits the limits above
func Bounded(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= MinExponent && exp <= MaxExponent && d.NumDigits() <= MaxDigits
}

func bounded(d decimal.Decimal) decimal.Decimal {
	if !Bounded(d) {
		return decimal.Zero
	}
	return d
}

// Coerce turns a loosely typed numeric value into a decimal. Anything that
// is not a finite number (nil, "abc", NaN, booleans, unknown types) or is
// out of bounds becomes zero. Display math uses this so one corrupt row cannot break a page.
// Write paths validate separately before persisting.
func Coerce(v any) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return bounded(n)
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero
		}
		return bounded(*n)
	case decimal.NullDecimal:
		if !n.Valid {
			return decimal.Zero
		}
		return bounded(n.Decimal)
	case string:
		return parse(n)
	case *string:
		if n == nil {
			return decimal.Zero
		}
		return parse(*n)
	case json.Number:
		return parse(n.String())
	case float64:
		return fromFloat(n)
	case float32:
		return fromFloat(float64(n))
	case int:
		return decimal.NewFromInt(int64(n))
	case int8:
		return decimal.NewFromInt(int64(n))
	case int16:
		return decimal.NewFromInt(int64(n))
	case int32:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case uint:
		return decimal.NewFromUint64(uint64(n))
	case uint8:
		return decimal.NewFromUint64(uint64(n))
	case uint16:
		return decimal.NewFromUint64(uint64(n))
	case uint32:
		return decimal.NewFromUint64(uint64(n))
	case uint64:
		return decimal.NewFromUint64(n)
	default:
		return decimal.Zero
	}
}

func parse(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxInputLen {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return bounded(d)
}

func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return bounded(decimal.NewFromFloat(f))
}

// Amounts coerces a list of raw payment amounts
func Amounts(values ...any) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = Coerce(v)
	}
	return out
}
