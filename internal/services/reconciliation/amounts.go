package reconciliation

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Tolerance is the largest absolute difference still treated as a match.
var Tolerance = decimal.NewFromFloat(0.01)

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

var currencyMarks = strings.NewReplacer(",", "", "₹", "", "INR", "")

// ToFloat coerces a stored cell to a number. Text loses currency marks and
// thousands separators; if it still does not parse, its first token is tried.
func ToFloat(v any) *float64 {
	var s string
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		return &t
	case float32:
		f := float64(t)
		return &f
	case int:
		f := float64(t)
		return &f
	case int32:
		f := float64(t)
		return &f
	case int64:
		f := float64(t)
		return &f
	case uint:
		f := float64(t)
		return &f
	case uint64:
		f := float64(t)
		return &f
	case []byte:
		s = string(t)
	case string:
		s = t
	default:
		return nil
	}

	s = strings.TrimSpace(currencyMarks.Replace(s))
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return &f
	}
	if fields := strings.Fields(s); len(fields) > 0 {
		if f, err := strconv.ParseFloat(fields[0], 64); err == nil {
			return &f
		}
	}
	return nil
}
