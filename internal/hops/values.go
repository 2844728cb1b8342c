package hops

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseValue coerces a raw catalog field into a float64. Numbers pass
// through unchanged; strings are stripped of everything that is not a digit
// or '.' before parsing, so "2.1 mL/100g" and "11%" both work. Anything
// that does not survive that treatment resolves to 0, which downstream
// code reads as "unknown". No unit conversion happens here: oil values are
// assumed to already be mL/100g whatever the suffix says.
func ParseValue(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		cleaned := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' {
				return r
			}
			return -1
		}, v)
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

// AverageValue computes the midpoint of a from/to range with zero treated
// as a missing bound: both zero means the whole range is unknown (result 0),
// a single zero means "equal to the other bound" rather than a true zero.
// Classification and filtering rely on exactly this convention.
func AverageValue(from, to any) float64 {
	f := ParseValue(from)
	t := ParseValue(to)
	if f == 0 && t == 0 {
		return 0
	}
	if t == 0 {
		return f
	}
	if f == 0 {
		return t
	}
	return (f + t) / 2
}

// FormatRange renders a from/to pair for display, encoding the same
// zero-means-missing semantics as AverageValue.
func FormatRange(from, to any, unit string) string {
	f := ParseValue(from)
	t := ParseValue(to)

	if f == 0 && t == 0 {
		return "N/A"
	}
	if f == t {
		return formatFloat(f) + unit
	}
	if t == 0 {
		return formatFloat(f) + unit
	}
	if f == 0 {
		return formatFloat(t) + unit
	}
	return fmt.Sprintf("%s - %s%s", formatFloat(f), formatFloat(t), unit)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
