package pricing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// millionWord is the currency-scale word that, together with a bare "/m",
// marks a per-square-metre price ("68 triệu/m").
const millionWord = "triệu"

// Coerce converts a loosely typed source value into a number. It reports false
// for nil, empty strings, non-numeric text and non-finite values so callers can
// keep "absent" apart from zero.
func Coerce(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, false
	case *float64:
		if x == nil {
			return 0, false
		}
		f = *x
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		return parseNumeric(string(x))
	case string:
		return parseNumeric(x)
	case interface{ String() string }:
		return parseNumeric(x.String())
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s, ok := normalizeSeparators(s)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// normalizeSeparators rewrites listing-site number formats into Go syntax:
// "68,5" -> "68.5", "1,200" -> "1200", "3.400.000" -> "3400000" and
// "1.234,5" -> "1234.5". When both marks appear the last one is the decimal
// point. A single "." is always a decimal point.
func normalizeSeparators(s string) (string, bool) {
	commas, dots := strings.Count(s, ","), strings.Count(s, ".")
	switch {
	case commas == 0 && dots <= 1:
		return s, true
	case commas > 0 && dots > 0:
		decimal, group := ".", ","
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			decimal, group = ",", "."
		}
		if strings.Count(s, decimal) != 1 {
			return "", false
		}
		i := strings.LastIndex(s, decimal)
		whole, ok := ungroup(s[:i], group)
		if !ok {
			return "", false
		}
		return whole + "." + s[i+1:], true
	case commas == 1:
		i := strings.Index(s, ",")
		if len(s)-i-1 == 3 {
			if whole, ok := ungroup(s, ","); ok {
				return whole, true
			}
		}
		return s[:i] + "." + s[i+1:], true
	case commas > 1:
		return ungroup(s, ",")
	default:
		return ungroup(s, ".")
	}
}

// ungroup drops thousands separators, requiring 1-3 leading digits and full
// groups of three after each separator.
func ungroup(s, sep string) (string, bool) {
	parts := strings.Split(s, sep)
	head := strings.TrimLeft(parts[0], "+-")
	if len(head) == 0 || len(head) > 3 {
		return "", false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return "", false
		}
	}
	return strings.Join(parts, ""), true
}

// IsPerUnitArea reports whether a price text quotes a price per square metre.
func IsPerUnitArea(priceText string) bool {
	text := strings.ToLower(priceText)
	if strings.Contains(text, "/m2") || strings.Contains(text, "/m²") {
		return true
	}
	return strings.Contains(text, "/m") && strings.Contains(text, millionWord)
}

// Normalize returns the total price of a listing. A per-unit-area price is
// multiplied by a positive area; anything else is returned as coerced. The
// result is never negative or NaN.
//
// Applying Normalize to an already totalled price is only safe when the
// per-unit marker has been removed from priceText.
func Normalize(rawPrice any, priceText string, area any) float64 {
	price, ok := Coerce(rawPrice)
	if !ok || price < 0 {
		return 0
	}
	if IsPerUnitArea(priceText) {
		if a, ok := Coerce(area); ok && a > 0 {
			price *= a
		}
	}
	if math.IsInf(price, 0) {
		return 0
	}
	return price
}

// PricePerArea divides a total price by area. It reports false unless both are
// positive.
func PricePerArea(total, area float64) (float64, bool) {
	if total <= 0 || area <= 0 {
		return 0, false
	}
	return total / area, true
}
