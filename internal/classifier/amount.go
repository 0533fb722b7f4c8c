package classifier

import (
	"strconv"
	"strings"
)

// NormalizeAmount converts a raw currency token into a signed float64.
// It strips dollar signs, thousands commas, and whitespace, and accepts a
// sign as leading or trailing "-"/"+" or accountant parentheses.
//
// Unparsable input (including empty) yields 0.0. Callers must treat a
// zero result as "could not parse", never as a genuine zero amount.
func NormalizeAmount(raw string) float64 {
	v, _ := normalizeAmount(raw)
	return v
}

func normalizeAmount(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	if strings.HasSuffix(s, "-") {
		neg = true
		s = strings.TrimSuffix(s, "-")
	} else if strings.HasSuffix(s, "+") {
		s = strings.TrimSuffix(s, "+")
	}

	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)

	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

// applySign forces the section's sign convention onto an amount.
// sign > 0 yields a positive value, sign < 0 negative, 0 leaves it as is.
func applySign(v float64, sign int) float64 {
	switch {
	case sign > 0 && v < 0:
		return -v
	case sign < 0 && v > 0:
		return -v
	default:
		return v
	}
}
