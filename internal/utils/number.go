package utils

import (
	"math"
	"strconv"
	"strings"
)

// ParseLeadingNumber extracts the numeric part of a unit-suffixed field
// such as "10km" or "1.200m". Every character other than digits and '.'
// is dropped, then the longest leading decimal literal is parsed.
// Input without a usable number yields NaN, which fails every comparison.
func ParseLeadingNumber(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	end := 0
	seenDot := false
	digits := 0
	for end < len(cleaned) {
		c := cleaned[end]
		if c == '.' {
			if seenDot {
				break
			}
			seenDot = true
		} else {
			digits++
		}
		end++
	}
	if digits == 0 {
		return math.NaN()
	}

	v, err := strconv.ParseFloat(strings.TrimSuffix(cleaned[:end], "."), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ParseOptionalFloat parses a user-supplied bound. Empty input means "unset".
func ParseOptionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
