package session

import (
	"math"
	"strconv"
)

// Placeholder is shown for absent values.
const Placeholder = "-"

func FormatFloat(v *float64, prec int) string {
	if v == nil {
		return Placeholder
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}

func FormatInt(v *int) string {
	if v == nil {
		return Placeholder
	}
	return strconv.Itoa(*v)
}

// FormatPercent renders a 0-1 rate with one decimal, e.g. 0.125 -> "12.5%".
func FormatPercent(rate float64) string {
	return strconv.FormatFloat(rate*100, 'f', 1, 64) + "%"
}

func FormatRate(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return FormatPercent(*v)
}

// FormatRounded renders v rounded to the nearest integer.
func FormatRounded(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return strconv.FormatFloat(math.Round(*v), 'f', 0, 64)
}
