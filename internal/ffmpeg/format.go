package ffmpeg

import (
	"strconv"
	"strings"
)

// FormatFloat renders f with the shortest exact representation and at least
// one decimal place, so 2 becomes "2.0" and 2.5 stays "2.5".
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// FormatRate renders a frame rate with exactly two decimals ("23.50").
func FormatRate(fps float64) string {
	return strconv.FormatFloat(fps, 'f', 2, 64)
}

// FormatBool renders a boolean encoder switch as "1" or "0".
func FormatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Kilo appends the "k" suffix used for bitrates and buffer sizes.
func Kilo(n int) string {
	return strconv.Itoa(n) + "k"
}

// Mega renders a float rate with the "M" suffix ("2.5M", "2.0M").
func Mega(f float64) string {
	return FormatFloat(f) + "M"
}
