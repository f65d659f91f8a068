package util

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatClock renders a second count as HH:MM:SS for human output.
// Negative values are clamped to zero.
func FormatClock(seconds float64) string {
	total := int(seconds)
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatSeconds renders a second count as an ffmpeg offset argument.
func FormatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}

// ParseFrameRate parses a frame rate in ffprobe's fractional form (e.g. "30/1").
// Returns 0 when the value is malformed or has a zero denominator.
func ParseFrameRate(s string) float64 {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}
