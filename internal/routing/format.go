package routing

import (
	"fmt"
	"math"
)

// FormatDuration renders seconds as "{h}h {m}min" for durations of an hour
// or more, "{m} min" otherwise. Minutes are floored.
func FormatDuration(seconds float64) string {
	if seconds >= 3600 {
		hours := int(seconds / 3600)
		minutes := int(math.Floor(seconds/60)) % 60
		return fmt.Sprintf("%dh %dmin", hours, minutes)
	}
	return fmt.Sprintf("%d min", int(math.Floor(seconds/60)))
}

// FormatDistance renders meters as "{km} km" with one decimal from a
// kilometer up, "{m} m" rounded to the nearest meter below.
func FormatDistance(meters float64) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1f km", meters/1000)
	}
	return fmt.Sprintf("%.0f m", meters)
}
