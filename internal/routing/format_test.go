package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		seconds  float64
		expected string
	}{
		{"Seconds floor to whole minutes", 90, "1 min"},
		{"Zero", 0, "0 min"},
		{"Just under an hour", 3599, "59 min"},
		{"Exactly an hour", 3600, "1h 0min"},
		{"Hour and a minute", 3660, "1h 1min"},
		{"Several hours", 7320, "2h 2min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.seconds))
		})
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		name     string
		meters   float64
		expected string
	}{
		{"Short distances in meters", 500, "500 m"},
		{"Rounded to nearest meter", 499.6, "500 m"},
		{"Just under a kilometer", 999, "999 m"},
		{"Kilometers with one decimal", 1500, "1.5 km"},
		{"Exactly one kilometer", 1000, "1.0 km"},
		{"Long distance", 12345, "12.3 km"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDistance(tt.meters))
		})
	}
}
