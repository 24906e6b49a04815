package utils

import (
	"fmt"
	"net/url"
	"strconv"
)

// ParseFloatParam parses a float query parameter, recording a field error
// when the value is present but unparseable.
func ParseFloatParam(params url.Values, name string, fieldErrors map[string][]string) (float64, error) {
	raw := params.Get(name)
	if raw == "" {
		err := fmt.Errorf("missing required parameter %q", name)
		fieldErrors[name] = append(fieldErrors[name], "is required")
		return 0, err
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fieldErrors[name] = append(fieldErrors[name], "must be a valid number")
		return 0, fmt.Errorf("invalid float parameter %q: %w", name, err)
	}
	return value, nil
}

// ParseIntParam parses an integer query parameter, returning defaultValue
// when the parameter is absent.
func ParseIntParam(params url.Values, name string, defaultValue int, fieldErrors map[string][]string) int {
	raw := params.Get(name)
	if raw == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		fieldErrors[name] = append(fieldErrors[name], "must be a valid integer")
		return defaultValue
	}
	return value
}
