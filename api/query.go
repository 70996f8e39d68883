package api

import "strconv"

// queryInt parses a positive integer query value, falling back to def and
// clamping below at min.
func queryInt(raw string, def, min int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min {
		return def
	}
	return v
}

// queryBoolPtr parses an optional boolean filter; empty means "no filter".
func queryBoolPtr(raw string) *bool {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}
