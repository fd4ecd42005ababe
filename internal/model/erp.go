package model

import (
	"fmt"
	"strings"
)

// requireFields takes alternating name, value pairs and reports the first
// blank value so validation messages stay deterministic.
func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return fmt.Errorf("%s is required", pairs[i])
		}
	}
	return nil
}

// oneOf validates an enum-ish field, substituting the default when the value
// is blank.
func oneOf(field string, value *string, fallback string, allowed ...string) error {
	v := strings.TrimSpace(*value)
	if v == "" {
		*value = fallback
		return nil
	}

	for _, candidate := range allowed {
		if v == candidate {
			*value = candidate
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s", field, strings.Join(allowed, ", "))
}
