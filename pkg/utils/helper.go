package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// ParseID parses a positive integer identifier named by field.
func ParseID(value, field string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%s is required", field)
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s %q", field, value)
	}

	return id, nil
}

// ParseOptionalID returns nil for an empty value.
func ParseOptionalID(value, field string) (*int64, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	id, err := ParseID(value, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ParseOptionalBool accepts the forms strconv.ParseBool does and returns nil for an empty value.
func ParseOptionalBool(value, field string) (*bool, error) {
	if value == "" {
		return nil, nil
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", field, value)
	}
	return &b, nil
}

// OptionalString returns nil for an empty value.
func OptionalString(value string) *string {
	if value = strings.TrimSpace(value); value == "" {
		return nil
	}
	return &value
}
