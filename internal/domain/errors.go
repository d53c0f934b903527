package domain

import (
	"errors"
	"sort"
	"strings"
)

// Error kinds. Stores and services wrap these; the HTTP layer maps them to
// status codes.
var (
	ErrValidation         = errors.New("validation error")
	ErrConflict           = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries per-field messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// InvalidField is a shorthand for a single-field validation failure.
func InvalidField(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
