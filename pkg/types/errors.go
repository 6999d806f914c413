package types

import (
	"errors"
	"fmt"
)

// Contact and field errors.
var (
	ErrInvalidFormat = errors.New("invalid format")
	ErrInvalidName   = errors.New("contact name must not be empty")
	ErrNotFound      = errors.New("contact not found")
)

// Persistence errors.
var (
	ErrCorruptStore = errors.New("contact store is corrupt")
)

// FormatError reports a field value that failed validation. It unwraps to
// ErrInvalidFormat so callers can match with errors.Is.
type FormatError struct {
	Field string // "phone", "email" or "birthday"
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, formatHints[e.Field])
}

func (e *FormatError) Unwrap() error {
	return ErrInvalidFormat
}

var formatHints = map[string]string{
	FieldPhone:    "use only digits '0123456789'",
	FieldEmail:    "use the form '*@*.*'",
	FieldBirthday: "use 'DD-MM-YYYY'",
}

// Field names used in FormatError.
const (
	FieldPhone    = "phone"
	FieldEmail    = "email"
	FieldBirthday = "birthday"
)
