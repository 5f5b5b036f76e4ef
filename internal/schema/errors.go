package schema

import (
	"errors"
	"fmt"
)

// ErrMissingRequired is wrapped by MissingRequiredError
var ErrMissingRequired = errors.New("missing required environment variable")

// MissingRequiredError reports a required key with no value and no usable default
type MissingRequiredError struct {
	Key string
}

func (e *MissingRequiredError) Error() string {
	return fmt.Sprintf("Missing required environment variable: %s", e.Key)
}

func (e *MissingRequiredError) Unwrap() error {
	return ErrMissingRequired
}

// ConversionError reports a value that does not convert under its field type.
// Value is masked for sensitive fields.
type ConversionError struct {
	Key   string
	Type  Type
	Value string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s: Invalid %s format (value: %q)", e.Key, e.Type, e.Value)
}

// FieldError reports a field definition that cannot be built
type FieldError struct {
	Key string
	Err error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid schema field %s: %v", e.Key, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// LoadError reports a schema document that exists but cannot be read or
// parsed. An absent document is not an error.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load schema from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
