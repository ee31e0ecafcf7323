package util

import (
	"errors"
	"fmt"
)

// Schema compilation sentinel errors.
var (
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrDuplicateAlias   = errors.New("alias already exists")
	ErrInvalidAlias     = errors.New("invalid alias")
	ErrDuplicateDefault = errors.New("default already exists")
	ErrDuplicateField   = errors.New("field already declared")
	ErrUnknownType      = errors.New("unknown field type")
	ErrInvalidKey       = errors.New("invalid reserved key")
)

// ConfigError represents a schema or configuration error. Field is the path
// of the offending entry, e.g. "fields.price.alias".
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error at %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *ConfigError) Is(target error) bool {
	if target == ErrConfigInvalid {
		return true
	}
	_, ok := target.(*ConfigError)
	return ok || errors.Is(e.Cause, target)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// NewConfigErrorWithCause creates a new ConfigError with a cause.
func NewConfigErrorWithCause(field, message string, cause error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Cause: cause}
}

// IsConfigError returns true if err is or wraps a ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
