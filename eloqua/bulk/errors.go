package bulk

import (
	"errors"
	"fmt"
)

// ConfigError reports a job or argument configuration the Bulk API could
// never accept, detected before any request is made.
type ConfigError struct {
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Reason
}

func newConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// FieldNotFoundError is returned when a requested field name matches
// nothing in the catalog being resolved against.
type FieldNotFoundError struct {
	Name string
}

// Error implements the error interface.
func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("field not found: %s", e.Name)
}

// NotFoundError is returned when a referenced Eloqua resource (shared
// list, scoring model) does not exist. It wraps the transport 404 when the
// lookup was by id.
type NotFoundError struct {
	Resource string
	Ref      string
	Err      error
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Ref)
}

// Unwrap returns the underlying error.
func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// IsConfigError returns true if the error is a ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// IsFieldNotFound returns true if the error is a FieldNotFoundError.
func IsFieldNotFound(err error) bool {
	var fieldErr *FieldNotFoundError
	return errors.As(err, &fieldErr)
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}
