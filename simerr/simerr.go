// Package simerr holds the error types shared by scenario construction.
package simerr

import (
	"errors"
	"fmt"
)

// ConfigError is a malformed or unsupported scenario setting. It is fatal to
// the scenario being built.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

func Config(field, format string, args ...interface{}) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
