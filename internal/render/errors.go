package render

import (
	"errors"
	"fmt"
)

// UnsupportedFeatureError indicates a feature not supported by the dialect.
type UnsupportedFeatureError struct {
	Feature string
	Dialect string
	Hint    string
}

func (e UnsupportedFeatureError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s is not supported: %s", e.Dialect, e.Feature, e.Hint)
	}
	return fmt.Sprintf("%s: %s is not supported", e.Dialect, e.Feature)
}

// NewUnsupportedFeatureError creates a new unsupported feature error.
func NewUnsupportedFeatureError(dialect, feature string, hint ...string) error {
	err := UnsupportedFeatureError{Feature: feature, Dialect: dialect}
	if len(hint) > 0 {
		err.Hint = hint[0]
	}
	return err
}

// ConfigError reports a statement or setup the engine refuses to run,
// such as an unregistered vendor or a batch spanning schemas.
type ConfigError struct {
	Reason string
}

func (e ConfigError) Error() string {
	return "configuration error: " + e.Reason
}

// NewConfigError creates a ConfigError with a formatted reason.
func NewConfigError(format string, args ...any) error {
	return ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// IsUnsupported reports whether err is an UnsupportedFeatureError.
func IsUnsupported(err error) bool {
	var u UnsupportedFeatureError
	return errors.As(err, &u)
}

// IsConfig reports whether err is a ConfigError.
func IsConfig(err error) bool {
	var c ConfigError
	return errors.As(err, &c)
}
