package gen

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure cases.
var (
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("bindgen: missing configuration")
	// ErrAssembleFailed indicates a fatal filesystem failure during assembly.
	ErrAssembleFailed = errors.New("bindgen: package assembly failed")
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("bindgen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("bindgen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

// AssembleError represents a fatal filesystem failure while writing
// generated artifacts. It always names the failing path: assembly aborts
// rather than leaving a half-built package without a diagnostic.
type AssembleError struct {
	Op    string // "mkdir", "write", ...
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *AssembleError) Error() string {
	return fmt.Sprintf("bindgen: %s %s: %v", e.Op, e.Path, e.Cause)
}

// Unwrap returns the underlying error.
func (e *AssembleError) Unwrap() error { return e.Cause }

// Is reports whether the target matches the sentinel error for AssembleError.
func (e *AssembleError) Is(target error) bool {
	return target == ErrAssembleFailed
}
