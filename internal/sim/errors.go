package sim

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned, wrapped in a *ConfigError, when a simulation
// cannot be built from the given parameters.
var ErrInvalidConfig = errors.New("sim: invalid configuration")

// ConfigError names the offending field.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("sim: invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }
