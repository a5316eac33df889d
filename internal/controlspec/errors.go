package controlspec

import (
	"errors"
	"fmt"
)

// ErrShape is the sentinel wrapped by every ConfigError.
var ErrShape = errors.New("unsupported config shape")

// ConfigError reports a config value that matches none of the accepted
// shapes. Key is dot-qualified for values nested in groups.
type ConfigError struct {
	Key    string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config value for %q: %s (got %s)", e.Key, e.Reason, describe(e.Value))
}

func (e *ConfigError) Unwrap() error { return ErrShape }

func shapeError(key string, value any, format string, args ...any) error {
	return &ConfigError{Key: key, Value: value, Reason: fmt.Sprintf(format, args...)}
}

// qualify prefixes the key of a nested ConfigError with its group key.
func qualify(group string, err error) error {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return &ConfigError{Key: group + "." + ce.Key, Value: ce.Value, Reason: ce.Reason}
	}
	return err
}
