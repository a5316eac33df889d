package registry

import (
	"errors"
	"fmt"
)

// ErrMarkerParse is wrapped by every MarkerParseError.
var ErrMarkerParse = errors.New("malformed dial_kit marker")

// MarkerParseError reports a marker payload that is not a JSON object.
type MarkerParseError struct {
	Name    string
	Payload string
	Err     error
}

func (e *MarkerParseError) Error() string {
	return fmt.Sprintf("%s: %v on %s", ErrMarkerParse, e.Err, e.Name)
}

// Unwrap exposes both the sentinel and the decode error.
func (e *MarkerParseError) Unwrap() []error {
	return []error{ErrMarkerParse, e.Err}
}
