package app

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks errors caused by the caller's request: missing or
// malformed fields. A service error that wraps neither ErrInvalidInput nor
// domain.ErrNotFound is a store or downstream failure.
var ErrInvalidInput = errors.New("invalid input")

// invalidf builds an ErrInvalidInput error with a formatted detail.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
