package field

import (
	"errors"
	"fmt"
)

// Domain errors for field synthesis.
var (
	// ErrInvalidResolution indicates a grid resolution N <= 0.
	ErrInvalidResolution = errors.New("field: grid resolution must be positive")

	// ErrInvalidBoxSize indicates a box size L that is not a positive finite number.
	ErrInvalidBoxSize = errors.New("field: box size must be positive and finite")

	// ErrInvalidSigma indicates a source width that is not strictly positive.
	ErrInvalidSigma = errors.New("field: sigma must be positive")

	// ErrInvalidKind indicates a source kind other than attractor or repeller.
	ErrInvalidKind = errors.New("field: source kind must be attractor or repeller")

	// ErrShapeMismatch indicates fields or buffers with different resolutions.
	ErrShapeMismatch = errors.New("field: shape mismatch")
)

// SourceError wraps an error with the index of the offending source.
type SourceError struct {
	Index   int
	Wrapped error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %d: %v", e.Index, e.Wrapped)
}

func (e *SourceError) Unwrap() error {
	return e.Wrapped
}
