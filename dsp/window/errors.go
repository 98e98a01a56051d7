package window

import (
	"errors"
	"fmt"
)

var (
	errEmptyCoeffs      = errors.New("window coefficients must not be empty")
	errZeroCoherentGain = errors.New("window coherent gain is zero")

	// ErrUnknownType is returned when a window name cannot be resolved.
	ErrUnknownType = errors.New("unknown window type")
)

func unknownNameError(name string) error {
	return fmt.Errorf("window %q: %w", name, ErrUnknownType)
}

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("window size must be > 0: %d", size)
	}
	return nil
}
