package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrDataUnavailable indicates the thrust series could not be loaded.
	ErrDataUnavailable = errors.New("dynamo: thrust data unavailable")

	// ErrInvalidGrid indicates a time grid with fewer than two samples or a
	// non-positive span.
	ErrInvalidGrid = errors.New("dynamo: invalid time grid")

	// ErrNegativeMass indicates the configuration drives the vehicle mass to
	// zero or below.
	ErrNegativeMass = errors.New("dynamo: mass is not positive")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrInvalidState indicates a NaN or Inf appeared in a trace.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// SimulationError wraps an error with the grid position it occurred at.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f ms): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
