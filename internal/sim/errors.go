package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState indicates a NaN or Inf in a particle position or velocity.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates a config that cannot drive a run.
	ErrInvalidConfig = errors.New("sim: invalid config")

	// ErrEmptySystem indicates a run over a system with no particles.
	ErrEmptySystem = errors.New("sim: system has no particles")
)

// SimulationError wraps an error with the step it was detected at.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
