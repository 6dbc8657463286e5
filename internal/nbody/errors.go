package nbody

import "errors"

var (
	// ErrNonPositiveMass indicates a particle whose mass is zero or negative.
	ErrNonPositiveMass = errors.New("nbody: mass must be positive")

	// ErrNonFinite indicates a NaN or Inf in mass, position or velocity.
	ErrNonFinite = errors.New("nbody: non-finite particle field")

	// ErrSealed indicates an insertion after the system started stepping.
	ErrSealed = errors.New("nbody: system already stepping, particle set is fixed")
)
