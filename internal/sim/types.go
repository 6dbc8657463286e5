package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/gravsim/internal/nbody"
)

// Metric is observed at every sample point of a run.
type Metric interface {
	Name() string
	Observe(sys *nbody.System, step int, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(sys *nbody.System, step int, t float64)
}

type Config struct {
	// Dt is the step size in seconds.
	Dt float64
	// Steps is the iteration count. When zero it is derived from Duration.
	Steps int
	// Duration is simulated seconds, used only when Steps is zero.
	Duration float64
	// SampleEvery records particle state every n steps and at the last
	// step (0 disables).
	SampleEvery int
	// CheckEvery validates the state every n steps (0 means every step).
	CheckEvery    int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0,
		Steps:         31540000,
		SampleEvery:   0,
		CheckEvery:    1000,
		ValidateState: true,
	}
}

// TotalSteps resolves the number of iterations the config asks for.
func (c Config) TotalSteps() int {
	if c.Steps > 0 {
		return c.Steps
	}
	if c.Dt <= 0 {
		return 0
	}
	return int(math.Ceil(c.Duration / c.Dt))
}

func (c Config) Validate() error {
	if c.Dt <= 0 || math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive and finite, got %g", ErrInvalidConfig, c.Dt)
	}
	if c.Steps < 0 {
		return fmt.Errorf("%w: steps must not be negative, got %d", ErrInvalidConfig, c.Steps)
	}
	if math.IsNaN(c.Duration) || math.IsInf(c.Duration, 0) {
		return fmt.Errorf("%w: duration must be finite, got %g", ErrInvalidConfig, c.Duration)
	}
	if c.Steps == 0 && c.Duration <= 0 {
		return fmt.Errorf("%w: need steps or a positive duration", ErrInvalidConfig)
	}
	// TotalSteps must fit in an int.
	if c.Steps == 0 && c.Duration/c.Dt >= math.MaxInt {
		return fmt.Errorf("%w: duration %g needs too many steps of %g", ErrInvalidConfig, c.Duration, c.Dt)
	}
	if c.SampleEvery < 0 || c.CheckEvery < 0 {
		return fmt.Errorf("%w: sample and check intervals must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Sample is the particle state at one recorded step.
type Sample struct {
	Step      int
	Time      float64
	Particles []nbody.Particle
}

type Result struct {
	StepsTaken  int
	SimTime     float64
	Elapsed     time.Duration
	Samples     []Sample
	Metrics     map[string]float64
	EnergyDrift float64
}
