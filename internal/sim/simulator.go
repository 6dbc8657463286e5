package sim

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/san-kum/gravsim/internal/logging"
	"github.com/san-kum/gravsim/internal/nbody"
)

// ctxCheckInterval is how many steps run between context polls.
const ctxCheckInterval = 1024

// Simulator drives a System through a fixed number of steps.
type Simulator struct {
	metrics   []Metric
	observers []Observer
	logger    *slog.Logger
}

func New(logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Simulator{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    logger,
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run steps sys cfg.TotalSteps() times. A non-finite state aborts the run
// with a *SimulationError wrapping ErrInvalidState; the partial result is
// returned alongside the error. The context is polled between steps.
func (s *Simulator) Run(ctx context.Context, sys *nbody.System, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sys.Len() == 0 {
		return nil, ErrEmptySystem
	}

	steps := cfg.TotalSteps()
	dt := cfg.Dt

	result := &Result{
		Samples: make([]Sample, 0),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	initialEnergy := sys.TotalEnergy()
	s.observe(sys, 0, 0)
	if cfg.SampleEvery > 0 {
		result.Samples = append(result.Samples, Sample{Step: 0, Time: 0, Particles: sys.Particles()})
		s.logger.Log(ctx, logging.LevelTrace, "sample captured", "step", 0, "time", 0.0)
	}

	s.logger.Info("simulation started",
		"bodies", sys.Len(),
		"steps", steps,
		"dt", dt,
	)

	progressEvery := steps / 10
	start := time.Now()

	for i := 1; i <= steps; i++ {
		if i%ctxCheckInterval == 0 {
			select {
			case <-ctx.Done():
				result.Elapsed = time.Since(start)
				return result, ctx.Err()
			default:
			}
		}

		sys.Step(dt)
		t := float64(i) * dt
		result.StepsTaken = i
		result.SimTime = t

		for _, obs := range s.observers {
			obs.OnStep(sys, i, t)
		}

		if cfg.ValidateState && (cfg.CheckEvery <= 1 || i%cfg.CheckEvery == 0 || i == steps) {
			if !sys.Valid() {
				result.Elapsed = time.Since(start)
				err := &SimulationError{Step: i, Time: t, Wrapped: ErrInvalidState}
				s.logger.Error("simulation diverged", "step", i, "time", t)
				return result, err
			}
		}

		if (cfg.SampleEvery > 0 && i%cfg.SampleEvery == 0) || i == steps {
			if cfg.SampleEvery > 0 {
				result.Samples = append(result.Samples, Sample{Step: i, Time: t, Particles: sys.Particles()})
				s.logger.Log(ctx, logging.LevelTrace, "sample captured", "step", i, "time", t)
			}
			s.observe(sys, i, t)
		}

		if progressEvery > 0 && i%progressEvery == 0 {
			s.logger.Debug("progress", "step", i, "percent", 100*i/steps)
		}
	}

	result.Elapsed = time.Since(start)

	finalEnergy := sys.TotalEnergy()
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Info("simulation finished",
		"steps", result.StepsTaken,
		"sim_time", result.SimTime,
		"elapsed", result.Elapsed,
	)

	return result, nil
}

func (s *Simulator) observe(sys *nbody.System, step int, t float64) {
	for _, m := range s.metrics {
		m.Observe(sys, step, t)
	}
}
