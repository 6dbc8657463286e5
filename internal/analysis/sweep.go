package analysis

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/gravsim/internal/nbody"
)

// SweepPoint is the outcome of integrating the same system for the same
// simulated time with one step size.
type SweepPoint struct {
	Dt    float64
	Steps int
	// Drift is |E - E0| / |E0| at the end of the run.
	Drift    float64
	Diverged bool
}

// DtSweep integrates a copy of sys for duration seconds at each step size
// in dts and reports the final relative energy drift. Runs execute
// concurrently, at most parallel at a time. Results follow the order of dts.
func DtSweep(ctx context.Context, sys *nbody.System, duration float64, dts []float64, parallel int) ([]SweepPoint, error) {
	if sys.Len() == 0 {
		return nil, ErrEmptySystem
	}
	if duration <= 0 {
		return nil, fmt.Errorf("analysis: duration must be positive")
	}
	for _, dt := range dts {
		if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
			return nil, fmt.Errorf("analysis: invalid step size %g", dt)
		}
	}

	out := make([]SweepPoint, len(dts))
	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}

	for i, dt := range dts {
		g.Go(func() error {
			p, err := sweepOne(ctx, sys.Clone(), duration, dt)
			if err != nil {
				return err
			}
			out[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func sweepOne(ctx context.Context, sys *nbody.System, duration, dt float64) (SweepPoint, error) {
	steps := int(math.Ceil(duration / dt))
	p := SweepPoint{Dt: dt, Steps: steps}
	e0 := sys.TotalEnergy()

	for i := 1; i <= steps; i++ {
		sys.Step(dt)
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return p, err
			}
			if !sys.Valid() {
				p.Diverged = true
				p.Drift = math.Inf(1)
				return p, nil
			}
		}
	}
	if !sys.Valid() {
		p.Diverged = true
		p.Drift = math.Inf(1)
		return p, nil
	}

	e := sys.TotalEnergy()
	switch {
	case e0 != 0:
		p.Drift = math.Abs(e-e0) / math.Abs(e0)
	default:
		p.Drift = math.Abs(e - e0)
	}
	return p, nil
}
