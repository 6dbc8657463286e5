package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/nbody"
)

var (
	ErrEmptySystem = errors.New("analysis: system has no particles")
	ErrDiverged    = errors.New("analysis: state became non-finite")
)

// DefaultRenormEvery is how many steps pass between rescalings of the
// shadow trajectory.
const DefaultRenormEvery = 100

// LyapunovExponent estimates the largest Lyapunov exponent, in 1/s, of
// sys using two nearby trajectories. The first body of a shadow copy is
// displaced by perturbation metres along x. Every renormEvery steps the
// separation is logged and the shadow is pulled back to the initial
// distance. sys itself is not advanced.
//
// λ ≈ Σ ln(d_k/d0) / t
func LyapunovExponent(sys *nbody.System, dt float64, steps, renormEvery int, perturbation float64) (float64, error) {
	if sys.Len() == 0 {
		return 0, ErrEmptySystem
	}
	if dt <= 0 || steps <= 0 || perturbation <= 0 {
		return 0, fmt.Errorf("analysis: dt, steps and perturbation must be positive")
	}
	if renormEvery <= 0 {
		renormEvery = DefaultRenormEvery
	}

	ref := sys.Clone()
	start := ref.Particles()
	start[0].Position.X += perturbation
	shadow, err := rebuild(start)
	if err != nil {
		return 0, err
	}

	d0 := perturbation
	sumLog := 0.0
	elapsed := 0.0

	for i := 1; i <= steps; i++ {
		ref.Step(dt)
		shadow.Step(dt)
		elapsed += dt

		if i%renormEvery != 0 && i != steps {
			continue
		}

		a, b := ref.Particles(), shadow.Particles()
		d := separation(a, b)
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return 0, fmt.Errorf("%w at step %d", ErrDiverged, i)
		}
		if d == 0 {
			// Trajectories coincide to machine precision; restart the
			// perturbation rather than logging -Inf.
			d = d0
			b = perturb(a, perturbation)
		}
		sumLog += math.Log(d / d0)

		shadow, err = rebuild(rescale(a, b, d0/d))
		if err != nil {
			return 0, err
		}
	}

	return sumLog / elapsed, nil
}

func separation(a, b []nbody.Particle) float64 {
	sum := 0.0
	for i := range a {
		v := b[i].Position.Sub(a[i].Position)
		sum += v.X*v.X + v.Y*v.Y + v.Z*v.Z
	}
	return math.Sqrt(sum)
}

// rescale moves every shadow body towards its reference counterpart so
// the phase-space offset shrinks by factor.
func rescale(ref, shadow []nbody.Particle, factor float64) []nbody.Particle {
	out := make([]nbody.Particle, len(ref))
	for i := range ref {
		dp := shadow[i].Position.Sub(ref[i].Position).Scale(factor)
		dv := shadow[i].Velocity.Sub(ref[i].Velocity).Scale(factor)
		out[i] = nbody.NewParticle(ref[i].Name, ref[i].Mass,
			ref[i].Position.Add(dp), ref[i].Velocity.Add(dv))
	}
	return out
}

func perturb(ps []nbody.Particle, dx float64) []nbody.Particle {
	out := make([]nbody.Particle, len(ps))
	copy(out, ps)
	out[0].Position.X += dx
	return out
}

func rebuild(ps []nbody.Particle) (*nbody.System, error) {
	s := nbody.New(nbody.WithWorkers(1))
	for _, p := range ps {
		if err := s.Add(p.Name, p.Mass, p.Position, p.Velocity); err != nil {
			return nil, err
		}
	}
	return s, nil
}
