package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/sim"
)

var ErrUnknownBody = errors.New("analysis: unknown body")

// Orbit summarises the distance of one body from another over a run.
type Orbit struct {
	Body   string
	Center string
	// Periapsis and Apoapsis are the closest and farthest sampled
	// distances in metres.
	Periapsis    float64
	Apoapsis     float64
	Eccentricity float64
	// Period is zero when the run is too short to contain one.
	Period float64
}

// Apsides measures body's orbit around center from recorded samples.
// The eccentricity is estimated from the extreme distances, so sparse
// sampling underestimates it.
func Apsides(samples []sim.Sample, body, center string) (Orbit, error) {
	o := Orbit{Body: body, Center: center, Periapsis: math.Inf(1)}
	if len(samples) < 2 {
		return o, ErrTooShort
	}

	bi, ci := index(samples[0], body), index(samples[0], center)
	if bi < 0 {
		return o, fmt.Errorf("%w: %q", ErrUnknownBody, body)
	}
	if ci < 0 {
		return o, fmt.Errorf("%w: %q", ErrUnknownBody, center)
	}

	dist := make([]float64, len(samples))
	for i, s := range samples {
		if len(s.Particles) <= max(bi, ci) {
			return o, fmt.Errorf("analysis: sample %d has %d bodies", s.Step, len(s.Particles))
		}
		d := s.Particles[bi].Position.Distance(s.Particles[ci].Position)
		dist[i] = d
		o.Periapsis = min(o.Periapsis, d)
		o.Apoapsis = max(o.Apoapsis, d)
	}
	if o.Apoapsis+o.Periapsis > 0 {
		o.Eccentricity = (o.Apoapsis - o.Periapsis) / (o.Apoapsis + o.Periapsis)
	}

	interval := samples[1].Time - samples[0].Time
	if p, err := relativePeriod(samples, bi, ci, interval); err == nil {
		o.Period = p
	}
	return o, nil
}

// relativePeriod uses the x offset from the center body, which oscillates
// once per orbit even when the distance barely changes.
func relativePeriod(samples []sim.Sample, bi, ci int, interval float64) (float64, error) {
	if interval <= 0 {
		return 0, ErrTooShort
	}
	// The final sample may be off the regular grid.
	n := len(samples)
	if n > 2 && samples[n-1].Step-samples[n-2].Step != samples[1].Step-samples[0].Step {
		n--
	}
	xs := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = samples[i].Particles[bi].Position.X - samples[i].Particles[ci].Position.X
	}
	p, err := DominantPeriod(xs, interval)
	if err != nil {
		return 0, err
	}
	// A peak at bin 1 only says the period is at least the run length.
	if p >= float64(nextPow2(n))*interval {
		return 0, ErrTooShort
	}
	return p, nil
}

func index(s sim.Sample, name string) int {
	for i, p := range s.Particles {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Heaviest returns the name of the most massive body in a sample.
func Heaviest(s sim.Sample) string {
	best := -1
	for i, p := range s.Particles {
		if best < 0 || p.Mass > s.Particles[best].Mass {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return s.Particles[best].Name
}
