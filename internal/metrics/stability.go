package metrics

import "github.com/san-kum/gravsim/internal/nbody"

// Stability is the fraction of samples in which every body stays within
// radius meters of the system's center of mass.
type Stability struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewStability(radius float64) *Stability {
	return &Stability{
		name:   "stability",
		radius: radius,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(sys *nbody.System, step int, t float64) {
	s.samples++
	com := sys.CenterOfMass()
	for _, p := range sys.Particles() {
		if p.Position.Distance(com) > s.radius {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
