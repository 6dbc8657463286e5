package nbody

import "runtime"

// System owns the particle collection in two index-aligned buffers.
// snapshot is read-only while forces accumulate into working; the two
// hold identical state at the start and end of every Step.
type System struct {
	working  []Particle
	snapshot []Particle

	workers  int
	minChunk int
	sealed   bool
}

type Option func(*System)

// WithWorkers caps the goroutines used per phase. n <= 1 steps serially.
func WithWorkers(n int) Option {
	return func(s *System) { s.workers = n }
}

// WithMinChunk sets how many indices a goroutine must own before
// Step fans out.
func WithMinChunk(n int) Option {
	return func(s *System) { s.minChunk = n }
}

func New(opts ...Option) *System {
	s := &System{
		working:  make([]Particle, 0),
		snapshot: make([]Particle, 0),
		workers:  runtime.NumCPU(),
		minChunk: DefaultMinChunk,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddParticle appends p to both buffers. It fails if p is invalid or if
// the system has already been stepped.
func (s *System) AddParticle(p Particle) error {
	if s.sealed {
		return ErrSealed
	}
	if err := p.Validate(); err != nil {
		return err
	}

	p.force = Vector{}
	s.working = append(s.working, p)
	s.snapshot = append(s.snapshot, p)
	return nil
}

// Add builds a particle from its fields and inserts it.
func (s *System) Add(name string, mass float64, position Point, velocity Vector) error {
	return s.AddParticle(NewParticle(name, mass, position, velocity))
}

func (s *System) Len() int { return len(s.working) }

// Step advances every particle by dt seconds.
func (s *System) Step(dt float64) {
	s.sealed = true
	n := len(s.working)

	ParallelFor(n, s.workers, s.minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			p := &s.working[i]
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				p.AddForceFrom(&s.snapshot[j])
			}
		}
	})

	ParallelFor(n, s.workers, s.minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			s.working[i].Integrate(dt)
			s.snapshot[i].SnapshotFrom(&s.working[i])
		}
	})
}

// Particles returns a copy of the current particle state in insertion
// order.
func (s *System) Particles() []Particle {
	out := make([]Particle, len(s.working))
	copy(out, s.working)
	return out
}

// Valid reports whether every position and velocity is finite.
func (s *System) Valid() bool {
	for i := range s.working {
		if !s.working[i].Position.IsFinite() || !s.working[i].Velocity.IsFinite() {
			return false
		}
	}
	return true
}

// Clone returns an independent copy with the same options. The copy is
// not sealed.
func (s *System) Clone() *System {
	c := &System{
		working:  make([]Particle, len(s.working)),
		snapshot: make([]Particle, len(s.snapshot)),
		workers:  s.workers,
		minChunk: s.minChunk,
	}
	copy(c.working, s.working)
	copy(c.snapshot, s.snapshot)
	return c
}
