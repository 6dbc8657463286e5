package nbody

import "fmt"

// G is the gravitational constant, 6.67408(31)e-11 m^3 kg^-1 s^-2.
const G = 6.67408e-11

// Particle is a point mass. Name is a display label only.
type Particle struct {
	Name     string
	Mass     float64
	Position Point
	Velocity Vector

	// force accumulates during the force phase of a step and is
	// consumed and zeroed by Integrate.
	force Vector
}

func NewParticle(name string, mass float64, position Point, velocity Vector) Particle {
	return Particle{
		Name:     name,
		Mass:     mass,
		Position: position,
		Velocity: velocity,
	}
}

// Force returns the force accumulated since the last Integrate.
func (p Particle) Force() Vector { return p.force }

// Validate reports whether p can safely enter a System.
func (p Particle) Validate() error {
	if !finite(p.Mass) || !p.Position.IsFinite() || !p.Velocity.IsFinite() {
		return fmt.Errorf("%w: particle %q", ErrNonFinite, p.Name)
	}
	if p.Mass <= 0 {
		return fmt.Errorf("%w: particle %q has mass %g", ErrNonPositiveMass, p.Name, p.Mass)
	}
	return nil
}

// AddForceFrom accumulates the gravitational pull of other on p.
// Coincident positions, self-interaction included, contribute nothing.
// Only p's accumulator is written.
func (p *Particle) AddForceFrom(other *Particle) {
	d := p.Position.Distance(other.Position)
	if d == 0 {
		return
	}

	// The d^3 denominator folds in the unit-vector normalisation.
	magnitude := (G * p.Mass * other.Mass) / (d * d * d)
	p.force.X += magnitude * (other.Position.X - p.Position.X)
	p.force.Y += magnitude * (other.Position.Y - p.Position.Y)
	p.force.Z += magnitude * (other.Position.Z - p.Position.Z)
}

// Integrate advances p by dt with semi-implicit Euler: velocity first,
// then position from the updated velocity. The accumulator is reset.
func (p *Particle) Integrate(dt float64) {
	p.Velocity.X += dt * p.force.X / p.Mass
	p.Velocity.Y += dt * p.force.Y / p.Mass
	p.Velocity.Z += dt * p.force.Z / p.Mass

	p.Position.X += dt * p.Velocity.X
	p.Position.Y += dt * p.Velocity.Y
	p.Position.Z += dt * p.Velocity.Z

	p.force = Vector{}
}

// SnapshotFrom copies position and velocity from other. Mass and force
// are left alone.
func (p *Particle) SnapshotFrom(other *Particle) {
	p.Position = other.Position
	p.Velocity = other.Velocity
}

func (p Particle) String() string {
	return fmt.Sprintf("%s m=%g pos=%v vel=%v", p.Name, p.Mass, p.Position, p.Velocity)
}
