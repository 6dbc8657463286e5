// Package loader reads initial particle sets and feeds them into a
// System. All unit conversion happens here; records are SI.
package loader

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/nbody"
)

const (
	// AUToMeters is the IAU 2012 astronomical unit.
	AUToMeters = 149597870700.0
	// DayToSeconds converts per-day rates to per-second.
	DayToSeconds = 86400.0
	// KMToMeters converts kilometers (and km/s) to SI.
	KMToMeters = 1000.0
)

var (
	ErrMissingName  = errors.New("loader: record has no name")
	ErrMissingField = errors.New("loader: record field missing")
	ErrNonFinite    = errors.New("loader: non-finite field")
	ErrBadMass      = errors.New("loader: mass must be positive")
	ErrFormat       = errors.New("loader: unknown format")
)

// Record is one body in SI units, the exchange shape shared with the
// horizons fetcher. Decoding from JSON or YAML requires every field.
type Record struct {
	Name     string       `json:"name" yaml:"name"`
	Mass     float64      `json:"mass" yaml:"mass"`
	Position nbody.Point  `json:"position" yaml:"position"`
	Velocity nbody.Vector `json:"velocity" yaml:"velocity"`
}

func (r Record) Validate() error {
	if r.Name == "" {
		return ErrMissingName
	}
	for _, v := range []float64{r.Mass, r.Position.X, r.Position.Y, r.Position.Z, r.Velocity.X, r.Velocity.Y, r.Velocity.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w in %q", ErrNonFinite, r.Name)
		}
	}
	if r.Mass <= 0 {
		return fmt.Errorf("%w: %q has mass %g", ErrBadMass, r.Name, r.Mass)
	}
	return nil
}

func (r Record) Particle() nbody.Particle {
	return nbody.NewParticle(r.Name, r.Mass, r.Position, r.Velocity)
}

// FromParticle converts a particle back into a record.
func FromParticle(p nbody.Particle) Record {
	return Record{Name: p.Name, Mass: p.Mass, Position: p.Position, Velocity: p.Velocity}
}

// ParseError locates a bad record in its source.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Populate validates every record before inserting any of them, so a bad
// record leaves sys untouched.
func Populate(sys *nbody.System, recs []Record) error {
	for i, r := range recs {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	for i, r := range recs {
		if err := sys.AddParticle(r.Particle()); err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	return nil
}
