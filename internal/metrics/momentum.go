package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/sim"
)

// VectorDrift tracks max |v - v0| / |v0| for a conserved vector quantity.
type VectorDrift struct {
	name     string
	probe    func(*nbody.System) nbody.Vector
	initial  nbody.Vector
	maxDrift float64
	samples  int
}

func (d *VectorDrift) Name() string { return d.name }

func (d *VectorDrift) Observe(sys *nbody.System, step int, t float64) {
	v := d.probe(sys)
	if d.samples == 0 {
		d.initial = v
	}
	d.samples++

	ref := d.initial.Norm()
	if ref == 0 {
		return
	}
	diff := v.Add(d.initial.Scale(-1)).Norm()
	d.maxDrift = math.Max(d.maxDrift, diff/ref)
}

func (d *VectorDrift) Value() float64 { return d.maxDrift }

func (d *VectorDrift) Reset() {
	d.initial = nbody.Vector{}
	d.maxDrift = 0
	d.samples = 0
}

// NewAngularMomentumDrift tracks drift of total angular momentum about
// the origin.
func NewAngularMomentumDrift() *VectorDrift {
	return &VectorDrift{
		name:  "angular_momentum_drift",
		probe: (*nbody.System).AngularMomentum,
	}
}

// NewMomentumDrift tracks drift of total linear momentum.
func NewMomentumDrift() *VectorDrift {
	return &VectorDrift{
		name:  "momentum_drift",
		probe: (*nbody.System).Momentum,
	}
}

// Defaults returns the metric set attached to every run.
func Defaults(boundRadius float64) []sim.Metric {
	return []sim.Metric{
		NewEnergyDrift(),
		NewAngularMomentumDrift(),
		NewMomentumDrift(),
		NewStability(boundRadius),
	}
}
