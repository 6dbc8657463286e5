package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/nbody"
)

func pair(t *testing.T) *nbody.System {
	t.Helper()
	sys := nbody.New()
	if err := sys.Add("Sun", 1.989e30, nbody.Point{}, nbody.Vector{}); err != nil {
		t.Fatal(err)
	}
	if err := sys.Add("Earth", 5.972e24, nbody.Point{X: 1.496e11}, nbody.Vector{Y: 2.98e4}); err != nil {
		t.Fatal(err)
	}
	return sys
}

func TestEnergyDriftStartsAtZero(t *testing.T) {
	m := NewEnergyDrift()
	sys := pair(t)

	m.Observe(sys, 0, 0)
	if m.Value() != 0 {
		t.Errorf("expected zero drift on first sample, got %e", m.Value())
	}

	ke := 0.5 * 5.972e24 * 2.98e4 * 2.98e4
	pe := -nbody.G * 1.989e30 * 5.972e24 / 1.496e11
	if math.Abs(m.Current()-(ke+pe)) > math.Abs(ke+pe)*1e-12 {
		t.Errorf("expected energy %e, got %e", ke+pe, m.Current())
	}
}

func TestEnergyDriftBounded(t *testing.T) {
	m := NewEnergyDrift()
	sys := pair(t)

	m.Observe(sys, 0, 0)
	for i := 1; i <= 1000; i++ {
		sys.Step(3600)
		m.Observe(sys, i, float64(i)*3600)
	}

	if m.Value() <= 0 {
		t.Error("expected some drift from a first-order integrator")
	}
	if m.Value() > 1e-2 {
		t.Errorf("drift too large: %e", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestAngularMomentumDrift(t *testing.T) {
	m := NewAngularMomentumDrift()
	sys := pair(t)

	m.Observe(sys, 0, 0)
	for i := 1; i <= 500; i++ {
		sys.Step(3600)
		m.Observe(sys, i, float64(i)*3600)
	}

	if m.Name() != "angular_momentum_drift" {
		t.Errorf("unexpected name %q", m.Name())
	}
	if m.Value() > 1e-9 {
		t.Errorf("angular momentum should be conserved to rounding, drift %e", m.Value())
	}
}

func TestMomentumDriftIgnoresZeroReference(t *testing.T) {
	m := NewMomentumDrift()
	sys := nbody.New()
	_ = sys.Add("a", 1e20, nbody.Point{X: -1e6}, nbody.Vector{})
	_ = sys.Add("b", 1e20, nbody.Point{X: 1e6}, nbody.Vector{})

	m.Observe(sys, 0, 0)
	sys.Step(10)
	m.Observe(sys, 1, 10)

	if m.Value() != 0 {
		t.Errorf("expected no drift against zero momentum, got %e", m.Value())
	}
}

func TestStability(t *testing.T) {
	m := NewStability(2e11)
	sys := pair(t)

	m.Observe(sys, 0, 0)
	if m.Value() != 1 {
		t.Errorf("expected bound system, got %f", m.Value())
	}

	loose := NewStability(1e9)
	loose.Observe(sys, 0, 0)
	if loose.Value() != 0 {
		t.Errorf("expected escape outside radius, got %f", loose.Value())
	}

	loose.Reset()
	if loose.Value() != 1 {
		t.Error("expected reset to report stable")
	}
}

func TestDefaults(t *testing.T) {
	names := map[string]bool{}
	for _, m := range Defaults(1e12) {
		names[m.Name()] = true
	}
	for _, want := range []string{"energy_drift", "angular_momentum_drift", "momentum_drift", "stability"} {
		if !names[want] {
			t.Errorf("missing default metric %q", want)
		}
	}
}
