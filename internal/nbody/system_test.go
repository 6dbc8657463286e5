package nbody_test

import (
	"math"
	"math/rand"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/nbody"
)

const (
	sunMass   = 1.989e30
	earthMass = 5.972e24
	au        = 1.4960e11
)

func sunEarth(opts ...nbody.Option) *nbody.System {
	sys := nbody.New(opts...)
	Expect(sys.Add("Sun", sunMass, nbody.Point{}, nbody.Vector{})).To(Succeed())
	Expect(sys.Add("Earth", earthMass, nbody.Point{X: au}, nbody.Vector{Y: 2.98e4})).To(Succeed())
	return sys
}

func cluster(n int, seed int64, opts ...nbody.Option) *nbody.System {
	r := rand.New(rand.NewSource(seed))
	sys := nbody.New(opts...)
	for i := 0; i < n; i++ {
		pos := nbody.Point{X: r.NormFloat64() * 1e11, Y: r.NormFloat64() * 1e11, Z: r.NormFloat64() * 1e10}
		vel := nbody.Vector{X: r.NormFloat64() * 1e3, Y: r.NormFloat64() * 1e3}
		Expect(sys.Add("body", 1e24+r.Float64()*1e28, pos, vel)).To(Succeed())
	}
	return sys
}

var _ = Describe("System", func() {
	Describe("AddParticle", func() {
		It("preserves insertion order", func() {
			sys := nbody.New()
			for _, name := range []string{"a", "b", "c"} {
				Expect(sys.Add(name, 1, nbody.Point{}, nbody.Vector{})).To(Succeed())
			}

			names := []string{}
			for _, p := range sys.Particles() {
				names = append(names, p.Name)
			}
			Expect(names).To(Equal([]string{"a", "b", "c"}))
			Expect(sys.Len()).To(Equal(3))
		})

		It("rejects a non-positive mass before it enters the system", func() {
			sys := nbody.New()
			Expect(sys.Add("ghost", 0, nbody.Point{}, nbody.Vector{})).To(MatchError(nbody.ErrNonPositiveMass))
			Expect(sys.Add("nan", 1, nbody.Point{Y: math.NaN()}, nbody.Vector{})).To(MatchError(nbody.ErrNonFinite))
			Expect(sys.Len()).To(BeZero())
		})

		It("is closed once stepping starts", func() {
			sys := sunEarth()
			sys.Step(1)
			Expect(sys.Add("late", 1, nbody.Point{}, nbody.Vector{})).To(MatchError(nbody.ErrSealed))
			Expect(sys.Len()).To(Equal(2))
		})
	})

	Describe("Particles", func() {
		It("is idempotent between steps", func() {
			sys := sunEarth()
			sys.Step(60)
			Expect(sys.Particles()).To(Equal(sys.Particles()))
		})

		It("returns a copy the caller cannot use to mutate the system", func() {
			sys := sunEarth()
			view := sys.Particles()
			view[1].Position.X = 0
			view[1].Mass = -1

			Expect(sys.Particles()[1].Position.X).To(Equal(au))
			Expect(sys.Particles()[1].Mass).To(Equal(earthMass))
		})
	})

	Describe("Step", func() {
		It("leaves a lone particle at rest untouched", func() {
			sys := nbody.New()
			start := nbody.Point{X: 1, Y: -2, Z: 3}
			Expect(sys.Add("alone", 1e30, start, nbody.Vector{})).To(Succeed())

			for _, dt := range []float64{1e-3, 1, 1e6} {
				sys.Step(dt)
			}

			p := sys.Particles()[0]
			Expect(p.Position).To(Equal(start))
			Expect(p.Velocity).To(Equal(nbody.Vector{}))
		})

		It("keeps two equal masses mirrored through the origin", func() {
			sys := nbody.New()
			start := nbody.Point{X: 1e9, Y: 2e8, Z: -3e8}
			Expect(sys.Add("left", 1e26, start, nbody.Vector{})).To(Succeed())
			Expect(sys.Add("right", 1e26, nbody.Point{X: -start.X, Y: -start.Y, Z: -start.Z}, nbody.Vector{})).To(Succeed())

			for i := 0; i < 500; i++ {
				sys.Step(60)
			}

			ps := sys.Particles()
			Expect(ps[0].Position.X).To(BeNumerically("~", -ps[1].Position.X, 1e-3))
			Expect(ps[0].Position.Y).To(BeNumerically("~", -ps[1].Position.Y, 1e-3))
			Expect(ps[0].Position.Z).To(BeNumerically("~", -ps[1].Position.Z, 1e-3))
			Expect(ps[0].Position.Distance(nbody.Point{})).To(BeNumerically("<", start.Distance(nbody.Point{})))
		})

		It("does not produce NaN for coincident bodies", func() {
			sys := nbody.New()
			at := nbody.Point{X: 7, Y: 7, Z: 7}
			Expect(sys.Add("a", 1e30, at, nbody.Vector{})).To(Succeed())
			Expect(sys.Add("b", 1e30, at, nbody.Vector{})).To(Succeed())

			sys.Step(1)

			Expect(sys.Valid()).To(BeTrue())
			for _, p := range sys.Particles() {
				Expect(p.Position).To(Equal(at))
				Expect(p.Velocity).To(Equal(nbody.Vector{}))
			}
		})

		It("keeps the energy of a circular orbit bounded", func() {
			sys := sunEarth()
			e0 := sys.TotalEnergy()

			maxDrift := 0.0
			for i := 0; i < 24*365; i++ {
				sys.Step(3600)
				if i%24 == 0 {
					drift := math.Abs(sys.TotalEnergy()-e0) / math.Abs(e0)
					maxDrift = math.Max(maxDrift, drift)
				}
			}

			Expect(maxDrift).To(BeNumerically("<", 1e-2))
			Expect(sys.Valid()).To(BeTrue())
		})

		It("conserves momentum to rounding error", func() {
			sys := cluster(12, 7)
			p0 := sys.Momentum()
			for i := 0; i < 100; i++ {
				sys.Step(3600)
			}
			p1 := sys.Momentum()
			scale := 1e28 * 1e3
			Expect(p1.X).To(BeNumerically("~", p0.X, scale*1e-9))
			Expect(p1.Y).To(BeNumerically("~", p0.Y, scale*1e-9))
			Expect(p1.Z).To(BeNumerically("~", p0.Z, scale*1e-9))
		})

		It("gives identical results serially and in parallel", func() {
			serial := cluster(64, 42, nbody.WithWorkers(1))
			parallel := cluster(64, 42, nbody.WithWorkers(8), nbody.WithMinChunk(4))

			for i := 0; i < 20; i++ {
				serial.Step(600)
				parallel.Step(600)
			}

			Expect(parallel.Particles()).To(Equal(serial.Particles()))
		})

		It("brings the Earth back near its start after one year", func() {
			if testing.Short() {
				Skip("one year at dt=1s")
			}
			sys := sunEarth()

			const steps = 31540000
			for i := 0; i < steps; i++ {
				sys.Step(1.0)
			}

			earth := sys.Particles()[1]
			Expect(sys.Valid()).To(BeTrue())
			Expect(math.Abs(earth.Position.X-au) / au).To(BeNumerically("<", 0.05))
			Expect(math.Abs(earth.Position.Y) / au).To(BeNumerically("<", 0.05))
		})
	})

	Describe("Clone", func() {
		It("steps independently of the original", func() {
			sys := sunEarth()
			c := sys.Clone()
			c.Step(3600)

			Expect(sys.Particles()[1].Position.X).To(Equal(au))
			Expect(c.Particles()[1].Position.Y).To(BeNumerically(">", 0))
			Expect(c.Add("late", 1, nbody.Point{}, nbody.Vector{})).To(MatchError(nbody.ErrSealed))
		})
	})
})
