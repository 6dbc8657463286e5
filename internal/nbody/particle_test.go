package nbody_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/nbody"
)

var _ = Describe("Particle", func() {
	Describe("AddForceFrom", func() {
		It("is antisymmetric for a non-coincident pair", func() {
			a := nbody.NewParticle("a", 5.972e24, nbody.Point{X: 1e7, Y: -2e6, Z: 3e5}, nbody.Vector{})
			b := nbody.NewParticle("b", 7.348e22, nbody.Point{X: -3.8e8, Y: 1e7, Z: 0}, nbody.Vector{})

			a.AddForceFrom(&b)
			b.AddForceFrom(&a)

			fa, fb := a.Force(), b.Force()
			Expect(fa.Norm()).To(BeNumerically(">", 0))
			Expect(fa.X).To(BeNumerically("~", -fb.X, math.Abs(fb.X)*1e-12))
			Expect(fa.Y).To(BeNumerically("~", -fb.Y, math.Abs(fb.Y)*1e-12))
			Expect(fa.Z).To(BeNumerically("~", -fb.Z, math.Abs(fb.Z)*1e-12))
		})

		It("never writes to the other particle", func() {
			a := nbody.NewParticle("a", 1e20, nbody.Point{}, nbody.Vector{})
			b := nbody.NewParticle("b", 1e20, nbody.Point{X: 1e3}, nbody.Vector{Y: 4})
			before := b

			a.AddForceFrom(&b)

			Expect(b).To(Equal(before))
			Expect(a.Force().X).To(BeNumerically(">", 0))
		})

		It("follows the inverse-square law", func() {
			m1, m2, d := 2.0e10, 3.0e10, 250.0
			a := nbody.NewParticle("a", m1, nbody.Point{}, nbody.Vector{})
			b := nbody.NewParticle("b", m2, nbody.Point{Z: d}, nbody.Vector{})

			a.AddForceFrom(&b)

			Expect(a.Force().Z).To(BeNumerically("~", nbody.G*m1*m2/(d*d), 1e-9))
			Expect(a.Force().X).To(BeZero())
			Expect(a.Force().Y).To(BeZero())
		})

		It("contributes nothing for coincident positions", func() {
			a := nbody.NewParticle("a", 1e30, nbody.Point{X: 5, Y: 5, Z: 5}, nbody.Vector{})
			b := nbody.NewParticle("b", 1e30, nbody.Point{X: 5, Y: 5, Z: 5}, nbody.Vector{})

			a.AddForceFrom(&b)
			a.AddForceFrom(&a)

			Expect(a.Force()).To(Equal(nbody.Vector{}))
		})
	})

	Describe("Integrate", func() {
		It("moves with the updated velocity and clears the force", func() {
			a := nbody.NewParticle("a", 2, nbody.Point{}, nbody.Vector{X: 1})
			b := nbody.NewParticle("b", 1/nbody.G, nbody.Point{X: 1}, nbody.Vector{})
			a.AddForceFrom(&b)
			// F = G * 2 * (1/G) / 1 = 2 N toward +x, so a = 1 m/s^2.
			Expect(a.Force().X).To(BeNumerically("~", 2, 1e-12))

			a.Integrate(0.5)

			Expect(a.Velocity.X).To(BeNumerically("~", 1.5, 1e-12))
			Expect(a.Position.X).To(BeNumerically("~", 0.75, 1e-12))
			Expect(a.Force()).To(Equal(nbody.Vector{}))
		})
	})

	Describe("SnapshotFrom", func() {
		It("copies position and velocity only", func() {
			dst := nbody.NewParticle("dst", 3, nbody.Point{}, nbody.Vector{})
			src := nbody.NewParticle("src", 7, nbody.Point{X: 1, Y: 2, Z: 3}, nbody.Vector{X: 4, Y: 5, Z: 6})

			dst.SnapshotFrom(&src)

			Expect(dst.Name).To(Equal("dst"))
			Expect(dst.Mass).To(Equal(3.0))
			Expect(dst.Position).To(Equal(src.Position))
			Expect(dst.Velocity).To(Equal(src.Velocity))
		})
	})

	Describe("Validate", func() {
		DescribeTable("rejects bad input",
			func(p nbody.Particle, want error) {
				Expect(p.Validate()).To(MatchError(want))
			},
			Entry("zero mass", nbody.NewParticle("z", 0, nbody.Point{}, nbody.Vector{}), nbody.ErrNonPositiveMass),
			Entry("negative mass", nbody.NewParticle("n", -1, nbody.Point{}, nbody.Vector{}), nbody.ErrNonPositiveMass),
			Entry("NaN position", nbody.NewParticle("p", 1, nbody.Point{X: math.NaN()}, nbody.Vector{}), nbody.ErrNonFinite),
			Entry("Inf velocity", nbody.NewParticle("v", 1, nbody.Point{}, nbody.Vector{Z: math.Inf(-1)}), nbody.ErrNonFinite),
			Entry("Inf mass", nbody.NewParticle("m", math.Inf(1), nbody.Point{}, nbody.Vector{}), nbody.ErrNonFinite),
		)
	})
})
