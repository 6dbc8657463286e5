// Package nbody implements the gravitational N-body kernel.
//
// The package defines three types:
//
//   - [Point]: a position in meters with Euclidean distance
//   - [Particle]: a point mass with velocity and a force accumulator
//   - [System]: the particle collection, stepped in fixed increments
//
// # Example
//
//	sys := nbody.New()
//	_ = sys.Add("Sun", 1.989e30, nbody.Point{}, nbody.Vector{})
//	_ = sys.Add("Earth", 5.972e24, nbody.Point{X: 1.496e11}, nbody.Vector{Y: 2.98e4})
//	for i := 0; i < steps; i++ {
//		sys.Step(1.0)
//	}
//
// # Units
//
// The kernel works in SI units throughout (meters, kilograms, seconds).
// Conversion from astronomical units or kilometers belongs to the loader.
//
// # Thread Safety
//
// A System is not safe for concurrent use. Step fans out over goroutines
// internally and returns only after every worker has joined.
package nbody
