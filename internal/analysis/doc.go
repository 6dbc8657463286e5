// Package analysis characterises simulated orbits.
//
//   - [DominantPeriod]: orbital period from a sampled coordinate via FFT
//   - [Apsides]: closest and farthest approach of one body to another
//   - [LyapunovExponent]: divergence rate of two nearby systems
//   - [DtSweep]: energy drift as a function of step size
//
// # Chaos Detection
//
// A clearly positive exponent means nearby initial conditions separate
// exponentially:
//
//	lambda, err := analysis.LyapunovExponent(sys, dt, steps, analysis.DefaultRenormEvery, 1e3)
//	if lambda > 0 {
//	    // System is chaotic
//	}
package analysis
