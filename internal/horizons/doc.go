// Package horizons downloads initial body states from the JPL Horizons
// batch interface.
//
// Each body id is requested as a vector table centred on the solar system
// barycentre at a fixed epoch. Pages are parsed with regular expressions
// for the target name, the mass and the first six vector components, which
// are converted from km and km/s into SI units. Ids whose page lacks any
// of these are skipped.
package horizons
