package horizons

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/san-kum/gravsim/internal/loader"
	"github.com/san-kum/gravsim/internal/nbody"
)

var ErrIncomplete = errors.New("horizons: page lacks name, mass or vectors")

var (
	nameRe   = regexp.MustCompile(`Target\s*body\s*name:\s*([[:alnum:]]*)`)
	massRe   = regexp.MustCompile(`Mass.*\(?10\^(\d*) kg\s*\)?\s*[=~]\s*(\d+\.?\d*)`)
	vectorRe = regexp.MustCompile(`(?:\-?\d*\.*\d*E[\+\-]\d*,\s+){6}`)
)

// ParsePage extracts a record from one Horizons vector table page.
// Positions and velocities are converted from km and km/s.
func ParsePage(page string) (loader.Record, error) {
	name := nameRe.FindStringSubmatch(page)
	if name == nil || name[1] == "" {
		return loader.Record{}, fmt.Errorf("%w: no target name", ErrIncomplete)
	}

	mass, err := parseMass(page)
	if err != nil {
		return loader.Record{}, err
	}

	vec, err := parseVectors(page)
	if err != nil {
		return loader.Record{}, err
	}

	rec := loader.Record{
		Name:     name[1],
		Mass:     mass,
		Position: nbody.Point{X: vec[0], Y: vec[1], Z: vec[2]},
		Velocity: nbody.Vector{X: vec[3], Y: vec[4], Z: vec[5]},
	}
	if err := rec.Validate(); err != nil {
		return loader.Record{}, err
	}
	return rec, nil
}

// parseMass reads "Mass (10^N kg ) = B" as B*10^N.
func parseMass(page string) (float64, error) {
	m := massRe.FindStringSubmatch(page)
	if m == nil || m[1] == "" {
		return 0, fmt.Errorf("%w: no mass", ErrIncomplete)
	}
	mass, err := strconv.ParseFloat(m[2]+"e"+m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: mass %q: %v", ErrIncomplete, m[0], err)
	}
	return mass, nil
}

func parseVectors(page string) ([6]float64, error) {
	var out [6]float64

	m := vectorRe.FindString(page)
	if m == "" {
		return out, fmt.Errorf("%w: no vector table", ErrIncomplete)
	}

	fields := strings.Split(m, ",")
	for i := range out {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
		if err != nil {
			return out, fmt.Errorf("%w: component %d: %v", ErrIncomplete, i, err)
		}
		out[i] = v * loader.KMToMeters
	}
	return out, nil
}
