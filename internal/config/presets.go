package config

import (
	"slices"

	"github.com/san-kum/gravsim/internal/loader"
	"github.com/san-kum/gravsim/internal/nbody"
)

type Preset struct {
	Description string
	Dt          float64
	Steps       int
	Bodies      []loader.Record
}

// Records returns a copy of the preset bodies.
func (p Preset) Records() []loader.Record {
	return slices.Clone(p.Bodies)
}

// Config returns a default config running this preset.
func (p Preset) Config(name string) *Config {
	cfg := DefaultConfig()
	cfg.Dt = p.Dt
	cfg.Steps = p.Steps
	cfg.Preset = name
	return cfg
}

func body(name string, mass, x, vy float64) loader.Record {
	return loader.Record{
		Name:     name,
		Mass:     mass,
		Position: nbody.Point{X: x},
		Velocity: nbody.Vector{Y: vy},
	}
}

var Presets = map[string]Preset{
	"sun-earth": {
		Description: "Earth on a near-circular orbit, one year",
		Dt:          60,
		Steps:       525960,
		Bodies: []loader.Record{
			body("Sun", 1.989e30, 0, 0),
			body("Earth", 5.972e24, 1.496e11, 2.978e4),
		},
	},
	"earth-moon": {
		Description: "Moon around Earth, one sidereal month",
		Dt:          10,
		Steps:       236059,
		Bodies: []loader.Record{
			body("Earth", 5.972e24, 0, 0),
			body("Moon", 7.342e22, 3.844e8, 1022),
		},
	},
	"binary": {
		Description: "Two equal stars on a circular orbit, one period",
		Dt:          600,
		Steps:       81067,
		Bodies: []loader.Record{
			body("A", 1e30, -1e11, -12917),
			body("B", 1e30, 1e11, 12917),
		},
	},
	"inner-planets": {
		Description: "Sun with Mercury, Venus, Earth and Mars, one year",
		Dt:          3600,
		Steps:       8766,
		Bodies: []loader.Record{
			body("Sun", 1.989e30, 0, 0),
			body("Mercury", 3.301e23, 5.791e10, 4.736e4),
			body("Venus", 4.867e24, 1.0821e11, 3.502e4),
			body("Earth", 5.972e24, 1.496e11, 2.978e4),
			body("Mars", 6.417e23, 2.2794e11, 2.4077e4),
		},
	},
}

func GetPreset(name string) (Preset, bool) {
	p, ok := Presets[name]
	return p, ok
}

// ListPresets returns preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
