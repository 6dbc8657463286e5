package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/nbody"
)

// wireVec and wireRecord mirror Record with pointer fields so an omitted
// key can be told apart from an explicit zero.
type wireVec struct {
	X *float64 `json:"x" yaml:"x"`
	Y *float64 `json:"y" yaml:"y"`
	Z *float64 `json:"z" yaml:"z"`
}

type wireRecord struct {
	Name     *string  `json:"name" yaml:"name"`
	Mass     *float64 `json:"mass" yaml:"mass"`
	Position *wireVec `json:"position" yaml:"position"`
	Velocity *wireVec `json:"velocity" yaml:"velocity"`
}

var (
	recordKeys = []string{"name", "mass", "position", "velocity"}
	vecKeys    = []string{"x", "y", "z"}
)

func (w *wireRecord) record() (Record, error) {
	if w.Name == nil || *w.Name == "" {
		return Record{}, ErrMissingName
	}
	name := *w.Name
	if w.Mass == nil {
		return Record{}, fmt.Errorf("%w: %q has no mass", ErrMissingField, name)
	}
	pos, err := w.Position.values(name, "position")
	if err != nil {
		return Record{}, err
	}
	vel, err := w.Velocity.values(name, "velocity")
	if err != nil {
		return Record{}, err
	}
	return Record{
		Name:     name,
		Mass:     *w.Mass,
		Position: nbody.Point{X: pos[0], Y: pos[1], Z: pos[2]},
		Velocity: nbody.Vector{X: vel[0], Y: vel[1], Z: vel[2]},
	}, nil
}

func (v *wireVec) values(name, field string) ([3]float64, error) {
	var out [3]float64
	if v == nil {
		return out, fmt.Errorf("%w: %q has no %s", ErrMissingField, name, field)
	}
	for i, c := range []*float64{v.X, v.Y, v.Z} {
		if c == nil {
			return out, fmt.Errorf("%w: %q has no %s.%s", ErrMissingField, name, field, vecKeys[i])
		}
		out[i] = *c
	}
	return out, nil
}

// UnmarshalJSON rejects unknown keys and records with any field omitted.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w wireRecord
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&w); err != nil {
		return err
	}
	rec, err := w.record()
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

// UnmarshalYAML is the YAML counterpart of UnmarshalJSON. Errors carry the
// line of the offending body.
func (r *Record) UnmarshalYAML(node *yaml.Node) error {
	if err := checkKeys(node, recordKeys); err != nil {
		return err
	}
	var w wireRecord
	if err := node.Decode(&w); err != nil {
		return err
	}
	rec, err := w.record()
	if err != nil {
		return &ParseError{Line: node.Line, Err: err}
	}
	*r = rec
	return nil
}

// checkKeys enforces known fields by hand: node.Decode does not inherit
// the strictness of the outer decoder.
func checkKeys(node *yaml.Node, allowed []string) error {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if !slices.Contains(allowed, key.Value) {
			return &ParseError{Line: key.Line, Err: fmt.Errorf("unknown field %q", key.Value)}
		}
		if key.Value == "position" || key.Value == "velocity" {
			if err := checkKeys(val, vecKeys); err != nil {
				return err
			}
		}
	}
	return nil
}
