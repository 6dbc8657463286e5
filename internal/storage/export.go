package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/gravsim/internal/loader"
	"github.com/san-kum/gravsim/internal/sim"
)

type ExportSample struct {
	Step   int             `json:"step"`
	Time   float64         `json:"time"`
	Bodies []loader.Record `json:"bodies"`
}

type ExportData struct {
	Run     RunMetadata    `json:"run"`
	Samples []ExportSample `json:"samples"`
}

// ExportJSON writes a run's metadata and samples as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Run:     *meta,
		Samples: make([]ExportSample, len(samples)),
	}
	for i, sample := range samples {
		recs := make([]loader.Record, len(sample.Particles))
		for j, p := range sample.Particles {
			recs[j] = loader.FromParticle(p)
		}
		data.Samples[i] = ExportSample{Step: sample.Step, Time: sample.Time, Bodies: recs}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV copies a run's states file to w.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	f, err := os.Open(s.StatesPath(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}

// Series extracts one coordinate ("x", "y", "z", "vx", "vy", "vz" or
// "speed") of a named body across samples.
func Series(samples []sim.Sample, body, coord string) ([]float64, error) {
	idx := -1
	if len(samples) > 0 {
		for i, p := range samples[0].Particles {
			if p.Name == body {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("storage: no body %q in run", body)
	}

	out := make([]float64, len(samples))
	for i, sample := range samples {
		p := sample.Particles[idx]
		switch coord {
		case "x":
			out[i] = p.Position.X
		case "y":
			out[i] = p.Position.Y
		case "z":
			out[i] = p.Position.Z
		case "vx":
			out[i] = p.Velocity.X
		case "vy":
			out[i] = p.Velocity.Y
		case "vz":
			out[i] = p.Velocity.Z
		case "speed":
			out[i] = p.Velocity.Norm()
		default:
			return nil, fmt.Errorf("storage: unknown coordinate %q", coord)
		}
	}
	return out, nil
}
