package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/sim"
)

func testRun() (*RunMetadata, []sim.Sample) {
	sun := nbody.NewParticle("Sun", 1.989e30, nbody.Point{}, nbody.Vector{})
	earth := nbody.NewParticle("Earth", 5.972e24, nbody.Point{X: 1.496e11}, nbody.Vector{Y: 2.978e4})
	moved := earth
	moved.Position = nbody.Point{X: 1.495e11, Y: 2.978e7, Z: -1.25}

	samples := []sim.Sample{
		{Step: 0, Time: 0, Particles: []nbody.Particle{sun, earth}},
		{Step: 1000, Time: 1000, Particles: []nbody.Particle{sun, moved}},
	}
	result := &sim.Result{
		StepsTaken:  1000,
		SimTime:     1000,
		Elapsed:     1500 * time.Millisecond,
		Samples:     samples,
		Metrics:     map[string]float64{"energy_drift": 1e-9},
		EnergyDrift: 1e-9,
	}
	cfg := sim.Config{Dt: 1, Steps: 1000}
	return NewMetadata("sun earth", cfg, 4, samples[0].Particles, result), samples
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	meta, samples := testRun()

	runID, err := st.Save(meta, samples)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "sun-earth_") {
		t.Errorf("unexpected run id %q", runID)
	}

	got, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Steps != 1000 || got.Workers != 4 || got.Elapsed != 1.5 {
		t.Errorf("metadata mismatch: %+v", got)
	}
	if got.Metrics["energy_drift"] != 1e-9 {
		t.Errorf("expected energy drift 1e-9, got %g", got.Metrics["energy_drift"])
	}

	loaded, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(loaded))
	}
	for i := range samples {
		for j, want := range samples[i].Particles {
			p := loaded[i].Particles[j]
			if p.Name != want.Name || p.Mass != want.Mass || p.Position != want.Position || p.Velocity != want.Velocity {
				t.Errorf("sample %d body %d: got %v, want %v", i, j, p, want)
			}
		}
	}
	if loaded[1].Step != 1000 {
		t.Errorf("expected step 1000, got %d", loaded[1].Step)
	}
}

func TestStoreDistinctIDs(t *testing.T) {
	st := New(t.TempDir())
	meta1, samples := testRun()
	meta2, _ := testRun()

	id1, err := st.Save(meta1, samples)
	if err != nil {
		t.Fatal(err)
	}
	id2, err := st.Save(meta2, samples)
	if err != nil {
		t.Fatal(err)
	}
	if id1 == id2 {
		t.Errorf("runs saved in the same second share id %q", id1)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("List() = %v, %v; want empty", runs, err)
	}

	if _, err := st.Load("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestExport(t *testing.T) {
	st := New(t.TempDir())
	meta, samples := testRun()
	runID, err := st.Save(meta, samples)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatal(err)
	}
	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.Run.ID != runID || len(data.Samples) != 2 || data.Samples[1].Bodies[1].Name != "Earth" {
		t.Errorf("unexpected export: %+v", data)
	}

	buf.Reset()
	if err := st.ExportCSV(&buf, runID); err != nil {
		t.Fatal(err)
	}
	header := strings.SplitN(buf.String(), "\n", 2)[0]
	if header != "step,time,Sun_x,Sun_y,Sun_z,Sun_vx,Sun_vy,Sun_vz,Earth_x,Earth_y,Earth_z,Earth_vx,Earth_vy,Earth_vz" {
		t.Errorf("unexpected header %q", header)
	}
}

func TestSeries(t *testing.T) {
	_, samples := testRun()

	ys, err := Series(samples, "Earth", "y")
	if err != nil {
		t.Fatal(err)
	}
	if len(ys) != 2 || ys[0] != 0 || ys[1] != 2.978e7 {
		t.Errorf("unexpected series %v", ys)
	}

	if _, err := Series(samples, "Pluto", "x"); err == nil {
		t.Error("expected error for unknown body")
	}
	if _, err := Series(samples, "Sun", "w"); err == nil {
		t.Error("expected error for unknown coordinate")
	}
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()
	cat, err := OpenCatalog(ctx, filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("OpenCatalog() error = %v", err)
	}
	defer cat.Close()

	meta, samples := testRun()
	meta.ID = "run-1"
	final := samples[len(samples)-1].Particles

	if err := cat.Record(ctx, meta, final); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	// Recording again replaces the entry.
	if err := cat.Record(ctx, meta, final); err != nil {
		t.Fatalf("second Record() error = %v", err)
	}

	runs, err := cat.Runs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != "run-1" || runs[0].Bodies != 2 || runs[0].Steps != 1000 {
		t.Errorf("unexpected runs %+v", runs)
	}

	bodies, err := cat.Bodies(ctx, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(bodies) != 2 || bodies[1].Name != "Earth" || bodies[1].Position != final[1].Position {
		t.Errorf("unexpected bodies %v", bodies)
	}

	if _, err := cat.Bodies(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
