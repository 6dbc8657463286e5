package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

var (
	ErrNotFound  = errors.New("storage: run not found")
	ErrBadStates = errors.New("storage: malformed states file")
)

// Store keeps one directory per run under baseDir, holding
// metadata.json and states.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Body is the constant part of a particle.
type Body struct {
	Name string  `json:"name"`
	Mass float64 `json:"mass"`
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Timestamp   time.Time          `json:"timestamp"`
	Dt          float64            `json:"dt"`
	Steps       int                `json:"steps"`
	SimTime     float64            `json:"sim_time"`
	Workers     int                `json:"workers"`
	Elapsed     float64            `json:"elapsed_seconds"`
	EnergyDrift float64            `json:"energy_drift"`
	Bodies      []Body             `json:"bodies"`
	Metrics     map[string]float64 `json:"metrics"`
}

// NewMetadata fills run metadata from a finished simulation.
func NewMetadata(name string, cfg sim.Config, workers int, particles []nbody.Particle, result *sim.Result) *RunMetadata {
	meta := &RunMetadata{
		Name:      name,
		Timestamp: time.Now(),
		Dt:        cfg.Dt,
		Workers:   workers,
		Bodies:    make([]Body, len(particles)),
		Metrics:   make(map[string]float64),
	}
	for i, p := range particles {
		meta.Bodies[i] = Body{Name: p.Name, Mass: p.Mass}
	}
	if result != nil {
		meta.Steps = result.StepsTaken
		meta.SimTime = result.SimTime
		meta.Elapsed = result.Elapsed.Seconds()
		meta.EnergyDrift = result.EnergyDrift
		for k, v := range result.Metrics {
			meta.Metrics[k] = v
		}
	}
	return meta
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func runPrefix(name string) string {
	p := strings.Trim(unsafeChars.ReplaceAllString(name, "-"), "-")
	if p == "" {
		return "run"
	}
	return p
}

// Save writes meta and samples to a new run directory and returns the
// run id. meta.ID is assigned when empty.
func (s *Store) Save(meta *RunMetadata, samples []sim.Sample) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	runDir, err := s.createRunDir(meta)
	if err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, statesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := writeStates(csvFile, meta.Bodies, samples); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func (s *Store) createRunDir(meta *RunMetadata) (string, error) {
	if meta.ID != "" {
		dir := filepath.Join(s.baseDir, meta.ID)
		return dir, os.Mkdir(dir, 0755)
	}

	base := fmt.Sprintf("%s_%d", runPrefix(meta.Name), time.Now().Unix())
	for i := 0; ; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s_%d", base, i)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			meta.ID = id
			return dir, nil
		}
		if !os.IsExist(err) {
			return "", err
		}
	}
}

var stateColumns = []string{"x", "y", "z", "vx", "vy", "vz"}

func statesHeader(bodies []Body) []string {
	header := []string{"step", "time"}
	for _, b := range bodies {
		for _, c := range stateColumns {
			header = append(header, b.Name+"_"+c)
		}
	}
	return header
}

func writeStates(f *os.File, bodies []Body, samples []sim.Sample) error {
	w := csv.NewWriter(f)
	if err := w.Write(statesHeader(bodies)); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, sample := range samples {
		row := make([]string, 0, 2+len(sample.Particles)*len(stateColumns))
		row = append(row, strconv.Itoa(sample.Step), format(sample.Time))
		for _, p := range sample.Particles {
			row = append(row,
				format(p.Position.X), format(p.Position.Y), format(p.Position.Z),
				format(p.Velocity.X), format(p.Velocity.Y), format(p.Velocity.Z),
			)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	slices.SortFunc(runs, func(a, b RunMetadata) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSamples reads back the sampled states of a run, restoring masses
// from its metadata.
func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadStates, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header", ErrBadStates)
	}
	if want := 2 + len(meta.Bodies)*len(stateColumns); len(records[0]) != want {
		return nil, fmt.Errorf("%w: %d columns, want %d", ErrBadStates, len(records[0]), want)
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for line, record := range records[1:] {
		vals := make([]float64, len(record)-1)
		step, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadStates, line+2, err)
		}
		for j, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrBadStates, line+2, err)
			}
			vals[j] = v
		}

		sample := sim.Sample{Step: step, Time: vals[0], Particles: make([]nbody.Particle, len(meta.Bodies))}
		for i, b := range meta.Bodies {
			v := vals[1+i*len(stateColumns):]
			sample.Particles[i] = nbody.NewParticle(b.Name, b.Mass,
				nbody.Point{X: v[0], Y: v[1], Z: v[2]},
				nbody.Vector{X: v[3], Y: v[4], Z: v[5]},
			)
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

// StatesPath is the location of a run's CSV file.
func (s *Store) StatesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, statesFile)
}
