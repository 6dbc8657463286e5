package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/loader"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	DefaultDt         = 1.0
	DefaultSteps      = 31540000
	DefaultCheckEvery = 1000
)

var (
	ErrInvalid  = errors.New("config: invalid")
	ErrNoBodies = errors.New("config: no bodies, input or preset given")
	ErrNoPreset = errors.New("config: unknown preset")
)

type Config struct {
	Dt          float64         `yaml:"dt"`
	Steps       int             `yaml:"steps"`
	Duration    float64         `yaml:"duration,omitempty"`
	Workers     int             `yaml:"workers"`
	MinChunk    int             `yaml:"min_chunk,omitempty"`
	SampleEvery int             `yaml:"sample_every"`
	CheckEvery  int             `yaml:"check_every"`
	Input       string          `yaml:"input,omitempty"`
	Preset      string          `yaml:"preset,omitempty"`
	Bodies      []loader.Record `yaml:"bodies,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:         DefaultDt,
		Steps:      DefaultSteps,
		CheckEvery: DefaultCheckEvery,
	}
}

// Load reads a YAML config over the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 || math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalid, c.Dt)
	}
	if c.Steps < 0 || c.Workers < 0 || c.MinChunk < 0 || c.SampleEvery < 0 || c.CheckEvery < 0 {
		return fmt.Errorf("%w: counts must not be negative", ErrInvalid)
	}
	if math.IsNaN(c.Duration) || math.IsInf(c.Duration, 0) {
		return fmt.Errorf("%w: duration must be finite, got %g", ErrInvalid, c.Duration)
	}
	if c.Steps == 0 && c.Duration <= 0 {
		return fmt.Errorf("%w: need steps or a positive duration", ErrInvalid)
	}
	if c.Steps == 0 && c.Duration/c.Dt >= math.MaxInt {
		return fmt.Errorf("%w: duration %g is too many steps of %g", ErrInvalid, c.Duration, c.Dt)
	}
	if c.Preset != "" {
		if _, ok := GetPreset(c.Preset); !ok {
			return fmt.Errorf("%w: %q", ErrNoPreset, c.Preset)
		}
	}
	for i, b := range c.Bodies {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("body %d: %w", i+1, err)
		}
	}
	return nil
}

// SimConfig converts to driver settings.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Dt:            c.Dt,
		Steps:         c.Steps,
		Duration:      c.Duration,
		SampleEvery:   c.SampleEvery,
		CheckEvery:    c.CheckEvery,
		ValidateState: true,
	}
}

// UseInput makes path the body source, dropping any inline bodies so an
// explicitly named file is what gets loaded.
func (c *Config) UseInput(path string) {
	c.Input = path
	c.Bodies = nil
}

// Records resolves the initial bodies. Inline bodies win over Input,
// which wins over Preset. Use UseInput to override inline bodies.
func (c *Config) Records() ([]loader.Record, error) {
	switch {
	case len(c.Bodies) > 0:
		return c.Bodies, nil
	case c.Input != "":
		return loader.LoadFile(c.Input)
	case c.Preset != "":
		p, ok := GetPreset(c.Preset)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNoPreset, c.Preset)
		}
		return p.Records(), nil
	default:
		return nil, ErrNoBodies
	}
}

// Name labels runs made from this config.
func (c *Config) Name() string {
	switch {
	case len(c.Bodies) > 0:
		return "inline"
	case c.Input != "":
		return c.Input
	case c.Preset != "":
		return c.Preset
	default:
		return "run"
	}
}
