package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"slices"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/loader"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/report"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
)

const (
	catalogFile = "catalog.db"
	// defaultSamples is roughly how many states a run stores when
	// --sample-every is not set.
	defaultSamples = 1000
)

// resolveConfig merges, in increasing priority: defaults, the config file,
// the preset's timing, the positional body file and explicitly set flags.
// A positional file replaces bodies listed inline in the config file.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if preset != "" {
		p, ok := config.GetPreset(preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Preset = preset
		if configFile == "" {
			cfg.Dt = p.Dt
			cfg.Steps = p.Steps
		}
	}

	if len(args) == 1 {
		cfg.UseInput(args[0])
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("duration") {
		cfg.Duration = duration
		if !flags.Changed("steps") {
			cfg.Steps = 0
		}
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("min-chunk") {
		cfg.MinChunk = minChunk
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("check-every") {
		cfg.CheckEvery = checkEvery
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildSystem loads the configured bodies into a fresh system.
func buildSystem(cfg *config.Config) (*nbody.System, error) {
	recs, err := cfg.Records()
	if err != nil {
		return nil, err
	}

	opts := make([]nbody.Option, 0, 2)
	if cfg.Workers > 0 {
		opts = append(opts, nbody.WithWorkers(cfg.Workers))
	}
	if cfg.MinChunk > 0 {
		opts = append(opts, nbody.WithMinChunk(cfg.MinChunk))
	}

	sys := nbody.New(opts...)
	if err := loader.Populate(sys, recs); err != nil {
		return nil, err
	}
	logger.Debug("loaded bodies", "source", cfg.Name(), "bodies", sys.Len())
	return sys, nil
}

// boundRadius is the escape radius used by the stability metric: ten times
// the initial extent of the system.
func boundRadius(sys *nbody.System) float64 {
	com := sys.CenterOfMass()
	r := 0.0
	for _, p := range sys.Particles() {
		r = math.Max(r, p.Position.Distance(com))
	}
	if r == 0 {
		return 1
	}
	return 10 * r
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	sys, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	if visual {
		return viz.RunLive(viz.NewModel(sys, cfg.Dt, cfg.Name()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	simulator := sim.New(logger)
	for _, m := range metrics.Defaults(boundRadius(sys)) {
		simulator.AddMetric(m)
	}

	simCfg := cfg.SimConfig()
	if simCfg.SampleEvery == 0 {
		simCfg.SampleEvery = max(1, simCfg.TotalSteps()/defaultSamples)
	}
	if isatty.IsTerminal(os.Stderr.Fd()) {
		simulator.AddObserver(newProgress(os.Stderr, simCfg.TotalSteps()))
	}

	before := sys.Particles()
	fmt.Printf("running %s: %d bodies, %d steps of %gs\n", cfg.Name(), sys.Len(), simCfg.TotalSteps(), simCfg.Dt)

	result, runErr := simulator.Run(ctx, sys, simCfg)
	if result == nil {
		return runErr
	}
	after := sys.Particles()

	printResult(result)
	fmt.Println()
	if err := report.Summary(os.Stdout, before, after); err != nil {
		return err
	}
	fmt.Println()
	if err := printParticles(os.Stdout, runFormat, "final state", after); err != nil {
		return err
	}

	if !noSave && len(result.Samples) > 0 {
		runID, err := saveRun(context.Background(), cfg, sys, after, result)
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", runID)
	}

	var simErr *sim.SimulationError
	if errors.As(runErr, &simErr) {
		return fmt.Errorf("simulation aborted: %w", runErr)
	}
	return runErr
}

func printResult(result *sim.Result) {
	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("simulated: %.6gs\n", result.SimTime)
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	slices.Sort(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6e\n", name, result.Metrics[name])
	}
}

func printParticles(w io.Writer, format, title string, particles []nbody.Particle) error {
	switch format {
	case "table":
		return report.Table(w, particles)
	case "styled":
		_, err := fmt.Fprintln(w, report.Styled(title, particles))
		return err
	case "json":
		return report.JSON(w, particles)
	default:
		return fmt.Errorf("unknown format: %s (available: table, styled, json)", format)
	}
}

func saveRun(ctx context.Context, cfg *config.Config, sys *nbody.System, final []nbody.Particle, result *sim.Result) (string, error) {
	st := storage.New(dataDir)
	meta := storage.NewMetadata(cfg.Name(), cfg.SimConfig(), cfg.Workers, final, result)

	runID, err := st.Save(meta, result.Samples)
	if err != nil {
		return "", err
	}

	cat, err := storage.OpenCatalog(ctx, filepath.Join(dataDir, catalogFile))
	if err != nil {
		return "", err
	}
	defer cat.Close()

	if err := cat.Record(ctx, meta, final); err != nil {
		return "", err
	}
	logger.Debug("run stored", "id", runID, "samples", len(result.Samples), "bodies", sys.Len())
	return runID, nil
}

// progress draws a progress bar on a terminal.
type progress struct {
	w     io.Writer
	total int
	every int
}

func newProgress(w io.Writer, total int) *progress {
	return &progress{w: w, total: total, every: max(1, total/200)}
}

func (p *progress) OnStep(sys *nbody.System, step int, t float64) {
	if step%p.every != 0 && step != p.total {
		return
	}
	pct := float64(step) / float64(p.total)
	fmt.Fprintf(p.w, "\r%s %5.1f%%", viz.ProgressBar(pct, 40), pct*100)
	if step == p.total {
		fmt.Fprintln(p.w)
	}
}
