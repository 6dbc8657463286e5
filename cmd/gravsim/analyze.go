package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/storage"
)

var (
	analyzeCenter string
	perturbation  float64
	renormEvery   int
	sweepDts      []float64
	sweepParallel int
)

const secondsPerDay = 86400

func analyzeRun(cmd *cobra.Command, args []string) error {
	samples, err := storage.New(dataDir).LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("run %s has no samples", args[0])
	}

	center := analyzeCenter
	if center == "" {
		center = analysis.Heaviest(samples[0])
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "BODY\tPERIAPSIS (m)\tAPOAPSIS (m)\tECC\tPERIOD (d)\n")
	for _, p := range samples[0].Particles {
		if p.Name == center {
			continue
		}
		o, err := analysis.Apsides(samples, p.Name, center)
		if err != nil {
			return err
		}
		period := "-"
		if o.Period > 0 {
			period = fmt.Sprintf("%.2f", o.Period/secondsPerDay)
		}
		fmt.Fprintf(w, "%s\t%.4e\t%.4e\t%.4f\t%s\n", o.Body, o.Periapsis, o.Apoapsis, o.Eccentricity, period)
	}
	fmt.Fprintf(w, "\nrelative to %s, %d samples\n", center, len(samples))
	return w.Flush()
}

func runChaos(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	sys, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	n := cfg.SimConfig().TotalSteps()
	logger.Info("estimating lyapunov exponent", "bodies", sys.Len(), "steps", n, "dt", cfg.Dt)

	lambda, err := analysis.LyapunovExponent(sys, cfg.Dt, n, renormEvery, perturbation)
	if err != nil {
		return err
	}

	fmt.Printf("lyapunov exponent: %.4e 1/s\n", lambda)
	if lambda > 0 {
		fmt.Printf("e-folding time:    %.4e s (%.2f d)\n", 1/lambda, 1/lambda/secondsPerDay)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	sys, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	span := cfg.Dt * float64(cfg.SimConfig().TotalSteps())
	dts := sweepDts
	if len(dts) == 0 {
		dts = []float64{8 * cfg.Dt, 4 * cfg.Dt, 2 * cfg.Dt, cfg.Dt}
	}

	points, err := analysis.DtSweep(cmd.Context(), sys, span, dts, sweepParallel)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "DT (s)\tSTEPS\tENERGY DRIFT\n")
	for _, p := range points {
		drift := fmt.Sprintf("%.4e", p.Drift)
		if p.Diverged || math.IsInf(p.Drift, 0) {
			drift = "diverged"
		}
		fmt.Fprintf(w, "%g\t%d\t%s\n", p.Dt, p.Steps, drift)
	}
	return w.Flush()
}
