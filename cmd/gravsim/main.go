package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/logging"
)

var (
	dataDir   string
	logLevel  string
	logFormat string
	logger    *slog.Logger

	// Simulation parameters shared by the commands that build a system.
	dt          float64
	steps       int
	duration    float64
	workers     int
	minChunk    int
	sampleEvery int
	checkEvery  int
	configFile  string
	preset      string

	runFormat string
	noSave    bool
	visual    bool
)

// main registers commands and flags and executes the root command.
// It exits with status 1 if the command returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "gravsim",
		Short:         "newtonian n-body gravity simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logFormat == "json" {
				logger = logging.NewJSONLogger(logLevel, os.Stderr)
			} else {
				logger = logging.NewLogger(logLevel, os.Stderr)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	runCmd := &cobra.Command{
		Use:   "run [file]",
		Short: "run a simulation from a body file, preset or config",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().Float64Var(&duration, "duration", 0, "simulated seconds (used when --steps is 0)")
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", 0, "record state every n steps (0: about 1000 samples per run)")
	runCmd.Flags().IntVar(&checkEvery, "check-every", config.DefaultCheckEvery, "validate state every n steps")
	runCmd.Flags().StringVar(&runFormat, "format", "table", "final state format (table, styled, json)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&visual, "visual", false, "open the live view instead of running headless")

	downloadCmd := &cobra.Command{
		Use:   "download",
		Short: "download initial states from JPL Horizons",
		Args:  cobra.NoArgs,
		RunE:  downloadBodies,
	}
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "-", "output file (- for stdout)")
	downloadCmd.Flags().StringVar(&downloadFormat, "format", "jsonl", "output format (jsonl, yaml)")
	downloadCmd.Flags().IntVar(&fromID, "from", 0, "first body id")
	downloadCmd.Flags().IntVar(&toID, "to", 1000, "last body id")
	downloadCmd.Flags().IntVar(&concurrency, "concurrency", 4, "parallel requests")
	downloadCmd.Flags().StringVar(&baseURL, "base-url", "", "Horizons batch endpoint")
	downloadCmd.Flags().StringVar(&epochStart, "start", "", "ephemeris start date (YYYY-MM-DD)")
	downloadCmd.Flags().StringVar(&epochStop, "stop", "", "ephemeris stop date (YYYY-MM-DD)")

	liveCmd := &cobra.Command{
		Use:   "live [file]",
		Short: "run simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", 60, "steps per rendered frame")
	liveCmd.Flags().StringVar(&theme, "theme", "deepspace", "color theme")
	liveCmd.Flags().StringVar(&gifPath, "gif", "gravsim.gif", "where G saves recordings")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
	listCmd.Flags().BoolVar(&fromCatalog, "catalog", false, "list from the SQLite catalog")

	bodiesCmd := &cobra.Command{
		Use:   "bodies [run_id]",
		Short: "show the final body states of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  showBodies,
	}
	bodiesCmd.Flags().StringVar(&bodiesFormat, "format", "table", "output format (table, styled, json)")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a body coordinate or the total energy of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotBody, "body", "", "body name (default: every body, up to 6)")
	plotCmd.Flags().StringVar(&plotCoord, "coord", "x", "x, y, z, vx, vy, vz, speed or energy")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&csvOutput, "output", "o", "-", "output file (- for stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&jsonOutput, "output", "o", "-", "output file (- for stdout)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render sampled trajectories to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&svgOutput, "output", "o", "trajectories.svg", "output file")
	svgCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	svgCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure step throughput for several worker counts",
		Args:  cobra.NoArgs,
		RunE:  benchSystem,
	}
	benchCmd.Flags().IntVar(&benchBodies, "bodies", 256, "number of bodies")
	benchCmd.Flags().IntVar(&benchSteps, "steps", 100, "steps per measurement")
	benchCmd.Flags().IntSliceVar(&benchWorkers, "workers", []int{1, 2, 4, 8}, "worker counts to try")
	benchCmd.Flags().Int64Var(&benchSeed, "seed", 1, "random seed")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "report apsides, eccentricity and period of each body in a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&analyzeCenter, "center", "", "reference body (default: heaviest)")

	chaosCmd := &cobra.Command{
		Use:   "chaos [file]",
		Short: "estimate the largest lyapunov exponent of a system",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runChaos,
	}
	addSimFlags(chaosCmd)
	chaosCmd.Flags().Float64Var(&perturbation, "perturbation", 1e3, "initial offset of the shadow system in metres")
	chaosCmd.Flags().IntVar(&renormEvery, "renorm-every", analysis.DefaultRenormEvery, "steps between renormalisations")

	sweepCmd := &cobra.Command{
		Use:   "sweep [file]",
		Short: "compare energy drift across step sizes over the same simulated time",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&sweepDts, "dts", nil, "step sizes to try (default: 8, 4, 2 and 1 times --dt)")
	sweepCmd.Flags().IntVar(&sweepParallel, "parallel", 0, "concurrent runs (0: unlimited)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, downloadCmd, liveCmd, listCmd, bodiesCmd, plotCmd, exportCSVCmd, exportJSONCmd, svgCmd, benchCmd, analyzeCmd, chaosCmd, sweepCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().IntVar(&workers, "workers", 0, "force workers (0: one per CPU)")
	cmd.Flags().IntVar(&minChunk, "min-chunk", 0, "minimum bodies per worker (0: default)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset bodies and timing")
}
