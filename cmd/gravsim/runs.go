package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
)

var (
	fromCatalog  bool
	bodiesFormat string
	plotBody     string
	plotCoord    string
	csvOutput    string
	jsonOutput   string
	svgOutput    string
	svgWidth     int
	svgHeight    int
)

const maxPlots = 6

func listRuns(cmd *cobra.Command, args []string) error {
	if fromCatalog {
		return listCatalog(cmd.Context())
	}

	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tBODIES\tSTEPS\tDT\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%gs\t%.2e\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Bodies),
			run.Steps,
			run.Dt,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func openCatalog(ctx context.Context) (*storage.Catalog, error) {
	return storage.OpenCatalog(ctx, filepath.Join(dataDir, catalogFile))
}

func listCatalog(ctx context.Context) error {
	cat, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer cat.Close()

	runs, err := cat.Runs(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCREATED\tBODIES\tSTEPS\tSIM TIME\tDRIFT")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4gs\t%.2e\n",
			r.ID, r.Name, r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.Bodies, r.Steps, r.SimTime, r.EnergyDrift)
	}
	return w.Flush()
}

func showBodies(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog(cmd.Context())
	if err != nil {
		return err
	}
	defer cat.Close()

	bodies, err := cat.Bodies(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printParticles(os.Stdout, bodiesFormat, args[0], bodies)
}

func energySeries(samples []sim.Sample) []float64 {
	out := make([]float64, len(samples))
	for i, sample := range samples {
		sys := nbody.New(nbody.WithWorkers(1))
		for _, p := range sample.Particles {
			sys.AddParticle(p)
		}
		out[i] = sys.TotalEnergy()
	}
	return out
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("name: %s\n", meta.Name)
	fmt.Printf("samples: %d\n\n", len(samples))

	if plotCoord == "energy" {
		graph := asciigraph.Plot(energySeries(samples),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("total energy (J)"),
		)
		fmt.Println(graph)
		return nil
	}

	bodies := []string{plotBody}
	if plotBody == "" {
		bodies = bodies[:0]
		for i, b := range meta.Bodies {
			if i == maxPlots {
				break
			}
			bodies = append(bodies, b.Name)
		}
	}

	for _, name := range bodies {
		data, err := storage.Series(samples, name, plotCoord)
		if err != nil {
			return err
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s %s vs time", name, plotCoord)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

// writeOutput runs write against path, with "-" meaning stdout. A file
// is closed before returning and a failed close is reported.
func writeOutput(path string, write func(w io.Writer) error) (err error) {
	if path == "-" {
		return write(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return write(f)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return writeOutput(csvOutput, func(w io.Writer) error {
		return storage.New(dataDir).ExportCSV(w, args[0])
	})
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return writeOutput(jsonOutput, func(w io.Writer) error {
		return storage.New(dataDir).ExportJSON(w, args[0])
	})
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	tracks := make([]viz.Track, len(meta.Bodies))
	for i, b := range meta.Bodies {
		tracks[i] = viz.Track{Name: b.Name, Points: make([]nbody.Point, len(samples))}
		for j, sample := range samples {
			tracks[i].Points[j] = sample.Particles[i].Position
		}
	}

	svg := viz.TrajectorySVG(tracks, svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("no data to render")
	}
	err = writeOutput(svgOutput, func(w io.Writer) error {
		_, err := io.WriteString(w, svg)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOutput)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tDT\tSTEPS\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p, _ := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%gs\t%d\t%s\n", name, len(p.Bodies), p.Dt, p.Steps, p.Description)
	}
	return w.Flush()
}
