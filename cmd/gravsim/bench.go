package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/nbody"
)

var (
	benchBodies  int
	benchSteps   int
	benchWorkers []int
	benchSeed    int64
)

// randomCluster scatters n solar-mass bodies in a 1 AU cube.
func randomCluster(n int, seed int64, opts ...nbody.Option) (*nbody.System, error) {
	rng := rand.New(rand.NewPCG(uint64(seed), 0))
	sys := nbody.New(opts...)
	for i := 0; i < n; i++ {
		pos := nbody.Point{
			X: (rng.Float64()*2 - 1) * 1.496e11,
			Y: (rng.Float64()*2 - 1) * 1.496e11,
			Z: (rng.Float64()*2 - 1) * 1.496e11,
		}
		vel := nbody.Vector{
			X: rng.NormFloat64() * 1e4,
			Y: rng.NormFloat64() * 1e4,
			Z: rng.NormFloat64() * 1e4,
		}
		if err := sys.Add(fmt.Sprintf("b%d", i), 1.989e30, pos, vel); err != nil {
			return nil, err
		}
	}
	return sys, nil
}

func benchSystem(cmd *cobra.Command, args []string) error {
	if benchBodies < 1 || benchSteps < 1 {
		return fmt.Errorf("need at least one body and one step")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tWORKERS\tSTEPS\tTIME\tSTEPS/SEC\tSPEEDUP")

	baseline := math.NaN()
	for _, n := range benchWorkers {
		sys, err := randomCluster(benchBodies, benchSeed, nbody.WithWorkers(n), nbody.WithMinChunk(1))
		if err != nil {
			return err
		}

		start := time.Now()
		for i := 0; i < benchSteps; i++ {
			sys.Step(1)
		}
		elapsed := time.Since(start)

		rate := float64(benchSteps) / elapsed.Seconds()
		if math.IsNaN(baseline) {
			baseline = rate
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.1f\t%.2fx\n",
			benchBodies, n, benchSteps, elapsed.Round(time.Microsecond), rate, rate/baseline)
		logger.Debug("bench", "workers", n, "elapsed", elapsed)
	}

	return w.Flush()
}
