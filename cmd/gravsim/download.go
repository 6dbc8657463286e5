package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/horizons"
	"github.com/san-kum/gravsim/internal/loader"
)

var (
	downloadOutput string
	downloadFormat string
	fromID         int
	toID           int
	concurrency    int
	baseURL        string
	epochStart     string
	epochStop      string
)

func downloadBodies(cmd *cobra.Command, args []string) error {
	format, err := loader.ParseFormat(downloadFormat)
	if err != nil {
		return err
	}
	if format == loader.FormatText {
		return fmt.Errorf("download writes jsonl or yaml, not %s", format)
	}

	opts := []horizons.Option{
		horizons.WithConcurrency(concurrency),
		horizons.WithLogger(logger),
	}
	if baseURL != "" {
		opts = append(opts, horizons.WithBaseURL(baseURL))
	}
	if epochStart != "" || epochStop != "" {
		if epochStart == "" || epochStop == "" {
			return fmt.Errorf("--start and --stop must be given together")
		}
		opts = append(opts, horizons.WithEpoch(epochStart, epochStop))
	}
	client := horizons.NewClient(opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("downloading bodies", "from", fromID, "to", toID, "concurrency", concurrency)
	recs, err := client.Fetch(ctx, horizons.IDs(fromID, toID))
	if err != nil {
		return err
	}

	err = writeOutput(downloadOutput, func(w io.Writer) error {
		if format == loader.FormatYAML {
			return loader.WriteYAML(w, recs)
		}
		return loader.WriteJSONL(w, recs)
	})
	if err != nil {
		return err
	}

	if downloadOutput != "-" {
		fmt.Fprintf(os.Stderr, "wrote %d bodies to %s\n", len(recs), downloadOutput)
	}
	return nil
}
