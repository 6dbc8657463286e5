package main

import (
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/viz"
)

var (
	stepsPerFrame int
	theme         string
	gifPath       string
)

func runLive(cmd *cobra.Command, args []string) error {
	if preset == "" && configFile == "" && len(args) == 0 {
		preset = "sun-earth"
	}

	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	sys, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	m := viz.NewModel(sys, cfg.Dt, cfg.Name(),
		viz.WithStepsPerTick(stepsPerFrame),
		viz.WithTheme(theme),
		viz.WithGIFPath(gifPath),
	)
	return viz.RunLive(m)
}
