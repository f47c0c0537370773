package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eden/config"
	"eden/core"
	"eden/server"
	"eden/simulation"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("eden failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse command line flags
	var (
		configPath = flag.String("config", "settings.json", "Settings file (.json or .yaml)")
		cells      = flag.Int("cells", 0, "Cells around the equator (overrides settings)")
		seed       = flag.Int64("seed", 0, "Random seed (overrides settings)")
		water      = flag.String("water", "", "Water init mode: even or dump (overrides settings)")
		timeStep   = flag.Float64("dt", 0, "Seconds simulated per step (overrides settings)")
		steps      = flag.Int("steps", 0, "Run this many steps headless and exit")
		port       = flag.Int("port", 0, "HTTP port for the websocket stream (overrides settings)")
	)
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *cells > 0 {
		settings.Simulation.CellCircumference = *cells
	}
	if *seed != 0 {
		settings.Simulation.Seed = *seed
	}
	if *water != "" {
		settings.Simulation.WaterInitMode = *water
	}
	if *timeStep > 0 {
		settings.Simulation.TimeStepSize = *timeStep
	}
	if *port > 0 {
		settings.Server.Port = *port
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	logger := settings.Logging.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	fmt.Println("=== Eden Planetary Energy Balance ===")
	slog.Info("settings",
		"cell_circumference", settings.Simulation.CellCircumference,
		"approx_cells", settings.ApproximateCellCount(),
		"seed", settings.Simulation.Seed,
		"time_step", settings.Simulation.TimeStepSize,
		"water_init_mode", settings.Simulation.WaterInitMode)

	start := time.Now()
	world, err := core.NewWorld(settings.Params(), core.NewRand(settings.Simulation.Seed))
	if err != nil {
		return fmt.Errorf("creating world: %w", err)
	}
	slog.Info("world ready", "cells", world.Len(), "elapsed", time.Since(start))

	runner := simulation.NewRunner(world, settings.Sun(), simulation.Options{
		Interval:    time.Duration(settings.Server.StepIntervalMs) * time.Millisecond,
		LogEvery:    settings.Logging.LogEvery,
		MinTimeStep: settings.Simulation.MinTimeStep,
		MaxTimeStep: settings.Simulation.MaxTimeStep,
		Logger:      logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *steps > 0 {
		if err := runner.StepN(ctx, *steps); err != nil {
			return err
		}
		stats := runner.Stats()
		slog.Info("finished",
			"steps", runner.Steps(),
			"water_mass", stats.TotalWaterMass,
			"energy", stats.TotalThermalEnergy,
			"mean_surface_temp", stats.MeanSurfaceTemperature,
			"ocean_fraction", stats.OceanFraction)
		return nil
	}

	srv := server.New(runner,
		settings.Server.Port,
		time.Duration(settings.Server.UpdateIntervalMs)*time.Millisecond,
		logger)

	errCh := make(chan error, 2)
	go func() { errCh <- runner.Run(ctx) }()
	go func() { errCh <- srv.Run(ctx) }()

	err = <-errCh
	stop()
	fmt.Println("\nShutting down...")
	return err
}
