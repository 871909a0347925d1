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

	"github.com/Versifine/stride/internal/config"
	"github.com/Versifine/stride/internal/debug"
	"github.com/Versifine/stride/internal/logger"
	"github.com/Versifine/stride/internal/physics"
	"golang.org/x/term"
)

const defaultConfigPath = "configs/stride.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to the YAML config")
	ticks := flag.Int("ticks", 0, "run this many ticks headless and exit (0 opens the console)")
	scriptName := flag.String("script", "walk-stairs", fmt.Sprintf("headless input script %v", scriptNames()))
	footsteps := flag.String("footsteps", "", "write the footstep track to this WAV file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	if *footsteps != "" {
		cfg.Audio.FootstepsWAV = *footsteps
	}

	sim, err := newSimulation(cfg, logger.For("sim"))
	if err != nil {
		slog.Error("Failed to set up controller", "error", err)
		os.Exit(1)
	}
	slog.Info("Level loaded", "level", sim.level.Name, "boxes", len(sim.level.Boxes), "preset", cfg.Preset)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *ticks > 0 {
		script, err := lookupScript(*scriptName)
		if err != nil {
			slog.Error("Failed to start headless run", "error", err)
			os.Exit(1)
		}
		r := sim.runScript(script, *ticks)
		slog.Info("Headless run finished",
			"script", *scriptName,
			"ticks", *ticks,
			"posture", r.Posture.String(),
			"gait", r.Gait.String(),
			"position", fmt.Sprintf("(%.3f, %.3f, %.3f)", r.Position.X, r.Position.Y, r.Position.Z),
			"grounded", r.Grounded,
			"yaw_deg", physics.RadToDeg(r.Look.Yaw),
			"footsteps", sim.track.Len(),
			"cues", sim.cues,
		)
	} else {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			slog.Error("No terminal on stdin, use -ticks for a headless run")
			os.Exit(1)
		}
		console := debug.NewConsole(sim.ctrl, sim.delta)
		if err := console.Start(ctx); err != nil {
			slog.Error("Console stopped", "error", err)
			os.Exit(1)
		}
	}

	if cfg.Audio.FootstepsWAV != "" {
		if err := sim.track.SaveWAV(cfg.Audio.FootstepsWAV); err != nil {
			slog.Error("Failed to write footsteps", "error", err)
			os.Exit(1)
		}
		slog.Info("Footsteps written", "file", cfg.Audio.FootstepsWAV, "steps", sim.track.Len())
	}
}

// loadConfig falls back to the defaults when the default config file is
// absent. An explicit path must exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if path != defaultConfigPath || !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	cfg = config.Default()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
