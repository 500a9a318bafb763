// Package main is the entry point for the headless climb simulator.
package main

import (
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-climb/internal/config"
	"github.com/Faultbox/midgard-climb/internal/game"
	"github.com/Faultbox/midgard-climb/internal/logger"
	"github.com/Faultbox/midgard-climb/internal/scene"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if path := config.WriteConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if cfg.Sim.Scene == "" {
		fmt.Fprintln(os.Stderr, "usage: climbsim -scene scene.yaml [-config path] [-debug] [-ticks N] [-write-config path]")
		os.Exit(2)
	}

	// Initialize logger
	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, cfg.Logging.Console); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Midgard Climb Simulator ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	sc, err := scene.Load(cfg.Sim.Scene)
	if err != nil {
		logger.Error("failed to load scene", zap.Error(err))
		os.Exit(1)
	}

	g, err := game.New(cfg, sc, logger.Log)
	if err != nil {
		logger.Error("failed to create simulation", zap.Error(err))
		os.Exit(1)
	}

	s, err := g.Run()
	if err != nil {
		logger.Error("simulation error", zap.Error(err))
		os.Exit(1)
	}

	printSummary(s)
}

func printSummary(s game.Summary) {
	fmt.Printf("ticks:       %d\n", s.Ticks)
	fmt.Printf("state:       %v\n", s.State)
	fmt.Printf("position:    (%.3f, %.3f, %.3f)\n", s.Position.X, s.Position.Y, s.Position.Z)
	fmt.Printf("grounded:    %v\n", s.Grounded)
	fmt.Printf("stamina:     %.1f / %.1f\n", s.Stamina.Current, s.Stamina.Max)
	fmt.Printf("transitions: %d\n", s.Transitions)

	kinds := make([]string, 0, len(s.Events))
	counts := make(map[string]int, len(s.Events))
	for k, n := range s.Events {
		kinds = append(kinds, k.String())
		counts[k.String()] = n
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Printf("event %-16s %d\n", k+":", counts[k])
	}
}
