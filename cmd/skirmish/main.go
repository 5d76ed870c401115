// Package main provides the skirmish binary: it generates two armies from the
// unit content and fights them to a finish on a grid battlefield.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/observability"
)

// Exit codes.
const (
	exitOK      = 0
	exitAborted = 1
	exitSetup   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is the whole program; it returns the process exit code so that every
// deferred cleanup has finished before main exits.
func run(args []string, stdout, stderr io.Writer) int {
	start := time.Now()

	fs := flag.NewFlagSet("skirmish", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to configuration file; empty = built-in defaults")
	seed := fs.Int64("seed", 0, "army generation seed; 0 = use the configured seed")
	algorithm := fs.String("algorithm", "", "path search algorithm (dijkstra|astar); empty = use the configured algorithm")
	if err := fs.Parse(args); err != nil {
		return exitSetup
	}

	v := config.NewViper()
	if *configPath != "" {
		v.SetConfigFile(*configPath)
		if err := v.ReadInConfig(); err != nil {
			fmt.Fprintf(stderr, "reading config file: %v\n", err)
			return exitSetup
		}
	}
	if *seed != 0 {
		v.Set("army.seed", *seed)
	}
	if *algorithm != "" {
		v.Set("battle.algorithm", *algorithm)
	}
	cfg, err := config.LoadFromViper(v)
	if err != nil {
		fmt.Fprintf(stderr, "loading config: %v\n", err)
		return exitSetup
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "initializing logger: %v\n", err)
		return exitSetup
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting skirmish",
		zap.Int("grid_width", cfg.Battle.GridWidth),
		zap.Int("grid_height", cfg.Battle.GridHeight),
		zap.String("algorithm", cfg.Battle.Algorithm),
		zap.Int("budget", cfg.Army.Budget),
		zap.Int64("seed", cfg.Army.Seed),
	)

	sim, err := newSimulation(cfg, logger)
	if err != nil {
		logger.Error("preparing battle", zap.Error(err))
		return exitSetup
	}
	defer sim.Close()

	res, err := sim.Run(ctx)
	fmt.Fprintf(stdout, "outcome: %s after %d rounds (%d actions)\n", res.Outcome, res.Rounds, res.Actions)
	fmt.Fprintf(stdout, "survivors: player %d, computer %d\n", res.PlayerSurvivors, res.ComputerSurvivors)
	if err != nil {
		logger.Error("battle aborted", zap.Error(err))
		return exitAborted
	}
	logger.Info("skirmish finished", zap.Duration("elapsed", time.Since(start)))
	return exitOK
}
