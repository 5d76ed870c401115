package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/army"
	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/pathfind"
	"github.com/cory-johannsen/skirmish/internal/game/policy"
	"github.com/cory-johannsen/skirmish/internal/game/unit"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

// simulation is a fully wired battle ready to run.
type simulation struct {
	field     *policy.Battlefield
	scheduler *battle.Scheduler
	scripts   *scripting.Manager
}

// newSimulation loads content, generates both armies, and binds policies.
//
// Postcondition: on success the caller must call Close.
func newSimulation(cfg config.Config, logger *zap.Logger) (*simulation, error) {
	src := dice.NewSource(cfg.Army.Seed)
	roller := dice.NewLoggedRoller(src, logger)

	templates, err := unit.LoadTemplates(cfg.Content.UnitsDir)
	if err != nil {
		return nil, fmt.Errorf("loading unit templates: %w", err)
	}
	logger.Info("loaded unit templates", zap.Int("count", len(templates)))

	algo, err := pathfind.ParseAlgorithm(cfg.Battle.Algorithm)
	if err != nil {
		return nil, err
	}
	g, err := grid.New(cfg.Battle.GridWidth, cfg.Battle.GridHeight)
	if err != nil {
		return nil, err
	}

	gen := army.NewGenerator(cfg.Army, cfg.Battle.GridWidth, src, logger)
	player, _, err := gen.Generate(templates, cfg.Army.Budget, unit.SidePlayer)
	if err != nil {
		return nil, fmt.Errorf("generating player army: %w", err)
	}
	computer, _, err := gen.Generate(templates, cfg.Army.Budget, unit.SideComputer)
	if err != nil {
		return nil, fmt.Errorf("generating computer army: %w", err)
	}

	field := policy.NewBattlefield(player, computer,
		pathfind.NewFinder(g, algo, logger),
		combat.NewResolver(roller, logger),
		cfg.Army.FieldDepth, logger)

	sim := &simulation{field: field}
	registry, err := sim.loadAI(cfg.Content, roller, logger)
	if err != nil {
		sim.Close()
		return nil, err
	}
	for _, a := range []*unit.Army{player, computer} {
		if err := policy.Assign(field, a, registry); err != nil {
			sim.Close()
			return nil, err
		}
	}

	sim.scheduler = battle.NewScheduler(observability.NewBattleLog(logger), logger,
		battle.WithActionDelay(cfg.Battle.ActionDelay),
		battle.WithMaxRounds(cfg.Battle.MaxRounds),
	)
	return sim, nil
}

// loadAI loads every HTN domain and the Lua preconditions behind them. Global
// scripts live directly in ScriptsDir; a subdirectory named after a domain
// gets its own VM. Returns a nil registry when AIDir is empty.
func (s *simulation) loadAI(cfg config.ContentConfig, roller *dice.Roller, logger *zap.Logger) (*ai.Registry, error) {
	if cfg.AIDir == "" {
		return nil, nil
	}
	start := time.Now()

	s.scripts = scripting.NewManager(roller, logger)
	policy.BindScripting(s.scripts, s.field)
	if cfg.ScriptsDir != "" {
		if err := s.scripts.LoadGlobal(cfg.ScriptsDir, cfg.ScriptInstructionLimit); err != nil {
			return nil, fmt.Errorf("loading AI scripts: %w", err)
		}
	}

	domains, err := ai.LoadDomains(cfg.AIDir)
	if err != nil {
		return nil, fmt.Errorf("loading AI domains: %w", err)
	}
	registry := ai.NewRegistry()
	for _, d := range domains {
		if cfg.ScriptsDir != "" {
			dir := filepath.Join(cfg.ScriptsDir, d.ID)
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				if err := s.scripts.LoadScope(d.ID, dir, cfg.ScriptInstructionLimit); err != nil {
					return nil, fmt.Errorf("loading scripts for AI domain %q: %w", d.ID, err)
				}
			}
		}
		if err := registry.Register(d, s.scripts); err != nil {
			return nil, err
		}
	}
	logger.Info("AI domains loaded",
		zap.Int("count", registry.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return registry, nil
}

// Run fights the battle to completion or cancellation.
func (s *simulation) Run(ctx context.Context) (battle.Result, error) {
	return s.scheduler.Simulate(ctx, s.field.Player, s.field.Computer)
}

// Close releases the Lua VMs.
func (s *simulation) Close() {
	if s.scripts != nil {
		s.scripts.Close()
	}
}
