package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/game/policy"
	"github.com/cory-johannsen/skirmish/internal/game/unit"
)

func shippedConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.LoadFromViper(config.NewViper())
	require.NoError(t, err)
	cfg.Army.Budget = 600
	cfg.Army.MaxUnitsPerType = 3
	cfg.Army.Seed = 7
	cfg.Content.UnitsDir = "../../content/units"
	cfg.Content.AIDir = "../../content/ai"
	cfg.Content.ScriptsDir = "../../content/scripts"
	return cfg
}

func TestSimulation_ShippedContentFightsToAFinish(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sim, err := newSimulation(shippedConfig(t), zap.New(core))
	require.NoError(t, err)
	defer sim.Close()

	for _, a := range []*unit.Army{sim.field.Player, sim.field.Computer} {
		require.NotEmpty(t, a.Units)
		assert.Equal(t, 3, countType(a, "warlord"), "warlords are the most attack-efficient type")
		assert.LessOrEqual(t, a.Cost(), 600)
		for _, u := range a.Units {
			require.NotNil(t, u.Policy, "unit %s has no policy", u.Name)
			if u.PolicyKind == unit.PolicyPlanned {
				assert.IsType(t, &policy.Planned{}, u.Policy)
			}
		}
	}

	res, err := sim.Run(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, battle.OutcomeUndecided, res.Outcome)
	assert.Positive(t, res.Rounds)
	assert.Len(t, res.Summaries, res.Rounds)
	assert.NotEmpty(t, logs.FilterMessage("attack").All())
	assert.Len(t, logs.FilterMessage("battle finished").All(), 1)
}

func TestSimulation_SameSeedSameBattle(t *testing.T) {
	run := func() battle.Result {
		sim, err := newSimulation(shippedConfig(t), zap.NewNop())
		require.NoError(t, err)
		defer sim.Close()
		res, err := sim.Run(context.Background())
		require.NoError(t, err)
		return res
	}
	first, second := run(), run()
	assert.Equal(t, first.Outcome, second.Outcome)
	assert.Equal(t, first.Rounds, second.Rounds)
	assert.Equal(t, first.Summaries, second.Summaries)
}

func TestSimulation_CancelledContext(t *testing.T) {
	sim, err := newSimulation(shippedConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer sim.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := sim.Run(ctx)
	assert.ErrorIs(t, err, battle.ErrSimulationCancelled)
	assert.Equal(t, battle.OutcomeUndecided, res.Outcome)
}

func TestSimulation_MissingUnitsDir(t *testing.T) {
	cfg := shippedConfig(t)
	cfg.Content.UnitsDir = t.TempDir() + "/missing"
	_, err := newSimulation(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestSimulation_PlannedUnitsNeedAIContent(t *testing.T) {
	cfg := shippedConfig(t)
	cfg.Content.AIDir = ""
	_, err := newSimulation(cfg, zap.NewNop())
	assert.ErrorContains(t, err, "no AI registry")
}

func countType(a *unit.Army, typ string) int {
	n := 0
	for _, u := range a.Units {
		if u.Type == typ {
			n++
		}
	}
	return n
}
