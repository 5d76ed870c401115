package army_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/army"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/unit"
)

func armyConfig() config.ArmyConfig {
	return config.ArmyConfig{
		Budget:              1500,
		MaxUnitsPerType:     11,
		MaxPlacementRetries: 100,
		FieldDepth:          3,
		FieldSpan:           21,
	}
}

func templates() []*unit.Template {
	return []*unit.Template{
		{Type: "knight", Health: 100, Attack: 20, Cost: 100},
		{Type: "archer", Health: 30, Attack: 8, Cost: 30, Policy: unit.PolicyRanged},
		{Type: "swordsman", Health: 50, Attack: 12, Cost: 40},
		{Type: "pikeman", Health: 45, Attack: 10, Cost: 40},
	}
}

func newGenerator(seed int64) *army.Generator {
	return army.NewGenerator(armyConfig(), 27, dice.NewSeededSource(seed), zap.NewNop())
}

func TestGenerate_PrefersAttackEfficiencyThenHealth(t *testing.T) {
	// swordsman 0.3 atk/cost beats pikeman 0.25; archer 0.2667; knight 0.2.
	a, report, err := newGenerator(1).Generate(templates(), 40*3, unit.SidePlayer)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Placed["swordsman"])
	assert.Len(t, a.Units, 3)
	assert.Equal(t, 120, report.Spent)
	assert.Equal(t, 0, report.Remaining())
}

func TestGenerate_TieBrokenByHealthPerCost(t *testing.T) {
	tmpls := []*unit.Template{
		{Type: "frail", Health: 10, Attack: 5, Cost: 10},
		{Type: "sturdy", Health: 20, Attack: 5, Cost: 10},
	}
	a, _, err := newGenerator(3).Generate(tmpls, 10, unit.SidePlayer)
	require.NoError(t, err)
	require.Len(t, a.Units, 1)
	assert.Equal(t, "sturdy", a.Units[0].Type)
}

func TestGenerate_CapsPerTypeAndNamesUnits(t *testing.T) {
	a, report, err := newGenerator(2).Generate(templates(), 100000, unit.SidePlayer)
	require.NoError(t, err)
	for _, tmpl := range templates() {
		assert.Equal(t, 11, report.Placed[tmpl.Type], tmpl.Type)
		assert.Equal(t, army.ReasonTypeCap, report.Exhausted[tmpl.Type])
	}
	assert.Len(t, a.Units, 44)
	assert.Equal(t, "swordsman 1", a.Units[0].Name)
	assert.Equal(t, "swordsman 11", a.Units[10].Name)
}

func TestGenerate_SkipsUnaffordableTypes(t *testing.T) {
	tmpls := []*unit.Template{
		{Type: "dragon", Health: 500, Attack: 400, Cost: 1000},
		{Type: "militia", Health: 5, Attack: 1, Cost: 10},
	}
	a, report, err := newGenerator(4).Generate(tmpls, 35, unit.SideComputer)
	require.NoError(t, err)
	assert.Equal(t, army.ReasonBudget, report.Exhausted["dragon"])
	assert.Equal(t, 3, report.Placed["militia"])
	assert.Equal(t, 5, report.Remaining())
	assert.Equal(t, unit.SideComputer, a.Side)
}

func TestGenerate_ComputerDeploysOnFarEdge(t *testing.T) {
	g := newGenerator(5)
	a, _, err := g.Generate(templates(), 1500, unit.SideComputer)
	require.NoError(t, err)
	require.NotEmpty(t, a.Units)
	assert.Equal(t, 24, g.OriginX(unit.SideComputer))
	for _, u := range a.Units {
		assert.GreaterOrEqual(t, u.Position.X, 24)
		assert.Less(t, u.Position.X, 27)
	}
}

func TestGenerate_NoFreeCellExhaustsType(t *testing.T) {
	cfg := armyConfig()
	cfg.FieldDepth = 1
	cfg.FieldSpan = 2
	g := army.NewGenerator(cfg, 27, dice.NewSeededSource(6), zap.NewNop())
	tmpls := []*unit.Template{{Type: "militia", Health: 5, Attack: 1, Cost: 1}}

	a, report, err := g.Generate(tmpls, 50, unit.SidePlayer)
	require.NoError(t, err)
	assert.Len(t, a.Units, 2)
	assert.Equal(t, army.ReasonNoFreeCell, report.Exhausted["militia"])
}

func TestGenerate_Rejects(t *testing.T) {
	_, _, err := newGenerator(1).Generate(templates(), -1, unit.SidePlayer)
	assert.ErrorIs(t, err, army.ErrNegativeBudget)

	_, _, err = newGenerator(1).Generate([]*unit.Template{{Type: "free", Health: 1, Attack: 1}}, 10, unit.SidePlayer)
	assert.Error(t, err)
}

func TestGenerate_EmptyInputs(t *testing.T) {
	a, report, err := newGenerator(1).Generate(nil, 100, unit.SidePlayer)
	require.NoError(t, err)
	assert.Empty(t, a.Units)
	assert.Equal(t, 100, report.Remaining())

	a, _, err = newGenerator(1).Generate(templates(), 0, unit.SidePlayer)
	require.NoError(t, err)
	assert.Empty(t, a.Units)
}

func TestProperty_GenerateInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		budget := rapid.IntRange(0, 5000).Draw(rt, "budget")
		side := unit.Side(rapid.IntRange(0, 1).Draw(rt, "side"))
		n := rapid.IntRange(1, 6).Draw(rt, "types")
		var tmpls []*unit.Template
		for i := 0; i < n; i++ {
			tmpls = append(tmpls, &unit.Template{
				Type:   string(rune('a' + i)),
				Health: rapid.IntRange(1, 200).Draw(rt, "health"),
				Attack: rapid.IntRange(1, 50).Draw(rt, "attack"),
				Cost:   rapid.IntRange(1, 300).Draw(rt, "cost"),
			})
		}

		g := newGenerator(seed)
		a, report, err := g.Generate(tmpls, budget, side)
		require.NoError(rt, err)

		assert.LessOrEqual(rt, a.Cost(), budget)
		assert.Equal(rt, a.Cost(), report.Spent)
		perType := map[string]int{}
		cells := map[grid.Coord]bool{}
		ids := map[string]bool{}
		origin := g.OriginX(side)
		for _, u := range a.Units {
			perType[u.Type]++
			assert.False(rt, cells[u.Position], "cell %s reused", u.Position)
			cells[u.Position] = true
			assert.False(rt, ids[u.ID], "duplicate id")
			ids[u.ID] = true
			assert.GreaterOrEqual(rt, u.Position.X, origin)
			assert.Less(rt, u.Position.X, origin+3)
			assert.GreaterOrEqual(rt, u.Position.Y, 0)
			assert.Less(rt, u.Position.Y, 21)
			assert.Equal(rt, side, u.Side)
		}
		for typ, c := range perType {
			assert.LessOrEqual(rt, c, 11, typ)
		}

		again, _, err := newGenerator(seed).Generate(tmpls, budget, side)
		require.NoError(rt, err)
		require.Len(rt, again.Units, len(a.Units))
		for i := range a.Units {
			assert.Equal(rt, a.Units[i].Name, again.Units[i].Name)
			assert.Equal(rt, a.Units[i].Position, again.Units[i].Position)
		}
	})
}
