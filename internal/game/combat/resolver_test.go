package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/unit"
)

// fixedSource always returns val, clamped to [0, n).
type fixedSource struct{ val int }

func (f fixedSource) Intn(n int) int {
	if f.val >= n {
		return n - 1
	}
	return f.val
}

func newResolver(src dice.Source) *combat.Resolver {
	return combat.NewResolver(dice.NewLoggedRoller(src, zap.NewNop()), zap.NewNop())
}

func TestBaseDamage_AppliesBonuses(t *testing.T) {
	knight := &unit.Unit{Type: "knight", Attack: 20, AttackType: "melee",
		AttackBonuses: map[string]float64{"archer": 1.5}}
	archer := &unit.Unit{Type: "archer", Health: 50, DefenceBonuses: map[string]float64{"melee": 2}}
	pike := &unit.Unit{Type: "pikeman", Health: 50}

	assert.Equal(t, 15, combat.BaseDamage(knight, archer))
	assert.Equal(t, 20, combat.BaseDamage(knight, pike))
}

func TestBaseDamage_NeverBelowOne(t *testing.T) {
	weak := &unit.Unit{Type: "peasant", Attack: 1, AttackType: "melee"}
	wall := &unit.Unit{Type: "wall", DefenceBonuses: map[string]float64{"melee": 100}}
	assert.Equal(t, 1, combat.BaseDamage(weak, wall))
}

func TestResolve_MutatesTarget(t *testing.T) {
	attacker := &unit.Unit{ID: "a", Name: "a", Attack: 7}
	target := &unit.Unit{ID: "t", Name: "t", Health: 10, MaxHealth: 10}

	res := newResolver(fixedSource{}).Resolve(attacker, target)
	assert.Equal(t, 7, res.Damage)
	assert.Equal(t, 10, res.HealthBefore)
	assert.Equal(t, 3, res.HealthAfter)
	assert.Equal(t, 3, target.Health)
	assert.False(t, res.Killed)

	res = newResolver(fixedSource{}).Resolve(attacker, target)
	assert.True(t, res.Killed)
	assert.Equal(t, 0, target.Health)
}

func TestResolve_AddsDamageDice(t *testing.T) {
	attacker := &unit.Unit{ID: "a", Name: "a", Attack: 5, DamageDice: "2d4"}
	target := &unit.Unit{ID: "t", Name: "t", Health: 100, MaxHealth: 100}

	res := newResolver(fixedSource{val: 3}).Resolve(attacker, target)
	assert.Equal(t, []int{4, 4}, res.DamageRoll)
	assert.Equal(t, 13, res.Damage)
	assert.Equal(t, 87, target.Health)
}

func TestResolve_InvalidDiceLoggedAndIgnored(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := combat.NewResolver(dice.NewLoggedRoller(fixedSource{}, zap.NewNop()), zap.New(core))
	attacker := &unit.Unit{ID: "a", Name: "a", Attack: 5, DamageDice: "lots"}
	target := &unit.Unit{ID: "t", Name: "t", Health: 100, MaxHealth: 100}

	res := r.Resolve(attacker, target)
	assert.Equal(t, 5, res.Damage)
	require.Equal(t, 1, logs.FilterMessage("invalid damage dice ignored").Len())
}

func TestProperty_ResolveAlwaysReducesHealth(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		attack := rapid.IntRange(1, 100).Draw(rt, "attack")
		health := rapid.IntRange(1, 500).Draw(rt, "health")
		bonus := rapid.Float64Range(0.1, 5).Draw(rt, "bonus")
		defence := rapid.Float64Range(0.1, 50).Draw(rt, "defence")
		attacker := &unit.Unit{ID: "a", Attack: attack, AttackType: "melee",
			AttackBonuses: map[string]float64{"x": bonus}}
		target := &unit.Unit{ID: "t", Type: "x", Health: health, MaxHealth: health,
			DefenceBonuses: map[string]float64{"melee": defence}}

		res := newResolver(dice.NewSeededSource(1)).Resolve(attacker, target)
		assert.GreaterOrEqual(rt, res.Damage, 1)
		assert.Less(rt, target.Health, health)
		assert.Equal(rt, target.Health, res.HealthAfter)
		assert.Equal(rt, target.Health == 0, res.Killed)
	})
}
