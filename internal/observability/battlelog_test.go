package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/skirmish/internal/game/unit"
)

func TestBattleLog_LogAttack(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	bl := NewBattleLog(zap.New(core))

	attacker := &unit.Unit{Name: "Knight 1", Side: unit.SidePlayer, Health: 100, MaxHealth: 100}
	target := &unit.Unit{Name: "Archer 2", Side: unit.SideComputer, Health: 0, MaxHealth: 40}
	bl.LogAttack(attacker, target)

	entries := logs.FilterMessage("attack").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "battle", entries[0].LoggerName)

	fields := entries[0].ContextMap()
	assert.Equal(t, "Knight 1", fields["attacker"])
	assert.Equal(t, "player", fields["attacker_side"])
	assert.Equal(t, "Archer 2", fields["target"])
	assert.Equal(t, int64(0), fields["target_health"])
	assert.Equal(t, true, fields["killed"])
}
