package observability

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/unit"
)

// BattleLog writes one structured entry per completed attack.
type BattleLog struct {
	logger *zap.Logger
}

// NewBattleLog creates a BattleLog writing under the "battle" logger name.
//
// Precondition: logger must be non-nil.
func NewBattleLog(logger *zap.Logger) *BattleLog {
	return &BattleLog{logger: logger.Named("battle")}
}

// LogAttack records that attacker struck target. target's health is read
// after the attack has been applied.
func (b *BattleLog) LogAttack(attacker, target *unit.Unit) {
	b.logger.Info("attack",
		zap.String("attacker", attacker.Name),
		zap.String("attacker_side", attacker.Side.String()),
		zap.String("target", target.Name),
		zap.String("target_side", target.Side.String()),
		zap.Int("target_health", target.Health),
		zap.Bool("killed", !target.Alive()),
	)
}
