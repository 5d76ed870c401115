// Package combat resolves a single unit's attack against another: damage
// scaled by type bonuses, an optional dice variance, and health mutation.
package combat

import (
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/unit"
)

// AttackResult holds the outcome of a single attack action.
type AttackResult struct {
	AttackerID string
	TargetID   string
	// BaseDamage is Attack scaled by the attack and defence bonuses, before dice.
	BaseDamage int
	// DamageRoll holds the individual die values; nil without DamageDice.
	DamageRoll []int
	// Damage is the total applied to the target.
	Damage       int
	HealthBefore int
	HealthAfter  int
	Killed       bool
}

// Resolver applies attacks between units.
type Resolver struct {
	roller *dice.Roller
	logger *zap.Logger
}

// NewResolver creates a Resolver.
//
// Precondition: roller and logger must be non-nil.
func NewResolver(roller *dice.Roller, logger *zap.Logger) *Resolver {
	return &Resolver{roller: roller, logger: logger}
}

// BaseDamage returns max(1, round(Attack × attack bonus ÷ defence bonus)).
//
// Postcondition: Returns >= 1.
func BaseDamage(attacker, target *unit.Unit) int {
	scaled := float64(attacker.Attack) *
		attacker.AttackBonusAgainst(target.Type) /
		target.DefenceBonusAgainst(attacker.AttackType)
	return max(1, int(math.Round(scaled)))
}

// Resolve strikes target on behalf of attacker and mutates target's health.
//
// Precondition: attacker and target must be non-nil; target must be alive.
// Postcondition: result.Damage >= 1; target.Health == result.HealthAfter.
func (r *Resolver) Resolve(attacker, target *unit.Unit) AttackResult {
	res := AttackResult{
		AttackerID:   attacker.ID,
		TargetID:     target.ID,
		BaseDamage:   BaseDamage(attacker, target),
		HealthBefore: target.Health,
	}
	res.Damage = res.BaseDamage

	if attacker.DamageDice != "" {
		roll, err := r.roller.RollExpr(attacker.DamageDice)
		if err != nil {
			r.logger.Warn("invalid damage dice ignored",
				zap.String("unit", attacker.Name),
				zap.String("dice", attacker.DamageDice),
				zap.Error(err),
			)
		} else {
			res.DamageRoll = roll.Dice
			res.Damage = max(1, res.Damage+roll.Total())
		}
	}

	target.ApplyDamage(res.Damage)
	res.HealthAfter = target.Health
	res.Killed = !target.Alive()
	return res
}
