// Package unit defines battlefield units, the armies that own them, the YAML
// templates they are instantiated from, and the ActionPolicy capability the
// battle scheduler drives.
package unit

import (
	"context"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

// Side identifies which army a unit fights for.
type Side int

const (
	// SidePlayer deploys on the low-x edge of the battlefield.
	SidePlayer Side = iota
	// SideComputer deploys on the high-x edge of the battlefield.
	SideComputer
)

// String returns "player" or "computer".
func (s Side) String() string {
	if s == SidePlayer {
		return "player"
	}
	return "computer"
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SidePlayer {
		return SideComputer
	}
	return SidePlayer
}

// ActionPolicy selects and strikes a target on behalf of one unit.
//
// Attack returns the unit it struck, or nil when no eligible target exists.
// A non-nil error is logged by the caller and never aborts a battle.
type ActionPolicy interface {
	Attack(ctx context.Context) (*Unit, error)
}

// Unit is a live combatant on the battlefield.
//
// Invariant: Alive() ⇔ Health > 0. Position never changes during a battle.
type Unit struct {
	ID         string
	Name       string
	Type       string
	Side       Side
	Position   grid.Coord
	Health     int
	MaxHealth  int
	Attack     int
	Cost       int
	AttackType string
	// AttackBonuses multiplies damage by defender Type.
	AttackBonuses map[string]float64
	// DefenceBonuses divides incoming damage by attacker AttackType.
	DefenceBonuses map[string]float64
	DamageDice     string
	PolicyKind     string
	AIDomain       string
	Policy         ActionPolicy
}

// Alive reports whether the unit still has health.
func (u *Unit) Alive() bool {
	return u.Health > 0
}

// ApplyDamage reduces Health by dmg, flooring at zero.
//
// Precondition: dmg >= 0.
// Postcondition: Health >= 0.
func (u *Unit) ApplyDamage(dmg int) {
	u.Health -= dmg
	if u.Health < 0 {
		u.Health = 0
	}
}

// HealthPercent returns Health as a percentage of MaxHealth; 0 if MaxHealth is 0.
func (u *Unit) HealthPercent() float64 {
	if u.MaxHealth <= 0 {
		return 0
	}
	return float64(u.Health) / float64(u.MaxHealth) * 100
}

// AttackBonusAgainst returns the multiplier applied against defenderType; 1 when unset.
func (u *Unit) AttackBonusAgainst(defenderType string) float64 {
	if b, ok := u.AttackBonuses[defenderType]; ok && b > 0 {
		return b
	}
	return 1
}

// DefenceBonusAgainst returns the divisor applied to attackType damage; 1 when unset.
func (u *Unit) DefenceBonusAgainst(attackType string) float64 {
	if b, ok := u.DefenceBonuses[attackType]; ok && b > 0 {
		return b
	}
	return 1
}
