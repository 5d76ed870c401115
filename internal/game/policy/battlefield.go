// Package policy implements the per-unit action policies driven by the battle
// scheduler, over a shared read-mostly view of the battlefield.
package policy

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/pathfind"
	"github.com/cory-johannsen/skirmish/internal/game/targeting"
	"github.com/cory-johannsen/skirmish/internal/game/unit"
)

// Battlefield is the state every policy consults: both armies, the path
// finder, the target selector, and the attack resolver.
//
// Invariant: Player.Side == SidePlayer and Computer.Side == SideComputer.
type Battlefield struct {
	Player   *unit.Army
	Computer *unit.Army
	Finder   *pathfind.Finder
	Selector targeting.Selector
	// Depth is the number of columns in each side's formation.
	Depth    int
	Resolver *combat.Resolver
	Logger   *zap.Logger
}

// NewBattlefield assembles a Battlefield. The selector treats each side's
// formation on its own: the player's front is its last row, the computer's its
// first. For depth 3 this is targeting.DefaultSelector.
//
// Precondition: every argument must be non-nil; depth >= 1.
func NewBattlefield(player, computer *unit.Army, finder *pathfind.Finder, resolver *combat.Resolver, depth int, logger *zap.Logger) *Battlefield {
	return &Battlefield{
		Player:   player,
		Computer: computer,
		Finder:   finder,
		Selector: targeting.NewSelector(depth-1, 0),
		Depth:    depth,
		Resolver: resolver,
		Logger:   logger,
	}
}

// Army returns the roster fighting for side.
func (b *Battlefield) Army(side unit.Side) *unit.Army {
	if side == unit.SidePlayer {
		return b.Player
	}
	return b.Computer
}

// AllUnits returns every unit of both armies, player first.
func (b *Battlefield) AllUnits() []*unit.Unit {
	all := make([]*unit.Unit, 0, len(b.Player.Units)+len(b.Computer.Units))
	all = append(all, b.Player.Units...)
	return append(all, b.Computer.Units...)
}

// UnitByID looks a unit up in both armies.
func (b *Battlefield) UnitByID(id string) *unit.Unit {
	if u := b.Player.ByID(id); u != nil {
		return u
	}
	return b.Computer.ByID(id)
}

// OriginX returns the first column of side's formation.
func (b *Battlefield) OriginX(side unit.Side) int {
	if side == unit.SidePlayer {
		return 0
	}
	return b.Finder.Grid().Width() - b.Depth
}

// EligibleTargets returns the living enemies of attacker that the selector
// currently allows to be attacked.
func (b *Battlefield) EligibleTargets(attacker *unit.Unit) []*unit.Unit {
	enemySide := attacker.Side.Opponent()
	rows := targeting.Rows(b.Army(enemySide).Units, b.OriginX(enemySide), b.Depth)
	return b.Selector.SuitableUnits(rows, enemySide == unit.SidePlayer)
}

// Strike resolves attacker's attack against target.
func (b *Battlefield) Strike(attacker, target *unit.Unit) combat.AttackResult {
	res := b.Resolver.Resolve(attacker, target)
	b.Logger.Debug("strike resolved",
		zap.String("attacker", attacker.Name),
		zap.String("target", target.Name),
		zap.Int("damage", res.Damage),
		zap.Int("health", res.HealthAfter),
		zap.Bool("killed", res.Killed),
	)
	return res
}
