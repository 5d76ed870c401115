package ai

import (
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/unit"
)

// UnitState captures a unit's state at planning time.
type UnitState struct {
	UID       string
	Name      string
	Type      string
	Side      unit.Side
	Health    int
	MaxHealth int
	Attack    int
	Position  grid.Coord
}

// Dead reports whether the unit had no health when the snapshot was taken.
func (u *UnitState) Dead() bool { return u.Health <= 0 }

// HealthPercent returns Health as a percentage of MaxHealth; 0 if MaxHealth == 0.
func (u *UnitState) HealthPercent() float64 {
	if u.MaxHealth <= 0 {
		return 0
	}
	return float64(u.Health) / float64(u.MaxHealth) * 100
}

// WorldState is the snapshot passed to the planner for one acting unit.
//
// Invariant: Self must not be nil.
type WorldState struct {
	Self  *UnitState
	Units []*UnitState
}

// BuildWorldState snapshots self and every unit of armies.
//
// Precondition: self must not be nil.
func BuildWorldState(self *unit.Unit, armies ...*unit.Army) *WorldState {
	ws := &WorldState{Self: snapshot(self)}
	for _, a := range armies {
		for _, u := range a.Units {
			ws.Units = append(ws.Units, snapshot(u))
		}
	}
	return ws
}

func snapshot(u *unit.Unit) *UnitState {
	return &UnitState{
		UID:       u.ID,
		Name:      u.Name,
		Type:      u.Type,
		Side:      u.Side,
		Health:    u.Health,
		MaxHealth: u.MaxHealth,
		Attack:    u.Attack,
		Position:  u.Position,
	}
}

// Enemies returns all living units on the other side from Self, in snapshot order.
func (ws *WorldState) Enemies() []*UnitState {
	var out []*UnitState
	for _, u := range ws.Units {
		if !u.Dead() && u.Side != ws.Self.Side {
			out = append(out, u)
		}
	}
	return out
}

// Allies returns all living units on Self's side, excluding Self.
func (ws *WorldState) Allies() []*UnitState {
	var out []*UnitState
	for _, u := range ws.Units {
		if !u.Dead() && u.Side == ws.Self.Side && u.UID != ws.Self.UID {
			out = append(out, u)
		}
	}
	return out
}

// NearestEnemy returns the living enemy with the smallest Chebyshev distance
// from Self; ties keep snapshot order.
func (ws *WorldState) NearestEnemy() *UnitState {
	return ws.bestEnemy(func(a, b *UnitState) bool {
		return a.Position.Chebyshev(ws.Self.Position) < b.Position.Chebyshev(ws.Self.Position)
	})
}

// WeakestEnemy returns the living enemy with the lowest health percentage.
func (ws *WorldState) WeakestEnemy() *UnitState {
	return ws.bestEnemy(func(a, b *UnitState) bool { return a.HealthPercent() < b.HealthPercent() })
}

// StrongestEnemy returns the living enemy with the highest attack.
func (ws *WorldState) StrongestEnemy() *UnitState {
	return ws.bestEnemy(func(a, b *UnitState) bool { return a.Attack > b.Attack })
}

func (ws *WorldState) bestEnemy(better func(a, b *UnitState) bool) *UnitState {
	var best *UnitState
	for _, e := range ws.Enemies() {
		if best == nil || better(e, best) {
			best = e
		}
	}
	return best
}

// ResolveTarget maps a target token to a unit UID.
//
// Postcondition: enemy tokens resolve to a UID or "" when no enemy lives;
// "self" resolves to Self.UID; any other token is returned unchanged.
func (ws *WorldState) ResolveTarget(token string) string {
	var u *UnitState
	switch token {
	case TargetNearestEnemy:
		u = ws.NearestEnemy()
	case TargetWeakestEnemy:
		u = ws.WeakestEnemy()
	case TargetStrongestEnemy:
		u = ws.StrongestEnemy()
	case "self":
		return ws.Self.UID
	default:
		return token
	}
	if u == nil {
		return ""
	}
	return u.UID
}
