package policy

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/unit"
)

// Melee strikes the nearest eligible enemy it has a path to.
type Melee struct {
	field *Battlefield
	self  *unit.Unit
}

// NewMelee binds a melee policy to self.
func NewMelee(field *Battlefield, self *unit.Unit) *Melee {
	return &Melee{field: field, self: self}
}

// Attack tries eligible enemies by increasing Chebyshev distance and strikes
// the first one a path reaches. Returns nil when every search comes back empty.
func (m *Melee) Attack(_ context.Context) (*unit.Unit, error) {
	candidates := m.field.EligibleTargets(m.self)
	origin := m.self.Position
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Position.Chebyshev(origin) < candidates[j].Position.Chebyshev(origin)
	})

	all := m.field.AllUnits()
	for _, target := range candidates {
		if path := m.field.Finder.FindPath(m.self, target, all); !path.Empty() {
			m.field.Logger.Debug("melee route",
				zap.String("unit", m.self.Name),
				zap.String("target", target.Name),
				zap.Int("steps", path.Steps()),
			)
			m.field.Strike(m.self, target)
			return target, nil
		}
	}
	return nil, nil
}

// Ranged strikes the eligible enemy with the lowest health percentage.
type Ranged struct {
	field *Battlefield
	self  *unit.Unit
}

// NewRanged binds a ranged policy to self.
func NewRanged(field *Battlefield, self *unit.Unit) *Ranged {
	return &Ranged{field: field, self: self}
}

// Attack strikes the weakest eligible enemy; ties keep roster order.
func (r *Ranged) Attack(_ context.Context) (*unit.Unit, error) {
	var target *unit.Unit
	for _, c := range r.field.EligibleTargets(r.self) {
		if target == nil || c.HealthPercent() < target.HealthPercent() {
			target = c
		}
	}
	if target == nil {
		return nil, nil
	}
	r.field.Strike(r.self, target)
	return target, nil
}

// Planned asks an HTN planner what to do and executes the first attack it plans.
type Planned struct {
	field   *Battlefield
	self    *unit.Unit
	planner *ai.Planner
}

// NewPlanned binds a planner-driven policy to self.
//
// Precondition: planner must not be nil.
func NewPlanned(field *Battlefield, self *unit.Unit, planner *ai.Planner) *Planned {
	return &Planned{field: field, self: self, planner: planner}
}

// Attack plans against a fresh world-state snapshot. A planned target the
// selector does not currently allow, or one no path reaches, is treated as no
// target.
func (p *Planned) Attack(_ context.Context) (*unit.Unit, error) {
	ws := ai.BuildWorldState(p.self, p.field.Player, p.field.Computer)
	actions, err := p.planner.Plan(ws)
	if err != nil {
		return nil, fmt.Errorf("policy.Planned: %s: %w", p.self.Name, err)
	}

	for _, action := range actions {
		switch action.Action {
		case ai.ActionPass:
			return nil, nil
		case ai.ActionAttack:
			target := p.eligible(action.Target)
			if target == nil {
				p.field.Logger.Debug("planned target not eligible",
					zap.String("unit", p.self.Name),
					zap.String("target", action.Target),
				)
				return nil, nil
			}
			if path := p.field.Finder.FindPath(p.self, target, p.field.AllUnits()); path.Empty() {
				return nil, nil
			}
			p.field.Strike(p.self, target)
			return target, nil
		}
	}
	return nil, nil
}

func (p *Planned) eligible(uid string) *unit.Unit {
	if uid == "" {
		return nil
	}
	for _, u := range p.field.EligibleTargets(p.self) {
		if u.ID == uid {
			return u
		}
	}
	return nil
}
