package policy

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/unit"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

// Assign binds an ActionPolicy to every unit of army from its PolicyKind.
// Unknown or empty kinds get Melee.
//
// Precondition: registry may be nil only if no unit uses the planned policy.
// Postcondition: on success every unit has a non-nil Policy.
func Assign(field *Battlefield, army *unit.Army, registry *ai.Registry) error {
	for _, u := range army.Units {
		switch u.PolicyKind {
		case unit.PolicyRanged:
			u.Policy = NewRanged(field, u)
		case unit.PolicyPlanned:
			if registry == nil {
				return fmt.Errorf("policy.Assign: %s: no AI registry for domain %q", u.Name, u.AIDomain)
			}
			planner, ok := registry.PlannerFor(u.AIDomain)
			if !ok {
				return fmt.Errorf("policy.Assign: %s: unknown AI domain %q", u.Name, u.AIDomain)
			}
			u.Policy = NewPlanned(field, u, planner)
		default:
			u.Policy = NewMelee(field, u)
		}
	}
	return nil
}

// BindScripting exposes field to Lua through mgr's engine.unit callbacks.
func BindScripting(mgr *scripting.Manager, field *Battlefield) {
	mgr.GetUnit = func(uid string) *scripting.UnitInfo {
		if u := field.UnitByID(uid); u != nil {
			return unitInfo(u)
		}
		return nil
	}
	mgr.EnemiesOf = func(uid string) []*scripting.UnitInfo {
		u := field.UnitByID(uid)
		if u == nil {
			return nil
		}
		var out []*scripting.UnitInfo
		for _, e := range field.Army(u.Side.Opponent()).Living() {
			out = append(out, unitInfo(e))
		}
		return out
	}
}

func unitInfo(u *unit.Unit) *scripting.UnitInfo {
	return &scripting.UnitInfo{
		UID:       u.ID,
		Name:      u.Name,
		Type:      u.Type,
		Side:      u.Side.String(),
		Health:    u.Health,
		MaxHealth: u.MaxHealth,
		Attack:    u.Attack,
		X:         u.Position.X,
		Y:         u.Position.Y,
	}
}
