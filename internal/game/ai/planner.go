package ai

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// maxPlanSteps bounds decomposition to guard against recursive domains.
const maxPlanSteps = 32

// ScriptCaller is the interface required by the Planner to evaluate Lua preconditions.
type ScriptCaller interface {
	// CallHook calls a named Lua function in the given scope's VM.
	// Returns (LNil, nil) if the function is not defined.
	CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error)
}

// PlannedAction is one primitive action produced by the planner.
type PlannedAction struct {
	Action string
	// Target is a unit UID; empty for pass or when no target resolved.
	Target string
}

// Planner evaluates an HTN domain for one unit archetype.
//
// Invariant: domain and caller are non-nil.
type Planner struct {
	domain *Domain
	caller ScriptCaller
	scope  string
}

// NewPlanner constructs a Planner whose preconditions run in scope.
//
// Precondition: domain and caller must not be nil.
func NewPlanner(domain *Domain, caller ScriptCaller, scope string) *Planner {
	if domain == nil {
		panic("ai.NewPlanner: domain must not be nil")
	}
	if caller == nil {
		panic("ai.NewPlanner: caller must not be nil")
	}
	return &Planner{domain: domain, caller: caller, scope: scope}
}

// Domain returns the planner's domain.
func (p *Planner) Domain() *Domain { return p.domain }

// Plan decomposes the domain's root task against state.
//
// Precondition: state and state.Self must not be nil.
// Postcondition: returns a non-nil slice; Lua failures count as a false precondition.
func (p *Planner) Plan(state *WorldState) ([]PlannedAction, error) {
	if state == nil || state.Self == nil {
		return nil, fmt.Errorf("ai.Planner.Plan: state and state.Self must not be nil")
	}

	queue := []string{p.domain.RootTask()}
	result := []PlannedAction{}

	for steps := 0; len(queue) > 0 && steps < maxPlanSteps; steps++ {
		current := queue[0]
		queue = queue[1:]

		if op, ok := p.domain.OperatorByID(current); ok {
			result = append(result, PlannedAction{Action: op.Action, Target: state.ResolveTarget(op.Target)})
			continue
		}

		method := p.findApplicableMethod(current, state)
		if method == nil {
			continue
		}
		queue = append(append([]string{}, method.Subtasks...), queue...)
	}
	return result, nil
}

// findApplicableMethod returns the first method for taskID whose precondition
// passes, trying methods in declaration order.
func (p *Planner) findApplicableMethod(taskID string, state *WorldState) *Method {
	for _, m := range p.domain.MethodsForTask(taskID) {
		if m.Precondition == "" {
			return m
		}
		val, err := p.caller.CallHook(p.scope, m.Precondition, lua.LString(state.Self.UID))
		if err == nil && val == lua.LTrue {
			return m
		}
	}
	return nil
}
