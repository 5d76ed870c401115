package ai_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/ai"
)

func TestDomain_Validate_AcceptsKnightDomain(t *testing.T) {
	require.NoError(t, knightDomain().Validate())
}

func TestDomain_Validate_Rejects(t *testing.T) {
	cases := map[string]func(d *ai.Domain){
		"empty id":          func(d *ai.Domain) { d.ID = "" },
		"no tasks":          func(d *ai.Domain) { d.Tasks = nil },
		"missing root":      func(d *ai.Domain) { d.Root = "nope" },
		"duplicate task":    func(d *ai.Domain) { d.Tasks = append(d.Tasks, &ai.Task{ID: "fight"}) },
		"duplicate op":      func(d *ai.Domain) { d.Operators = append(d.Operators, &ai.Operator{ID: "do_pass", Action: "pass"}) },
		"unknown action":    func(d *ai.Domain) { d.Operators[0].Action = "flee" },
		"unknown task ref":  func(d *ai.Domain) { d.Methods[0].TaskID = "dance" },
		"unknown subtask":   func(d *ai.Domain) { d.Methods[0].Subtasks = []string{"dance"} },
		"empty subtasks":    func(d *ai.Domain) { d.Methods[0].Subtasks = nil },
		"empty method id":   func(d *ai.Domain) { d.Methods[1].ID = "" },
		"empty method task": func(d *ai.Domain) { d.Methods[1].TaskID = "" },
	}
	for name, mutate := range cases {
		d := knightDomain()
		mutate(d)
		assert.Error(t, d.Validate(), name)
	}
}

func TestDomain_Lookups(t *testing.T) {
	d := knightDomain()
	op, ok := d.OperatorByID("hit_weakest")
	require.True(t, ok)
	assert.Equal(t, ai.TargetWeakestEnemy, op.Target)
	_, ok = d.OperatorByID("missing")
	assert.False(t, ok)

	methods := d.MethodsForTask("behave")
	require.Len(t, methods, 2)
	assert.Equal(t, "combat_mode", methods[0].ID)
	assert.Equal(t, "behave", d.RootTask())
}

const archerDomainYAML = `
domain:
  id: archer_ai
  tasks:
    - id: behave
  methods:
    - task: behave
      id: snipe
      precondition: has_targets
      subtasks: [shoot_weakest]
    - task: behave
      id: idle
      subtasks: [wait]
  operators:
    - id: shoot_weakest
      action: attack
      target: weakest_enemy
    - id: wait
      action: pass
`

func TestLoadDomains(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "archer.yaml"), []byte(archerDomainYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644))

	domains, err := ai.LoadDomains(dir)
	require.NoError(t, err)
	require.Len(t, domains, 1)
	assert.Equal(t, "archer_ai", domains[0].ID)
	assert.Len(t, domains[0].Methods, 2)
}

func TestLoadDomains_MissingKeyAndBadYAML(t *testing.T) {
	_, err := ai.LoadDomainFromBytes([]byte("id: x\n"))
	assert.ErrorContains(t, err, "missing top-level 'domain' key")

	_, err = ai.LoadDomainFromBytes([]byte("domain: [unclosed"))
	assert.Error(t, err)

	_, err = ai.LoadDomains("/nonexistent/ai")
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	r := ai.NewRegistry()
	require.NoError(t, r.Register(knightDomain(), &mockScriptCaller{}))
	assert.Error(t, r.Register(knightDomain(), &mockScriptCaller{}))
	p, ok := r.PlannerFor("knight_ai")
	require.True(t, ok)
	assert.Equal(t, "knight_ai", p.Domain().ID)
	_, ok = r.PlannerFor("unknown")
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestProperty_DomainWithUnknownSubtaskRejected(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.StringMatching(`x[a-z]{3,8}`).Draw(rt, "subtask")
		d := knightDomain()
		d.Methods = append(d.Methods, &ai.Method{TaskID: "fight", ID: fmt.Sprintf("m_%s", name), Subtasks: []string{name}})
		assert.Error(rt, d.Validate())
	})
}
