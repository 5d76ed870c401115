// Package ai implements the Hierarchical Task Network (HTN) planner behind the
// planned action policy.
//
// HTN planning decomposes abstract tasks into primitive operators via ordered
// methods. Method preconditions are Lua hooks; operators map to unit actions.
package ai

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// RootTask is the task every plan starts from unless a domain overrides it.
const RootTask = "behave"

// Primitive actions an operator may emit.
const (
	ActionAttack = "attack"
	ActionPass   = "pass"
)

// Target tokens resolved against a WorldState.
const (
	TargetNearestEnemy   = "nearest_enemy"
	TargetWeakestEnemy   = "weakest_enemy"
	TargetStrongestEnemy = "strongest_enemy"
)

// Task is an abstract goal that can be decomposed by methods.
type Task struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
}

// Method decomposes a task into an ordered list of subtasks or operator IDs.
//
// Precondition names a Lua function taking the acting unit's UID; empty means
// always applicable.
type Method struct {
	TaskID       string   `yaml:"task"`
	ID           string   `yaml:"id"`
	Precondition string   `yaml:"precondition"`
	Subtasks     []string `yaml:"subtasks"`
}

// Operator is a primitive action.
type Operator struct {
	ID     string `yaml:"id"`
	Action string `yaml:"action"`
	Target string `yaml:"target"`
}

// Domain holds the full HTN domain loaded from a YAML file.
//
// Invariant: all Task, Method, and Operator IDs are unique within their slice.
type Domain struct {
	ID          string      `yaml:"id"`
	Description string      `yaml:"description"`
	Root        string      `yaml:"root"`
	Tasks       []*Task     `yaml:"tasks"`
	Methods     []*Method   `yaml:"methods"`
	Operators   []*Operator `yaml:"operators"`
}

// RootTask returns the task planning starts from.
func (d *Domain) RootTask() string {
	if d.Root == "" {
		return RootTask
	}
	return d.Root
}

// Validate checks required fields, uniqueness, and cross-references.
//
// Postcondition: nil return guarantees the root task exists, every method
// references a known task, every subtask is a task or operator, and every
// operator emits a known action.
func (d *Domain) Validate() error {
	if d.ID == "" {
		return errors.New("ai.Domain: ID must not be empty")
	}
	if len(d.Tasks) == 0 {
		return fmt.Errorf("ai.Domain %q: must have at least one task", d.ID)
	}

	tasks, err := uniqueIDs(d.ID, "task", len(d.Tasks), func(i int) string { return d.Tasks[i].ID })
	if err != nil {
		return err
	}
	if _, err := uniqueIDs(d.ID, "method", len(d.Methods), func(i int) string { return d.Methods[i].ID }); err != nil {
		return err
	}
	ops, err := uniqueIDs(d.ID, "operator", len(d.Operators), func(i int) string { return d.Operators[i].ID })
	if err != nil {
		return err
	}

	if !tasks[d.RootTask()] {
		return fmt.Errorf("ai.Domain %q: root task %q is not defined", d.ID, d.RootTask())
	}
	for _, op := range d.Operators {
		switch op.Action {
		case ActionAttack, ActionPass:
		default:
			return fmt.Errorf("ai.Domain %q operator %q: unknown action %q", d.ID, op.ID, op.Action)
		}
	}
	for _, m := range d.Methods {
		if m.TaskID == "" {
			return fmt.Errorf("ai.Domain %q method %q: task must not be empty", d.ID, m.ID)
		}
		if !tasks[m.TaskID] {
			return fmt.Errorf("ai.Domain %q method %q: task %q is not defined", d.ID, m.ID, m.TaskID)
		}
		if len(m.Subtasks) == 0 {
			return fmt.Errorf("ai.Domain %q method %q: subtasks must not be empty", d.ID, m.ID)
		}
		for _, sub := range m.Subtasks {
			if !tasks[sub] && !ops[sub] {
				return fmt.Errorf("ai.Domain %q method %q: subtask %q is neither a task nor an operator", d.ID, m.ID, sub)
			}
		}
	}
	return nil
}

func uniqueIDs(domain, kind string, n int, id func(int) string) (map[string]bool, error) {
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		v := id(i)
		if v == "" {
			return nil, fmt.Errorf("ai.Domain %q: %s has empty ID", domain, kind)
		}
		if seen[v] {
			return nil, fmt.Errorf("ai.Domain %q: duplicate %s ID %q", domain, kind, v)
		}
		seen[v] = true
	}
	return seen, nil
}

// OperatorByID returns the operator with the given ID, or false if not found.
func (d *Domain) OperatorByID(id string) (*Operator, bool) {
	for _, op := range d.Operators {
		if op.ID == id {
			return op, true
		}
	}
	return nil, false
}

// MethodsForTask returns all methods that decompose taskID, in declaration order.
func (d *Domain) MethodsForTask(taskID string) []*Method {
	var out []*Method
	for _, m := range d.Methods {
		if m.TaskID == taskID {
			out = append(out, m)
		}
	}
	return out
}

type yamlDomainFile struct {
	Domain *Domain `yaml:"domain"`
}

// LoadDomainFromBytes parses one domain file with a top-level "domain" key.
func LoadDomainFromBytes(data []byte) (*Domain, error) {
	var f yamlDomainFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("ai: parsing domain YAML: %w", err)
	}
	if f.Domain == nil {
		return nil, errors.New("ai: missing top-level 'domain' key")
	}
	if err := f.Domain.Validate(); err != nil {
		return nil, err
	}
	return f.Domain, nil
}

// LoadDomains reads all *.yaml files from dir and returns the parsed domains
// sorted by ID.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns an error if any file fails to parse or validate.
func LoadDomains(dir string) ([]*Domain, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ai.LoadDomains: reading %q: %w", dir, err)
	}
	var domains []*Domain
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("ai.LoadDomains: reading %s: %w", e.Name(), err)
		}
		d, err := LoadDomainFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("ai.LoadDomains: %s: %w", e.Name(), err)
		}
		domains = append(domains, d)
	}
	sort.Slice(domains, func(i, j int) bool { return domains[i].ID < domains[j].ID })
	return domains, nil
}
