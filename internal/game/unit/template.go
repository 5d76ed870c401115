package unit

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

// Policy kinds accepted in templates.
const (
	PolicyMelee   = "melee"
	PolicyRanged  = "ranged"
	PolicyPlanned = "planned"
)

// Template defines a reusable unit archetype loaded from YAML.
type Template struct {
	Type           string             `yaml:"type"`
	Description    string             `yaml:"description"`
	Health         int                `yaml:"health"`
	Attack         int                `yaml:"attack"`
	Cost           int                `yaml:"cost"`
	AttackType     string             `yaml:"attack_type"`
	AttackBonuses  map[string]float64 `yaml:"attack_bonuses"`
	DefenceBonuses map[string]float64 `yaml:"defence_bonuses"`
	DamageDice     string             `yaml:"damage_dice"`
	// Policy is one of melee, ranged, planned. Empty means melee.
	Policy string `yaml:"policy"`
	// AIDomain names the HTN domain used by the planned policy.
	AIDomain string `yaml:"ai_domain"`
}

// Validate checks that the template satisfies basic invariants.
//
// Postcondition: Returns nil iff Type is non-empty, Health, Attack and Cost are
// >= 1, bonuses are positive, DamageDice parses, and a planned policy names a domain.
func (t *Template) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("unit template: type must not be empty")
	}
	if t.Health < 1 {
		return fmt.Errorf("unit template %q: health must be >= 1", t.Type)
	}
	if t.Attack < 1 {
		return fmt.Errorf("unit template %q: attack must be >= 1", t.Type)
	}
	if t.Cost < 1 {
		return fmt.Errorf("unit template %q: cost must be >= 1", t.Type)
	}
	for k, v := range t.AttackBonuses {
		if v <= 0 {
			return fmt.Errorf("unit template %q: attack bonus against %q must be positive", t.Type, k)
		}
	}
	for k, v := range t.DefenceBonuses {
		if v <= 0 {
			return fmt.Errorf("unit template %q: defence bonus against %q must be positive", t.Type, k)
		}
	}
	if t.DamageDice != "" {
		if _, err := dice.Parse(t.DamageDice); err != nil {
			return fmt.Errorf("unit template %q: %w", t.Type, err)
		}
	}
	switch t.Policy {
	case "", PolicyMelee, PolicyRanged:
	case PolicyPlanned:
		if t.AIDomain == "" {
			return fmt.Errorf("unit template %q: planned policy requires ai_domain", t.Type)
		}
	default:
		return fmt.Errorf("unit template %q: unknown policy %q", t.Type, t.Policy)
	}
	return nil
}

// AttackEfficiency returns attack per point of cost.
func (t *Template) AttackEfficiency() float64 {
	return float64(t.Attack) / float64(t.Cost)
}

// HealthEfficiency returns health per point of cost.
func (t *Template) HealthEfficiency() float64 {
	return float64(t.Health) / float64(t.Cost)
}

// NewUnit instantiates the template at pos.
//
// Precondition: id and name must be non-empty.
// Postcondition: Health == MaxHealth == t.Health; Policy is nil until assigned.
func (t *Template) NewUnit(id, name string, pos grid.Coord) *Unit {
	return &Unit{
		ID:             id,
		Name:           name,
		Type:           t.Type,
		Position:       pos,
		Health:         t.Health,
		MaxHealth:      t.Health,
		Attack:         t.Attack,
		Cost:           t.Cost,
		AttackType:     t.AttackType,
		AttackBonuses:  t.AttackBonuses,
		DefenceBonuses: t.DefenceBonuses,
		DamageDice:     t.DamageDice,
		PolicyKind:     t.Policy,
		AIDomain:       t.AIDomain,
	}
}

// LoadTemplateFromBytes parses a single unit template from raw YAML bytes.
//
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing unit template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates
// sorted by Type.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first failure;
// duplicate types are rejected.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading unit dir %q: %w", dir, err)
	}

	seen := make(map[string]string)
	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		if prev, dup := seen[tmpl.Type]; dup {
			return nil, fmt.Errorf("loading %q: type %q already defined in %q", path, tmpl.Type, prev)
		}
		seen[tmpl.Type] = path
		templates = append(templates, tmpl)
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].Type < templates[j].Type })
	return templates, nil
}
