// Package army builds budgeted rosters by greedy placement of unit templates.
package army

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/unit"
)

// ErrNegativeBudget is returned by Generate when budget < 0.
var ErrNegativeBudget = errors.New("army: budget must not be negative")

// Reason explains why the generator stopped placing a unit type.
type Reason string

const (
	ReasonTypeCap    Reason = "type cap reached"
	ReasonBudget     Reason = "cost exceeds remaining budget"
	ReasonNoFreeCell Reason = "no free cell found"
)

// Report summarises one generation run.
type Report struct {
	Budget    int
	Spent     int
	Placed    map[string]int
	Exhausted map[string]Reason
}

// Remaining returns the unspent budget.
func (r Report) Remaining() int { return r.Budget - r.Spent }

// Generator places units for one side of the battlefield.
type Generator struct {
	cfg       config.ArmyConfig
	gridWidth int
	src       dice.Source
	logger    *zap.Logger
	newID     func() string
}

// NewGenerator creates a Generator that draws placement probes from src.
//
// Precondition: cfg must have passed config validation; src and logger must be non-nil.
func NewGenerator(cfg config.ArmyConfig, gridWidth int, src dice.Source, logger *zap.Logger) *Generator {
	return &Generator{cfg: cfg, gridWidth: gridWidth, src: src, logger: logger, newID: uuid.NewString}
}

// OriginX returns the first column side deploys into.
func (g *Generator) OriginX(side unit.Side) int {
	if side == unit.SidePlayer {
		return 0
	}
	return g.gridWidth - g.cfg.FieldDepth
}

// Generate builds an army for side spending at most budget.
//
// Candidates are ranked by attack per cost, then health per cost, both
// descending. The generator keeps placing the current candidate until its type
// cap, the budget, or the placement retries run out, then moves on; every
// iteration either places a unit or advances, so the loop is bounded by
// len(templates) × (MaxUnitsPerType + 1).
//
// Postcondition: army.Cost() <= budget; at most MaxUnitsPerType units per type;
// every unit occupies a distinct cell inside the side's deployment field.
func (g *Generator) Generate(templates []*unit.Template, budget int, side unit.Side) (*unit.Army, Report, error) {
	if budget < 0 {
		return nil, Report{}, fmt.Errorf("%w: got %d", ErrNegativeBudget, budget)
	}
	for _, t := range templates {
		if err := t.Validate(); err != nil {
			return nil, Report{}, fmt.Errorf("army.Generate: %w", err)
		}
	}

	candidates := make([]*unit.Template, len(templates))
	copy(candidates, templates)
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.AttackEfficiency() != b.AttackEfficiency() {
			return a.AttackEfficiency() > b.AttackEfficiency()
		}
		return a.HealthEfficiency() > b.HealthEfficiency()
	})

	army := unit.NewArmy(side)
	report := Report{Budget: budget, Placed: map[string]int{}, Exhausted: map[string]Reason{}}
	occupied := map[grid.Coord]bool{}
	remaining := budget
	originX := g.OriginX(side)

	for i := 0; i < len(candidates) && remaining > 0; {
		t := candidates[i]
		count := report.Placed[t.Type]

		if count >= g.cfg.MaxUnitsPerType {
			report.Exhausted[t.Type] = ReasonTypeCap
			i++
			continue
		}
		if t.Cost > remaining {
			report.Exhausted[t.Type] = ReasonBudget
			i++
			continue
		}
		pos, ok := g.probe(originX, occupied)
		if !ok {
			g.logger.Debug("no free cell for unit type",
				zap.String("type", t.Type),
				zap.Stringer("side", side),
			)
			report.Exhausted[t.Type] = ReasonNoFreeCell
			i++
			continue
		}

		count++
		report.Placed[t.Type] = count
		occupied[pos] = true
		u := t.NewUnit(g.newID(), fmt.Sprintf("%s %d", t.Type, count), pos)
		army.Add(u)
		remaining -= t.Cost
		g.logger.Debug("unit placed",
			zap.String("unit", u.Name),
			zap.Stringer("side", side),
			zap.Stringer("position", pos),
			zap.Int("remaining_budget", remaining),
		)
	}

	report.Spent = budget - remaining
	g.logger.Info("army generated",
		zap.Stringer("side", side),
		zap.Int("units", len(army.Units)),
		zap.Int("spent", report.Spent),
		zap.Int("budget", budget),
	)
	return army, report, nil
}

// probe draws up to MaxPlacementRetries random cells in the deployment field
// and returns the first free one.
func (g *Generator) probe(originX int, occupied map[grid.Coord]bool) (grid.Coord, bool) {
	for attempt := 0; attempt < g.cfg.MaxPlacementRetries; attempt++ {
		c := grid.Coord{
			X: originX + g.src.Intn(g.cfg.FieldDepth),
			Y: g.src.Intn(g.cfg.FieldSpan),
		}
		if !occupied[c] {
			return c, true
		}
	}
	return grid.Coord{}, false
}
