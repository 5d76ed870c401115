package pathfind

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/unit"
)

// Finder computes attacker→target paths on a fixed grid.
//
// Finder holds no per-query state and is safe for concurrent use.
type Finder struct {
	grid   grid.Grid
	algo   Algorithm
	logger *zap.Logger
}

// NewFinder creates a Finder.
//
// Precondition: logger must be non-nil.
func NewFinder(g grid.Grid, algo Algorithm, logger *zap.Logger) *Finder {
	return &Finder{grid: g, algo: algo, logger: logger}
}

// Grid returns the grid the finder searches.
func (f *Finder) Grid() grid.Grid { return f.grid }

// Algorithm returns the configured search algorithm.
func (f *Finder) Algorithm() Algorithm { return f.algo }

// ObstaclesFor returns the cells of living units in all other than attacker and target.
//
// Postcondition: attacker.Position and target.Position are never in the result
// unless another living unit shares that cell.
func ObstaclesFor(attacker, target *unit.Unit, all []*unit.Unit) grid.Obstacles {
	obstacles := make(grid.Obstacles, len(all))
	for _, u := range all {
		if u == attacker || u == target || !u.Alive() {
			continue
		}
		obstacles[u.Position] = struct{}{}
	}
	return obstacles
}

// FindPath returns a shortest path from attacker's cell to target's cell,
// routing around every other living unit in all.
//
// Precondition: attacker and target must be non-nil.
// Postcondition: an empty Path is returned, and logged, when no route exists or
// either endpoint lies outside the grid.
func (f *Finder) FindPath(attacker, target *unit.Unit, all []*unit.Unit) Path {
	start, goal := attacker.Position, target.Position
	if !f.grid.InBounds(start) || !f.grid.InBounds(goal) {
		f.logger.Warn("path endpoint out of bounds",
			zap.String("attacker", attacker.Name),
			zap.Stringer("from", start),
			zap.String("target", target.Name),
			zap.Stringer("to", goal),
		)
		return Path{}
	}

	path := Search(f.grid, start, goal, ObstaclesFor(attacker, target, all), f.algo)
	if path.Empty() {
		f.logger.Info("no path found",
			zap.String("attacker", attacker.Name),
			zap.Stringer("from", start),
			zap.String("target", target.Name),
			zap.Stringer("to", goal),
		)
	}
	return path
}
