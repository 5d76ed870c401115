// Package pathfind finds shortest obstacle-aware paths between units on the
// battlefield grid. Every move, orthogonal or diagonal, costs 1.
package pathfind

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

// Algorithm selects the label-setting search used by a Finder.
type Algorithm string

const (
	// AlgorithmDijkstra expands cells in order of distance from the start.
	AlgorithmDijkstra Algorithm = "dijkstra"
	// AlgorithmAStar adds the Chebyshev distance to the goal as a heuristic.
	AlgorithmAStar Algorithm = "astar"
)

// ParseAlgorithm maps a configuration string to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AlgorithmDijkstra, AlgorithmAStar:
		return Algorithm(s), nil
	default:
		return "", fmt.Errorf("pathfind: unknown algorithm %q", s)
	}
}

// Path is an ordered sequence of cells from start to goal, both inclusive.
// An empty Path means no path exists.
type Path []grid.Coord

// Empty reports whether the path signals "no path".
func (p Path) Empty() bool { return len(p) == 0 }

// Steps returns the number of moves along the path; 0 for empty or single-cell paths.
func (p Path) Steps() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Search runs a shortest-path search from start to goal on g, treating every
// cell in obstacles as impassable except goal itself.
//
// Precondition: start and goal are in bounds.
// Postcondition: returns Path{start} when start == goal; an empty Path when
// goal is unreachable; otherwise a minimal-length path with Path[0] == start
// and Path[len-1] == goal.
func Search(g grid.Grid, start, goal grid.Coord, obstacles grid.Obstacles, algo Algorithm) Path {
	if start == goal {
		return Path{start}
	}

	width := g.Width()
	index := func(c grid.Coord) int { return c.Y*width + c.X }
	coord := func(i int) grid.Coord { return grid.Coord{X: i % width, Y: i / width} }
	heuristic := func(c grid.Coord) int {
		if algo == AlgorithmAStar {
			return c.Chebyshev(goal)
		}
		return 0
	}

	cells := g.Cells()
	dist := make([]int, cells)
	prev := make([]int, cells)
	done := make([]bool, cells)
	for i := range dist {
		dist[i] = -1
		prev[i] = -1
	}

	startIdx, goalIdx := index(start), index(goal)
	dist[startIdx] = 0
	open := &frontier{}
	open.push(startIdx, heuristic(start))

	for open.Len() > 0 {
		cur := open.pop().cell
		if done[cur] {
			continue
		}
		done[cur] = true
		if cur == goalIdx {
			break
		}
		for _, n := range g.Neighbors(coord(cur)) {
			ni := index(n)
			if done[ni] {
				continue
			}
			if ni != goalIdx && obstacles.Blocked(n) {
				continue
			}
			nd := dist[cur] + 1
			if dist[ni] < 0 || nd < dist[ni] {
				dist[ni] = nd
				prev[ni] = cur
				open.push(ni, nd+heuristic(n))
			}
		}
	}

	if !done[goalIdx] {
		return Path{}
	}

	path := make(Path, dist[goalIdx]+1)
	for i, c := len(path)-1, goalIdx; i >= 0; i-- {
		path[i] = coord(c)
		c = prev[c]
	}
	return path
}
