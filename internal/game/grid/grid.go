// Package grid models the fixed-size battlefield: coordinates, bounds, the
// 8-neighbourhood, and the obstacle set derived from live unit positions.
package grid

import (
	"errors"
	"fmt"
)

// ErrInvalidExtent is returned by New for non-positive dimensions.
var ErrInvalidExtent = errors.New("grid: width and height must be positive")

// Coord addresses one cell. X is the column, Y the row.
type Coord struct {
	X int
	Y int
}

// String renders the coordinate as "(x,y)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns c offset by d.
func (c Coord) Add(d Coord) Coord {
	return Coord{X: c.X + d.X, Y: c.Y + d.Y}
}

// Chebyshev returns the number of 8-directional unit moves between c and o on
// an empty grid.
func (c Coord) Chebyshev(o Coord) int {
	return max(abs(c.X-o.X), abs(c.Y-o.Y))
}

// Adjacent reports whether o is one of the eight neighbours of c.
func (c Coord) Adjacent(o Coord) bool {
	return c != o && c.Chebyshev(o) == 1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Directions lists the eight unit moves: four orthogonal, then four diagonal.
var Directions = [8]Coord{
	{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1},
	{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1},
}

// Grid is an immutable width × height cell space.
type Grid struct {
	width  int
	height int
}

// New returns a Grid of the given extent.
//
// Postcondition: returns ErrInvalidExtent if width or height < 1.
func New(width, height int) (Grid, error) {
	if width < 1 || height < 1 {
		return Grid{}, fmt.Errorf("%w: got %dx%d", ErrInvalidExtent, width, height)
	}
	return Grid{width: width, height: height}, nil
}

// MustNew is New that panics on invalid extent.
func MustNew(width, height int) Grid {
	g, err := New(width, height)
	if err != nil {
		panic(err)
	}
	return g
}

// Width returns the number of columns.
func (g Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g Grid) Height() int { return g.height }

// Cells returns width × height.
func (g Grid) Cells() int { return g.width * g.height }

// InBounds reports whether c addresses a cell of g.
func (g Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

// Neighbors returns the in-bounds cells among the eight neighbours of c, in
// Directions order.
func (g Grid) Neighbors(c Coord) []Coord {
	out := make([]Coord, 0, len(Directions))
	for _, d := range Directions {
		if n := c.Add(d); g.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// Obstacles is the set of blocked cells for one path query.
type Obstacles map[Coord]struct{}

// NewObstacles builds an obstacle set from cells.
func NewObstacles(cells ...Coord) Obstacles {
	o := make(Obstacles, len(cells))
	for _, c := range cells {
		o[c] = struct{}{}
	}
	return o
}

// Blocked reports whether c is an obstacle. A nil set blocks nothing.
func (o Obstacles) Blocked(c Coord) bool {
	_, ok := o[c]
	return ok
}
