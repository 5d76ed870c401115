// Package targeting decides which units of a formation are currently eligible
// under the front-row blocking rule.
package targeting

import "github.com/cory-johannsen/skirmish/internal/game/unit"

// Selector applies the front-row blocking rule to a formation grouped by row.
//
// The player's front row faces increasing row indices and the computer's front
// row faces decreasing ones. The row adjacent to a front row is therefore
// PlayerFrontRow+1 or ComputerFrontRow-1; an index outside the formation counts
// as an empty row.
type Selector struct {
	PlayerFrontRow   int
	ComputerFrontRow int
}

// NewSelector returns a Selector with the given front rows.
func NewSelector(playerFront, computerFront int) Selector {
	return Selector{PlayerFrontRow: playerFront, ComputerFrontRow: computerFront}
}

// DefaultSelector returns the selector for a single three-row formation:
// player front row 2, computer front row 0.
func DefaultSelector() Selector {
	return NewSelector(2, 0)
}

// SuitableUnits returns the living units of rows that are currently eligible.
// A front-row unit is blocked when a living unit occupies the same column (y)
// in the adjacent row. Units outside the front row are always eligible.
//
// Postcondition: the result contains no dead units and preserves row-major order.
func (s Selector) SuitableUnits(rows [][]*unit.Unit, isPlayerSide bool) []*unit.Unit {
	front, dir := s.ComputerFrontRow, -1
	if isPlayerSide {
		front, dir = s.PlayerFrontRow, 1
	}

	var blockers map[int]bool
	if adj := front + dir; adj >= 0 && adj < len(rows) {
		blockers = livingColumns(rows[adj])
	}

	var out []*unit.Unit
	for r, row := range rows {
		for _, u := range row {
			if u == nil || !u.Alive() {
				continue
			}
			if r == front && blockers[u.Position.Y] {
				continue
			}
			out = append(out, u)
		}
	}
	return out
}

func livingColumns(row []*unit.Unit) map[int]bool {
	cols := make(map[int]bool, len(row))
	for _, u := range row {
		if u != nil && u.Alive() {
			cols[u.Position.Y] = true
		}
	}
	return cols
}
