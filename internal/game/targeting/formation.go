package targeting

import "github.com/cory-johannsen/skirmish/internal/game/unit"

// Rows groups units by column offset from originX into depth rows. Units
// outside [originX, originX+depth) are dropped.
//
// Postcondition: len(result) == depth; row order within each row follows units.
func Rows(units []*unit.Unit, originX, depth int) [][]*unit.Unit {
	rows := make([][]*unit.Unit, depth)
	for _, u := range units {
		r := u.Position.X - originX
		if r < 0 || r >= depth {
			continue
		}
		rows[r] = append(rows[r], u)
	}
	return rows
}

// Formation builds the combined battlefield formation: the player's depth rows
// followed by the computer's depth rows, so that the two front rows sit at
// indices depth-1 and depth and face each other. Use it with
// FormationSelector(depth).
//
// Precondition: gridWidth >= 2*depth.
func Formation(player, computer *unit.Army, depth, gridWidth int) [][]*unit.Unit {
	rows := Rows(player.Units, 0, depth)
	return append(rows, Rows(computer.Units, gridWidth-depth, depth)...)
}

// FormationSelector returns the Selector matching Formation for the given depth.
func FormationSelector(depth int) Selector {
	return NewSelector(depth-1, depth)
}

// SideRows returns the rows of one side within a combined formation.
func SideRows(formation [][]*unit.Unit, depth int, side unit.Side) [][]*unit.Unit {
	if side == unit.SidePlayer {
		return formation[:depth]
	}
	return formation[depth:]
}
