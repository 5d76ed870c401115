package unit

// Army is an ordered roster owned by the caller for the duration of a battle.
//
// Invariant: membership never changes once a battle starts; only unit health does.
type Army struct {
	Side  Side
	Units []*Unit
}

// NewArmy returns an empty army for side.
func NewArmy(side Side) *Army {
	return &Army{Side: side}
}

// Add appends u and stamps it with the army's side.
func (a *Army) Add(u *Unit) {
	u.Side = a.Side
	a.Units = append(a.Units, u)
}

// Living returns the living units in roster order.
//
// Postcondition: every returned unit satisfies Alive().
func (a *Army) Living() []*Unit {
	var out []*Unit
	for _, u := range a.Units {
		if u.Alive() {
			out = append(out, u)
		}
	}
	return out
}

// LivingCount returns the number of living units.
func (a *Army) LivingCount() int {
	n := 0
	for _, u := range a.Units {
		if u.Alive() {
			n++
		}
	}
	return n
}

// Cost returns the summed cost of every unit in the roster.
func (a *Army) Cost() int {
	total := 0
	for _, u := range a.Units {
		total += u.Cost
	}
	return total
}

// ByID returns the unit with the given ID, or nil.
func (a *Army) ByID(id string) *Unit {
	for _, u := range a.Units {
		if u.ID == id {
			return u
		}
	}
	return nil
}
