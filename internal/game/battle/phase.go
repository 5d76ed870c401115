package battle

import "fmt"

// Phase is the scheduler's lifecycle state.
type Phase int

const (
	// PhaseNotStarted - Simulate has not run yet.
	PhaseNotStarted Phase = iota

	// PhaseRoundInProgress - units are taking turns.
	PhaseRoundInProgress

	// PhaseRoundComplete - every living unit has acted; the end check is pending.
	PhaseRoundComplete

	// PhaseFinished - an outcome was reached, or the run was aborted.
	PhaseFinished
)

// String returns the string representation of a Phase.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "NotStarted"
	case PhaseRoundInProgress:
		return "RoundInProgress"
	case PhaseRoundComplete:
		return "RoundComplete"
	case PhaseFinished:
		return "Finished"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// Outcome is the result of a battle.
type Outcome int

const (
	// OutcomeUndecided is reported when the run was cancelled or hit the round cap.
	OutcomeUndecided Outcome = iota
	OutcomePlayerWins
	OutcomeComputerWins
	OutcomeDraw
)

// String returns the string representation of an Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeUndecided:
		return "Undecided"
	case OutcomePlayerWins:
		return "PlayerWins"
	case OutcomeComputerWins:
		return "ComputerWins"
	case OutcomeDraw:
		return "Draw"
	default:
		return fmt.Sprintf("Unknown(%d)", o)
	}
}

// decide maps living counts to an outcome. done is false while both sides
// still have units.
func decide(playerAlive, computerAlive int) (outcome Outcome, done bool) {
	switch {
	case playerAlive > 0 && computerAlive > 0:
		return OutcomeUndecided, false
	case playerAlive > 0:
		return OutcomePlayerWins, true
	case computerAlive > 0:
		return OutcomeComputerWins, true
	default:
		return OutcomeDraw, true
	}
}
