// Package battle runs a battle between two armies as a sequence of rounds in
// which every living unit acts exactly once.
package battle

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/unit"
)

var (
	// ErrSimulationCancelled is returned when the context ends between actions.
	ErrSimulationCancelled = errors.New("battle: simulation cancelled")
	// ErrRoundLimit is returned when the configured round cap is reached.
	ErrRoundLimit = errors.New("battle: round limit reached")
)

// LogSink receives every completed attack.
type LogSink interface {
	LogAttack(attacker, target *unit.Unit)
}

// SideStats counts one side's activity during a round.
type SideStats struct {
	AliveAtStart   int
	Actions        int
	DiedBeforeTurn int
	AliveAtEnd     int
}

// RoundSummary describes one completed round.
type RoundSummary struct {
	Round    int
	Player   SideStats
	Computer SideStats
}

// Result is the outcome of Simulate.
type Result struct {
	Outcome           Outcome
	Rounds            int
	PlayerSurvivors   int
	ComputerSurvivors int
	// Actions counts unit turns taken, including turns without a target.
	Actions   int
	Summaries []RoundSummary
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithActionDelay pauses for d after every action. Zero disables pacing.
func WithActionDelay(d time.Duration) Option {
	return func(s *Scheduler) { s.delay = d }
}

// WithMaxRounds aborts the battle with ErrRoundLimit after n rounds. Zero
// disables the cap.
func WithMaxRounds(n int) Option {
	return func(s *Scheduler) { s.maxRounds = n }
}

// WithRoundObserver registers fn to receive every round summary.
func WithRoundObserver(fn func(RoundSummary)) Option {
	return func(s *Scheduler) { s.observer = fn }
}

// Scheduler drives rounds until one side is eliminated.
//
// A Scheduler runs a single battle at a time and is not safe for concurrent use.
type Scheduler struct {
	sink      LogSink
	logger    *zap.Logger
	delay     time.Duration
	maxRounds int
	observer  func(RoundSummary)

	phase Phase
	round int
}

// NewScheduler creates a Scheduler.
//
// Precondition: sink and logger must be non-nil.
func NewScheduler(sink LogSink, logger *zap.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{sink: sink, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Phase returns the scheduler's current phase.
func (s *Scheduler) Phase() Phase { return s.phase }

// Round returns the number of the current or last round; 0 before the first.
func (s *Scheduler) Round() int { return s.round }

// Simulate runs rounds until one side has no living units.
//
// Precondition: every unit of both armies has a non-nil Policy.
// Postcondition: on success Outcome is PlayerWins, ComputerWins, or Draw and
// Phase is PhaseFinished. On cancellation or round cap, Outcome is
// OutcomeUndecided and the error wraps ErrSimulationCancelled or ErrRoundLimit.
func (s *Scheduler) Simulate(ctx context.Context, player, computer *unit.Army) (Result, error) {
	s.phase = PhaseNotStarted
	s.round = 0
	var res Result

	finish := func(outcome Outcome) {
		s.phase = PhaseFinished
		res.Outcome = outcome
		res.Rounds = s.round
		res.PlayerSurvivors = player.LivingCount()
		res.ComputerSurvivors = computer.LivingCount()
	}

	if outcome, done := decide(player.LivingCount(), computer.LivingCount()); done {
		finish(outcome)
		s.logger.Info("battle decided before first round", zap.Stringer("outcome", outcome))
		return res, nil
	}

	for {
		if s.maxRounds > 0 && s.round >= s.maxRounds {
			finish(OutcomeUndecided)
			s.logger.Warn("battle round limit reached", zap.Int("rounds", s.round))
			return res, fmt.Errorf("%w: %d rounds", ErrRoundLimit, s.maxRounds)
		}

		s.round++
		s.phase = PhaseRoundInProgress
		summary, err := s.playRound(ctx, player, computer, &res)
		if err != nil {
			finish(OutcomeUndecided)
			return res, err
		}
		s.phase = PhaseRoundComplete
		res.Summaries = append(res.Summaries, summary)
		s.report(summary)

		if outcome, done := decide(summary.Player.AliveAtEnd, summary.Computer.AliveAtEnd); done {
			finish(outcome)
			s.logger.Info("battle finished",
				zap.Stringer("outcome", outcome),
				zap.Int("rounds", s.round),
				zap.Int("player_survivors", res.PlayerSurvivors),
				zap.Int("computer_survivors", res.ComputerSurvivors),
			)
			return res, nil
		}
	}
}

// playRound gives every living unit exactly one turn.
func (s *Scheduler) playRound(ctx context.Context, player, computer *unit.Army, res *Result) (RoundSummary, error) {
	summary := RoundSummary{Round: s.round}
	summary.Player.AliveAtStart = player.LivingCount()
	summary.Computer.AliveAtStart = computer.LivingCount()

	stats := func(side unit.Side) *SideStats {
		if side == unit.SidePlayer {
			return &summary.Player
		}
		return &summary.Computer
	}

	acted := make(map[*unit.Unit]struct{})
	for {
		order := interleave(queue(player, acted), queue(computer, acted))
		if len(order) == 0 {
			break
		}
		for _, u := range order {
			if !u.Alive() {
				stats(u.Side).DiedBeforeTurn++
				continue
			}
			if err := s.checkContext(ctx); err != nil {
				return summary, err
			}
			s.act(ctx, u)
			acted[u] = struct{}{}
			stats(u.Side).Actions++
			res.Actions++
			s.pause(ctx)
		}
	}

	summary.Player.AliveAtEnd = player.LivingCount()
	summary.Computer.AliveAtEnd = computer.LivingCount()
	return summary, nil
}

// act runs u's policy. Errors and empty turns are logged, never propagated.
func (s *Scheduler) act(ctx context.Context, u *unit.Unit) {
	if u.Policy == nil {
		s.logger.Warn("unit has no policy", zap.String("unit", u.Name))
		return
	}
	target, err := u.Policy.Attack(ctx)
	if err != nil {
		s.logger.Warn("unit action failed",
			zap.String("unit", u.Name),
			zap.Int("round", s.round),
			zap.Error(err),
		)
		return
	}
	if target == nil {
		s.logger.Debug("no eligible target", zap.String("unit", u.Name), zap.Int("round", s.round))
		return
	}
	s.sink.LogAttack(u, target)
}

func (s *Scheduler) checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		s.logger.Warn("battle cancelled", zap.Int("round", s.round), zap.Error(ctx.Err()))
		return fmt.Errorf("%w: %w", ErrSimulationCancelled, ctx.Err())
	default:
		return nil
	}
}

func (s *Scheduler) pause(ctx context.Context) {
	if s.delay <= 0 {
		return
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (s *Scheduler) report(summary RoundSummary) {
	s.logger.Info("round complete",
		zap.Int("round", summary.Round),
		zap.Int("player_alive_start", summary.Player.AliveAtStart),
		zap.Int("player_actions", summary.Player.Actions),
		zap.Int("player_died_before_turn", summary.Player.DiedBeforeTurn),
		zap.Int("player_alive_end", summary.Player.AliveAtEnd),
		zap.Int("computer_alive_start", summary.Computer.AliveAtStart),
		zap.Int("computer_actions", summary.Computer.Actions),
		zap.Int("computer_died_before_turn", summary.Computer.DiedBeforeTurn),
		zap.Int("computer_alive_end", summary.Computer.AliveAtEnd),
	)
	if s.observer != nil {
		s.observer(summary)
	}
}

// queue returns the living units of army that have not acted, strongest
// attack first, ties in roster order.
func queue(army *unit.Army, acted map[*unit.Unit]struct{}) []*unit.Unit {
	var q []*unit.Unit
	for _, u := range army.Living() {
		if _, ok := acted[u]; !ok {
			q = append(q, u)
		}
	}
	slices.SortStableFunc(q, func(a, b *unit.Unit) int { return cmp.Compare(b.Attack, a.Attack) })
	return q
}

// interleave alternates player and computer units, then appends the remainder
// of the longer queue.
func interleave(player, computer []*unit.Unit) []*unit.Unit {
	order := make([]*unit.Unit, 0, len(player)+len(computer))
	for i := 0; i < max(len(player), len(computer)); i++ {
		if i < len(player) {
			order = append(order, player[i])
		}
		if i < len(computer) {
			order = append(order, computer[i])
		}
	}
	return order
}
