package milp

import (
	"context"
	"time"

	"github.com/gneville6/ditags/internal/core"
	"github.com/gneville6/ditags/internal/motion"
	"github.com/gneville6/ditags/internal/schedule"
	"github.com/pkg/errors"
)

// startWeight is the secondary-objective coefficient used to approximate
// spec.md §4.4's hierarchical objective (minimize makespan, then break ties
// by minimizing the sum of start times) as a single weighted-sum LP
// objective. The start times must sum to more than 1e6 seconds before they
// can outweigh a one-unit improvement in makespan.
const startWeight = 1e-6

// Result is the outcome of scheduling one candidate allocation.
type Result struct {
	Schedule      []core.ScheduledTask
	Makespan      float64
	NSQ           float64
	ProvenOptimal bool
}

// Scheduler runs the iterative cutting-plane loop described in spec.md §4.4:
// solve the MILP with lower-bound transition estimates, promote the
// transitions the incumbent actually uses to real motion-planner queries,
// and re-solve until the incumbent no longer depends on an un-promoted
// bound.
type Scheduler struct {
	Cache                 *motion.Cache
	Timeout               time.Duration
	MotionTimeout         time.Duration
	HierarchicalObjective bool
	// QuickMode, when set, has the branch-and-bound solver return on the
	// first integer-feasible incumbent rather than proving optimality
	// (spec.md §9).
	QuickMode bool
}

// NewScheduler builds a Scheduler backed by the given motion cache.
func NewScheduler(cache *motion.Cache, timeout, motionTimeout time.Duration) *Scheduler {
	return &Scheduler{Cache: cache, Timeout: timeout, MotionTimeout: motionTimeout, HierarchicalObjective: true}
}

// Solve schedules one candidate allocation, refining transition duration
// estimates against the motion cache until the incumbent is stable.
func (s *Scheduler) Solve(ctx context.Context, allocation [][]bool, inputs *core.ProblemInputs) (Result, error) {
	m := schedule.New(allocation, inputs)

	for {
		l := newLayout(m)
		eqs, ineqs, _ := build(m, l)
		c := s.objective(l)

		prob := &bnbProblem{c: c, eqs: eqs, ineqs: ineqs, integral: l.integrality(), numColumns: l.numVars(), quickMode: s.QuickMode}

		solveCtx, cancel := timeoutContext(ctx, s.Timeout)
		sol, proven, err := prob.solve(solveCtx)
		cancel()
		if err != nil {
			if errors.Is(err, core.ErrSolverTimeoutNoIncumbent) {
				return Result{}, err
			}
			return Result{}, err
		}

		used := usedBoundTransitions(m, l, sol.x)
		if len(used) == 0 {
			return s.decode(m, l, sol, proven, inputs), nil
		}

		if err := s.promote(ctx, m, used); err != nil {
			return Result{}, err
		}
		if !proven {
			// The solve either hit its deadline or, in QuickMode, stopped
			// at its first incumbent; return that incumbent instead of
			// re-solving with the promoted transitions.
			return s.decode(m, l, sol, false, inputs), nil
		}
	}
}

// objective builds the weighted-sum minimization vector: makespan first,
// then (optionally) the sum of start times as a tie-break.
func (s *Scheduler) objective(l *layout) []float64 {
	c := make([]float64, l.numVars())
	c[l.makespan] = 1
	if s.HierarchicalObjective {
		for _, i := range l.startIdx {
			c[i] = startWeight
		}
	}
	return c
}

// promotedEdge names one transition in the schedule model, either between
// two tasks on the same robot or from a robot's initial configuration to
// its first task.
type promotedEdge struct {
	robot    int
	from     int // -1 for the robot's initial configuration
	to       int
}

// usedBoundTransitions inspects which transition/first-on-robot booleans the
// relaxation set to (near) 1 and returns those still backed by a Euclidean
// lower bound rather than a real motion-planning query.
func usedBoundTransitions(m *schedule.Model, l *layout, x []float64) []promotedEdge {
	var out []promotedEdge
	for key, idx := range l.transIdx {
		if x[idx] < 0.5 {
			continue
		}
		for _, t := range m.Transitions[key.Edge] {
			if t.Robot == key.Robot && t.Bound {
				out = append(out, promotedEdge{robot: key.Robot, from: key.From, to: key.To})
			}
		}
	}
	for key, idx := range l.firstIdx {
		if x[idx] < 0.5 {
			continue
		}
		for _, t := range m.InitialTransitions[key.Task] {
			if t.Robot == key.Robot && t.Bound {
				out = append(out, promotedEdge{robot: key.Robot, from: -1, to: key.Task})
			}
		}
	}
	return out
}

// promote resolves every bound transition the incumbent actually uses
// concurrently against the real motion planner (via WarmFull, since these
// queries are independent and read-only), then overwrites each
// corresponding Model entry from the now-warm cache.
func (s *Scheduler) promote(ctx context.Context, m *schedule.Model, edges []promotedEdge) error {
	warm := make([]motion.Edge, len(edges))
	for i, pe := range edges {
		robot := m.Robots[pe.robot]
		var from core.Configuration
		if pe.from < 0 {
			from = robot.Initial
		} else {
			from = m.Tasks[pe.from].Terminal
		}
		warm[i] = motion.Edge{From: from, To: m.Tasks[pe.to].Initial, Species: robot.Species}
	}
	if err := s.Cache.WarmFull(ctx, warm, s.MotionTimeout); err != nil {
		return errors.Wrap(err, "promoting bound transitions")
	}

	for i, pe := range edges {
		robot := m.Robots[pe.robot]
		dur, err := s.Cache.TravelTime(ctx, warm[i].From, warm[i].To, robot.Species, s.MotionTimeout)
		if err != nil {
			return errors.Wrapf(err, "promoting transition robot=%d from=%d to=%d", pe.robot, pe.from, pe.to)
		}
		if pe.from < 0 {
			replaceTransition(m.InitialTransitions[pe.to], pe.robot, dur)
		} else {
			e := schedule.Edge{From: pe.from, To: pe.to}
			replaceTransition(m.Transitions[e], pe.robot, dur)
		}
	}
	return nil
}

func replaceTransition(ts []schedule.Transition, robot int, dur time.Duration) {
	for i := range ts {
		if ts[i].Robot == robot {
			ts[i].Duration = dur
			ts[i].Bound = false
			return
		}
	}
}

// decode converts a solved relaxation's variable assignment into per-task
// start/finish times.
func (s *Scheduler) decode(m *schedule.Model, l *layout, sol solution, proven bool, inputs *core.ProblemInputs) Result {
	n := len(m.Tasks)
	sched := make([]core.ScheduledTask, n)
	makespan := 0.0
	for i := 0; i < n; i++ {
		start := sol.x[l.startIdx[i]]
		finish := sol.x[l.finishIdx[i]]
		sched[i] = core.ScheduledTask{Task: m.Tasks[i].ID, Start: start, Finish: finish}
		if finish > makespan {
			makespan = finish
		}
	}
	nsq := normalizedScheduleQuality(makespan, inputs.BestMakespan, inputs.WorstMakespan)
	return Result{Schedule: sched, Makespan: makespan, NSQ: nsq, ProvenOptimal: proven}
}

// normalizedScheduleQuality is spec.md §4.6's NSQ: (makespan - best) /
// (worst - best), clamped to [0,1]. When worst == best there is no spread
// to normalise against, so every makespan is reported as perfectly quality
// (0), matching the degenerate single-point case.
func normalizedScheduleQuality(makespan, best, worst float64) float64 {
	if worst == best {
		return 0
	}
	nsq := (makespan - best) / (worst - best)
	if nsq < 0 {
		return 0
	}
	if nsq > 1 {
		return 1
	}
	return nsq
}
