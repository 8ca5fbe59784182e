// Package config holds the solver's tunable parameters (spec.md §6), kept
// in one place the way the teacher centralizes its run configuration.
package config

import (
	"time"

	"github.com/pkg/errors"
)

// Solver holds every knob the search driver and MILP scheduler read.
type Solver struct {
	// SchedulerTimeout bounds a single MILP branch-and-bound solve.
	SchedulerTimeout time.Duration
	// SchedulerThreads bounds how many allocation nodes may have their
	// schedules refined concurrently (reserved for a future pipelined
	// driver; the sequential best-first driver uses at most one).
	SchedulerThreads int
	// UseHierarchicalObjective enables the sum-of-starts tie-break after
	// makespan in the MILP objective.
	UseHierarchicalObjective bool
	// ComputeTransitionDurationHeuristic selects how InitialTransitions and
	// Transitions are seeded before the first MILP solve. Only "euclidean"
	// is implemented; the field exists so alternative heuristics can be
	// swapped in without touching callers.
	ComputeTransitionDurationHeuristic string
	// SearchWeight (0..1) weighs traits penalty against NSQ in the search
	// driver's f-value: f = w*traitsPenalty + (1-w)*NSQ.
	SearchWeight float64
	// GlobalDeadline bounds the entire search; on expiry the driver returns
	// its best incumbent, flagged not proven optimal.
	GlobalDeadline time.Duration
	// MotionTimeout bounds a single motion-planner query.
	MotionTimeout time.Duration
	// QuickMode, when set, has the MILP branch-and-bound return as soon as
	// it finds any integer-feasible incumbent instead of proving it optimal
	// (spec.md §9's "quick mode"). The returned schedule is always marked
	// not proven optimal.
	QuickMode bool
}

// Default returns the configuration spec.md §8's scenarios assume.
func Default() Solver {
	return Solver{
		SchedulerTimeout:                   10 * time.Second,
		SchedulerThreads:                   1,
		UseHierarchicalObjective:           true,
		ComputeTransitionDurationHeuristic: "euclidean",
		SearchWeight:                       0.5,
		GlobalDeadline:                     60 * time.Second,
		MotionTimeout:                      5 * time.Second,
		QuickMode:                          false,
	}
}

// Validate rejects configurations that could never produce a sound search.
func (s Solver) Validate() error {
	if s.SearchWeight < 0 || s.SearchWeight > 1 {
		return errors.Errorf("search weight %f out of [0,1]", s.SearchWeight)
	}
	if s.SchedulerTimeout <= 0 {
		return errors.New("scheduler timeout must be positive")
	}
	if s.GlobalDeadline <= 0 {
		return errors.New("global deadline must be positive")
	}
	if s.MotionTimeout <= 0 {
		return errors.New("motion timeout must be positive")
	}
	if s.ComputeTransitionDurationHeuristic != "euclidean" {
		return errors.Errorf("unknown transition duration heuristic %q", s.ComputeTransitionDurationHeuristic)
	}
	return nil
}
