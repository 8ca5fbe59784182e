// Package search implements the best-first allocation search (spec.md
// §4.5-§4.6): a priority queue over partial task/robot assignment matrices,
// scored by a blend of unmet-trait penalty and schedule quality, with the
// iterative MILP scheduler invoked only on nodes whose traits are fully
// satisfied.
package search

import (
	"container/heap"
	"context"

	"github.com/gneville6/ditags/internal/alloc"
	"github.com/gneville6/ditags/internal/config"
	"github.com/gneville6/ditags/internal/core"
	"github.com/gneville6/ditags/internal/milp"
	"github.com/gneville6/ditags/internal/traits"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Result is the best allocation+schedule the driver found.
type Result struct {
	Allocation    [][]bool
	Schedule      []core.ScheduledTask
	Makespan      float64
	TraitsPenalty float64
	NSQ           float64
	ProvenOptimal bool
}

// Driver runs the search over one problem instance.
type Driver struct {
	Inputs    *core.ProblemInputs
	Scheduler *milp.Scheduler
	Config    config.Solver
	Log       *zap.Logger
}

// item is one entry in the open list.
type item struct {
	node          *alloc.Node
	traitsPenalty float64
	f             float64
	index         int
}

type openList []*item

func (h openList) Len() int { return len(h) }
func (h openList) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	// Deterministic tie-break: deeper nodes first (closer to a complete,
	// schedulable allocation), then lexicographic last-assignment.
	if h[i].node.Depth != h[j].node.Depth {
		return h[i].node.Depth > h[j].node.Depth
	}
	ai, aj := h[i].node.Assignment, h[j].node.Assignment
	if ai == nil || aj == nil {
		return ai != nil
	}
	if ai.Task != aj.Task {
		return ai.Task < aj.Task
	}
	return ai.Robot < aj.Robot
}
func (h openList) Swap(i, j int) { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *openList) Push(x interface{}) {
	it := x.(*item)
	it.index = len(*h)
	*h = append(*h, it)
}
func (h *openList) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// Solve runs the best-first search to completion, the global deadline, or
// exhaustion of the open list.
func (d *Driver) Solve(ctx context.Context) (*Result, error) {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	// A per-run correlation ID, the way a long-lived service tags every log
	// line from one request so scattered goal-node traces can be grouped
	// back together after the fact.
	runID := uuid.NewString()
	log = log.With(zap.String("run_id", runID))

	ctx, cancel := context.WithTimeout(ctx, d.Config.GlobalDeadline)
	defer cancel()

	m := len(d.Inputs.Tasks)
	n := len(d.Inputs.Robots)
	traitLen := d.Inputs.TraitLength()
	robotTraits := traits.RobotTraitMatrix(d.Inputs.Robots, traitLen)
	desired := traits.DesiredTraitMatrix(d.Inputs.Tasks, traitLen)

	root := alloc.NewRoot(m, n)
	rootPenalty := d.penaltyOf(root, desired, robotTraits, traitLen)

	open := &openList{}
	heap.Init(open)
	heap.Push(open, &item{node: root, traitsPenalty: rootPenalty, f: d.fValue(rootPenalty, 0)})

	closed := make(map[string]bool)
	var best *Result

	for open.Len() > 0 {
		select {
		case <-ctx.Done():
			if best != nil {
				best.ProvenOptimal = false
				return best, nil
			}
			return nil, errors.Wrap(core.ErrGlobalDeadline, "search driver")
		default:
		}

		cur := heap.Pop(open).(*item)
		h := cur.node.Hash()
		if closed[h] {
			continue // pruning rule B: a node equivalent to one already expanded
		}
		closed[h] = true

		if traits.Satisfies(cur.traitsPenalty) {
			// Best-first order makes this the lowest-f satisfying node; its
			// ProvenOptimal reports only whether the MILP itself solved to
			// optimality, since a scheduler timeout can still yield a valid
			// but unproven schedule for the winning allocation.
			res, schedErr := d.tryScheduleAndUpdateBest(ctx, cur, &best)
			if schedErr == nil {
				log.Debug("goal node scheduled", zap.Float64("makespan", res.Makespan))
				return res, nil
			}
			log.Debug("goal node infeasible to schedule, continuing search", zap.Error(schedErr))
			continue
		}

		for _, child := range alloc.Successors(cur.node) {
			penalty := d.penaltyOf(child, desired, robotTraits, traitLen)
			if penalty >= cur.traitsPenalty-traits.Tolerance {
				continue // pruning rule A: this robot added nothing
			}
			heap.Push(open, &item{node: child, traitsPenalty: penalty, f: d.fValue(penalty, 0)})
		}
	}

	if best != nil {
		best.ProvenOptimal = false
		return best, nil
	}
	return nil, core.ErrNoFeasibleAllocation
}

// penaltyOf builds the node's allocation matrix as a gonum Dense and scores
// it against the desired/robot-trait matrices shared across the whole
// search (built once in Solve, not per node).
func (d *Driver) penaltyOf(n *alloc.Node, desired, robotTraits *mat.Dense, traitLen int) float64 {
	rows := n.Matrix()
	m := len(rows)
	nRobots := 0
	if m > 0 {
		nRobots = len(rows[0])
	}
	a := mat.NewDense(m, nRobots, nil)
	for i := range rows {
		for r := range rows[i] {
			if rows[i][r] {
				a.Set(i, r, 1)
			}
		}
	}
	coalition := traits.CoalitionMatrix(a, robotTraits, traits.SumReduction)
	return traits.Penalty(desired, coalition)
}

func (d *Driver) fValue(traitsPenalty, nsq float64) float64 {
	w := d.Config.SearchWeight
	return w*traitsPenalty + (1-w)*nsq
}

// tryScheduleAndUpdateBest runs the MILP scheduler over one traits-satisfying
// node's allocation and, on success, records it as the new best incumbent if
// it improves on the current one.
func (d *Driver) tryScheduleAndUpdateBest(ctx context.Context, it *item, best **Result) (*Result, error) {
	allocation := it.node.Matrix()
	res, err := d.Scheduler.Solve(ctx, allocation, d.Inputs)
	if err != nil {
		return nil, err
	}

	out := &Result{
		Allocation:    allocation,
		Schedule:      res.Schedule,
		Makespan:      res.Makespan,
		TraitsPenalty: it.traitsPenalty,
		NSQ:           res.NSQ,
		ProvenOptimal: res.ProvenOptimal,
	}
	if *best == nil || d.fValue(out.TraitsPenalty, out.NSQ) < d.fValue((*best).TraitsPenalty, (*best).NSQ) {
		*best = out
	}
	return out, nil
}
