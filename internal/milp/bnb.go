package milp

import (
	"container/heap"
	"context"
	"math"
	"time"

	"github.com/gneville6/ditags/internal/core"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const integralTolerance = 1e-6

// bnbProblem is the fixed description of one MILP instance: objective,
// equality system, and which columns must be 0/1.
type bnbProblem struct {
	c          []float64
	eqs        []eq
	ineqs      []ineq
	integral   []bool
	numColumns int
	// quickMode, when set, returns on the first integer-feasible incumbent
	// instead of proving optimality (spec.md §9's "quick mode").
	quickMode bool
}

// node is one subproblem in the branch-and-bound enumeration tree, grounded
// on the retrieved GoMILP reference's subProblem/enumerationTree shape, but
// specialised to binary variables: branching fixes a column to 0 or 1 via
// an added equality row rather than general bound tightening.
type node struct {
	fixed map[int]float64
	bound float64 // relaxed objective value; a valid lower bound for minimization
	index int     // heap bookkeeping
}

type nodeHeap []*node

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].bound < h[j].bound }
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *nodeHeap) Push(x interface{}) { n := x.(*node); n.index = len(*h); *h = append(*h, n) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}

// solution is a feasible (relaxed or integral) point plus its objective.
type solution struct {
	x   []float64
	obj float64
}

// solve runs branch-and-bound to optimize bnbProblem, honoring ctx's
// deadline. It returns the best integer-feasible incumbent found; if the
// deadline expires before any incumbent is found it returns
// core.ErrSolverTimeoutNoIncumbent wrapped with context, and if it expires
// after an incumbent exists it returns the incumbent with proven=false.
func (p *bnbProblem) solve(ctx context.Context) (sol solution, proven bool, err error) {
	root, feasible, err := p.relax(nil)
	if err != nil {
		return solution{}, false, errors.Wrap(core.ErrMilpInfeasible, "root relaxation")
	}
	if !feasible {
		return solution{}, false, core.ErrMilpInfeasible
	}

	open := &nodeHeap{}
	heap.Init(open)
	heap.Push(open, &node{fixed: nil, bound: root.obj})

	var incumbent *solution
	deadlineMissed := false

	for open.Len() > 0 {
		select {
		case <-ctx.Done():
			deadlineMissed = true
		default:
		}
		if deadlineMissed {
			break
		}

		n := heap.Pop(open).(*node)
		if incumbent != nil && n.bound >= incumbent.obj-1e-9 {
			continue // bound-based pruning: cannot beat the incumbent
		}

		rel, feasible, rerr := p.relax(n.fixed)
		if rerr != nil || !feasible {
			continue
		}

		branchVar, fracVal, isFractional := p.mostFractional(rel.x)
		if !isFractional {
			if incumbent == nil || rel.obj < incumbent.obj {
				incumbent = &solution{x: rel.x, obj: rel.obj}
			}
			if p.quickMode {
				return *incumbent, false, nil
			}
			continue
		}
		_ = fracVal

		for _, v := range [2]float64{0, 1} {
			child := map[int]float64{}
			for k, val := range n.fixed {
				child[k] = val
			}
			child[branchVar] = v
			heap.Push(open, &node{fixed: child, bound: rel.obj})
		}
	}

	if incumbent == nil {
		if deadlineMissed {
			return solution{}, false, errors.Wrap(core.ErrSolverTimeoutNoIncumbent, "milp branch and bound")
		}
		return solution{}, false, core.ErrMilpInfeasible
	}
	if deadlineMissed {
		return *incumbent, false, nil
	}
	return *incumbent, true, nil
}

// relax solves the LP relaxation with the given variables fixed, by adding
// one equality row per fixed variable.
func (p *bnbProblem) relax(fixed map[int]float64) (solution, bool, error) {
	extraEqs := make([]eq, 0, len(fixed))
	for idx, val := range fixed {
		extraEqs = append(extraEqs, eq{coeffs: map[int]float64{idx: 1}, rhs: val})
	}
	allEqs := append(append([]eq{}, p.eqs...), extraEqs...)

	A, b, totalVars := toStandardForm(allEqs, p.ineqs, p.numColumns)
	c := make([]float64, totalVars) // slacks contribute 0 to the objective
	copy(c, p.c)

	z, x, err := lp.Simplex(c, A, b, 0, nil)
	if err != nil {
		return solution{}, false, nil
	}
	return solution{x: x[:p.numColumns], obj: z}, true, nil
}

// mostFractional returns the integral-constrained variable whose relaxed
// value is furthest from {0,1}, used as the branching heuristic.
func (p *bnbProblem) mostFractional(x []float64) (idx int, frac float64, found bool) {
	best := -1.0
	bestIdx := -1
	for i, isInt := range p.integral {
		if !isInt {
			continue
		}
		v := x[i]
		d := math.Min(v, 1-v)
		if d > integralTolerance && d > best {
			best = d
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return 0, 0, false
	}
	return bestIdx, x[bestIdx], true
}

// timeoutContext bounds a single MILP solve to the configured wall-clock
// limit (spec.md §4.4 scheduler.timeout).
func timeoutContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
