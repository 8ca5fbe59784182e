package core

import "github.com/pkg/errors"

// Error kinds, per spec.md §7. Scheduling failures (ErrMotionInfeasible,
// ErrMilpInfeasible, ErrSolverTimeoutNoIncumbent) are absorbed at the C4/C6
// boundary and turned into "this node cannot be a solution".
// ErrGlobalDeadline and ErrNoFeasibleAllocation are the search driver's own
// outcomes and are returned to its caller; ErrMalformedInput and
// ErrInternalInvariant are fatal and bubble up. Callers should compare with
// errors.Is, and wrap with
// errors.Wrapf to attach the offending node/edge/configuration before
// returning, so diagnostics survive up the stack.
var (
	ErrMalformedInput           = errors.New("malformed input")
	ErrMotionInfeasible         = errors.New("motion infeasible")
	ErrMilpInfeasible           = errors.New("milp infeasible")
	ErrSolverTimeoutNoIncumbent = errors.New("solver timeout with no incumbent")
	ErrSolverTimeoutIncumbent   = errors.New("solver timeout with incumbent")
	ErrGlobalDeadline           = errors.New("global deadline exceeded")
	ErrInternalInvariant        = errors.New("internal invariant violated")
	ErrNoFeasibleAllocation     = errors.New("no feasible allocation found")
)
