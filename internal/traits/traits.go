// Package traits implements the robot-traits-matrix reduction and the
// traits-satisfaction penalty (spec.md §4.2).
package traits

import (
	"math"

	"github.com/gneville6/ditags/internal/core"
	"gonum.org/v1/gonum/mat"
)

// Tolerance below which a penalty is treated as exactly satisfied.
const Tolerance = 1e-9

// Reduction aggregates assigned robots' trait vectors into each task's
// coalition trait vector. The default is matrix multiplication A·T; this
// type exists so alternative reductions (e.g. max instead of sum) remain
// pluggable per spec.md §3.
type Reduction func(allocation *mat.Dense, robotTraits *mat.Dense) *mat.Dense

// SumReduction is the default reduction: C = A · T.
func SumReduction(allocation *mat.Dense, robotTraits *mat.Dense) *mat.Dense {
	m, _ := allocation.Dims()
	_, k := robotTraits.Dims()
	c := mat.NewDense(m, k, nil)
	c.Mul(allocation, robotTraits)
	return c
}

// RobotTraitMatrix builds the N×K matrix T aligned with robots, where row r
// is robots[r].Species.Traits.
func RobotTraitMatrix(robots []*core.Robot, traitLen int) *mat.Dense {
	n := len(robots)
	t := mat.NewDense(n, traitLen, nil)
	for r, robot := range robots {
		for j, v := range robot.Species.Traits {
			t.Set(r, j, v)
		}
	}
	return t
}

// DesiredTraitMatrix builds the M×K matrix D of tasks' desired traits.
func DesiredTraitMatrix(tasks []*core.Task, traitLen int) *mat.Dense {
	m := len(tasks)
	d := mat.NewDense(m, traitLen, nil)
	for i, task := range tasks {
		for j, v := range task.DesiredTraits {
			d.Set(i, j, v)
		}
	}
	return d
}

// CoalitionMatrix applies reduction (default SumReduction) to the allocation
// matrix and the robot-trait matrix, producing each task's coalition trait
// vector.
func CoalitionMatrix(allocation *mat.Dense, robotTraits *mat.Dense, reduction Reduction) *mat.Dense {
	if reduction == nil {
		reduction = SumReduction
	}
	return reduction(allocation, robotTraits)
}

// Penalty computes ‖relu(D − C)‖_F / ‖D‖_F, the normalised unmet-trait
// demand across all tasks (spec.md §4.2). When ‖D‖_F == 0 the penalty is
// defined as 0, since there is nothing to satisfy.
//
// The Frobenius norm is accumulated by hand (sqrt of the sum of squared
// entries) rather than via mat.Norm, to keep the definition pinned exactly
// to spec.md §4.2 regardless of how a given gonum version defines Norm for
// non-vector arguments.
func Penalty(desired, coalition *mat.Dense) float64 {
	m, k := desired.Dims()
	unmetSq := 0.0
	desiredSq := 0.0
	for i := 0; i < m; i++ {
		for j := 0; j < k; j++ {
			d := desired.At(i, j)
			diff := d - coalition.At(i, j)
			if diff < 0 {
				diff = 0
			}
			unmetSq += diff * diff
			desiredSq += d * d
		}
	}

	if desiredSq == 0 {
		return 0
	}
	return math.Sqrt(unmetSq) / math.Sqrt(desiredSq)
}

// Satisfies reports whether the penalty is zero within Tolerance.
func Satisfies(penalty float64) bool {
	return math.Abs(penalty) < Tolerance
}
