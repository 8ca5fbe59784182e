package traits

import (
	"testing"

	"github.com/gneville6/ditags/internal/core"
	"gonum.org/v1/gonum/mat"
)

func species(id string, traits ...float64) *core.Species {
	return &core.Species{ID: core.SpeciesID(id), Traits: traits}
}

func TestPenalty_ZeroDesiredIsZero(t *testing.T) {
	d := mat.NewDense(1, 2, []float64{0, 0})
	c := mat.NewDense(1, 2, []float64{0, 0})
	if p := Penalty(d, c); p != 0 {
		t.Fatalf("want 0, got %v", p)
	}
}

func TestPenalty_FullySatisfiedIsZero(t *testing.T) {
	d := mat.NewDense(1, 2, []float64{1, 2})
	c := mat.NewDense(1, 2, []float64{1, 2})
	p := Penalty(d, c)
	if !Satisfies(p) {
		t.Fatalf("want satisfied, got penalty %v", p)
	}
}

func TestPenalty_FullShortfall(t *testing.T) {
	d := mat.NewDense(1, 2, []float64{2, 0})
	c := mat.NewDense(1, 2, []float64{0, 0})
	p := Penalty(d, c)
	if p != 1 {
		t.Fatalf("want 1 (fully unmet), got %v", p)
	}
}

func TestPenalty_OversupplyDoesNotGoNegative(t *testing.T) {
	d := mat.NewDense(1, 1, []float64{1})
	c := mat.NewDense(1, 1, []float64{5})
	if p := Penalty(d, c); p != 0 {
		t.Fatalf("oversupply should not increase penalty, got %v", p)
	}
}

func TestCoalitionMatrix_SumReduction(t *testing.T) {
	robots := []*core.Robot{
		{ID: "r0", Species: species("a", 1, 0)},
		{ID: "r1", Species: species("b", 0, 1)},
	}
	traitLen := 2
	robotTraits := RobotTraitMatrix(robots, traitLen)

	// task 0 gets both robots
	alloc := mat.NewDense(1, 2, []float64{1, 1})
	coalition := CoalitionMatrix(alloc, robotTraits, nil)
	if coalition.At(0, 0) != 1 || coalition.At(0, 1) != 1 {
		t.Fatalf("expected [1 1], got %v", mat.Formatted(coalition))
	}
}

func TestMonotoneUnderAddingRobot(t *testing.T) {
	robots := []*core.Robot{
		{ID: "r0", Species: species("a", 1, 0)},
		{ID: "r1", Species: species("b", 0, 1)},
	}
	robotTraits := RobotTraitMatrix(robots, 2)
	desired := mat.NewDense(1, 2, []float64{1, 1})

	before := mat.NewDense(1, 2, []float64{1, 0}) // only r0 assigned
	after := mat.NewDense(1, 2, []float64{1, 1})  // r0 and r1 assigned

	pBefore := Penalty(desired, CoalitionMatrix(before, robotTraits, nil))
	pAfter := Penalty(desired, CoalitionMatrix(after, robotTraits, nil))
	if pAfter > pBefore {
		t.Fatalf("penalty must be monotone non-increasing: before=%v after=%v", pBefore, pAfter)
	}
}
