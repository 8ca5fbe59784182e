package schedule

import (
	"testing"
	"time"

	"github.com/gneville6/ditags/internal/core"
)

func sp() *core.Species {
	return &core.Species{ID: "s", Speed: 1.0, Traits: []float64{1}}
}

func inputsWithTwoTasksOneRobot() *core.ProblemInputs {
	species := sp()
	t0 := &core.Task{ID: "t0", Initial: core.SE2Configuration{X: 0}, Terminal: core.SE2Configuration{X: 0}}
	t1 := &core.Task{ID: "t1", Initial: core.SE2Configuration{X: 3}, Terminal: core.SE2Configuration{X: 3}}
	r0 := &core.Robot{ID: "r0", Species: species, Initial: core.SE2Configuration{X: 0}}
	return &core.ProblemInputs{
		Species: map[core.SpeciesID]*core.Species{species.ID: species},
		Robots:  []*core.Robot{r0},
		Tasks:   []*core.Task{t0, t1},
	}
}

func TestDeriveMutexPairsSharedRobot(t *testing.T) {
	inputs := inputsWithTwoTasksOneRobot()
	alloc := [][]bool{{true}, {true}}
	m := New(alloc, inputs)

	if len(m.Mutex) != 1 || m.Mutex[0] != (Pair{0, 1}) {
		t.Fatalf("expected mutex pair {0,1}, got %v", m.Mutex)
	}
}

func TestMutexReductionDropsTransitivelyOrderedPairs(t *testing.T) {
	inputs := inputsWithTwoTasksOneRobot()
	inputs.Precedence = []core.PrecedenceEdge{{Before: "t0", After: "t1"}}
	alloc := [][]bool{{true}, {true}}
	m := New(alloc, inputs)

	if len(m.Mutex) != 0 {
		t.Fatalf("expected mutex pair to be reduced away, got %v", m.Mutex)
	}
}

func TestSeedTransitionsAreLowerBounds(t *testing.T) {
	inputs := inputsWithTwoTasksOneRobot()
	alloc := [][]bool{{true}, {true}}
	m := New(alloc, inputs)

	ts := m.Transitions[Edge{From: 0, To: 1}]
	if len(ts) != 1 || !ts[0].Bound {
		t.Fatalf("expected one lower-bound transition, got %v", ts)
	}
	if ts[0].Duration != 3*time.Second {
		t.Fatalf("expected 3s (distance 3 / speed 1), got %v", ts[0].Duration)
	}
}
