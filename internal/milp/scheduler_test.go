package milp

import (
	"context"
	"testing"
	"time"

	"github.com/gneville6/ditags/internal/core"
	"github.com/gneville6/ditags/internal/motion"
)

func straightLineSpecies(id core.SpeciesID, speed float64) *core.Species {
	return &core.Species{ID: id, Speed: speed, Traits: []float64{1}, Planner: motion.StraightLinePlanner{}}
}

// chainInputs mirrors spec.md §8 scenario A: a single robot doing two tasks
// back-to-back, where task 1 must finish before task 2 starts and the
// robot's initial configuration sits one unit before task 1.
func chainInputs() *core.ProblemInputs {
	species := straightLineSpecies("s", 1.0)
	t0 := &core.Task{ID: "t0", StaticDuration: 7 * time.Second, DesiredTraits: []float64{1},
		Initial: core.SE2Configuration{X: 1}, Terminal: core.SE2Configuration{X: 8}}
	t1 := &core.Task{ID: "t1", StaticDuration: 16 * time.Second, DesiredTraits: []float64{1},
		Initial: core.SE2Configuration{X: 8}, Terminal: core.SE2Configuration{X: 24}}
	r0 := &core.Robot{ID: "r0", Species: species, Initial: core.SE2Configuration{X: 0}}
	return &core.ProblemInputs{
		Species:    map[core.SpeciesID]*core.Species{species.ID: species},
		Robots:     []*core.Robot{r0},
		Tasks:      []*core.Task{t0, t1},
		Precedence: []core.PrecedenceEdge{{Before: "t0", After: "t1"}},
	}
}

func TestSchedulerSolve_SingleRobotChain(t *testing.T) {
	inputs := chainInputs()
	alloc := [][]bool{{true}, {true}}

	sched := NewScheduler(motion.NewCache(), 2*time.Second, time.Second)
	res, err := sched.Solve(context.Background(), alloc, inputs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Makespan < 23.9 || res.Makespan > 24.1 {
		t.Fatalf("expected makespan ~24, got %v", res.Makespan)
	}
	if len(res.Schedule) != 2 {
		t.Fatalf("expected 2 scheduled tasks, got %d", len(res.Schedule))
	}
}

// approxEqual reports whether a and b are within eps of each other, the way
// the teacher's solver tests tolerate floating-point scheduling noise.
func approxEqual(a, b, eps float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func scheduledStart(res Result, task core.TaskID) (float64, bool) {
	for _, st := range res.Schedule {
		if st.Task == task {
			return st.Start, true
		}
	}
	return 0, false
}

func scheduledFinish(res Result, task core.TaskID) (float64, bool) {
	for _, st := range res.Schedule {
		if st.Task == task {
			return st.Finish, true
		}
	}
	return 0, false
}

// TestSchedulerSolve_BranchingPrecedence mirrors spec.md §8 scenario B's
// shape: one task (t1) precedes two independent successors (t2, t3) that can
// therefore run concurrently on separate robots. Every robot starts at its
// own task's initial configuration, so the schedule is pinned entirely by
// precedence rather than by transition geometry.
func TestSchedulerSolve_BranchingPrecedence(t *testing.T) {
	species := straightLineSpecies("s", 1.0)
	t1 := &core.Task{ID: "t1", StaticDuration: time.Second, DesiredTraits: []float64{1},
		Initial: core.SE2Configuration{X: 0}, Terminal: core.SE2Configuration{X: 0}}
	t2 := &core.Task{ID: "t2", StaticDuration: 7 * time.Second, DesiredTraits: []float64{1},
		Initial: core.SE2Configuration{X: 100}, Terminal: core.SE2Configuration{X: 100}}
	t3 := &core.Task{ID: "t3", StaticDuration: 21 * time.Second, DesiredTraits: []float64{1},
		Initial: core.SE2Configuration{X: 200}, Terminal: core.SE2Configuration{X: 200}}

	r0 := &core.Robot{ID: "r0", Species: species, Initial: t1.Initial}
	r1 := &core.Robot{ID: "r1", Species: species, Initial: t2.Initial}
	r2 := &core.Robot{ID: "r2", Species: species, Initial: t3.Initial}

	inputs := &core.ProblemInputs{
		Species:    map[core.SpeciesID]*core.Species{species.ID: species},
		Robots:     []*core.Robot{r0, r1, r2},
		Tasks:      []*core.Task{t1, t2, t3},
		Precedence: []core.PrecedenceEdge{{Before: "t1", After: "t2"}, {Before: "t1", After: "t3"}},
	}
	// identity allocation: robot i does task i
	alloc := [][]bool{
		{true, false, false},
		{false, true, false},
		{false, false, true},
	}

	sched := NewScheduler(motion.NewCache(), 2*time.Second, time.Second)
	res, err := sched.Solve(context.Background(), alloc, inputs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !approxEqual(res.Makespan, 22, 0.1) {
		t.Fatalf("expected makespan ~22, got %v", res.Makespan)
	}
	for _, tc := range []struct {
		task          core.TaskID
		start, finish float64
	}{
		{"t1", 0, 1},
		{"t2", 1, 8},
		{"t3", 1, 22},
	} {
		start, ok := scheduledStart(res, tc.task)
		if !ok || !approxEqual(start, tc.start, 0.1) {
			t.Fatalf("task %s: expected start ~%v, got %v (found=%v)", tc.task, tc.start, start, ok)
		}
		finish, ok := scheduledFinish(res, tc.task)
		if !ok || !approxEqual(finish, tc.finish, 0.1) {
			t.Fatalf("task %s: expected finish ~%v, got %v (found=%v)", tc.task, tc.finish, finish, ok)
		}
	}
}

// TestSchedulerSolve_HeterogeneousFleetCoalitionTask mirrors spec.md §8
// scenario D's shape: seven tasks over a three-robot fleet where one task
// (t2) is a coalition requiring two robots simultaneously, chained through a
// multi-stage precedence graph. Every configuration coincides with its
// robot's, so transitions are free and the schedule is pinned entirely by
// precedence and each robot's own task sequence — a synthetic fixture with
// the same structure as the original scenario, not its literal geometry.
func TestSchedulerSolve_HeterogeneousFleetCoalitionTask(t *testing.T) {
	origin := core.SE2Configuration{X: 0}
	groundSlow := straightLineSpecies("ground-slow", 1.0)
	groundFast := straightLineSpecies("ground-fast", 2.0)
	aerial := straightLineSpecies("aerial", 1.5)

	mk := func(id core.TaskID, dur time.Duration) *core.Task {
		return &core.Task{ID: id, StaticDuration: dur, DesiredTraits: []float64{1}, Initial: origin, Terminal: origin}
	}
	t0 := mk("t0", 1*time.Second)
	t1 := mk("t1", 3*time.Second)
	t2 := mk("t2", 10*time.Second)
	t3 := mk("t3", 4*time.Second)
	t4 := mk("t4", 5*time.Second)
	t5 := mk("t5", 2*time.Second)
	t6 := mk("t6", 8*time.Second)

	r0 := &core.Robot{ID: "r0", Species: groundSlow, Initial: origin}
	r1 := &core.Robot{ID: "r1", Species: groundFast, Initial: origin}
	r2 := &core.Robot{ID: "r2", Species: aerial, Initial: origin}

	inputs := &core.ProblemInputs{
		Species: map[core.SpeciesID]*core.Species{groundSlow.ID: groundSlow, groundFast.ID: groundFast, aerial.ID: aerial},
		Robots:  []*core.Robot{r0, r1, r2},
		Tasks:   []*core.Task{t0, t1, t2, t3, t4, t5, t6},
		Precedence: []core.PrecedenceEdge{
			{Before: "t0", After: "t2"},
			{Before: "t2", After: "t4"},
			{Before: "t2", After: "t6"},
			{Before: "t1", After: "t3"},
			{Before: "t3", After: "t5"},
			{Before: "t4", After: "t6"},
			{Before: "t5", After: "t6"},
		},
	}
	// robot 0: {t0, t2, t6}; robot 1: {t1, t3, t5}; robot 2: {t2, t4} — t2 is
	// a two-robot coalition task, matching spec.md §8 scenario D's
	// allocation shape.
	alloc := [][]bool{
		{true, false, false}, // t0 -> r0
		{false, true, false}, // t1 -> r1
		{true, false, true},  // t2 -> r0, r2
		{false, true, false}, // t3 -> r1
		{false, false, true}, // t4 -> r2
		{false, true, false}, // t5 -> r1
		{true, false, false}, // t6 -> r0
	}

	sched := NewScheduler(motion.NewCache(), 2*time.Second, time.Second)
	res, err := sched.Solve(context.Background(), alloc, inputs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !approxEqual(res.Makespan, 24, 0.1) {
		t.Fatalf("expected makespan ~24, got %v", res.Makespan)
	}
	for _, tc := range []struct {
		task          core.TaskID
		start, finish float64
	}{
		{"t0", 0, 1},
		{"t1", 0, 3},
		{"t2", 1, 11},
		{"t3", 3, 7},
		{"t4", 11, 16},
		{"t5", 7, 9},
		{"t6", 16, 24},
	} {
		start, ok := scheduledStart(res, tc.task)
		if !ok || !approxEqual(start, tc.start, 0.1) {
			t.Fatalf("task %s: expected start ~%v, got %v (found=%v)", tc.task, tc.start, start, ok)
		}
		finish, ok := scheduledFinish(res, tc.task)
		if !ok || !approxEqual(finish, tc.finish, 0.1) {
			t.Fatalf("task %s: expected finish ~%v, got %v (found=%v)", tc.task, tc.finish, finish, ok)
		}
	}
}

func TestSchedulerSolve_MutualExclusionOnSharedRobot(t *testing.T) {
	species := straightLineSpecies("s", 1.0)
	t0 := &core.Task{ID: "t0", StaticDuration: 5 * time.Second, DesiredTraits: []float64{1},
		Initial: core.SE2Configuration{X: 0}, Terminal: core.SE2Configuration{X: 0}}
	t1 := &core.Task{ID: "t1", StaticDuration: 5 * time.Second, DesiredTraits: []float64{1},
		Initial: core.SE2Configuration{X: 0}, Terminal: core.SE2Configuration{X: 0}}
	r0 := &core.Robot{ID: "r0", Species: species, Initial: core.SE2Configuration{X: 0}}
	inputs := &core.ProblemInputs{
		Species: map[core.SpeciesID]*core.Species{species.ID: species},
		Robots:  []*core.Robot{r0},
		Tasks:   []*core.Task{t0, t1},
	}
	alloc := [][]bool{{true}, {true}}

	sched := NewScheduler(motion.NewCache(), 2*time.Second, time.Second)
	res, err := sched.Solve(context.Background(), alloc, inputs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One robot cannot run both 5s tasks concurrently: the mutex constraint
	// must force a makespan of at least 10s, not 5s.
	if res.Makespan < 9.9 {
		t.Fatalf("expected mutex-forced makespan >= 10, got %v", res.Makespan)
	}
}
