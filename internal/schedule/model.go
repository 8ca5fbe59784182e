// Package schedule holds the per-candidate-allocation model consumed by the
// MILP scheduler: durations, precedence, mutex pairs, and transitions
// (spec.md §4.3).
package schedule

import (
	"time"

	"github.com/gneville6/ditags/internal/core"
	"github.com/gneville6/ditags/internal/motion"
)

// Transition is one (robot, duration) option for moving from a predecessor
// task to a successor task.
type Transition struct {
	Robot    int
	Duration time.Duration
	// Bound marks a duration that is still the Euclidean lower bound rather
	// than a true motion-planning result (spec.md §4.4's refinement loop).
	Bound bool
}

// Pair is an unordered mutex pair {i, j}: two distinct tasks sharing at
// least one assigned robot and not already transitively ordered. Stored
// with I < J.
type Pair struct{ I, J int }

// Edge is a directed (predecessor, successor) task pair, the key for
// transition durations.
type Edge struct{ From, To int }

// Model is the scheduler's view of one candidate allocation.
type Model struct {
	Tasks  []*core.Task
	Robots []*core.Robot

	Durations  []time.Duration // per task, starts at StaticDuration
	Precedence map[int][]int   // task -> tasks that must start after it finishes (external edges only; mutex orderings are not added here)
	Mutex      []Pair

	// Transitions[i][j] lists every robot assigned to both i and j with the
	// duration of moving from i's terminal configuration to j's initial
	// configuration under that robot.
	Transitions map[Edge][]Transition
	// InitialTransitions[taskIndex] lists, for every robot assigned to that
	// task, the duration from the robot's initial configuration to the
	// task's initial configuration.
	InitialTransitions map[int][]Transition

	// RobotTasks[r] lists the task indices robot r is assigned to, in no
	// particular order; the MILP decides their sequence.
	RobotTasks map[int][]int
}

// New builds a Model from an allocation matrix and problem inputs, with
// transitions seeded at the Euclidean lower bound (iteration 0 of §4.4).
func New(allocation [][]bool, inputs *core.ProblemInputs) *Model {
	m := &Model{
		Tasks:              inputs.Tasks,
		Robots:             inputs.Robots,
		Durations:          make([]time.Duration, len(inputs.Tasks)),
		Precedence:         make(map[int][]int),
		Transitions:        make(map[Edge][]Transition),
		InitialTransitions: make(map[int][]Transition),
		RobotTasks:         make(map[int][]int),
	}

	for i, t := range inputs.Tasks {
		m.Durations[i] = t.StaticDuration
	}
	for _, e := range inputs.Precedence {
		bi := inputs.TaskIndex(e.Before)
		ai := inputs.TaskIndex(e.After)
		m.Precedence[bi] = append(m.Precedence[bi], ai)
	}

	for r := range inputs.Robots {
		for i := range inputs.Tasks {
			if allocation[i][r] {
				m.RobotTasks[r] = append(m.RobotTasks[r], i)
			}
		}
	}

	m.Mutex = m.deriveMutexPairs()
	m.seedLowerBoundTransitions(inputs)
	return m
}

// deriveMutexPairs finds every pair of distinct tasks sharing >=1 assigned
// robot, then drops pairs already ordered by transitive precedence — that
// mutex could never be violated (spec.md §4.4 "Mutex reduction").
func (m *Model) deriveMutexPairs() []Pair {
	shared := make(map[Pair]bool)
	for _, tasks := range m.RobotTasks {
		for a := 0; a < len(tasks); a++ {
			for b := a + 1; b < len(tasks); b++ {
				i, j := tasks[a], tasks[b]
				if i > j {
					i, j = j, i
				}
				shared[Pair{i, j}] = true
			}
		}
	}

	reachable := m.transitiveClosure()

	var pairs []Pair
	for p := range shared {
		if reachable[p.I][p.J] || reachable[p.J][p.I] {
			continue
		}
		pairs = append(pairs, p)
	}
	return pairs
}

// transitiveClosure computes, for every task i, the set of tasks reachable
// via precedence edges (i.e. i must finish before them).
func (m *Model) transitiveClosure() map[int]map[int]bool {
	n := len(m.Tasks)
	reach := make(map[int]map[int]bool, n)
	for i := 0; i < n; i++ {
		reach[i] = make(map[int]bool)
		visit(i, m.Precedence, reach[i])
	}
	return reach
}

func visit(start int, adj map[int][]int, seen map[int]bool) {
	for _, next := range adj[start] {
		if !seen[next] {
			seen[next] = true
			visit(next, adj, seen)
		}
	}
}

func (m *Model) seedLowerBoundTransitions(inputs *core.ProblemInputs) {
	for r, tasks := range m.RobotTasks {
		robot := inputs.Robots[r]
		for _, i := range tasks {
			task := inputs.Tasks[i]
			dur := motion.LowerBound(robot.Initial, task.Initial, robot.Species)
			m.InitialTransitions[i] = append(m.InitialTransitions[i], Transition{Robot: r, Duration: dur, Bound: true})
		}
		for a := 0; a < len(tasks); a++ {
			for b := 0; b < len(tasks); b++ {
				if a == b {
					continue
				}
				i, j := tasks[a], tasks[b]
				dur := motion.LowerBound(inputs.Tasks[i].Terminal, inputs.Tasks[j].Initial, robot.Species)
				e := Edge{From: i, To: j}
				m.Transitions[e] = append(m.Transitions[e], Transition{Robot: r, Duration: dur, Bound: true})
			}
		}
	}
}
