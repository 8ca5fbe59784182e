// Package milp builds and solves the per-allocation scheduling MILP
// (spec.md §4.4): timepoints, disjunctive mutex orderings, and robot-
// timeline transition booleans, refined through a lazy cutting-plane loop
// around motion-planning queries.
package milp

import "github.com/gneville6/ditags/internal/schedule"

// varKind tags what a column of the LP relaxation represents, for decoding
// the branch-and-bound incumbent back into a Result.
type varKind int

const (
	varStart varKind = iota
	varFinish
	varMutexOrder   // p_{ij}: 1 => task i precedes task j
	varTransition   // x^r_{ij}: 1 => on robot r, i immediately precedes j
	varFirstOnRobot // x^r_{*j}: 1 => j is robot r's first task
	varMakespan
)

// variable describes one column.
type variable struct {
	kind        varKind
	task        int // varStart/varFinish/varFirstOnRobot
	mutex       schedule.Pair
	transition  schedule.Edge
	robot       int
	integral    bool
}

// layout assigns stable column indices to every variable the MILP needs for
// one Model, in the order: starts, finishes, makespan, mutex booleans, then
// for each robot its first-on-robot booleans followed by its transition
// booleans.
type layout struct {
	vars      []variable
	startIdx  []int
	finishIdx []int
	makespan  int
	mutexIdx  map[schedule.Pair]int
	transIdx  map[transKey]int
	firstIdx  map[firstKey]int
}

type transKey struct {
	schedule.Edge
	Robot int
}

type firstKey struct {
	Robot, Task int
}

func newLayout(m *schedule.Model) *layout {
	n := len(m.Tasks)
	l := &layout{
		startIdx:  make([]int, n),
		finishIdx: make([]int, n),
		mutexIdx:  make(map[schedule.Pair]int),
		transIdx:  make(map[transKey]int),
		firstIdx:  make(map[firstKey]int),
	}

	add := func(v variable) int {
		idx := len(l.vars)
		l.vars = append(l.vars, v)
		return idx
	}

	for i := range m.Tasks {
		l.startIdx[i] = add(variable{kind: varStart, task: i})
	}
	for i := range m.Tasks {
		l.finishIdx[i] = add(variable{kind: varFinish, task: i})
	}
	l.makespan = add(variable{kind: varMakespan})

	for _, p := range m.Mutex {
		l.mutexIdx[p] = add(variable{kind: varMutexOrder, mutex: p, integral: true})
	}

	for r, tasks := range m.RobotTasks {
		for _, i := range tasks {
			l.firstIdx[firstKey{r, i}] = add(variable{kind: varFirstOnRobot, task: i, robot: r, integral: true})
		}
		for a := 0; a < len(tasks); a++ {
			for b := 0; b < len(tasks); b++ {
				if a == b {
					continue
				}
				e := schedule.Edge{From: tasks[a], To: tasks[b]}
				l.transIdx[transKey{e, r}] = add(variable{kind: varTransition, transition: e, robot: r, integral: true})
			}
		}
	}

	return l
}

func (l *layout) numVars() int { return len(l.vars) }

func (l *layout) integrality() []bool {
	out := make([]bool, len(l.vars))
	for i, v := range l.vars {
		out[i] = v.integral
	}
	return out
}
