package milp

import (
	"github.com/gneville6/ditags/internal/schedule"
	"gonum.org/v1/gonum/mat"
)

// ineq is a sparse constraint row of the form (sum coeffs[v]*x_v) <= rhs.
type ineq struct {
	coeffs map[int]float64
	rhs    float64
}

// eq is a sparse equality row of the form (sum coeffs[v]*x_v) == rhs.
type eq struct {
	coeffs map[int]float64
	rhs    float64
}

// bigM returns a constant guaranteed to dominate any real timepoint in the
// model, used to slacken disjunctive and transition-timing constraints that
// are not "active" for a given assignment of the ordering booleans.
func bigM(m *schedule.Model) float64 {
	total := 0.0
	for _, d := range m.Durations {
		total += d.Seconds()
	}
	for _, ts := range m.Transitions {
		for _, t := range ts {
			total += t.Duration.Seconds()
		}
	}
	for _, ts := range m.InitialTransitions {
		for _, t := range ts {
			total += t.Duration.Seconds()
		}
	}
	return total*3 + 1
}

// build constructs every equality and inequality row for one Model
// (spec.md §4.4 constraints 1-6), over the columns described by l.
func build(m *schedule.Model, l *layout) (eqs []eq, ineqs []ineq, M float64) {
	M = bigM(m)
	n := len(m.Tasks)

	// 1. Duration: f_i - s_i = duration_i
	for i := 0; i < n; i++ {
		eqs = append(eqs, eq{
			coeffs: map[int]float64{l.finishIdx[i]: 1, l.startIdx[i]: -1},
			rhs:    m.Durations[i].Seconds(),
		})
	}

	// 2. Precedence (external edges; mutex pairs are ordered by group 3): f_i - s_j <= 0
	for i, succs := range m.Precedence {
		for _, j := range succs {
			ineqs = append(ineqs, ineq{
				coeffs: map[int]float64{l.finishIdx[i]: 1, l.startIdx[j]: -1},
				rhs:    0,
			})
		}
	}

	// 3. Disjunctive mutex: f_i - s_j + M*p_ij <= M  and  f_j - s_i - M*p_ij <= 0
	for _, p := range m.Mutex {
		pv := l.mutexIdx[p]
		ineqs = append(ineqs,
			ineq{coeffs: map[int]float64{l.finishIdx[p.I]: 1, l.startIdx[p.J]: -1, pv: M}, rhs: M},
			ineq{coeffs: map[int]float64{l.finishIdx[p.J]: 1, l.startIdx[p.I]: -1, pv: -M}, rhs: 0},
		)
	}

	// 4. Robot timeline.
	for r, tasks := range m.RobotTasks {
		if len(tasks) == 0 {
			continue
		}
		firstSum := map[int]float64{}
		for _, j := range tasks {
			firstSum[l.firstIdx[firstKey{r, j}]] = 1
		}
		eqs = append(eqs, eq{coeffs: firstSum, rhs: 1})

		for _, j := range tasks {
			row := map[int]float64{l.firstIdx[firstKey{r, j}]: 1}
			for _, i := range tasks {
				if i == j {
					continue
				}
				row[l.transIdx[transKey{schedule.Edge{From: i, To: j}, r}]] = 1
			}
			eqs = append(eqs, eq{coeffs: row, rhs: 1})
		}

		// At most one immediate successor per predecessor, keeping the
		// robot's tasks a single sequence rather than a branching tree.
		for _, i := range tasks {
			row := map[int]float64{}
			for _, j := range tasks {
				if i == j {
					continue
				}
				row[l.transIdx[transKey{schedule.Edge{From: i, To: j}, r}]] = 1
			}
			ineqs = append(ineqs, ineq{coeffs: row, rhs: 1})
		}
	}

	// 5. Transition timing.
	for r, tasks := range m.RobotTasks {
		for _, i := range tasks {
			for _, j := range tasks {
				if i == j {
					continue
				}
				e := schedule.Edge{From: i, To: j}
				dur := transitionDuration(m, e, r)
				xv := l.transIdx[transKey{e, r}]
				// s_j >= f_i + dur - M(1-x) => f_i - s_j + M*x <= M - dur
				ineqs = append(ineqs, ineq{
					coeffs: map[int]float64{l.finishIdx[i]: 1, l.startIdx[j]: -1, xv: M},
					rhs:    M - dur,
				})
			}
		}
		for _, j := range tasks {
			dur := initialTransitionDuration(m, j, r)
			fv := l.firstIdx[firstKey{r, j}]
			// s_j >= dur - M(1-x) => -s_j + M*x <= M - dur
			ineqs = append(ineqs, ineq{
				coeffs: map[int]float64{l.startIdx[j]: -1, fv: M},
				rhs:    M - dur,
			})
		}
	}

	// 6. Makespan: f_i - M_var <= 0
	for i := 0; i < n; i++ {
		ineqs = append(ineqs, ineq{
			coeffs: map[int]float64{l.finishIdx[i]: 1, l.makespan: -1},
			rhs:    0,
		})
	}

	// Binary upper bounds: x <= 1 for every integral variable.
	for idx, v := range l.vars {
		if v.integral {
			ineqs = append(ineqs, ineq{coeffs: map[int]float64{idx: 1}, rhs: 1})
		}
	}

	return eqs, ineqs, M
}

func transitionDuration(m *schedule.Model, e schedule.Edge, robot int) float64 {
	for _, t := range m.Transitions[e] {
		if t.Robot == robot {
			return t.Duration.Seconds()
		}
	}
	return 0
}

func initialTransitionDuration(m *schedule.Model, task, robot int) float64 {
	for _, t := range m.InitialTransitions[task] {
		if t.Robot == robot {
			return t.Duration.Seconds()
		}
	}
	return 0
}

// toStandardForm appends one slack column per inequality and returns the
// combined equality system (A x = b) gonum's lp.Simplex expects, following
// the same equalities-plus-slacks conversion the retrieved GoMILP reference
// performs before invoking the simplex relaxation.
func toStandardForm(eqs []eq, ineqs []ineq, numDecisionVars int) (A *mat.Dense, b []float64, totalVars int) {
	totalVars = numDecisionVars + len(ineqs)
	rows := len(eqs) + len(ineqs)
	A = mat.NewDense(rows, totalVars, nil)
	b = make([]float64, rows)

	row := 0
	for _, e := range eqs {
		for v, coef := range e.coeffs {
			A.Set(row, v, coef)
		}
		b[row] = e.rhs
		row++
	}
	for i, ineq := range ineqs {
		for v, coef := range ineq.coeffs {
			A.Set(row, v, coef)
		}
		A.Set(row, numDecisionVars+i, 1) // slack
		b[row] = ineq.rhs
		row++
	}
	return A, b, totalVars
}
