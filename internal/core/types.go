// Package core defines the domain model shared by every ITAGS component:
// robots, species, tasks, precedence edges, and the planner collaborator
// interface they are described against.
package core

import (
	"context"
	"time"
)

// SpeciesID, RobotID, and TaskID are opaque identifiers. They are strings
// rather than ints so that fixtures and external loaders can assign stable,
// human-readable names (mirroring the teacher's preference for named
// entities over positional indices).
type (
	SpeciesID string
	RobotID   string
	TaskID    string
)

// Planner is the external motion-planning collaborator. The core only
// consumes this interface (spec.md §6); OMPL-backed implementations live
// outside this module.
type Planner interface {
	// Query returns the travel duration from `from` to `to` for a robot of
	// the given species, or success=false if no path exists within timeout.
	Query(ctx context.Context, species *Species, from, to Configuration, timeout time.Duration) (duration time.Duration, success bool, err error)
}

// Species is an immutable equivalence class of robots: fixed trait vector,
// bounding radius, nominal speed, and a handle to the motion planner used
// for robots of this species. Two species with identical trait vectors may
// still differ in speed or radius.
type Species struct {
	ID             SpeciesID
	Traits         []float64
	BoundingRadius float64
	Speed          float64 // meters/second, must be > 0
	Planner        Planner
}

// Robot is an immutable agent: identity, species, and initial configuration.
type Robot struct {
	ID      RobotID
	Species *Species
	Initial Configuration
}

// Task is immutable work to be performed by some coalition of robots.
type Task struct {
	ID              TaskID
	StaticDuration  time.Duration // >= 0
	DesiredTraits   []float64     // same length as every species' trait vector
	Initial         Configuration
	Terminal        Configuration // == Initial for a point-like task
}

// PointLike reports whether the task's initial and terminal configurations
// coincide (no in-task travel).
func (t *Task) PointLike() bool {
	return t.Initial.Equal(t.Terminal)
}

// PrecedenceEdge is an ordering constraint: task i must finish before task j
// starts.
type PrecedenceEdge struct {
	Before TaskID
	After  TaskID
}
