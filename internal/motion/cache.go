// Package motion memoises travel-time queries against the external motion
// planner (spec.md §4.1). It is the sole consumer of core.Planner.
package motion

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/gneville6/ditags/internal/core"
	"github.com/pkg/errors"
)

// key identifies one memoised query: species plus the two configurations.
// The configurations are held as interface values, so two keys match only
// when both hold the same concrete type with equal fields; every
// core.Configuration implementation in this module is a comparable struct.
type key struct {
	species core.SpeciesID
	from    core.Configuration
	to      core.Configuration
}

// entry is a memoised result. A poisoned entry (err != nil) short-circuits
// repeat queries instead of re-invoking the external planner.
type entry struct {
	duration time.Duration
	err      error
}

// Cache memoises (species, from, to) -> travel duration queries. It is
// safe for concurrent use by multiple readers and writers, following the
// single-writer/many-reader map pattern used for shared graphs elsewhere in
// the ecosystem: one sync.RWMutex guarding the whole map is sufficient here
// because queries are cheap to recompute and contention is low (only C4's
// MILP refinement step and warmup call into this cache).
type Cache struct {
	mu      sync.RWMutex
	entries map[key]entry
}

// NewCache constructs an empty motion cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[key]entry)}
}

// TravelTime returns the memoised travel duration from `from` to `to` under
// `species`, invoking species.Planner on a cache miss. Equal configurations
// return 0 successfully without consulting the planner. A query the planner
// reports as unreachable poisons the entry with core.ErrMotionInfeasible, and
// a query that returns an error poisons it with that error, so repeat
// queries for the same triple never re-invoke the external planner.
func (c *Cache) TravelTime(ctx context.Context, from, to core.Configuration, species *core.Species, timeout time.Duration) (time.Duration, error) {
	if from.Equal(to) {
		return 0, nil
	}

	k := key{species: species.ID, from: from, to: to}

	c.mu.RLock()
	e, ok := c.entries[k]
	c.mu.RUnlock()
	if ok {
		return e.duration, e.err
	}

	duration, success, err := species.Planner.Query(ctx, species, from, to, timeout)
	var result entry
	switch {
	case err != nil:
		result = entry{err: errors.Wrapf(err, "motion query species=%s", species.ID)}
	case !success:
		result = entry{err: errors.Wrapf(core.ErrMotionInfeasible, "species=%s", species.ID)}
	default:
		result = entry{duration: duration}
	}

	c.mu.Lock()
	c.entries[k] = result
	c.mu.Unlock()

	return result.duration, result.err
}

// LowerBound returns a cheap admissible lower bound on travel time: the
// Euclidean distance between the configurations' metric projections,
// divided by the species' nominal speed. It never consults the external
// planner and is used to bootstrap the first MILP iteration (spec.md §4.4).
func LowerBound(from, to core.Configuration, species *core.Species) time.Duration {
	if from.Equal(to) {
		return 0
	}
	dist := euclidean(from.Point(), to.Point())
	seconds := dist / species.Speed
	return time.Duration(seconds * float64(time.Second))
}

func euclidean(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
