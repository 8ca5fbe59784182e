package motion

import (
	"context"
	"time"

	"github.com/gneville6/ditags/internal/core"
	"golang.org/x/sync/errgroup"
)

// Edge is one (from, to, species) triple to resolve.
type Edge struct {
	From, To core.Configuration
	Species  *core.Species
}

// WarmFull resolves every edge's true travel time concurrently via the
// external planner, short-circuiting on the first failure. This is only
// used for edges the MILP scheduler has already committed to via its
// robot-timeline booleans (spec.md §4.4's lazy refinement) — never for a
// naive "plan every pair up front" sweep, which would be quadratic.
func (c *Cache) WarmFull(ctx context.Context, edges []Edge, timeout time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, e := range edges {
		e := e
		g.Go(func() error {
			_, err := c.TravelTime(gctx, e.From, e.To, e.Species, timeout)
			return err
		})
	}
	return g.Wait()
}
