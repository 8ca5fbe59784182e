package motion

import (
	"context"
	"time"

	"github.com/gneville6/ditags/internal/core"
)

// StraightLinePlanner is a core.Planner that assumes free space: travel time
// is the Euclidean distance between configurations divided by the species'
// speed. It never fails, and exists for fixtures and tests that need a real
// Planner without standing up a motion-planning library.
type StraightLinePlanner struct{}

// Query implements core.Planner.
func (StraightLinePlanner) Query(ctx context.Context, species *core.Species, from, to core.Configuration, timeout time.Duration) (time.Duration, bool, error) {
	select {
	case <-ctx.Done():
		return 0, false, ctx.Err()
	default:
	}
	return LowerBound(from, to, species), true, nil
}
