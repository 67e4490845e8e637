// Package repository defines the plan store interface and errors.
package repository

import (
	"context"

	"github.com/racedayai/planner/internal/domain/plan"
)

// Store provides read/write access to race plans keyed by id.
//
// The orchestrator is the sole writer of a given plan after creation;
// readers get a copy of the aggregate, so a poll never observes a
// half-applied mutation.
type Store interface {
	// Create registers a new plan. Returns ErrAlreadyExists when the id
	// is taken.
	Create(ctx context.Context, p *plan.RacePlan) error

	// Get returns a copy of the plan. Returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (*plan.RacePlan, error)

	// Update applies mutate to the stored plan under the shard lock and
	// returns a copy of the result. A non-nil error from mutate aborts
	// the update and is returned unchanged.
	Update(ctx context.Context, id string, mutate func(*plan.RacePlan) error) (*plan.RacePlan, error)

	// Count returns the number of plans tracked.
	Count(ctx context.Context) int
}
