package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"cost-seer/domain"
)

// EstimateRepositoryMemory is an in-memory implementation of EstimateRepository.
type EstimateRepositoryMemory struct {
	mu    sync.Mutex
	data  []domain.SavedEstimate
	clock *MonotonicClock
}

// NewEstimateRepositoryMemory creates a new in-memory estimate repository.
func NewEstimateRepositoryMemory(now func() time.Time) *EstimateRepositoryMemory {
	return &EstimateRepositoryMemory{
		data:  []domain.SavedEstimate{},
		clock: NewMonotonicClock(now, time.Time{}),
	}
}

// Append stores the estimate in memory.
func (r *EstimateRepositoryMemory) Append(
	ctx context.Context,
	ownerID string,
	estimate domain.Estimate,
) (domain.SavedEstimate, error) {
	if err := ctx.Err(); err != nil {
		return domain.SavedEstimate{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	saved := domain.SavedEstimate{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Parameters: estimate.Parameters,
		Amount:     estimate.Amount,
		CreatedAt:  r.clock.Next(),
	}
	r.data = append(r.data, saved)
	return saved, nil
}

// ListByOwner returns the owner's estimates, most recent first.
func (r *EstimateRepositoryMemory) ListByOwner(
	ctx context.Context,
	ownerID string,
) ([]domain.SavedEstimate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := []domain.SavedEstimate{}
	for _, saved := range r.data {
		if saved.OwnerID == ownerID {
			out = append(out, saved)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// DeleteByID removes the owner's estimate with the given id. Unknown ids are
// ignored.
func (r *EstimateRepositoryMemory) DeleteByID(
	ctx context.Context,
	ownerID, id string,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.data[:0]
	for _, saved := range r.data {
		if saved.OwnerID == ownerID && saved.ID == id {
			continue
		}
		kept = append(kept, saved)
	}
	r.data = kept
	return nil
}

var _ EstimateRepository = (*EstimateRepositoryMemory)(nil)
