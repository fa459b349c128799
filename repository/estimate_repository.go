package repository

import (
	"context"
	"errors"

	"cost-seer/domain"
)

// ErrStoreNotConfigured is returned by a repository used before it was opened.
var ErrStoreNotConfigured = errors.New("estimate store is not configured")

// EstimateRepository persists estimates scoped to an owner. Every operation
// filters by ownerID; a record owned by someone else is never visible.
type EstimateRepository interface {
	Append(ctx context.Context, ownerID string, estimate domain.Estimate) (domain.SavedEstimate, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.SavedEstimate, error)
	DeleteByID(ctx context.Context, ownerID, id string) error
}

// ErrConstraintViolation marks a write rejected by a storage constraint.
var ErrConstraintViolation = errors.New("estimate violates storage constraint")
