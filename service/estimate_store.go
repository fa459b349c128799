package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"cost-seer/domain"
	"cost-seer/identity"
	"cost-seer/repository"
)

const listCachePrefix = "estimates:"

// EstimateStore scopes saved estimates to the current user. Without a signed
// in user every operation is a no-op.
type EstimateStore struct {
	repo     repository.EstimateRepository
	cache    repository.CacheRepository
	identity identity.Provider
	cacheTTL time.Duration
	logger   *slog.Logger

	// generations counts writes per owner. A list read only fills the
	// cache when no write happened while it was reading.
	genMu       sync.Mutex
	generations map[string]uint64
}

// NewEstimateStore creates an EstimateStore. cache may be nil to disable
// list caching.
func NewEstimateStore(
	repo repository.EstimateRepository,
	cache repository.CacheRepository,
	provider identity.Provider,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *EstimateStore {
	if provider == nil {
		provider = identity.ContextProvider{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EstimateStore{
		repo:     repo,
		cache:    cache,
		identity: provider,
		cacheTTL:    cacheTTL,
		logger:      logger,
		generations: make(map[string]uint64),
	}
}

// Append persists estimate for the current user. It returns nil without
// error when nobody is signed in.
func (s *EstimateStore) Append(ctx context.Context, estimate domain.Estimate) (*domain.SavedEstimate, error) {
	user, ok := s.identity.CurrentUser(ctx)
	if !ok {
		s.logger.Debug("append skipped, no identity")
		return nil, nil
	}

	saved, err := s.repo.Append(ctx, user.ID, estimate)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "append", Err: err}
	}
	s.invalidate(ctx, user.ID)

	s.logger.Info("estimate saved", "id", saved.ID, "owner", user.ID, "amount", saved.Amount)
	return &saved, nil
}

// List returns the current user's estimates, most recent first.
func (s *EstimateStore) List(ctx context.Context) ([]domain.SavedEstimate, error) {
	user, ok := s.identity.CurrentUser(ctx)
	if !ok {
		return []domain.SavedEstimate{}, nil
	}

	gen := s.generation(user.ID)
	if cached, ok := s.cached(ctx, user.ID); ok {
		return cached, nil
	}

	list, err := s.repo.ListByOwner(ctx, user.ID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list", Err: err}
	}
	if list == nil {
		list = []domain.SavedEstimate{}
	}
	s.store(ctx, user.ID, gen, list)
	return list, nil
}

// Delete removes the current user's estimate with the given id. Unknown or
// foreign ids succeed without effect.
func (s *EstimateStore) Delete(ctx context.Context, id string) error {
	user, ok := s.identity.CurrentUser(ctx)
	if !ok {
		return nil
	}

	if err := s.repo.DeleteByID(ctx, user.ID, id); err != nil {
		return &domain.PersistenceError{Op: "delete", Err: err}
	}
	s.invalidate(ctx, user.ID)

	s.logger.Info("estimate deleted", "id", id, "owner", user.ID)
	return nil
}

func (s *EstimateStore) cached(ctx context.Context, ownerID string) ([]domain.SavedEstimate, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, ok, err := s.cache.Get(ctx, listCachePrefix+ownerID)
	if err != nil {
		s.logger.Warn("estimate cache read failed", "owner", ownerID, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var list []domain.SavedEstimate
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		s.logger.Warn("estimate cache entry corrupt", "owner", ownerID, "error", err)
		return nil, false
	}
	if list == nil {
		list = []domain.SavedEstimate{}
	}
	return list, true
}

func (s *EstimateStore) generation(ownerID string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generations[ownerID]
}

// store caches list unless a write for ownerID landed after gen was read.
func (s *EstimateStore) store(ctx context.Context, ownerID string, gen uint64, list []domain.SavedEstimate) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(list)
	if err != nil {
		s.logger.Warn("estimate cache encode failed", "owner", ownerID, "error", err)
		return
	}

	s.genMu.Lock()
	defer s.genMu.Unlock()
	if s.generations[ownerID] != gen {
		s.logger.Debug("estimate list changed while reading, not cached", "owner", ownerID)
		return
	}
	if err := s.cache.Set(ctx, listCachePrefix+ownerID, string(raw), s.cacheTTL); err != nil {
		s.logger.Warn("estimate cache write failed", "owner", ownerID, "error", err)
	}
}

func (s *EstimateStore) invalidate(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}

	s.genMu.Lock()
	defer s.genMu.Unlock()
	s.generations[ownerID]++
	if err := s.cache.Delete(ctx, listCachePrefix+ownerID); err != nil {
		s.logger.Warn("estimate cache invalidate failed", "owner", ownerID, "error", err)
	}
}
