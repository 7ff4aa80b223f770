package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/schooldesk/timetable-api/internal/models"
	appErrors "github.com/schooldesk/timetable-api/pkg/errors"
)

type statsRepository interface {
	Totals(ctx context.Context, scope *models.Scope) (*models.Stats, error)
}

// StatsService serves entity totals for the admin dashboard, optionally
// cached. Conflict detection is never cached, only these aggregates are.
type StatsService struct {
	repo   statsRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewStatsService constructs a StatsService. The cache may be nil.
func NewStatsService(repo statsRepository, cache *CacheService, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{repo: repo, cache: cache, logger: logger}
}

// Get returns entity totals, scoped to a (year, trimester) when provided.
// The boolean reports whether the payload was served from cache.
func (s *StatsService) Get(ctx context.Context, scope *models.Scope) (*models.Stats, bool, error) {
	key := statsCacheKey(scope)

	var cached models.Stats
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, true, nil
	}

	stats, err := s.repo.Totals(ctx, scope)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load stats")
	}

	if err := s.cache.Set(ctx, key, stats, 0); err != nil {
		s.logger.Warn("failed to cache stats", zap.String("key", key), zap.Error(err))
	}
	return stats, false, nil
}

// Invalidate drops cached totals after a write. Both the global and the
// scoped entry are cleared.
func (s *StatsService) Invalidate(ctx context.Context, scope *models.Scope) {
	keys := []string{statsCacheKey(nil)}
	if scope != nil {
		keys = append(keys, statsCacheKey(scope))
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.logger.Warn("failed to invalidate stats cache", zap.Error(err))
	}
}

func statsCacheKey(scope *models.Scope) string {
	if scope == nil {
		return "stats:global"
	}
	return fmt.Sprintf("stats:%d:%d", scope.Year, scope.Trimester)
}
