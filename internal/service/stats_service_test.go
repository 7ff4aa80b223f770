package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schooldesk/timetable-api/internal/models"
	appErrors "github.com/schooldesk/timetable-api/pkg/errors"
)

type mockStatsRepo struct {
	stats *models.Stats
	calls int
}

func (m *mockStatsRepo) Totals(ctx context.Context, scope *models.Scope) (*models.Stats, error) {
	m.calls++
	cp := *m.stats
	return &cp, nil
}

type memoryCacheRepo struct {
	entries map[string][]byte
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

func TestStatsServiceWithoutCache(t *testing.T) {
	repo := &mockStatsRepo{stats: &models.Stats{TotalCourses: 12, TotalTeachers: 4}}
	service := NewStatsService(repo, nil, zap.NewNop())

	stats, cached, err := service.Get(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 12, stats.TotalCourses)
	assert.Equal(t, 1, repo.calls)
}

func TestStatsServiceCachesSecondRead(t *testing.T) {
	repo := &mockStatsRepo{stats: &models.Stats{TotalCourses: 12}}
	cache := NewCacheService(&memoryCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	service := NewStatsService(repo, cache, zap.NewNop())

	_, cached, err := service.Get(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, cached)

	stats, cached, err := service.Get(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 12, stats.TotalCourses)
	assert.Equal(t, 1, repo.calls)
}

func TestStatsServiceInvalidate(t *testing.T) {
	repo := &mockStatsRepo{stats: &models.Stats{TotalCourses: 12}}
	cache := NewCacheService(&memoryCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	service := NewStatsService(repo, cache, zap.NewNop())

	_, _, err := service.Get(context.Background(), nil)
	require.NoError(t, err)
	service.Invalidate(context.Background(), nil)

	_, cached, err := service.Get(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, repo.calls)
}

func TestStatsServiceScopedKeyIsSeparate(t *testing.T) {
	repo := &mockStatsRepo{stats: &models.Stats{TotalCourses: 12}}
	cache := NewCacheService(&memoryCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	service := NewStatsService(repo, cache, zap.NewNop())

	_, _, err := service.Get(context.Background(), nil)
	require.NoError(t, err)

	scope := &models.Scope{Year: 2026, Trimester: 1}
	_, cached, err := service.Get(context.Background(), scope)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, repo.calls)
}
