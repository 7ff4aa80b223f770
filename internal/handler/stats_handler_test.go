package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/schooldesk/timetable-api/internal/models"
)

type fakeStatsSrv struct {
	stats     *models.Stats
	cached    bool
	lastScope *models.Scope
}

func (f *fakeStatsSrv) Get(_ context.Context, scope *models.Scope) (*models.Stats, bool, error) {
	f.lastScope = scope
	return f.stats, f.cached, nil
}

func TestStatsHandlerGlobal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeStatsSrv{stats: &models.Stats{TotalCourses: 3}}
	handler := NewStatsHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/stats", nil)

	handler.Get(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, srv.lastScope)
}

func TestStatsHandlerScoped(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeStatsSrv{stats: &models.Stats{TotalCourses: 3}}
	handler := NewStatsHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/stats?year=2026&trimester=2", nil)

	handler.Get(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, &models.Scope{Year: 2026, Trimester: 2}, srv.lastScope)
}

func TestStatsHandlerHalfScopeRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewStatsHandler(&fakeStatsSrv{stats: &models.Stats{}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/stats?year=2026", nil)

	handler.Get(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
