package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schooldesk/timetable-api/internal/models"
)

type fakeConflictSrv struct {
	conflicts []models.Conflict
	err       error
	lastScope models.Scope
}

func (f *fakeConflictSrv) Detect(_ context.Context, scope models.Scope) ([]models.Conflict, error) {
	f.lastScope = scope
	if f.err != nil {
		return nil, f.err
	}
	return f.conflicts, nil
}

func TestConflictHandlerRequiresScope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewConflictHandler(&fakeConflictSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/conflicts?year=2026", nil)

	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConflictHandlerRejectsNonNumericScope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewConflictHandler(&fakeConflictSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/conflicts?year=abc&trimester=1", nil)

	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConflictHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeConflictSrv{conflicts: []models.Conflict{{
		Kind:    models.ConflictKindRoom,
		Message: "room A101 double-booked",
	}}}
	handler := NewConflictHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/conflicts?year=2026&trimester=1", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.Scope{Year: 2026, Trimester: 1}, srv.lastScope)

	var envelope struct {
		Data []models.Conflict      `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, models.ConflictKindRoom, envelope.Data[0].Kind)
	assert.EqualValues(t, 1, envelope.Meta["count"])
}
