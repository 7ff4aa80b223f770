package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schooldesk/timetable-api/internal/models"
	appErrors "github.com/schooldesk/timetable-api/pkg/errors"
)

type mockScopeLister struct {
	courses []models.Course
	err     error
	scope   models.Scope
}

func (m *mockScopeLister) ListScope(ctx context.Context, scope models.Scope) ([]models.Course, error) {
	m.scope = scope
	if m.err != nil {
		return nil, m.err
	}
	return m.courses, nil
}

func TestConflictServiceDetect(t *testing.T) {
	teacherID := int64(5)
	roomA, roomB := int64(10), int64(11)
	lister := &mockScopeLister{courses: []models.Course{
		{ID: 1, Name: "Algebra", TeacherID: &teacherID, RoomID: &roomA, Day: "Monday", StartTime: "09:00", EndTime: "10:30", Year: 2026, Trimester: 1},
		{ID: 2, Name: "Physics", TeacherID: &teacherID, RoomID: &roomB, Day: "Monday", StartTime: "10:00", EndTime: "11:00", Year: 2026, Trimester: 1},
	}}
	service := NewConflictService(lister, zap.NewNop())

	conflicts, err := service.Detect(context.Background(), models.Scope{Year: 2026, Trimester: 1})
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictKindTeacher, conflicts[0].Kind)
	assert.Equal(t, models.Scope{Year: 2026, Trimester: 1}, lister.scope)
}

func TestConflictServiceDetectEmptyScope(t *testing.T) {
	service := NewConflictService(&mockScopeLister{}, zap.NewNop())

	conflicts, err := service.Detect(context.Background(), models.Scope{Year: 2026, Trimester: 2})
	require.NoError(t, err)
	assert.NotNil(t, conflicts)
	assert.Empty(t, conflicts)
}

func TestConflictServiceDetectInvalidScope(t *testing.T) {
	service := NewConflictService(&mockScopeLister{}, zap.NewNop())

	_, err := service.Detect(context.Background(), models.Scope{Year: 1999, Trimester: 1})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = service.Detect(context.Background(), models.Scope{Year: 2026, Trimester: 5})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
