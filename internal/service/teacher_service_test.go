package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schooldesk/timetable-api/internal/models"
	appErrors "github.com/schooldesk/timetable-api/pkg/errors"
)

type mockTeacherRepo struct {
	items      map[int64]*models.Teacher
	nextID     int64
	listResult []models.Teacher
	listTotal  int
	listErr    error
	deleted    []int64
}

func (m *mockTeacherRepo) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.listResult, m.listTotal, nil
}

func (m *mockTeacherRepo) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	if teacher, ok := m.items[id]; ok {
		cp := *teacher
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTeacherRepo) FindByName(ctx context.Context, name string) (*models.Teacher, error) {
	for _, teacher := range m.items {
		if teacher.Name == name {
			cp := *teacher
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	if m.items == nil {
		m.items = make(map[int64]*models.Teacher)
	}
	m.nextID++
	teacher.ID = m.nextID
	now := time.Now()
	teacher.CreatedAt = now
	teacher.UpdatedAt = now
	cp := *teacher
	m.items[teacher.ID] = &cp
	return nil
}

func (m *mockTeacherRepo) Update(ctx context.Context, teacher *models.Teacher) error {
	if m.items == nil {
		m.items = make(map[int64]*models.Teacher)
	}
	cp := *teacher
	m.items[teacher.ID] = &cp
	return nil
}

func (m *mockTeacherRepo) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	delete(m.items, id)
	return nil
}

type mockCourseCounter struct {
	byTeacher map[int64]int
	byRoom    map[int64]int
}

func (m *mockCourseCounter) CountByTeacher(ctx context.Context, teacherID int64) (int, error) {
	return m.byTeacher[teacherID], nil
}

func (m *mockCourseCounter) CountByRoom(ctx context.Context, roomID int64) (int, error) {
	return m.byRoom[roomID], nil
}

func TestTeacherServiceCreate(t *testing.T) {
	repo := &mockTeacherRepo{}
	service := NewTeacherService(repo, &mockCourseCounter{}, validator.New(), zap.NewNop())

	dept := "Mathematics"
	teacher, err := service.Create(context.Background(), CreateTeacherRequest{
		Name:       "  Dr. Smith  ",
		Department: &dept,
	})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Smith", teacher.Name)
	require.NotNil(t, teacher.Department)
	assert.Equal(t, "Mathematics", *teacher.Department)
	assert.Len(t, repo.items, 1)
}

func TestTeacherServiceCreateBlankName(t *testing.T) {
	service := NewTeacherService(&mockTeacherRepo{}, &mockCourseCounter{}, validator.New(), zap.NewNop())

	_, err := service.Create(context.Background(), CreateTeacherRequest{Name: "   "})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTeacherServiceDeleteGuard(t *testing.T) {
	repo := &mockTeacherRepo{items: map[int64]*models.Teacher{
		1: {ID: 1, Name: "Dr. Smith"},
	}}
	counter := &mockCourseCounter{byTeacher: map[int64]int{1: 3}}
	service := NewTeacherService(repo, counter, validator.New(), zap.NewNop())

	err := service.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrResourceInUse.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}

func TestTeacherServiceDelete(t *testing.T) {
	repo := &mockTeacherRepo{items: map[int64]*models.Teacher{
		1: {ID: 1, Name: "Dr. Smith"},
	}}
	service := NewTeacherService(repo, &mockCourseCounter{}, validator.New(), zap.NewNop())

	require.NoError(t, service.Delete(context.Background(), 1))
	assert.Equal(t, []int64{1}, repo.deleted)
}

func TestTeacherServiceGetNotFound(t *testing.T) {
	service := NewTeacherService(&mockTeacherRepo{}, &mockCourseCounter{}, validator.New(), zap.NewNop())

	_, err := service.Get(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
