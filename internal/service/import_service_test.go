package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schooldesk/timetable-api/internal/models"
	appErrors "github.com/schooldesk/timetable-api/pkg/errors"
)

type mockImportRoomFinder struct {
	rooms map[string]*models.Room
}

func (m *mockImportRoomFinder) FindByName(ctx context.Context, name string) (*models.Room, error) {
	if room, ok := m.rooms[name]; ok {
		cp := *room
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type mockCourseFinder struct {
	courses map[string]*models.Course
}

func (m *mockCourseFinder) FindByNameAndScope(ctx context.Context, name string, scope models.Scope) (*models.Course, error) {
	if course, ok := m.courses[name]; ok && course.Year == scope.Year && course.Trimester == scope.Trimester {
		cp := *course
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type mockCourseWriter struct {
	created []CreateCourseRequest
	updated []UpdateCourseRequest
	err     error
}

func (m *mockCourseWriter) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = append(m.created, req)
	return &models.Course{ID: int64(len(m.created)), Name: req.Name}, nil
}

func (m *mockCourseWriter) Update(ctx context.Context, id int64, req UpdateCourseRequest) (*models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.updated = append(m.updated, req)
	return &models.Course{ID: id, Name: req.Name}, nil
}

func TestImportServiceTeachers(t *testing.T) {
	repo := &mockTeacherRepo{items: map[int64]*models.Teacher{
		1: {ID: 1, Name: "Dr. Smith"},
	}, nextID: 1}
	service := NewImportService(repo, &mockImportRoomFinder{}, &mockCourseFinder{}, &mockCourseWriter{}, zap.NewNop())

	csv := strings.Join([]string{
		"name,department,email,phone",
		"Dr. Smith,Mathematics,smith@example.edu,",
		"Dr. Jones,Physics,,555-0100",
		",History,,",
	}, "\n")

	result, err := service.ImportTeachers(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 4, result.Errors[0].Row)

	updated := repo.items[1]
	require.NotNil(t, updated.Department)
	assert.Equal(t, "Mathematics", *updated.Department)
}

func TestImportServiceCourses(t *testing.T) {
	teachers := &mockTeacherRepo{items: map[int64]*models.Teacher{
		1: {ID: 1, Name: "Dr. Smith"},
	}}
	rooms := &mockImportRoomFinder{rooms: map[string]*models.Room{
		"A101": {ID: 10, Name: "A101"},
	}}
	finder := &mockCourseFinder{courses: map[string]*models.Course{
		"Algebra": {ID: 7, Name: "Algebra", Year: 2026, Trimester: 1},
	}}
	writer := &mockCourseWriter{}
	service := NewImportService(teachers, rooms, finder, writer, zap.NewNop())

	csv := strings.Join([]string{
		"name,teacher_name,room_name,day,start_time,end_time,year,trimester",
		"Algebra,Dr. Smith,A101,Monday,09:00,10:30,2026,1",
		"Physics,Dr. Smith,A101,Tuesday,10:00,11:00,2026,1",
		"Chemistry,Dr. Unknown,A101,Monday,11:00,12:00,2026,1",
		"Biology,Dr. Smith,B202,Monday,11:00,12:00,2026,1",
	}, "\n")

	result, err := service.ImportCourses(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 4, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Message, "Dr. Unknown")
	assert.Equal(t, 5, result.Errors[1].Row)
	assert.Contains(t, result.Errors[1].Message, "B202")

	require.Len(t, writer.created, 1)
	assert.Equal(t, "Physics", writer.created[0].Name)
	require.NotNil(t, writer.created[0].RoomID)
	assert.Equal(t, int64(10), *writer.created[0].RoomID)
	require.Len(t, writer.updated, 1)
	assert.Equal(t, "Algebra", writer.updated[0].Name)
}

func TestImportServiceCoursesGateErrorsBecomeRowErrors(t *testing.T) {
	teachers := &mockTeacherRepo{items: map[int64]*models.Teacher{
		1: {ID: 1, Name: "Dr. Smith"},
	}}
	rooms := &mockImportRoomFinder{rooms: map[string]*models.Room{
		"A101": {ID: 10, Name: "A101"},
	}}
	writer := &mockCourseWriter{err: appErrors.Clone(appErrors.ErrTimeSlotConflict, "")}
	service := NewImportService(teachers, rooms, &mockCourseFinder{}, writer, zap.NewNop())

	csv := "name,teacher_name,room_name,day,start_time,end_time,year,trimester\n" +
		"Algebra,Dr. Smith,A101,Monday,09:00,10:30,2026,1"

	result, err := service.ImportCourses(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Zero(t, result.Created)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "time slot conflict", result.Errors[0].Message)
}

func TestImportServiceTeachersBadFile(t *testing.T) {
	service := NewImportService(&mockTeacherRepo{}, &mockImportRoomFinder{}, &mockCourseFinder{}, &mockCourseWriter{}, zap.NewNop())

	_, err := service.ImportTeachers(context.Background(), strings.NewReader(""))
	require.Error(t, err)
}
