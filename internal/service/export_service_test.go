package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schooldesk/timetable-api/internal/models"
	appErrors "github.com/schooldesk/timetable-api/pkg/errors"
)

type mockExportLister struct {
	courses []models.Course
}

func (m *mockExportLister) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	return m.courses, nil
}

func TestExportServiceCoursesCSV(t *testing.T) {
	teacherName, roomName := "Dr. Smith", "A101"
	lister := &mockExportLister{courses: []models.Course{{
		ID: 1, Name: "Algebra", Day: "Monday", StartTime: "09:00", EndTime: "10:30",
		Year: 2026, Trimester: 1, TeacherName: &teacherName, RoomName: &roomName,
	}}}
	service := NewExportService(lister, nil, nil, zap.NewNop())

	file, err := service.Courses(context.Background(), models.CourseFilter{}, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, "courses.csv", file.Filename)

	content := strings.TrimPrefix(string(file.Content), "\ufeff")
	assert.True(t, strings.HasPrefix(content, "name,teacher,room,day,start_time,end_time,year,trimester"))
	assert.Contains(t, content, "Algebra,Dr. Smith,A101,Monday,09:00,10:30,2026,1")
}

func TestExportServiceCoursesPDF(t *testing.T) {
	service := NewExportService(&mockExportLister{}, nil, nil, zap.NewNop())

	file, err := service.Courses(context.Background(), models.CourseFilter{}, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.NotEmpty(t, file.Content)
}

func TestExportServiceUnsupportedFormat(t *testing.T) {
	service := NewExportService(&mockExportLister{}, nil, nil, zap.NewNop())

	_, err := service.Courses(context.Background(), models.CourseFilter{}, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportServiceTemplates(t *testing.T) {
	service := NewExportService(&mockExportLister{}, nil, nil, zap.NewNop())

	teacher, err := service.TeacherTemplate()
	require.NoError(t, err)
	teacherCSV := strings.TrimPrefix(string(teacher.Content), "\ufeff")
	assert.True(t, strings.HasPrefix(teacherCSV, "name,department,email,phone"))

	course, err := service.CourseTemplate()
	require.NoError(t, err)
	courseCSV := strings.TrimPrefix(string(course.Content), "\ufeff")
	assert.True(t, strings.HasPrefix(courseCSV, "name,teacher_name,room_name,day,start_time,end_time,year,trimester"))
}
