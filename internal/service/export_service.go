package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/schooldesk/timetable-api/internal/models"
	appErrors "github.com/schooldesk/timetable-api/pkg/errors"
	"github.com/schooldesk/timetable-api/pkg/export"
)

type exportCourseLister interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders course listings and import templates as files.
type ExportService struct {
	courses exportCourseLister
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(courses exportCourseLister, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{courses: courses, csv: csv, pdf: pdf, logger: logger}
}

// Courses renders the filtered course list in the requested format, either
// "csv" or "pdf".
func (s *ExportService) Courses(ctx context.Context, filter models.CourseFilter, format string) (*ExportFile, error) {
	courses, err := s.courses.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}

	data := courseDataset(courses)
	switch format {
	case "csv", "":
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render CSV")
		}
		return &ExportFile{Content: content, ContentType: "text/csv", Filename: "courses.csv"}, nil
	case "pdf":
		content, err := s.pdf.Render(data, "Course Timetable")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render PDF")
		}
		return &ExportFile{Content: content, ContentType: "application/pdf", Filename: "courses.pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

// TeacherTemplate renders the CSV header row plus one sample line for the
// teacher import.
func (s *ExportService) TeacherTemplate() (*ExportFile, error) {
	data := export.Dataset{
		Headers: []string{"name", "department", "email", "phone"},
		Rows: []map[string]string{{
			"name":       "Dr. Jane Smith",
			"department": "Mathematics",
			"email":      "jane.smith@example.edu",
			"phone":      "555-0100",
		}},
	}
	content, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render template")
	}
	return &ExportFile{Content: content, ContentType: "text/csv", Filename: "teachers_template.csv"}, nil
}

// CourseTemplate renders the CSV header row plus one sample line for the
// course import.
func (s *ExportService) CourseTemplate() (*ExportFile, error) {
	data := export.Dataset{
		Headers: []string{"name", "teacher_name", "room_name", "day", "start_time", "end_time", "year", "trimester"},
		Rows: []map[string]string{{
			"name":         "Algebra I",
			"teacher_name": "Dr. Jane Smith",
			"room_name":    "A101",
			"day":          "Monday",
			"start_time":   "09:00",
			"end_time":     "10:30",
			"year":         "2026",
			"trimester":    "1",
		}},
	}
	content, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render template")
	}
	return &ExportFile{Content: content, ContentType: "text/csv", Filename: "courses_template.csv"}, nil
}

func courseDataset(courses []models.Course) export.Dataset {
	headers := []string{"name", "teacher", "room", "day", "start_time", "end_time", "year", "trimester"}
	rows := make([]map[string]string, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, map[string]string{
			"name":       c.Name,
			"teacher":    stringOrEmpty(c.TeacherName),
			"room":       stringOrEmpty(c.RoomName),
			"day":        c.Day,
			"start_time": c.StartTime,
			"end_time":   c.EndTime,
			"year":       fmt.Sprintf("%d", c.Year),
			"trimester":  fmt.Sprintf("%d", c.Trimester),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func stringOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
