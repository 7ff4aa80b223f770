package service

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"github.com/schooldesk/timetable-api/internal/models"
	appErrors "github.com/schooldesk/timetable-api/pkg/errors"
)

type importTeacherRepository interface {
	FindByName(ctx context.Context, name string) (*models.Teacher, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
}

type importRoomFinder interface {
	FindByName(ctx context.Context, name string) (*models.Room, error)
}

type importCourseFinder interface {
	FindByNameAndScope(ctx context.Context, name string, scope models.Scope) (*models.Course, error)
}

type importCourseWriter interface {
	Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error)
	Update(ctx context.Context, id int64, req UpdateCourseRequest) (*models.Course, error)
}

type teacherCSVRow struct {
	Name       string `csv:"name"`
	Department string `csv:"department"`
	Email      string `csv:"email"`
	Phone      string `csv:"phone"`
}

type courseCSVRow struct {
	Name        string `csv:"name"`
	TeacherName string `csv:"teacher_name"`
	RoomName    string `csv:"room_name"`
	Day         string `csv:"day"`
	StartTime   string `csv:"start_time"`
	EndTime     string `csv:"end_time"`
	Year        int    `csv:"year"`
	Trimester   int    `csv:"trimester"`
}

// ImportService performs bulk CSV imports. Rows are upserted by exact name,
// row errors are collected instead of aborting the file, and course rows run
// through the same scheduling gate as single writes.
type ImportService struct {
	teachers     importTeacherRepository
	rooms        importRoomFinder
	courseFinder importCourseFinder
	courseWriter importCourseWriter
	logger       *zap.Logger
}

// NewImportService constructs an ImportService.
func NewImportService(teachers importTeacherRepository, rooms importRoomFinder, courseFinder importCourseFinder, courseWriter importCourseWriter, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{
		teachers:     teachers,
		rooms:        rooms,
		courseFinder: courseFinder,
		courseWriter: courseWriter,
		logger:       logger,
	}
}

// ImportTeachers upserts teacher rows keyed by exact name.
func (s *ImportService) ImportTeachers(ctx context.Context, r io.Reader) (*models.ImportResult, error) {
	var rows []teacherCSVRow
	if err := gocsv.Unmarshal(stripBOM(r), &rows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid CSV file")
	}

	result := &models.ImportResult{Processed: len(rows), Errors: []models.ImportRowError{}}
	for i, row := range rows {
		line := i + 2 // header is line 1
		name := strings.TrimSpace(row.Name)
		if name == "" {
			result.Errors = append(result.Errors, models.ImportRowError{Row: line, Message: "name is required"})
			continue
		}

		existing, err := s.teachers.FindByName(ctx, name)
		switch {
		case err == nil:
			existing.Department = optionalCSV(row.Department)
			existing.Email = optionalCSV(row.Email)
			existing.Phone = optionalCSV(row.Phone)
			if err := s.teachers.Update(ctx, existing); err != nil {
				result.Errors = append(result.Errors, models.ImportRowError{Row: line, Message: "failed to update teacher"})
				continue
			}
			result.Updated++
		case errors.Is(err, sql.ErrNoRows):
			teacher := &models.Teacher{
				Name:       name,
				Department: optionalCSV(row.Department),
				Email:      optionalCSV(row.Email),
				Phone:      optionalCSV(row.Phone),
			}
			if err := s.teachers.Create(ctx, teacher); err != nil {
				result.Errors = append(result.Errors, models.ImportRowError{Row: line, Message: "failed to create teacher"})
				continue
			}
			result.Created++
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up teacher")
		}
	}

	s.logger.Info("teacher import finished",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

// ImportCourses upserts course rows keyed by exact name within their
// (year, trimester) scope. Teacher and room references are resolved by exact
// name, and every row passes the scheduling gate.
func (s *ImportService) ImportCourses(ctx context.Context, r io.Reader) (*models.ImportResult, error) {
	var rows []courseCSVRow
	if err := gocsv.Unmarshal(stripBOM(r), &rows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid CSV file")
	}

	result := &models.ImportResult{Processed: len(rows), Errors: []models.ImportRowError{}}
	for i, row := range rows {
		line := i + 2
		if err := s.importCourseRow(ctx, row, result); err != nil {
			result.Errors = append(result.Errors, models.ImportRowError{Row: line, Message: rowMessage(err)})
		}
	}

	s.logger.Info("course import finished",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

func (s *ImportService) importCourseRow(ctx context.Context, row courseCSVRow, result *models.ImportResult) error {
	name := strings.TrimSpace(row.Name)
	if name == "" {
		return appErrors.Clone(appErrors.ErrValidation, "name is required")
	}

	var teacherID *int64
	if teacherName := strings.TrimSpace(row.TeacherName); teacherName != "" {
		teacher, err := s.teachers.FindByName(ctx, teacherName)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("teacher %q not found", teacherName))
			}
			return err
		}
		teacherID = &teacher.ID
	}

	var roomID *int64
	if roomName := strings.TrimSpace(row.RoomName); roomName != "" {
		room, err := s.rooms.FindByName(ctx, roomName)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("room %q not found", roomName))
			}
			return err
		}
		roomID = &room.ID
	}

	scope := models.Scope{Year: row.Year, Trimester: row.Trimester}
	existing, err := s.courseFinder.FindByNameAndScope(ctx, name, scope)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	if existing != nil {
		if _, err := s.courseWriter.Update(ctx, existing.ID, UpdateCourseRequest{
			Name:      name,
			TeacherID: teacherID,
			RoomID:    roomID,
			Day:       strings.TrimSpace(row.Day),
			StartTime: strings.TrimSpace(row.StartTime),
			EndTime:   strings.TrimSpace(row.EndTime),
			Year:      row.Year,
			Trimester: row.Trimester,
		}); err != nil {
			return err
		}
		result.Updated++
		return nil
	}

	if _, err := s.courseWriter.Create(ctx, CreateCourseRequest{
		Name:      name,
		TeacherID: teacherID,
		RoomID:    roomID,
		Day:       strings.TrimSpace(row.Day),
		StartTime: strings.TrimSpace(row.StartTime),
		EndTime:   strings.TrimSpace(row.EndTime),
		Year:      row.Year,
		Trimester: row.Trimester,
	}); err != nil {
		return err
	}
	result.Created++
	return nil
}

func rowMessage(err error) string {
	if appErr := appErrors.FromError(err); appErr != nil {
		return appErr.Message
	}
	return "internal error"
}

// stripBOM drops a leading UTF-8 byte order mark. Files re-uploaded from the
// downloadable templates carry one.
func stripBOM(r io.Reader) io.Reader {
	buf := bufio.NewReader(r)
	if lead, err := buf.Peek(3); err == nil && bytes.Equal(lead, []byte("\xef\xbb\xbf")) {
		buf.Discard(3) //nolint:errcheck
	}
	return buf
}

func optionalCSV(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
