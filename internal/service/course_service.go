package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/schooldesk/timetable-api/internal/models"
	"github.com/schooldesk/timetable-api/internal/timetable"
	appErrors "github.com/schooldesk/timetable-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	BeginTx(ctx context.Context) (*sqlx.Tx, error)
	LockRoomScope(ctx context.Context, tx *sqlx.Tx, roomID int64, day string, scope models.Scope) error
	ListRoomScopeForUpdate(ctx context.Context, tx *sqlx.Tx, roomID int64, day string, scope models.Scope) ([]models.Course, error)
	CreateTx(ctx context.Context, tx *sqlx.Tx, course *models.Course) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, course *models.Course) error
	Delete(ctx context.Context, id int64) error
}

type courseTeacherFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Teacher, error)
}

type courseRoomFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Room, error)
}

// CreateCourseRequest represents payload for creating courses.
type CreateCourseRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	TeacherID *int64 `json:"teacher_id"`
	RoomID    *int64 `json:"room_id"`
	Day       string `json:"day" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	Year      int    `json:"year" validate:"required,min=2000,max=2100"`
	Trimester int    `json:"trimester" validate:"required,min=1,max=4"`
}

// UpdateCourseRequest represents payload for updating courses.
type UpdateCourseRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	TeacherID *int64 `json:"teacher_id"`
	RoomID    *int64 `json:"room_id"`
	Day       string `json:"day" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	Year      int    `json:"year" validate:"required,min=2000,max=2100"`
	Trimester int    `json:"trimester" validate:"required,min=1,max=4"`
}

// CourseService orchestrates course operations. Writes run through the
// scheduling gate inside a single transaction so a slot can never be
// double-booked by concurrent requests.
type CourseService struct {
	repo      courseRepository
	teachers  courseTeacherFinder
	rooms     courseRoomFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseRepository, teachers courseTeacherFinder, rooms courseRoomFinder, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, teachers: teachers, rooms: rooms, validator: validate, logger: logger}
}

// List returns courses matching the filter.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	if filter.Day != "" && !models.IsValidDay(filter.Day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid day %q", filter.Day))
	}
	courses, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return courses, nil
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create validates the payload, runs the room scheduling gate and inserts
// the course, all inside one transaction.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course := &models.Course{
		Name:      strings.TrimSpace(req.Name),
		TeacherID: req.TeacherID,
		RoomID:    req.RoomID,
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Year:      req.Year,
		Trimester: req.Trimester,
	}
	if err := s.validateSlot(course); err != nil {
		return nil, err
	}
	if err := s.resolveReferences(ctx, course); err != nil {
		return nil, err
	}

	if err := s.writeGated(ctx, course, 0, s.repo.CreateTx); err != nil {
		return nil, err
	}
	return s.reload(ctx, course)
}

// Update validates the payload and replaces the course, re-running the
// scheduling gate with the course's own row excluded.
func (s *CourseService) Update(ctx context.Context, id int64, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	course := &models.Course{
		ID:        existing.ID,
		Name:      strings.TrimSpace(req.Name),
		TeacherID: req.TeacherID,
		RoomID:    req.RoomID,
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Year:      req.Year,
		Trimester: req.Trimester,
		CreatedAt: existing.CreatedAt,
	}
	if err := s.validateSlot(course); err != nil {
		return nil, err
	}
	if err := s.resolveReferences(ctx, course); err != nil {
		return nil, err
	}

	if err := s.writeGated(ctx, course, id, s.repo.UpdateTx); err != nil {
		return nil, err
	}
	return s.reload(ctx, course)
}

// Delete removes a course by id.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	return nil
}

// validateSlot checks the day and time fields beyond what struct tags cover.
func (s *CourseService) validateSlot(course *models.Course) error {
	if course.Name == "" {
		return appErrors.Clone(appErrors.ErrValidation, "course name is required")
	}
	if !models.IsValidDay(course.Day) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid day %q", course.Day))
	}
	if _, err := timetable.NewInterval(course.Day, course.StartTime, course.EndTime); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	return nil
}

// resolveReferences verifies the teacher and room foreign keys exist.
func (s *CourseService) resolveReferences(ctx context.Context, course *models.Course) error {
	if course.TeacherID != nil {
		if _, err := s.teachers.FindByID(ctx, *course.TeacherID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("teacher %d not found", *course.TeacherID))
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve teacher")
		}
	}
	if course.RoomID != nil {
		if _, err := s.rooms.FindByID(ctx, *course.RoomID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("room %d not found", *course.RoomID))
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve room")
		}
	}
	return nil
}

// writeGated runs the admission check and the write in one transaction. An
// advisory lock on the slot scope serialises concurrent writers even when the
// slot holds no rows yet, and the FOR UPDATE read then pins the rows that do
// exist until commit, so the second writer always sees the first one's row.
func (s *CourseService) writeGated(ctx context.Context, course *models.Course, excludeID int64, write func(context.Context, *sqlx.Tx, *models.Course) error) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if course.RoomID != nil {
		scope := models.Scope{Year: course.Year, Trimester: course.Trimester}
		if err := s.repo.LockRoomScope(ctx, tx, *course.RoomID, course.Day, scope); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock room slot")
		}
		existing, err := s.repo.ListRoomScopeForUpdate(ctx, tx, *course.RoomID, course.Day, scope)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock room slots")
		}
		decision := timetable.Admit(*course, existing, excludeID)
		if !decision.Admitted {
			s.logger.Info("course rejected by scheduling gate",
				zap.Int64("room_id", *course.RoomID),
				zap.String("day", course.Day),
				zap.Int64("conflicting_course_id", decision.ConflictID))
			return appErrors.Clone(appErrors.ErrTimeSlotConflict, decision.Reason)
		}
	}

	if err := write(ctx, tx, course); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write course")
	}
	if err := tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit course")
	}
	return nil
}

// reload re-reads the course so responses carry the joined display fields.
func (s *CourseService) reload(ctx context.Context, course *models.Course) (*models.Course, error) {
	loaded, err := s.repo.FindByID(ctx, course.ID)
	if err != nil {
		s.logger.Warn("failed to reload course after write", zap.Int64("id", course.ID), zap.Error(err))
		return course, nil
	}
	return loaded, nil
}
