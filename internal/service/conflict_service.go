package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/schooldesk/timetable-api/internal/models"
	"github.com/schooldesk/timetable-api/internal/timetable"
	appErrors "github.com/schooldesk/timetable-api/pkg/errors"
)

type conflictCourseLister interface {
	ListScope(ctx context.Context, scope models.Scope) ([]models.Course, error)
}

// ConflictService runs the pairwise conflict detector over one scope.
type ConflictService struct {
	courses conflictCourseLister
	logger  *zap.Logger
}

// NewConflictService constructs a ConflictService.
func NewConflictService(courses conflictCourseLister, logger *zap.Logger) *ConflictService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictService{courses: courses, logger: logger}
}

// Detect loads every course of the scope and reports all teacher and room
// double-bookings. The result is a report, not a block: conflicting courses
// stay stored.
func (s *ConflictService) Detect(ctx context.Context, scope models.Scope) ([]models.Conflict, error) {
	if scope.Year < 2000 || scope.Year > 2100 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "year must be between 2000 and 2100")
	}
	if scope.Trimester < 1 || scope.Trimester > 4 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "trimester must be between 1 and 4")
	}

	courses, err := s.courses.ListScope(ctx, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scope courses")
	}

	conflicts := timetable.DetectConflicts(courses)
	if conflicts == nil {
		conflicts = []models.Conflict{}
	}
	s.logger.Debug("conflict detection completed",
		zap.Int("year", scope.Year),
		zap.Int("trimester", scope.Trimester),
		zap.Int("courses", len(courses)),
		zap.Int("conflicts", len(conflicts)))
	return conflicts, nil
}
