package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/schooldesk/timetable-api/internal/models"
)

const courseColumns = `c.id, c.name, c.teacher_id, c.room_id, c.day, c.start_time, c.end_time, c.year, c.trimester,
	t.name AS teacher_name, r.name AS room_name, r.building AS room_building, c.created_at, c.updated_at`

const courseJoins = `FROM courses c
	LEFT JOIN teachers t ON c.teacher_id = t.id
	LEFT JOIN rooms r ON c.room_id = r.id`

// CourseRepository provides persistence for courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new course repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns courses matching the filter, joined with teacher and room
// display fields, ordered by day then start time.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	base := courseJoins + " WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("c.year = $%d", len(args)+1))
		args = append(args, *filter.Year)
	}
	if filter.Trimester != nil {
		conditions = append(conditions, fmt.Sprintf("c.trimester = $%d", len(args)+1))
		args = append(args, *filter.Trimester)
	}
	if filter.TeacherID != nil {
		conditions = append(conditions, fmt.Sprintf("c.teacher_id = $%d", len(args)+1))
		args = append(args, *filter.TeacherID)
	}
	if filter.RoomID != nil {
		conditions = append(conditions, fmt.Sprintf("c.room_id = $%d", len(args)+1))
		args = append(args, *filter.RoomID)
	}
	if filter.Day != "" {
		conditions = append(conditions, fmt.Sprintf("c.day = $%d", len(args)+1))
		args = append(args, filter.Day)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY c.day, c.start_time", courseColumns, base)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// ListScope returns every course of one (year, trimester) scope ordered by
// id, the snapshot shape the conflict detector expects.
func (r *CourseRepository) ListScope(ctx context.Context, scope models.Scope) ([]models.Course, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE c.year = $1 AND c.trimester = $2 ORDER BY c.id", courseColumns, courseJoins)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, scope.Year, scope.Trimester); err != nil {
		return nil, fmt.Errorf("list scope courses: %w", err)
	}
	return courses, nil
}

// FindByID loads a course with its joined display fields.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE c.id = $1", courseColumns, courseJoins)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByNameAndScope locates a course by exact name within a scope. Used by
// the CSV import to decide between insert and update.
func (r *CourseRepository) FindByNameAndScope(ctx context.Context, name string, scope models.Scope) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE c.name = $1 AND c.year = $2 AND c.trimester = $3", courseColumns, courseJoins)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, name, scope.Year, scope.Trimester); err != nil {
		return nil, err
	}
	return &course, nil
}

// BeginTx opens a transaction for the check-then-write sequence around the
// scheduling gate.
func (r *CourseRepository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin course tx: %w", err)
	}
	return tx, nil
}

// LockRoomScope takes a transaction-scoped advisory lock on the candidate's
// (room, day, year, trimester) slot. FOR UPDATE only locks rows that already
// exist, so an empty slot would let two concurrent writers both pass the
// gate; the advisory lock serialises them regardless of what the slot holds.
// Released automatically at commit or rollback.
func (r *CourseRepository) LockRoomScope(ctx context.Context, tx *sqlx.Tx, roomID int64, day string, scope models.Scope) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, roomScopeLockKey(roomID, day, scope)); err != nil {
		return fmt.Errorf("lock room slot scope: %w", err)
	}
	return nil
}

// roomScopeLockKey hashes the slot identity into the bigint key space
// pg_advisory_xact_lock expects.
func roomScopeLockKey(roomID int64, day string, scope models.Scope) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d:%s:%d:%d", roomID, day, scope.Year, scope.Trimester)
	return int64(h.Sum64())
}

// ListRoomScopeForUpdate loads and row-locks every course sharing the
// candidate's room, day and scope. Callers must take the scope advisory lock
// first; the row locks alone cover only rows that already exist.
func (r *CourseRepository) ListRoomScopeForUpdate(ctx context.Context, tx *sqlx.Tx, roomID int64, day string, scope models.Scope) ([]models.Course, error) {
	const query = `SELECT id, name, teacher_id, room_id, day, start_time, end_time, year, trimester, created_at, updated_at
		FROM courses
		WHERE room_id = $1 AND day = $2 AND year = $3 AND trimester = $4
		FOR UPDATE`
	var courses []models.Course
	if err := tx.SelectContext(ctx, &courses, query, roomID, day, scope.Year, scope.Trimester); err != nil {
		return nil, fmt.Errorf("lock room scope: %w", err)
	}
	return courses, nil
}

// CreateTx inserts a course inside the gate transaction.
func (r *CourseRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, course *models.Course) error {
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now

	const query = `INSERT INTO courses (name, teacher_id, room_id, day, start_time, end_time, year, trimester, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	if err := tx.QueryRowContext(ctx, query,
		course.Name, course.TeacherID, course.RoomID, course.Day,
		course.StartTime, course.EndTime, course.Year, course.Trimester,
		course.CreatedAt, course.UpdatedAt,
	).Scan(&course.ID); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// UpdateTx modifies a course inside the gate transaction.
func (r *CourseRepository) UpdateTx(ctx context.Context, tx *sqlx.Tx, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses
		SET name = $1, teacher_id = $2, room_id = $3, day = $4, start_time = $5, end_time = $6, year = $7, trimester = $8, updated_at = $9
		WHERE id = $10`
	if _, err := tx.ExecContext(ctx, query,
		course.Name, course.TeacherID, course.RoomID, course.Day,
		course.StartTime, course.EndTime, course.Year, course.Trimester,
		course.UpdatedAt, course.ID,
	); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// Delete removes a course by id.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}

// CountByTeacher reports how many courses reference a teacher.
func (r *CourseRepository) CountByTeacher(ctx context.Context, teacherID int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM courses WHERE teacher_id = $1`, teacherID); err != nil {
		return 0, fmt.Errorf("count courses by teacher: %w", err)
	}
	return count, nil
}

// CountByRoom reports how many courses reference a room.
func (r *CourseRepository) CountByRoom(ctx context.Context, roomID int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM courses WHERE room_id = $1`, roomID); err != nil {
		return 0, fmt.Errorf("count courses by room: %w", err)
	}
	return count, nil
}
