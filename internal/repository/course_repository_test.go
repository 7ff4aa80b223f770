package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schooldesk/timetable-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func courseRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "teacher_id", "room_id", "day", "start_time", "end_time",
		"year", "trimester", "teacher_name", "room_name", "room_building",
		"created_at", "updated_at",
	})
}

func TestCourseRepositoryListWithFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	rows := courseRows().
		AddRow(1, "Algebra", 5, 10, "Monday", "09:00", "10:30", 2025, 1, "Dr. Smith", "A101", "Main", time.Now(), time.Now())
	mock.ExpectQuery(`SELECT .* FROM courses c.*WHERE 1=1 AND c\.year = \$1 AND c\.trimester = \$2 AND c\.day = \$3 ORDER BY c\.day, c\.start_time`).
		WithArgs(2025, 1, "Monday").
		WillReturnRows(rows)

	year, trimester := 2025, 1
	courses, err := repo.List(context.Background(), models.CourseFilter{Year: &year, Trimester: &trimester, Day: "Monday"})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Algebra", courses[0].Name)
	require.NotNil(t, courses[0].TeacherName)
	assert.Equal(t, "Dr. Smith", *courses[0].TeacherName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListScopeOrdersByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	rows := courseRows().
		AddRow(1, "Algebra", 5, 10, "Monday", "09:00", "10:30", 2025, 1, nil, nil, nil, time.Now(), time.Now()).
		AddRow(2, "Physics", 6, 10, "Monday", "10:00", "11:00", 2025, 1, nil, nil, nil, time.Now(), time.Now())
	mock.ExpectQuery(`SELECT .* FROM courses c.*WHERE c\.year = \$1 AND c\.trimester = \$2 ORDER BY c\.id`).
		WithArgs(2025, 1).
		WillReturnRows(rows)

	courses, err := repo.ListScope(context.Background(), models.Scope{Year: 2025, Trimester: 1})
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, int64(1), courses[0].ID)
	assert.Equal(t, int64(2), courses[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryGateLockAndCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	scope := models.Scope{Year: 2025, Trimester: 1}
	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(\$1\)`).
		WithArgs(roomScopeLockKey(10, "Monday", scope)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	lockRows := sqlmock.NewRows([]string{
		"id", "name", "teacher_id", "room_id", "day", "start_time", "end_time",
		"year", "trimester", "created_at", "updated_at",
	}).AddRow(1, "Algebra", 5, 10, "Monday", "09:00", "10:00", 2025, 1, time.Now(), time.Now())
	mock.ExpectQuery(`SELECT .* FROM courses\s+WHERE room_id = \$1 AND day = \$2 AND year = \$3 AND trimester = \$4\s+FOR UPDATE`).
		WithArgs(int64(10), "Monday", 2025, 1).
		WillReturnRows(lockRows)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO courses")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	roomID := int64(10)
	require.NoError(t, repo.LockRoomScope(ctx, tx, roomID, "Monday", scope))
	existing, err := repo.ListRoomScopeForUpdate(ctx, tx, roomID, "Monday", scope)
	require.NoError(t, err)
	require.Len(t, existing, 1)

	teacherID := int64(6)
	course := &models.Course{
		Name: "Chemistry", TeacherID: &teacherID, RoomID: &roomID,
		Day: "Monday", StartTime: "10:00", EndTime: "11:00", Year: 2025, Trimester: 1,
	}
	require.NoError(t, repo.CreateTx(ctx, tx, course))
	assert.Equal(t, int64(7), course.ID)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryLockRoomScopeEmptySlot(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	scope := models.Scope{Year: 2025, Trimester: 1}
	mock.ExpectBegin()
	// The advisory lock is what serialises writers on a slot with no rows;
	// FOR UPDATE over an empty result set locks nothing.
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(\$1\)`).
		WithArgs(roomScopeLockKey(10, "Monday", scope)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .* FROM courses\s+WHERE room_id = \$1 AND day = \$2 AND year = \$3 AND trimester = \$4\s+FOR UPDATE`).
		WithArgs(int64(10), "Monday", 2025, 1).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "teacher_id", "room_id", "day", "start_time", "end_time",
			"year", "trimester", "created_at", "updated_at",
		}))
	mock.ExpectRollback()

	ctx := context.Background()
	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.LockRoomScope(ctx, tx, 10, "Monday", scope))
	existing, err := repo.ListRoomScopeForUpdate(ctx, tx, 10, "Monday", scope)
	require.NoError(t, err)
	assert.Empty(t, existing)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryLockRoomScopeKeyIsStable(t *testing.T) {
	scope := models.Scope{Year: 2025, Trimester: 1}
	assert.Equal(t, roomScopeLockKey(10, "Monday", scope), roomScopeLockKey(10, "Monday", scope))
	assert.NotEqual(t, roomScopeLockKey(10, "Monday", scope), roomScopeLockKey(11, "Monday", scope))
	assert.NotEqual(t, roomScopeLockKey(10, "Monday", scope), roomScopeLockKey(10, "Tuesday", scope))
	assert.NotEqual(t, roomScopeLockKey(10, "Monday", scope), roomScopeLockKey(10, "Monday", models.Scope{Year: 2025, Trimester: 2}))
}

func TestCourseRepositoryCountByRoom(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses WHERE room_id = $1")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByRoom(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
