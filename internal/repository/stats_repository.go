package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schooldesk/timetable-api/internal/models"
)

// StatsRepository aggregates entity totals.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository constructs a StatsRepository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Totals counts courses, teachers, rooms and users. When a scope is given
// the course count is restricted to it; the other totals are global.
func (r *StatsRepository) Totals(ctx context.Context, scope *models.Scope) (*models.Stats, error) {
	var stats models.Stats
	if scope != nil {
		const query = `SELECT
			(SELECT COUNT(*) FROM courses WHERE year = $1 AND trimester = $2) AS total_courses,
			(SELECT COUNT(*) FROM teachers) AS total_teachers,
			(SELECT COUNT(*) FROM rooms) AS total_rooms,
			(SELECT COUNT(*) FROM users) AS total_users`
		if err := r.db.GetContext(ctx, &stats, query, scope.Year, scope.Trimester); err != nil {
			return nil, fmt.Errorf("scoped stats: %w", err)
		}
		return &stats, nil
	}

	const query = `SELECT
		(SELECT COUNT(*) FROM courses) AS total_courses,
		(SELECT COUNT(*) FROM teachers) AS total_teachers,
		(SELECT COUNT(*) FROM rooms) AS total_rooms,
		(SELECT COUNT(*) FROM users) AS total_users`
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return &stats, nil
}
