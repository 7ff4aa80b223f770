package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/schooldesk/timetable-api/internal/models"
)

const roomColumns = `r.id, r.name, r.building, r.capacity, r.room_type,
	(SELECT COUNT(*) FROM courses c WHERE c.room_id = r.id) AS course_count,
	r.created_at, r.updated_at`

// RoomRepository manages persistence for rooms.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs a RoomRepository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// List returns rooms with their course counts along with the total count.
func (r *RoomRepository) List(ctx context.Context, filter models.RoomFilter) ([]models.Room, int, error) {
	base := "FROM rooms r WHERE 1=1"
	var args []interface{}

	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		base += fmt.Sprintf(" AND (LOWER(r.name) LIKE $%d OR LOWER(COALESCE(r.building, '')) LIKE $%d)", len(args)+1, len(args)+1)
		args = append(args, search)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY r.name ASC LIMIT %d OFFSET %d", roomColumns, base, size, offset)
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list rooms: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count rooms: %w", err)
	}

	return rooms, total, nil
}

// FindByID fetches a room by ID.
func (r *RoomRepository) FindByID(ctx context.Context, id int64) (*models.Room, error) {
	query := fmt.Sprintf("SELECT %s FROM rooms r WHERE r.id = $1", roomColumns)
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, err
	}
	return &room, nil
}

// FindByName fetches a room by exact name, the lookup key used by the CSV
// import.
func (r *RoomRepository) FindByName(ctx context.Context, name string) (*models.Room, error) {
	query := fmt.Sprintf("SELECT %s FROM rooms r WHERE r.name = $1", roomColumns)
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, name); err != nil {
		return nil, err
	}
	return &room, nil
}

// Create inserts a new room record.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	now := time.Now().UTC()
	room.CreatedAt = now
	room.UpdatedAt = now

	const query = `INSERT INTO rooms (name, building, capacity, room_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query,
		room.Name, room.Building, room.Capacity, room.RoomType,
		room.CreatedAt, room.UpdatedAt,
	).Scan(&room.ID); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// Update modifies an existing room record.
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	room.UpdatedAt = time.Now().UTC()
	const query = `UPDATE rooms SET name = $1, building = $2, capacity = $3, room_type = $4, updated_at = $5 WHERE id = $6`
	if _, err := r.db.ExecContext(ctx, query,
		room.Name, room.Building, room.Capacity, room.RoomType,
		room.UpdatedAt, room.ID,
	); err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	return nil
}

// Delete removes a room by id. Callers must verify no courses reference the
// room first.
func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	return nil
}
