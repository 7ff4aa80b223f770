package models

import "time"

// Room represents a bookable room.
type Room struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Building    *string   `db:"building" json:"building,omitempty"`
	Capacity    *int      `db:"capacity" json:"capacity,omitempty"`
	RoomType    *string   `db:"room_type" json:"room_type,omitempty"`
	CourseCount int       `db:"course_count" json:"course_count"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// RoomFilter captures filtering options for listing rooms.
type RoomFilter struct {
	Search   string
	Page     int
	PageSize int
}
