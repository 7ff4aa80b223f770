package models

import "time"

// Days enumerates the accepted day-of-week values, in week order.
var Days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// IsValidDay reports whether day is one of the seven accepted values.
func IsValidDay(day string) bool {
	for _, d := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// Course represents a scheduled meeting within an academic year/trimester.
// Start and end times are wall-clock "HH:MM" strings at minute resolution;
// the start must be strictly before the end.
type Course struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	TeacherID *int64 `db:"teacher_id" json:"teacher_id"`
	RoomID    *int64 `db:"room_id" json:"room_id"`
	Day       string `db:"day" json:"day"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
	Year      int    `db:"year" json:"year"`
	Trimester int    `db:"trimester" json:"trimester"`

	// Denormalised display fields populated by list/detail queries.
	TeacherName  *string `db:"teacher_name" json:"teacher_name,omitempty"`
	RoomName     *string `db:"room_name" json:"room_name,omitempty"`
	RoomBuilding *string `db:"room_building" json:"room_building,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Scope is the (year, trimester) pair partitioning courses into independent
// scheduling universes. Courses in different scopes never conflict.
type Scope struct {
	Year      int
	Trimester int
}

// CourseFilter describes query params for listing courses.
type CourseFilter struct {
	Year      *int
	Trimester *int
	TeacherID *int64
	RoomID    *int64
	Day       string
}
