package models

// ConflictKind distinguishes teacher from room double-bookings.
type ConflictKind string

const (
	ConflictKindTeacher ConflictKind = "teacher"
	ConflictKindRoom    ConflictKind = "room"
)

// Conflict is a derived report of two overlapping courses sharing a teacher
// or a room. Conflicts are recomputed on demand and never persisted.
type Conflict struct {
	Kind    ConflictKind `json:"kind"`
	CourseA CourseRef    `json:"course_a"`
	CourseB CourseRef    `json:"course_b"`
	Message string       `json:"message"`
}

// CourseRef summarises one side of a conflict pair.
type CourseRef struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Day         string  `json:"day"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	TeacherName *string `json:"teacher_name,omitempty"`
	RoomName    *string `json:"room_name,omitempty"`
}
