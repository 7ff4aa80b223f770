package models

// Stats aggregates entity totals for the dashboard.
type Stats struct {
	TotalCourses  int `db:"total_courses" json:"total_courses"`
	TotalTeachers int `db:"total_teachers" json:"total_teachers"`
	TotalRooms    int `db:"total_rooms" json:"total_rooms"`
	TotalUsers    int `db:"total_users" json:"total_users"`
}
