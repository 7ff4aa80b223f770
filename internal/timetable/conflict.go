package timetable

import (
	"fmt"

	"github.com/schooldesk/timetable-api/internal/models"
)

// DetectConflicts compares every unordered pair of courses and reports the
// pairs that overlap in time and share a teacher or a room. The input must
// already be filtered to a single (year, trimester) scope; callers that need
// deterministic output should sort it by id first. A pair sharing both a
// teacher and a room yields two conflicts, one per kind.
//
// The scan is O(n²) over courses-per-scope, which stays cheap at the tens to
// low hundreds of courses a trimester holds.
func DetectConflicts(courses []models.Course) []models.Conflict {
	var conflicts []models.Conflict
	for i := 0; i < len(courses); i++ {
		a, ok := intervalOf(courses[i])
		if !ok {
			continue
		}
		for j := i + 1; j < len(courses); j++ {
			b, ok := intervalOf(courses[j])
			if !ok || !a.Overlaps(b) {
				continue
			}
			ci, cj := courses[i], courses[j]
			if ci.TeacherID != nil && cj.TeacherID != nil && *ci.TeacherID == *cj.TeacherID {
				conflicts = append(conflicts, newConflict(models.ConflictKindTeacher, ci, cj))
			}
			if ci.RoomID != nil && cj.RoomID != nil && *ci.RoomID == *cj.RoomID {
				conflicts = append(conflicts, newConflict(models.ConflictKindRoom, ci, cj))
			}
		}
	}
	return conflicts
}

func newConflict(kind models.ConflictKind, a, b models.Course) models.Conflict {
	var subject string
	switch kind {
	case models.ConflictKindTeacher:
		subject = "the same teacher"
		if a.TeacherName != nil {
			subject = *a.TeacherName
		}
	case models.ConflictKindRoom:
		subject = "the same room"
		if a.RoomName != nil {
			subject = "room " + *a.RoomName
		}
	}
	return models.Conflict{
		Kind:    kind,
		CourseA: courseRef(a),
		CourseB: courseRef(b),
		Message: fmt.Sprintf("%s is double-booked on %s: %q (%s-%s) overlaps %q (%s-%s)",
			subject, a.Day, a.Name, a.StartTime, a.EndTime, b.Name, b.StartTime, b.EndTime),
	}
}

func courseRef(c models.Course) models.CourseRef {
	return models.CourseRef{
		ID:          c.ID,
		Name:        c.Name,
		Day:         c.Day,
		StartTime:   c.StartTime,
		EndTime:     c.EndTime,
		TeacherName: c.TeacherName,
		RoomName:    c.RoomName,
	}
}
