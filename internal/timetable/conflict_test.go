package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schooldesk/timetable-api/internal/models"
)

func ptr(v int64) *int64 { return &v }

func course(id int64, teacher, room *int64, day, start, end string) models.Course {
	return models.Course{
		ID:        id,
		Name:      "course-" + start,
		TeacherID: teacher,
		RoomID:    room,
		Day:       day,
		StartTime: start,
		EndTime:   end,
		Year:      2025,
		Trimester: 1,
	}
}

func triple(c models.Conflict) [3]interface{} {
	return [3]interface{}{c.CourseA.ID, c.CourseB.ID, c.Kind}
}

func TestDetectConflictsRoomAndTeacherChains(t *testing.T) {
	// A and B share a room and overlap; B and C share a teacher and overlap;
	// A and C share nothing.
	a := course(1, ptr(5), ptr(10), "Monday", "09:00", "10:00")
	b := course(2, ptr(6), ptr(10), "Monday", "09:30", "10:30")
	c := course(3, ptr(6), ptr(11), "Monday", "10:15", "11:00")

	conflicts := DetectConflicts([]models.Course{a, b, c})
	require.Len(t, conflicts, 2)
	assert.Equal(t, [3]interface{}{int64(1), int64(2), models.ConflictKindRoom}, triple(conflicts[0]))
	assert.Equal(t, [3]interface{}{int64(2), int64(3), models.ConflictKindTeacher}, triple(conflicts[1]))
}

func TestDetectConflictsSharedTeacherAndRoomEmitsBothKinds(t *testing.T) {
	a := course(1, ptr(5), ptr(10), "Monday", "09:00", "10:00")
	b := course(2, ptr(5), ptr(10), "Monday", "09:30", "10:30")

	conflicts := DetectConflicts([]models.Course{a, b})
	require.Len(t, conflicts, 2)
	assert.Equal(t, models.ConflictKindTeacher, conflicts[0].Kind)
	assert.Equal(t, models.ConflictKindRoom, conflicts[1].Kind)
}

func TestDetectConflictsTimeOverlapAloneIsNotAConflict(t *testing.T) {
	a := course(1, ptr(5), ptr(10), "Monday", "09:00", "10:00")
	b := course(2, ptr(6), ptr(11), "Monday", "09:30", "10:30")

	assert.Empty(t, DetectConflicts([]models.Course{a, b}))
}

func TestDetectConflictsNilReferencesNeverMatch(t *testing.T) {
	a := course(1, nil, nil, "Monday", "09:00", "10:00")
	b := course(2, nil, nil, "Monday", "09:00", "10:00")

	assert.Empty(t, DetectConflicts([]models.Course{a, b}))
}

func TestDetectConflictsBackToBackIsClean(t *testing.T) {
	a := course(1, ptr(5), ptr(10), "Monday", "09:00", "10:00")
	b := course(2, ptr(5), ptr(10), "Monday", "10:00", "11:00")

	assert.Empty(t, DetectConflicts([]models.Course{a, b}))
}

// Mirrors the end-to-end scenario: course 1 (room 10, teacher 5) vs course 2
// (room 10, teacher 6) conflict on the room; adding course 3 (room 11,
// teacher 5) adds a teacher conflict with course 1; courses 2 and 3 overlap
// in time but share neither resource.
func TestDetectConflictsScenario(t *testing.T) {
	c1 := course(1, ptr(5), ptr(10), "Monday", "09:00", "10:30")
	c2 := course(2, ptr(6), ptr(10), "Monday", "10:00", "11:00")

	conflicts := DetectConflicts([]models.Course{c1, c2})
	require.Len(t, conflicts, 1)
	assert.Equal(t, [3]interface{}{int64(1), int64(2), models.ConflictKindRoom}, triple(conflicts[0]))

	c3 := course(3, ptr(5), ptr(11), "Monday", "09:30", "10:00")
	conflicts = DetectConflicts([]models.Course{c1, c2, c3})
	require.Len(t, conflicts, 2)
	assert.Equal(t, [3]interface{}{int64(1), int64(2), models.ConflictKindRoom}, triple(conflicts[0]))
	assert.Equal(t, [3]interface{}{int64(1), int64(3), models.ConflictKindTeacher}, triple(conflicts[1]))
}

func TestDetectConflictsIsIdempotent(t *testing.T) {
	input := []models.Course{
		course(1, ptr(5), ptr(10), "Monday", "09:00", "10:30"),
		course(2, ptr(6), ptr(10), "Monday", "10:00", "11:00"),
		course(3, ptr(5), ptr(11), "Monday", "09:30", "10:00"),
	}

	first := DetectConflicts(input)
	second := DetectConflicts(input)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, triple(first[i]), triple(second[i]))
	}
}
