package timetable

import "github.com/schooldesk/timetable-api/internal/models"

// Decision is the outcome of the admission gate. A rejection is an expected,
// recoverable outcome, not an error: the caller surfaces the reason and the
// user picks a different slot or room.
type Decision struct {
	Admitted   bool   `json:"admitted"`
	Reason     string `json:"reason,omitempty"`
	ConflictID int64  `json:"conflict_id,omitempty"`
}

// Admit decides whether a candidate course may be committed against the
// existing courses of its (year, trimester) scope. Only room double-booking
// blocks admission: a course without a room always passes, and a teacher
// booked twice is reported by DetectConflicts but deliberately not gated
// here. excludeID removes the candidate's own stored row on updates; pass 0
// on create.
//
// The gate is an existence check: it stops at the first overlapping course
// in the same room on the same day. It must run inside the same transaction
// as the subsequent insert or update, with the scope rows locked, so that
// two concurrent writers cannot both pass for one slot.
func Admit(candidate models.Course, existing []models.Course, excludeID int64) Decision {
	if candidate.RoomID == nil {
		return Decision{Admitted: true}
	}
	cand, ok := intervalOf(candidate)
	if !ok {
		return Decision{Reason: "invalid candidate interval"}
	}
	for _, c := range existing {
		if c.ID == excludeID {
			continue
		}
		if c.RoomID == nil || *c.RoomID != *candidate.RoomID {
			continue
		}
		if c.Day != candidate.Day {
			continue
		}
		iv, ok := intervalOf(c)
		if !ok {
			continue
		}
		if cand.Overlaps(iv) {
			return Decision{Reason: "time slot conflict", ConflictID: c.ID}
		}
	}
	return Decision{Admitted: true}
}
