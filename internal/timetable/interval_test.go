package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	cases := map[string]int{
		"00:00": 0,
		"09:05": 545,
		"9:05":  545,
		"23:59": 1439,
	}
	for value, want := range cases {
		got, err := ParseClock(value)
		require.NoError(t, err, value)
		assert.Equal(t, want, got, value)
	}

	for _, value := range []string{"", "24:00", "12:60", "12", "12:5", "ab:cd", "12:00:00", "-1:30"} {
		_, err := ParseClock(value)
		assert.Error(t, err, value)
	}
}

func TestNewIntervalRejectsInvertedRange(t *testing.T) {
	_, err := NewInterval("Monday", "10:00", "10:00")
	assert.Error(t, err)

	_, err = NewInterval("Monday", "11:00", "10:00")
	assert.Error(t, err)

	iv, err := NewInterval("Monday", "09:00", "10:30")
	require.NoError(t, err)
	assert.Equal(t, Interval{Day: "Monday", Start: 540, End: 630}, iv)
}

func mustInterval(t *testing.T, day, start, end string) Interval {
	t.Helper()
	iv, err := NewInterval(day, start, end)
	require.NoError(t, err)
	return iv
}

func TestOverlapsHalfOpenSemantics(t *testing.T) {
	nine := mustInterval(t, "Monday", "09:00", "10:00")

	cases := []struct {
		name  string
		other Interval
		want  bool
	}{
		{"identical", mustInterval(t, "Monday", "09:00", "10:00"), true},
		{"contained", mustInterval(t, "Monday", "09:15", "09:45"), true},
		{"straddles start", mustInterval(t, "Monday", "08:30", "09:30"), true},
		{"straddles end", mustInterval(t, "Monday", "09:30", "10:30"), true},
		{"back-to-back after", mustInterval(t, "Monday", "10:00", "11:00"), false},
		{"back-to-back before", mustInterval(t, "Monday", "08:00", "09:00"), false},
		{"disjoint", mustInterval(t, "Monday", "13:00", "14:00"), false},
		{"other day", mustInterval(t, "Tuesday", "09:00", "10:00"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, nine.Overlaps(tc.other))
			assert.Equal(t, tc.want, tc.other.Overlaps(nine), "overlap must be symmetric")
		})
	}
}
