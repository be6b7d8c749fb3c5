package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	date, err := ParseLessonDate("2024/05/10", time.UTC)
	require.NoError(t, err)

	set, err := Compute(date, "10:30", time.UTC)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 5, 10, 10, 20, 0, 0, time.UTC), set.Scheduled)
	assert.Equal(t, time.Date(2024, 5, 17, 10, 30, 0, 0, time.UTC), set.AssignmentDue)
	assert.Equal(t, time.Date(2024, 5, 10, 11, 0, 0, 0, time.UTC), set.AttendanceDue)
}

func TestComputeOrdering(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	dates := []string{"2024/01/01", "2024/02/28", "2024/06/15", "2024/12/31"}
	starts := []string{"00:00", "08:45", "13:00", "23:59"}

	for _, d := range dates {
		for _, s := range starts {
			date, err := ParseLessonDate(d, loc)
			require.NoError(t, err)

			set, err := Compute(date, s, loc)
			require.NoError(t, err)

			assert.True(t, set.Scheduled.Before(set.AttendanceDue),
				"%s %s: scheduled must precede attendance due", d, s)
			assert.True(t, set.AttendanceDue.Before(set.AssignmentDue),
				"%s %s: attendance due must precede assignment due", d, s)
		}
	}
}

func TestComputeMonthRollover(t *testing.T) {
	date, err := ParseLessonDate("2024/01/29", time.UTC)
	require.NoError(t, err)

	set, err := Compute(date, "09:00", time.UTC)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 2, 5, 9, 0, 0, 0, time.UTC), set.AssignmentDue)
}

func TestComputeYearRollover(t *testing.T) {
	date, err := ParseLessonDate("2024/12/30", time.UTC)
	require.NoError(t, err)

	set, err := Compute(date, "16:15", time.UTC)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 1, 6, 16, 15, 0, 0, time.UTC), set.AssignmentDue)
}

func TestComputeDeterministic(t *testing.T) {
	date, err := ParseLessonDate("2024/05/10", time.UTC)
	require.NoError(t, err)

	first, err := Compute(date, "10:30", time.UTC)
	require.NoError(t, err)
	second, err := Compute(date, "10:30", time.UTC)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeInvalidStartTime(t *testing.T) {
	date, err := ParseLessonDate("2024/05/10", time.UTC)
	require.NoError(t, err)

	_, err = Compute(date, "25:99", time.UTC)
	assert.Error(t, err)

	_, err = Compute(date, "", time.UTC)
	assert.Error(t, err)
}

func TestParseLessonDateInvalid(t *testing.T) {
	_, err := ParseLessonDate("2024-05-10", time.UTC)
	assert.Error(t, err)

	_, err = ParseLessonDate("10/05/2024", time.UTC)
	assert.Error(t, err)
}
