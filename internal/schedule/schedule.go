package schedule

import (
	"fmt"
	"time"
)

const (
	scheduledLead  = 10 * time.Minute
	assignmentTerm = 7 // days
	attendanceTerm = 30 * time.Minute
)

// Set holds the three timestamps derived from one lesson date and course
// start time. Scheduled < AttendanceDue < AssignmentDue holds for any valid
// input because the offsets are fixed constants.
type Set struct {
	Scheduled     time.Time // publish time: class start − 10 minutes
	AssignmentDue time.Time // class start + 7 days
	AttendanceDue time.Time // class start + 30 minutes
}

// Compute derives the schedule set from a lesson date and an HH:MM start
// time in the given location. Pure calendar arithmetic; UTC formatting for
// the platform happens at the payload boundary, not here.
func Compute(date time.Time, startTime string, loc *time.Location) (Set, error) {
	start, err := time.Parse("15:04", startTime)
	if err != nil {
		return Set{}, fmt.Errorf("invalid start time %q: %w", startTime, err)
	}

	classStart := time.Date(date.Year(), date.Month(), date.Day(),
		start.Hour(), start.Minute(), 0, 0, loc)

	return Set{
		Scheduled:     classStart.Add(-scheduledLead),
		AssignmentDue: classStart.AddDate(0, 0, assignmentTerm),
		AttendanceDue: classStart.Add(attendanceTerm),
	}, nil
}

// ParseLessonDate parses the YYYY/MM/DD date format used by provisioning
// requests.
func ParseLessonDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation("2006/01/02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid lesson date %q: %w", s, err)
	}
	return d, nil
}
