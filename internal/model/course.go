package model

import "time"

// Course is one registry row: a section under which lesson content is
// published. Immutable for the duration of a provisioning run.
type Course struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	StartTime         string `json:"start_time"` // HH:MM, local to the course timezone
	TeacherFolderID   string `json:"teacher_folder_id"`
	TeacherGroupEmail string `json:"teacher_group_email"`
}

// LessonSpec fully determines every artifact derived for one class session.
type LessonSpec struct {
	Number    string    `json:"number"` // fixed-width numeric code, e.g. "07"
	Title     string    `json:"title"`
	Date      time.Time `json:"date"` // calendar date; time-of-day ignored
	EventCode string    `json:"event_code,omitempty"`
	EventURL  string    `json:"event_url,omitempty"`
}
