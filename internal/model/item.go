package model

import "time"

type ItemKind string

const (
	ItemKindTopic      ItemKind = "TOPIC"
	ItemKindMaterial   ItemKind = "MATERIAL"
	ItemKindAssignment ItemKind = "ASSIGNMENT"
	ItemKindAttendance ItemKind = "ATTENDANCE"
)

type ItemStatus string

const (
	ItemStatusCreated ItemStatus = "CREATED"
	ItemStatusFailed  ItemStatus = "FAILED"
)

// ProvisionItem is one history row: a single remote resource created (or
// attempted) during a provisioning run.
type ProvisionItem struct {
	ID           int64      `json:"id" db:"id"`
	LessonNumber string     `json:"lesson_number" db:"lesson_number"`
	CourseID     string     `json:"course_id" db:"course_id"`
	Kind         ItemKind   `json:"kind" db:"kind"`
	Title        string     `json:"title" db:"title"`
	RemoteID     string     `json:"remote_id" db:"remote_id"`
	Status       ItemStatus `json:"status" db:"status"`
	ErrorMessage *string    `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}
