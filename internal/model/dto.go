package model

import "time"

type ProvisionJob struct {
	Number    string `json:"number"`
	Title     string `json:"title"`
	Date      string `json:"date"` // YYYY/MM/DD
	EventCode string `json:"event_code,omitempty"`
	EventURL  string `json:"event_url,omitempty"`
}

type CleanupKind string

const (
	CleanupKindPermissions CleanupKind = "PERMISSIONS"
	CleanupKindFilenames   CleanupKind = "FILENAMES"
)

type CleanupJob struct {
	Kind  CleanupKind `json:"kind"`
	Apply bool        `json:"apply"` // filenames only; false = dry run
}

type StatusResponse struct {
	LessonNumber string    `json:"lesson_number"`
	TotalItems   int       `json:"total_items"`
	CreatedCount int       `json:"created_count"`
	FailedCount  int       `json:"failed_count"`
	Errors       []string  `json:"errors,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}
