package model

// Wire types for the course-management platform API. Field shapes follow the
// platform's resource schema: draft items carry an RFC3339 UTC scheduledTime,
// works additionally carry dueDate/dueTime as UTC calendar fields.

const (
	StateDraft     = "DRAFT"
	StatePublished = "PUBLISHED"

	WorkTypeAssignment = "ASSIGNMENT"

	SubmissionTurnedIn = "TURNED_IN"
)

type Topic struct {
	TopicID string `json:"topicId,omitempty"`
	Name    string `json:"name"`
}

// Attachment is either a document-store file reference or an external link,
// never both.
type Attachment struct {
	DriveFile *DriveFileAttachment `json:"driveFile,omitempty"`
	Link      *LinkAttachment      `json:"link,omitempty"`
}

// DriveFileAttachment nests the file reference one level deep, matching the
// platform's courseWork.materials schema.
type DriveFileAttachment struct {
	DriveFile DriveFileRef `json:"driveFile"`
}

type DriveFileRef struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

type LinkAttachment struct {
	URL string `json:"url"`
}

// Material is a non-graded published item.
type Material struct {
	ID            string       `json:"id,omitempty"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	State         string       `json:"state"`
	ScheduledTime string       `json:"scheduledTime"`
	TopicID       string       `json:"topicId"`
	Materials     []Attachment `json:"materials,omitempty"`
}

// CourseWork is a graded item whose due timestamp is distinct from its
// scheduled publish time.
type CourseWork struct {
	ID            string       `json:"id,omitempty"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	WorkType      string       `json:"workType"`
	State         string       `json:"state"`
	DueDate       *DueDate     `json:"dueDate,omitempty"`
	DueTime       *DueTime     `json:"dueTime,omitempty"`
	ScheduledTime string       `json:"scheduledTime"`
	TopicID       string       `json:"topicId"`
	Materials     []Attachment `json:"materials,omitempty"`
}

type DueDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

type DueTime struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// Submission is read-only input to the filename normalizer.
type Submission struct {
	ID                   string                `json:"id"`
	UserID               string                `json:"userId"`
	State                string                `json:"state"`
	CourseWorkType       string                `json:"courseWorkType"`
	AssignmentSubmission *AssignmentSubmission `json:"assignmentSubmission,omitempty"`
}

type AssignmentSubmission struct {
	Attachments []Attachment `json:"attachments,omitempty"`
}

type StudentProfile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UserProfile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	EmailAddress string `json:"emailAddress"`
}

// PlatformCourse is a course as listed by the platform, used when refreshing
// the registry.
type PlatformCourse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Section           string `json:"section"`
	OwnerID           string `json:"ownerId"`
	TeacherFolderID   string `json:"teacherFolderId"`
	TeacherGroupEmail string `json:"teacherGroupEmail"`
}
