package classroom

import (
	"regexp"
	"time"

	"classroom-provisioner/internal/model"
)

var linkPattern = regexp.MustCompile(`^https?:`)

// TagAttachment classifies an attachment value: anything matching an HTTP(S)
// URL becomes a link, everything else is treated as an opaque file identifier.
func TagAttachment(value string) model.Attachment {
	if linkPattern.MatchString(value) {
		return model.Attachment{Link: &model.LinkAttachment{URL: value}}
	}
	return model.Attachment{
		DriveFile: &model.DriveFileAttachment{
			DriveFile: model.DriveFileRef{ID: value},
		},
	}
}

// FormatScheduled renders a publish timestamp the way the platform expects
// it: UTC-labeled ISO-8601.
func FormatScheduled(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// BuildMaterial assembles a draft material payload. The platform, not this
// service, transitions it to visible at the scheduled time.
func BuildMaterial(title, description string, scheduled time.Time, topicID string, attachments []model.Attachment) model.Material {
	return model.Material{
		Title:         title,
		Description:   description,
		State:         model.StateDraft,
		ScheduledTime: FormatScheduled(scheduled),
		TopicID:       topicID,
		Materials:     attachments,
	}
}

// BuildWork assembles a draft assignment payload. dueAt is extracted into UTC
// calendar fields; this is a different timestamp path from scheduledTime and
// the two are never conflated.
func BuildWork(title, description string, dueAt, scheduled time.Time, topicID string, attachments []model.Attachment) model.CourseWork {
	due := dueAt.UTC()
	return model.CourseWork{
		Title:       title,
		Description: description,
		WorkType:    model.WorkTypeAssignment,
		State:       model.StateDraft,
		DueDate: &model.DueDate{
			Year:  due.Year(),
			Month: int(due.Month()),
			Day:   due.Day(),
		},
		DueTime: &model.DueTime{
			Hours:   due.Hour(),
			Minutes: due.Minute(),
		},
		ScheduledTime: FormatScheduled(scheduled),
		TopicID:       topicID,
		Materials:     attachments,
	}
}
