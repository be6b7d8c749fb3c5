package classroom

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom-provisioner/internal/model"
)

func TestTagAttachment(t *testing.T) {
	link := TagAttachment("https://app.sli.do/event/abc123")
	require.NotNil(t, link.Link)
	assert.Nil(t, link.DriveFile)
	assert.Equal(t, "https://app.sli.do/event/abc123", link.Link.URL)

	plainHTTP := TagAttachment("http://example.com/page")
	require.NotNil(t, plainHTTP.Link)

	file := TagAttachment("file-abc-123")
	require.NotNil(t, file.DriveFile)
	assert.Nil(t, file.Link)
	assert.Equal(t, "file-abc-123", file.DriveFile.DriveFile.ID)

	// A bare domain without a scheme is a file ID, not a link.
	bare := TagAttachment("example.com")
	assert.NotNil(t, bare.DriveFile)
	assert.Nil(t, bare.Link)
}

func TestFormatScheduled(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	local := time.Date(2024, 5, 10, 10, 20, 0, 0, loc)
	assert.Equal(t, "2024-05-10T01:20:00Z", FormatScheduled(local))

	utc := time.Date(2024, 5, 10, 10, 20, 0, 0, time.UTC)
	assert.Equal(t, "2024-05-10T10:20:00Z", FormatScheduled(utc))
}

func TestBuildMaterial(t *testing.T) {
	scheduled := time.Date(2024, 5, 10, 10, 20, 0, 0, time.UTC)
	attachments := []model.Attachment{TagAttachment("file-1"), TagAttachment("file-2")}

	m := BuildMaterial("Lecture materials", "", scheduled, "topic-9", attachments)

	assert.Equal(t, "Lecture materials", m.Title)
	assert.Equal(t, model.StateDraft, m.State)
	assert.Equal(t, "2024-05-10T10:20:00Z", m.ScheduledTime)
	assert.Equal(t, "topic-9", m.TopicID)
	assert.Len(t, m.Materials, 2)
}

func TestBuildWork(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// Due 2024-05-17 10:30 JST is 2024-05-17 01:30 UTC; the payload carries
	// the UTC calendar fields.
	dueAt := time.Date(2024, 5, 17, 10, 30, 0, 0, loc)
	scheduled := time.Date(2024, 5, 10, 10, 20, 0, 0, loc)

	w := BuildWork("Assignment 03", "Submit worksheets", dueAt, scheduled, "topic-9", nil)

	assert.Equal(t, model.WorkTypeAssignment, w.WorkType)
	assert.Equal(t, model.StateDraft, w.State)

	require.NotNil(t, w.DueDate)
	assert.Equal(t, 2024, w.DueDate.Year)
	assert.Equal(t, 5, w.DueDate.Month)
	assert.Equal(t, 17, w.DueDate.Day)

	require.NotNil(t, w.DueTime)
	assert.Equal(t, 1, w.DueTime.Hours)
	assert.Equal(t, 30, w.DueTime.Minutes)

	assert.Equal(t, "2024-05-10T01:20:00Z", w.ScheduledTime)
}

func TestBuildWorkDueDateRollsAcrossUTCmidnight(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 08:00 JST is 23:00 UTC the previous day.
	dueAt := time.Date(2024, 5, 17, 8, 0, 0, 0, loc)

	w := BuildWork("Assignment 03", "", dueAt, dueAt, "", nil)

	require.NotNil(t, w.DueDate)
	assert.Equal(t, 16, w.DueDate.Day)
	assert.Equal(t, 23, w.DueTime.Hours)
}
