package cleanup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom-provisioner/internal/config"
	"classroom-provisioner/internal/drive"
	"classroom-provisioner/internal/model"
	"classroom-provisioner/internal/registry"
	"classroom-provisioner/internal/report"
)

func TestComputeCanonicalName(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		display  string
		want     string
	}{
		{"legacy prefix", "NE21-1234_report.pdf", "Yamada", "ne211234_report.pdf"},
		{"legacy without hyphen", "NE211234 report.pdf", "Yamada", "ne211234_report.pdf"},
		{"legacy space separator", "ne21-1234 final.docx", "Yamada", "ne211234_final.docx"},
		{"legacy trailing letter", "NE21-1234B_report.pdf", "Yamada", "ne211234_report.pdf"},
		{"already canonical", "ne211234_report.pdf", "Yamada", "ne211234_report.pdf"},
		{"canonical uppercase", "NE211234_report.pdf", "Yamada", "NE211234_report.pdf"},
		{"from display name", "report.pdf", "NE21-5678 Yamada", "ne215678_report.pdf"},
		{"display without hyphen", "notes.txt", "Sato NE215678", "ne215678_notes.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeCanonicalName(tt.fileName, tt.display)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeCanonicalNameIdempotent(t *testing.T) {
	first, err := ComputeCanonicalName("NE21-1234_report.pdf", "NE21-1234 Yamada")
	require.NoError(t, err)

	second, err := ComputeCanonicalName(first, "NE21-1234 Yamada")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeCanonicalNameNoIdentifier(t *testing.T) {
	_, err := ComputeCanonicalName("report.pdf", "Yamada Taro")
	assert.Error(t, err)
}

// fakePlatform serves canned course work, submissions, and profiles.
type fakePlatform struct {
	works    map[string][]model.CourseWork
	subs     map[string][]model.Submission
	profiles map[string]model.StudentProfile
}

func (p *fakePlatform) CreateTopic(ctx context.Context, courseID, name string) (string, error) {
	return "", nil
}

func (p *fakePlatform) CreateMaterial(ctx context.Context, courseID string, m model.Material) (model.Material, error) {
	return m, nil
}

func (p *fakePlatform) CreateCourseWork(ctx context.Context, courseID string, w model.CourseWork) (model.CourseWork, error) {
	return w, nil
}

func (p *fakePlatform) ListCourseWork(ctx context.Context, courseID string) ([]model.CourseWork, error) {
	return p.works[courseID], nil
}

func (p *fakePlatform) ListSubmissions(ctx context.Context, courseID, courseWorkID string) ([]model.Submission, error) {
	return p.subs[courseID+"/"+courseWorkID], nil
}

func (p *fakePlatform) StudentProfile(ctx context.Context, courseID, userID string) (model.StudentProfile, error) {
	return p.profiles[userID], nil
}

func (p *fakePlatform) UserProfile(ctx context.Context, userID string) (model.UserProfile, error) {
	return model.UserProfile{}, nil
}

func (p *fakePlatform) ListCourses(ctx context.Context) ([]model.PlatformCourse, error) {
	return nil, nil
}

func pastAssignment(id string) model.CourseWork {
	return model.CourseWork{
		ID:       id,
		Title:    "Assignment 03",
		WorkType: model.WorkTypeAssignment,
		State:    model.StatePublished,
		DueDate:  &model.DueDate{Year: 2024, Month: 5, Day: 17},
		DueTime:  &model.DueTime{Hours: 10, Minutes: 30},
	}
}

func turnedIn(userID string, refs ...model.DriveFileRef) model.Submission {
	atts := make([]model.Attachment, len(refs))
	for i, ref := range refs {
		atts[i] = model.Attachment{DriveFile: &model.DriveFileAttachment{DriveFile: ref}}
	}
	return model.Submission{
		ID:                   "sub-" + userID,
		UserID:               userID,
		State:                model.SubmissionTurnedIn,
		CourseWorkType:       model.WorkTypeAssignment,
		AssignmentSubmission: &model.AssignmentSubmission{Attachments: atts},
	}
}

func normalizerFixture() (*drive.MemStore, *fakePlatform, *registry.Registry, model.File) {
	store := drive.NewMemStore("My Drive")
	folder := store.AddFolder(store.Root().ID, "submissions")
	file := store.AddFile(folder.ID, "report.pdf", "student@example.com")

	platform := &fakePlatform{
		works: map[string][]model.CourseWork{
			"course-1": {pastAssignment("work-1")},
		},
		subs: map[string][]model.Submission{
			"course-1/work-1": {turnedIn("user-1", model.DriveFileRef{ID: file.ID, Title: "report.pdf"})},
		},
		profiles: map[string]model.StudentProfile{
			"user-1": {ID: "user-1", Name: "NE21-5678 Yamada"},
		},
	}

	reg := &registry.Registry{
		TeacherEmail: teacherEmail,
		Courses:      []model.Course{{ID: "course-1", Name: "Section A"}},
	}
	return store, platform, reg, file
}

func TestNormalizerApply(t *testing.T) {
	store, platform, reg, file := normalizerFixture()
	n := NewNormalizer(&config.Config{}, store, platform, report.NewWriter(nil))

	require.NoError(t, n.Run(context.Background(), reg, true))

	renamed, err := store.FileByID(context.Background(), file.ID)
	require.NoError(t, err)
	assert.Equal(t, "ne215678_report.pdf", renamed.Name)
}

func TestNormalizerDryRun(t *testing.T) {
	store, platform, reg, file := normalizerFixture()
	n := NewNormalizer(&config.Config{}, store, platform, report.NewWriter(nil))

	require.NoError(t, n.Run(context.Background(), reg, false))

	unchanged, err := store.FileByID(context.Background(), file.ID)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", unchanged.Name)
}

func TestNormalizerSkipsChangedFile(t *testing.T) {
	store, platform, reg, file := normalizerFixture()
	// The file was renamed between listing and mutation.
	require.NoError(t, store.RenameFile(context.Background(), file.ID, "revised.pdf"))

	n := NewNormalizer(&config.Config{}, store, platform, report.NewWriter(nil))
	require.NoError(t, n.Run(context.Background(), reg, true))

	current, err := store.FileByID(context.Background(), file.ID)
	require.NoError(t, err)
	assert.Equal(t, "revised.pdf", current.Name)
}

func TestNormalizerIgnoresIneligibleWork(t *testing.T) {
	store, platform, reg, file := normalizerFixture()

	draft := pastAssignment("work-1")
	draft.State = model.StateDraft
	future := pastAssignment("work-2")
	future.DueDate = &model.DueDate{Year: 2099, Month: 1, Day: 1}
	platform.works["course-1"] = []model.CourseWork{draft, future}
	platform.subs["course-1/work-2"] = platform.subs["course-1/work-1"]

	n := NewNormalizer(&config.Config{}, store, platform, report.NewWriter(nil))
	require.NoError(t, n.Run(context.Background(), reg, true))

	current, err := store.FileByID(context.Background(), file.ID)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", current.Name)
}

func TestNormalizerSkipsUnidentifiableSubmission(t *testing.T) {
	store, platform, reg, file := normalizerFixture()
	platform.profiles["user-1"] = model.StudentProfile{ID: "user-1", Name: "Yamada Taro"}

	n := NewNormalizer(&config.Config{}, store, platform, report.NewWriter(nil))
	require.NoError(t, n.Run(context.Background(), reg, true))

	current, err := store.FileByID(context.Background(), file.ID)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", current.Name)
}
