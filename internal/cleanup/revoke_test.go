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
	"classroom-provisioner/pkg/errors"
)

const (
	teacherEmail = "teacher@example.com"
	groupEmail   = "ta-group@example.com"
	studentEmail = "student@example.com"
)

func revokeConfig() *config.Config {
	return &config.Config{
		Cleanup: config.CleanupConfig{
			TeacherEmail: teacherEmail,
			RootMarker:   "Classroom",
		},
	}
}

func revokeRegistry(courses ...model.Course) *registry.Registry {
	return &registry.Registry{TeacherEmail: teacherEmail, Courses: courses}
}

func TestRevokerRun(t *testing.T) {
	store := drive.NewMemStore("My Drive")
	classroomDir := store.AddFolder(store.Root().ID, "Classroom")
	courseDir := store.AddFolder(classroomDir.ID, "Section A")

	shared := store.AddFile(courseDir.ID, "shared.docx", studentEmail,
		teacherEmail, groupEmail, studentEmail)
	owned := store.AddFile(courseDir.ID, "plan.docx", teacherEmail,
		teacherEmail, groupEmail)

	sub := store.AddFolder(courseDir.ID, "submissions")
	nested := store.AddFile(sub.ID, "report.pdf", studentEmail, teacherEmail)

	revoker := NewRevoker(revokeConfig(), store, report.NewWriter(nil))
	reg := revokeRegistry(model.Course{
		ID:                "course-1",
		TeacherFolderID:   courseDir.ID,
		TeacherGroupEmail: groupEmail,
	})

	require.NoError(t, revoker.Run(context.Background(), reg))

	// Teacher and group grants gone, unrelated grants kept.
	editors, err := store.Editors(context.Background(), shared.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{studentEmail}, editors)

	// Files owned by the acting teacher are never touched.
	editors, err = store.Editors(context.Background(), owned.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{teacherEmail, groupEmail}, editors)

	// The walk descends into subfolders.
	editors, err = store.Editors(context.Background(), nested.ID)
	require.NoError(t, err)
	assert.Empty(t, editors)
}

func TestRevokerIdentityMismatchAborts(t *testing.T) {
	store := drive.NewMemStore("My Drive")
	classroomDir := store.AddFolder(store.Root().ID, "Classroom")
	courseDir := store.AddFolder(classroomDir.ID, "Section A")
	file := store.AddFile(courseDir.ID, "shared.docx", studentEmail, teacherEmail)

	revoker := NewRevoker(revokeConfig(), store, report.NewWriter(nil))
	reg := revokeRegistry(model.Course{ID: "course-1", TeacherFolderID: courseDir.ID})
	reg.TeacherEmail = "someone-else@example.com"

	err := revoker.Run(context.Background(), reg)
	var perr errors.PreconditionError
	require.ErrorAs(t, err, &perr)

	editors, err := store.Editors(context.Background(), file.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{teacherEmail}, editors)
}

func TestRevokerFolderOutsideStorageAreaAborts(t *testing.T) {
	store := drive.NewMemStore("My Drive")
	classroomDir := store.AddFolder(store.Root().ID, "Classroom")
	insideDir := store.AddFolder(classroomDir.ID, "Section A")
	insideFile := store.AddFile(insideDir.ID, "shared.docx", studentEmail, teacherEmail)

	outsideDir := store.AddFolder(store.Root().ID, "Personal")

	revoker := NewRevoker(revokeConfig(), store, report.NewWriter(nil))
	reg := revokeRegistry(
		model.Course{ID: "course-1", TeacherFolderID: insideDir.ID},
		model.Course{ID: "course-2", TeacherFolderID: outsideDir.ID},
	)

	err := revoker.Run(context.Background(), reg)
	var perr errors.PreconditionError
	require.ErrorAs(t, err, &perr)

	// Validation runs before any mutation, so the valid course is untouched too.
	editors, err := store.Editors(context.Background(), insideFile.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{teacherEmail}, editors)
}

func TestHasMarkerAncestor(t *testing.T) {
	assert.True(t, hasMarkerAncestor("/My Drive/Classroom/Section A", "Classroom"))
	assert.True(t, hasMarkerAncestor("/My Drive/Classroom/2024/Section A", "Classroom"))

	// The target folder itself does not count as its own ancestor.
	assert.False(t, hasMarkerAncestor("/My Drive/Classroom", "Classroom"))
	assert.False(t, hasMarkerAncestor("/My Drive/Personal/Section A", "Classroom"))
}

func TestRevokerMissingFolderAborts(t *testing.T) {
	store := drive.NewMemStore("My Drive")

	revoker := NewRevoker(revokeConfig(), store, report.NewWriter(nil))
	reg := revokeRegistry(model.Course{ID: "course-1", TeacherFolderID: "folder-missing"})

	err := revoker.Run(context.Background(), reg)
	assert.ErrorIs(t, err, errors.ErrFolderNotFound)
}
