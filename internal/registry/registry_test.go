package registry

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"classroom-provisioner/internal/config"
	"classroom-provisioner/internal/model"
	"classroom-provisioner/pkg/errors"
)

func writeWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()

	file := excelize.NewFile()
	sheet := file.GetSheetList()[0]

	require.NoError(t, file.SetCellValue(sheet, "A1", "Teacher email"))
	require.NoError(t, file.SetCellValue(sheet, "B1", "teacher@example.com"))
	require.NoError(t, file.SetCellValue(sheet, "A2", "Materials folder"))
	require.NoError(t, file.SetCellValue(sheet, "B2", "folder-materials"))

	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, courseListRow+i)
			require.NoError(t, err)
			require.NoError(t, file.SetCellValue(sheet, cell, value))
		}
	}

	path := filepath.Join(t.TempDir(), "registry.xlsx")
	require.NoError(t, file.SaveAs(path))
	require.NoError(t, file.Close())
	return path
}

func loaderFor(path string) *Loader {
	return NewLoader(&config.Config{
		Registry: config.RegistryConfig{WorkbookPath: path},
	})
}

func TestLoaderLoad(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"Section A", "10:30", "course-1", "folder-a", "ta-a@example.com"},
		{"", "", "", "", ""},
		{"Section B", "13:00", "course-2", "folder-b", ""},
	})

	reg, err := loaderFor(path).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "teacher@example.com", reg.TeacherEmail)
	assert.Equal(t, "folder-materials", reg.MaterialsFolderID)

	// Blank rows are skipped; remaining courses keep row order.
	require.Len(t, reg.Courses, 2)
	assert.Equal(t, model.Course{
		Name:              "Section A",
		StartTime:         "10:30",
		ID:                "course-1",
		TeacherFolderID:   "folder-a",
		TeacherGroupEmail: "ta-a@example.com",
	}, reg.Courses[0])
	assert.Equal(t, "course-2", reg.Courses[1].ID)
}

func TestLoaderEmptyRegistry(t *testing.T) {
	path := writeWorkbook(t, nil)

	_, err := loaderFor(path).Load(context.Background())
	assert.ErrorIs(t, err, errors.ErrRegistryEmpty)
}

func TestLoaderRejectsBadStartTime(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"Section A", "half past ten", "course-1", "folder-a", ""},
	})

	_, err := loaderFor(path).Load(context.Background())
	var verr errors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "start_time", verr.Field)
}

func TestLoaderRejectsMissingFolder(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"Section A", "10:30", "course-1", "", ""},
	})

	_, err := loaderFor(path).Load(context.Background())
	var verr errors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "teacher_folder_id", verr.Field)
}

func TestValidatorTeacherEmail(t *testing.T) {
	v := NewValidator()

	err := v.Validate(context.Background(), &Registry{
		TeacherEmail:      "not-an-email",
		MaterialsFolderID: "folder-materials",
	})
	var verr errors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "teacher_email", verr.Field)
}
