package registry

import (
	"context"
	"fmt"

	"classroom-provisioner/internal/classroom"
	"classroom-provisioner/internal/config"
	"classroom-provisioner/internal/logger"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Refresher rewrites the course rows of the registry workbook from the
// courses the configured teacher owns on the platform. Start-time cells are
// left untouched: they are maintained by hand.
type Refresher struct {
	cfg      *config.Config
	platform classroom.Platform
	log      zerolog.Logger
}

func NewRefresher(cfg *config.Config, platform classroom.Platform) *Refresher {
	return &Refresher{
		cfg:      cfg,
		platform: platform,
		log:      logger.Get(),
	}
}

func (r *Refresher) Refresh(ctx context.Context) (int, error) {
	file, err := excelize.OpenFile(r.cfg.Registry.WorkbookPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open registry workbook: %w", err)
	}
	defer file.Close()

	sheet := r.cfg.Registry.SheetName
	if sheet == "" {
		sheets := file.GetSheetList()
		if len(sheets) == 0 {
			return 0, fmt.Errorf("registry workbook has no sheets")
		}
		sheet = sheets[0]
	}

	teacherEmail, err := file.GetCellValue(sheet, teacherEmailCell)
	if err != nil {
		return 0, fmt.Errorf("failed to read teacher email: %w", err)
	}
	if teacherEmail == "" {
		return 0, fmt.Errorf("teacher email cell is empty")
	}

	courses, err := r.platform.ListCourses(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list platform courses: %w", err)
	}

	if err := r.clearCourseRows(file, sheet); err != nil {
		return 0, err
	}

	row := courseListRow
	for _, course := range courses {
		owner, err := r.platform.UserProfile(ctx, course.OwnerID)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve owner of course %s: %w", course.ID, err)
		}
		if owner.EmailAddress != teacherEmail {
			continue
		}

		name := course.Name
		if course.Section != "" {
			name = fmt.Sprintf("%s (%s)", course.Name, course.Section)
		}

		cells := map[string]string{
			colName + fmt.Sprint(row):         name,
			colCourseID + fmt.Sprint(row):     course.ID,
			colFolderID + fmt.Sprint(row):     course.TeacherFolderID,
			colTeacherGroup + fmt.Sprint(row): course.TeacherGroupEmail,
		}
		for cell, value := range cells {
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return 0, fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}

		r.log.Info().Str("course_id", course.ID).Str("name", name).Int("row", row).
			Msg("Registry row updated")
		row++
	}

	if err := file.Save(); err != nil {
		return 0, fmt.Errorf("failed to save registry workbook: %w", err)
	}

	return row - courseListRow, nil
}

func (r *Refresher) clearCourseRows(file *excelize.File, sheet string) error {
	rows, err := file.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to get rows: %w", err)
	}

	for row := courseListRow; row <= len(rows); row++ {
		for _, col := range []string{colName, colCourseID, colFolderID, colTeacherGroup} {
			if err := file.SetCellValue(sheet, col+fmt.Sprint(row), ""); err != nil {
				return fmt.Errorf("failed to clear cell %s%d: %w", col, row, err)
			}
		}
	}
	return nil
}
