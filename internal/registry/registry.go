package registry

import (
	"context"
	"fmt"
	"strings"

	"classroom-provisioner/internal/config"
	"classroom-provisioner/internal/logger"
	"classroom-provisioner/internal/model"
	"classroom-provisioner/pkg/errors"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Workbook cell layout, fixed by convention: meta cells at the top, course
// rows from courseListRow down.
const (
	teacherEmailCell    = "B1"
	materialsFolderCell = "B2"
	courseListRow       = 6

	colName         = "A"
	colStartTime    = "B"
	colCourseID     = "C"
	colFolderID     = "D"
	colTeacherGroup = "E"
)

// Registry is the externally populated course registry read from the
// workbook. Courses keep their row order; passes process them in that order.
type Registry struct {
	TeacherEmail      string
	MaterialsFolderID string
	Courses           []model.Course
}

type Loader struct {
	cfg       *config.Config
	validator *Validator
	log       zerolog.Logger
}

func NewLoader(cfg *config.Config) *Loader {
	return &Loader{
		cfg:       cfg,
		validator: NewValidator(),
		log:       logger.Get(),
	}
}

func (l *Loader) Load(ctx context.Context) (*Registry, error) {
	file, err := excelize.OpenFile(l.cfg.Registry.WorkbookPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry workbook: %w", err)
	}
	defer file.Close()

	sheet, err := l.sheetName(file)
	if err != nil {
		return nil, err
	}

	reg := &Registry{}
	if reg.TeacherEmail, err = file.GetCellValue(sheet, teacherEmailCell); err != nil {
		return nil, fmt.Errorf("failed to read teacher email: %w", err)
	}
	if reg.MaterialsFolderID, err = file.GetCellValue(sheet, materialsFolderCell); err != nil {
		return nil, fmt.Errorf("failed to read materials folder: %w", err)
	}

	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	for i := courseListRow - 1; i < len(rows); i++ {
		course, ok := parseCourseRow(rows[i])
		if !ok {
			continue // skip blank rows
		}
		reg.Courses = append(reg.Courses, course)
	}

	if len(reg.Courses) == 0 {
		return nil, errors.ErrRegistryEmpty
	}

	if err := l.validator.Validate(ctx, reg); err != nil {
		return nil, err
	}

	l.log.Debug().Int("courses", len(reg.Courses)).Msg("Course registry loaded")
	return reg, nil
}

func (l *Loader) sheetName(file *excelize.File) (string, error) {
	if l.cfg.Registry.SheetName != "" {
		return l.cfg.Registry.SheetName, nil
	}
	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("registry workbook has no sheets")
	}
	return sheets[0], nil
}

func parseCourseRow(row []string) (model.Course, bool) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	course := model.Course{
		Name:              cell(0),
		StartTime:         cell(1),
		ID:                cell(2),
		TeacherFolderID:   cell(3),
		TeacherGroupEmail: cell(4),
	}
	if course.Name == "" && course.ID == "" {
		return model.Course{}, false
	}
	return course, true
}
