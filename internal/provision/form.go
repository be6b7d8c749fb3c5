package provision

import (
	"context"
	"fmt"

	"classroom-provisioner/internal/model"
	"classroom-provisioner/pkg/errors"
)

// copyAttendanceForm copies the attendance form template into the lesson
// folder, creates the results spreadsheet next to it, and binds the form's
// responses to that spreadsheet.
func (s *Service) copyAttendanceForm(ctx context.Context, lesson model.LessonSpec, root model.Folder) (model.File, error) {
	layout := s.cfg.Provision.Layout

	template, err := s.resolver.ResolveFile(ctx,
		layout.TemplateFolder+"/"+layout.FormTemplateName, root)
	if err != nil {
		return model.File{}, fmt.Errorf("%w: %v", errors.ErrTemplateNotFound, err)
	}

	lessonFolder, err := s.resolver.ResolveOrCreateFolder(ctx, lesson.Number, root)
	if err != nil {
		return model.File{}, err
	}

	name := "Attendance check " + lesson.Number
	form, err := s.store.CopyFile(ctx, template.ID, name, lessonFolder.ID)
	if err != nil {
		return model.File{}, fmt.Errorf("copy form template: %w", err)
	}
	if err := s.forms.SetTitle(ctx, form.ID, name); err != nil {
		return model.File{}, fmt.Errorf("set form title: %w", err)
	}

	sheet, err := s.store.CreateSpreadsheet(ctx, name+" (responses)")
	if err != nil {
		return model.File{}, fmt.Errorf("create results spreadsheet: %w", err)
	}
	if err := s.store.MoveFile(ctx, sheet.ID, lessonFolder.ID); err != nil {
		return model.File{}, fmt.Errorf("move results spreadsheet: %w", err)
	}
	if err := s.forms.SetDestination(ctx, form.ID, sheet.ID); err != nil {
		return model.File{}, fmt.Errorf("bind form destination: %w", err)
	}

	s.log.Info().Str("form", name).Str("form_id", form.ID).Str("sheet_id", sheet.ID).
		Msg("Attendance form created")
	return form, nil
}
