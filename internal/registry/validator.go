package registry

import (
	"context"
	"regexp"

	"classroom-provisioner/pkg/errors"
)

type Validator struct {
	startTimeRegex *regexp.Regexp
	emailRegex     *regexp.Regexp
}

func NewValidator() *Validator {
	return &Validator{
		startTimeRegex: regexp.MustCompile(`^\d{1,2}:\d{2}$`),
		emailRegex:     regexp.MustCompile(`^[^@\s]+@[^@\s]+$`),
	}
}

func (v *Validator) Validate(ctx context.Context, reg *Registry) error {
	if reg.TeacherEmail == "" {
		return errors.ValidationError{
			Field:   "teacher_email",
			Value:   "",
			Message: "teacher email cell must be filled in",
		}
	}
	if !v.emailRegex.MatchString(reg.TeacherEmail) {
		return errors.ValidationError{
			Field:   "teacher_email",
			Value:   reg.TeacherEmail,
			Message: "must be an email address",
		}
	}
	if reg.MaterialsFolderID == "" {
		return errors.ValidationError{
			Field:   "materials_folder_id",
			Value:   "",
			Message: "materials folder cell must be filled in",
		}
	}

	for i, course := range reg.Courses {
		row := courseListRow + i
		if course.ID == "" {
			return errors.ValidationError{
				Field:   "course_id",
				Value:   row,
				Message: "course id is required",
			}
		}
		if !v.startTimeRegex.MatchString(course.StartTime) {
			return errors.ValidationError{
				Field:   "start_time",
				Value:   course.StartTime,
				Message: "must be HH:MM",
			}
		}
		if course.TeacherFolderID == "" {
			return errors.ValidationError{
				Field:   "teacher_folder_id",
				Value:   row,
				Message: "teacher folder id is required",
			}
		}
		if course.TeacherGroupEmail != "" && !v.emailRegex.MatchString(course.TeacherGroupEmail) {
			return errors.ValidationError{
				Field:   "teacher_group_email",
				Value:   course.TeacherGroupEmail,
				Message: "must be an email address",
			}
		}
	}

	return nil
}
