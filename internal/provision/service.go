package provision

import (
	"context"
	"fmt"
	"time"

	"classroom-provisioner/internal/classroom"
	"classroom-provisioner/internal/config"
	"classroom-provisioner/internal/db"
	"classroom-provisioner/internal/drive"
	"classroom-provisioner/internal/logger"
	"classroom-provisioner/internal/model"
	"classroom-provisioner/internal/registry"
	"classroom-provisioner/internal/report"
	"classroom-provisioner/internal/schedule"

	"github.com/rs/zerolog"
)

// Service drives the per-course provisioning sequence: topic, the fixed
// material set, the assignment, the attendance item. Courses are processed
// in registry row order; a failed course is logged and the next one is still
// attempted. There is no rollback.
type Service struct {
	cfg      *config.Config
	store    drive.Store
	resolver *drive.Resolver
	forms    drive.FormService
	platform classroom.Platform
	repo     db.Repository
	reports  *report.Writer
	loc      *time.Location
	log      zerolog.Logger
}

func NewService(
	cfg *config.Config,
	store drive.Store,
	forms drive.FormService,
	platform classroom.Platform,
	repo db.Repository,
	reports *report.Writer,
) (*Service, error) {
	loc := time.Local
	if cfg.Provision.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(cfg.Provision.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone: %w", err)
		}
	}

	return &Service{
		cfg:      cfg,
		store:    store,
		resolver: drive.NewResolver(store, cfg.Drive.RootAlias),
		forms:    forms,
		platform: platform,
		repo:     repo,
		reports:  reports,
		loc:      loc,
		log:      logger.Get(),
	}, nil
}

// Run provisions one lesson across every registered course. The attendance
// form is copied once per lesson, before the course loop; without it no
// course can publish its attendance item, so a copy failure aborts the run.
func (s *Service) Run(ctx context.Context, lesson model.LessonSpec, reg *registry.Registry) error {
	log := s.log.With().Str("lesson", lesson.Number).Str("title", lesson.Title).Logger()
	log.Info().Int("courses", len(reg.Courses)).Msg("Provisioning lesson")

	rep := report.New("provision")

	root, err := s.store.FolderByID(ctx, reg.MaterialsFolderID)
	if err != nil {
		return fmt.Errorf("materials folder %s: %w", reg.MaterialsFolderID, err)
	}

	form, err := s.copyAttendanceForm(ctx, lesson, root)
	if err != nil {
		return fmt.Errorf("attendance form: %w", err)
	}
	rep.Add("form", form.Name, form.ID)

	for _, course := range reg.Courses {
		courseLog := log.With().Str("course_id", course.ID).Str("course", course.Name).Logger()
		courseLog.Info().Msg("Provisioning course")

		plan, err := s.Plan(ctx, lesson, course, root, form.URL)
		if err != nil {
			courseLog.Error().Err(err).Msg("Failed to plan course, continuing with next")
			rep.AddError("course", course.ID, err)
			continue
		}

		if err := s.Execute(ctx, lesson, course, plan); err != nil {
			courseLog.Error().Err(err).Msg("Course left partially provisioned, continuing with next")
			rep.AddError("course", course.ID, err)
			continue
		}

		rep.Add("course", course.ID, fmt.Sprintf("%d items", len(plan)))
	}

	if err := s.reports.Write(ctx, rep); err != nil {
		log.Warn().Err(err).Msg("Failed to archive pass report")
	}

	log.Info().Msg("Lesson provisioning finished")
	return nil
}

// Plan resolves folders, collates attachments, computes the schedule, and
// returns the ordered command list for one course. Any resolution failure
// abandons the course before a single remote call is made.
func (s *Service) Plan(ctx context.Context, lesson model.LessonSpec, course model.Course, root model.Folder, formURL string) ([]Command, error) {
	sched, err := schedule.Compute(lesson.Date, course.StartTime, s.loc)
	if err != nil {
		return nil, err
	}

	layout := s.cfg.Provision.Layout

	// Create-if-absent applies to the lesson-number level only; subfolders
	// must already exist.
	if _, err := s.resolver.ResolveOrCreateFolder(ctx, lesson.Number, root); err != nil {
		return nil, err
	}

	topicName := fmt.Sprintf("%s - %s", lesson.Number, lesson.Title)
	commands := []Command{topicCommand(topicName)}

	// External-link item. The event link is per-lesson and optional.
	var linkAttachments []model.Attachment
	if lesson.EventURL != "" {
		linkAttachments = append(linkAttachments, classroom.TagAttachment(lesson.EventURL))
	}
	commands = append(commands, materialCommand(
		classroom.BuildMaterial("Slido", lesson.EventCode, sched.Scheduled, "", linkAttachments)))

	folderMaterials := []struct {
		title  string
		folder string
	}{
		{"Reference materials", layout.ReferenceFolder},
		{"Lecture materials", layout.SlidesFolder},
		{fmt.Sprintf("Assignment %s: check data", lesson.Number), layout.AssignmentFolder + "/" + layout.CheckDataFolder},
		{fmt.Sprintf("Assignment %s: answer key", lesson.Number), layout.AssignmentFolder + "/" + layout.AnswersFolder},
	}
	for _, m := range folderMaterials {
		folder, err := s.resolver.ResolveFolder(ctx, lesson.Number+"/"+m.folder, root)
		if err != nil {
			return nil, err
		}
		attachments, err := drive.Collate(ctx, s.store, folder)
		if err != nil {
			return nil, err
		}
		commands = append(commands, materialCommand(
			classroom.BuildMaterial(m.title, "", sched.Scheduled, "", attachments)))
	}

	// Assignment: instruction file first, then the collated worksheet files.
	instructions, err := s.resolver.ResolveFile(ctx,
		lesson.Number+"/"+layout.AssignmentFolder+"/"+layout.InstructionsFile, root)
	if err != nil {
		return nil, err
	}
	worksheets, err := s.resolver.ResolveFolder(ctx,
		lesson.Number+"/"+layout.AssignmentFolder+"/"+layout.WorksheetsFolder, root)
	if err != nil {
		return nil, err
	}
	supplements, err := drive.Collate(ctx, s.store, worksheets)
	if err != nil {
		return nil, err
	}
	assignmentAttachments := append([]model.Attachment{classroom.TagAttachment(instructions.ID)}, supplements...)
	commands = append(commands, workCommand(model.ItemKindAssignment,
		classroom.BuildWork("Assignment "+lesson.Number, "", sched.AssignmentDue, sched.Scheduled, "", assignmentAttachments)))

	// Attendance: a single link to the per-lesson response form.
	commands = append(commands, workCommand(model.ItemKindAttendance,
		classroom.BuildWork("Attendance check "+lesson.Number, "", sched.AttendanceDue, sched.Scheduled, "",
			[]model.Attachment{classroom.TagAttachment(formURL)})))

	return commands, nil
}

// Execute issues the plan's remote calls in order. The topic comes first and
// its identifier is stamped onto every subsequent payload. An item-level
// failure stops the course mid-sequence; already-created items stay.
func (s *Service) Execute(ctx context.Context, lesson model.LessonSpec, course model.Course, plan []Command) error {
	var topicID string

	for _, cmd := range plan {
		var remoteID string
		var err error

		switch cmd.Kind {
		case model.ItemKindTopic:
			topicID, err = s.platform.CreateTopic(ctx, course.ID, cmd.Title)
			remoteID = topicID
		case model.ItemKindMaterial:
			payload := *cmd.Material
			payload.TopicID = topicID
			var created model.Material
			created, err = s.platform.CreateMaterial(ctx, course.ID, payload)
			remoteID = created.ID
		case model.ItemKindAssignment, model.ItemKindAttendance:
			payload := *cmd.Work
			payload.TopicID = topicID
			var created model.CourseWork
			created, err = s.platform.CreateCourseWork(ctx, course.ID, payload)
			remoteID = created.ID
		default:
			err = fmt.Errorf("unknown command kind %q", cmd.Kind)
		}

		s.recordItem(ctx, lesson, course, cmd, remoteID, err)
		if err != nil {
			return fmt.Errorf("create %s %q: %w", cmd.Kind, cmd.Title, err)
		}
	}

	return nil
}

func (s *Service) recordItem(ctx context.Context, lesson model.LessonSpec, course model.Course, cmd Command, remoteID string, itemErr error) {
	if s.repo == nil {
		return
	}

	item := &model.ProvisionItem{
		LessonNumber: lesson.Number,
		CourseID:     course.ID,
		Kind:         cmd.Kind,
		Title:        cmd.Title,
		RemoteID:     remoteID,
		Status:       model.ItemStatusCreated,
	}
	if itemErr != nil {
		msg := itemErr.Error()
		item.Status = model.ItemStatusFailed
		item.ErrorMessage = &msg
	}

	if err := s.repo.InsertItem(ctx, item); err != nil {
		s.log.Warn().Err(err).Str("title", cmd.Title).Msg("Failed to record provision item")
	}
}
