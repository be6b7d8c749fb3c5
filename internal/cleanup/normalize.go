package cleanup

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"classroom-provisioner/internal/classroom"
	"classroom-provisioner/internal/config"
	"classroom-provisioner/internal/drive"
	"classroom-provisioner/internal/logger"
	"classroom-provisioner/internal/model"
	"classroom-provisioner/internal/registry"
	"classroom-provisioner/internal/report"
	"classroom-provisioner/pkg/errors"

	"github.com/rs/zerolog"
)

var (
	// Canonical prefix: two-letter code, six digits, underscore.
	canonicalPattern = regexp.MustCompile(`(?i)^[a-z]{2}\d{6}_`)
	// Legacy prefix: code, two digits, optional hyphen, four digits, optional
	// trailing letter, then a separator before the real file name.
	legacyPattern = regexp.MustCompile(`^([A-Za-z]{2})(\d{2})-?(\d{4})[A-Za-z]?[_\-\s](.+)$`)
	// Student identifier embedded in a display name.
	displayPattern = regexp.MustCompile(`([A-Za-z]{2})(\d{2})-?(\d{4})`)
)

// ComputeCanonicalName returns the submitted file name with a canonical
// student-identifier prefix. Already-canonical names pass through unchanged,
// so the function is idempotent.
func ComputeCanonicalName(fileName, studentDisplayName string) (string, error) {
	if canonicalPattern.MatchString(fileName) {
		return fileName, nil
	}

	if m := legacyPattern.FindStringSubmatch(fileName); m != nil {
		return strings.ToLower(m[1]+m[2]+m[3]) + "_" + m[4], nil
	}

	if m := displayPattern.FindStringSubmatch(studentDisplayName); m != nil {
		return strings.ToLower(m[1]+m[2]+m[3]) + "_" + fileName, nil
	}

	return "", fmt.Errorf("no student identifier in file name %q or display name %q",
		fileName, studentDisplayName)
}

// Normalizer renames turned-in submission files so every name starts with
// the canonical student identifier. Only published assignments whose due
// date has passed are touched. Renames run in dry-run mode unless
// cleanup.apply_renames is set.
type Normalizer struct {
	cfg      *config.Config
	store    drive.Store
	platform classroom.Platform
	reports  *report.Writer
	log      zerolog.Logger
}

func NewNormalizer(cfg *config.Config, store drive.Store, platform classroom.Platform, reports *report.Writer) *Normalizer {
	return &Normalizer{
		cfg:      cfg,
		store:    store,
		platform: platform,
		reports:  reports,
		log:      logger.Get(),
	}
}

func (n *Normalizer) Run(ctx context.Context, reg *registry.Registry, apply bool) error {
	rep := report.New("filenames")
	now := time.Now().UTC()

	for _, course := range reg.Courses {
		log := n.log.With().Str("course_id", course.ID).Logger()

		works, err := n.platform.ListCourseWork(ctx, course.ID)
		if err != nil {
			return fmt.Errorf("list course work for %s: %w", course.ID, err)
		}

		for _, work := range works {
			if !eligibleWork(work, now) {
				continue
			}
			if err := n.normalizeWork(ctx, course, work, apply, rep, log); err != nil {
				return err
			}
		}
	}

	if err := n.reports.Write(ctx, rep); err != nil {
		n.log.Warn().Err(err).Msg("Failed to archive pass report")
	}

	return nil
}

// eligibleWork: published assignment whose due timestamp has passed.
func eligibleWork(work model.CourseWork, now time.Time) bool {
	if work.WorkType != model.WorkTypeAssignment || work.State != model.StatePublished {
		return false
	}
	if work.DueDate == nil {
		return false
	}
	due := dueAt(work)
	return due.Before(now)
}

func dueAt(work model.CourseWork) time.Time {
	hours, minutes := 0, 0
	if work.DueTime != nil {
		hours, minutes = work.DueTime.Hours, work.DueTime.Minutes
	}
	return time.Date(work.DueDate.Year, time.Month(work.DueDate.Month), work.DueDate.Day,
		hours, minutes, 0, 0, time.UTC)
}

func (n *Normalizer) normalizeWork(ctx context.Context, course model.Course, work model.CourseWork, apply bool, rep *report.Report, log zerolog.Logger) error {
	submissions, err := n.platform.ListSubmissions(ctx, course.ID, work.ID)
	if err != nil {
		return fmt.Errorf("list submissions for %s: %w", work.Title, err)
	}

	for _, sub := range submissions {
		if sub.State != model.SubmissionTurnedIn || sub.CourseWorkType != model.WorkTypeAssignment {
			continue
		}
		if sub.AssignmentSubmission == nil {
			continue
		}

		profile, err := n.platform.StudentProfile(ctx, course.ID, sub.UserID)
		if err != nil {
			return fmt.Errorf("student profile %s: %w", sub.UserID, err)
		}

		for _, att := range sub.AssignmentSubmission.Attachments {
			if att.DriveFile == nil {
				continue
			}
			n.normalizeAttachment(ctx, att.DriveFile.DriveFile, profile, apply, rep, log)
		}
	}

	return nil
}

func (n *Normalizer) normalizeAttachment(ctx context.Context, ref model.DriveFileRef, profile model.StudentProfile, apply bool, rep *report.Report, log zerolog.Logger) {
	canonical, err := ComputeCanonicalName(ref.Title, profile.Name)
	if err != nil {
		log.Warn().Err(err).Str("file", ref.Title).Msg("Cannot derive canonical name, skipping")
		rep.AddError("skip", ref.Title, err)
		return
	}
	if canonical == ref.Title {
		return
	}

	// Verify the stored name still matches the listing snapshot before
	// renaming; the file may have changed between listing and mutation.
	current, err := n.store.FileByID(ctx, ref.ID)
	if err != nil {
		log.Warn().Err(err).Str("file_id", ref.ID).Msg("Verification read failed, skipping")
		rep.AddError("skip", ref.Title, err)
		return
	}
	if current.Name != ref.Title {
		cerr := errors.ConsistencyError{FileID: ref.ID, Want: ref.Title, Got: current.Name}
		log.Warn().Err(cerr).Msg("File changed since listing, skipping")
		rep.AddError("skip", ref.Title, cerr)
		return
	}

	if !apply {
		log.Info().Str("from", ref.Title).Str("to", canonical).Msg("Dry run: would rename")
		rep.Add("dry-run", ref.Title, canonical)
		return
	}

	if err := n.store.RenameFile(ctx, ref.ID, canonical); err != nil {
		log.Error().Err(err).Str("file", ref.Title).Msg("Rename failed")
		rep.AddError("rename", ref.Title, err)
		return
	}

	log.Info().Str("from", ref.Title).Str("to", canonical).Msg("File renamed")
	rep.Add("rename", ref.Title, canonical)
}
