package cleanup

import (
	"context"
	"fmt"
	"strings"

	"classroom-provisioner/internal/config"
	"classroom-provisioner/internal/drive"
	"classroom-provisioner/internal/logger"
	"classroom-provisioner/internal/model"
	"classroom-provisioner/internal/registry"
	"classroom-provisioner/internal/report"
	"classroom-provisioner/pkg/errors"

	"github.com/rs/zerolog"
)

// Revoker strips stale editor grants from files under each course's teacher
// folder. Files owned by the acting principal are never touched. The store
// is assumed acyclic, so the walk is bounded by the real subtree depth.
type Revoker struct {
	cfg     *config.Config
	store   drive.Store
	reports *report.Writer
	log     zerolog.Logger
}

func NewRevoker(cfg *config.Config, store drive.Store, reports *report.Writer) *Revoker {
	return &Revoker{
		cfg:     cfg,
		store:   store,
		reports: reports,
		log:     logger.Get(),
	}
}

type revokeTarget struct {
	course model.Course
	folder model.Folder
	path   string
}

// Run validates every course folder first and only then mutates: a single
// folder outside the expected storage area aborts the whole pass with zero
// grants removed.
func (r *Revoker) Run(ctx context.Context, reg *registry.Registry) error {
	if r.cfg.Cleanup.TeacherEmail != reg.TeacherEmail {
		return errors.PreconditionError{
			Subject: r.cfg.Cleanup.TeacherEmail,
			Reason:  fmt.Sprintf("acting identity does not match registry teacher %s", reg.TeacherEmail),
		}
	}

	targets := make([]revokeTarget, 0, len(reg.Courses))
	for _, course := range reg.Courses {
		folder, err := r.store.FolderByID(ctx, course.TeacherFolderID)
		if err != nil {
			return fmt.Errorf("teacher folder %s of course %s: %w", course.TeacherFolderID, course.ID, err)
		}

		path, err := r.ancestorPath(ctx, folder)
		if err != nil {
			return fmt.Errorf("ancestor path of folder %s: %w", folder.ID, err)
		}

		if !hasMarkerAncestor(path, r.cfg.Cleanup.RootMarker) {
			return errors.PreconditionError{
				Subject: path,
				Reason:  fmt.Sprintf("folder is outside the %q storage area", r.cfg.Cleanup.RootMarker),
			}
		}

		targets = append(targets, revokeTarget{course: course, folder: folder, path: path})
	}

	rep := report.New("permissions")

	for _, t := range targets {
		protected := []string{reg.TeacherEmail}
		if t.course.TeacherGroupEmail != "" {
			protected = append(protected, t.course.TeacherGroupEmail)
		}

		if err := r.walk(ctx, t.folder, t.path, protected, rep); err != nil {
			return fmt.Errorf("revoke in course %s: %w", t.course.ID, err)
		}
	}

	if err := r.reports.Write(ctx, rep); err != nil {
		r.log.Warn().Err(err).Msg("Failed to archive pass report")
	}

	return nil
}

// ancestorPath builds the full slash path of folder by walking parents up to
// the root, the folder's own name last.
func (r *Revoker) ancestorPath(ctx context.Context, folder model.Folder) (string, error) {
	path := folder.Name
	current := folder
	for {
		parent, ok, err := r.store.Parent(ctx, current.ID)
		if err != nil {
			return "", err
		}
		if !ok {
			break
		}
		path = parent.Name + "/" + path
		current = parent
	}
	return "/" + path, nil
}

// hasMarkerAncestor reports whether marker appears as a proper ancestor
// segment of path (the target folder itself does not count).
func hasMarkerAncestor(path, marker string) bool {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for _, seg := range segments[:len(segments)-1] {
		if seg == marker {
			return true
		}
	}
	return false
}

func (r *Revoker) walk(ctx context.Context, folder model.Folder, path string, protected []string, rep *report.Report) error {
	r.log.Info().Str("path", path).Msg("Scanning folder")

	files, err := r.store.ChildFiles(ctx, folder.ID)
	if err != nil {
		return fmt.Errorf("list files in %s: %w", path, err)
	}

	for _, file := range files {
		if file.Owner == r.cfg.Cleanup.TeacherEmail {
			continue
		}

		editors, err := r.store.Editors(ctx, file.ID)
		if err != nil {
			return fmt.Errorf("editors of %s: %w", file.Name, err)
		}

		for _, editor := range editors {
			if !containsString(protected, editor) {
				continue
			}
			if err := r.store.RemoveEditor(ctx, file.ID, editor); err != nil {
				return fmt.Errorf("remove editor %s from %s: %w", editor, file.Name, err)
			}
			r.log.Info().Str("file", file.Name).Str("editor", editor).Msg("Editor grant removed")
			rep.Add("revoke", path+"/"+file.Name, editor)
		}
	}

	children, err := r.store.ChildFolders(ctx, folder.ID)
	if err != nil {
		return fmt.Errorf("list folders in %s: %w", path, err)
	}
	for _, child := range children {
		if err := r.walk(ctx, child, path+"/"+child.Name, protected, rep); err != nil {
			return err
		}
	}

	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
