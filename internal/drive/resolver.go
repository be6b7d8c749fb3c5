package drive

import (
	"context"
	"fmt"
	"strings"

	"classroom-provisioner/internal/logger"
	"classroom-provisioner/internal/model"
	"classroom-provisioner/pkg/errors"

	"github.com/rs/zerolog"
)

// Resolver walks slash-delimited logical paths against the store. Lookups are
// by name and names are not guaranteed unique; the first match wins and an
// ambiguous lookup is logged.
type Resolver struct {
	store     Store
	rootAlias string
	log       zerolog.Logger
}

func NewResolver(store Store, rootAlias string) *Resolver {
	return &Resolver{
		store:     store,
		rootAlias: rootAlias,
		log:       logger.Get(),
	}
}

// segments splits path on "/" and strips leading empty segments plus a
// leading root-alias segment (the store's default root label).
func (r *Resolver) segments(path string) []string {
	parts := strings.Split(path, "/")

	i := 0
	for i < len(parts) && parts[i] == "" {
		i++
	}
	if i < len(parts) && parts[i] == r.rootAlias {
		i++
	}

	return parts[i:]
}

// ResolveFolder resolves every segment of path as a folder under base.
func (r *Resolver) ResolveFolder(ctx context.Context, path string, base model.Folder) (model.Folder, error) {
	current := base
	for _, seg := range r.segments(path) {
		next, err := r.folderByName(ctx, current, seg)
		if err != nil {
			return model.Folder{}, fmt.Errorf("resolve %q: %w", path, err)
		}
		current = next
	}
	return current, nil
}

// ResolveFile resolves all non-terminal segments as folders and the terminal
// segment as a file.
func (r *Resolver) ResolveFile(ctx context.Context, path string, base model.Folder) (model.File, error) {
	segs := r.segments(path)
	if len(segs) == 0 {
		return model.File{}, fmt.Errorf("resolve %q: empty file path", path)
	}

	current := base
	for _, seg := range segs[:len(segs)-1] {
		next, err := r.folderByName(ctx, current, seg)
		if err != nil {
			return model.File{}, fmt.Errorf("resolve %q: %w", path, err)
		}
		current = next
	}

	name := segs[len(segs)-1]
	matches, err := r.store.FilesByName(ctx, current.ID, name)
	if err != nil {
		return model.File{}, fmt.Errorf("resolve %q: lookup file %q: %w", path, name, err)
	}
	if len(matches) == 0 {
		return model.File{}, fmt.Errorf("resolve %q: file %q: %w", path, name, errors.ErrFileNotFound)
	}
	if len(matches) > 1 {
		r.log.Warn().Str("path", path).Str("name", name).Int("matches", len(matches)).
			Msg("Ambiguous file name, using first match")
	}
	return matches[0], nil
}

// ResolveOrCreateFolder resolves path and creates the terminal segment when
// it is missing. Intermediate segments must already exist; deep creation is
// deliberately unsupported.
func (r *Resolver) ResolveOrCreateFolder(ctx context.Context, path string, base model.Folder) (model.Folder, error) {
	segs := r.segments(path)
	if len(segs) == 0 {
		return base, nil
	}

	current := base
	for _, seg := range segs[:len(segs)-1] {
		next, err := r.folderByName(ctx, current, seg)
		if err != nil {
			return model.Folder{}, fmt.Errorf("resolve %q: %w", path, err)
		}
		current = next
	}

	name := segs[len(segs)-1]
	matches, err := r.store.FoldersByName(ctx, current.ID, name)
	if err != nil {
		return model.Folder{}, fmt.Errorf("resolve %q: lookup folder %q: %w", path, name, err)
	}
	if len(matches) > 0 {
		if len(matches) > 1 {
			r.log.Warn().Str("path", path).Str("name", name).Int("matches", len(matches)).
				Msg("Ambiguous folder name, using first match")
		}
		return matches[0], nil
	}

	created, err := r.store.CreateFolder(ctx, current.ID, name)
	if err != nil {
		return model.Folder{}, fmt.Errorf("create folder %q under %q: %w", name, current.Name, err)
	}
	r.log.Info().Str("folder", name).Str("parent", current.Name).Msg("Folder created")
	return created, nil
}

func (r *Resolver) folderByName(ctx context.Context, parent model.Folder, name string) (model.Folder, error) {
	matches, err := r.store.FoldersByName(ctx, parent.ID, name)
	if err != nil {
		return model.Folder{}, fmt.Errorf("lookup folder %q: %w", name, err)
	}
	if len(matches) == 0 {
		return model.Folder{}, fmt.Errorf("folder %q: %w", name, errors.ErrFolderNotFound)
	}
	if len(matches) > 1 {
		r.log.Warn().Str("name", name).Str("parent", parent.Name).Int("matches", len(matches)).
			Msg("Ambiguous folder name, using first match")
	}
	return matches[0], nil
}
