package drive

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"classroom-provisioner/internal/model"
)

// Collate lists the direct child files of folder and returns them as an
// attachment list in a deterministic order. The store's enumeration order is
// arbitrary; sorting by case-folded name (stable, so enumeration order breaks
// ties) makes attachment order reproducible across runs, which matters
// because published items display attachments in submission order.
func Collate(ctx context.Context, store Store, folder model.Folder) ([]model.Attachment, error) {
	files, err := store.ChildFiles(ctx, folder.ID)
	if err != nil {
		return nil, fmt.Errorf("list files in %q: %w", folder.Name, err)
	}

	sort.SliceStable(files, func(i, j int) bool {
		return strings.ToLower(files[i].Name) < strings.ToLower(files[j].Name)
	})

	attachments := make([]model.Attachment, len(files))
	for i, f := range files {
		attachments[i] = model.Attachment{
			DriveFile: &model.DriveFileAttachment{
				DriveFile: model.DriveFileRef{ID: f.ID},
			},
		}
	}
	return attachments, nil
}
