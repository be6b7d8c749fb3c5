package drive

import (
	"context"

	"classroom-provisioner/internal/model"
)

// Store is the capability surface of the hierarchical document store. Name
// lookups may match more than one node; implementations return every match
// and callers decide, so first-match behavior stays visible at the call site.
type Store interface {
	FolderByID(ctx context.Context, id string) (model.Folder, error)
	FoldersByName(ctx context.Context, parentID, name string) ([]model.Folder, error)
	FilesByName(ctx context.Context, parentID, name string) ([]model.File, error)
	ChildFolders(ctx context.Context, parentID string) ([]model.Folder, error)
	ChildFiles(ctx context.Context, parentID string) ([]model.File, error)
	CreateFolder(ctx context.Context, parentID, name string) (model.Folder, error)
	CopyFile(ctx context.Context, fileID, name, destFolderID string) (model.File, error)
	CreateSpreadsheet(ctx context.Context, name string) (model.File, error)
	MoveFile(ctx context.Context, fileID, destFolderID string) error
	RenameFile(ctx context.Context, fileID, name string) error
	FileByID(ctx context.Context, id string) (model.File, error)
	// Parent returns the single parent of a folder, or ok=false at the root.
	Parent(ctx context.Context, folderID string) (model.Folder, bool, error)
	Editors(ctx context.Context, fileID string) ([]string, error)
	RemoveEditor(ctx context.Context, fileID, email string) error
}

// FormService binds a response form to its results spreadsheet.
type FormService interface {
	SetTitle(ctx context.Context, formID, title string) error
	SetDestination(ctx context.Context, formID, spreadsheetID string) error
}
