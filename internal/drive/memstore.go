package drive

import (
	"context"
	"fmt"
	"sync"

	"classroom-provisioner/internal/model"
	"classroom-provisioner/pkg/errors"
)

// MemStore is an in-memory Store and FormService used by tests and dry runs.
type MemStore struct {
	mu      sync.Mutex
	seq     int
	rootID  string
	folders map[string]*memFolder
	files   map[string]*memFile
	titles  map[string]string // formID → title
	dests   map[string]string // formID → spreadsheetID
}

type memFolder struct {
	id       string
	name     string
	parentID string
	folders  []string // child folder IDs, enumeration order
	files    []string // child file IDs, enumeration order
}

type memFile struct {
	id       string
	name     string
	url      string
	owner    string
	parentID string
	editors  []string
}

func NewMemStore(rootName string) *MemStore {
	s := &MemStore{
		folders: make(map[string]*memFolder),
		files:   make(map[string]*memFile),
		titles:  make(map[string]string),
		dests:   make(map[string]string),
	}
	s.rootID = s.nextID("folder")
	s.folders[s.rootID] = &memFolder{id: s.rootID, name: rootName}
	return s
}

func (s *MemStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%03d", prefix, s.seq)
}

func (s *MemStore) Root() model.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.Folder{ID: s.rootID, Name: s.folders[s.rootID].name}
}

// AddFolder creates a child folder without going through CreateFolder, for
// test fixture setup.
func (s *MemStore) AddFolder(parentID, name string) model.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID("folder")
	s.folders[id] = &memFolder{id: id, name: name, parentID: parentID}
	s.folders[parentID].folders = append(s.folders[parentID].folders, id)
	return model.Folder{ID: id, Name: name}
}

func (s *MemStore) AddFile(parentID, name, owner string, editors ...string) model.File {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID("file")
	s.files[id] = &memFile{
		id:       id,
		name:     name,
		url:      "https://store.example.com/files/" + id,
		owner:    owner,
		parentID: parentID,
		editors:  append([]string(nil), editors...),
	}
	s.folders[parentID].files = append(s.folders[parentID].files, id)
	return model.File{ID: id, Name: name, Owner: owner}
}

func (s *MemStore) FolderByID(ctx context.Context, id string) (model.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.folders[id]
	if !ok {
		return model.Folder{}, errors.ErrFolderNotFound
	}
	return model.Folder{ID: f.id, Name: f.name}, nil
}

func (s *MemStore) FoldersByName(ctx context.Context, parentID, name string) ([]model.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, ok := s.folders[parentID]
	if !ok {
		return nil, errors.ErrFolderNotFound
	}

	var matches []model.Folder
	for _, id := range parent.folders {
		if f := s.folders[id]; f.name == name {
			matches = append(matches, model.Folder{ID: f.id, Name: f.name})
		}
	}
	return matches, nil
}

func (s *MemStore) FilesByName(ctx context.Context, parentID, name string) ([]model.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, ok := s.folders[parentID]
	if !ok {
		return nil, errors.ErrFolderNotFound
	}

	var matches []model.File
	for _, id := range parent.files {
		if f := s.files[id]; f.name == name {
			matches = append(matches, s.fileRecord(f))
		}
	}
	return matches, nil
}

func (s *MemStore) ChildFolders(ctx context.Context, parentID string) ([]model.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, ok := s.folders[parentID]
	if !ok {
		return nil, errors.ErrFolderNotFound
	}

	out := make([]model.Folder, 0, len(parent.folders))
	for _, id := range parent.folders {
		f := s.folders[id]
		out = append(out, model.Folder{ID: f.id, Name: f.name})
	}
	return out, nil
}

func (s *MemStore) ChildFiles(ctx context.Context, parentID string) ([]model.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, ok := s.folders[parentID]
	if !ok {
		return nil, errors.ErrFolderNotFound
	}

	out := make([]model.File, 0, len(parent.files))
	for _, id := range parent.files {
		out = append(out, s.fileRecord(s.files[id]))
	}
	return out, nil
}

func (s *MemStore) CreateFolder(ctx context.Context, parentID, name string) (model.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.folders[parentID]; !ok {
		return model.Folder{}, errors.ErrFolderNotFound
	}

	id := s.nextID("folder")
	s.folders[id] = &memFolder{id: id, name: name, parentID: parentID}
	s.folders[parentID].folders = append(s.folders[parentID].folders, id)
	return model.Folder{ID: id, Name: name}, nil
}

func (s *MemStore) CopyFile(ctx context.Context, fileID, name, destFolderID string) (model.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, ok := s.files[fileID]
	if !ok {
		return model.File{}, errors.ErrFileNotFound
	}
	if _, ok := s.folders[destFolderID]; !ok {
		return model.File{}, errors.ErrFolderNotFound
	}

	id := s.nextID("file")
	s.files[id] = &memFile{
		id:       id,
		name:     name,
		url:      "https://store.example.com/files/" + id,
		owner:    src.owner,
		parentID: destFolderID,
	}
	s.folders[destFolderID].files = append(s.folders[destFolderID].files, id)
	return s.fileRecord(s.files[id]), nil
}

func (s *MemStore) CreateSpreadsheet(ctx context.Context, name string) (model.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID("file")
	s.files[id] = &memFile{
		id:       id,
		name:     name,
		url:      "https://store.example.com/sheets/" + id,
		parentID: s.rootID,
	}
	s.folders[s.rootID].files = append(s.folders[s.rootID].files, id)
	return s.fileRecord(s.files[id]), nil
}

func (s *MemStore) MoveFile(ctx context.Context, fileID, destFolderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[fileID]
	if !ok {
		return errors.ErrFileNotFound
	}
	dest, ok := s.folders[destFolderID]
	if !ok {
		return errors.ErrFolderNotFound
	}

	old := s.folders[f.parentID]
	for i, id := range old.files {
		if id == fileID {
			old.files = append(old.files[:i], old.files[i+1:]...)
			break
		}
	}
	f.parentID = destFolderID
	dest.files = append(dest.files, fileID)
	return nil
}

func (s *MemStore) RenameFile(ctx context.Context, fileID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[fileID]
	if !ok {
		return errors.ErrFileNotFound
	}
	f.name = name
	return nil
}

func (s *MemStore) FileByID(ctx context.Context, id string) (model.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[id]
	if !ok {
		return model.File{}, errors.ErrFileNotFound
	}
	return s.fileRecord(f), nil
}

func (s *MemStore) Parent(ctx context.Context, folderID string) (model.Folder, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.folders[folderID]
	if !ok {
		return model.Folder{}, false, errors.ErrFolderNotFound
	}
	if f.parentID == "" {
		return model.Folder{}, false, nil
	}
	p := s.folders[f.parentID]
	return model.Folder{ID: p.id, Name: p.name}, true, nil
}

func (s *MemStore) Editors(ctx context.Context, fileID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[fileID]
	if !ok {
		return nil, errors.ErrFileNotFound
	}
	return append([]string(nil), f.editors...), nil
}

func (s *MemStore) RemoveEditor(ctx context.Context, fileID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[fileID]
	if !ok {
		return errors.ErrFileNotFound
	}
	for i, e := range f.editors {
		if e == email {
			f.editors = append(f.editors[:i], f.editors[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *MemStore) SetTitle(ctx context.Context, formID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[formID]; !ok {
		return errors.ErrFileNotFound
	}
	s.titles[formID] = title
	return nil
}

func (s *MemStore) SetDestination(ctx context.Context, formID, spreadsheetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[formID]; !ok {
		return errors.ErrFileNotFound
	}
	s.dests[formID] = spreadsheetID
	return nil
}

// Destination reports the bound results spreadsheet for a form, for tests.
func (s *MemStore) Destination(formID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dest, ok := s.dests[formID]
	return dest, ok
}

func (s *MemStore) fileRecord(f *memFile) model.File {
	return model.File{ID: f.id, Name: f.name, URL: f.url, Owner: f.owner}
}
