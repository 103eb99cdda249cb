package tree

import (
	"log/slog"
	"strings"
)

// Folder and Note are in-memory snapshots of the persisted records. The
// nullable parent/folder references of the store become empty-string IDs
// here; "" always means root and is matched exactly, never loosely.
type Folder struct {
	ID       string
	ParentID string
	Name     string
	Slug     string
	IsPublic bool
}

type Note struct {
	ID       string
	FolderID string
	Title    string
	Slug     string
	Tags     []string
	IsPublic bool
}

// Tree is an immutable view over one user's folder/note collections as
// fetched from the store. It is rebuilt after every mutation; nothing in
// this package patches it in place.
type Tree struct {
	folders []Folder
	notes   []Note
	byID    map[string]Folder
}

func New(folders []Folder, notes []Note) *Tree {
	byID := make(map[string]Folder, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}
	return &Tree{folders: folders, notes: notes, byID: byID}
}

func (t *Tree) Folder(id string) (Folder, bool) {
	f, ok := t.byID[id]
	return f, ok
}

func (t *Tree) Folders() []Folder { return t.folders }

func (t *Tree) Notes() []Note { return t.notes }

// Empty reports whether the snapshot holds no data at all, which callers
// treat as "not loaded yet" rather than "nothing exists".
func (t *Tree) Empty() bool {
	return len(t.folders) == 0 && len(t.notes) == 0
}

// NoteBySlug finds a note by slug within a folder. Slugless notes are not
// addressable and never match.
func (t *Tree) NoteBySlug(folderID, slug string) (Note, bool) {
	if slug == "" {
		return Note{}, false
	}
	for _, n := range t.notes {
		if n.FolderID == folderID && n.Slug == slug {
			return n, true
		}
	}
	return Note{}, false
}

// IsReadme reports whether a note is the distinguished per-folder readme,
// pinned first in listings and excluded from bulk selection.
func IsReadme(n Note) bool {
	return strings.EqualFold(strings.TrimSpace(n.Title), "readme")
}

func logDanglingFolder(op, folderID string) {
	slog.Warn("folder chain broken, falling back to root", "op", op, "folder_id", folderID)
}
