package tree

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// SortOrder controls how ChildrenOf orders notes by title.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Children is the visible slice of the tree at one position.
type Children struct {
	Folders []Folder
	Notes   []Note
}

// ChildrenOf filters the collections down to the direct children of a
// folder ("" = root). Notes are ordered by title, case-insensitively, in
// the requested direction, except a readme note which always sorts first.
// Folders are left unordered; their presentation order is not decided here.
func (t *Tree) ChildrenOf(folderID string, order SortOrder) Children {
	var out Children
	for _, f := range t.folders {
		if f.ParentID == folderID {
			out.Folders = append(out.Folders, f)
		}
	}
	for _, n := range t.notes {
		if n.FolderID == folderID {
			out.Notes = append(out.Notes, n)
		}
	}
	sort.SliceStable(out.Notes, func(i, j int) bool {
		a, b := out.Notes[i], out.Notes[j]
		if ra, rb := IsReadme(a), IsReadme(b); ra != rb {
			return ra
		}
		ta, tb := strings.ToLower(a.Title), strings.ToLower(b.Title)
		if order == SortDesc {
			return ta > tb
		}
		return ta < tb
	})
	return out
}

// SelectableNotes lists the notes of a folder that participate in bulk
// actions, which excludes the pinned readme.
func (t *Tree) SelectableNotes(folderID string, order SortOrder) []Note {
	children := t.ChildrenOf(folderID, order)
	notes := children.Notes[:0]
	for _, n := range children.Notes {
		if IsReadme(n) {
			continue
		}
		notes = append(notes, n)
	}
	return notes
}

// NavigateUp returns the parent of a folder. Unknown folders and root
// folders both resolve to the root position.
func (t *Tree) NavigateUp(folderID string) string {
	f, ok := t.byID[folderID]
	if !ok {
		return ""
	}
	return f.ParentID
}

// DescendantIDs collects every folder reachable from folderID, inclusive,
// in breadth-first order. The visited set bounds the traversal at the
// total folder count, so malformed parent chains cannot loop it.
func (t *Tree) DescendantIDs(folderID string) []string {
	ids := []string{folderID}
	visited := map[string]bool{folderID: true}
	for cursor := 0; cursor < len(ids); cursor++ {
		for _, f := range t.folders {
			if f.ParentID != ids[cursor] || visited[f.ID] {
				continue
			}
			visited[f.ID] = true
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// NotesIn returns the IDs of all notes whose folder is in the given id-set.
func (t *Tree) NotesIn(folderIDs []string) []string {
	member := make(map[string]bool, len(folderIDs))
	for _, id := range folderIDs {
		member[id] = true
	}
	var noteIDs []string
	for _, n := range t.notes {
		if member[n.FolderID] {
			noteIDs = append(noteIDs, n.ID)
		}
	}
	return noteIDs
}

// Deleter is the slice of the persistence contract subtree deletion needs.
type Deleter interface {
	DeleteFolders(ctx context.Context, ids []string) error
	DeleteNotes(ctx context.Context, ids []string) error
}

// DeleteResult reports what a subtree deletion removed.
type DeleteResult struct {
	DeletedFolderIDs []string
	DeletedNoteIDs   []string
}

// PartialError marks a cascade that succeeded partway: the completed stage
// is not rolled back, and callers must surface the failed one.
type PartialError struct {
	Stage string
	Err   error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("%s failed after earlier stage succeeded: %v", e.Stage, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }

// DeleteSubtree removes a folder with everything transitively inside it:
// one folder delete for the whole id-set, awaited, then one note delete
// for the notes inside those folders. If the folder delete fails nothing
// has been removed. If the note delete fails the folders stay deleted and
// the error is reported as partial; reconciliation happens on refetch.
func (t *Tree) DeleteSubtree(ctx context.Context, store Deleter, folderID string) (DeleteResult, error) {
	folderIDs := t.DescendantIDs(folderID)
	noteIDs := t.NotesIn(folderIDs)

	if err := store.DeleteFolders(ctx, folderIDs); err != nil {
		return DeleteResult{}, fmt.Errorf("delete folders: %w", err)
	}
	result := DeleteResult{DeletedFolderIDs: folderIDs}
	if len(noteIDs) > 0 {
		if err := store.DeleteNotes(ctx, noteIDs); err != nil {
			return result, &PartialError{Stage: "delete notes", Err: err}
		}
	}
	result.DeletedNoteIDs = noteIDs
	return result, nil
}
