package tree

import (
	"context"
	"fmt"
)

// VisibilityStore is the slice of the persistence contract the visibility
// cascade writes through.
type VisibilityStore interface {
	UpdateFolderVisibility(ctx context.Context, id string, public bool) error
	SetFoldersVisibility(ctx context.Context, ids []string, public bool) error
	SetNotesVisibility(ctx context.Context, ids []string, public bool) error
}

// SetFolderVisibility toggles a folder's public flag. Turning a folder
// private forces every descendant folder private, then every note inside
// the affected subtree private: the root by the direct mutation, the rest
// by two batch writes. Turning a folder public cascades nowhere; ancestors
// and descendants keep their own flags and effective visibility decides
// what is actually shown. The writes are independent remote calls, so a
// later failure leaves the earlier ones in place and is reported as
// partial.
func (t *Tree) SetFolderVisibility(ctx context.Context, store VisibilityStore, folderID string, public bool) error {
	if err := store.UpdateFolderVisibility(ctx, folderID, public); err != nil {
		return fmt.Errorf("update folder visibility: %w", err)
	}
	if public {
		return nil
	}

	affected := t.DescendantIDs(folderID)
	descendants := affected[1:]
	if len(descendants) > 0 {
		if err := store.SetFoldersVisibility(ctx, descendants, false); err != nil {
			return &PartialError{Stage: "subfolder visibility", Err: err}
		}
	}
	if noteIDs := t.NotesIn(affected); len(noteIDs) > 0 {
		if err := store.SetNotesVisibility(ctx, noteIDs, false); err != nil {
			return &PartialError{Stage: "note visibility", Err: err}
		}
	}
	return nil
}

// ancestorsPublic walks the parent chain and reports whether every folder
// on it, including folderID itself, is public. The walk is cycle-bounded;
// a broken or cyclic chain counts as not public.
func (t *Tree) ancestorsPublic(folderID string) bool {
	visited := make(map[string]bool)
	for id := folderID; id != ""; {
		if visited[id] {
			return false
		}
		visited[id] = true
		f, ok := t.byID[id]
		if !ok {
			return false
		}
		if !f.IsPublic {
			return false
		}
		id = f.ParentID
	}
	return true
}

// FolderEffectivelyPublic reports whether a folder is actually viewable
// publicly: its own flag, every ancestor's flag, and the owner's profile
// flag must all be public. The root position is public whenever the
// profile is.
func (t *Tree) FolderEffectivelyPublic(folderID string, profilePublic bool) bool {
	if !profilePublic {
		return false
	}
	if folderID == "" {
		return true
	}
	return t.ancestorsPublic(folderID)
}

// NoteEffectivelyPublic applies the same predicate to a note: own flag,
// owning folder chain, profile.
func (t *Tree) NoteEffectivelyPublic(n Note, profilePublic bool) bool {
	if !n.IsPublic {
		return false
	}
	return t.FolderEffectivelyPublic(n.FolderID, profilePublic)
}

// CoerceNoteVisibility clamps a note about to be saved: a note can only
// become public when its target folder chain and the owner profile are
// public, whatever the caller asked for.
func (t *Tree) CoerceNoteVisibility(n Note, profilePublic bool) Note {
	if n.IsPublic && !t.FolderEffectivelyPublic(n.FolderID, profilePublic) {
		n.IsPublic = false
	}
	return n
}
