package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"zettel/internal/store"
	"zettel/internal/tree"
)

// handleNoteSave creates or updates a note. The requested visibility is
// clamped before it hits the store: a note cannot be public inside a
// private chain or under a private profile.
func (s *Server) handleNoteSave(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requirePost(w, r)
	if !ok {
		return
	}
	t, _, err := s.loadSnapshot(r.Context(), user.ID)
	if err != nil {
		s.internalError(w, "load snapshot", err)
		return
	}

	in := store.NoteInput{
		ID:       r.FormValue("id"),
		UserID:   user.ID,
		FolderID: r.FormValue("folder"),
		Title:    r.FormValue("title"),
		Content:  r.FormValue("content"),
		Tags:     splitTags(r.FormValue("tags")),
		IsPublic: r.FormValue("public") == "true",
	}
	coerced := t.CoerceNoteVisibility(tree.Note{
		ID:       in.ID,
		FolderID: in.FolderID,
		Title:    in.Title,
		IsPublic: in.IsPublic,
	}, user.ProfilePublic)
	if coerced.IsPublic != in.IsPublic {
		s.addToast(r, "info", "note kept private: its folder or profile is not public")
		in.IsPublic = coerced.IsPublic
	}

	n, err := s.store.SaveNote(r.Context(), in)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.addToast(r, "error", "note no longer exists")
			http.Redirect(w, r, t.FolderPath(in.FolderID), http.StatusSeeOther)
			return
		}
		s.internalError(w, "save note", err)
		return
	}
	slog.Info("note saved", "user", user.Name, "note", n.Title)

	t, _, err = s.loadSnapshot(r.Context(), user.ID)
	if err != nil {
		s.internalError(w, "load snapshot", err)
		return
	}
	http.Redirect(w, r, t.NotePath(tree.Note{ID: n.ID, FolderID: n.FolderID, Slug: n.Slug}), http.StatusSeeOther)
}

// handleNoteDelete removes the selected notes of a folder. Readme notes
// are not bulk-selectable, so ids pointing at one are dropped here too.
func (s *Server) handleNoteDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requirePost(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	t, _, err := s.loadSnapshot(r.Context(), user.ID)
	if err != nil {
		s.internalError(w, "load snapshot", err)
		return
	}

	ids := s.ownedSelectableNotes(t, r.Form["id"])
	folderPath := t.FolderPath(r.FormValue("folder"))
	if len(ids) == 0 {
		http.Redirect(w, r, folderPath, http.StatusSeeOther)
		return
	}
	if err := s.store.DeleteNotes(r.Context(), ids); err != nil {
		s.internalError(w, "delete notes", err)
		return
	}
	slog.Info("notes deleted", "user", user.Name, "count", len(ids))
	http.Redirect(w, r, folderPath, http.StatusSeeOther)
}

func (s *Server) handleNoteMove(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requirePost(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	target := r.FormValue("target")
	t, _, err := s.loadSnapshot(r.Context(), user.ID)
	if err != nil {
		s.internalError(w, "load snapshot", err)
		return
	}
	if target != "" {
		if _, ok := t.Folder(target); !ok {
			http.Error(w, "unknown target folder", http.StatusBadRequest)
			return
		}
	}

	ids := s.ownedSelectableNotes(t, r.Form["id"])
	if len(ids) > 0 {
		if err := s.store.MoveNotes(r.Context(), ids, target); err != nil {
			s.internalError(w, "move notes", err)
			return
		}
		slog.Info("notes moved", "user", user.Name, "count", len(ids), "target", target)
	}
	http.Redirect(w, r, t.FolderPath(target), http.StatusSeeOther)
}

// ownedSelectableNotes filters submitted note ids down to notes that
// exist in the user's tree and are not a pinned readme.
func (s *Server) ownedSelectableNotes(t *tree.Tree, ids []string) []string {
	byID := make(map[string]tree.Note, len(t.Notes()))
	for _, n := range t.Notes() {
		byID[n.ID] = n
	}
	var out []string
	for _, id := range ids {
		n, ok := byID[id]
		if !ok || tree.IsReadme(n) {
			continue
		}
		out = append(out, id)
	}
	return out
}

func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	var tags []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
