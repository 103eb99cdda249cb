package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"zettel/internal/store"
	"zettel/internal/tree"
)

func (s *Server) handleFolderCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requirePost(w, r)
	if !ok {
		return
	}
	name := r.FormValue("name")
	parentID := r.FormValue("parent")

	t, _, err := s.loadSnapshot(r.Context(), user.ID)
	if err != nil {
		s.internalError(w, "load snapshot", err)
		return
	}
	f, err := s.store.CreateFolder(r.Context(), user.ID, name, parentID)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateName) {
			s.addToast(r, "error", "a folder with that name already exists here")
			http.Redirect(w, r, t.FolderPath(parentID), http.StatusSeeOther)
			return
		}
		s.internalError(w, "create folder", err)
		return
	}
	slog.Info("folder created", "user", user.Name, "folder", f.Name)
	// Refetch so the new folder resolves to its own path.
	t, _, err = s.loadSnapshot(r.Context(), user.ID)
	if err != nil {
		s.internalError(w, "load snapshot", err)
		return
	}
	http.Redirect(w, r, t.FolderPath(f.ID), http.StatusSeeOther)
}

func (s *Server) handleFolderRename(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requirePost(w, r)
	if !ok {
		return
	}
	id := r.FormValue("id")
	name := r.FormValue("name")

	if !s.ownsFolder(w, r, user, id) {
		return
	}
	if err := s.store.RenameFolder(r.Context(), id, name); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateName):
			s.addToast(r, "error", "a folder with that name already exists here")
		case errors.Is(err, store.ErrNotFound):
			s.addToast(r, "error", "folder no longer exists")
		default:
			s.internalError(w, "rename folder", err)
			return
		}
	}
	t, _, err := s.loadSnapshot(r.Context(), user.ID)
	if err != nil {
		s.internalError(w, "load snapshot", err)
		return
	}
	http.Redirect(w, r, t.FolderPath(id), http.StatusSeeOther)
}

// handleFolderDelete removes a folder and everything under it. The two
// delete stages are not atomic; a partial failure is surfaced as a toast
// and the next snapshot shows whatever actually remains.
func (s *Server) handleFolderDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requirePost(w, r)
	if !ok {
		return
	}
	id := r.FormValue("id")
	if !s.ownsFolder(w, r, user, id) {
		return
	}

	t, _, err := s.loadSnapshot(r.Context(), user.ID)
	if err != nil {
		s.internalError(w, "load snapshot", err)
		return
	}
	parentPath := t.FolderPath(t.NavigateUp(id))

	result, err := t.DeleteSubtree(r.Context(), s.store, id)
	if err != nil {
		var partial *tree.PartialError
		if errors.As(err, &partial) {
			slog.Warn("subtree delete partially failed", "user", user.Name, "stage", partial.Stage, "err", partial.Err)
			s.addToast(r, "warning", "folders were removed but some notes could not be deleted")
			http.Redirect(w, r, parentPath, http.StatusSeeOther)
			return
		}
		s.internalError(w, "delete subtree", err)
		return
	}
	slog.Info("subtree deleted", "user", user.Name,
		"folders", len(result.DeletedFolderIDs), "notes", len(result.DeletedNoteIDs))
	http.Redirect(w, r, parentPath, http.StatusSeeOther)
}

// handleFolderVisibility toggles a folder's public flag. Turning it
// private cascades down; a partial cascade failure is reported but never
// rolled back.
func (s *Server) handleFolderVisibility(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requirePost(w, r)
	if !ok {
		return
	}
	id := r.FormValue("id")
	public := r.FormValue("public") == "true"
	if !s.ownsFolder(w, r, user, id) {
		return
	}

	t, _, err := s.loadSnapshot(r.Context(), user.ID)
	if err != nil {
		s.internalError(w, "load snapshot", err)
		return
	}
	if err := t.SetFolderVisibility(r.Context(), s.store, id, public); err != nil {
		var partial *tree.PartialError
		if errors.As(err, &partial) {
			slog.Warn("visibility cascade partially failed", "user", user.Name, "stage", partial.Stage, "err", partial.Err)
			s.addToast(r, "warning", "visibility change did not reach everything inside the folder")
		} else {
			s.internalError(w, "set folder visibility", err)
			return
		}
	}
	http.Redirect(w, r, t.FolderPath(id), http.StatusSeeOther)
}

func (s *Server) requirePost(w http.ResponseWriter, r *http.Request) (store.User, bool) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return store.User{}, false
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return store.User{}, false
	}
	return user, true
}

// ownsFolder rejects ids that do not belong to the signed-in user. Store
// operations are keyed by raw id, so the check has to happen up front.
func (s *Server) ownsFolder(w http.ResponseWriter, r *http.Request, user store.User, id string) bool {
	if strings.TrimSpace(id) == "" {
		http.Error(w, "missing folder id", http.StatusBadRequest)
		return false
	}
	folders, err := s.store.ListFolders(r.Context(), user.ID)
	if err != nil {
		s.internalError(w, "list folders", err)
		return false
	}
	for _, f := range folders {
		if f.ID == id {
			return true
		}
	}
	http.NotFound(w, r)
	return false
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	slog.Error(op+" failed", "err", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
