package web

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"zettel/internal/store"
	"zettel/internal/tree"
)

// handleProfile serves the read-only public view of a user's tree at
// /@name and below. The store is queried public-only, and on top of that
// the effective-visibility predicate filters out anything whose chain is
// not public end to end. A private profile is indistinguishable from a
// missing user.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	name, segments, ok := splitProfilePath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	owner, err := s.store.UserByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.internalError(w, "load profile user", err)
		return
	}
	if !owner.ProfilePublic {
		http.NotFound(w, r)
		return
	}

	ctx := store.WithPublicOnly(r.Context())
	full, records, err := s.loadSnapshot(ctx, owner.ID)
	if err != nil {
		s.internalError(w, "load profile snapshot", err)
		return
	}
	t := effectivelyPublicTree(full, owner.ProfilePublic)
	base := "/@" + owner.Name

	folderID, resolved := t.ResolveFolderChain(segments)
	var note *tree.Note
	if !resolved && len(segments) > 0 {
		parentID, ok := t.ResolveFolderChain(segments[:len(segments)-1])
		if !ok {
			http.NotFound(w, r)
			return
		}
		n, ok := t.NoteBySlug(parentID, segments[len(segments)-1])
		if !ok {
			http.NotFound(w, r)
			return
		}
		folderID, note = parentID, &n
	}

	data := ViewData{
		ContentTemplate: "profile",
		ProfileUser:     owner.Name,
		CurrentFolderID: folderID,
	}
	if user, ok := CurrentUser(r.Context()); ok {
		data.UserName = user.Name
	}

	render := func(content string) template.HTML {
		html, err := s.renderer.Render(content, func(target string) (string, bool) {
			if p, ok := wikiResolver(t)(target); ok {
				return rebase(p, base), true
			}
			return "", false
		})
		if err != nil {
			slog.Error("render profile note failed", "err", err)
			return ""
		}
		return template.HTML(html)
	}

	if note != nil {
		card := noteCard(t, *note)
		card.Path = rebase(card.Path, base)
		card.EditPath = ""
		data.Note = &card
		data.Title = note.Title
		data.RenderedHTML = render(records[note.ID].Content)
		s.views.RenderPage(w, data)
		return
	}

	data.Title = owner.Name
	children := t.ChildrenOf(folderID, s.sortOrder())
	for _, f := range children.Folders {
		card := folderCard(t, f)
		card.Path = rebase(card.Path, base)
		data.Folders = append(data.Folders, card)
	}
	for _, n := range children.Notes {
		card := noteCard(t, n)
		card.Path = rebase(card.Path, base)
		card.EditPath = ""
		data.Notes = append(data.Notes, card)
		if card.Readme && data.Readme == nil {
			data.Readme = &card
			data.RenderedHTML = render(records[n.ID].Content)
		}
	}
	s.views.RenderPage(w, data)
}

// effectivelyPublicTree drops every folder and note whose own flag,
// ancestor chain, or profile flag is not public. The public-only store
// read already hides private rows; this removes public rows stranded
// under private ancestors.
func effectivelyPublicTree(t *tree.Tree, profilePublic bool) *tree.Tree {
	var folders []tree.Folder
	for _, f := range t.Folders() {
		if t.FolderEffectivelyPublic(f.ID, profilePublic) {
			folders = append(folders, f)
		}
	}
	var notes []tree.Note
	for _, n := range t.Notes() {
		if t.NoteEffectivelyPublic(n, profilePublic) {
			notes = append(notes, n)
		}
	}
	return tree.New(folders, notes)
}

func splitProfilePath(path string) (name string, segments []string, ok bool) {
	trimmed := strings.Trim(strings.TrimPrefix(path, "/"), "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) == 0 || !strings.HasPrefix(parts[0], "@") {
		return "", nil, false
	}
	name = strings.TrimPrefix(parts[0], "@")
	if name == "" {
		return "", nil, false
	}
	return name, parts[1:], true
}

func rebase(path, base string) string {
	if path == tree.DashboardPath {
		return base
	}
	return base + strings.TrimPrefix(path, tree.DashboardPath)
}
