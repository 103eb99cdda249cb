package web

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"zettel/internal/markdown"
	"zettel/internal/store"
	"zettel/internal/tree"
)

// handleDashboard resolves the request path against the current tree
// snapshot and renders the folder listing, a note preview, or the note
// editor. Stale paths redirect to the nearest live position.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	t, records, err := s.loadSnapshot(r.Context(), user.ID)
	if err != nil {
		slog.Error("load snapshot failed", "user", user.Name, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	sync := tree.NewLocationSync(t)
	if nav := sync.HandleLocation(r.URL.Path); nav != nil {
		http.Redirect(w, r, nav.Path, http.StatusFound)
		return
	}
	folderID, note, mode := sync.Current()
	if note != nil && r.URL.Query().Get("mode") == "edit" {
		mode = tree.ViewEdit
	}

	data := s.dashboardData(user, t, records, folderID, note, mode)
	data.Toasts = s.toasts.Drain(toastKey(r))
	s.views.RenderPage(w, data)
}

func (s *Server) dashboardData(user store.User, t *tree.Tree, records map[string]store.Note, folderID string, note *tree.Note, mode tree.ViewMode) ViewData {
	data := ViewData{
		UserName:        user.Name,
		CurrentFolderID: folderID,
		Breadcrumbs:     s.breadcrumbs(t, folderID),
		SortOrder:       string(s.sortOrder()),
	}
	if folderID != "" {
		data.ParentPath = t.FolderPath(t.NavigateUp(folderID))
	}

	if note != nil {
		card := noteCard(t, *note)
		data.Note = &card
		data.Title = note.Title
		record := records[note.ID]
		data.TagsJoined = strings.Join(record.Tags, ", ")
		if mode == tree.ViewEdit {
			data.ContentTemplate = "editor"
			data.RawContent = record.Content
			return data
		}
		data.ContentTemplate = "note"
		data.RenderedHTML = s.renderNote(t, record.Content)
		return data
	}

	children := t.ChildrenOf(folderID, s.sortOrder())
	for _, f := range children.Folders {
		data.Folders = append(data.Folders, folderCard(t, f))
	}
	for _, n := range children.Notes {
		card := noteCard(t, n)
		data.Notes = append(data.Notes, card)
		if card.Readme && data.Readme == nil {
			data.Readme = &card
			data.RenderedHTML = s.renderNote(t, records[n.ID].Content)
		}
	}
	for _, n := range t.SelectableNotes(folderID, s.sortOrder()) {
		data.Selectable = append(data.Selectable, noteCard(t, n))
	}

	data.ContentTemplate = "dashboard"
	if folderID == "" {
		data.Title = "Dashboard"
	} else if f, ok := t.Folder(folderID); ok {
		data.Title = f.Name
	}
	return data
}

func (s *Server) breadcrumbs(t *tree.Tree, folderID string) []Crumb {
	crumbs := []Crumb{{Name: "Dashboard", Path: tree.DashboardPath}}
	var chain []tree.Folder
	visited := make(map[string]bool)
	for id := folderID; id != "" && !visited[id]; {
		visited[id] = true
		f, ok := t.Folder(id)
		if !ok {
			break
		}
		chain = append(chain, f)
		id = f.ParentID
	}
	for i := len(chain) - 1; i >= 0; i-- {
		crumbs = append(crumbs, Crumb{Name: chain[i].Name, Path: t.FolderPath(chain[i].ID)})
	}
	return crumbs
}

func (s *Server) renderNote(t *tree.Tree, content string) template.HTML {
	html, err := s.renderer.Render(content, wikiResolver(t))
	if err != nil {
		slog.Error("render note failed", "err", err)
		return ""
	}
	return template.HTML(html)
}

// wikiResolver maps [[Target]] references to note paths by title or slug
// across the whole tree.
func wikiResolver(t *tree.Tree) markdown.LinkResolver {
	return func(target string) (string, bool) {
		for _, n := range t.Notes() {
			if strings.EqualFold(n.Title, target) || strings.EqualFold(n.Slug, target) {
				return t.NotePath(n), true
			}
		}
		return "", false
	}
}
