package web

import (
	"context"
	"net/http"

	"github.com/klauspost/compress/gzhttp"

	"zettel/internal/config"
	"zettel/internal/markdown"
	"zettel/internal/store"
	"zettel/internal/tree"
)

type Server struct {
	cfg      config.Config
	store    *store.Store
	mux      *http.ServeMux
	views    *Templates
	renderer *markdown.Renderer
	toasts   *toastStore
}

func NewServer(cfg config.Config, st *store.Store) *Server {
	s := &Server{
		cfg:      cfg,
		store:    st,
		mux:      http.NewServeMux(),
		views:    MustParseTemplates(),
		renderer: markdown.NewRenderer(),
		toasts:   newToastStore(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return gzhttp.GzipHandler(s.withSession(s.mux))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleRoot)
	s.mux.HandleFunc("/login", s.handleLogin)
	s.mux.HandleFunc("/logout", s.handleLogout)
	s.mux.HandleFunc("/dashboard", s.handleDashboard)
	s.mux.HandleFunc("/dashboard/", s.handleDashboard)
	s.mux.HandleFunc("/folders/create", s.handleFolderCreate)
	s.mux.HandleFunc("/folders/rename", s.handleFolderRename)
	s.mux.HandleFunc("/folders/delete", s.handleFolderDelete)
	s.mux.HandleFunc("/folders/visibility", s.handleFolderVisibility)
	s.mux.HandleFunc("/notes/save", s.handleNoteSave)
	s.mux.HandleFunc("/notes/delete", s.handleNoteDelete)
	s.mux.HandleFunc("/notes/move", s.handleNoteMove)
	s.mux.HandleFunc("/search", s.handleSearch)
	s.mux.HandleFunc("/api/assistant", s.handleAssistant)
}

// handleRoot sends signed-in users to their dashboard and everyone else
// to the login page. Paths starting with /@ are public profile views and
// need no session.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if len(r.URL.Path) >= 2 && r.URL.Path[:2] == "/@" {
		s.handleProfile(w, r)
		return
	}
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if _, ok := CurrentUser(r.Context()); ok {
		http.Redirect(w, r, tree.DashboardPath, http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (store.User, bool) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return store.User{}, false
	}
	return user, true
}

// loadSnapshot reads one user's folders and notes and builds the
// in-memory tree, keeping the full store records around for content
// lookups the snapshot does not carry.
func (s *Server) loadSnapshot(ctx context.Context, userID string) (*tree.Tree, map[string]store.Note, error) {
	folders, err := s.store.ListFolders(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	notes, err := s.store.ListNotes(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	treeFolders := make([]tree.Folder, len(folders))
	for i, f := range folders {
		treeFolders[i] = tree.Folder{
			ID:       f.ID,
			ParentID: f.ParentID,
			Name:     f.Name,
			Slug:     f.Slug,
			IsPublic: f.IsPublic,
		}
	}
	treeNotes := make([]tree.Note, len(notes))
	byID := make(map[string]store.Note, len(notes))
	for i, n := range notes {
		treeNotes[i] = tree.Note{
			ID:       n.ID,
			FolderID: n.FolderID,
			Title:    n.Title,
			Slug:     n.Slug,
			Tags:     n.Tags,
			IsPublic: n.IsPublic,
		}
		byID[n.ID] = n
	}
	return tree.New(treeFolders, treeNotes), byID, nil
}

func (s *Server) sortOrder() tree.SortOrder {
	if s.cfg.NoteSortOrder == string(tree.SortDesc) {
		return tree.SortDesc
	}
	return tree.SortAsc
}
