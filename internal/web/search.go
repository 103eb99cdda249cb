package web

import (
	"net/http"
	"strings"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	data := ViewData{
		Title:           "Search",
		ContentTemplate: "search",
		UserName:        user.Name,
		SearchQuery:     query,
	}
	if query != "" {
		results, err := s.store.SearchNotes(r.Context(), user.ID, query, 50)
		if err != nil {
			s.internalError(w, "search notes", err)
			return
		}
		data.SearchResults = results
	}
	data.Toasts = s.toasts.Drain(toastKey(r))
	s.views.RenderPage(w, data)
}
