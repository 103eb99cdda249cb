package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"zettel/internal/auth"
	"zettel/internal/config"
	"zettel/internal/store"
)

func setupServer(t *testing.T) (http.Handler, *store.Store, store.User) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.Init(context.Background()); err != nil {
		t.Fatalf("init store: %v", err)
	}
	hash, err := auth.HashPassword("secret")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user, err := st.CreateUser(context.Background(), "alice", hash)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	srv := NewServer(config.Config{
		ListenAddr:    "127.0.0.1:0",
		SessionTTL:    time.Hour,
		NoteSortOrder: "asc",
	}, st)
	return srv.Handler(), st, user
}

func login(t *testing.T, h http.Handler) *http.Cookie {
	t.Helper()
	form := url.Values{"name": {"alice"}, "password": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusFound {
		t.Fatalf("login status = %d, want 302", rec.Code)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func get(h http.Handler, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postForm(h http.Handler, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestDashboardRequiresSession(t *testing.T) {
	h, _, _ := setupServer(t)
	rec := get(h, "/dashboard", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("redirect = %q, want /login", loc)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	h, _, _ := setupServer(t)
	form := url.Values{"name": {"alice"}, "password": {"wrong"}}
	rec := postForm(h, "/login", form, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid name or password") {
		t.Fatalf("error message missing: %q", rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			t.Fatal("session cookie set on failed login")
		}
	}
}

func TestDashboardRendersFoldersAndNotes(t *testing.T) {
	h, st, user := setupServer(t)
	ctx := context.Background()
	folder, err := st.CreateFolder(ctx, user.ID, "Projects", "")
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	if _, err := st.SaveNote(ctx, store.NoteInput{UserID: user.ID, FolderID: folder.ID, Title: "Roadmap", Content: "# Plan"}); err != nil {
		t.Fatalf("save note: %v", err)
	}

	cookie := login(t, h)
	rec := get(h, "/dashboard", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Projects") {
		t.Fatalf("folder missing from dashboard: %q", rec.Body.String())
	}

	rec = get(h, "/dashboard/projects", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("folder view status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Roadmap") {
		t.Fatal("note missing from folder view")
	}
	if !strings.Contains(rec.Body.String(), "up one level") {
		t.Fatal("parent link missing from folder view")
	}
	if !strings.Contains(rec.Body.String(), "sorted asc") {
		t.Fatal("sort order missing from folder view")
	}
}

func TestNotePreviewAndEditor(t *testing.T) {
	h, st, user := setupServer(t)
	ctx := context.Background()
	folder, err := st.CreateFolder(ctx, user.ID, "Projects", "")
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	if _, err := st.SaveNote(ctx, store.NoteInput{UserID: user.ID, FolderID: folder.ID, Title: "Roadmap", Content: "# The Plan"}); err != nil {
		t.Fatalf("save note: %v", err)
	}
	cookie := login(t, h)

	rec := get(h, "/dashboard/projects/roadmap", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("preview status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "The Plan") {
		t.Fatal("rendered content missing from preview")
	}

	rec = get(h, "/dashboard/projects/roadmap?mode=edit", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("editor status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<textarea") {
		t.Fatal("editor textarea missing")
	}
}

func TestStaleNotePathRedirectsToFolder(t *testing.T) {
	h, st, user := setupServer(t)
	if _, err := st.CreateFolder(context.Background(), user.ID, "Projects", ""); err != nil {
		t.Fatalf("create folder: %v", err)
	}
	cookie := login(t, h)

	rec := get(h, "/dashboard/projects/deleted-note", cookie)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard/projects" {
		t.Fatalf("redirect = %q, want /dashboard/projects", loc)
	}
}

func TestUnknownPathRedirectsToDashboard(t *testing.T) {
	h, st, user := setupServer(t)
	if _, err := st.CreateFolder(context.Background(), user.ID, "Projects", ""); err != nil {
		t.Fatalf("create folder: %v", err)
	}
	cookie := login(t, h)

	rec := get(h, "/dashboard/no-such-folder/deeper", cookie)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Fatalf("redirect = %q, want /dashboard", loc)
	}
}

func TestFolderDeleteRemovesSubtree(t *testing.T) {
	h, st, user := setupServer(t)
	ctx := context.Background()
	parent, err := st.CreateFolder(ctx, user.ID, "Parent", "")
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	child, err := st.CreateFolder(ctx, user.ID, "Child", parent.ID)
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	if _, err := st.SaveNote(ctx, store.NoteInput{UserID: user.ID, FolderID: child.ID, Title: "Inside", Content: "x"}); err != nil {
		t.Fatalf("save note: %v", err)
	}
	cookie := login(t, h)

	rec := postForm(h, "/folders/delete", url.Values{"id": {parent.ID}}, cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	folders, err := st.ListFolders(ctx, user.ID)
	if err != nil {
		t.Fatalf("list folders: %v", err)
	}
	if len(folders) != 0 {
		t.Fatalf("folders remaining after delete: %d", len(folders))
	}
	notes, err := st.ListNotes(ctx, user.ID)
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 0 {
		t.Fatalf("notes remaining after delete: %d", len(notes))
	}
}

func TestNoteSaveCoercesVisibility(t *testing.T) {
	h, st, user := setupServer(t)
	ctx := context.Background()
	folder, err := st.CreateFolder(ctx, user.ID, "Private Stuff", "")
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	cookie := login(t, h)

	// Folder and profile are private, so the public request must be clamped.
	rec := postForm(h, "/notes/save", url.Values{
		"folder":  {folder.ID},
		"title":   {"Secret"},
		"content": {"hidden"},
		"public":  {"true"},
	}, cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	notes, err := st.ListNotes(ctx, user.ID)
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("notes = %d, want 1", len(notes))
	}
	if notes[0].IsPublic {
		t.Fatal("note saved public inside a private chain")
	}
}

func TestProfileHiddenUnlessPublic(t *testing.T) {
	h, st, user := setupServer(t)
	ctx := context.Background()

	rec := get(h, "/@alice", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("private profile status = %d, want 404", rec.Code)
	}

	if err := st.SetProfilePublic(ctx, user.ID, true); err != nil {
		t.Fatalf("publish profile: %v", err)
	}
	folder, err := st.CreateFolder(ctx, user.ID, "Open", "")
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	if err := st.UpdateFolderVisibility(ctx, folder.ID, true); err != nil {
		t.Fatalf("set folder public: %v", err)
	}
	visible, err := st.SaveNote(ctx, store.NoteInput{
		UserID: user.ID, FolderID: folder.ID, Title: "Shown", Content: "visible body", IsPublic: true,
	})
	if err != nil {
		t.Fatalf("save public note: %v", err)
	}
	if _, err := st.SaveNote(ctx, store.NoteInput{
		UserID: user.ID, FolderID: folder.ID, Title: "Hidden", Content: "private body",
	}); err != nil {
		t.Fatalf("save private note: %v", err)
	}

	rec = get(h, "/@alice/open", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("public folder status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Shown") {
		t.Fatal("public note missing from profile")
	}
	if strings.Contains(body, "Hidden") {
		t.Fatal("private note leaked on profile")
	}

	rec = get(h, "/@alice/open/"+visible.Slug, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("public note status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "visible body") {
		t.Fatal("public note body missing")
	}
}

func TestProfileHidesPublicNoteUnderPrivateFolder(t *testing.T) {
	h, st, user := setupServer(t)
	ctx := context.Background()
	if err := st.SetProfilePublic(ctx, user.ID, true); err != nil {
		t.Fatalf("publish profile: %v", err)
	}
	// Folder stays private; the note's own public flag must not be enough.
	folder, err := st.CreateFolder(ctx, user.ID, "Closed", "")
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	n, err := st.SaveNote(ctx, store.NoteInput{
		UserID: user.ID, FolderID: folder.ID, Title: "Stranded", Content: "stranded body", IsPublic: true,
	})
	if err != nil {
		t.Fatalf("save note: %v", err)
	}

	rec := get(h, "/@alice/closed/"+n.Slug, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
