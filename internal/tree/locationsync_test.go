package tree

import "testing"

func TestHandleLocationRoot(t *testing.T) {
	s := NewLocationSync(sampleTree())
	if nav := s.HandleLocation("/dashboard"); nav != nil {
		t.Fatalf("root path triggered redirect: %+v", nav)
	}
	folderID, note, mode := s.Current()
	if folderID != "" || note != nil || mode != ViewList {
		t.Fatalf("state after root=(%q,%v,%s)", folderID, note, mode)
	}
}

func TestHandleLocationFolderChain(t *testing.T) {
	s := NewLocationSync(sampleTree())
	if nav := s.HandleLocation("/dashboard/a/b"); nav != nil {
		t.Fatalf("valid folder path redirected: %+v", nav)
	}
	folderID, note, mode := s.Current()
	if folderID != "b" || note != nil || mode != ViewList {
		t.Fatalf("state=(%q,%v,%s)", folderID, note, mode)
	}
}

func TestHandleLocationNote(t *testing.T) {
	s := NewLocationSync(sampleTree())
	if nav := s.HandleLocation("/dashboard/a/b/n"); nav != nil {
		t.Fatalf("valid note path redirected: %+v", nav)
	}
	folderID, note, mode := s.Current()
	if folderID != "b" || note == nil || note.ID != "n1" || mode != ViewPreview {
		t.Fatalf("state=(%q,%+v,%s)", folderID, note, mode)
	}
}

func TestHandleLocationTrailingSlash(t *testing.T) {
	// A trailing slash marks the path folder-only: the chain must resolve
	// as folders alone, never by reading the last segment as a note slug.
	s := NewLocationSync(sampleTree())
	if nav := s.HandleLocation("/dashboard/a/b/"); nav != nil {
		t.Fatalf("valid folder path with trailing slash redirected: %+v", nav)
	}
	if folderID, note, _ := s.Current(); folderID != "b" || note != nil {
		t.Fatalf("state=(%q,%v)", folderID, note)
	}

	s = NewLocationSync(sampleTree())
	nav := s.HandleLocation("/dashboard/a/b/n/")
	if nav == nil || !nav.Replace || nav.Path != "/dashboard" {
		t.Fatalf("note slug with trailing slash redirect=%+v", nav)
	}
	folderID, note, _ := s.Current()
	if folderID != "" || note != nil {
		t.Fatalf("state after folder-only miss=(%q,%v)", folderID, note)
	}
}

func TestHandleLocationStaleNote(t *testing.T) {
	s := NewLocationSync(sampleTree())
	nav := s.HandleLocation("/dashboard/a/b/deleted")
	if nav == nil || !nav.Replace || nav.Path != "/dashboard/a/b" {
		t.Fatalf("stale note redirect=%+v", nav)
	}
	folderID, note, _ := s.Current()
	if folderID != "b" || note != nil {
		t.Fatalf("state after stale note=(%q,%v)", folderID, note)
	}
}

func TestHandleLocationUnknownChain(t *testing.T) {
	s := NewLocationSync(sampleTree())
	nav := s.HandleLocation("/dashboard/nope/nothing/here")
	if nav == nil || !nav.Replace || nav.Path != "/dashboard" {
		t.Fatalf("unknown chain redirect=%+v", nav)
	}
	if folderID, _, _ := s.Current(); folderID != "" {
		t.Fatalf("folder after unknown chain=%q", folderID)
	}
}

func TestHandleLocationDataNotLoaded(t *testing.T) {
	s := NewLocationSync(New(nil, nil))
	if nav := s.HandleLocation("/dashboard/a/b"); nav != nil {
		t.Fatalf("empty snapshot redirected: %+v", nav)
	}
}

func TestHandleLocationOutsidePrefix(t *testing.T) {
	s := NewLocationSync(sampleTree())
	if nav := s.HandleLocation("/login"); nav != nil {
		t.Fatalf("foreign path handled: %+v", nav)
	}
}

func TestOutboundNoOpWhenPathMatches(t *testing.T) {
	s := NewLocationSync(sampleTree())
	if nav := s.HandleLocation("/dashboard/a/b"); nav != nil {
		t.Fatalf("inbound redirected: %+v", nav)
	}
	// Re-selecting the state the location already encodes must not push.
	if nav := s.SetFolder("b"); nav != nil {
		t.Fatalf("no-op sync pushed %+v", nav)
	}
}

func TestOutboundPush(t *testing.T) {
	s := NewLocationSync(sampleTree())
	nav := s.SetFolder("b")
	if nav == nil || nav.Replace || nav.Path != "/dashboard/a/b" {
		t.Fatalf("outbound push=%+v", nav)
	}
	nav = s.SelectNote(Note{ID: "n1", FolderID: "b", Title: "Note One", Slug: "n"}, ViewPreview)
	if nav == nil || nav.Path != "/dashboard/a/b/n" {
		t.Fatalf("note push=%+v", nav)
	}
	nav = s.ClearSelection()
	if nav == nil || nav.Path != "/dashboard/a/b" {
		t.Fatalf("clear push=%+v", nav)
	}
	if nav = s.ClearSelection(); nav != nil {
		t.Fatalf("repeated clear pushed %+v", nav)
	}
}
