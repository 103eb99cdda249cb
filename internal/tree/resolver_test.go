package tree

import "testing"

func sampleTree() *Tree {
	folders := []Folder{
		{ID: "a", ParentID: "", Name: "Alpha", Slug: "a", IsPublic: true},
		{ID: "b", ParentID: "a", Name: "Beta", Slug: "b", IsPublic: true},
		{ID: "c", ParentID: "a", Name: "Gamma", Slug: "c"},
	}
	notes := []Note{
		{ID: "n1", FolderID: "b", Title: "Note One", Slug: "n", IsPublic: true},
		{ID: "n2", FolderID: "", Title: "Root Note", Slug: "root-note"},
	}
	return New(folders, notes)
}

func TestFolderPathRootStability(t *testing.T) {
	if got := New(nil, nil).FolderPath(""); got != "/dashboard" {
		t.Fatalf("FolderPath(root) on empty tree=%q", got)
	}
	if got := sampleTree().FolderPath(""); got != "/dashboard" {
		t.Fatalf("FolderPath(root)=%q", got)
	}
}

func TestFolderPath(t *testing.T) {
	tr := sampleTree()
	tests := []struct {
		id   string
		want string
	}{
		{id: "a", want: "/dashboard/a"},
		{id: "b", want: "/dashboard/a/b"},
		{id: "c", want: "/dashboard/a/c"},
		{id: "missing", want: "/dashboard"},
	}
	for _, tt := range tests {
		if got := tr.FolderPath(tt.id); got != tt.want {
			t.Fatalf("FolderPath(%q)=%q want %q", tt.id, got, tt.want)
		}
	}
}

func TestFolderPathDanglingParent(t *testing.T) {
	tr := New([]Folder{{ID: "x", ParentID: "gone", Slug: "x"}}, nil)
	if got := tr.FolderPath("x"); got != "/dashboard" {
		t.Fatalf("FolderPath with dangling parent=%q want /dashboard", got)
	}
}

func TestFolderPathCycle(t *testing.T) {
	tr := New([]Folder{
		{ID: "x", ParentID: "y", Slug: "x"},
		{ID: "y", ParentID: "x", Slug: "y"},
	}, nil)
	if got := tr.FolderPath("x"); got != "/dashboard" {
		t.Fatalf("FolderPath with cycle=%q want /dashboard", got)
	}
}

func TestNotePath(t *testing.T) {
	tr := sampleTree()
	if got := tr.NotePath(Note{FolderID: "b", Slug: "n"}); got != "/dashboard/a/b/n" {
		t.Fatalf("NotePath=%q", got)
	}
	if got := tr.NotePath(Note{FolderID: "b"}); got != "/dashboard/a/b" {
		t.Fatalf("NotePath without slug=%q", got)
	}
	if got := tr.NotePath(Note{FolderID: "", Slug: "root-note"}); got != "/dashboard/root-note" {
		t.Fatalf("NotePath at root=%q", got)
	}
}

func TestFolderPathRoundTrip(t *testing.T) {
	tr := sampleTree()
	for _, f := range tr.Folders() {
		segments, _, ok := SplitDashboardPath(tr.FolderPath(f.ID))
		if !ok {
			t.Fatalf("folder %q produced a non-dashboard path", f.ID)
		}
		id, ok := tr.ResolveFolderChain(segments)
		if !ok || id != f.ID {
			t.Fatalf("round trip for %q resolved to (%q,%v)", f.ID, id, ok)
		}
	}
}

func TestSplitDashboardPath(t *testing.T) {
	tests := []struct {
		path       string
		want       []string
		folderOnly bool
		ok         bool
	}{
		{path: "/dashboard", want: nil, folderOnly: true, ok: true},
		{path: "/dashboard/", want: nil, folderOnly: true, ok: true},
		{path: "/dashboard/a/b", want: []string{"a", "b"}, folderOnly: false, ok: true},
		{path: "/dashboard/a/b/", want: []string{"a", "b"}, folderOnly: true, ok: true},
		{path: "/login", ok: false},
		{path: "/dashboardx", ok: false},
	}
	for _, tt := range tests {
		got, folderOnly, ok := SplitDashboardPath(tt.path)
		if ok != tt.ok {
			t.Fatalf("SplitDashboardPath(%q) ok=%v want %v", tt.path, ok, tt.ok)
		}
		if folderOnly != tt.folderOnly {
			t.Fatalf("SplitDashboardPath(%q) folderOnly=%v want %v", tt.path, folderOnly, tt.folderOnly)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("SplitDashboardPath(%q)=%v want %v", tt.path, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("SplitDashboardPath(%q)=%v want %v", tt.path, got, tt.want)
			}
		}
	}
}
