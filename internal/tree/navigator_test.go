package tree

import (
	"context"
	"errors"
	"testing"
)

func TestChildrenOfRootSemantics(t *testing.T) {
	tr := sampleTree()
	root := tr.ChildrenOf("", SortAsc)
	if len(root.Folders) != 1 || root.Folders[0].ID != "a" {
		t.Fatalf("root folders=%+v", root.Folders)
	}
	if len(root.Notes) != 1 || root.Notes[0].ID != "n2" {
		t.Fatalf("root notes=%+v", root.Notes)
	}
	a := tr.ChildrenOf("a", SortAsc)
	if len(a.Folders) != 2 || len(a.Notes) != 0 {
		t.Fatalf("children of a=%+v", a)
	}
}

func TestChildrenOfNoteSort(t *testing.T) {
	notes := []Note{
		{ID: "1", Title: "banana"},
		{ID: "2", Title: "Apple"},
		{ID: "3", Title: "cherry"},
	}
	tr := New(nil, notes)

	asc := tr.ChildrenOf("", SortAsc).Notes
	if asc[0].ID != "2" || asc[1].ID != "1" || asc[2].ID != "3" {
		t.Fatalf("asc order=%+v", asc)
	}
	desc := tr.ChildrenOf("", SortDesc).Notes
	if desc[0].ID != "3" || desc[1].ID != "1" || desc[2].ID != "2" {
		t.Fatalf("desc order=%+v", desc)
	}
}

func TestReadmePinning(t *testing.T) {
	notes := []Note{
		{ID: "1", Title: "Apple"},
		{ID: "2", Title: "ReadMe"},
		{ID: "3", Title: "zebra"},
	}
	tr := New(nil, notes)

	for _, order := range []SortOrder{SortAsc, SortDesc} {
		got := tr.ChildrenOf("", order).Notes
		if got[0].ID != "2" {
			t.Fatalf("order %s: readme not first: %+v", order, got)
		}
	}
	selectable := tr.SelectableNotes("", SortAsc)
	if len(selectable) != 2 {
		t.Fatalf("selectable=%+v", selectable)
	}
	for _, n := range selectable {
		if n.ID == "2" {
			t.Fatalf("readme present in selection list: %+v", selectable)
		}
	}
}

func TestNavigateUp(t *testing.T) {
	tr := sampleTree()
	tests := []struct {
		id   string
		want string
	}{
		{id: "b", want: "a"},
		{id: "a", want: ""},
		{id: "missing", want: ""},
	}
	for _, tt := range tests {
		if got := tr.NavigateUp(tt.id); got != tt.want {
			t.Fatalf("NavigateUp(%q)=%q want %q", tt.id, got, tt.want)
		}
	}
}

func TestDescendantIDs(t *testing.T) {
	tr := sampleTree()
	got := tr.DescendantIDs("a")
	if len(got) != 3 || got[0] != "a" {
		t.Fatalf("DescendantIDs(a)=%v", got)
	}
	seen := map[string]bool{}
	for _, id := range got {
		if seen[id] {
			t.Fatalf("duplicate id in %v", got)
		}
		seen[id] = true
	}
	if !seen["b"] || !seen["c"] {
		t.Fatalf("DescendantIDs(a)=%v", got)
	}
	if got := tr.DescendantIDs("b"); len(got) != 1 || got[0] != "b" {
		t.Fatalf("DescendantIDs(b)=%v", got)
	}
}

func TestDescendantIDsCycleBound(t *testing.T) {
	tr := New([]Folder{
		{ID: "x", ParentID: "y", Slug: "x"},
		{ID: "y", ParentID: "x", Slug: "y"},
	}, nil)
	got := tr.DescendantIDs("x")
	if len(got) != 2 {
		t.Fatalf("cycle traversal visited %v", got)
	}
}

type fakeDeleter struct {
	folderCalls [][]string
	noteCalls   [][]string
	folderErr   error
	noteErr     error
}

func (d *fakeDeleter) DeleteFolders(_ context.Context, ids []string) error {
	d.folderCalls = append(d.folderCalls, ids)
	return d.folderErr
}

func (d *fakeDeleter) DeleteNotes(_ context.Context, ids []string) error {
	d.noteCalls = append(d.noteCalls, ids)
	return d.noteErr
}

func cascadeTree() *Tree {
	folders := []Folder{
		{ID: "a", ParentID: "", Slug: "a", IsPublic: true},
		{ID: "b", ParentID: "a", Slug: "b", IsPublic: true},
	}
	notes := []Note{
		{ID: "n1", FolderID: "b", Title: "Note", Slug: "n", IsPublic: true},
		{ID: "n2", FolderID: "a", Title: "Other", Slug: "o"},
		{ID: "n3", FolderID: "", Title: "Outside", Slug: "x"},
	}
	return New(folders, notes)
}

func TestDeleteSubtree(t *testing.T) {
	tr := cascadeTree()
	store := &fakeDeleter{}
	result, err := tr.DeleteSubtree(context.Background(), store, "a")
	if err != nil {
		t.Fatalf("DeleteSubtree: %v", err)
	}
	if len(result.DeletedFolderIDs) != 2 {
		t.Fatalf("deleted folders=%v", result.DeletedFolderIDs)
	}
	if len(result.DeletedNoteIDs) != 2 {
		t.Fatalf("deleted notes=%v", result.DeletedNoteIDs)
	}
	if len(store.folderCalls) != 1 || len(store.noteCalls) != 1 {
		t.Fatalf("expected one call per stage, got %d/%d", len(store.folderCalls), len(store.noteCalls))
	}
	for _, id := range result.DeletedNoteIDs {
		if id == "n3" {
			t.Fatalf("note outside subtree deleted: %v", result.DeletedNoteIDs)
		}
	}
}

func TestDeleteSubtreeFolderFailure(t *testing.T) {
	tr := cascadeTree()
	store := &fakeDeleter{folderErr: errors.New("boom")}
	if _, err := tr.DeleteSubtree(context.Background(), store, "a"); err == nil {
		t.Fatalf("expected error")
	}
	if len(store.noteCalls) != 0 {
		t.Fatalf("note delete issued after folder delete failed")
	}
}

func TestDeleteSubtreePartialFailure(t *testing.T) {
	tr := cascadeTree()
	store := &fakeDeleter{noteErr: errors.New("boom")}
	result, err := tr.DeleteSubtree(context.Background(), store, "a")
	var partial *PartialError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialError, got %v", err)
	}
	if len(result.DeletedFolderIDs) != 2 {
		t.Fatalf("folder delete should be reported despite note failure: %+v", result)
	}
}
