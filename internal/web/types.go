package web

import (
	"html/template"

	"zettel/internal/store"
	"zettel/internal/tree"
)

type ViewData struct {
	Title           string
	ContentTemplate string
	ContentHTML     template.HTML
	UserName        string
	Toasts          []Toast

	// dashboard
	Breadcrumbs     []Crumb
	CurrentFolderID string
	ParentPath      string
	Folders         []FolderCard
	Notes           []NoteCard
	Selectable      []NoteCard
	Readme          *NoteCard
	SortOrder       string

	// note panels
	Note         *NoteCard
	RawContent   string
	RenderedHTML template.HTML
	TagsJoined   string

	// search
	SearchQuery   string
	SearchResults []store.SearchResult

	// profile
	ProfileUser string

	// login
	LoginError string
}

type Crumb struct {
	Name string
	Path string
}

type FolderCard struct {
	ID       string
	Name     string
	Path     string
	IsPublic bool
}

type NoteCard struct {
	ID       string
	Title    string
	Path     string
	EditPath string
	IsPublic bool
	Tags     []string
	Readme   bool
}

func folderCard(t *tree.Tree, f tree.Folder) FolderCard {
	return FolderCard{
		ID:       f.ID,
		Name:     f.Name,
		Path:     t.FolderPath(f.ID),
		IsPublic: f.IsPublic,
	}
}

func noteCard(t *tree.Tree, n tree.Note) NoteCard {
	path := t.NotePath(n)
	return NoteCard{
		ID:       n.ID,
		Title:    n.Title,
		Path:     path,
		EditPath: path + "?mode=edit",
		IsPublic: n.IsPublic,
		Tags:     n.Tags,
		Readme:   tree.IsReadme(n),
	}
}
