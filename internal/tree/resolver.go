package tree

import "strings"

// DashboardPath is the canonical root path every folder path hangs off.
const DashboardPath = "/dashboard"

// FolderPath returns the canonical URL path for a folder: the dashboard
// root plus the slug of every ancestor in root-to-leaf order. A dangling
// parent reference or a cycle degrades to the root path so callers can
// redirect home instead of failing.
func (t *Tree) FolderPath(folderID string) string {
	if folderID == "" {
		return DashboardPath
	}
	segments, ok := t.slugChain(folderID)
	if !ok {
		logDanglingFolder("folder_path", folderID)
		return DashboardPath
	}
	return DashboardPath + "/" + strings.Join(segments, "/")
}

// NotePath returns the canonical URL path for a note: its folder path plus
// the note slug. Legacy notes without a slug are not independently
// addressable and resolve to the folder path alone.
func (t *Tree) NotePath(n Note) string {
	base := t.FolderPath(n.FolderID)
	if n.Slug == "" {
		return base
	}
	return base + "/" + n.Slug
}

// slugChain walks the parent chain from folderID up to a root and returns
// the slugs in root-to-leaf order. It fails on unknown folders, empty
// slugs, and cycles; the visited set bounds the walk at the folder count.
func (t *Tree) slugChain(folderID string) ([]string, bool) {
	var segments []string
	visited := make(map[string]bool)
	for id := folderID; id != ""; {
		if visited[id] {
			return nil, false
		}
		visited[id] = true
		f, ok := t.byID[id]
		if !ok || f.Slug == "" {
			return nil, false
		}
		segments = append(segments, f.Slug)
		id = f.ParentID
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return segments, true
}

// ResolveFolderChain resolves a sequence of slug segments starting at the
// root, matching each against (slug, parent) in order. It returns the
// resolved folder ID, or false if any segment fails to match.
func (t *Tree) ResolveFolderChain(segments []string) (string, bool) {
	current := ""
	for _, seg := range segments {
		next, ok := t.childBySlug(current, seg)
		if !ok {
			return "", false
		}
		current = next
	}
	return current, true
}

func (t *Tree) childBySlug(parentID, slug string) (string, bool) {
	if slug == "" {
		return "", false
	}
	for _, f := range t.folders {
		if f.ParentID == parentID && f.Slug == slug {
			return f.ID, true
		}
	}
	return "", false
}

// SplitDashboardPath splits a dashboard URL path into its slug segments.
// folderOnly reports that the path cannot name a note: the dashboard root
// itself, or any path ending in a slash. ok is false when the path is
// outside the dashboard prefix.
func SplitDashboardPath(path string) (segments []string, folderOnly, ok bool) {
	if path == DashboardPath {
		return nil, true, true
	}
	if !strings.HasPrefix(path, DashboardPath+"/") {
		return nil, false, false
	}
	folderOnly = strings.HasSuffix(path, "/")
	rest := strings.Trim(strings.TrimPrefix(path, DashboardPath+"/"), "/")
	if rest == "" {
		return nil, true, true
	}
	return strings.Split(rest, "/"), folderOnly, true
}
