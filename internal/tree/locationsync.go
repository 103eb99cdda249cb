package tree

// ViewMode selects which panel the current location maps to.
type ViewMode string

const (
	ViewList    ViewMode = "list"
	ViewEdit    ViewMode = "edit"
	ViewPreview ViewMode = "preview"
)

type syncPhase int

const (
	phaseIdle syncPhase = iota
	phaseSyncing
)

// Navigation is an instruction for the location collaborator. Replace
// swaps the current history entry instead of pushing a new one.
type Navigation struct {
	Path    string
	Replace bool
}

// LocationSync keeps the browser location and the (current folder,
// selected note, view mode) triple mutually consistent. Inbound changes
// run inside an explicit Syncing phase; outbound pushes only happen while
// Idle and only when the canonical path differs from the current location,
// so a sync-driven state change can never feed back into navigation.
type LocationSync struct {
	tree *Tree

	phase    syncPhase
	location string

	folderID string
	note     *Note
	mode     ViewMode
}

func NewLocationSync(t *Tree) *LocationSync {
	return &LocationSync{
		tree:     t,
		location: DashboardPath,
		mode:     ViewList,
	}
}

// SetTree swaps in a fresh snapshot after a refetch. Position survives as
// long as it still resolves; the next inbound or outbound step reconciles.
func (s *LocationSync) SetTree(t *Tree) { s.tree = t }

// Current returns the resolved position. The note is nil unless a note is
// selected.
func (s *LocationSync) Current() (folderID string, note *Note, mode ViewMode) {
	return s.folderID, s.note, s.mode
}

// HandleLocation applies an inbound location change. It returns a redirect
// instruction when the path is stale (deleted or unknown content) and nil
// when the path was adopted as-is. Paths outside the dashboard prefix are
// ignored.
func (s *LocationSync) HandleLocation(path string) *Navigation {
	segments, folderOnly, ok := SplitDashboardPath(path)
	if !ok {
		return nil
	}
	s.phase = phaseSyncing
	defer func() { s.phase = phaseIdle }()
	s.location = path

	if len(segments) == 0 {
		s.adopt("", nil)
		return nil
	}

	if folderID, ok := s.tree.ResolveFolderChain(segments); ok {
		s.adopt(folderID, nil)
		return nil
	}

	// The full chain is not a folder chain; unless the path was marked
	// folder-only by its trailing slash, the last segment may be a note
	// inside the folder the leading segments resolve to.
	if !folderOnly {
		if folderID, ok := s.tree.ResolveFolderChain(segments[:len(segments)-1]); ok {
			noteSlug := segments[len(segments)-1]
			if n, ok := s.tree.NoteBySlug(folderID, noteSlug); ok {
				s.adopt(folderID, &n)
				s.mode = ViewPreview
				return nil
			}
			// Stale note reference: bookmark to removed content, or a race
			// with data that is still loading. Fall back to the folder.
			s.adopt(folderID, nil)
			return s.redirect(s.tree.FolderPath(folderID))
		}
	}

	if s.tree.Empty() {
		// Nothing loaded yet; keep the path and let a later snapshot
		// resolve it.
		return nil
	}
	s.adopt("", nil)
	return s.redirect(DashboardPath)
}

// SetFolder moves the current position in response to an in-app action and
// returns the outbound push, if any.
func (s *LocationSync) SetFolder(folderID string) *Navigation {
	s.folderID = folderID
	s.note = nil
	s.mode = ViewList
	return s.syncOutbound()
}

// SelectNote selects a note in the current folder for editing or preview.
func (s *LocationSync) SelectNote(n Note, mode ViewMode) *Navigation {
	s.note = &n
	s.mode = mode
	return s.syncOutbound()
}

// ClearSelection returns to the idle list view of the current folder.
func (s *LocationSync) ClearSelection() *Navigation {
	s.note = nil
	s.mode = ViewList
	return s.syncOutbound()
}

func (s *LocationSync) adopt(folderID string, n *Note) {
	s.folderID = folderID
	s.note = n
	s.mode = ViewList
}

func (s *LocationSync) redirect(path string) *Navigation {
	s.location = path
	return &Navigation{Path: path, Replace: true}
}

// OutboundPath is the canonical location for the current state.
func (s *LocationSync) OutboundPath() string {
	if s.note != nil {
		return s.tree.NotePath(*s.note)
	}
	return s.tree.FolderPath(s.folderID)
}

func (s *LocationSync) syncOutbound() *Navigation {
	if s.phase != phaseIdle {
		return nil
	}
	path := s.OutboundPath()
	if path == s.location {
		return nil
	}
	s.location = path
	return &Navigation{Path: path}
}
