package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
)

type Note struct {
	ID          string
	UserID      string
	FolderID    string
	Title       string
	Slug        string
	Content     string
	Tags        []string
	IsPublic    bool
	ContentHash string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NoteInput is the write shape for SaveNote. An empty ID creates; a set
// one updates. Visibility is taken as given: the caller runs the
// tree-level coercion before saving.
type NoteInput struct {
	ID       string
	UserID   string
	FolderID string
	Title    string
	Content  string
	Tags     []string
	IsPublic bool
}

type SearchResult struct {
	NoteID  string
	Title   string
	Snippet string
}

const noteColumns = "id, user_id, folder_id, title, slug, content, tags, is_public, content_hash, created_at, updated_at"

// ListNotes returns every note of a user, public-only under a
// WithPublicOnly context. Content is included; collections here are small.
func (s *Store) ListNotes(ctx context.Context, userID string) ([]Note, error) {
	query := "SELECT " + noteColumns + " FROM notes WHERE user_id = ?"
	if publicOnly(ctx) {
		query += " AND is_public = 1"
	}
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (s *Store) NoteByID(ctx context.Context, id string) (Note, error) {
	query := "SELECT " + noteColumns + " FROM notes WHERE id = ?"
	if publicOnly(ctx) {
		query += " AND is_public = 1"
	}
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return Note{}, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Note{}, err
		}
		return Note{}, ErrNotFound
	}
	return scanNote(rows)
}

// SaveNote creates or updates a note, maintaining its slug, content hash,
// and full-text row in one transaction.
func (s *Store) SaveNote(ctx context.Context, in NoteInput) (Note, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Note{}, errors.New("note title must not be empty")
	}
	tags, err := json.Marshal(normalizeTags(in.Tags))
	if err != nil {
		return Note{}, fmt.Errorf("encode tags: %w", err)
	}
	hash := strconv.FormatUint(xxh3.HashString(in.Content), 16)
	now := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Note{}, err
	}
	defer tx.Rollback()

	n := Note{
		ID:          in.ID,
		UserID:      in.UserID,
		FolderID:    in.FolderID,
		Title:       title,
		Content:     in.Content,
		Tags:        normalizeTags(in.Tags),
		IsPublic:    in.IsPublic,
		ContentHash: hash,
		UpdatedAt:   now,
	}
	if in.ID == "" {
		n.ID = uuid.NewString()
		n.CreatedAt = now
		n.Slug, err = uniqueNoteSlug(ctx, tx, in.UserID, in.FolderID, Slugify(title), "")
		if err != nil {
			return Note{}, err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO notes(id, user_id, folder_id, title, slug, content, tags, is_public, content_hash, created_at, updated_at)
			VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			n.ID, n.UserID, nullable(n.FolderID), n.Title, n.Slug, n.Content,
			string(tags), boolInt(n.IsPublic), n.ContentHash, now.Unix(), now.Unix())
		if err != nil {
			return Note{}, fmt.Errorf("insert note: %w", err)
		}
	} else {
		var created int64
		err = tx.QueryRowContext(ctx, "SELECT created_at FROM notes WHERE id = ?", in.ID).Scan(&created)
		if errors.Is(err, sql.ErrNoRows) {
			return Note{}, ErrNotFound
		}
		if err != nil {
			return Note{}, err
		}
		n.CreatedAt = time.Unix(created, 0).UTC()
		n.Slug, err = uniqueNoteSlug(ctx, tx, in.UserID, in.FolderID, Slugify(title), in.ID)
		if err != nil {
			return Note{}, err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE notes SET folder_id = ?, title = ?, slug = ?, content = ?, tags = ?,
				is_public = ?, content_hash = ?, updated_at = ?
			WHERE id = ?`,
			nullable(n.FolderID), n.Title, n.Slug, n.Content, string(tags),
			boolInt(n.IsPublic), n.ContentHash, now.Unix(), n.ID)
		if err != nil {
			return Note{}, fmt.Errorf("update note: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM notes_fts WHERE note_id = ?", n.ID); err != nil {
		return Note{}, err
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO notes_fts(note_id, title, body) VALUES(?, ?, ?)", n.ID, n.Title, n.Content); err != nil {
		return Note{}, err
	}
	if err := tx.Commit(); err != nil {
		return Note{}, err
	}
	return n, nil
}

func (s *Store) DeleteNotes(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM notes WHERE id IN ("+placeholders(len(ids))+")", toArgs(ids)...); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM notes_fts WHERE note_id IN ("+placeholders(len(ids))+")", toArgs(ids)...); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) MoveNotes(ctx context.Context, ids []string, targetFolderID string) error {
	if len(ids) == 0 {
		return nil
	}
	args := append([]any{nullable(targetFolderID), time.Now().Unix()}, toArgs(ids)...)
	_, err := s.db.ExecContext(ctx,
		"UPDATE notes SET folder_id = ?, updated_at = ? WHERE id IN ("+placeholders(len(ids))+")", args...)
	return err
}

func (s *Store) SetNotesVisibility(ctx context.Context, ids []string, public bool) error {
	if len(ids) == 0 {
		return nil
	}
	args := append([]any{boolInt(public), time.Now().Unix()}, toArgs(ids)...)
	_, err := s.db.ExecContext(ctx,
		"UPDATE notes SET is_public = ?, updated_at = ? WHERE id IN ("+placeholders(len(ids))+")", args...)
	return err
}

// SearchNotes runs a full-text query over one user's notes, public-only
// under a WithPublicOnly context.
func (s *Store) SearchNotes(ctx context.Context, userID, query string, limit int) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	sqlQuery := `
		SELECT notes.id, notes.title, snippet(notes_fts, 2, '', '', '...', 10)
		FROM notes_fts
		JOIN notes ON notes.id = notes_fts.note_id
		WHERE notes_fts MATCH ? AND notes.user_id = ?`
	if publicOnly(ctx) {
		sqlQuery += " AND notes.is_public = 1"
	}
	sqlQuery += " LIMIT ?"
	rows, err := s.db.QueryContext(ctx, sqlQuery, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.NoteID, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanNote(rows *sql.Rows) (Note, error) {
	var n Note
	var folder sql.NullString
	var slug sql.NullString
	var tags string
	var public int
	var created, updated int64
	if err := rows.Scan(&n.ID, &n.UserID, &folder, &n.Title, &slug, &n.Content, &tags, &public, &n.ContentHash, &created, &updated); err != nil {
		return Note{}, err
	}
	n.FolderID = fromNullable(folder)
	n.Slug = fromNullable(slug)
	n.IsPublic = public != 0
	n.CreatedAt = time.Unix(created, 0).UTC()
	n.UpdatedAt = time.Unix(updated, 0).UTC()
	if err := json.Unmarshal([]byte(tags), &n.Tags); err != nil {
		n.Tags = nil
	}
	return n, nil
}

func uniqueNoteSlug(ctx context.Context, tx *sql.Tx, userID, folderID, slug, excludeID string) (string, error) {
	for i := 1; ; i++ {
		candidate := slug
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", slug, i)
		}
		query := "SELECT COUNT(*) FROM notes WHERE user_id = ? AND slug = ? AND id != ?"
		args := []any{userID, candidate, excludeID}
		if folderID == "" {
			query += " AND folder_id IS NULL"
		} else {
			query += " AND folder_id = ?"
			args = append(args, folderID)
		}
		var n int
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
			return "", err
		}
		if n == 0 {
			return candidate, nil
		}
	}
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
