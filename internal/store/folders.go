package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Folder struct {
	ID        string
	UserID    string
	ParentID  string
	Name      string
	Slug      string
	IsPublic  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListFolders returns every folder of a user, public-only under a
// WithPublicOnly context.
func (s *Store) ListFolders(ctx context.Context, userID string) ([]Folder, error) {
	query := `
		SELECT id, user_id, parent_id, name, slug, is_public, created_at, updated_at
		FROM folders WHERE user_id = ?`
	if publicOnly(ctx) {
		query += " AND is_public = 1"
	}
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []Folder
	for rows.Next() {
		var f Folder
		var parent sql.NullString
		var public int
		var created, updated int64
		if err := rows.Scan(&f.ID, &f.UserID, &parent, &f.Name, &f.Slug, &public, &created, &updated); err != nil {
			return nil, err
		}
		f.ParentID = fromNullable(parent)
		f.IsPublic = public != 0
		f.CreatedAt = time.Unix(created, 0).UTC()
		f.UpdatedAt = time.Unix(updated, 0).UTC()
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// CreateFolder creates a folder under parentID ("" = root). Sibling names
// must be unique; the slug is derived from the name and de-duplicated the
// same way. SQLite's unique indexes treat NULL parents as distinct rows,
// so the sibling check lives here.
func (s *Store) CreateFolder(ctx context.Context, userID, name, parentID string) (Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Folder{}, errors.New("folder name must not be empty")
	}
	taken, err := s.siblingNameTaken(ctx, userID, parentID, name, "")
	if err != nil {
		return Folder{}, err
	}
	if taken {
		return Folder{}, ErrDuplicateName
	}
	slug, err := s.uniqueFolderSlug(ctx, userID, parentID, Slugify(name), "")
	if err != nil {
		return Folder{}, err
	}

	now := time.Now()
	f := Folder{
		ID:        uuid.NewString(),
		UserID:    userID,
		ParentID:  parentID,
		Name:      name,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO folders(id, user_id, parent_id, name, slug, is_public, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, 0, ?, ?)`,
		f.ID, f.UserID, nullable(f.ParentID), f.Name, f.Slug, now.Unix(), now.Unix())
	if err != nil {
		return Folder{}, fmt.Errorf("create folder: %w", err)
	}
	return f, nil
}

func (s *Store) RenameFolder(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("folder name must not be empty")
	}
	var userID string
	var parent sql.NullString
	err := s.db.QueryRowContext(ctx, "SELECT user_id, parent_id FROM folders WHERE id = ?", id).
		Scan(&userID, &parent)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	parentID := fromNullable(parent)
	taken, err := s.siblingNameTaken(ctx, userID, parentID, name, id)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateName
	}
	slug, err := s.uniqueFolderSlug(ctx, userID, parentID, Slugify(name), id)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE folders SET name = ?, slug = ?, updated_at = ? WHERE id = ?",
		name, slug, time.Now().Unix(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteFolders removes the given folders in one statement. Deleting the
// notes inside them is a separate call the caller sequences afterwards;
// the two are deliberately not one transaction (documented partial-failure
// behavior).
func (s *Store) DeleteFolders(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM folders WHERE id IN ("+placeholders(len(ids))+")", toArgs(ids)...)
	return err
}

func (s *Store) UpdateFolderVisibility(ctx context.Context, id string, public bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE folders SET is_public = ?, updated_at = ? WHERE id = ?",
		boolInt(public), time.Now().Unix(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) SetFoldersVisibility(ctx context.Context, ids []string, public bool) error {
	if len(ids) == 0 {
		return nil
	}
	args := append([]any{boolInt(public), time.Now().Unix()}, toArgs(ids)...)
	_, err := s.db.ExecContext(ctx,
		"UPDATE folders SET is_public = ?, updated_at = ? WHERE id IN ("+placeholders(len(ids))+")", args...)
	return err
}

func (s *Store) siblingNameTaken(ctx context.Context, userID, parentID, name, excludeID string) (bool, error) {
	query := "SELECT COUNT(*) FROM folders WHERE user_id = ? AND name = ? COLLATE NOCASE AND id != ?"
	args := []any{userID, name, excludeID}
	if parentID == "" {
		query += " AND parent_id IS NULL"
	} else {
		query += " AND parent_id = ?"
		args = append(args, parentID)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) uniqueFolderSlug(ctx context.Context, userID, parentID, slug, excludeID string) (string, error) {
	for i := 1; ; i++ {
		candidate := slug
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", slug, i)
		}
		query := "SELECT COUNT(*) FROM folders WHERE user_id = ? AND slug = ? AND id != ?"
		args := []any{userID, candidate, excludeID}
		if parentID == "" {
			query += " AND parent_id IS NULL"
		} else {
			query += " AND parent_id = ?"
			args = append(args, parentID)
		}
		var n int
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
			return "", err
		}
		if n == 0 {
			return candidate, nil
		}
	}
}
