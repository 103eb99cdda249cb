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

type User struct {
	ID            string
	Name          string
	PasswordHash  string
	ProfilePublic bool
	CreatedAt     time.Time
}

func (s *Store) CreateUser(ctx context.Context, name, passwordHash string) (User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return User{}, errors.New("user name must not be empty")
	}
	u := User{
		ID:           uuid.NewString(),
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users(id, name, password_hash, profile_public, created_at)
		VALUES(?, ?, ?, 0, ?)`,
		u.ID, u.Name, u.PasswordHash, u.CreatedAt.Unix())
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *Store) UserByName(ctx context.Context, name string) (User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, name, password_hash, profile_public, created_at
		FROM users WHERE name = ?`, strings.TrimSpace(name)))
}

func (s *Store) UserByID(ctx context.Context, id string) (User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, name, password_hash, profile_public, created_at
		FROM users WHERE id = ?`, id))
}

func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, password_hash, profile_public, created_at
		FROM users ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE users SET password_hash = ? WHERE id = ?", passwordHash, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) SetProfilePublic(ctx context.Context, userID string, public bool) error {
	res, err := s.db.ExecContext(ctx, "UPDATE users SET profile_public = ? WHERE id = ?", boolInt(public), userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) scanUser(row *sql.Row) (User, error) {
	var u User
	var public int
	var created int64
	err := row.Scan(&u.ID, &u.Name, &u.PasswordHash, &public, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	u.ProfilePublic = public != 0
	u.CreatedAt = time.Unix(created, 0).UTC()
	return u, nil
}

func scanUserRow(rows *sql.Rows) (User, error) {
	var u User
	var public int
	var created int64
	if err := rows.Scan(&u.ID, &u.Name, &u.PasswordHash, &public, &created); err != nil {
		return User{}, err
	}
	u.ProfilePublic = public != 0
	u.CreatedAt = time.Unix(created, 0).UTC()
	return u, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
