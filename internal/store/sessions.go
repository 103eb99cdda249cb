package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// CreateSession issues an opaque session token for a user.
func (s *Store) CreateSession(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	expires := time.Now().Add(ttl).Unix()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO sessions(token, user_id, expires_at) VALUES(?, ?, ?)",
		token, userID, expires)
	if err != nil {
		return "", err
	}
	return token, nil
}

// SessionUser resolves a token to its user. Expired and unknown tokens
// both return ErrNotFound.
func (s *Store) SessionUser(ctx context.Context, token string) (User, error) {
	var userID string
	var expires int64
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id, expires_at FROM sessions WHERE token = ?", token).
		Scan(&userID, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	if time.Now().Unix() >= expires {
		_, _ = s.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token)
		return User{}, ErrNotFound
	}
	return s.UserByID(ctx, userID)
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token)
	return err
}

// PurgeExpiredSessions removes dead tokens; called periodically by the
// server main.
func (s *Store) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < ?", time.Now().Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
