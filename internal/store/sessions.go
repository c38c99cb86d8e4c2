package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/diyabooks/diya-server/internal/domain"
	apperrors "github.com/diyabooks/diya-server/internal/errors"
	"github.com/diyabooks/diya-server/internal/id"
)

// CreateSession mints an opaque bearer token for the user, valid for ttl.
func (s *Store) CreateSession(ctx context.Context, userID int64, ttl time.Duration) (*domain.Session, error) {
	now := timeNow().UTC()
	session := &domain.Session{
		Token:     id.Generate("ses"),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)`,
		session.Token, session.UserID,
		formatTime(session.CreatedAt), formatTime(session.ExpiresAt),
	)
	if err != nil {
		return nil, translateErr(err)
	}
	return session, nil
}

// GetSession resolves a bearer token. Expired sessions are deleted on
// sight and reported as not found.
func (s *Store) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	var (
		session   domain.Session
		createdAt string
		expiresAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT token, user_id, created_at, expires_at
		FROM sessions WHERE token = ?`, token,
	).Scan(&session.Token, &session.UserID, &createdAt, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("session not found")
	}
	if err != nil {
		return nil, translateErr(err)
	}

	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if session.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, err
	}

	if session.Expired(timeNow()) {
		if err := s.DeleteSession(ctx, token); err != nil {
			s.logger.Warn("failed to delete expired session", "error", err)
		}
		return nil, apperrors.NotFound("session not found")
	}
	return &session, nil
}

// DeleteSession revokes a token. Revoking an unknown token is not an error.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	return translateErr(err)
}

// DeleteExpiredSessions removes all sessions past their expiry and
// returns the number removed.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ?`, formatTime(timeNow()))
	if err != nil {
		return 0, translateErr(err)
	}
	return res.RowsAffected()
}
