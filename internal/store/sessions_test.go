package store

import (
	"context"
	"strings"
	"testing"
	"time"

	apperrors "github.com/diyabooks/diya-server/internal/errors"
)

func TestSessionLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID, err := s.AddUser(ctx, "reader@example.com", "password1")
	if err != nil {
		t.Fatalf("AddUser() error = %v", err)
	}

	session, err := s.CreateSession(ctx, userID, time.Hour)
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if !strings.HasPrefix(session.Token, "ses_") {
		t.Errorf("Token = %q, want ses_ prefix", session.Token)
	}

	got, err := s.GetSession(ctx, session.Token)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if got.UserID != userID {
		t.Errorf("UserID = %d, want %d", got.UserID, userID)
	}

	if err := s.DeleteSession(ctx, session.Token); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if _, err := s.GetSession(ctx, session.Token); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetSession() after delete error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteSession(ctx, session.Token); err != nil {
		t.Errorf("DeleteSession() second call error = %v", err)
	}
}

func TestExpiredSessionRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID, err := s.AddUser(ctx, "reader@example.com", "password1")
	if err != nil {
		t.Fatalf("AddUser() error = %v", err)
	}

	session, err := s.CreateSession(ctx, userID, -time.Minute)
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	if _, err := s.GetSession(ctx, session.Token); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetSession(expired) error = %v, want ErrNotFound", err)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID, err := s.AddUser(ctx, "reader@example.com", "password1")
	if err != nil {
		t.Fatalf("AddUser() error = %v", err)
	}

	if _, err := s.CreateSession(ctx, userID, -time.Minute); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	live, err := s.CreateSession(ctx, userID, time.Hour)
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	n, err := s.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions() error = %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d sessions, want 1", n)
	}
	if _, err := s.GetSession(ctx, live.Token); err != nil {
		t.Errorf("live session lost: %v", err)
	}
}

func TestSessionsCascadeOnUserDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID, err := s.AddUser(ctx, "reader@example.com", "password1")
	if err != nil {
		t.Fatalf("AddUser() error = %v", err)
	}
	session, err := s.CreateSession(ctx, userID, time.Hour)
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	if err := s.DeleteUser(ctx, userID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	if _, err := s.GetSession(ctx, session.Token); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("session survived user delete: %v", err)
	}
}
