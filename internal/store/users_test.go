package store

import (
	"context"
	"testing"

	"github.com/diyabooks/diya-server/internal/domain"
	apperrors "github.com/diyabooks/diya-server/internal/errors"
)

func TestAddUserAndCheckUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID, err := s.AddUser(ctx, "Reader@Example.COM", "correct horse battery")
	if err != nil {
		t.Fatalf("AddUser() error = %v", err)
	}
	if userID == 0 {
		t.Fatal("AddUser() returned zero ID")
	}

	// Credentials verify regardless of the email's case at registration
	// or login time.
	identity, err := s.CheckUser(ctx, "reader@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("CheckUser() error = %v", err)
	}
	if identity.UserID != userID {
		t.Errorf("CheckUser() UserID = %d, want %d", identity.UserID, userID)
	}
	if identity.Premium || identity.Admin {
		t.Errorf("new user should have normal access, got premium=%v admin=%v",
			identity.Premium, identity.Admin)
	}
}

func TestAddUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.AddUser(ctx, "reader@example.com", "password1"); err != nil {
		t.Fatalf("AddUser() error = %v", err)
	}

	// Same address with different case collides.
	_, err := s.AddUser(ctx, "READER@example.com", "password2")
	if !apperrors.Is(err, apperrors.ErrAlreadyExists) {
		t.Errorf("AddUser() duplicate error = %v, want ErrAlreadyExists", err)
	}
}

func TestCheckUserUniformFailure(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.AddUser(ctx, "reader@example.com", "password1"); err != nil {
		t.Fatalf("AddUser() error = %v", err)
	}

	// Wrong password and unknown email fail identically.
	_, wrongPass := s.CheckUser(ctx, "reader@example.com", "nope")
	_, unknownEmail := s.CheckUser(ctx, "ghost@example.com", "nope")

	if !apperrors.Is(wrongPass, apperrors.ErrUnauthorized) {
		t.Errorf("wrong password error = %v, want ErrUnauthorized", wrongPass)
	}
	if !apperrors.Is(unknownEmail, apperrors.ErrUnauthorized) {
		t.Errorf("unknown email error = %v, want ErrUnauthorized", unknownEmail)
	}
	if wrongPass.Error() != unknownEmail.Error() {
		t.Errorf("failure messages differ: %q vs %q", wrongPass, unknownEmail)
	}
}

func TestSetAccessLevel(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID, err := s.AddUser(ctx, "reader@example.com", "password1")
	if err != nil {
		t.Fatalf("AddUser() error = %v", err)
	}

	if err := s.SetAccessLevel(ctx, userID, domain.AccessAdmin); err != nil {
		t.Fatalf("SetAccessLevel() error = %v", err)
	}

	identity, err := s.CheckUser(ctx, "reader@example.com", "password1")
	if err != nil {
		t.Fatalf("CheckUser() error = %v", err)
	}
	if !identity.Premium || !identity.Admin {
		t.Errorf("admin identity = %+v, want premium and admin", identity)
	}

	if err := s.SetAccessLevel(ctx, 9999, domain.AccessPremium); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("SetAccessLevel(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDeleteUserIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID, err := s.AddUser(ctx, "reader@example.com", "password1")
	if err != nil {
		t.Fatalf("AddUser() error = %v", err)
	}

	if err := s.DeleteUser(ctx, userID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	if _, err := s.GetUserByID(ctx, userID); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetUserByID() after delete error = %v, want ErrNotFound", err)
	}

	// Deleting again is not an error.
	if err := s.DeleteUser(ctx, userID); err != nil {
		t.Errorf("DeleteUser() second call error = %v", err)
	}
}

func TestGetUserDoesNotExposeHash(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID, err := s.AddUser(ctx, "reader@example.com", "password1")
	if err != nil {
		t.Fatalf("AddUser() error = %v", err)
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if user.Email != "reader@example.com" {
		t.Errorf("Email = %q, want lowercased original", user.Email)
	}
	if user.PasswordHash == "" {
		t.Error("PasswordHash not loaded")
	}
	if user.Premium || user.Admin {
		t.Errorf("flags = premium=%v admin=%v, want false", user.Premium, user.Admin)
	}
}
