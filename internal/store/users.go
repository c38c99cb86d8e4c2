package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/diyabooks/diya-server/internal/auth"
	"github.com/diyabooks/diya-server/internal/domain"
	apperrors "github.com/diyabooks/diya-server/internal/errors"
)

const userColumns = `id, email, password_hash, access_level, created_at, premium_expires`

// dummyHash is verified against when a login names an unknown email, so
// failed lookups and failed passwords take the same code path and cost.
const dummyHash = "$argon2id$v=19$m=65536,t=3,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// AddUser registers a new account with normal access. The email is
// normalized to lower case before storage; the password is hashed with
// Argon2id. Returns the new user's ID, or ErrAlreadyExists when the
// email is taken.
func (s *Store) AddUser(ctx context.Context, email, password string) (int64, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, apperrors.Wrap(err, "hash password")
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, access_level, created_at)
		VALUES (?, ?, ?, ?)`,
		email, hash, int(domain.AccessNormal), formatTime(timeNow()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperrors.AlreadyExists("an account with this email already exists")
		}
		return 0, translateErr(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, translateErr(err)
	}
	return id, nil
}

// CheckUser verifies a credential pair and returns the caller's identity.
// An unknown email and a wrong password both return ErrUnauthorized, with
// a hash verification performed in either case so the two are
// indistinguishable to the caller.
func (s *Store) CheckUser(ctx context.Context, email, password string) (*domain.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var (
		userID      int64
		storedHash  string
		accessLevel int
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash, access_level FROM users WHERE email = ?`,
		email,
	).Scan(&userID, &storedHash, &accessLevel)
	switch {
	case err == sql.ErrNoRows:
		auth.VerifyPassword(dummyHash, password)
		return nil, apperrors.Unauthorized("invalid email or password")
	case err != nil:
		return nil, translateErr(err)
	}

	ok, err := auth.VerifyPassword(storedHash, password)
	if err != nil {
		return nil, apperrors.Wrap(err, "verify password")
	}
	if !ok {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	return &domain.Identity{
		UserID:  userID,
		Premium: accessLevel >= int(domain.AccessPremium),
		Admin:   accessLevel >= int(domain.AccessAdmin),
	}, nil
}

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, userID)

	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		return nil, translateErr(err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email (matched case-insensitively).
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)

	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		return nil, translateErr(err)
	}
	return user, nil
}

// SetAccessLevel updates a user's access level.
func (s *Store) SetAccessLevel(ctx context.Context, userID int64, level domain.AccessLevel) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET access_level = ? WHERE id = ?`, int(level), userID)
	if err != nil {
		return translateErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translateErr(err)
	}
	if n == 0 {
		return apperrors.NotFound("user not found")
	}
	return nil
}

// DeleteUser removes a user and, via cascade, their sessions. Deleting a
// user that does not exist is not an error.
func (s *Store) DeleteUser(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	return translateErr(err)
}

// scanUser scans a user row from the userColumns column set.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var (
		user           domain.User
		accessLevel    int
		createdAt      string
		premiumExpires sql.NullString
	)
	err := scanner.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&accessLevel,
		&createdAt,
		&premiumExpires,
	)
	if err != nil {
		return nil, err
	}

	user.AccessLevel = domain.AccessLevel(accessLevel)
	user.ApplyAccessLevel()

	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if user.PremiumExpires, err = parseNullableTime(premiumExpires); err != nil {
		return nil, err
	}
	return &user, nil
}
