// Package domain contains the core business entities for the Diya book catalogue.
package domain

import "time"

// AccessLevel is a threshold scale, not a bitmask: a user at a given
// level has every capability of the levels below it.
type AccessLevel int

const (
	AccessNormal  AccessLevel = 0
	AccessPremium AccessLevel = 1
	AccessAdmin   AccessLevel = 2
)

// User represents a registered account.
// Email is stored lower-cased; identity is case-insensitive.
type User struct {
	ID             int64       `json:"id"`
	Email          string      `json:"email"`
	PasswordHash   string      `json:"-"`
	AccessLevel    AccessLevel `json:"-"`
	Premium        bool        `json:"premium"`
	Admin          bool        `json:"admin"`
	CreatedAt      time.Time   `json:"created"`
	PremiumExpires *time.Time  `json:"premium_expires,omitempty"`
}

// ApplyAccessLevel derives the Premium and Admin flags from the access level.
func (u *User) ApplyAccessLevel() {
	u.Premium = u.AccessLevel >= AccessPremium
	u.Admin = u.AccessLevel >= AccessAdmin
}

// Identity is the minimal authenticated view of a user, returned by
// credential checks and attached to sessions.
type Identity struct {
	UserID  int64 `json:"user_id"`
	Premium bool  `json:"premium"`
	Admin   bool  `json:"admin"`
}

// Session is an opaque bearer token persisted server-side.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
