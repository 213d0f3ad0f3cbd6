package models

import "time"

// User represents a registered account. PasswordHash never leaves the
// server; the read/saved book id lists are loaded from their join tables.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         string    `json:"role"`
	Created      time.Time `json:"created"`
	ReadBooks    []int64   `json:"readBooks"`
	SavedBooks   []int64   `json:"savedBooks"`
}

// Roles assignable to a user.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// IsAdmin reports whether the user has administrative rights.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PasswordResetToken is a single-use token for the password reset flow.
type PasswordResetToken struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// IsExpired reports whether the token is past its expiry.
func (t *PasswordResetToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
