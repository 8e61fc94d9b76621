package domain

import "time"

// User represents an account on the platform. Accounts created through the
// Google sign-in flow carry a GoogleSub and no password hash.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	GoogleSub    string
	CreatedAt    time.Time
}

// HasPassword reports whether the account can authenticate with a password.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}
