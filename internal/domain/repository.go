package domain

import "context"

// UserStore defines persistence for accounts.
type UserStore interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	// UpsertByGoogleSub creates the account on first sight of a verified
	// Google identity and returns the existing one afterwards.
	UpsertByGoogleSub(ctx context.Context, user *User) (*User, error)
}

// VideoStore defines persistence for generated videos.
type VideoStore interface {
	// Append records a new video at the head of the user's collection.
	Append(ctx context.Context, video *Video) error
	// ListByUser returns the user's videos, newest first.
	ListByUser(ctx context.Context, userID string) ([]Video, error)
}
