package domain

import (
	"context"
	"time"
)

// User is the authenticated principal of every request in this slice.
// It is created and deleted elsewhere (registration/admin panel); the views
// here only read it and mutate its settings, credentials, and details.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	// DiscordID is the external identity the hub uses to key uploads and
	// game-account link tokens. Empty for users without a linked Discord.
	DiscordID string
	IsAdmin   bool

	Settings UserSettings
	Details  UserDetails

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserSettings are the general forum preferences edited on /settings/general.
type UserSettings struct {
	Language      string
	Theme         string
	PostsPerPage  int
	TopicsPerPage int
}

// UserDetails are the public profile fields edited on /settings/user-details.
type UserDetails struct {
	Location       string
	Website        string
	Birthday       string
	GenderPronouns string
	Signature      string
	Notes          string
}

type UserRepository interface {
	GetByID(ctx context.Context, userID int64) (*User, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateSettings(ctx context.Context, userID int64, settings UserSettings) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	UpdateEmail(ctx context.Context, userID int64, email string) error
	UpdateDetails(ctx context.Context, userID int64, details UserDetails) error
}
