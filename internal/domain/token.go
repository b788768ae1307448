package domain

import (
	"context"
	"time"
)

// LinkToken is a one-time token a user enters in-game to tie their BYOND
// account to their Discord identity. At most one unconsumed token may exist
// per Discord ID at any time.
type LinkToken struct {
	ID         int64
	Token      string
	DiscordID  string
	CreatedAt  time.Time
	ConsumedAt *time.Time
}

type LinkTokenRepository interface {
	// DeleteUnconsumed removes every unconsumed token for the Discord ID and
	// returns how many were removed.
	DeleteUnconsumed(ctx context.Context, discordID string) (int64, error)
	Insert(ctx context.Context, token *LinkToken) (*LinkToken, error)
}

// GameLinkRepository resolves an established Discord-to-BYOND link.
type GameLinkRepository interface {
	// GetCkey returns the linked BYOND ckey, or ErrNotLinked.
	GetCkey(ctx context.Context, discordID string) (string, error)
}
