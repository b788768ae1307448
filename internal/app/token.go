package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/Zert0X/OnyxForum/internal/domain"
)

// linkTokenBytes yields a 32-character hex token, matching what the game
// servers expect from the `.chaotic-token` console command.
const linkTokenBytes = 16

// ErrNoDiscord is returned when the user has no Discord identity to key the
// link token by.
var ErrNoDiscord = errors.New("account has no discord identity")

// AlreadyLinkedError is returned when the user's Discord is already tied to a
// BYOND account; token generation is then an idempotent no-op.
type AlreadyLinkedError struct {
	Ckey string
}

func (e *AlreadyLinkedError) Error() string {
	return fmt.Sprintf("discord already linked to BYOND account %q", e.Ckey)
}

// GenerateLinkToken issues a one-time token for tying the user's BYOND game
// account to their Discord identity. Any previously issued unconsumed tokens
// for the same Discord ID are invalidated first, so at most one valid token
// exists per identity. The plaintext token is returned exactly once; at rest
// it is stored through the configured crypto service.
func (s *Service) GenerateLinkToken(ctx context.Context, user *domain.User) (string, error) {
	if user.DiscordID == "" {
		return "", ErrNoDiscord
	}

	ckey, err := s.links.GetCkey(ctx, user.DiscordID)
	switch {
	case err == nil:
		return "", &AlreadyLinkedError{Ckey: ckey}
	case !errors.Is(err, domain.ErrNotLinked):
		return "", fmt.Errorf("failed to check game link: %w", err)
	}

	invalidated, err := s.tokens.DeleteUnconsumed(ctx, user.DiscordID)
	if err != nil {
		return "", fmt.Errorf("failed to invalidate previous tokens: %w", err)
	}

	raw := make([]byte, linkTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := hex.EncodeToString(raw)

	stored, err := s.tokenCrypto.Encrypt(token)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt token: %w", err)
	}

	if _, err := s.tokens.Insert(ctx, &domain.LinkToken{
		Token:     stored,
		DiscordID: user.DiscordID,
		CreatedAt: s.clock.Now(),
	}); err != nil {
		return "", fmt.Errorf("failed to persist token: %w", err)
	}

	s.audit.Info("Link token issued",
		"user", user.Username,
		"discord", user.DiscordID,
		"invalidated", invalidated,
	)

	return token, nil
}
