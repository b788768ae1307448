package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/Zert0X/OnyxForum/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 8
	maxPerPage     = 100
	minPerPage     = 5

	emailChangedMailTimeout = 15 * time.Second
)

var supportedLanguages = map[string]struct{}{
	"en": {},
	"ru": {},
	"de": {},
}

var supportedThemes = map[string]struct{}{
	"light": {},
	"dark":  {},
}

// ApplySettingsChange applies a general-settings change-set to the user.
// Returns *ValidationRejection on domain-level rejection; any other non-nil
// error is a persistence failure. On success the persisted settings match the
// change-set exactly.
func (s *Service) ApplySettingsChange(ctx context.Context, user *domain.User, change SettingsChange) error {
	rejection := newRejection()

	if _, ok := supportedLanguages[change.Settings.Language]; !ok {
		rejection.Add("language", fmt.Sprintf("unsupported language %q", change.Settings.Language))
	}
	if _, ok := supportedThemes[change.Settings.Theme]; !ok {
		rejection.Add("theme", fmt.Sprintf("unsupported theme %q", change.Settings.Theme))
	}
	if change.Settings.PostsPerPage < minPerPage || change.Settings.PostsPerPage > maxPerPage {
		rejection.Add("posts_per_page", fmt.Sprintf("must be between %d and %d", minPerPage, maxPerPage))
	}
	if change.Settings.TopicsPerPage < minPerPage || change.Settings.TopicsPerPage > maxPerPage {
		rejection.Add("topics_per_page", fmt.Sprintf("must be between %d and %d", minPerPage, maxPerPage))
	}
	if !rejection.isEmpty() {
		return rejection
	}

	if err := s.users.UpdateSettings(ctx, user.ID, change.Settings); err != nil {
		return fmt.Errorf("failed to update settings for user %d: %w", user.ID, err)
	}

	user.Settings = change.Settings
	return nil
}

// ApplyPasswordChange verifies the old password and persists a fresh bcrypt
// hash of the new one.
func (s *Service) ApplyPasswordChange(ctx context.Context, user *domain.User, change PasswordChange) error {
	rejection := newRejection()

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(change.OldPassword)); err != nil {
		rejection.Add("old_password", "old password is incorrect")
	}
	if len(change.NewPassword) < minPasswordLen {
		rejection.Add("new_password", fmt.Sprintf("must be at least %d characters", minPasswordLen))
	}
	if strings.EqualFold(change.NewPassword, user.Username) {
		rejection.Add("new_password", "must not be your username")
	}
	if !rejection.isEmpty() {
		return rejection
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(change.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password for user %d: %w", user.ID, err)
	}

	user.PasswordHash = string(hash)
	return nil
}

// ApplyEmailChange enforces case-insensitive email uniqueness, persists the
// new address, and notifies the previous address best-effort.
func (s *Service) ApplyEmailChange(ctx context.Context, user *domain.User, change EmailChange) error {
	newEmail := strings.TrimSpace(change.NewEmail)

	existing, err := s.users.GetByEmail(ctx, newEmail)
	switch {
	case err == nil && existing.ID != user.ID:
		return newRejection().Add("email", "this email address is already in use")
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return fmt.Errorf("failed to check email uniqueness: %w", err)
	}

	oldEmail := user.Email
	if err := s.users.UpdateEmail(ctx, user.ID, newEmail); err != nil {
		// Covers the race between the uniqueness check and the write.
		if errors.Is(err, domain.ErrEmailTaken) {
			return newRejection().Add("email", "this email address is already in use")
		}
		return fmt.Errorf("failed to update email for user %d: %w", user.ID, err)
	}
	user.Email = newEmail

	if s.mailer != nil && oldEmail != "" && !strings.EqualFold(oldEmail, newEmail) {
		go s.notifyEmailChanged(oldEmail, user.Username, newEmail)
	}

	return nil
}

func (s *Service) notifyEmailChanged(oldEmail, username, newEmail string) {
	ctx, cancel := context.WithTimeout(context.Background(), emailChangedMailTimeout)
	defer cancel()

	if err := s.mailer.SendEmailChanged(ctx, oldEmail, username, newEmail); err != nil {
		slog.Warn("Failed to send email-change notification", "username", username, "error", err)
	}
}

// ApplyDetailsChange persists new public profile details.
func (s *Service) ApplyDetailsChange(ctx context.Context, user *domain.User, change DetailsChange) error {
	rejection := newRejection()

	if site := strings.TrimSpace(change.Details.Website); site != "" {
		u, err := url.Parse(site)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			rejection.Add("website", "must be a valid http(s) URL")
		}
	}
	if !rejection.isEmpty() {
		return rejection
	}

	if err := s.users.UpdateDetails(ctx, user.ID, change.Details); err != nil {
		return fmt.Errorf("failed to update details for user %d: %w", user.ID, err)
	}

	user.Details = change.Details
	return nil
}
