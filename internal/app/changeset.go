package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Zert0X/OnyxForum/internal/domain"
)

// A change-set is an immutable description of proposed field updates, built
// from an already syntax-checked form. It is applied to exactly one user,
// exactly once, and either fully commits or leaves the persisted user
// untouched.

// SettingsChange proposes new general forum preferences.
type SettingsChange struct {
	Settings domain.UserSettings
}

// PasswordChange proposes a new password. OldPassword is re-verified against
// the stored hash before anything is written.
type PasswordChange struct {
	OldPassword string
	NewPassword string
}

// EmailChange proposes a new primary email address.
type EmailChange struct {
	NewEmail string
}

// DetailsChange proposes new public profile details.
type DetailsChange struct {
	Details domain.UserDetails
}

// ValidationRejection is returned by an updater when domain-level validation
// (beyond form syntax) rejects the change. The caller feeds Reasons back into
// the form and re-renders; it must not redirect. Any other non-nil error from
// an updater is a persistence failure: the caller logs it, shows a generic
// notification, and redirects.
type ValidationRejection struct {
	// Reasons maps form field names to human-readable messages.
	Reasons map[string][]string
}

func (v *ValidationRejection) Error() string {
	fields := make([]string, 0, len(v.Reasons))
	for field := range v.Reasons {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("change rejected by validation: %s", strings.Join(fields, ", "))
}

// Add appends a rejection reason for a field (chainable).
func (v *ValidationRejection) Add(field, reason string) *ValidationRejection {
	if v.Reasons == nil {
		v.Reasons = make(map[string][]string)
	}
	v.Reasons[field] = append(v.Reasons[field], reason)
	return v
}

func (v *ValidationRejection) isEmpty() bool {
	return len(v.Reasons) == 0
}

func newRejection() *ValidationRejection {
	return &ValidationRejection{Reasons: make(map[string][]string)}
}
