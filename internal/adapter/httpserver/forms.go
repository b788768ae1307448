package httpserver

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"github.com/Zert0X/OnyxForum/internal/app"
	"github.com/Zert0X/OnyxForum/internal/domain"
	"github.com/labstack/echo/v4"
)

// Syntactic form validation. Anything caught here re-renders the form with
// field errors and never reaches the service layer; domain-level checks
// (duplicate email, wrong old password) live in internal/app.

const (
	maxEmailLen     = 254
	maxLocationLen  = 100
	maxWebsiteLen   = 200
	maxBirthdayLen  = 32
	maxPronounsLen  = 50
	maxSignatureLen = 5000
	maxNotesLen     = 10000
)

type fieldErrors map[string][]string

func (f fieldErrors) add(field, message string) {
	f[field] = append(f[field], message)
}

func parseSettingsForm(c echo.Context) (app.SettingsChange, fieldErrors) {
	errs := fieldErrors{}

	language := strings.TrimSpace(c.FormValue("language"))
	theme := strings.TrimSpace(c.FormValue("theme"))
	if language == "" {
		errs.add("language", "language is required")
	}
	if theme == "" {
		errs.add("theme", "theme is required")
	}

	postsPerPage, err := strconv.Atoi(c.FormValue("posts_per_page"))
	if err != nil {
		errs.add("posts_per_page", "must be a number")
	}
	topicsPerPage, err := strconv.Atoi(c.FormValue("topics_per_page"))
	if err != nil {
		errs.add("topics_per_page", "must be a number")
	}

	return app.SettingsChange{
		Settings: domain.UserSettings{
			Language:      language,
			Theme:         theme,
			PostsPerPage:  postsPerPage,
			TopicsPerPage: topicsPerPage,
		},
	}, errs
}

func parsePasswordForm(c echo.Context) (app.PasswordChange, fieldErrors) {
	errs := fieldErrors{}

	oldPassword := c.FormValue("old_password")
	newPassword := c.FormValue("new_password")
	confirm := c.FormValue("confirm_password")

	if oldPassword == "" {
		errs.add("old_password", "old password is required")
	}
	if newPassword == "" {
		errs.add("new_password", "new password is required")
	}
	if newPassword != confirm {
		errs.add("confirm_password", "passwords do not match")
	}

	return app.PasswordChange{
		OldPassword: oldPassword,
		NewPassword: newPassword,
	}, errs
}

func parseEmailForm(c echo.Context) (app.EmailChange, fieldErrors) {
	errs := fieldErrors{}

	email := strings.TrimSpace(c.FormValue("email"))
	confirm := strings.TrimSpace(c.FormValue("confirm_email"))

	switch {
	case email == "":
		errs.add("email", "email is required")
	case len(email) > maxEmailLen:
		errs.add("email", fmt.Sprintf("must be at most %d characters", maxEmailLen))
	default:
		addr, err := mail.ParseAddress(email)
		if err != nil || addr.Address != email {
			errs.add("email", "must be a valid email address")
		}
	}
	if !strings.EqualFold(email, confirm) {
		errs.add("confirm_email", "email addresses do not match")
	}

	return app.EmailChange{NewEmail: email}, errs
}

func parseDetailsForm(c echo.Context) (app.DetailsChange, fieldErrors) {
	errs := fieldErrors{}

	details := domain.UserDetails{
		Location:       strings.TrimSpace(c.FormValue("location")),
		Website:        strings.TrimSpace(c.FormValue("website")),
		Birthday:       strings.TrimSpace(c.FormValue("birthday")),
		GenderPronouns: strings.TrimSpace(c.FormValue("gender_pronouns")),
		Signature:      c.FormValue("signature"),
		Notes:          c.FormValue("notes"),
	}

	checkLen := func(field, value string, max int) {
		if len(value) > max {
			errs.add(field, fmt.Sprintf("must be at most %d characters", max))
		}
	}
	checkLen("location", details.Location, maxLocationLen)
	checkLen("website", details.Website, maxWebsiteLen)
	checkLen("birthday", details.Birthday, maxBirthdayLen)
	checkLen("gender_pronouns", details.GenderPronouns, maxPronounsLen)
	checkLen("signature", details.Signature, maxSignatureLen)
	checkLen("notes", details.Notes, maxNotesLen)

	return app.DetailsChange{Details: details}, errs
}
