package httpserver

import (
	"errors"
	"log/slog"

	"github.com/Zert0X/OnyxForum/internal/app"
	"github.com/Zert0X/OnyxForum/internal/domain"
	apperrors "github.com/Zert0X/OnyxForum/internal/platform/errors"
	"github.com/labstack/echo/v4"
)

// Choices offered by the general settings form.
var (
	settingsLanguages = []string{"en", "ru", "de"}
	settingsThemes    = []string{"light", "dark"}
)

const genericSaveFailure = "Something went wrong while saving your changes. Please try again."

func (s *Server) registerSettingsRoutes(csrfMiddleware echo.MiddlewareFunc) {
	g := s.echo.Group("/settings", s.requireAuth, csrfMiddleware)

	g.GET("/general", s.handleGeneralSettingsPage)
	g.POST("/general", s.handleGeneralSettingsSubmit)
	g.GET("/password", s.handleChangePasswordPage)
	g.POST("/password", s.handleChangePasswordSubmit)
	g.GET("/email", s.handleChangeEmailPage)
	g.POST("/email", s.handleChangeEmailSubmit)
	g.GET("/user-details", s.handleUserDetailsPage)
	g.POST("/user-details", s.handleUserDetailsSubmit)
}

// finishChange classifies the outcome of an applied change-set. A nil error
// redirects with a success flash (PRG). A validation rejection re-renders the
// form with the rejection reasons and must not redirect. Anything else is a
// persistence failure: logged, flashed generically, redirected.
func (s *Server) finishChange(c echo.Context, err error, successMessage, redirectTarget string, renderForm func(errs fieldErrors) error) error {
	if err == nil {
		s.addFlash(c, flashSuccess, successMessage)
		return s.redirect(c, redirectTarget)
	}

	var rejection *app.ValidationRejection
	if errors.As(err, &rejection) {
		return renderForm(fieldErrors(rejection.Reasons))
	}

	slog.ErrorContext(c.Request().Context(), "Settings update failed",
		"path", c.Request().URL.Path, "error", err)
	s.addFlash(c, flashDanger, genericSaveFailure)
	return s.redirect(c, redirectTarget)
}

func (s *Server) principal(c echo.Context) (*domain.User, error) {
	user := s.currentUser(c)
	if user == nil {
		return nil, apperrors.InternalError("no authenticated user in context", nil)
	}
	return user, nil
}

// --- general settings ---

func (s *Server) handleGeneralSettingsPage(c echo.Context) error {
	user, err := s.principal(c)
	if err != nil {
		return err
	}
	return s.renderGeneralSettings(c, user, user.Settings, nil)
}

func (s *Server) handleGeneralSettingsSubmit(c echo.Context) error {
	user, err := s.principal(c)
	if err != nil {
		return err
	}

	change, errs := parseSettingsForm(c)
	if len(errs) > 0 {
		return s.renderGeneralSettings(c, user, change.Settings, errs)
	}

	applyErr := s.app.ApplySettingsChange(c.Request().Context(), user, change)
	return s.finishChange(c, applyErr, "Settings updated.", "/settings/general", func(errs fieldErrors) error {
		return s.renderGeneralSettings(c, user, change.Settings, errs)
	})
}

func (s *Server) renderGeneralSettings(c echo.Context, user *domain.User, settings domain.UserSettings, errs fieldErrors) error {
	data := map[string]any{
		"Username":  user.Username,
		"Settings":  settings,
		"Languages": settingsLanguages,
		"Themes":    settingsThemes,
		"Errors":    errs,
		"Flashes":   s.popFlashes(c),
		"CSRFToken": c.Get("csrf"),
	}
	return s.renderTemplate(c, "general_settings.html", data)
}

// --- password ---

func (s *Server) handleChangePasswordPage(c echo.Context) error {
	user, err := s.principal(c)
	if err != nil {
		return err
	}
	return s.renderChangePassword(c, user, nil)
}

func (s *Server) handleChangePasswordSubmit(c echo.Context) error {
	user, err := s.principal(c)
	if err != nil {
		return err
	}

	change, errs := parsePasswordForm(c)
	if len(errs) > 0 {
		return s.renderChangePassword(c, user, errs)
	}

	applyErr := s.app.ApplyPasswordChange(c.Request().Context(), user, change)
	return s.finishChange(c, applyErr, "Password changed.", "/settings/password", func(errs fieldErrors) error {
		return s.renderChangePassword(c, user, errs)
	})
}

func (s *Server) renderChangePassword(c echo.Context, user *domain.User, errs fieldErrors) error {
	data := map[string]any{
		"Username":  user.Username,
		"Errors":    errs,
		"Flashes":   s.popFlashes(c),
		"CSRFToken": c.Get("csrf"),
	}
	return s.renderTemplate(c, "change_password.html", data)
}

// --- email ---

func (s *Server) handleChangeEmailPage(c echo.Context) error {
	user, err := s.principal(c)
	if err != nil {
		return err
	}
	return s.renderChangeEmail(c, user, user.Email, nil)
}

func (s *Server) handleChangeEmailSubmit(c echo.Context) error {
	user, err := s.principal(c)
	if err != nil {
		return err
	}

	change, errs := parseEmailForm(c)
	if len(errs) > 0 {
		return s.renderChangeEmail(c, user, change.NewEmail, errs)
	}

	applyErr := s.app.ApplyEmailChange(c.Request().Context(), user, change)
	return s.finishChange(c, applyErr, "Email address changed.", "/settings/email", func(errs fieldErrors) error {
		return s.renderChangeEmail(c, user, change.NewEmail, errs)
	})
}

func (s *Server) renderChangeEmail(c echo.Context, user *domain.User, email string, errs fieldErrors) error {
	data := map[string]any{
		"Username":  user.Username,
		"Email":     email,
		"Errors":    errs,
		"Flashes":   s.popFlashes(c),
		"CSRFToken": c.Get("csrf"),
	}
	return s.renderTemplate(c, "change_email.html", data)
}

// --- user details ---

func (s *Server) handleUserDetailsPage(c echo.Context) error {
	user, err := s.principal(c)
	if err != nil {
		return err
	}
	return s.renderUserDetails(c, user, user.Details, nil)
}

func (s *Server) handleUserDetailsSubmit(c echo.Context) error {
	user, err := s.principal(c)
	if err != nil {
		return err
	}

	change, errs := parseDetailsForm(c)
	if len(errs) > 0 {
		return s.renderUserDetails(c, user, change.Details, errs)
	}

	applyErr := s.app.ApplyDetailsChange(c.Request().Context(), user, change)
	return s.finishChange(c, applyErr, "Details updated.", "/settings/user-details", func(errs fieldErrors) error {
		return s.renderUserDetails(c, user, change.Details, errs)
	})
}

func (s *Server) renderUserDetails(c echo.Context, user *domain.User, details domain.UserDetails, errs fieldErrors) error {
	data := map[string]any{
		"Username":  user.Username,
		"Details":   details,
		"Errors":    errs,
		"Flashes":   s.popFlashes(c),
		"CSRFToken": c.Get("csrf"),
	}
	return s.renderTemplate(c, "change_user_details.html", data)
}
