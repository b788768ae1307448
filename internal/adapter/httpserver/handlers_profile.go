package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Zert0X/OnyxForum/internal/app"
	"github.com/Zert0X/OnyxForum/internal/domain"
	apperrors "github.com/Zert0X/OnyxForum/internal/platform/errors"
	"github.com/labstack/echo/v4"
)

func (s *Server) registerProfileRoutes(csrfMiddleware, tokenLimiter echo.MiddlewareFunc) {
	g := s.echo.Group("/user", s.requireAuth)

	g.GET("/:id", s.handleProfile, csrfMiddleware)
	g.GET("/:id/posts", s.handleUserPosts)
	g.GET("/:id/topics", s.handleUserTopics)
	g.GET("/:id/generate-token", s.handleGenerateToken, tokenLimiter)
}

// viewedUser resolves the profile owner from the :id segment. Non-numeric and
// unknown ids both read as a missing page.
func (s *Server) viewedUser(c echo.Context) (*domain.User, error) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return nil, apperrors.NotFoundError("user not found").WithField("id", c.Param("id"))
	}

	user, err := s.app.GetUserByID(c.Request().Context(), userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, apperrors.NotFoundError("user not found").WithField("user_id", userID)
	}
	if err != nil {
		return nil, apperrors.InternalError("failed to load user", err).WithField("user_id", userID)
	}
	return user, nil
}

func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func (s *Server) handleProfile(c echo.Context) error {
	principal, err := s.principal(c)
	if err != nil {
		return err
	}

	viewed, err := s.viewedUser(c)
	if err != nil {
		return err
	}

	data := map[string]any{
		"Username":  viewed.Username,
		"Details":   viewed.Details,
		"JoinedAt":  viewed.CreatedAt,
		"IsSelf":    viewed.ID == principal.ID,
		"UserID":    viewed.ID,
		"Flashes":   s.popFlashes(c),
		"CSRFToken": c.Get("csrf"),
	}
	return s.renderTemplate(c, "profile.html", data)
}

func (s *Server) handleUserPosts(c echo.Context) error {
	viewed, err := s.viewedUser(c)
	if err != nil {
		return err
	}

	page := domain.Page{Number: pageParam(c), PerPage: viewed.Settings.PostsPerPage}
	posts, err := s.app.ListPostsByAuthor(c.Request().Context(), viewed.ID, page)
	if err != nil {
		return apperrors.InternalError("failed to list posts", err).WithField("user_id", viewed.ID)
	}

	data := map[string]any{
		"Username": viewed.Username,
		"UserID":   viewed.ID,
		"Page":     posts,
		"Flashes":  s.popFlashes(c),
	}
	return s.renderTemplate(c, "all_posts.html", data)
}

func (s *Server) handleUserTopics(c echo.Context) error {
	viewed, err := s.viewedUser(c)
	if err != nil {
		return err
	}

	page := domain.Page{Number: pageParam(c), PerPage: viewed.Settings.TopicsPerPage}
	topics, err := s.app.ListTopicsByAuthor(c.Request().Context(), viewed.ID, page)
	if err != nil {
		return apperrors.InternalError("failed to list topics", err).WithField("user_id", viewed.ID)
	}

	data := map[string]any{
		"Username": viewed.Username,
		"UserID":   viewed.ID,
		"Page":     topics,
		"Flashes":  s.popFlashes(c),
	}
	return s.renderTemplate(c, "all_topics.html", data)
}

// handleGenerateToken issues a one-time game-account link token for the
// principal. Every outcome flashes and redirects back to the profile; the
// token itself appears exactly once, in the flash.
func (s *Server) handleGenerateToken(c echo.Context) error {
	user, err := s.principal(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	profile := fmt.Sprintf("/user/%d", user.ID)

	token, err := s.app.GenerateLinkToken(ctx, user)

	var linked *app.AlreadyLinkedError
	switch {
	case err == nil:
		s.addFlash(c, flashSuccess, fmt.Sprintf(
			"Your one-time link token is %s. Enter it in the game client to link your account. It will not be shown again.", token))
	case errors.As(err, &linked):
		s.addFlash(c, flashInfo, fmt.Sprintf(
			"Your Discord account is already linked to BYOND account %q.", linked.Ckey))
	case errors.Is(err, app.ErrNoDiscord):
		s.addFlash(c, flashDanger, "Link a Discord account before generating a token.")
	default:
		slog.ErrorContext(ctx, "Token generation failed", "user_id", user.ID, "error", err)
		s.addFlash(c, flashDanger, "Could not generate a token. Please try again.")
	}

	return s.redirect(c, profile)
}
