package httpserver

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/Zert0X/OnyxForum/internal/app"
	"github.com/Zert0X/OnyxForum/internal/domain"
	apperrors "github.com/Zert0X/OnyxForum/internal/platform/errors"
	"github.com/labstack/echo/v4"
)

const uploadsPath = "/settings/uploads"

func (s *Server) registerUploadRoutes(csrfMiddleware echo.MiddlewareFunc) {
	g := s.echo.Group(uploadsPath, s.requireAuth, csrfMiddleware)

	g.GET("", s.handleUploadsPage)
	g.POST("", s.handleUploadSubmit)
	g.POST("/delete", s.handleUploadDelete)
}

func (s *Server) handleUploadsPage(c echo.Context) error {
	user, err := s.principal(c)
	if err != nil {
		return err
	}
	return s.renderUploads(c, user, nil)
}

func (s *Server) handleUploadSubmit(c echo.Context) error {
	user, err := s.principal(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	fh, err := c.FormFile("file")
	if err != nil {
		errs := fieldErrors{}
		errs.add("file", "choose a file to upload")
		return s.renderUploads(c, user, errs)
	}

	src, err := fh.Open()
	if err != nil {
		return apperrors.InternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	_, saveErr := s.app.SaveUpload(ctx, user, app.IncomingUpload{
		OriginalName: fh.Filename,
		ContentType:  fh.Header.Get("Content-Type"),
		Size:         fh.Size,
		Content:      src,
	})
	return s.finishChange(c, saveErr, "File uploaded.", uploadsPath, func(errs fieldErrors) error {
		return s.renderUploads(c, user, errs)
	})
}

func (s *Server) handleUploadDelete(c echo.Context) error {
	user, err := s.principal(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	fileID, err := strconv.ParseInt(c.QueryParam("file_id"), 10, 64)
	if err != nil {
		return apperrors.ValidationError("invalid file_id").WithField("file_id", c.QueryParam("file_id"))
	}

	switch err := s.app.DeleteUpload(ctx, user, fileID); {
	case err == nil:
		s.addFlash(c, flashSuccess, "File deleted.")
	case errors.Is(err, app.ErrUploadForbidden):
		s.addFlash(c, flashDanger, "You are not allowed to delete this file.")
	case errors.Is(err, domain.ErrFileNotFound), errors.Is(err, domain.ErrUserNotFound):
		return apperrors.NotFoundError("file not found").WithField("file_id", fileID)
	default:
		// Storage or record failure: the record stays, the user retries.
		slog.ErrorContext(ctx, "File deletion failed", "file_id", fileID, "error", err)
		s.addFlash(c, flashDanger, "Could not delete the file. Please try again.")
	}

	return s.redirect(c, uploadsPath)
}

func (s *Server) renderUploads(c echo.Context, user *domain.User, errs fieldErrors) error {
	files, err := s.app.ListUploads(c.Request().Context(), user.ID)
	if err != nil {
		return apperrors.InternalError("failed to list uploads", err).WithField("user_id", user.ID)
	}

	data := map[string]any{
		"Username":   user.Username,
		"HasDiscord": user.DiscordID != "",
		"Files":      files,
		"Errors":     errs,
		"Flashes":    s.popFlashes(c),
		"CSRFToken":  c.Get("csrf"),
	}
	return s.renderTemplate(c, "user_uploads.html", data)
}
