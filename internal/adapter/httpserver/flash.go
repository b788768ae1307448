package httpserver

import (
	"encoding/gob"
	"log/slog"

	"github.com/labstack/echo/v4"
)

// Flash categories, matched by the templates for styling.
const (
	flashSuccess = "success"
	flashDanger  = "danger"
	flashInfo    = "info"
)

type flashMessage struct {
	Category string
	Message  string
}

func init() {
	gob.Register(flashMessage{})
}

// addFlash queues a one-shot notification for the next rendered page.
func (s *Server) addFlash(c echo.Context, category, message string) {
	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		slog.Warn("Failed to get session for flash", "error", err)
		return
	}
	session.AddFlash(flashMessage{Category: category, Message: message})
	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		slog.Warn("Failed to save flash", "error", err)
	}
}

// popFlashes drains queued notifications. Must be called before the response
// body is written, since draining rewrites the session cookie.
func (s *Server) popFlashes(c echo.Context) []flashMessage {
	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		return nil
	}

	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		slog.Warn("Failed to save session after draining flashes", "error", err)
	}

	flashes := make([]flashMessage, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(flashMessage); ok {
			flashes = append(flashes, msg)
		}
	}
	return flashes
}
