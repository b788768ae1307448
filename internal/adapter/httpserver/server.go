package httpserver

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/Zert0X/OnyxForum/internal/adapter/metrics"
	"github.com/Zert0X/OnyxForum/internal/app"
	"github.com/Zert0X/OnyxForum/internal/domain"
	"github.com/Zert0X/OnyxForum/internal/platform/config"
	"github.com/Zert0X/OnyxForum/web"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
)

type appService interface {
	GetUserByID(ctx context.Context, userID int64) (*domain.User, error)

	ApplySettingsChange(ctx context.Context, user *domain.User, change app.SettingsChange) error
	ApplyPasswordChange(ctx context.Context, user *domain.User, change app.PasswordChange) error
	ApplyEmailChange(ctx context.Context, user *domain.User, change app.EmailChange) error
	ApplyDetailsChange(ctx context.Context, user *domain.User, change app.DetailsChange) error

	ListUploads(ctx context.Context, userID int64) ([]domain.UploadedFile, error)
	SaveUpload(ctx context.Context, owner *domain.User, upload app.IncomingUpload) (*domain.UploadedFile, error)
	DeleteUpload(ctx context.Context, actor *domain.User, fileID int64) error

	GenerateLinkToken(ctx context.Context, user *domain.User) (string, error)

	ListTopicsByAuthor(ctx context.Context, authorID int64, page domain.Page) (*domain.TopicPage, error)
	ListPostsByAuthor(ctx context.Context, authorID int64, page domain.Page) (*domain.PostPage, error)
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	app appService

	templates    *template.Template
	sessionStore *sessions.CookieStore

	httpMetrics    *metrics.HTTPMetrics
	metricsHandler http.Handler
	healthChecks   []HealthCheck
	startTime      time.Time
}

func NewServer(cfg *config.Config, app appService, opts ...func(*Server)) (*Server, error) {
	templates, err := template.New("").Funcs(template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}).ParseFS(web.TemplateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		config:       cfg,
		app:          app,
		templates:    templates,
		sessionStore: setupSessionStore(cfg),
		startTime:    time.Now(),
	}

	for _, opt := range opts {
		opt(srv)
	}

	srv.registerRoutes()

	return srv, nil
}

// WithMetrics attaches the request-metrics middleware and the /metrics endpoint.
func WithMetrics(m *metrics.HTTPMetrics, handler http.Handler) func(*Server) {
	return func(s *Server) {
		s.httpMetrics = m
		s.metricsHandler = handler
	}
}

func WithHealthChecks(checks ...HealthCheck) func(*Server) {
	return func(s *Server) {
		s.healthChecks = checks
	}
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// Session keys
const (
	sessionName      = "onyxforum-session"
	sessionKeyUserID = "user_id"
)

func (s *Server) renderTemplate(c echo.Context, name string, data any) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("Template execution failed", "path", c.Request().URL.Path, "error", err)
		if err := c.String(http.StatusInternalServerError, "Failed to render page"); err != nil {
			return fmt.Errorf("failed to send error response: %w", err)
		}
		return nil
	}
	if err := c.HTMLBlob(http.StatusOK, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send HTML response: %w", err)
	}
	return nil
}

func (s *Server) redirect(c echo.Context, target string) error {
	if err := c.Redirect(http.StatusFound, target); err != nil {
		return fmt.Errorf("failed to redirect: %w", err)
	}
	return nil
}

// currentUser returns the principal loaded by requireAuth, or nil when the
// handler runs outside an authenticated route.
func (s *Server) currentUser(c echo.Context) *domain.User {
	user, _ := c.Get("user").(*domain.User)
	return user
}

func setupSessionStore(cfg *config.Config) *sessions.CookieStore {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.AppEnv == "production",
		SameSite: http.SameSiteLaxMode,
	}
	return sessionStore
}
