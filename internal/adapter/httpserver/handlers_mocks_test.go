package httpserver

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Zert0X/OnyxForum/internal/app"
	"github.com/Zert0X/OnyxForum/internal/domain"
	"github.com/Zert0X/OnyxForum/internal/platform/config"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockAppService struct {
	getUserByIDFn         func(ctx context.Context, userID int64) (*domain.User, error)
	applySettingsChangeFn func(ctx context.Context, user *domain.User, change app.SettingsChange) error
	applyPasswordChangeFn func(ctx context.Context, user *domain.User, change app.PasswordChange) error
	applyEmailChangeFn    func(ctx context.Context, user *domain.User, change app.EmailChange) error
	applyDetailsChangeFn  func(ctx context.Context, user *domain.User, change app.DetailsChange) error
	listUploadsFn         func(ctx context.Context, userID int64) ([]domain.UploadedFile, error)
	saveUploadFn          func(ctx context.Context, owner *domain.User, upload app.IncomingUpload) (*domain.UploadedFile, error)
	deleteUploadFn        func(ctx context.Context, actor *domain.User, fileID int64) error
	generateLinkTokenFn   func(ctx context.Context, user *domain.User) (string, error)
	listTopicsByAuthorFn  func(ctx context.Context, authorID int64, page domain.Page) (*domain.TopicPage, error)
	listPostsByAuthorFn   func(ctx context.Context, authorID int64, page domain.Page) (*domain.PostPage, error)
}

func (m *mockAppService) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockAppService) ApplySettingsChange(ctx context.Context, user *domain.User, change app.SettingsChange) error {
	if m.applySettingsChangeFn != nil {
		return m.applySettingsChangeFn(ctx, user, change)
	}
	return nil
}

func (m *mockAppService) ApplyPasswordChange(ctx context.Context, user *domain.User, change app.PasswordChange) error {
	if m.applyPasswordChangeFn != nil {
		return m.applyPasswordChangeFn(ctx, user, change)
	}
	return nil
}

func (m *mockAppService) ApplyEmailChange(ctx context.Context, user *domain.User, change app.EmailChange) error {
	if m.applyEmailChangeFn != nil {
		return m.applyEmailChangeFn(ctx, user, change)
	}
	return nil
}

func (m *mockAppService) ApplyDetailsChange(ctx context.Context, user *domain.User, change app.DetailsChange) error {
	if m.applyDetailsChangeFn != nil {
		return m.applyDetailsChangeFn(ctx, user, change)
	}
	return nil
}

func (m *mockAppService) ListUploads(ctx context.Context, userID int64) ([]domain.UploadedFile, error) {
	if m.listUploadsFn != nil {
		return m.listUploadsFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockAppService) SaveUpload(ctx context.Context, owner *domain.User, upload app.IncomingUpload) (*domain.UploadedFile, error) {
	if m.saveUploadFn != nil {
		return m.saveUploadFn(ctx, owner, upload)
	}
	return &domain.UploadedFile{ID: 1}, nil
}

func (m *mockAppService) DeleteUpload(ctx context.Context, actor *domain.User, fileID int64) error {
	if m.deleteUploadFn != nil {
		return m.deleteUploadFn(ctx, actor, fileID)
	}
	return nil
}

func (m *mockAppService) GenerateLinkToken(ctx context.Context, user *domain.User) (string, error) {
	if m.generateLinkTokenFn != nil {
		return m.generateLinkTokenFn(ctx, user)
	}
	return "", errors.New("not implemented")
}

func (m *mockAppService) ListTopicsByAuthor(ctx context.Context, authorID int64, page domain.Page) (*domain.TopicPage, error) {
	if m.listTopicsByAuthorFn != nil {
		return m.listTopicsByAuthorFn(ctx, authorID, page)
	}
	return &domain.TopicPage{Number: page.Number, PerPage: page.PerPage}, nil
}

func (m *mockAppService) ListPostsByAuthor(ctx context.Context, authorID int64, page domain.Page) (*domain.PostPage, error) {
	if m.listPostsByAuthorFn != nil {
		return m.listPostsByAuthorFn(ctx, authorID, page)
	}
	return &domain.PostPage{Number: page.Number, PerPage: page.PerPage}, nil
}

// --- Test helpers ---

func newTestServer(t *testing.T, app appService, opts ...func(*Server)) *Server {
	t.Helper()

	tmpl := template.Must(template.New("general_settings.html").Parse(`General {{.Settings.Language}} {{range $f, $msgs := .Errors}}{{$f}}:{{range $msgs}}{{.}};{{end}}{{end}}`))
	template.Must(tmpl.New("change_password.html").Parse(`Password {{range $f, $msgs := .Errors}}{{$f}};{{end}}`))
	template.Must(tmpl.New("change_email.html").Parse(`Email {{.Email}} {{range $f, $msgs := .Errors}}{{$f}};{{end}}`))
	template.Must(tmpl.New("change_user_details.html").Parse(`Details {{.Details.Location}} {{range $f, $msgs := .Errors}}{{$f}};{{end}}`))
	template.Must(tmpl.New("user_uploads.html").Parse(`Uploads {{len .Files}} {{range $f, $msgs := .Errors}}{{$f}};{{end}}`))
	template.Must(tmpl.New("profile.html").Parse(`Profile {{.Username}}`))
	template.Must(tmpl.New("all_posts.html").Parse(`Posts {{.Username}}`))
	template.Must(tmpl.New("all_topics.html").Parse(`Topics {{.Username}}`))

	store := sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!!"))
	store.Options = &sessions.Options{
		Path:   "/",
		MaxAge: 3600,
	}

	e := echo.New()

	srv := &Server{
		echo: e,
		config: &config.Config{
			LoginURL:      "/auth/login",
			SessionMaxAge: time.Hour,
		},
		app:          app,
		sessionStore: store,
		templates:    tmpl,
		startTime:    time.Now(),
	}

	for _, opt := range opts {
		opt(srv)
	}

	srv.registerRoutes()

	return srv
}

// callHandler wraps a handler with error middleware, matching production behavior
func callHandler(handler echo.HandlerFunc, c echo.Context) error {
	return ErrorHandlingMiddleware()(handler)(c)
}

func testUser() *domain.User {
	return &domain.User{
		ID:        7,
		Username:  "margaret",
		Email:     "margaret@example.com",
		DiscordID: "100200300",
		Settings: domain.UserSettings{
			Language:      "en",
			Theme:         "light",
			PostsPerPage:  20,
			TopicsPerPage: 10,
		},
	}
}

func setSessionUserID(t *testing.T, srv *Server, req *http.Request, userID int64) {
	t.Helper()

	seed := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	session, err := srv.sessionStore.Get(seed, sessionName)
	require.NoError(t, err)
	session.Values[sessionKeyUserID] = userID
	require.NoError(t, session.Save(seed, rec))

	req.Header.Set("Cookie", rec.Header().Get("Set-Cookie"))
}
