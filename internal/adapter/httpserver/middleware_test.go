package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Zert0X/OnyxForum/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRequireAuth_NoSessionRedirectsToLogin(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	req := httptest.NewRequest(http.MethodGet, "/settings/general", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, 302, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
}

func TestRequireAuth_UnknownUserInvalidatesSession(t *testing.T) {
	mock := &mockAppService{
		getUserByIDFn: func(context.Context, int64) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	srv := newTestServer(t, mock)

	req := httptest.NewRequest(http.MethodGet, "/settings/general", nil)
	setSessionUserID(t, srv, req, 7)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, 302, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
}

func TestRequireAuth_ValidSessionLoadsUser(t *testing.T) {
	user := testUser()
	mock := &mockAppService{
		getUserByIDFn: func(_ context.Context, userID int64) (*domain.User, error) {
			assert.Equal(t, user.ID, userID)
			return user, nil
		},
	}
	srv := newTestServer(t, mock)

	req := httptest.NewRequest(http.MethodGet, "/settings/general", nil)
	setSessionUserID(t, srv, req, user.ID)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "en")
}

func TestErrorHandlingMiddleware_MapsStructuredErrors(t *testing.T) {
	srv := newTestServer(t, &mockAppService{
		getUserByIDFn: func(context.Context, int64) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/user/999", nil)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("999")
	c.Set("user", testUser())

	_ = callHandler(srv.handleProfile, c)
	assert.Equal(t, 404, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}
