package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swipeNews/business/bandit"
	"swipeNews/pkg/utils"
)

const testSecret = "test-secret"

func newAuthEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	e.Use(Trace())
	g := e.Group("/user/:id", AuthMiddleware(testSecret), SelfOnly())
	g.GET("/preferences", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("user_id").(string))
	})
	return e
}

func request(e *echo.Echo, target, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuth_SelfOnly(t *testing.T) {
	e := newAuthEcho()
	token, err := utils.GenerateJWT("alice", testSecret, time.Hour)
	require.NoError(t, err)

	rec := request(e, "/user/alice/preferences", "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())

	rec = request(e, "/user/bob/preferences", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuth_Rejections(t *testing.T) {
	e := newAuthEcho()

	assert.Equal(t, http.StatusUnauthorized, request(e, "/user/alice/preferences", "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(e, "/user/alice/preferences", "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, request(e, "/user/alice/preferences", "Bearer abc").Code)

	other, err := utils.GenerateJWT("alice", "other-secret", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, request(e, "/user/alice/preferences", "Bearer "+other).Code)
}

func TestTrace_PropagatesRequestID(t *testing.T) {
	e := echo.New()
	e.Use(Trace())
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, bandit.TraceIDFromContext(c.Request().Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Body.String())
	assert.Equal(t, "req-123", rec.Header().Get(echo.HeaderXRequestID))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Len(t, rec.Body.String(), 36)
	assert.Equal(t, rec.Body.String(), rec.Header().Get(echo.HeaderXRequestID))
}

func TestErrorHandler_NotFound(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	e.Use(Metrics())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"Not Found"`)
}
