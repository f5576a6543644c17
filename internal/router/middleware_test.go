package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadline/shopapi/pkg/auth"
	"github.com/threadline/shopapi/pkg/models"
)

const testSecret = "middleware-test-secret"

func newGuardedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/me", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": currentClaims(c).Email})
	})
	r.GET("/admin", AuthMiddleware(), AdminMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	r := newGuardedRouter(t)
	w := doRequest(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	r := newGuardedRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	r := newGuardedRouter(t)
	w := doRequest(r, "/me", "not-a-jwt")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthMiddlewareWrongSecret(t *testing.T) {
	r := newGuardedRouter(t)
	token, err := auth.GenerateToken("some-other-secret", "64b0c1d2e3f4a5b6c7d8e9f0", "a@b.com", models.RoleUser)
	require.NoError(t, err)

	w := doRequest(r, "/me", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	r := newGuardedRouter(t)
	token, err := auth.GenerateToken(testSecret, "64b0c1d2e3f4a5b6c7d8e9f0", "a@b.com", models.RoleUser)
	require.NoError(t, err)

	w := doRequest(r, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@b.com")
}

func TestAdminMiddlewareRejectsUserRole(t *testing.T) {
	r := newGuardedRouter(t)
	token, err := auth.GenerateToken(testSecret, "64b0c1d2e3f4a5b6c7d8e9f0", "a@b.com", models.RoleUser)
	require.NoError(t, err)

	w := doRequest(r, "/admin", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminMiddlewareAllowsAdminRole(t *testing.T) {
	r := newGuardedRouter(t)
	token, err := auth.GenerateToken(testSecret, "64b0c1d2e3f4a5b6c7d8e9f0", "a@b.com", models.RoleAdmin)
	require.NoError(t, err)

	w := doRequest(r, "/admin", token)
	assert.Equal(t, http.StatusOK, w.Code)
}
