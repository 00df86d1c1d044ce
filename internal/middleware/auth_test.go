package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beightone/marykay.giftcard-management/internal/middleware"
)

func newIdentityRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.AuthorIdentityMiddleware())
	r.GET("/whoami", func(c *gin.Context) {
		email, _ := middleware.GetAuthorEmailFromContext(c)
		c.String(http.StatusOK, email)
	})
	return r
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	// The middleware never verifies the signature, any key works here.
	signed, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}

func TestAuthorIdentity_FromCookieHeader(t *testing.T) {
	r := newIdentityRouter()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("VtexIdclientAutCookie", signToken(t, jwt.MapClaims{"sub": "admin@example.com"}))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "admin@example.com", w.Body.String())
}

func TestAuthorIdentity_EmailClaimFallback(t *testing.T) {
	r := newIdentityRouter()

	// sub is an opaque id, the email claim carries the identity.
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("VtexIdclientAutCookie", signToken(t, jwt.MapClaims{
		"sub":   "user-42",
		"email": "admin@example.com",
	}))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "admin@example.com", w.Body.String())
}

func TestAuthorIdentity_BearerHeader(t *testing.T) {
	r := newIdentityRouter()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{"sub": "admin@example.com"}))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "admin@example.com", w.Body.String())
}

func TestAuthorIdentity_NoTokenUsesPlaceholder(t *testing.T) {
	r := newIdentityRouter()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "unknown@vtex.com", w.Body.String())
}

func TestAuthorIdentity_GarbageTokenUsesPlaceholder(t *testing.T) {
	r := newIdentityRouter()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("VtexIdclientAutCookie", "not-a-jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "unknown@vtex.com", w.Body.String())
}
