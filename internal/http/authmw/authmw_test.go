package authmw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"docsyncgo/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(tokens *auth.Tokens) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/protected", RequireAuth(tokens), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})
	return engine
}

func TestRequireAuthAcceptsBearerHeader(t *testing.T) {
	tokens := auth.NewTokens("unit-test-secret")
	token, err := tokens.Issue("user-1")
	require.NoError(t, err)

	router := newTestRouter(tokens)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", w.Body.String())
}

func TestRequireAuthAcceptsQueryToken(t *testing.T) {
	tokens := auth.NewTokens("unit-test-secret")
	token, err := tokens.Issue("user-1")
	require.NoError(t, err)

	router := newTestRouter(tokens)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthRejectsMissingAndBadTokens(t *testing.T) {
	tokens := auth.NewTokens("unit-test-secret")
	router := newTestRouter(tokens)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("x-auth-token", "garbage")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
