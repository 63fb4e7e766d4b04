package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testSecret = []byte("middleware-secret")

func setupProtectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	m := NewMiddleware(testSecret, "token", zap.NewNop())

	router.GET("/whoami", m.RequireAuth(), func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "principal missing"})
			return
		}
		c.JSON(http.StatusOK, p)
	})

	return router
}

func TestRequireAuth_MissingToken(t *testing.T) {
	router := setupProtectedRouter()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Unauthorized", body["error"])
	assert.Equal(t, "Access token is required", body["message"])
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	router := setupProtectedRouter()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "not-a-jwt"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Invalid or expired token", body["message"])
}

func TestRequireAuth_CookieToken(t *testing.T) {
	router := setupProtectedRouter()

	token, err := SignToken(Principal{ID: 9, Email: "nine@example.com", Role: "user"}, testSecret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var p Principal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, int64(9), p.ID)
	assert.Equal(t, "nine@example.com", p.Email)
}

func TestRequireAuth_BearerHeaderFallback(t *testing.T) {
	router := setupProtectedRouter()

	token, err := SignToken(Principal{ID: 3, Email: "three@example.com", Role: "admin"}, testSecret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var p Principal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "admin", p.Role)
}
