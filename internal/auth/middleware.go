package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const principalKey = "auth.principal"

// Middleware is the authentication gate in front of every protected route.
type Middleware struct {
	secret     []byte
	cookieName string
	logger     *zap.Logger
}

// NewMiddleware creates the authentication middleware.
func NewMiddleware(secret []byte, cookieName string, logger *zap.Logger) *Middleware {
	return &Middleware{
		secret:     secret,
		cookieName: cookieName,
		logger:     logger,
	}
}

// RequireAuth verifies the bearer token and attaches the resulting principal
// to the request context. Requests without a token or with a token that fails
// verification are rejected with 401 before any handler runs.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Access token is required",
			})
			return
		}

		principal, err := VerifyToken(token, m.secret)
		if err != nil {
			m.logger.Warn("Authentication failed",
				zap.String("path", c.Request.URL.Path),
				zap.String("remote_addr", c.Request.RemoteAddr),
				zap.Error(err))

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Invalid or expired token",
			})
			return
		}

		c.Set(principalKey, principal)

		m.logger.Info("User authenticated",
			zap.Int64("user_id", principal.ID),
			zap.String("email", principal.Email))

		c.Next()
	}
}

// extractToken reads the token cookie first, falling back to the
// Authorization header in Bearer format.
func (m *Middleware) extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	return ""
}

// PrincipalFrom returns the principal attached by RequireAuth.
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
