package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recetas/backend/internal/types"
)

const (
	// SessionIDKey is the gin context key holding the authenticated session id
	SessionIDKey = "session_id"

	// SessionTokenHeader carries a renewed token on session responses. Clients
	// replace their stored token with it.
	SessionTokenHeader = "X-Session-Token"
)

// TokenValidator resolves a bearer token to its session claims
type TokenValidator interface {
	ValidateToken(token string) (*types.SessionClaims, error)
}

// AuthMiddleware requires "Authorization: Bearer <token>" and stores the
// token's session id under SessionIDKey.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err})
			return
		}

		claims, verr := validator.ValidateToken(token)
		if verr != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": verr.Error()})
			return
		}

		c.Set(SessionIDKey, claims.SessionID)
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header value, or
// returns the error message to answer with.
func bearerToken(header string) (string, string) {
	if header == "" {
		return "", "missing authorization header"
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if !ok || token == "" || strings.ContainsRune(token, ' ') {
		return "", "invalid authorization header format"
	}
	return token, ""
}
