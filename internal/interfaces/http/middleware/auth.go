package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/partnerbridge/backend/internal/interfaces/http/dto"
)

// BearerAuthConfig holds static token authentication configuration
type BearerAuthConfig struct {
	// Token is the shared API token clients must present
	Token string
	// SkipPaths are paths that bypass authentication (e.g. health checks)
	SkipPaths []string
}

// BearerAuth returns a middleware that authenticates requests with a static
// bearer token. A missing or malformed Authorization header yields 401; a
// well-formed header with the wrong token yields 403.
func BearerAuth(cfg BearerAuthConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			abortAuth(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "missing bearer token")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			abortAuth(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "invalid authorization header format")
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(cfg.Token)) != 1 {
			abortAuth(c, http.StatusForbidden, dto.ErrCodeForbidden, "invalid token")
			return
		}

		c.Next()
	}
}

func abortAuth(c *gin.Context, status int, code, message string) {
	requestID := c.GetString("request_id")
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, requestID))
}
