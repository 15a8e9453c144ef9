package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	pkgerrors "user-store-service/pkg/errors"
	"user-store-service/pkg/logger"
)

// Authorizer decides whether an Authorization header value is acceptable
type Authorizer interface {
	IsAuthorized(header string) bool
}

// Auth rejects requests whose Authorization header the authorizer does not accept.
// It runs before routing, so unknown paths and methods also answer 401.
func Auth(authz Authorizer, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authz.IsAuthorized(c.GetHeader("Authorization")) {
			logger.WithContext(c.Request.Context(), log).Warn("unauthorized request",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": pkgerrors.ErrUnauthorized.Message,
			})
			return
		}

		c.Next()
	}
}
