package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS header values sent on every response
const (
	corsAllowOrigin  = "*"
	corsAllowMethods = "GET, POST, PUT, DELETE"
	corsAllowHeaders = "Content-Type, Authorization"
)

// CORS sets the cross-origin headers and answers preflight requests.
// An OPTIONS request stops here with 200 and an empty body, before authentication.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", corsAllowOrigin)
		c.Header("Access-Control-Allow-Methods", corsAllowMethods)
		c.Header("Access-Control-Allow-Headers", corsAllowHeaders)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}
