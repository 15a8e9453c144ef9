package router

import (
	"user-store-service/internal/adapter/gin/handler"
	"user-store-service/internal/adapter/gin/middleware"
	"user-store-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UsersPath is the only route the service answers
const UsersPath = "/users"

// SetupRouter configures and returns a Gin router with all routes and middleware.
// rateLimiter may be nil.
func SetupRouter(
	userHandler *handler.UserHandler,
	authz middleware.Authorizer,
	rateLimiter *middleware.RateLimiter,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false
	router.HandleMethodNotAllowed = true

	// Global middleware. CORS answers preflight before Auth; Auth runs before
	// route matching so unknown paths and methods are 401 when unauthenticated.
	router.Use(logger.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())
	router.Use(middleware.Auth(authz, log))
	router.Use(rateLimiter.Handler())

	router.GET(UsersPath, userHandler.GetUsers)
	router.POST(UsersPath, userHandler.CreateUser)
	router.PUT(UsersPath, userHandler.UpdateUser)
	router.DELETE(UsersPath, userHandler.DeleteUser)

	router.NoRoute(userHandler.NotFound)
	router.NoMethod(userHandler.MethodNotAllowed)

	return router
}
