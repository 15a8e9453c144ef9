package server

import (
	"net/http"
	"time"

	ginhandler "user-store-service/internal/adapter/gin/handler"
	"user-store-service/internal/adapter/gin/middleware"
	ginrouter "user-store-service/internal/adapter/gin/router"

	"go.uber.org/zap"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(
	handler *ginhandler.UserHandler,
	authz middleware.Authorizer,
	rateLimiter *middleware.RateLimiter,
	addr string,
	l *zap.Logger,
) *http.Server {
	// Setup Gin router with all middleware and routes
	router := ginrouter.SetupRouter(handler, authz, rateLimiter, l)

	l.Info("Gin REST API configured", zap.String("address", addr))

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
