package di

import (
	"context"
	"errors"
	"fmt"

	"user-store-service/cmd/api/infrastructure"
	ginhandler "user-store-service/internal/adapter/gin/handler"
	"user-store-service/internal/adapter/gin/middleware"
	"user-store-service/internal/adapter/repository/memory"
	"user-store-service/internal/config"
	"user-store-service/internal/usecase/user"
	redisclient "user-store-service/pkg/redis"
	"user-store-service/pkg/security"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB            // nil for the file store
	RedisClient *redisclient.Client // nil when rate limiting is disabled
	Store       *memory.UserStore
	UserUC      user.Usecase
	Guard       *security.BearerGuard
	RateLimiter *middleware.RateLimiter
	GinHandler  *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (_ *Container, err error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}
	// Release what was opened if a later step fails
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	// Initialize database for the SQL store drivers
	if infrastructure.UsesDatabase(cfg) {
		c.DB, err = infrastructure.NewDatabase(cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	// Initialize persistence and load the collection
	snap, err := infrastructure.NewSnapshotter(cfg, c.DB, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store backend: %w", err)
	}
	c.Store, err = memory.NewUserStore(ctx, snap, l)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	// Initialize use case
	c.UserUC = user.New(c.Store, l)

	c.Guard = security.NewBearerGuard(cfg.App.AuthToken)

	// Initialize Redis client and rate limiter
	if cfg.RateLimit.Enabled {
		c.RedisClient, err = infrastructure.NewRedisClient(ctx, cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		c.RateLimiter = middleware.NewRateLimiter(
			c.RedisClient.Client,
			middleware.RateLimiterConfig{
				RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
				BurstCapacity:     cfg.RateLimit.BurstCapacity,
				Enabled:           cfg.RateLimit.Enabled,
			},
			l,
		)
	}

	// Initialize Gin handler
	c.GinHandler = ginhandler.NewUserHandler(c.UserUC, l)

	return c, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
