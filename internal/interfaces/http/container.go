package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	fraudApp "github.com/videocc/videocc/internal/application/fraud"
	"github.com/videocc/videocc/internal/domain/fraud"
	"github.com/videocc/videocc/internal/domain/reserve"
	"github.com/videocc/videocc/internal/infrastructure/auth"
	"github.com/videocc/videocc/internal/infrastructure/config"
	"github.com/videocc/videocc/internal/infrastructure/permission"
	"github.com/videocc/videocc/internal/infrastructure/ratelimit"
	"github.com/videocc/videocc/internal/infrastructure/scheduler"
	"github.com/videocc/videocc/internal/interfaces/http/middleware"
	"github.com/videocc/videocc/internal/shared/biztime"
	"github.com/videocc/videocc/internal/shared/keylock"
	"github.com/videocc/videocc/internal/shared/logger"
)

// Container holds all infrastructure components, repositories, use cases,
// handlers and background jobs, and wires them together.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	guard  *config.Guard
	log    logger.Interface
	clock  biztime.Clock
	// location decides where a quota day starts
	location *time.Location
	redis    *redis.Client
	locks    *keylock.Locker

	// Repositories
	repos *repositories

	// Guard state stores
	fraudStore    fraud.HistoryStore
	reserveLedger reserve.Ledger

	// Services and use cases
	tracker *fraudApp.Tracker
	ucs     *allUseCases

	// Handlers
	hdlrs *allHandlers

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimiter          *middleware.RateLimiter

	jwtSvc   *auth.JWTService
	enforcer *permission.Enforcer
	limiter  ratelimit.RateLimiter

	schedulerManager *scheduler.SchedulerManager
}

// NewContainer builds the dependency graph. clock may be nil, in which case
// the wall clock is used.
func NewContainer(db *gorm.DB, cfg *config.Config, clock biztime.Clock, log logger.Interface) (*Container, error) {
	if clock == nil {
		clock = biztime.SystemClock{}
	}

	guard, err := config.ParseGuard(cfg.Guard)
	if err != nil {
		return nil, err
	}

	location, err := biztime.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid server timezone %q: %w", cfg.Server.Timezone, err)
	}

	c := &Container{
		location: location,
		engine:   gin.New(),
		db:       db,
		cfg:      cfg,
		guard:    guard,
		log:      log,
		clock:    clock,
		locks:    keylock.New(),
	}

	// Section 1: Infrastructure - Redis, Repositories, Stores
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Services and use cases
	c.initServices()

	// Section 3: Auth, permissions, rate limiting
	if err := c.initMiddlewares(); err != nil {
		return nil, err
	}

	// Section 4: Handlers
	c.initHandlers()

	// Section 5: Scheduled jobs
	if err := c.initScheduler(); err != nil {
		return nil, err
	}

	return c, nil
}

// WarmFraudHistory replays persisted purchase requests into an in-memory
// fraud store. A shared Redis store is left alone.
func (c *Container) WarmFraudHistory(ctx context.Context) error {
	if c.cfg.Guard.Fraud.Store == storeRedis {
		return nil
	}
	_, err := c.tracker.Warm(ctx, c.repos.purchaseRequestRepo)
	return err
}

// Shutdown stops background jobs and closes the Redis client.
func (c *Container) Shutdown() {
	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			c.log.Errorw("failed to stop scheduler", "error", err)
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Errorw("failed to close redis client", "error", err)
		}
	}
}
