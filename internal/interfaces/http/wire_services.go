package http

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	fraudApp "github.com/videocc/videocc/internal/application/fraud"
	memberApp "github.com/videocc/videocc/internal/application/member"
	"github.com/videocc/videocc/internal/application/messaging"
	purchaseUsecases "github.com/videocc/videocc/internal/application/purchase/usecases"
	quotaApp "github.com/videocc/videocc/internal/application/quota"
	reserveUsecases "github.com/videocc/videocc/internal/application/reserve/usecases"
	"github.com/videocc/videocc/internal/application/videocall"
	"github.com/videocc/videocc/internal/domain/fraud"
	"github.com/videocc/videocc/internal/domain/reserve"
	"github.com/videocc/videocc/internal/infrastructure/auth"
	"github.com/videocc/videocc/internal/infrastructure/config"
	"github.com/videocc/videocc/internal/infrastructure/fraudstore"
	"github.com/videocc/videocc/internal/infrastructure/permission"
	"github.com/videocc/videocc/internal/infrastructure/ratelimit"
	"github.com/videocc/videocc/internal/infrastructure/reservestore"
	"github.com/videocc/videocc/internal/infrastructure/scheduler"
	"github.com/videocc/videocc/internal/interfaces/http/middleware"
	sharedConfig "github.com/videocc/videocc/internal/shared/config"
	"github.com/videocc/videocc/internal/shared/logger"
)

const (
	storeMemory = "memory"
	storeRedis  = "redis"

	redisPingTimeout = 5 * time.Second
)

// ============================================================
// Section 1: Infrastructure - Redis, Repositories, Stores
// ============================================================

func (c *Container) initInfrastructure() error {
	cfg := c.cfg

	if needsRedis(cfg) {
		client, err := initRedis(cfg, c.log)
		if err != nil {
			// The rate limiter fails open; the guard stores cannot.
			if cfg.Guard.Fraud.Store == storeRedis || cfg.Guard.Reserve.Store == storeRedis {
				return err
			}
			c.log.Warnw("redis unavailable, purchase rate limiting disabled", "error", err)
		} else {
			c.redis = client
		}
	}

	c.repos = newRepositories(c.db, c.log)

	fraudStore, err := newFraudStore(cfg.Guard.Fraud.Store, c.redis)
	if err != nil {
		return err
	}
	c.fraudStore = fraudStore

	ledger, err := newReserveLedger(cfg.Guard.Reserve, c.redis)
	if err != nil {
		return err
	}
	c.reserveLedger = ledger

	c.log.Infow("guard stores initialized",
		"fraud_store", storeName(cfg.Guard.Fraud.Store),
		"reserve_store", storeName(cfg.Guard.Reserve.Store),
	)
	return nil
}

func needsRedis(cfg *config.Config) bool {
	return cfg.RateLimit.Enabled ||
		cfg.Guard.Fraud.Store == storeRedis ||
		cfg.Guard.Reserve.Store == storeRedis
}

func storeName(s string) string {
	if s == "" {
		return storeMemory
	}
	return s
}

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.GetAddr(), err)
	}
	log.Infow("Redis connection established successfully", "addr", cfg.Redis.GetAddr())
	return client, nil
}

func newFraudStore(kind string, client *redis.Client) (fraud.HistoryStore, error) {
	switch storeName(kind) {
	case storeMemory:
		return fraudstore.NewMemoryStore(), nil
	case storeRedis:
		if client == nil {
			return nil, fmt.Errorf("fraud store %q requires redis", kind)
		}
		return fraudstore.NewRedisStore(client, fraudstore.DefaultKeyPrefix), nil
	default:
		return nil, fmt.Errorf("unknown fraud store %q", kind)
	}
}

func newReserveLedger(cfg sharedConfig.ReserveConfig, client *redis.Client) (reserve.Ledger, error) {
	switch storeName(cfg.Store) {
	case storeMemory:
		return reservestore.NewMemoryLedger(cfg.InitialBalance), nil
	case storeRedis:
		if client == nil {
			return nil, fmt.Errorf("reserve store %q requires redis", cfg.Store)
		}
		return reservestore.NewRedisLedger(client, cfg.RedisKey, cfg.InitialBalance), nil
	default:
		return nil, fmt.Errorf("unknown reserve store %q", cfg.Store)
	}
}

// ============================================================
// Section 2: Services and use cases
// ============================================================

func (c *Container) initServices() {
	g := c.guard
	repos := c.repos

	quotaLedger := quotaApp.NewLedger(
		repos.memberRepo, repos.dailyCounterRepo, repos.txManager,
		g.Policy, g.Limits, c.clock, c.location, c.log.Named("quota"),
	)

	var trackerOpts []fraudApp.Option
	if storeName(c.cfg.Guard.Fraud.Store) == storeRedis {
		trackerOpts = append(trackerOpts, fraudApp.WithAdmissionLock(
			fraudstore.NewRedisAdmissionLock(c.redis, fraudstore.DefaultKeyPrefix, 0, 0),
		))
	}
	c.tracker = fraudApp.NewTracker(c.fraudStore, g.Fraud, g.Thresholds, c.clock, c.log.Named("fraud"), trackerOpts...)

	purchaseLog := c.log.Named("purchase")
	reserveLog := c.log.Named("reserve")

	c.ucs = &allUseCases{
		quotaLedger: quotaLedger,
		messagingService: messaging.NewService(
			repos.memberRepo, repos.conversationRepo, repos.messageRepo, quotaLedger,
			repos.txManager, c.locks, g.Policy, c.clock, c.log.Named("messaging"),
		),
		videoCallService: videocall.NewService(
			repos.memberRepo, repos.videoCallRepo, quotaLedger, repos.txManager, c.locks,
			g.Policy, g.CostPerMinute, g.Chain, c.clock, c.log.Named("videocall"),
		),
		purchaseVIPUC:    purchaseUsecases.NewPurchaseVIPUseCase(c.tracker, c.reserveLedger, repos.purchaseRequestRepo, purchaseLog),
		purchaseCoinsUC:  purchaseUsecases.NewPurchaseCoinsUseCase(c.tracker, c.reserveLedger, repos.purchaseRequestRepo, purchaseLog),
		purchaseBundleUC: purchaseUsecases.NewPurchaseBundleUseCase(c.tracker, c.reserveLedger, repos.purchaseRequestRepo, purchaseLog),
		getBalanceUC:     reserveUsecases.NewGetBalanceUseCase(c.reserveLedger, reserveLog),
		adjustBalanceUC:  reserveUsecases.NewAdjustBalanceUseCase(c.reserveLedger, reserveLog),
		expireVIPsUC:     memberApp.NewExpireVIPsUseCase(repos.memberRepo, c.clock, c.log.Named("member")),
	}
}

// ============================================================
// Section 3: Auth, permissions, rate limiting
// ============================================================

func (c *Container) initMiddlewares() error {
	cfg := c.cfg

	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer, cfg.Auth.JWT.AccessExpMinutes, c.clock)
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.log)

	enforcer, err := permission.NewEnforcer(c.db, c.log)
	if err != nil {
		return err
	}
	if err := enforcer.SeedDefaults(); err != nil {
		return fmt.Errorf("failed to seed default policies: %w", err)
	}
	c.enforcer = enforcer
	c.permissionMiddleware = middleware.NewPermissionMiddleware(enforcer, c.log)

	if cfg.RateLimit.Enabled && c.redis != nil {
		c.limiter = ratelimit.NewRedisRateLimiter(c.redis, ratelimit.DefaultKeyPrefix, c.clock)
		c.rateLimiter = middleware.NewRateLimiter(
			c.limiter, "purchase", cfg.RateLimit.PurchaseLimit, cfg.RateLimit.Window(), c.log,
		)
	}
	return nil
}

// ============================================================
// Section 5: Scheduled jobs
// ============================================================

func (c *Container) initScheduler() error {
	manager, err := scheduler.NewSchedulerManager(c.log.Named("scheduler"))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	jobs := c.cfg.Guard.Jobs
	if err := manager.RegisterGuardJobs(
		jobs.PruneHistoryCron, scheduler.BatchJobFunc(c.tracker.Prune),
		jobs.ExpireVIPCron, c.ucs.expireVIPsUC,
	); err != nil {
		return fmt.Errorf("failed to register guard jobs: %w", err)
	}

	c.schedulerManager = manager
	return nil
}

// StartScheduler starts the maintenance jobs.
func (c *Container) StartScheduler() {
	c.schedulerManager.Start()
}
