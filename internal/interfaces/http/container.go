package http

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/customerly-inc/customerly/internal/infrastructure/auth"
	"github.com/customerly-inc/customerly/internal/infrastructure/cache"
	"github.com/customerly-inc/customerly/internal/infrastructure/config"
	"github.com/customerly-inc/customerly/internal/infrastructure/metrics"
	"github.com/customerly-inc/customerly/internal/infrastructure/permission"
	"github.com/customerly-inc/customerly/internal/infrastructure/pubsub"
	"github.com/customerly-inc/customerly/internal/infrastructure/ratelimit"
	"github.com/customerly-inc/customerly/internal/infrastructure/scheduler"
	"github.com/customerly-inc/customerly/internal/infrastructure/services"
	"github.com/customerly-inc/customerly/internal/infrastructure/storage"
	"github.com/customerly-inc/customerly/internal/interfaces/http/middleware"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

// Container holds the infrastructure components, repositories, use cases,
// handlers and background services of one API process, and stops them in
// order on Shutdown.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	registry *prometheus.Registry
	metrics  *metrics.Metrics

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter

	// Auth and storage
	jwtSvc    *auth.JWTService
	blobJWT   *auth.JWTService
	enforcer  *permission.Enforcer
	directory *cache.DirectoryCache
	blobs     *storage.LocalStore
	signer    *storage.URLSigner

	// Realtime
	hub            *services.TicketHub
	feed           *pubsub.RedisTicketFeed
	handshakeLimit *ratelimit.IPLimiterPool
	feedCancel     context.CancelFunc
	feedCancelMu   sync.Mutex
	feedDone       chan struct{}

	// Background jobs
	schedulerManager *scheduler.SchedulerManager
}

// NewContainer wires every component against db. A nil redisClient makes
// the container dial the configured Redis itself.
func NewContainer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
		redis:  redisClient,
	}

	// Section 1: Infrastructure - Redis, Metrics, Repositories, Auth, Storage
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Realtime - Ticket Hub, Redis Change Feed
	c.initRealtime()

	// Section 3: Tickets - Messages, Assignment, Lifecycle
	c.initTickets()

	// Section 4: Attachments - Upload, Signed Links, Downloads
	if err := c.initAttachments(); err != nil {
		return nil, err
	}

	// Section 5: Directory - Users, Teams, Agents
	c.initDirectory()

	// Section 6: Background jobs - SLA scan, Orphan sweep
	if err := c.initScheduler(); err != nil {
		return nil, err
	}

	return c, nil
}

// Engine exposes the gin engine, mainly for tests.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}
