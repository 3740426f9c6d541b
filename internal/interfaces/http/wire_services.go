package http

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	attachmentUsecases "github.com/customerly-inc/customerly/internal/application/attachment/usecases"
	directoryApp "github.com/customerly-inc/customerly/internal/application/directory"
	ticketUsecases "github.com/customerly-inc/customerly/internal/application/ticket/usecases"
	"github.com/customerly-inc/customerly/internal/infrastructure/auth"
	"github.com/customerly-inc/customerly/internal/infrastructure/cache"
	"github.com/customerly-inc/customerly/internal/infrastructure/config"
	"github.com/customerly-inc/customerly/internal/infrastructure/email"
	"github.com/customerly-inc/customerly/internal/infrastructure/metrics"
	"github.com/customerly-inc/customerly/internal/infrastructure/permission"
	"github.com/customerly-inc/customerly/internal/infrastructure/pubsub"
	"github.com/customerly-inc/customerly/internal/infrastructure/ratelimit"
	"github.com/customerly-inc/customerly/internal/infrastructure/scheduler"
	"github.com/customerly-inc/customerly/internal/infrastructure/services"
	"github.com/customerly-inc/customerly/internal/infrastructure/storage"
	attachmentHandlers "github.com/customerly-inc/customerly/internal/interfaces/http/handlers/attachment"
	commonHandlers "github.com/customerly-inc/customerly/internal/interfaces/http/handlers/common"
	directoryHandlers "github.com/customerly-inc/customerly/internal/interfaces/http/handlers/directory"
	realtimeHandlers "github.com/customerly-inc/customerly/internal/interfaces/http/handlers/realtime"
	ticketHandlers "github.com/customerly-inc/customerly/internal/interfaces/http/handlers/ticket"
	"github.com/customerly-inc/customerly/internal/interfaces/http/middleware"
	"github.com/customerly-inc/customerly/internal/shared/logger"
	"github.com/customerly-inc/customerly/internal/shared/services/markdown"
)

const directoryCacheTTL = 30 * time.Second

// ============================================================
// Section 1: Infrastructure - Redis, Metrics, Repositories, Auth, Storage
// ============================================================

func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	if c.redis == nil {
		rdb, err := initRedis(cfg, log)
		if err != nil {
			return err
		}
		c.redis = rdb
	}

	c.registry = prometheus.NewRegistry()
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.metrics = metrics.New(c.registry)

	c.repos = newRepositories(c.db, log)
	c.directory = cache.NewDirectoryCache(c.repos.userRepo, c.repos.teamRepo, c.repos.agentRepo, directoryCacheTTL, log)

	c.jwtSvc = auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpMinutes)
	// Download tokens use a separate secret from access tokens.
	c.blobJWT = auth.NewJWTService(cfg.Storage.URLSecret, cfg.JWT.AccessExpMinutes)

	enforcer, err := permission.NewEnforcer(c.db, log)
	if err != nil {
		return fmt.Errorf("failed to create permission enforcer: %w", err)
	}
	if err := enforcer.SeedDefaultPolicies(); err != nil {
		return fmt.Errorf("failed to seed permission policies: %w", err)
	}
	c.enforcer = enforcer

	blobs, err := storage.NewLocalStore(cfg.Storage.Root, c.metrics, log)
	if err != nil {
		return fmt.Errorf("failed to open attachment storage: %w", err)
	}
	c.blobs = blobs
	c.signer = storage.NewURLSigner(c.blobJWT, cfg.Server.BaseURL+storage.FilesRoute)

	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, log)
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.NewRedisRateLimiter(c.redis, ratelimit.Config{
			Limit:  cfg.RateLimit.Limit,
			Window: time.Duration(cfg.RateLimit.Window) * time.Second,
		})
		c.rateLimiter = middleware.NewRateLimiter(limiter, "api", log)
	}

	c.ucs = &allUseCases{}
	c.hdlrs = &allHandlers{}
	return nil
}

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.GetAddr(), err)
	}
	log.Infow("Redis connection established successfully")

	return redisClient, nil
}

// ============================================================
// Section 2: Realtime - Ticket Hub, Redis Change Feed
// ============================================================

func (c *Container) initRealtime() {
	cfg := c.cfg
	log := c.log

	c.ucs.ticketAccess = ticketUsecases.NewTicketAccess(c.repos.ticketRepo)
	c.hub = services.NewTicketHub(c.ucs.ticketAccess, c.metrics, services.TicketHubConfig{
		MaxConnsPerUser: cfg.Realtime.MaxConnsPerUser,
		SendBuffer:      cfg.Realtime.SendBuffer,
	}, logger.WithComponent("realtime.hub"))
	c.feed = pubsub.NewRedisTicketFeed(c.redis, cfg.Realtime.Channel, c.hub, c.metrics, logger.WithComponent("realtime.feed"))

	c.handshakeLimit = ratelimit.NewIPLimiterPool(cfg.Realtime.HandshakeRPS, cfg.Realtime.HandshakeBurst)
	c.hdlrs.feedHandler = realtimeHandlers.NewFeedHandler(c.hub, c.handshakeLimit, cfg.Server.AllowedOrigins, log)

	c.hdlrs.healthHandler = commonHandlers.NewHealthHandler(map[string]commonHandlers.Check{
		"database": func(ctx context.Context) error {
			sqlDB, err := c.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return c.redis.Ping(ctx).Err()
		},
	}, c.hub, log)
}

// ============================================================
// Section 3: Tickets - Messages, Assignment, Lifecycle
// ============================================================

func (c *Container) initTickets() {
	cfg := c.cfg
	log := c.log
	repos := c.repos
	ucs := c.ucs

	renderer := markdown.NewRenderer()
	ucs.expander = ticketUsecases.NewTicketExpander(c.directory, repos.messageRepo, renderer, log)
	ucs.feedNotifier = ticketUsecases.NewFeedNotifier(c.feed, ucs.expander, log)

	// Must stay an untyped nil when email is off.
	var replyNotifier ticketUsecases.ReplyNotifier
	if cfg.Email.Enabled {
		sender, err := email.NewSMTPEmailService(cfg.Email)
		if err != nil {
			log.Warnw("reply emails disabled", "error", err)
		} else {
			replyNotifier = email.NewReplyNotifier(sender, renderer, cfg.Server.BaseURL, c.metrics, logger.WithComponent("email"))
			log.Infow("reply emails enabled", "smtp_host", cfg.Email.SMTPHost)
		}
	}

	ucs.createTicket = ticketUsecases.NewCreateTicketUseCase(repos.ticketRepo, c.directory, ucs.expander, ucs.feedNotifier, log)
	ucs.updateTicket = ticketUsecases.NewUpdateTicketUseCase(repos.ticketRepo, ucs.expander, ucs.feedNotifier, log)
	ucs.getTicket = ticketUsecases.NewGetTicketUseCase(repos.ticketRepo, ucs.expander, log)
	ucs.listTickets = ticketUsecases.NewListTicketsUseCase(repos.ticketRepo, ucs.expander, log)
	ucs.deleteTicket = ticketUsecases.NewDeleteTicketUseCase(
		repos.ticketRepo, repos.messageRepo, repos.attachmentRepo, repos.agentRepo,
		repos.txManager, c.blobs, ucs.feedNotifier, log,
	)
	ucs.assignTicket = ticketUsecases.NewAssignTicketUseCase(
		repos.ticketRepo, repos.agentRepo, repos.teamRepo,
		repos.txManager, ucs.expander, ucs.feedNotifier, log,
	)
	ucs.changeStatus = ticketUsecases.NewChangeStatusUseCase(repos.ticketRepo, repos.agentRepo, repos.txManager, ucs.expander, ucs.feedNotifier, log)
	ucs.changePriority = ticketUsecases.NewChangePriorityUseCase(repos.ticketRepo, ucs.expander, ucs.feedNotifier, log)
	ucs.scanOverdue = ticketUsecases.NewScanOverdueUseCase(repos.ticketRepo, c.metrics, log)

	ucs.sendMessage = ticketUsecases.NewSendMessageUseCase(
		repos.ticketRepo, repos.messageRepo, repos.attachmentRepo, c.directory,
		repos.txManager, ucs.expander, ucs.feedNotifier, replyNotifier, log,
	)
	ucs.listMessages = ticketUsecases.NewListMessagesUseCase(repos.ticketRepo, repos.messageRepo, ucs.expander, log)
	ucs.deleteMessage = ticketUsecases.NewDeleteMessageUseCase(
		repos.ticketRepo, repos.messageRepo, repos.attachmentRepo,
		repos.txManager, c.blobs, ucs.feedNotifier, log,
	)

	c.hdlrs.ticketHandler = ticketHandlers.NewTicketHandler(
		ucs.createTicket, ucs.updateTicket, ucs.getTicket, ucs.listTickets,
		ucs.deleteTicket, ucs.assignTicket, ucs.changeStatus, ucs.changePriority,
		log,
	)
	c.hdlrs.messageHandler = ticketHandlers.NewMessageHandler(ucs.sendMessage, ucs.listMessages, ucs.deleteMessage, log)
}

// ============================================================
// Section 4: Attachments - Upload, Signed Links, Downloads
// ============================================================

func (c *Container) initAttachments() error {
	cfg := c.cfg
	log := c.log
	repos := c.repos
	ucs := c.ucs

	maxSize, err := cfg.MaxUploadBytes()
	if err != nil {
		return err
	}
	limits := attachmentUsecases.Limits{
		MaxSize:     maxSize,
		DownloadTTL: cfg.Storage.DownloadTTL(),
		PreviewTTL:  cfg.Storage.PreviewTTL(),
	}

	ucs.uploadAttachment = attachmentUsecases.NewUploadAttachmentUseCase(repos.ticketRepo, repos.messageRepo, repos.attachmentRepo, c.blobs, limits, log)
	ucs.attachmentURL = attachmentUsecases.NewGetAttachmentURLUseCase(repos.ticketRepo, repos.messageRepo, repos.attachmentRepo, c.signer, limits, log)
	ucs.deleteAttachment = attachmentUsecases.NewDeleteAttachmentUseCase(repos.ticketRepo, repos.messageRepo, repos.attachmentRepo, c.blobs, log)
	ucs.listAttachments = attachmentUsecases.NewListAttachmentsUseCase(repos.ticketRepo, repos.messageRepo, repos.attachmentRepo, log)
	ucs.sweepOrphans = attachmentUsecases.NewSweepOrphansUseCase(
		repos.attachmentRepo, c.blobs,
		time.Duration(cfg.Scheduler.OrphanGraceMinutes)*time.Minute, log,
	)

	c.hdlrs.attachmentHandler = attachmentHandlers.NewAttachmentHandler(
		ucs.uploadAttachment, ucs.attachmentURL, ucs.deleteAttachment, ucs.listAttachments,
		maxSize, log,
	)
	c.hdlrs.fileHandler = attachmentHandlers.NewFileHandler(c.blobJWT, c.blobs, repos.attachmentRepo, log)
	return nil
}

// ============================================================
// Section 5: Directory - Users, Teams, Agents
// ============================================================

func (c *Container) initDirectory() {
	repos := c.repos
	c.ucs.directory = directoryApp.NewService(repos.userRepo, repos.teamRepo, repos.agentRepo, c.directory, c.log)
	c.hdlrs.directoryHandler = directoryHandlers.NewDirectoryHandler(c.ucs.directory, c.log)
}

// ============================================================
// Section 6: Background jobs - SLA scan, Orphan sweep
// ============================================================

func (c *Container) initScheduler() error {
	cfg := c.cfg.Scheduler
	if !cfg.Enabled {
		c.log.Infow("background jobs disabled")
		return nil
	}

	mgr, err := scheduler.NewSchedulerManager(c.metrics, logger.WithComponent("scheduler"))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := mgr.RegisterSLAScanJob(c.ucs.scanOverdue, time.Duration(cfg.SLAScanMinutes)*time.Minute); err != nil {
		return fmt.Errorf("failed to register SLA scan job: %w", err)
	}
	if err := mgr.RegisterOrphanSweepJob(c.ucs.sweepOrphans, time.Duration(cfg.OrphanSweepMinutes)*time.Minute); err != nil {
		return fmt.Errorf("failed to register orphan sweep job: %w", err)
	}
	c.schedulerManager = mgr
	return nil
}

// logSubscriberExit logs a subscriber exit at the appropriate level.
// Context cancellation during shutdown is expected and logged at INFO;
// unexpected errors are logged at ERROR.
func logSubscriberExit(log logger.Interface, name string, err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		log.Infow(name+" stopped", "reason", "context canceled")
		return
	}
	log.Errorw(name+" failed", "error", err)
}
