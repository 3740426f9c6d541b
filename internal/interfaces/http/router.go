package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/customerly-inc/customerly/internal/interfaces/http/middleware"
	"github.com/customerly-inc/customerly/internal/interfaces/http/routes"
	"github.com/customerly-inc/customerly/internal/shared/goroutine"
	"github.com/customerly-inc/customerly/internal/shared/utils"

	_ "github.com/customerly-inc/customerly/docs"
)

// SetupRoutes configures all HTTP routes
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.Logger(c.log, c.metrics))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.SecurityHeaders())

	c.engine.GET("/health", c.hdlrs.healthHandler.HealthCheck)
	c.engine.GET("/version", c.hdlrs.healthHandler.Version)
	c.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})))
	if c.cfg.Server.Mode != "release" {
		c.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := c.engine.Group("/api/v1", middleware.APIVersion())

	routes.SetupTicketRoutes(api, &routes.TicketRouteConfig{
		TicketHandler:     c.hdlrs.ticketHandler,
		MessageHandler:    c.hdlrs.messageHandler,
		AttachmentHandler: c.hdlrs.attachmentHandler,
		AuthMiddleware:    c.authMiddleware,
		RateLimiter:       c.rateLimiter,
		Enforcer:          c.enforcer,
	})

	routes.SetupAttachmentRoutes(api, &routes.AttachmentRouteConfig{
		AttachmentHandler: c.hdlrs.attachmentHandler,
		FileHandler:       c.hdlrs.fileHandler,
		AuthMiddleware:    c.authMiddleware,
		Enforcer:          c.enforcer,
	})

	routes.SetupDirectoryRoutes(api, &routes.DirectoryRouteConfig{
		DirectoryHandler: c.hdlrs.directoryHandler,
		AuthMiddleware:   c.authMiddleware,
		Enforcer:         c.enforcer,
	})

	routes.SetupRealtimeRoutes(api, &routes.RealtimeRouteConfig{
		FeedHandler:    c.hdlrs.feedHandler,
		AuthMiddleware: c.authMiddleware,
		Enforcer:       c.enforcer,
	})

	c.engine.NoRoute(func(ctx *gin.Context) {
		utils.ErrorResponse(ctx, http.StatusNotFound, "route not found")
	})
}

// Handler returns the engine as an http.Handler for the server.
func (c *Container) Handler() http.Handler {
	return c.engine
}

// StartBackground starts the cross-instance change relay and the scheduled
// jobs. It returns immediately.
func (c *Container) StartBackground() {
	c.feedCancelMu.Lock()
	defer c.feedCancelMu.Unlock()
	if c.feedCancel != nil {
		return
	}

	feedCtx, cancel := context.WithCancel(context.Background())
	c.feedCancel = cancel
	c.feedDone = make(chan struct{})
	done := c.feedDone
	goroutine.SafeGo(c.log, "ticket-feed-subscriber", func() {
		defer close(done)
		logSubscriberExit(c.log, "ticket feed subscriber", c.feed.Run(feedCtx))
	})

	if c.schedulerManager != nil {
		c.schedulerManager.Start()
	}
}

// Shutdown stops background work and closes realtime connections. The HTTP
// server itself is shut down by the caller.
func (c *Container) Shutdown() {
	// Stop scheduled jobs first so nothing writes during teardown
	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			c.log.Warnw("failed to stop scheduler", "error", err)
		}
	}

	// Stop relaying remote changes
	c.feedCancelMu.Lock()
	cancel, done := c.feedCancel, c.feedDone
	c.feedCancel = nil
	c.feedCancelMu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}

	// Close websocket connections so the HTTP server can drain quickly
	if c.hub != nil {
		c.hub.Shutdown()
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close Redis client", "error", err)
		}
	}
}
