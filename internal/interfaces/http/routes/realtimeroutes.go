package routes

import (
	"github.com/gin-gonic/gin"

	realtimehandlers "github.com/customerly-inc/customerly/internal/interfaces/http/handlers/realtime"
	"github.com/customerly-inc/customerly/internal/interfaces/http/middleware"
	"github.com/customerly-inc/customerly/internal/shared/authorization"
)

// RealtimeRouteConfig holds dependencies for the change feed.
type RealtimeRouteConfig struct {
	FeedHandler    *realtimehandlers.FeedHandler
	AuthMiddleware *middleware.AuthMiddleware
	Enforcer       authorization.Enforcer
}

// SetupRealtimeRoutes configures the websocket feed. Browsers cannot set
// headers on upgrade, so the auth middleware also accepts ?access_token=.
func SetupRealtimeRoutes(api gin.IRouter, cfg *RealtimeRouteConfig) {
	api.GET("/realtime",
		cfg.AuthMiddleware.RequireAuth(),
		authorization.RequirePermission(cfg.Enforcer, authorization.ResourceFeed, authorization.ActionRead),
		cfg.FeedHandler.Feed,
	)
}
