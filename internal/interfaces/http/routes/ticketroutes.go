package routes

import (
	"github.com/gin-gonic/gin"

	attachmenthandlers "github.com/customerly-inc/customerly/internal/interfaces/http/handlers/attachment"
	tickethandlers "github.com/customerly-inc/customerly/internal/interfaces/http/handlers/ticket"
	"github.com/customerly-inc/customerly/internal/interfaces/http/middleware"
	"github.com/customerly-inc/customerly/internal/shared/authorization"
)

// TicketRouteConfig holds dependencies for ticket and message routes.
type TicketRouteConfig struct {
	TicketHandler     *tickethandlers.TicketHandler
	MessageHandler    *tickethandlers.MessageHandler
	AttachmentHandler *attachmenthandlers.AttachmentHandler
	AuthMiddleware    *middleware.AuthMiddleware
	RateLimiter       *middleware.RateLimiter // nil disables write throttling
	Enforcer          authorization.Enforcer
}

// SetupTicketRoutes configures /tickets and the nested message thread.
// Role policies are coarse; ownership and visibility are checked by the use
// cases.
func SetupTicketRoutes(api gin.IRouter, cfg *TicketRouteConfig) {
	can := func(resource, action string) gin.HandlerFunc {
		return authorization.RequirePermission(cfg.Enforcer, resource, action)
	}
	throttle := passThrough
	if cfg.RateLimiter != nil {
		throttle = cfg.RateLimiter.Limit()
	}

	tickets := api.Group("/tickets")
	tickets.Use(cfg.AuthMiddleware.RequireAuth())
	{
		// Collection operations (no ID parameter)
		tickets.POST("", can(authorization.ResourceTickets, authorization.ActionCreate), throttle, cfg.TicketHandler.CreateTicket)
		tickets.GET("", can(authorization.ResourceTickets, authorization.ActionRead), cfg.TicketHandler.ListTickets)

		// Specific action endpoints (must come BEFORE /:id to avoid conflicts)
		tickets.POST("/:id/assign", can(authorization.ResourceTickets, authorization.ActionAssign), cfg.TicketHandler.AssignTicket)
		tickets.PATCH("/:id/status", can(authorization.ResourceTickets, authorization.ActionWrite), cfg.TicketHandler.ChangeStatus)
		tickets.PATCH("/:id/priority", can(authorization.ResourceTickets, authorization.ActionWrite), cfg.TicketHandler.ChangePriority)

		tickets.GET("/:id/messages", can(authorization.ResourceMessages, authorization.ActionRead), cfg.MessageHandler.ListMessages)
		tickets.POST("/:id/messages", can(authorization.ResourceMessages, authorization.ActionWrite), throttle, cfg.MessageHandler.SendMessage)
		tickets.DELETE("/:id/messages/:message_id", can(authorization.ResourceMessages, authorization.ActionWrite), cfg.MessageHandler.DeleteMessage)

		tickets.POST("/:id/attachments", can(authorization.ResourceAttachments, authorization.ActionWrite), throttle, cfg.AttachmentHandler.Upload)

		// Generic parameterized routes (must come LAST)
		tickets.GET("/:id", can(authorization.ResourceTickets, authorization.ActionRead), cfg.TicketHandler.GetTicket)
		tickets.PATCH("/:id", can(authorization.ResourceTickets, authorization.ActionWrite), cfg.TicketHandler.UpdateTicket)
		tickets.DELETE("/:id", can(authorization.ResourceTickets, authorization.ActionDelete), cfg.TicketHandler.DeleteTicket)
	}
}

func passThrough(c *gin.Context) { c.Next() }
