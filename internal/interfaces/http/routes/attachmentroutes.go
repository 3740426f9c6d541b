package routes

import (
	"github.com/gin-gonic/gin"

	attachmenthandlers "github.com/customerly-inc/customerly/internal/interfaces/http/handlers/attachment"
	"github.com/customerly-inc/customerly/internal/interfaces/http/middleware"
	"github.com/customerly-inc/customerly/internal/shared/authorization"
)

// AttachmentRouteConfig holds dependencies for attachment routes. Uploads
// hang off /tickets and are registered by SetupTicketRoutes.
type AttachmentRouteConfig struct {
	AttachmentHandler *attachmenthandlers.AttachmentHandler
	FileHandler       *attachmenthandlers.FileHandler
	AuthMiddleware    *middleware.AuthMiddleware
	Enforcer          authorization.Enforcer
}

// SetupAttachmentRoutes configures signed-link issuance and the
// token-authenticated download endpoint.
func SetupAttachmentRoutes(api gin.IRouter, cfg *AttachmentRouteConfig) {
	// The signed token is the credential, so no bearer auth here.
	api.GET("/files", cfg.FileHandler.Download)

	read := authorization.RequirePermission(cfg.Enforcer, authorization.ResourceAttachments, authorization.ActionRead)
	write := authorization.RequirePermission(cfg.Enforcer, authorization.ResourceAttachments, authorization.ActionWrite)

	attachments := api.Group("/attachments")
	attachments.Use(cfg.AuthMiddleware.RequireAuth())
	{
		attachments.GET("", read, cfg.AttachmentHandler.List)
		attachments.GET("/url", read, cfg.AttachmentHandler.SignedURL)
		attachments.DELETE("", write, cfg.AttachmentHandler.Delete)

		attachments.GET("/:attachment_id/url", read, cfg.AttachmentHandler.SignedURL)
		attachments.DELETE("/:attachment_id", write, cfg.AttachmentHandler.Delete)
	}
}
