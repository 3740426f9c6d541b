package routes

import (
	"github.com/gin-gonic/gin"

	directoryhandlers "github.com/customerly-inc/customerly/internal/interfaces/http/handlers/directory"
	"github.com/customerly-inc/customerly/internal/interfaces/http/middleware"
	"github.com/customerly-inc/customerly/internal/shared/authorization"
)

// DirectoryRouteConfig holds dependencies for user, team and agent routes.
type DirectoryRouteConfig struct {
	DirectoryHandler *directoryhandlers.DirectoryHandler
	AuthMiddleware   *middleware.AuthMiddleware
	Enforcer         authorization.Enforcer
}

// SetupDirectoryRoutes configures /users, /teams and /agents.
func SetupDirectoryRoutes(api gin.IRouter, cfg *DirectoryRouteConfig) {
	read := authorization.RequirePermission(cfg.Enforcer, authorization.ResourceDirectory, authorization.ActionRead)
	write := authorization.RequirePermission(cfg.Enforcer, authorization.ResourceDirectory, authorization.ActionWrite)
	h := cfg.DirectoryHandler

	users := api.Group("/users")
	users.Use(cfg.AuthMiddleware.RequireAuth())
	{
		users.POST("", write, h.CreateUser)
		users.GET("", read, h.ListUsers)

		// Every role may read and edit its own profile.
		users.GET("/me", h.Me)

		users.GET("/:user_id", h.GetUser)
		users.PATCH("/:user_id", h.UpdateUser)
	}

	teams := api.Group("/teams")
	teams.Use(cfg.AuthMiddleware.RequireAuth())
	{
		teams.POST("", write, h.CreateTeam)
		teams.GET("", read, h.ListTeams)
	}

	agents := api.Group("/agents")
	agents.Use(cfg.AuthMiddleware.RequireAuth())
	{
		agents.POST("", write, h.CreateAgent)
		agents.GET("", read, h.ListAgents)
	}
}
