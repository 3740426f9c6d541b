// Package directory serves users, teams and agents.
package directory

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/customerly-inc/customerly/internal/application/directory/dto"
	"github.com/customerly-inc/customerly/internal/application/directory/usecases"
	"github.com/customerly-inc/customerly/internal/shared/authorization"
	"github.com/customerly-inc/customerly/internal/shared/id"
	"github.com/customerly-inc/customerly/internal/shared/logger"
	"github.com/customerly-inc/customerly/internal/shared/utils"
)

// Service is satisfied by *directory.Service.
type Service interface {
	CreateUser(ctx context.Context, cmd usecases.CreateUserCommand) (*dto.UserDTO, error)
	GetUser(ctx context.Context, actor authorization.Actor, userID string) (*dto.UserDTO, error)
	ListUsers(ctx context.Context, query usecases.ListUsersQuery) (*usecases.ListUsersResult, error)
	UpdateUser(ctx context.Context, actor authorization.Actor, cmd usecases.UpdateUserCommand) (*dto.UserDTO, error)
	CreateTeam(ctx context.Context, name string) (*dto.TeamDTO, error)
	ListTeams(ctx context.Context) ([]*dto.TeamDTO, error)
	CreateAgent(ctx context.Context, cmd usecases.CreateAgentCommand) (*dto.AgentDTO, error)
	ListAgents(ctx context.Context, teamID string) ([]*dto.AgentDTO, error)
}

type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Name      string `json:"name" binding:"required,max=100"`
	Role      string `json:"role" binding:"omitempty,oneof=admin agent customer"`
	AvatarURL string `json:"avatar_url,omitempty" binding:"omitempty,url"`
}

type UpdateUserRequest struct {
	Name      *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	AvatarURL *string `json:"avatar_url,omitempty" binding:"omitempty,url"`
	Role      *string `json:"role,omitempty" binding:"omitempty,oneof=admin agent customer"`
}

type CreateTeamRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type CreateAgentRequest struct {
	UserID     string `json:"user_id" binding:"required"`
	TeamID     string `json:"team_id,omitempty"`
	MaxTickets int    `json:"max_tickets" binding:"omitempty,min=1,max=1000"`
}

type DirectoryHandler struct {
	service Service
	logger  logger.Interface
}

func NewDirectoryHandler(service Service, logger logger.Interface) *DirectoryHandler {
	return &DirectoryHandler{service: service, logger: logger}
}

// Me handles GET /users/me
func (h *DirectoryHandler) Me(c *gin.Context) {
	actor, err := authorization.ActorFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.GetUser(c.Request.Context(), actor, actor.UserID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// CreateUser handles POST /users (admin)
func (h *DirectoryHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create user", "error", err)
		utils.ErrorResponseWithError(c, utils.TranslateValidationError(err))
		return
	}

	result, err := h.service.CreateUser(c.Request.Context(), usecases.CreateUserCommand{
		Email:     req.Email,
		Name:      req.Name,
		Role:      req.Role,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, result, "User created successfully")
}

// GetUser handles GET /users/:user_id
func (h *DirectoryHandler) GetUser(c *gin.Context) {
	actor, err := authorization.ActorFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	userID, err := utils.ParseSIDParam(c, "user_id", id.PrefixUser, "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.GetUser(c.Request.Context(), actor, userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListUsers handles GET /users?role=&q=&page=&page_size=
func (h *DirectoryHandler) ListUsers(c *gin.Context) {
	p := utils.ParsePagination(c)
	result, err := h.service.ListUsers(c.Request.Context(), usecases.ListUsersQuery{
		Role:     c.Query("role"),
		Search:   c.Query("q"),
		Page:     p.Page,
		PageSize: p.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListSuccessResponse(c, result.Users, result.Total, result.Page, result.PageSize)
}

// UpdateUser handles PATCH /users/:user_id. Only admins may change roles.
func (h *DirectoryHandler) UpdateUser(c *gin.Context) {
	actor, err := authorization.ActorFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	userID, err := utils.ParseSIDParam(c, "user_id", id.PrefixUser, "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update user", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, utils.TranslateValidationError(err))
		return
	}

	result, err := h.service.UpdateUser(c.Request.Context(), actor, usecases.UpdateUserCommand{
		UserID:    userID,
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
		Role:      req.Role,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "User updated successfully", result)
}

// CreateTeam handles POST /teams (admin)
func (h *DirectoryHandler) CreateTeam(c *gin.Context) {
	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.TranslateValidationError(err))
		return
	}

	result, err := h.service.CreateTeam(c.Request.Context(), req.Name)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, result, "Team created successfully")
}

// ListTeams handles GET /teams
func (h *DirectoryHandler) ListTeams(c *gin.Context) {
	result, err := h.service.ListTeams(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// CreateAgent handles POST /agents (admin)
func (h *DirectoryHandler) CreateAgent(c *gin.Context) {
	var req CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.TranslateValidationError(err))
		return
	}

	result, err := h.service.CreateAgent(c.Request.Context(), usecases.CreateAgentCommand{
		UserID:     req.UserID,
		TeamID:     req.TeamID,
		MaxTickets: req.MaxTickets,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, result, "Agent created successfully")
}

// ListAgents handles GET /agents?team_id=
func (h *DirectoryHandler) ListAgents(c *gin.Context) {
	result, err := h.service.ListAgents(c.Request.Context(), c.Query("team_id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}
