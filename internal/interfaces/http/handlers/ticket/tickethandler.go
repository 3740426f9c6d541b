// Package ticket serves tickets and their message threads.
package ticket

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	ticketdto "github.com/customerly-inc/customerly/internal/application/ticket/dto"
	"github.com/customerly-inc/customerly/internal/application/ticket/usecases"
	"github.com/customerly-inc/customerly/internal/shared/authorization"
	"github.com/customerly-inc/customerly/internal/shared/id"
	"github.com/customerly-inc/customerly/internal/shared/logger"
	"github.com/customerly-inc/customerly/internal/shared/utils"
)

var _ = ticketdto.TicketDTO{} // referenced by swagger annotations

type TicketHandler struct {
	createTicketUC   usecases.CreateTicketExecutor
	updateTicketUC   usecases.UpdateTicketExecutor
	getTicketUC      usecases.GetTicketExecutor
	listTicketsUC    usecases.ListTicketsExecutor
	deleteTicketUC   usecases.DeleteTicketExecutor
	assignTicketUC   usecases.AssignTicketExecutor
	changeStatusUC   usecases.ChangeStatusExecutor
	changePriorityUC usecases.ChangePriorityExecutor
	logger           logger.Interface
}

func NewTicketHandler(
	createTicketUC usecases.CreateTicketExecutor,
	updateTicketUC usecases.UpdateTicketExecutor,
	getTicketUC usecases.GetTicketExecutor,
	listTicketsUC usecases.ListTicketsExecutor,
	deleteTicketUC usecases.DeleteTicketExecutor,
	assignTicketUC usecases.AssignTicketExecutor,
	changeStatusUC usecases.ChangeStatusExecutor,
	changePriorityUC usecases.ChangePriorityExecutor,
	logger logger.Interface,
) *TicketHandler {
	return &TicketHandler{
		createTicketUC:   createTicketUC,
		updateTicketUC:   updateTicketUC,
		getTicketUC:      getTicketUC,
		listTicketsUC:    listTicketsUC,
		deleteTicketUC:   deleteTicketUC,
		assignTicketUC:   assignTicketUC,
		changeStatusUC:   changeStatusUC,
		changePriorityUC: changePriorityUC,
		logger:           logger,
	}
}

// CreateTicket handles POST /tickets
// @Summary Create ticket
// @Description Customers open tickets for themselves; staff may set customer_id
// @Tags Tickets
// @Accept json
// @Produce json
// @Security Bearer
// @Param ticket body CreateTicketRequest true "Ticket"
// @Success 201 {object} utils.APIResponse{data=ticketdto.TicketDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /tickets [post]
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	actor, err := authorization.ActorFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create ticket", "error", err)
		utils.ErrorResponseWithError(c, utils.TranslateValidationError(err))
		return
	}

	result, err := h.createTicketUC.Execute(c.Request.Context(), req.ToCommand(actor))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Ticket created successfully")
}

// GetTicket handles GET /tickets/:id. Pass ?include=messages for the thread.
// @Summary Get ticket
// @Tags Tickets
// @Produce json
// @Security Bearer
// @Param id path string true "Ticket ID (tkt_...)"
// @Param include query string false "messages"
// @Success 200 {object} utils.APIResponse{data=ticketdto.TicketDTO}
// @Failure 404 {object} utils.APIResponse
// @Router /tickets/{id} [get]
func (h *TicketHandler) GetTicket(c *gin.Context) {
	actor, ticketID, ok := actorAndTicket(c)
	if !ok {
		return
	}

	withMessages, _ := strconv.ParseBool(c.DefaultQuery("messages", "false"))
	if c.Query("include") == "messages" {
		withMessages = true
	}

	result, err := h.getTicketUC.Execute(c.Request.Context(), usecases.GetTicketQuery{
		Actor:           actor,
		TicketID:        ticketID,
		IncludeMessages: withMessages,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListTickets handles GET /tickets
// @Summary List tickets
// @Description Newest first. Customers only see their own tickets.
// @Tags Tickets
// @Produce json
// @Security Bearer
// @Param status query string false "Status filter"
// @Param priority query string false "Priority filter"
// @Param q query string false "Search title, description and customer"
// @Param page query int false "Page"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} utils.APIResponse{data=utils.ListResponse}
// @Router /tickets [get]
func (h *TicketHandler) ListTickets(c *gin.Context) {
	actor, err := authorization.ActorFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listTicketsUC.Execute(c.Request.Context(), parseListTicketsQuery(c, actor))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Tickets, result.Total, result.Page, result.PageSize)
}

// UpdateTicket handles PATCH /tickets/:id
func (h *TicketHandler) UpdateTicket(c *gin.Context) {
	actor, ticketID, ok := actorAndTicket(c)
	if !ok {
		return
	}

	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.TranslateValidationError(err))
		return
	}

	result, err := h.updateTicketUC.Execute(c.Request.Context(), usecases.UpdateTicketCommand{
		Actor:       actor,
		TicketID:    ticketID,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Metadata:    req.Metadata,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket updated successfully", result)
}

// DeleteTicket handles DELETE /tickets/:id
func (h *TicketHandler) DeleteTicket(c *gin.Context) {
	actor, ticketID, ok := actorAndTicket(c)
	if !ok {
		return
	}

	if err := h.deleteTicketUC.Execute(c.Request.Context(), usecases.DeleteTicketCommand{
		Actor:    actor,
		TicketID: ticketID,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// AssignTicket handles POST /tickets/:id/assign
func (h *TicketHandler) AssignTicket(c *gin.Context) {
	actor, ticketID, ok := actorAndTicket(c)
	if !ok {
		return
	}

	var req AssignTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.TranslateValidationError(err))
		return
	}

	result, err := h.assignTicketUC.Execute(c.Request.Context(), usecases.AssignTicketCommand{
		Actor:    actor,
		TicketID: ticketID,
		AgentID:  req.AgentID,
		TeamID:   req.TeamID,
		Unassign: req.Unassign,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket assigned successfully", result)
}

// ChangeStatus handles PATCH /tickets/:id/status
func (h *TicketHandler) ChangeStatus(c *gin.Context) {
	actor, ticketID, ok := actorAndTicket(c)
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.TranslateValidationError(err))
		return
	}

	result, err := h.changeStatusUC.Execute(c.Request.Context(), usecases.ChangeStatusCommand{
		Actor:    actor,
		TicketID: ticketID,
		Status:   req.Status,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket status updated successfully", result)
}

// ChangePriority handles PATCH /tickets/:id/priority
func (h *TicketHandler) ChangePriority(c *gin.Context) {
	actor, ticketID, ok := actorAndTicket(c)
	if !ok {
		return
	}

	var req ChangePriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.TranslateValidationError(err))
		return
	}

	result, err := h.changePriorityUC.Execute(c.Request.Context(), usecases.ChangePriorityCommand{
		Actor:    actor,
		TicketID: ticketID,
		Priority: req.Priority,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket priority updated successfully", result)
}

// actorAndTicket writes the error response itself and reports false when
// either the caller or the :id parameter is unusable.
func actorAndTicket(c *gin.Context) (authorization.Actor, string, bool) {
	actor, err := authorization.ActorFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return authorization.Actor{}, "", false
	}
	ticketID, err := utils.ParseSIDParam(c, "id", id.PrefixTicket, "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return authorization.Actor{}, "", false
	}
	return actor, ticketID, true
}
