package ticket

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/customerly-inc/customerly/internal/application/ticket/usecases"
	"github.com/customerly-inc/customerly/internal/shared/id"
	"github.com/customerly-inc/customerly/internal/shared/logger"
	"github.com/customerly-inc/customerly/internal/shared/utils"
)

// MessageHandler serves the thread under /tickets/:id/messages.
type MessageHandler struct {
	sendMessageUC   usecases.SendMessageExecutor
	listMessagesUC  usecases.ListMessagesExecutor
	deleteMessageUC usecases.DeleteMessageExecutor
	logger          logger.Interface
}

func NewMessageHandler(
	sendMessageUC usecases.SendMessageExecutor,
	listMessagesUC usecases.ListMessagesExecutor,
	deleteMessageUC usecases.DeleteMessageExecutor,
	logger logger.Interface,
) *MessageHandler {
	return &MessageHandler{
		sendMessageUC:   sendMessageUC,
		listMessagesUC:  listMessagesUC,
		deleteMessageUC: deleteMessageUC,
		logger:          logger,
	}
}

// ListMessages handles GET /tickets/:id/messages
func (h *MessageHandler) ListMessages(c *gin.Context) {
	actor, ticketID, ok := actorAndTicket(c)
	if !ok {
		return
	}

	result, err := h.listMessagesUC.Execute(c.Request.Context(), usecases.ListMessagesQuery{
		Actor:    actor,
		TicketID: ticketID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// SendMessage handles POST /tickets/:id/messages
// @Summary Reply or add an internal note
// @Tags Messages
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Ticket ID (tkt_...)"
// @Param message body SendMessageRequest true "Message"
// @Success 201 {object} utils.APIResponse{data=ticketdto.MessageDTO}
// @Failure 400 {object} utils.APIResponse
// @Router /tickets/{id}/messages [post]
func (h *MessageHandler) SendMessage(c *gin.Context) {
	actor, ticketID, ok := actorAndTicket(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for send message", "ticket_id", ticketID, "error", err)
		utils.ErrorResponseWithError(c, utils.TranslateValidationError(err))
		return
	}

	result, err := h.sendMessageUC.Execute(c.Request.Context(), usecases.SendMessageCommand{
		Actor:       actor,
		TicketID:    ticketID,
		Content:     req.Content,
		IsInternal:  req.IsInternal,
		Attachments: req.Attachments,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Message sent successfully")
}

// DeleteMessage handles DELETE /tickets/:id/messages/:message_id
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	actor, ticketID, ok := actorAndTicket(c)
	if !ok {
		return
	}
	messageID, err := utils.ParseSIDParam(c, "message_id", id.PrefixMessage, "message")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteMessageUC.Execute(c.Request.Context(), usecases.DeleteMessageCommand{
		Actor:     actor,
		TicketID:  ticketID,
		MessageID: messageID,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
