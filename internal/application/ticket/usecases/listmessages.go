package usecases

import (
	"context"

	"github.com/customerly-inc/customerly/internal/application/ticket/dto"
	"github.com/customerly-inc/customerly/internal/domain/ticket"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

type ListMessagesQuery struct {
	Actor    Actor
	TicketID string
}

// ListMessagesUseCase returns a thread oldest first. Customers never see
// internal notes.
type ListMessagesUseCase struct {
	ticketRepo  ticket.Repository
	messageRepo ticket.MessageRepository
	expander    *TicketExpander
	logger      logger.Interface
}

func NewListMessagesUseCase(
	ticketRepo ticket.Repository,
	messageRepo ticket.MessageRepository,
	expander *TicketExpander,
	logger logger.Interface,
) *ListMessagesUseCase {
	return &ListMessagesUseCase{
		ticketRepo:  ticketRepo,
		messageRepo: messageRepo,
		expander:    expander,
		logger:      logger,
	}
}

func (uc *ListMessagesUseCase) Execute(ctx context.Context, query ListMessagesQuery) ([]dto.MessageDTO, error) {
	t, err := loadVisibleTicket(ctx, uc.ticketRepo, query.TicketID, query.Actor)
	if err != nil {
		return nil, err
	}

	messages, err := uc.messageRepo.ListByTicket(ctx, t.ID(), query.Actor.IsStaff())
	if err != nil {
		uc.logger.Errorw("failed to list messages", "ticket_id", t.ID(), "error", err)
		return nil, asAppError(err, "failed to list messages")
	}
	return uc.expander.ExpandMessages(ctx, messages)
}
