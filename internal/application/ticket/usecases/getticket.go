package usecases

import (
	"context"

	"github.com/customerly-inc/customerly/internal/application/ticket/dto"
	"github.com/customerly-inc/customerly/internal/domain/ticket"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

type GetTicketQuery struct {
	Actor           Actor
	TicketID        string
	IncludeMessages bool
}

type GetTicketUseCase struct {
	ticketRepo ticket.Repository
	expander   *TicketExpander
	logger     logger.Interface
}

func NewGetTicketUseCase(ticketRepo ticket.Repository, expander *TicketExpander, logger logger.Interface) *GetTicketUseCase {
	return &GetTicketUseCase{
		ticketRepo: ticketRepo,
		expander:   expander,
		logger:     logger,
	}
}

func (uc *GetTicketUseCase) Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDTO, error) {
	t, err := loadVisibleTicket(ctx, uc.ticketRepo, query.TicketID, query.Actor)
	if err != nil {
		uc.logger.Debugw("ticket lookup rejected", "ticket_id", query.TicketID, "error", err)
		return nil, err
	}
	return uc.expander.Expand(ctx, t, query.Actor, query.IncludeMessages)
}
