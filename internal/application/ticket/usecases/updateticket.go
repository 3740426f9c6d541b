package usecases

import (
	"context"

	"github.com/customerly-inc/customerly/internal/application/ticket/dto"
	"github.com/customerly-inc/customerly/internal/domain/ticket"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

// UpdateTicketCommand edits the free-form fields. Customers may change the
// title and description of their own tickets; tags and metadata are staff only.
type UpdateTicketCommand struct {
	Actor       Actor
	TicketID    string
	Title       *string
	Description *string
	Tags        []string
	Metadata    map[string]any
}

type UpdateTicketUseCase struct {
	ticketRepo ticket.Repository
	expander   *TicketExpander
	notifier   ChangeNotifier
	logger     logger.Interface
}

func NewUpdateTicketUseCase(
	ticketRepo ticket.Repository,
	expander *TicketExpander,
	notifier ChangeNotifier,
	logger logger.Interface,
) *UpdateTicketUseCase {
	return &UpdateTicketUseCase{
		ticketRepo: ticketRepo,
		expander:   expander,
		notifier:   notifier,
		logger:     logger,
	}
}

func (uc *UpdateTicketUseCase) Execute(ctx context.Context, cmd UpdateTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing update ticket use case", "ticket_id", cmd.TicketID, "actor_id", cmd.Actor.UserID)

	if !cmd.Actor.IsStaff() && (cmd.Tags != nil || cmd.Metadata != nil) {
		return nil, errors.NewForbiddenError("only staff can change tags or metadata")
	}

	t, err := loadVisibleTicket(ctx, uc.ticketRepo, cmd.TicketID, cmd.Actor)
	if err != nil {
		return nil, err
	}

	if err := t.UpdateDetails(cmd.Title, cmd.Description, cmd.Tags, cmd.Metadata); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.ticketRepo.Update(ctx, t); err != nil {
		uc.logger.Errorw("failed to update ticket", "ticket_id", t.ID(), "error", err)
		return nil, asAppError(err, "failed to update ticket")
	}

	uc.notifier.TicketUpserted(ctx, t)

	uc.logger.Infow("ticket updated successfully", "ticket_id", t.ID())
	return uc.expander.Expand(ctx, t, cmd.Actor, false)
}
