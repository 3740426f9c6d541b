package usecases

import (
	"context"

	"github.com/customerly-inc/customerly/internal/domain/attachment"
	"github.com/customerly-inc/customerly/internal/domain/ticket"
	"github.com/customerly-inc/customerly/internal/domain/user"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

type DeleteTicketCommand struct {
	Actor    Actor
	TicketID string
}

// DeleteTicketUseCase removes a ticket with its thread and attachment
// records, then its stored files.
type DeleteTicketUseCase struct {
	ticketRepo     ticket.Repository
	messageRepo    ticket.MessageRepository
	attachmentRepo attachment.Repository
	agentRepo      user.AgentRepository
	txManager      TransactionRunner
	blobs          BlobRemover
	notifier       ChangeNotifier
	logger         logger.Interface
}

func NewDeleteTicketUseCase(
	ticketRepo ticket.Repository,
	messageRepo ticket.MessageRepository,
	attachmentRepo attachment.Repository,
	agentRepo user.AgentRepository,
	txManager TransactionRunner,
	blobs BlobRemover,
	notifier ChangeNotifier,
	logger logger.Interface,
) *DeleteTicketUseCase {
	return &DeleteTicketUseCase{
		ticketRepo:     ticketRepo,
		messageRepo:    messageRepo,
		attachmentRepo: attachmentRepo,
		agentRepo:      agentRepo,
		txManager:      txManager,
		blobs:          blobs,
		notifier:       notifier,
		logger:         logger,
	}
}

func (uc *DeleteTicketUseCase) Execute(ctx context.Context, cmd DeleteTicketCommand) error {
	uc.logger.Infow("executing delete ticket use case", "ticket_id", cmd.TicketID, "actor_id", cmd.Actor.UserID)

	if !cmd.Actor.Role.IsAdmin() {
		return errors.NewForbiddenError("only admins can delete tickets")
	}

	t, err := loadVisibleTicket(ctx, uc.ticketRepo, cmd.TicketID, cmd.Actor)
	if err != nil {
		return err
	}

	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		attachments, err := uc.attachmentRepo.ListByTicket(ctx, t.ID())
		if err != nil {
			return err
		}
		for _, a := range attachments {
			if err := uc.attachmentRepo.Delete(ctx, a.ID()); err != nil {
				return err
			}
		}
		if err := uc.messageRepo.DeleteByTicket(ctx, t.ID()); err != nil {
			return err
		}
		if agentID := t.AssignedAgentID(); agentID != nil && !t.Status().IsTerminal() {
			if err := adjustAgentLoad(ctx, uc.agentRepo, *agentID, false); err != nil {
				return err
			}
		}
		return uc.ticketRepo.Delete(ctx, t.ID())
	})
	if err != nil {
		uc.logger.Errorw("failed to delete ticket", "ticket_id", t.ID(), "error", err)
		return asAppError(err, "failed to delete ticket")
	}

	if err := uc.blobs.DeletePrefix(ctx, attachment.TicketPrefix(t.ID())); err != nil {
		// The orphan sweeper never sees these since their records are gone.
		uc.logger.Warnw("failed to remove ticket files", "ticket_id", t.ID(), "error", err)
	}

	uc.notifier.TicketDeleted(ctx, t)

	uc.logger.Infow("ticket deleted successfully", "ticket_id", t.ID())
	return nil
}
