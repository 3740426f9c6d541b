package usecases

import (
	"context"

	"github.com/customerly-inc/customerly/internal/domain/attachment"
	"github.com/customerly-inc/customerly/internal/domain/ticket"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

type DeleteMessageCommand struct {
	Actor     Actor
	TicketID  string
	MessageID string
}

// DeleteMessageUseCase lets staff or the original sender remove a message
// together with the files bound to it.
type DeleteMessageUseCase struct {
	ticketRepo     ticket.Repository
	messageRepo    ticket.MessageRepository
	attachmentRepo attachment.Repository
	txManager      TransactionRunner
	blobs          BlobRemover
	notifier       ChangeNotifier
	logger         logger.Interface
}

func NewDeleteMessageUseCase(
	ticketRepo ticket.Repository,
	messageRepo ticket.MessageRepository,
	attachmentRepo attachment.Repository,
	txManager TransactionRunner,
	blobs BlobRemover,
	notifier ChangeNotifier,
	logger logger.Interface,
) *DeleteMessageUseCase {
	return &DeleteMessageUseCase{
		ticketRepo:     ticketRepo,
		messageRepo:    messageRepo,
		attachmentRepo: attachmentRepo,
		txManager:      txManager,
		blobs:          blobs,
		notifier:       notifier,
		logger:         logger,
	}
}

func (uc *DeleteMessageUseCase) Execute(ctx context.Context, cmd DeleteMessageCommand) error {
	uc.logger.Infow("executing delete message use case", "ticket_id", cmd.TicketID, "message_id", cmd.MessageID)

	t, err := loadVisibleTicket(ctx, uc.ticketRepo, cmd.TicketID, cmd.Actor)
	if err != nil {
		return err
	}
	m, err := uc.messageRepo.GetByID(ctx, cmd.MessageID)
	if err != nil {
		return asAppError(err, "failed to load message")
	}
	if m.TicketID() != t.ID() || !m.CanBeViewedBy(cmd.Actor.IsStaff()) {
		return errors.NewNotFoundError("message not found")
	}
	if !cmd.Actor.IsStaff() && m.SenderID() != cmd.Actor.UserID {
		return errors.NewForbiddenError("only the sender or staff can delete a message")
	}

	var files []*attachment.Attachment
	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		files, err = uc.attachmentRepo.ListForEntity(ctx, attachment.EntityMessage, m.ID())
		if err != nil {
			return err
		}
		for _, a := range files {
			if err := uc.attachmentRepo.Delete(ctx, a.ID()); err != nil {
				return err
			}
		}
		return uc.messageRepo.Delete(ctx, m.ID())
	})
	if err != nil {
		uc.logger.Errorw("failed to delete message", "message_id", m.ID(), "error", err)
		return asAppError(err, "failed to delete message")
	}

	for _, a := range files {
		if err := uc.blobs.Delete(ctx, a.StoragePath()); err != nil {
			uc.logger.Warnw("failed to remove message file", "path", a.StoragePath(), "error", err)
		}
	}

	uc.notifier.MessageDeleted(ctx, t, m)

	uc.logger.Infow("message deleted successfully", "message_id", m.ID())
	return nil
}
