package usecases

import (
	"context"

	"github.com/customerly-inc/customerly/internal/domain/attachment"
	"github.com/customerly-inc/customerly/internal/domain/ticket"
	"github.com/customerly-inc/customerly/internal/shared/authorization"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

type DeleteAttachmentCommand struct {
	Actor        authorization.Actor
	AttachmentID string
	Path         string
}

// DeleteAttachmentUseCase removes content first and the record second.
type DeleteAttachmentUseCase struct {
	access         accessChecker
	attachmentRepo attachment.Repository
	blobs          BlobStore
	logger         logger.Interface
}

func NewDeleteAttachmentUseCase(
	ticketRepo ticket.Repository,
	messageRepo ticket.MessageRepository,
	attachmentRepo attachment.Repository,
	blobs BlobStore,
	logger logger.Interface,
) *DeleteAttachmentUseCase {
	return &DeleteAttachmentUseCase{
		access:         accessChecker{ticketRepo: ticketRepo, messageRepo: messageRepo},
		attachmentRepo: attachmentRepo,
		blobs:          blobs,
		logger:         logger,
	}
}

func (uc *DeleteAttachmentUseCase) Execute(ctx context.Context, cmd DeleteAttachmentCommand) error {
	uc.logger.Infow("executing delete attachment use case", "attachment_id", cmd.AttachmentID, "path", cmd.Path)

	var (
		a   *attachment.Attachment
		err error
	)
	switch {
	case cmd.AttachmentID != "":
		a, err = uc.attachmentRepo.GetByID(ctx, cmd.AttachmentID)
	case cmd.Path != "":
		a, err = uc.attachmentRepo.GetByPath(ctx, cmd.Path)
	default:
		return errors.NewValidationError("attachment ID or path is required")
	}
	if err != nil {
		return asAppError(err, "failed to load attachment")
	}

	if err := uc.access.attachment(ctx, a, cmd.Actor); err != nil {
		return err
	}
	if !cmd.Actor.IsStaff() {
		if a.UploaderID() != cmd.Actor.UserID {
			return errors.NewForbiddenError("only the uploader or staff can delete an attachment")
		}
		if a.EntityType() == attachment.EntityMessage {
			return errors.NewForbiddenError("attachment is already part of a message")
		}
	}

	if err := uc.blobs.Delete(ctx, a.StoragePath()); err != nil {
		uc.logger.Errorw("failed to delete attachment content", "path", a.StoragePath(), "error", err)
		return errors.NewInternalError("failed to delete file")
	}
	if err := uc.attachmentRepo.Delete(ctx, a.ID()); err != nil {
		uc.logger.Errorw("failed to delete attachment record", "attachment_id", a.ID(), "error", err)
		return asAppError(err, "failed to delete attachment")
	}

	uc.logger.Infow("attachment deleted successfully", "attachment_id", a.ID())
	return nil
}
