package usecases

import (
	"context"

	"github.com/customerly-inc/customerly/internal/application/attachment/dto"
	"github.com/customerly-inc/customerly/internal/domain/attachment"
	"github.com/customerly-inc/customerly/internal/domain/ticket"
	"github.com/customerly-inc/customerly/internal/shared/authorization"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

type ListAttachmentsQuery struct {
	Actor      authorization.Actor
	EntityType string
	EntityID   string
}

// ListAttachmentsUseCase returns an entity's attachments oldest first.
type ListAttachmentsUseCase struct {
	access         accessChecker
	attachmentRepo attachment.Repository
	logger         logger.Interface
}

func NewListAttachmentsUseCase(
	ticketRepo ticket.Repository,
	messageRepo ticket.MessageRepository,
	attachmentRepo attachment.Repository,
	logger logger.Interface,
) *ListAttachmentsUseCase {
	return &ListAttachmentsUseCase{
		access:         accessChecker{ticketRepo: ticketRepo, messageRepo: messageRepo},
		attachmentRepo: attachmentRepo,
		logger:         logger,
	}
}

func (uc *ListAttachmentsUseCase) Execute(ctx context.Context, query ListAttachmentsQuery) ([]*dto.AttachmentDTO, error) {
	entityType := attachment.EntityType(query.EntityType)
	if !entityType.IsValid() {
		return nil, errors.NewValidationError("invalid entity type: " + query.EntityType)
	}
	if query.EntityID == "" {
		return nil, errors.NewValidationError("entity ID is required")
	}

	ticketID := query.EntityID
	if entityType == attachment.EntityMessage {
		m, err := uc.access.messageRepo.GetByID(ctx, query.EntityID)
		if err != nil {
			return nil, asAppError(err, "failed to load message")
		}
		if !m.CanBeViewedBy(query.Actor.IsStaff()) {
			return nil, errors.NewNotFoundError("message not found")
		}
		ticketID = m.TicketID()
	}
	if _, err := uc.access.ticket(ctx, ticketID, query.Actor); err != nil {
		return nil, err
	}

	items, err := uc.attachmentRepo.ListForEntity(ctx, entityType, query.EntityID)
	if err != nil {
		uc.logger.Errorw("failed to list attachments", "entity_type", entityType, "entity_id", query.EntityID, "error", err)
		return nil, asAppError(err, "failed to list attachments")
	}
	return dto.ToAttachmentDTOs(items), nil
}
