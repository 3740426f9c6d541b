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

// GetAttachmentURLQuery identifies an attachment by ID or by the storage
// path a message carries. Preview links last longer and are image only.
type GetAttachmentURLQuery struct {
	Actor        authorization.Actor
	AttachmentID string
	Path         string
	Preview      bool
}

type GetAttachmentURLUseCase struct {
	access         accessChecker
	attachmentRepo attachment.Repository
	signer         URLSigner
	limits         Limits
	logger         logger.Interface
}

func NewGetAttachmentURLUseCase(
	ticketRepo ticket.Repository,
	messageRepo ticket.MessageRepository,
	attachmentRepo attachment.Repository,
	signer URLSigner,
	limits Limits,
	logger logger.Interface,
) *GetAttachmentURLUseCase {
	if limits.DownloadTTL <= 0 {
		limits.DownloadTTL = DefaultDownloadTTL
	}
	if limits.PreviewTTL <= 0 {
		limits.PreviewTTL = DefaultPreviewTTL
	}
	return &GetAttachmentURLUseCase{
		access:         accessChecker{ticketRepo: ticketRepo, messageRepo: messageRepo},
		attachmentRepo: attachmentRepo,
		signer:         signer,
		limits:         limits,
		logger:         logger,
	}
}

func (uc *GetAttachmentURLUseCase) Execute(ctx context.Context, query GetAttachmentURLQuery) (*dto.SignedURLDTO, error) {
	var (
		a   *attachment.Attachment
		err error
	)
	switch {
	case query.AttachmentID != "":
		a, err = uc.attachmentRepo.GetByID(ctx, query.AttachmentID)
	case query.Path != "":
		a, err = uc.attachmentRepo.GetByPath(ctx, query.Path)
	default:
		return nil, errors.NewValidationError("attachment ID or path is required")
	}
	if err != nil {
		return nil, asAppError(err, "failed to load attachment")
	}

	if err := uc.access.attachment(ctx, a, query.Actor); err != nil {
		return nil, err
	}

	ttl := uc.limits.DownloadTTL
	if query.Preview {
		if !a.IsImage() {
			return nil, errors.NewValidationError("preview is only available for images")
		}
		ttl = uc.limits.PreviewTTL
	}

	url, expiresAt, err := uc.signer.Sign(a.StoragePath(), ttl)
	if err != nil {
		uc.logger.Errorw("failed to sign attachment url", "attachment_id", a.ID(), "error", err)
		return nil, errors.NewInternalError("failed to create download link")
	}

	uc.logger.Debugw("issued attachment url", "attachment_id", a.ID(), "preview", query.Preview, "expires_at", expiresAt)
	return &dto.SignedURLDTO{
		URL:         url,
		ExpiresAt:   expiresAt,
		ContentType: a.ContentType(),
		FileName:    a.OriginalName(),
	}, nil
}
