package usecases

import (
	"context"

	"github.com/customerly-inc/customerly/internal/application/attachment/dto"
)

type UploadAttachmentExecutor interface {
	Execute(ctx context.Context, cmd UploadAttachmentCommand) (*dto.AttachmentDTO, error)
}

type GetAttachmentURLExecutor interface {
	Execute(ctx context.Context, query GetAttachmentURLQuery) (*dto.SignedURLDTO, error)
}

type DeleteAttachmentExecutor interface {
	Execute(ctx context.Context, cmd DeleteAttachmentCommand) error
}

type ListAttachmentsExecutor interface {
	Execute(ctx context.Context, query ListAttachmentsQuery) ([]*dto.AttachmentDTO, error)
}

var (
	_ UploadAttachmentExecutor = (*UploadAttachmentUseCase)(nil)
	_ GetAttachmentURLExecutor = (*GetAttachmentURLUseCase)(nil)
	_ DeleteAttachmentExecutor = (*DeleteAttachmentUseCase)(nil)
	_ ListAttachmentsExecutor  = (*ListAttachmentsUseCase)(nil)
)
