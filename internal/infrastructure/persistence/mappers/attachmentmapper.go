package mappers

import (
	"github.com/customerly-inc/customerly/internal/domain/attachment"
	"github.com/customerly-inc/customerly/internal/infrastructure/persistence/models"
)

func AttachmentToModel(a *attachment.Attachment) *models.AttachmentModel {
	return &models.AttachmentModel{
		ID:           a.ID(),
		StoragePath:  a.StoragePath(),
		FileName:     a.FileName(),
		OriginalName: a.OriginalName(),
		ContentType:  a.ContentType(),
		Size:         a.Size(),
		EntityType:   string(a.EntityType()),
		EntityID:     a.EntityID(),
		TicketID:     a.TicketID(),
		UploaderID:   a.UploaderID(),
		CreatedAt:    toMillis(a.CreatedAt()),
	}
}

func AttachmentToDomain(m *models.AttachmentModel) *attachment.Attachment {
	return attachment.ReconstructAttachment(
		m.ID,
		m.StoragePath,
		m.FileName,
		m.OriginalName,
		m.ContentType,
		m.Size,
		attachment.EntityType(m.EntityType),
		m.EntityID,
		m.TicketID,
		m.UploaderID,
		fromMillis(m.CreatedAt),
	)
}
