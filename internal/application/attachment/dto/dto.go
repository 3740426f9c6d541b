package dto

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/customerly-inc/customerly/internal/domain/attachment"
)

type AttachmentDTO struct {
	ID           string    `json:"id"`
	Path         string    `json:"path"`
	FileName     string    `json:"file_name"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	SizeLabel    string    `json:"size_label"`
	IsImage      bool      `json:"is_image"`
	EntityType   string    `json:"entity_type"`
	EntityID     string    `json:"entity_id"`
	TicketID     string    `json:"ticket_id"`
	UploaderID   string    `json:"uploader_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// SignedURLDTO is a short-lived link to attachment content.
type SignedURLDTO struct {
	URL         string    `json:"url"`
	ExpiresAt   time.Time `json:"expires_at"`
	ContentType string    `json:"content_type"`
	FileName    string    `json:"file_name"`
}

func ToAttachmentDTO(a *attachment.Attachment) *AttachmentDTO {
	if a == nil {
		return nil
	}
	return &AttachmentDTO{
		ID:           a.ID(),
		Path:         a.StoragePath(),
		FileName:     a.FileName(),
		OriginalName: a.OriginalName(),
		ContentType:  a.ContentType(),
		Size:         a.Size(),
		SizeLabel:    humanize.Bytes(uint64(a.Size())),
		IsImage:      a.IsImage(),
		EntityType:   string(a.EntityType()),
		EntityID:     a.EntityID(),
		TicketID:     a.TicketID(),
		UploaderID:   a.UploaderID(),
		CreatedAt:    a.CreatedAt(),
	}
}

func ToAttachmentDTOs(items []*attachment.Attachment) []*AttachmentDTO {
	out := make([]*AttachmentDTO, 0, len(items))
	for _, a := range items {
		out = append(out, ToAttachmentDTO(a))
	}
	return out
}
