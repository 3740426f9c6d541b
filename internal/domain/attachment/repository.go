package attachment

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a *Attachment) error
	GetByID(ctx context.Context, attachmentID string) (*Attachment, error)
	GetByPath(ctx context.Context, storagePath string) (*Attachment, error)
	// ListForEntity returns attachments oldest first.
	ListForEntity(ctx context.Context, entityType EntityType, entityID string) ([]*Attachment, error)
	ListByTicket(ctx context.Context, ticketID string) ([]*Attachment, error)
	// Rebind moves staged ticket-level uploads onto the message that
	// references them.
	Rebind(ctx context.Context, storagePaths []string, entityType EntityType, entityID string) error
	// ListOrphans returns ticket-level uploads created before cutoff whose
	// path no message references.
	ListOrphans(ctx context.Context, cutoff time.Time, limit int) ([]*Attachment, error)
	Delete(ctx context.Context, attachmentID string) error
}
