package usecases

import (
	"context"
	"io"
	"time"

	"github.com/customerly-inc/customerly/internal/domain/attachment"
	"github.com/customerly-inc/customerly/internal/domain/ticket"
	"github.com/customerly-inc/customerly/internal/shared/authorization"
	"github.com/customerly-inc/customerly/internal/shared/errors"
)

// BlobStore holds attachment content under storage paths.
type BlobStore interface {
	Put(ctx context.Context, storagePath string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, storagePath string) error
}

// URLSigner issues time-limited download links.
type URLSigner interface {
	Sign(storagePath string, ttl time.Duration) (string, time.Time, error)
}

// Limits bounds uploads and signed link lifetimes.
type Limits struct {
	MaxSize     int64
	DownloadTTL time.Duration
	PreviewTTL  time.Duration
}

const (
	DefaultMaxSize     = 25 << 20
	DefaultDownloadTTL = 60 * time.Second
	DefaultPreviewTTL  = 300 * time.Second
)

// accessChecker decides whether an actor may touch an attachment: the
// ticket must be visible and internal-note files stay with staff.
type accessChecker struct {
	ticketRepo  ticket.Repository
	messageRepo ticket.MessageRepository
}

func (c accessChecker) ticket(ctx context.Context, ticketID string, actor authorization.Actor) (*ticket.Ticket, error) {
	t, err := c.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, asAppError(err, "failed to load ticket")
	}
	if !t.CanBeViewedBy(actor.UserID, actor.IsStaff()) {
		return nil, errors.NewForbiddenError("access denied to this ticket")
	}
	return t, nil
}

func (c accessChecker) attachment(ctx context.Context, a *attachment.Attachment, actor authorization.Actor) error {
	if _, err := c.ticket(ctx, a.TicketID(), actor); err != nil {
		return err
	}
	if a.EntityType() != attachment.EntityMessage || actor.IsStaff() {
		return nil
	}
	m, err := c.messageRepo.GetByID(ctx, a.EntityID())
	if err != nil {
		return asAppError(err, "failed to load message")
	}
	if !m.CanBeViewedBy(false) {
		return errors.NewNotFoundError("attachment not found")
	}
	return nil
}

func asAppError(err error, message string) error {
	if errors.IsAppError(err) {
		return err
	}
	return errors.NewInternalError(message, err.Error())
}
