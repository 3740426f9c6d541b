package usecases

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customerly-inc/customerly/internal/domain/attachment"
	"github.com/customerly-inc/customerly/internal/domain/ticket"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

func TestUploadAttachmentUseCase_Execute(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		wantErr  func(error) bool
		wantType string
		wantExt  string
	}{
		{name: "png is sniffed", content: pngHeader, wantType: "image/png", wantExt: ".png"},
		{name: "plain text", content: []byte("hello support"), wantType: "text/plain", wantExt: ".txt"},
		{name: "empty file", content: []byte{}, wantErr: errors.IsValidationError},
		{name: "too large", content: bytes.Repeat([]byte("a"), 2048), wantErr: errors.IsValidationError},
		{name: "shell script is blocked", content: []byte("#!/bin/sh\nrm -rf /\n"), wantErr: errors.IsValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := newOwnedTicket(t)
			repo := newMemAttachmentRepository()
			blobs := newMemBlobStore()
			uc := NewUploadAttachmentUseCase(
				&mockTicketRepository{tickets: map[string]*ticket.Ticket{tk.ID(): tk}},
				&mockMessageRepository{}, repo, blobs, Limits{MaxSize: 1024}, logger.NewNop(),
			)

			result, err := uc.Execute(context.Background(), UploadAttachmentCommand{
				Actor:    customer,
				TicketID: tk.ID(),
				FileName: "../../etc/report",
				Content:  bytes.NewReader(tt.content),
			})

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), "unexpected error: %v", err)
				assert.Empty(t, blobs.blobs)
				return
			}
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(result.Path, attachment.TicketPrefix(tk.ID())))
			assert.True(t, strings.HasSuffix(result.Path, tt.wantExt), result.Path)
			assert.True(t, strings.HasPrefix(result.ContentType, tt.wantType), result.ContentType)
			assert.Equal(t, "report", result.OriginalName)
			assert.Equal(t, "ticket", result.EntityType)
			assert.Equal(t, tk.ID(), result.EntityID)
			assert.Equal(t, int64(len(tt.content)), result.Size)
			assert.True(t, blobs.has(result.Path))
		})
	}
}

func TestUploadAttachmentUseCase_StrangerIsDenied(t *testing.T) {
	tk := newOwnedTicket(t)
	blobs := newMemBlobStore()
	uc := NewUploadAttachmentUseCase(
		&mockTicketRepository{tickets: map[string]*ticket.Ticket{tk.ID(): tk}},
		&mockMessageRepository{}, newMemAttachmentRepository(), blobs, Limits{}, logger.NewNop(),
	)

	_, err := uc.Execute(context.Background(), UploadAttachmentCommand{
		Actor:    stranger,
		TicketID: tk.ID(),
		FileName: "a.png",
		Content:  bytes.NewReader(pngHeader),
	})

	require.Error(t, err)
	assert.True(t, errors.IsForbiddenError(err))
	assert.Empty(t, blobs.blobs)
}

func TestUploadAttachmentUseCase_RecordFailureRemovesContent(t *testing.T) {
	tk := newOwnedTicket(t)
	repo := newMemAttachmentRepository()
	repo.CreateFunc = func(context.Context, *attachment.Attachment) error {
		return stderrors.New("db down")
	}
	blobs := newMemBlobStore()
	uc := NewUploadAttachmentUseCase(
		&mockTicketRepository{tickets: map[string]*ticket.Ticket{tk.ID(): tk}},
		&mockMessageRepository{}, repo, blobs, Limits{}, logger.NewNop(),
	)

	_, err := uc.Execute(context.Background(), UploadAttachmentCommand{
		Actor:    customer,
		TicketID: tk.ID(),
		FileName: "a.png",
		Content:  bytes.NewReader(pngHeader),
	})

	require.Error(t, err)
	assert.Empty(t, blobs.blobs)
}

func TestGetAttachmentURLUseCase_Execute(t *testing.T) {
	tk := newOwnedTicket(t)
	note, err := ticket.NewMessage(tk.ID(), agent.UserID, "see log", true, nil)
	require.NoError(t, err)
	now := time.Now().UTC()

	image := newStoredAttachment(t, tk, "photo", "image/png", attachment.EntityTicket, tk.ID(), now)
	doc := newStoredAttachment(t, tk, "invoice", "application/pdf", attachment.EntityTicket, tk.ID(), now)
	secret := newStoredAttachment(t, tk, "log", "text/plain", attachment.EntityMessage, note.ID(), now)

	tests := []struct {
		name    string
		query   GetAttachmentURLQuery
		wantTTL time.Duration
		wantErr func(error) bool
	}{
		{name: "download link", query: GetAttachmentURLQuery{Actor: customer, AttachmentID: doc.ID()}, wantTTL: 60 * time.Second},
		{name: "preview link by path", query: GetAttachmentURLQuery{Actor: customer, Path: image.StoragePath(), Preview: true}, wantTTL: 300 * time.Second},
		{name: "preview needs an image", query: GetAttachmentURLQuery{Actor: customer, AttachmentID: doc.ID(), Preview: true}, wantErr: errors.IsValidationError},
		{name: "internal note file hidden from customer", query: GetAttachmentURLQuery{Actor: customer, AttachmentID: secret.ID()}, wantErr: errors.IsNotFoundError},
		{name: "internal note file visible to staff", query: GetAttachmentURLQuery{Actor: agent, AttachmentID: secret.ID()}, wantTTL: 60 * time.Second},
		{name: "stranger denied", query: GetAttachmentURLQuery{Actor: stranger, AttachmentID: doc.ID()}, wantErr: errors.IsForbiddenError},
		{name: "needs an identifier", query: GetAttachmentURLQuery{Actor: customer}, wantErr: errors.IsValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signer := &mockSigner{}
			uc := NewGetAttachmentURLUseCase(
				&mockTicketRepository{tickets: map[string]*ticket.Ticket{tk.ID(): tk}},
				&mockMessageRepository{messages: map[string]*ticket.Message{note.ID(): note}},
				newMemAttachmentRepository(image, doc, secret),
				signer, Limits{}, logger.NewNop(),
			)

			result, err := uc.Execute(context.Background(), tt.query)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), "unexpected error: %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTTL, signer.lastTTL)
			assert.NotEmpty(t, result.URL)
			assert.True(t, result.ExpiresAt.After(time.Now()))
		})
	}
}

func TestDeleteAttachmentUseCase_Execute(t *testing.T) {
	tk := newOwnedTicket(t)
	reply, err := ticket.NewMessage(tk.ID(), customer.UserID, "see file", false, nil)
	require.NoError(t, err)
	now := time.Now().UTC()

	tests := []struct {
		name    string
		cmd     func(staged, bound *attachment.Attachment) (DeleteAttachmentCommand, string)
		wantErr func(error) bool
	}{
		{
			name: "uploader removes staged file",
			cmd: func(staged, _ *attachment.Attachment) (DeleteAttachmentCommand, string) {
				return DeleteAttachmentCommand{Actor: customer, AttachmentID: staged.ID()}, staged.StoragePath()
			},
		},
		{
			name: "uploader cannot remove file bound to a message",
			cmd: func(_, bound *attachment.Attachment) (DeleteAttachmentCommand, string) {
				return DeleteAttachmentCommand{Actor: customer, Path: bound.StoragePath()}, bound.StoragePath()
			},
			wantErr: errors.IsForbiddenError,
		},
		{
			name: "staff removes bound file",
			cmd: func(_, bound *attachment.Attachment) (DeleteAttachmentCommand, string) {
				return DeleteAttachmentCommand{Actor: agent, AttachmentID: bound.ID()}, bound.StoragePath()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			staged := newStoredAttachment(t, tk, "staged", "image/png", attachment.EntityTicket, tk.ID(), now)
			bound := newStoredAttachment(t, tk, "bound", "image/png", attachment.EntityMessage, reply.ID(), now)
			repo := newMemAttachmentRepository(staged, bound)
			blobs := newMemBlobStore()
			blobs.blobs[staged.StoragePath()] = pngHeader
			blobs.blobs[bound.StoragePath()] = pngHeader
			uc := NewDeleteAttachmentUseCase(
				&mockTicketRepository{tickets: map[string]*ticket.Ticket{tk.ID(): tk}},
				&mockMessageRepository{messages: map[string]*ticket.Message{reply.ID(): reply}},
				repo, blobs, logger.NewNop(),
			)
			cmd, p := tt.cmd(staged, bound)

			err := uc.Execute(context.Background(), cmd)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), "unexpected error: %v", err)
				assert.True(t, blobs.has(p))
				return
			}
			require.NoError(t, err)
			assert.False(t, blobs.has(p))
			_, err = repo.GetByPath(context.Background(), p)
			assert.True(t, errors.IsNotFoundError(err))
		})
	}
}

func TestDeleteAttachmentUseCase_StorageFailureKeepsRecord(t *testing.T) {
	tk := newOwnedTicket(t)
	staged := newStoredAttachment(t, tk, "staged", "image/png", attachment.EntityTicket, tk.ID(), time.Now().UTC())
	repo := newMemAttachmentRepository(staged)
	blobs := newMemBlobStore()
	blobs.deleteErr = stderrors.New("permission denied")
	uc := NewDeleteAttachmentUseCase(
		&mockTicketRepository{tickets: map[string]*ticket.Ticket{tk.ID(): tk}},
		&mockMessageRepository{}, repo, blobs, logger.NewNop(),
	)

	err := uc.Execute(context.Background(), DeleteAttachmentCommand{Actor: customer, AttachmentID: staged.ID()})

	require.Error(t, err)
	_, err = repo.GetByID(context.Background(), staged.ID())
	assert.NoError(t, err)
}

func TestListAttachmentsUseCase_OldestFirst(t *testing.T) {
	tk := newOwnedTicket(t)
	base := time.Now().UTC().Add(-time.Hour)
	second := newStoredAttachment(t, tk, "second", "image/png", attachment.EntityTicket, tk.ID(), base.Add(time.Minute))
	first := newStoredAttachment(t, tk, "first", "image/png", attachment.EntityTicket, tk.ID(), base)
	uc := NewListAttachmentsUseCase(
		&mockTicketRepository{tickets: map[string]*ticket.Ticket{tk.ID(): tk}},
		&mockMessageRepository{}, newMemAttachmentRepository(second, first), logger.NewNop(),
	)

	items, err := uc.Execute(context.Background(), ListAttachmentsQuery{Actor: customer, EntityType: "ticket", EntityID: tk.ID()})

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID(), items[0].ID)
	assert.Equal(t, second.ID(), items[1].ID)

	_, err = uc.Execute(context.Background(), ListAttachmentsQuery{Actor: customer, EntityType: "comment", EntityID: tk.ID()})
	assert.True(t, errors.IsValidationError(err))
}

func TestSweepOrphansUseCase_Execute(t *testing.T) {
	tk := newOwnedTicket(t)
	now := time.Now().UTC()
	stale := newStoredAttachment(t, tk, "stale", "image/png", attachment.EntityTicket, tk.ID(), now.Add(-48*time.Hour))
	fresh := newStoredAttachment(t, tk, "fresh", "image/png", attachment.EntityTicket, tk.ID(), now.Add(-time.Hour))
	repo := newMemAttachmentRepository(stale, fresh)
	blobs := newMemBlobStore()
	blobs.blobs[stale.StoragePath()] = pngHeader
	blobs.blobs[fresh.StoragePath()] = pngHeader
	uc := NewSweepOrphansUseCase(repo, blobs, 24*time.Hour, logger.NewNop())

	removed, err := uc.Execute(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.False(t, blobs.has(stale.StoragePath()))
	assert.True(t, blobs.has(fresh.StoragePath()))
}
