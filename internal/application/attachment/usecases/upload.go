package usecases

import (
	"bytes"
	"context"
	"io"
	"path"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"github.com/customerly-inc/customerly/internal/application/attachment/dto"
	"github.com/customerly-inc/customerly/internal/domain/attachment"
	"github.com/customerly-inc/customerly/internal/domain/ticket"
	"github.com/customerly-inc/customerly/internal/shared/authorization"
	"github.com/customerly-inc/customerly/internal/shared/biztime"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/id"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

const randomSegmentLength = 10

// blockedTypes are never stored, whatever the client calls them.
var blockedTypes = []string{
	"application/vnd.microsoft.portable-executable",
	"application/x-elf",
	"application/x-executable",
	"application/x-sharedlib",
	"application/x-mach-binary",
	"application/x-msi",
	"text/x-shellscript",
	"application/x-bat",
}

func isBlocked(mtype *mimetype.MIME) bool {
	for _, b := range blockedTypes {
		if mtype.Is(b) {
			return true
		}
	}
	return false
}

type UploadAttachmentCommand struct {
	Actor    authorization.Actor
	TicketID string
	FileName string
	Content  io.Reader
}

// UploadAttachmentUseCase stages a file on a ticket. The returned path is
// what a message later references; until then the file belongs to the
// ticket and the orphan sweeper may reclaim it.
type UploadAttachmentUseCase struct {
	access         accessChecker
	attachmentRepo attachment.Repository
	blobs          BlobStore
	limits         Limits
	logger         logger.Interface
}

func NewUploadAttachmentUseCase(
	ticketRepo ticket.Repository,
	messageRepo ticket.MessageRepository,
	attachmentRepo attachment.Repository,
	blobs BlobStore,
	limits Limits,
	logger logger.Interface,
) *UploadAttachmentUseCase {
	if limits.MaxSize <= 0 {
		limits.MaxSize = DefaultMaxSize
	}
	return &UploadAttachmentUseCase{
		access:         accessChecker{ticketRepo: ticketRepo, messageRepo: messageRepo},
		attachmentRepo: attachmentRepo,
		blobs:          blobs,
		limits:         limits,
		logger:         logger,
	}
}

func (uc *UploadAttachmentUseCase) Execute(ctx context.Context, cmd UploadAttachmentCommand) (*dto.AttachmentDTO, error) {
	uc.logger.Infow("executing upload attachment use case",
		"ticket_id", cmd.TicketID,
		"file_name", cmd.FileName,
		"uploader_id", cmd.Actor.UserID,
	)

	if cmd.Content == nil {
		return nil, errors.NewValidationError("file is required")
	}
	t, err := uc.access.ticket(ctx, cmd.TicketID, cmd.Actor)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(cmd.Content, uc.limits.MaxSize+1))
	if err != nil {
		return nil, errors.NewBadRequestError("failed to read upload", err.Error())
	}
	if len(data) == 0 {
		return nil, errors.NewValidationError("file is empty")
	}
	if int64(len(data)) > uc.limits.MaxSize {
		return nil, errors.NewValidationError("file exceeds maximum size of " + humanize.Bytes(uint64(uc.limits.MaxSize)))
	}

	mtype := mimetype.Detect(data)
	if isBlocked(mtype) {
		uc.logger.Warnw("rejected blocked upload type", "ticket_id", t.ID(), "content_type", mtype.String())
		return nil, errors.NewValidationError("file type is not allowed", mtype.String())
	}

	random, err := id.Generate(randomSegmentLength)
	if err != nil {
		return nil, errors.NewInternalError("failed to name upload")
	}
	storagePath := attachment.BuildPath(t.ID(), biztime.NowUTC(), random, extensionFor(mtype, cmd.FileName))

	a, err := attachment.NewAttachment(
		storagePath,
		cmd.FileName,
		mtype.String(),
		int64(len(data)),
		attachment.EntityTicket,
		t.ID(),
		t.ID(),
		cmd.Actor.UserID,
	)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.blobs.Put(ctx, storagePath, bytes.NewReader(data), int64(len(data)), mtype.String()); err != nil {
		uc.logger.Errorw("failed to store upload", "path", storagePath, "error", err)
		return nil, errors.NewInternalError("failed to store file")
	}
	if err := uc.attachmentRepo.Create(ctx, a); err != nil {
		if delErr := uc.blobs.Delete(ctx, storagePath); delErr != nil {
			uc.logger.Warnw("failed to remove unrecorded upload", "path", storagePath, "error", delErr)
		}
		uc.logger.Errorw("failed to record upload", "path", storagePath, "error", err)
		return nil, asAppError(err, "failed to record upload")
	}

	uc.logger.Infow("attachment uploaded successfully",
		"attachment_id", a.ID(),
		"path", storagePath,
		"size", humanize.Bytes(uint64(a.Size())),
	)
	return dto.ToAttachmentDTO(a), nil
}

// extensionFor prefers the detected extension and falls back to the
// client's when detection only found a generic type.
func extensionFor(mtype *mimetype.MIME, fileName string) string {
	if ext := mtype.Extension(); ext != "" {
		return ext
	}
	ext := strings.ToLower(path.Ext(attachment.SanitizeName(fileName)))
	if len(ext) > 10 || strings.ContainsAny(ext, " /\\") {
		return ""
	}
	return ext
}
