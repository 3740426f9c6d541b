package attachment

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/customerly-inc/customerly/internal/shared/biztime"
	"github.com/customerly-inc/customerly/internal/shared/id"
)

// EntityType names what an attachment hangs off. Blob paths are always
// namespaced by ticket so that a message attachment lives next to its ticket.
type EntityType string

const (
	EntityTicket  EntityType = "ticket"
	EntityMessage EntityType = "message"
)

func (e EntityType) IsValid() bool {
	return e == EntityTicket || e == EntityMessage
}

const maxOriginalNameLength = 255

type Attachment struct {
	id           string
	storagePath  string
	fileName     string
	originalName string
	contentType  string
	size         int64
	entityType   EntityType
	entityID     string
	ticketID     string
	uploaderID   string
	createdAt    time.Time
}

// NewAttachment records a blob that has already been written to storagePath.
func NewAttachment(
	storagePath string,
	originalName string,
	contentType string,
	size int64,
	entityType EntityType,
	entityID string,
	ticketID string,
	uploaderID string,
) (*Attachment, error) {
	if !entityType.IsValid() {
		return nil, fmt.Errorf("invalid entity type: %s", entityType)
	}
	if entityID == "" || ticketID == "" {
		return nil, fmt.Errorf("entity and ticket references are required")
	}
	if uploaderID == "" {
		return nil, fmt.Errorf("uploader ID is required")
	}
	if size <= 0 {
		return nil, fmt.Errorf("attachment is empty")
	}
	if !strings.HasPrefix(storagePath, TicketPrefix(ticketID)) {
		return nil, fmt.Errorf("storage path %q is outside ticket %s", storagePath, ticketID)
	}
	originalName = SanitizeName(originalName)

	return &Attachment{
		id:           id.NewAttachmentID(),
		storagePath:  storagePath,
		fileName:     path.Base(storagePath),
		originalName: originalName,
		contentType:  contentType,
		size:         size,
		entityType:   entityType,
		entityID:     entityID,
		ticketID:     ticketID,
		uploaderID:   uploaderID,
		createdAt:    biztime.NowUTC(),
	}, nil
}

func ReconstructAttachment(
	attachmentID, storagePath, fileName, originalName, contentType string,
	size int64,
	entityType EntityType,
	entityID, ticketID, uploaderID string,
	createdAt time.Time,
) *Attachment {
	return &Attachment{
		id:           attachmentID,
		storagePath:  storagePath,
		fileName:     fileName,
		originalName: originalName,
		contentType:  contentType,
		size:         size,
		entityType:   entityType,
		entityID:     entityID,
		ticketID:     ticketID,
		uploaderID:   uploaderID,
		createdAt:    createdAt,
	}
}

func (a *Attachment) ID() string             { return a.id }
func (a *Attachment) StoragePath() string    { return a.storagePath }
func (a *Attachment) FileName() string       { return a.fileName }
func (a *Attachment) OriginalName() string   { return a.originalName }
func (a *Attachment) ContentType() string    { return a.contentType }
func (a *Attachment) Size() int64            { return a.size }
func (a *Attachment) EntityType() EntityType { return a.entityType }
func (a *Attachment) EntityID() string       { return a.entityID }
func (a *Attachment) TicketID() string       { return a.ticketID }
func (a *Attachment) UploaderID() string     { return a.uploaderID }
func (a *Attachment) CreatedAt() time.Time   { return a.createdAt }

// IsImage reports whether the attachment can be previewed inline. SVG is
// excluded since it can carry script.
func (a *Attachment) IsImage() bool {
	base, _, _ := strings.Cut(a.contentType, ";")
	base = strings.ToLower(strings.TrimSpace(base))
	return strings.HasPrefix(base, "image/") && base != "image/svg+xml"
}

// TicketPrefix is the storage namespace for everything attached to a ticket.
func TicketPrefix(ticketID string) string {
	return "tickets/" + ticketID + "/"
}

// BuildPath names a new blob: tickets/{ticketID}/{unixMillis}_{random}{ext}.
// ext includes the leading dot and may be empty.
func BuildPath(ticketID string, at time.Time, random, ext string) string {
	return fmt.Sprintf("%s%d_%s%s", TicketPrefix(ticketID), at.UnixMilli(), random, ext)
}

// SanitizeName strips directories and control characters from a client
// supplied filename.
func SanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" {
		name = "file"
	}
	if len(name) > maxOriginalNameLength {
		name = name[len(name)-maxOriginalNameLength:]
	}
	return name
}
