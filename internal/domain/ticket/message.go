package ticket

import (
	"fmt"
	"strings"
	"time"

	"github.com/customerly-inc/customerly/internal/shared/biztime"
	"github.com/customerly-inc/customerly/internal/shared/id"
)

const maxMessageLength = 10000

// Message is one entry in a ticket thread. Internal messages are notes
// visible to staff only.
type Message struct {
	id          string
	ticketID    string
	senderID    string
	content     string
	isInternal  bool
	attachments []string
	createdAt   time.Time
	updatedAt   time.Time
}

// NewMessage accepts empty content only when the message carries attachments.
func NewMessage(ticketID, senderID, content string, isInternal bool, attachments []string) (*Message, error) {
	if ticketID == "" {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if senderID == "" {
		return nil, fmt.Errorf("sender ID is required")
	}
	if strings.TrimSpace(content) == "" && len(attachments) == 0 {
		return nil, fmt.Errorf("message must have content or attachments")
	}
	if len(content) > maxMessageLength {
		return nil, fmt.Errorf("content exceeds maximum length of %d characters", maxMessageLength)
	}
	paths := make([]string, 0, len(attachments))
	seen := make(map[string]bool, len(attachments))
	for _, p := range attachments {
		if !IsTicketPath(ticketID, p) {
			return nil, fmt.Errorf("attachment %q does not belong to ticket %s", p, ticketID)
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		paths = append(paths, p)
	}

	now := biztime.NowUTC()
	return &Message{
		id:          id.NewMessageID(),
		ticketID:    ticketID,
		senderID:    senderID,
		content:     content,
		isInternal:  isInternal,
		attachments: paths,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructMessage(
	messageID, ticketID, senderID, content string,
	isInternal bool,
	attachments []string,
	createdAt, updatedAt time.Time,
) (*Message, error) {
	if messageID == "" {
		return nil, fmt.Errorf("message ID is required")
	}
	if attachments == nil {
		attachments = []string{}
	}
	return &Message{
		id:          messageID,
		ticketID:    ticketID,
		senderID:    senderID,
		content:     content,
		isInternal:  isInternal,
		attachments: attachments,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (m *Message) ID() string           { return m.id }
func (m *Message) TicketID() string     { return m.ticketID }
func (m *Message) SenderID() string     { return m.senderID }
func (m *Message) Content() string      { return m.content }
func (m *Message) IsInternal() bool     { return m.isInternal }
func (m *Message) CreatedAt() time.Time { return m.createdAt }
func (m *Message) UpdatedAt() time.Time { return m.updatedAt }

func (m *Message) Attachments() []string {
	out := make([]string, len(m.attachments))
	copy(out, m.attachments)
	return out
}

// CanBeViewedBy hides internal notes from customers.
func (m *Message) CanBeViewedBy(isStaff bool) bool {
	return isStaff || !m.isInternal
}

// IsTicketPath reports whether a storage path lives under the ticket's
// namespace ("tickets/{ticketID}/...").
func IsTicketPath(ticketID, path string) bool {
	prefix := "tickets/" + ticketID + "/"
	return strings.HasPrefix(path, prefix) && len(path) > len(prefix) && !strings.Contains(path, "..")
}
