package helpdesk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrEmptyMessage is returned by Submit when there is no text and
	// nothing staged. No request is made.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrSendFailed wraps every upload or send failure from Submit.
	ErrSendFailed = errors.New("failed to send message")
)

const rollbackTimeout = 10 * time.Second

// Mode selects between a customer-visible reply and an internal note.
type Mode int

const (
	ModeReply Mode = iota
	ModeNote
)

func (m Mode) String() string {
	if m == ModeNote {
		return "note"
	}
	return "reply"
}

// MessageSender is the part of *Client the composer needs.
type MessageSender interface {
	UploadAttachment(ctx context.Context, ticketID, fileName string, content io.Reader) (*Attachment, error)
	DeleteAttachment(ctx context.Context, attachmentID string) error
	SendMessage(ctx context.Context, ticketID string, in SendMessageInput) (*Message, error)
}

// StagedFile is a local file waiting to be uploaded with the next message.
type StagedFile struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// StagePath stages a file from disk. It is opened at submit time.
func StagePath(path string) StagedFile {
	return StagedFile{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// StageBytes stages in-memory content.
func StageBytes(name string, data []byte) StagedFile {
	return StagedFile{
		Name: name,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// Composer holds the draft for one ticket.
type Composer struct {
	sender   MessageSender
	ticketID string

	mode   Mode
	draft  string
	staged []StagedFile
}

func NewComposer(sender MessageSender, ticketID string) *Composer {
	return &Composer{sender: sender, ticketID: ticketID}
}

func (c *Composer) TicketID() string { return c.ticketID }

func (c *Composer) Mode() Mode { return c.mode }

// Toggle switches between reply and note. The draft is kept.
func (c *Composer) Toggle() {
	if c.mode == ModeNote {
		c.mode = ModeReply
		return
	}
	c.mode = ModeNote
}

func (c *Composer) SetMode(m Mode) { c.mode = m }

func (c *Composer) IsInternal() bool { return c.mode == ModeNote }

func (c *Composer) Placeholder() string {
	if c.mode == ModeNote {
		return "Add an internal note, only staff can see it..."
	}
	return "Type your reply to the customer..."
}

func (c *Composer) SubmitLabel() string {
	if c.mode == ModeNote {
		return "Add note"
	}
	return "Send reply"
}

func (c *Composer) Draft() string { return c.draft }

func (c *Composer) SetDraft(s string) { c.draft = s }

// Stage adds a file. A file with the same name replaces the earlier one.
func (c *Composer) Stage(f StagedFile) {
	for i := range c.staged {
		if c.staged[i].Name == f.Name {
			c.staged[i] = f
			return
		}
	}
	c.staged = append(c.staged, f)
}

func (c *Composer) Unstage(name string) bool {
	for i := range c.staged {
		if c.staged[i].Name == name {
			c.staged = append(c.staged[:i:i], c.staged[i+1:]...)
			return true
		}
	}
	return false
}

// Staged returns the names of staged files in staging order.
func (c *Composer) Staged() []string {
	names := make([]string, len(c.staged))
	for i, f := range c.staged {
		names[i] = f.Name
	}
	return names
}

// Submit uploads every staged file, then creates the message referencing
// the uploaded paths. Any failure deletes what this call uploaded, keeps
// the draft, and returns an error wrapping ErrSendFailed. On success the
// draft and staged files are cleared; the mode is kept.
func (c *Composer) Submit(ctx context.Context) (*Message, error) {
	content := strings.TrimSpace(c.draft)
	if content == "" && len(c.staged) == 0 {
		return nil, ErrEmptyMessage
	}

	uploaded := make([]*Attachment, 0, len(c.staged))
	for _, f := range c.staged {
		att, err := c.upload(ctx, f)
		if err != nil {
			return nil, c.abort(ctx, uploaded, fmt.Errorf("upload %s: %w", f.Name, err))
		}
		uploaded = append(uploaded, att)
	}

	paths := make([]string, len(uploaded))
	for i, att := range uploaded {
		paths[i] = att.Path
	}

	msg, err := c.sender.SendMessage(ctx, c.ticketID, SendMessageInput{
		Content:     content,
		IsInternal:  c.IsInternal(),
		Attachments: paths,
	})
	if err != nil {
		return nil, c.abort(ctx, uploaded, err)
	}

	c.draft = ""
	c.staged = nil
	return msg, nil
}

func (c *Composer) upload(ctx context.Context, f StagedFile) (*Attachment, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return c.sender.UploadAttachment(ctx, c.ticketID, f.Name, rc)
}

// abort removes this send's uploads. Rollback still runs when ctx is
// already canceled.
func (c *Composer) abort(ctx context.Context, uploaded []*Attachment, cause error) error {
	errs := []error{ErrSendFailed, cause}
	if len(uploaded) > 0 {
		rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
		defer cancel()
		for _, att := range uploaded {
			if err := c.sender.DeleteAttachment(rbCtx, att.ID); err != nil {
				errs = append(errs, fmt.Errorf("rollback %s: %w", att.ID, err))
			}
		}
	}
	return errors.Join(errs...)
}
