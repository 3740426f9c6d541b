package usecases

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/customerly-inc/customerly/internal/domain/attachment"
	"github.com/customerly-inc/customerly/internal/domain/ticket"
	vo "github.com/customerly-inc/customerly/internal/domain/ticket/valueobjects"
	"github.com/customerly-inc/customerly/internal/shared/authorization"
	"github.com/customerly-inc/customerly/internal/shared/errors"
)

var (
	customer = authorization.Actor{UserID: "usr_customer1", Role: authorization.RoleCustomer}
	stranger = authorization.Actor{UserID: "usr_customer2", Role: authorization.RoleCustomer}
	agent    = authorization.Actor{UserID: "usr_agent1", Role: authorization.RoleAgent}
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type mockTicketRepository struct {
	tickets map[string]*ticket.Ticket
}

func (m *mockTicketRepository) Create(context.Context, *ticket.Ticket) error { return nil }
func (m *mockTicketRepository) Update(context.Context, *ticket.Ticket) error { return nil }
func (m *mockTicketRepository) Delete(context.Context, string) error         { return nil }

func (m *mockTicketRepository) GetByID(_ context.Context, ticketID string) (*ticket.Ticket, error) {
	if t, ok := m.tickets[ticketID]; ok {
		return t, nil
	}
	return nil, errors.NewNotFoundError("ticket not found")
}

func (m *mockTicketRepository) List(context.Context, ticket.Filter) ([]*ticket.Ticket, int64, error) {
	return nil, 0, nil
}

func (m *mockTicketRepository) ListOverdue(context.Context, time.Time) ([]*ticket.Ticket, error) {
	return nil, nil
}

type mockMessageRepository struct {
	messages map[string]*ticket.Message
}

func (m *mockMessageRepository) Create(context.Context, *ticket.Message) error { return nil }

func (m *mockMessageRepository) GetByID(_ context.Context, messageID string) (*ticket.Message, error) {
	if msg, ok := m.messages[messageID]; ok {
		return msg, nil
	}
	return nil, errors.NewNotFoundError("message not found")
}

func (m *mockMessageRepository) ListByTicket(context.Context, string, bool) ([]*ticket.Message, error) {
	return nil, nil
}
func (m *mockMessageRepository) Delete(context.Context, string) error         { return nil }
func (m *mockMessageRepository) DeleteByTicket(context.Context, string) error { return nil }

// memAttachmentRepository is a map-backed attachment store.
type memAttachmentRepository struct {
	mu         sync.Mutex
	items      map[string]*attachment.Attachment
	CreateFunc func(ctx context.Context, a *attachment.Attachment) error
}

func newMemAttachmentRepository(items ...*attachment.Attachment) *memAttachmentRepository {
	repo := &memAttachmentRepository{items: make(map[string]*attachment.Attachment)}
	for _, a := range items {
		repo.items[a.ID()] = a
	}
	return repo
}

func (m *memAttachmentRepository) Create(ctx context.Context, a *attachment.Attachment) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, a); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[a.ID()] = a
	return nil
}

func (m *memAttachmentRepository) GetByID(_ context.Context, attachmentID string) (*attachment.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.items[attachmentID]; ok {
		return a, nil
	}
	return nil, errors.NewNotFoundError("attachment not found")
}

func (m *memAttachmentRepository) GetByPath(_ context.Context, storagePath string) (*attachment.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.items {
		if a.StoragePath() == storagePath {
			return a, nil
		}
	}
	return nil, errors.NewNotFoundError("attachment not found")
}

func (m *memAttachmentRepository) ListForEntity(_ context.Context, entityType attachment.EntityType, entityID string) ([]*attachment.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*attachment.Attachment
	for _, a := range m.items {
		if a.EntityType() == entityType && a.EntityID() == entityID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().Before(out[j].CreatedAt()) })
	return out, nil
}

func (m *memAttachmentRepository) ListByTicket(_ context.Context, ticketID string) ([]*attachment.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*attachment.Attachment
	for _, a := range m.items {
		if a.TicketID() == ticketID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAttachmentRepository) Rebind(context.Context, []string, attachment.EntityType, string) error {
	return nil
}

func (m *memAttachmentRepository) ListOrphans(_ context.Context, cutoff time.Time, limit int) ([]*attachment.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*attachment.Attachment
	for _, a := range m.items {
		if a.EntityType() == attachment.EntityTicket && a.CreatedAt().Before(cutoff) && len(out) < limit {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAttachmentRepository) Delete(_ context.Context, attachmentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, attachmentID)
	return nil
}

type memBlobStore struct {
	mu        sync.Mutex
	blobs     map[string][]byte
	deleteErr error
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: make(map[string][]byte)}
}

func (m *memBlobStore) Put(_ context.Context, storagePath string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[storagePath] = data
	return nil
}

func (m *memBlobStore) Delete(_ context.Context, storagePath string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, storagePath)
	return nil
}

func (m *memBlobStore) has(storagePath string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[storagePath]
	return ok
}

type mockSigner struct {
	lastTTL time.Duration
}

func (m *mockSigner) Sign(storagePath string, ttl time.Duration) (string, time.Time, error) {
	m.lastTTL = ttl
	return fmt.Sprintf("https://files.test/%s?ttl=%d", strings.TrimPrefix(storagePath, "/"), int(ttl.Seconds())), time.Now().Add(ttl), nil
}

func newOwnedTicket(t *testing.T) *ticket.Ticket {
	t.Helper()
	tk, err := ticket.NewTicket("Broken upload", "", vo.PriorityLow, vo.SourceChat, customer.UserID, nil, nil)
	require.NoError(t, err)
	return tk
}

func newStoredAttachment(t *testing.T, tk *ticket.Ticket, name, contentType string, entityType attachment.EntityType, entityID string, createdAt time.Time) *attachment.Attachment {
	t.Helper()
	p := attachment.BuildPath(tk.ID(), createdAt, name, ".bin")
	return attachment.ReconstructAttachment(
		"att_"+name, p, name+".bin", name, contentType, 100,
		entityType, entityID, tk.ID(), customer.UserID, createdAt,
	)
}
