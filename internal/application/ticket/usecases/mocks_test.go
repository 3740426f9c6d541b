package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/customerly-inc/customerly/internal/domain/attachment"
	"github.com/customerly-inc/customerly/internal/domain/ticket"
	vo "github.com/customerly-inc/customerly/internal/domain/ticket/valueobjects"
	"github.com/customerly-inc/customerly/internal/domain/user"
	uvo "github.com/customerly-inc/customerly/internal/domain/user/valueobjects"
	"github.com/customerly-inc/customerly/internal/shared/authorization"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/hubprotocol/ticketfeed"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

// ---------------------------------------------------------------------------
// Repositories
// ---------------------------------------------------------------------------

type mockTicketRepository struct {
	CreateFunc      func(ctx context.Context, t *ticket.Ticket) error
	UpdateFunc      func(ctx context.Context, t *ticket.Ticket) error
	DeleteFunc      func(ctx context.Context, ticketID string) error
	GetByIDFunc     func(ctx context.Context, ticketID string) (*ticket.Ticket, error)
	ListFunc        func(ctx context.Context, filter ticket.Filter) ([]*ticket.Ticket, int64, error)
	ListOverdueFunc func(ctx context.Context, now time.Time) ([]*ticket.Ticket, error)
}

func (m *mockTicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	return nil
}

func (m *mockTicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	return nil
}

func (m *mockTicketRepository) Delete(ctx context.Context, ticketID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, ticketID)
	}
	return nil
}

func (m *mockTicketRepository) GetByID(ctx context.Context, ticketID string) (*ticket.Ticket, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, ticketID)
	}
	return nil, errors.NewNotFoundError("ticket not found")
}

func (m *mockTicketRepository) List(ctx context.Context, filter ticket.Filter) ([]*ticket.Ticket, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockTicketRepository) ListOverdue(ctx context.Context, now time.Time) ([]*ticket.Ticket, error) {
	if m.ListOverdueFunc != nil {
		return m.ListOverdueFunc(ctx, now)
	}
	return nil, nil
}

type mockMessageRepository struct {
	CreateFunc         func(ctx context.Context, msg *ticket.Message) error
	GetByIDFunc        func(ctx context.Context, messageID string) (*ticket.Message, error)
	ListByTicketFunc   func(ctx context.Context, ticketID string, includeInternal bool) ([]*ticket.Message, error)
	DeleteFunc         func(ctx context.Context, messageID string) error
	DeleteByTicketFunc func(ctx context.Context, ticketID string) error
}

func (m *mockMessageRepository) Create(ctx context.Context, msg *ticket.Message) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, msg)
	}
	return nil
}

func (m *mockMessageRepository) GetByID(ctx context.Context, messageID string) (*ticket.Message, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, messageID)
	}
	return nil, errors.NewNotFoundError("message not found")
}

func (m *mockMessageRepository) ListByTicket(ctx context.Context, ticketID string, includeInternal bool) ([]*ticket.Message, error) {
	if m.ListByTicketFunc != nil {
		return m.ListByTicketFunc(ctx, ticketID, includeInternal)
	}
	return nil, nil
}

func (m *mockMessageRepository) Delete(ctx context.Context, messageID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, messageID)
	}
	return nil
}

func (m *mockMessageRepository) DeleteByTicket(ctx context.Context, ticketID string) error {
	if m.DeleteByTicketFunc != nil {
		return m.DeleteByTicketFunc(ctx, ticketID)
	}
	return nil
}

type mockAttachmentRepository struct {
	CreateFunc        func(ctx context.Context, a *attachment.Attachment) error
	GetByIDFunc       func(ctx context.Context, attachmentID string) (*attachment.Attachment, error)
	GetByPathFunc     func(ctx context.Context, storagePath string) (*attachment.Attachment, error)
	ListForEntityFunc func(ctx context.Context, entityType attachment.EntityType, entityID string) ([]*attachment.Attachment, error)
	ListByTicketFunc  func(ctx context.Context, ticketID string) ([]*attachment.Attachment, error)
	RebindFunc        func(ctx context.Context, paths []string, entityType attachment.EntityType, entityID string) error
	ListOrphansFunc   func(ctx context.Context, cutoff time.Time, limit int) ([]*attachment.Attachment, error)
	DeleteFunc        func(ctx context.Context, attachmentID string) error
}

func (m *mockAttachmentRepository) Create(ctx context.Context, a *attachment.Attachment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, a)
	}
	return nil
}

func (m *mockAttachmentRepository) GetByID(ctx context.Context, attachmentID string) (*attachment.Attachment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, attachmentID)
	}
	return nil, errors.NewNotFoundError("attachment not found")
}

func (m *mockAttachmentRepository) GetByPath(ctx context.Context, storagePath string) (*attachment.Attachment, error) {
	if m.GetByPathFunc != nil {
		return m.GetByPathFunc(ctx, storagePath)
	}
	return nil, errors.NewNotFoundError("attachment not found")
}

func (m *mockAttachmentRepository) ListForEntity(ctx context.Context, entityType attachment.EntityType, entityID string) ([]*attachment.Attachment, error) {
	if m.ListForEntityFunc != nil {
		return m.ListForEntityFunc(ctx, entityType, entityID)
	}
	return nil, nil
}

func (m *mockAttachmentRepository) ListByTicket(ctx context.Context, ticketID string) ([]*attachment.Attachment, error) {
	if m.ListByTicketFunc != nil {
		return m.ListByTicketFunc(ctx, ticketID)
	}
	return nil, nil
}

func (m *mockAttachmentRepository) Rebind(ctx context.Context, paths []string, entityType attachment.EntityType, entityID string) error {
	if m.RebindFunc != nil {
		return m.RebindFunc(ctx, paths, entityType, entityID)
	}
	return nil
}

func (m *mockAttachmentRepository) ListOrphans(ctx context.Context, cutoff time.Time, limit int) ([]*attachment.Attachment, error) {
	if m.ListOrphansFunc != nil {
		return m.ListOrphansFunc(ctx, cutoff, limit)
	}
	return nil, nil
}

func (m *mockAttachmentRepository) Delete(ctx context.Context, attachmentID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, attachmentID)
	}
	return nil
}

// mockAgentRepository keeps agents in memory so load changes are observable.
type mockAgentRepository struct {
	mu         sync.Mutex
	agents     map[string]*user.Agent
	UpdateFunc func(ctx context.Context, a *user.Agent) error
}

func newMockAgentRepository(agents ...*user.Agent) *mockAgentRepository {
	repo := &mockAgentRepository{agents: make(map[string]*user.Agent)}
	for _, a := range agents {
		repo.agents[a.ID()] = a
	}
	return repo
}

func (m *mockAgentRepository) Create(_ context.Context, a *user.Agent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.agents[a.ID()] = a
	return nil
}

func (m *mockAgentRepository) Update(ctx context.Context, a *user.Agent) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, a)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.agents[a.ID()] = a
	return nil
}

func (m *mockAgentRepository) TakeTicket(_ context.Context, agentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.agents[agentID]
	if !ok {
		return errors.NewNotFoundError("agent not found")
	}
	if err := a.TakeTicket(); err != nil {
		return errors.NewConflictError(err.Error())
	}
	return nil
}

func (m *mockAgentRepository) ReleaseTicket(_ context.Context, agentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.agents[agentID]
	if !ok {
		return errors.NewNotFoundError("agent not found")
	}
	a.ReleaseTicket()
	return nil
}

func (m *mockAgentRepository) GetByID(_ context.Context, agentID string) (*user.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.agents[agentID]; ok {
		return a, nil
	}
	return nil, errors.NewNotFoundError("agent not found")
}

func (m *mockAgentRepository) GetByUserID(_ context.Context, userID string) (*user.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.agents {
		if a.UserID() == userID {
			return a, nil
		}
	}
	return nil, errors.NewNotFoundError("agent not found")
}

func (m *mockAgentRepository) List(_ context.Context, teamID string) ([]*user.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*user.Agent
	for _, a := range m.agents {
		if teamID == "" || a.TeamID() == teamID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAgentRepository) load(t *testing.T, agentID string) int {
	t.Helper()
	a, err := m.GetByID(context.Background(), agentID)
	require.NoError(t, err)
	return a.CurrentTickets()
}

type mockTeamRepository struct {
	teams map[string]*user.Team
}

func (m *mockTeamRepository) Create(_ context.Context, t *user.Team) error {
	if m.teams == nil {
		m.teams = make(map[string]*user.Team)
	}
	m.teams[t.ID()] = t
	return nil
}

func (m *mockTeamRepository) GetByID(_ context.Context, teamID string) (*user.Team, error) {
	if t, ok := m.teams[teamID]; ok {
		return t, nil
	}
	return nil, errors.NewNotFoundError("team not found")
}

func (m *mockTeamRepository) List(_ context.Context) ([]*user.Team, error) {
	var out []*user.Team
	for _, t := range m.teams {
		out = append(out, t)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Ports
// ---------------------------------------------------------------------------

// mockDirectory serves users, teams and agents from maps.
type mockDirectory struct {
	users  map[string]*user.User
	teams  map[string]*user.Team
	agents map[string]*user.Agent
	err    error
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{
		users:  make(map[string]*user.User),
		teams:  make(map[string]*user.Team),
		agents: make(map[string]*user.Agent),
	}
}

func (m *mockDirectory) GetUser(_ context.Context, userID string) (*user.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.users[userID]; ok {
		return u, nil
	}
	return nil, errors.NewNotFoundError("user not found")
}

func (m *mockDirectory) GetUsers(_ context.Context, userIDs []string) (map[string]*user.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string]*user.User)
	for _, id := range userIDs {
		if u, ok := m.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (m *mockDirectory) GetTeam(_ context.Context, teamID string) (*user.Team, error) {
	if t, ok := m.teams[teamID]; ok {
		return t, nil
	}
	return nil, errors.NewNotFoundError("team not found")
}

func (m *mockDirectory) GetAgent(_ context.Context, agentID string) (*user.Agent, error) {
	if a, ok := m.agents[agentID]; ok {
		return a, nil
	}
	return nil, errors.NewNotFoundError("agent not found")
}

type mockTxRunner struct {
	calls int
}

func (m *mockTxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type notifierCall struct {
	kind     string
	ticketID string
	rowID    string
}

type mockChangeNotifier struct {
	mu    sync.Mutex
	calls []notifierCall
}

func (m *mockChangeNotifier) record(kind, ticketID, rowID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, notifierCall{kind: kind, ticketID: ticketID, rowID: rowID})
}

func (m *mockChangeNotifier) TicketUpserted(_ context.Context, t *ticket.Ticket) {
	m.record("ticket_upsert", t.ID(), t.ID())
}

func (m *mockChangeNotifier) TicketDeleted(_ context.Context, t *ticket.Ticket) {
	m.record("ticket_delete", t.ID(), t.ID())
}

func (m *mockChangeNotifier) MessageUpserted(_ context.Context, t *ticket.Ticket, msg *ticket.Message) {
	m.record("message_upsert", t.ID(), msg.ID())
}

func (m *mockChangeNotifier) MessageDeleted(_ context.Context, t *ticket.Ticket, msg *ticket.Message) {
	m.record("message_delete", t.ID(), msg.ID())
}

func (m *mockChangeNotifier) kinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.calls))
	for _, c := range m.calls {
		out = append(out, c.kind)
	}
	return out
}

type mockBlobRemover struct {
	mu       sync.Mutex
	deleted  []string
	prefixes []string
}

func (m *mockBlobRemover) Delete(_ context.Context, storagePath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, storagePath)
	return nil
}

func (m *mockBlobRemover) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefixes = append(m.prefixes, prefix)
	return nil
}

type mockReplyNotifier struct {
	sent chan string
}

func (m *mockReplyNotifier) NotifyReply(_ context.Context, t *ticket.Ticket, _ *ticket.Message, customer, _ *user.User) error {
	m.sent <- customer.Email().String()
	return nil
}

type mockPublisher struct {
	mu      sync.Mutex
	changes []ticketfeed.Change
	err     error
}

func (m *mockPublisher) Publish(_ context.Context, change ticketfeed.Change) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.changes = append(m.changes, change)
	return nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var (
	customerActor = Actor{UserID: "usr_customer1", Role: authorization.RoleCustomer}
	otherCustomer = Actor{UserID: "usr_customer2", Role: authorization.RoleCustomer}
	agentActor    = Actor{UserID: "usr_agent1", Role: authorization.RoleAgent}
	adminActor    = Actor{UserID: "usr_admin1", Role: authorization.RoleAdmin}
)

func newTestUser(t *testing.T, userID, email, name string, role uvo.Role) *user.User {
	t.Helper()
	addr, err := uvo.NewEmail(email)
	require.NoError(t, err)
	now := time.Now().UTC()
	return user.ReconstructUser(userID, addr, name, "", role, nil, now, now)
}

func newTestTicket(t *testing.T, customerID string) *ticket.Ticket {
	t.Helper()
	tk, err := ticket.NewTicket("Cannot log in", "The login page spins forever", vo.PriorityHigh, vo.SourceWeb, customerID, []string{"login"}, nil)
	require.NoError(t, err)
	return tk
}

func newTestAgent(t *testing.T, agentID, userID, teamID string, maxTickets, current int) *user.Agent {
	t.Helper()
	now := time.Now().UTC()
	a, err := user.ReconstructAgent(agentID, userID, teamID, maxTickets, current, now, now)
	require.NoError(t, err)
	return a
}

func seededDirectory(t *testing.T) *mockDirectory {
	t.Helper()
	dir := newMockDirectory()
	dir.users[customerActor.UserID] = newTestUser(t, customerActor.UserID, "ada@example.com", "Ada Lovelace", uvo.RoleCustomer)
	dir.users[otherCustomer.UserID] = newTestUser(t, otherCustomer.UserID, "bob@example.com", "Bob", uvo.RoleCustomer)
	dir.users[agentActor.UserID] = newTestUser(t, agentActor.UserID, "grace@support.example.com", "Grace Hopper", uvo.RoleAgent)
	dir.users[adminActor.UserID] = newTestUser(t, adminActor.UserID, "root@support.example.com", "Admin", uvo.RoleAdmin)
	return dir
}

func newTestExpander(dir DirectoryReader, messages ticket.MessageRepository) *TicketExpander {
	return NewTicketExpander(dir, messages, nil, logger.NewNop())
}

func ticketRepoWith(tickets ...*ticket.Ticket) *mockTicketRepository {
	byID := make(map[string]*ticket.Ticket, len(tickets))
	for _, tk := range tickets {
		byID[tk.ID()] = tk
	}
	return &mockTicketRepository{
		GetByIDFunc: func(_ context.Context, ticketID string) (*ticket.Ticket, error) {
			if tk, ok := byID[ticketID]; ok {
				return tk, nil
			}
			return nil, errors.NewNotFoundError("ticket not found")
		},
	}
}
