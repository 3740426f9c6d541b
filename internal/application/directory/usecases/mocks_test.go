package usecases

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/customerly-inc/customerly/internal/domain/user"
	vo "github.com/customerly-inc/customerly/internal/domain/user/valueobjects"
	"github.com/customerly-inc/customerly/internal/shared/authorization"
	"github.com/customerly-inc/customerly/internal/shared/errors"
)

var (
	adminActor    = authorization.Actor{UserID: "usr_admin", Role: authorization.RoleAdmin}
	agentActor    = authorization.Actor{UserID: "usr_agent", Role: authorization.RoleAgent}
)

type memUserRepository struct {
	users     map[string]*user.User
	createErr error
	updates   int
}

func newMemUserRepository() *memUserRepository {
	return &memUserRepository{users: map[string]*user.User{}}
}

func (m *memUserRepository) Create(_ context.Context, u *user.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.users[u.ID()] = u
	return nil
}

func (m *memUserRepository) Update(_ context.Context, u *user.User) error {
	m.updates++
	m.users[u.ID()] = u
	return nil
}

func (m *memUserRepository) GetByID(_ context.Context, userID string) (*user.User, error) {
	if u, ok := m.users[userID]; ok {
		return u, nil
	}
	return nil, errors.NewNotFoundError("user not found")
}

func (m *memUserRepository) GetByIDs(_ context.Context, userIDs []string) ([]*user.User, error) {
	var out []*user.User
	for _, id := range userIDs {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUserRepository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range m.users {
		if u.Email().String() == email {
			return u, nil
		}
	}
	return nil, errors.NewNotFoundError("user not found")
}

func (m *memUserRepository) List(_ context.Context, filter user.ListFilter) ([]*user.User, int64, error) {
	var out []*user.User
	for _, u := range m.users {
		if filter.Role != "" && u.Role().String() != filter.Role {
			continue
		}
		if filter.Search != "" && !strings.Contains(u.Email().String(), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

type memTeamRepository struct {
	teams map[string]*user.Team
}

func newMemTeamRepository() *memTeamRepository {
	return &memTeamRepository{teams: map[string]*user.Team{}}
}

func (m *memTeamRepository) Create(_ context.Context, t *user.Team) error {
	for _, existing := range m.teams {
		if existing.Name() == t.Name() {
			return errors.NewInternalError("insert failed", "UNIQUE constraint failed: teams.name")
		}
	}
	m.teams[t.ID()] = t
	return nil
}

func (m *memTeamRepository) GetByID(_ context.Context, teamID string) (*user.Team, error) {
	if t, ok := m.teams[teamID]; ok {
		return t, nil
	}
	return nil, errors.NewNotFoundError("team not found")
}

func (m *memTeamRepository) List(_ context.Context) ([]*user.Team, error) {
	out := make([]*user.Team, 0, len(m.teams))
	for _, t := range m.teams {
		out = append(out, t)
	}
	return out, nil
}

type memAgentRepository struct {
	agents map[string]*user.Agent
}

func newMemAgentRepository() *memAgentRepository {
	return &memAgentRepository{agents: map[string]*user.Agent{}}
}

func (m *memAgentRepository) Create(_ context.Context, a *user.Agent) error {
	m.agents[a.ID()] = a
	return nil
}

func (m *memAgentRepository) Update(_ context.Context, a *user.Agent) error {
	m.agents[a.ID()] = a
	return nil
}

func (m *memAgentRepository) TakeTicket(_ context.Context, agentID string) error {
	a, ok := m.agents[agentID]
	if !ok {
		return errors.NewNotFoundError("agent not found")
	}
	return a.TakeTicket()
}

func (m *memAgentRepository) ReleaseTicket(_ context.Context, agentID string) error {
	a, ok := m.agents[agentID]
	if !ok {
		return errors.NewNotFoundError("agent not found")
	}
	a.ReleaseTicket()
	return nil
}

func (m *memAgentRepository) GetByID(_ context.Context, agentID string) (*user.Agent, error) {
	if a, ok := m.agents[agentID]; ok {
		return a, nil
	}
	return nil, errors.NewNotFoundError("agent not found")
}

func (m *memAgentRepository) GetByUserID(_ context.Context, userID string) (*user.Agent, error) {
	for _, a := range m.agents {
		if a.UserID() == userID {
			return a, nil
		}
	}
	return nil, errors.NewNotFoundError("agent not found")
}

func (m *memAgentRepository) List(_ context.Context, teamID string) ([]*user.Agent, error) {
	var out []*user.Agent
	for _, a := range m.agents {
		if teamID == "" || a.TeamID() == teamID {
			out = append(out, a)
		}
	}
	return out, nil
}

type recordingInvalidator struct {
	users []string
}

func (r *recordingInvalidator) InvalidateUser(userID string) {
	r.users = append(r.users, userID)
}

func seedUser(t *testing.T, repo *memUserRepository, email string, role vo.Role) *user.User {
	t.Helper()
	addr, err := vo.NewEmail(email)
	require.NoError(t, err)
	u, err := user.NewUser(addr, "", role, "")
	require.NoError(t, err)
	repo.users[u.ID()] = u
	return u
}
