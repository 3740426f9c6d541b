package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customerly-inc/customerly/internal/application/directory/dto"
	"github.com/customerly-inc/customerly/internal/application/directory/usecases"
	"github.com/customerly-inc/customerly/internal/interfaces/http/handlers/testutil"
	"github.com/customerly-inc/customerly/internal/shared/authorization"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

type mockService struct {
	user       *dto.UserDTO
	users      *usecases.ListUsersResult
	team       *dto.TeamDTO
	agents     []*dto.AgentDTO
	err        error
	gotActor   authorization.Actor
	gotUserID  string
	gotCreate  usecases.CreateUserCommand
	gotUpdate  usecases.UpdateUserCommand
	gotList    usecases.ListUsersQuery
	gotAgent   usecases.CreateAgentCommand
	gotTeamID  string
	createCall int
}

func (m *mockService) CreateUser(_ context.Context, cmd usecases.CreateUserCommand) (*dto.UserDTO, error) {
	m.createCall++
	m.gotCreate = cmd
	return m.user, m.err
}

func (m *mockService) GetUser(_ context.Context, actor authorization.Actor, userID string) (*dto.UserDTO, error) {
	m.gotActor = actor
	m.gotUserID = userID
	return m.user, m.err
}

func (m *mockService) ListUsers(_ context.Context, query usecases.ListUsersQuery) (*usecases.ListUsersResult, error) {
	m.gotList = query
	return m.users, m.err
}

func (m *mockService) UpdateUser(_ context.Context, actor authorization.Actor, cmd usecases.UpdateUserCommand) (*dto.UserDTO, error) {
	m.gotActor = actor
	m.gotUpdate = cmd
	return m.user, m.err
}

func (m *mockService) CreateTeam(_ context.Context, name string) (*dto.TeamDTO, error) {
	return m.team, m.err
}

func (m *mockService) ListTeams(_ context.Context) ([]*dto.TeamDTO, error) {
	return []*dto.TeamDTO{m.team}, m.err
}

func (m *mockService) CreateAgent(_ context.Context, cmd usecases.CreateAgentCommand) (*dto.AgentDTO, error) {
	m.gotAgent = cmd
	if m.err != nil {
		return nil, m.err
	}
	return &dto.AgentDTO{ID: "agt_1", UserID: cmd.UserID, MaxTickets: cmd.MaxTickets}, nil
}

func (m *mockService) ListAgents(_ context.Context, teamID string) ([]*dto.AgentDTO, error) {
	m.gotTeamID = teamID
	return m.agents, m.err
}

func TestDirectoryHandler_Me(t *testing.T) {
	svc := &mockService{user: &dto.UserDTO{ID: "usr_alice", Email: "alice@example.com"}}
	handler := NewDirectoryHandler(svc, logger.NewNop())

	c, w := testutil.NewTestContext(http.MethodGet, "/users/me", nil)
	testutil.SetAuthContext(c, "usr_alice", authorization.RoleCustomer)

	handler.Me(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "usr_alice", svc.gotUserID)
	assert.Equal(t, authorization.RoleCustomer, svc.gotActor.Role)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var got dto.UserDTO
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	assert.Equal(t, "alice@example.com", got.Email)
}

func TestDirectoryHandler_CreateUser(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantCalls  int
	}{
		{
			name:       "valid",
			body:       map[string]any{"email": "bob@example.com", "name": "Bob", "role": "agent"},
			wantStatus: http.StatusCreated,
			wantCalls:  1,
		},
		{
			name:       "bad email",
			body:       map[string]any{"email": "bob", "name": "Bob"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown role",
			body:       map[string]any{"email": "bob@example.com", "name": "Bob", "role": "owner"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing name",
			body:       map[string]any{"email": "bob@example.com"},
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{user: &dto.UserDTO{ID: "usr_bob"}}
			handler := NewDirectoryHandler(svc, logger.NewNop())

			c, w := testutil.NewTestContext(http.MethodPost, "/users", tt.body)
			testutil.SetAuthContext(c, "usr_admin", authorization.RoleAdmin)

			handler.CreateUser(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalls, svc.createCall)
			if tt.wantCalls > 0 {
				assert.Equal(t, "bob@example.com", svc.gotCreate.Email)
				assert.Equal(t, "agent", svc.gotCreate.Role)
			}
		})
	}
}

func TestDirectoryHandler_GetUser(t *testing.T) {
	tests := []struct {
		name       string
		param      string
		err        error
		wantStatus int
	}{
		{name: "found", param: "usr_bob", wantStatus: http.StatusOK},
		{name: "wrong prefix", param: "tkt_bob", wantStatus: http.StatusBadRequest},
		{name: "forbidden", param: "usr_bob", err: errors.NewForbiddenError("access denied"), wantStatus: http.StatusForbidden},
		{name: "missing", param: "usr_nobody", err: errors.NewNotFoundError("user not found"), wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{user: &dto.UserDTO{ID: tt.param}, err: tt.err}
			handler := NewDirectoryHandler(svc, logger.NewNop())

			c, w := testutil.NewTestContext(http.MethodGet, "/users/"+tt.param, nil)
			testutil.SetAuthContext(c, "usr_alice", authorization.RoleCustomer)
			testutil.SetURLParam(c, "user_id", tt.param)

			handler.GetUser(c)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestDirectoryHandler_ListUsers(t *testing.T) {
	svc := &mockService{users: &usecases.ListUsersResult{
		Users:    []*dto.UserDTO{{ID: "usr_a"}, {ID: "usr_b"}},
		Total:    12,
		Page:     2,
		PageSize: 5,
	}}
	handler := NewDirectoryHandler(svc, logger.NewNop())

	c, w := testutil.NewTestContext(http.MethodGet, "/users", nil)
	testutil.SetAuthContext(c, "usr_agent", authorization.RoleAgent)
	testutil.SetQueryParams(c, map[string]string{"role": "customer", "q": "ali", "page": "2", "page_size": "5"})

	handler.ListUsers(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, usecases.ListUsersQuery{Role: "customer", Search: "ali", Page: 2, PageSize: 5}, svc.gotList)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var list testutil.ListData
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	assert.Equal(t, int64(12), list.Total)
	assert.Equal(t, 3, list.TotalPages)
}

func TestDirectoryHandler_UpdateUser(t *testing.T) {
	svc := &mockService{user: &dto.UserDTO{ID: "usr_bob"}}
	handler := NewDirectoryHandler(svc, logger.NewNop())

	c, w := testutil.NewTestContext(http.MethodPatch, "/users/usr_bob", map[string]any{"name": "Robert", "role": "agent"})
	testutil.SetAuthContext(c, "usr_admin", authorization.RoleAdmin)
	testutil.SetURLParam(c, "user_id", "usr_bob")

	handler.UpdateUser(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "usr_bob", svc.gotUpdate.UserID)
	require.NotNil(t, svc.gotUpdate.Name)
	assert.Equal(t, "Robert", *svc.gotUpdate.Name)
	require.NotNil(t, svc.gotUpdate.Role)
	assert.Equal(t, "agent", *svc.gotUpdate.Role)
	assert.Nil(t, svc.gotUpdate.AvatarURL)
}

func TestDirectoryHandler_Agents(t *testing.T) {
	svc := &mockService{agents: []*dto.AgentDTO{{ID: "agt_1", TeamID: "team_x"}}}
	handler := NewDirectoryHandler(svc, logger.NewNop())

	c, w := testutil.NewTestContext(http.MethodPost, "/agents", map[string]any{"user_id": "usr_bob", "max_tickets": 8})
	testutil.SetAuthContext(c, "usr_admin", authorization.RoleAdmin)
	handler.CreateAgent(c)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, usecases.CreateAgentCommand{UserID: "usr_bob", MaxTickets: 8}, svc.gotAgent)

	c, w = testutil.NewTestContext(http.MethodPost, "/agents", map[string]any{"user_id": "usr_bob", "max_tickets": -1})
	testutil.SetAuthContext(c, "usr_admin", authorization.RoleAdmin)
	handler.CreateAgent(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = testutil.NewTestContext(http.MethodGet, "/agents?team_id=team_x", nil)
	testutil.SetAuthContext(c, "usr_agent", authorization.RoleAgent)
	handler.ListAgents(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "team_x", svc.gotTeamID)
}

func TestDirectoryHandler_Teams(t *testing.T) {
	svc := &mockService{team: &dto.TeamDTO{ID: "team_x", Name: "Billing"}}
	handler := NewDirectoryHandler(svc, logger.NewNop())

	c, w := testutil.NewTestContext(http.MethodPost, "/teams", map[string]any{})
	testutil.SetAuthContext(c, "usr_admin", authorization.RoleAdmin)
	handler.CreateTeam(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = testutil.NewTestContext(http.MethodPost, "/teams", map[string]any{"name": "Billing"})
	testutil.SetAuthContext(c, "usr_admin", authorization.RoleAdmin)
	handler.CreateTeam(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	c, w = testutil.NewTestContext(http.MethodGet, "/teams", nil)
	handler.ListTeams(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
