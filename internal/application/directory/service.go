// Package directory manages the people and teams tickets refer to.
package directory

import (
	"context"

	"github.com/customerly-inc/customerly/internal/application/directory/dto"
	"github.com/customerly-inc/customerly/internal/application/directory/usecases"
	"github.com/customerly-inc/customerly/internal/domain/user"
	"github.com/customerly-inc/customerly/internal/shared/authorization"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

// Service groups the directory use cases behind one handler-facing API.
type Service struct {
	createUserUC  *usecases.CreateUserUseCase
	getUserUC     *usecases.GetUserUseCase
	listUsersUC   *usecases.ListUsersUseCase
	updateUserUC  *usecases.UpdateUserUseCase
	createTeamUC  *usecases.CreateTeamUseCase
	listTeamsUC   *usecases.ListTeamsUseCase
	createAgentUC *usecases.CreateAgentUseCase
	listAgentsUC  *usecases.ListAgentsUseCase
}

func NewService(
	userRepo user.Repository,
	teamRepo user.TeamRepository,
	agentRepo user.AgentRepository,
	invalidator usecases.CacheInvalidator,
	logger logger.Interface,
) *Service {
	return &Service{
		createUserUC:  usecases.NewCreateUserUseCase(userRepo, logger),
		getUserUC:     usecases.NewGetUserUseCase(userRepo, logger),
		listUsersUC:   usecases.NewListUsersUseCase(userRepo, logger),
		updateUserUC:  usecases.NewUpdateUserUseCase(userRepo, invalidator, logger),
		createTeamUC:  usecases.NewCreateTeamUseCase(teamRepo, logger),
		listTeamsUC:   usecases.NewListTeamsUseCase(teamRepo, logger),
		createAgentUC: usecases.NewCreateAgentUseCase(userRepo, teamRepo, agentRepo, logger),
		listAgentsUC:  usecases.NewListAgentsUseCase(userRepo, agentRepo, logger),
	}
}

func (s *Service) CreateUser(ctx context.Context, cmd usecases.CreateUserCommand) (*dto.UserDTO, error) {
	return s.createUserUC.Execute(ctx, cmd)
}

func (s *Service) GetUser(ctx context.Context, actor authorization.Actor, userID string) (*dto.UserDTO, error) {
	return s.getUserUC.Execute(ctx, actor, userID)
}

func (s *Service) ListUsers(ctx context.Context, query usecases.ListUsersQuery) (*usecases.ListUsersResult, error) {
	return s.listUsersUC.Execute(ctx, query)
}

func (s *Service) UpdateUser(ctx context.Context, actor authorization.Actor, cmd usecases.UpdateUserCommand) (*dto.UserDTO, error) {
	return s.updateUserUC.Execute(ctx, actor, cmd)
}

func (s *Service) CreateTeam(ctx context.Context, name string) (*dto.TeamDTO, error) {
	return s.createTeamUC.Execute(ctx, name)
}

func (s *Service) ListTeams(ctx context.Context) ([]*dto.TeamDTO, error) {
	return s.listTeamsUC.Execute(ctx)
}

func (s *Service) CreateAgent(ctx context.Context, cmd usecases.CreateAgentCommand) (*dto.AgentDTO, error) {
	return s.createAgentUC.Execute(ctx, cmd)
}

func (s *Service) ListAgents(ctx context.Context, teamID string) ([]*dto.AgentDTO, error) {
	return s.listAgentsUC.Execute(ctx, teamID)
}
