package usecases

import (
	"context"

	"github.com/customerly-inc/customerly/internal/application/directory/dto"
	"github.com/customerly-inc/customerly/internal/domain/user"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

type CreateAgentCommand struct {
	UserID     string
	TeamID     string
	MaxTickets int
}

// CreateAgentUseCase puts a staff user on a team. A user is an agent at
// most once.
type CreateAgentUseCase struct {
	userRepo  user.Repository
	teamRepo  user.TeamRepository
	agentRepo user.AgentRepository
	logger    logger.Interface
}

func NewCreateAgentUseCase(
	userRepo user.Repository,
	teamRepo user.TeamRepository,
	agentRepo user.AgentRepository,
	logger logger.Interface,
) *CreateAgentUseCase {
	return &CreateAgentUseCase{
		userRepo:  userRepo,
		teamRepo:  teamRepo,
		agentRepo: agentRepo,
		logger:    logger,
	}
}

func (uc *CreateAgentUseCase) Execute(ctx context.Context, cmd CreateAgentCommand) (*dto.AgentDTO, error) {
	uc.logger.Infow("executing create agent use case", "user_id", cmd.UserID, "team_id", cmd.TeamID)

	u, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, asAppError(err, "failed to load user")
	}
	if !u.Role().IsStaff() {
		return nil, errors.NewValidationError("only staff users can be agents")
	}
	if _, err := uc.teamRepo.GetByID(ctx, cmd.TeamID); err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewValidationError("team not found")
		}
		return nil, asAppError(err, "failed to load team")
	}
	if _, err := uc.agentRepo.GetByUserID(ctx, cmd.UserID); err == nil {
		return nil, errors.NewConflictError("user is already an agent")
	} else if !errors.IsNotFoundError(err) {
		return nil, asAppError(err, "failed to check agent")
	}

	a, err := user.NewAgent(cmd.UserID, cmd.TeamID, cmd.MaxTickets)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.agentRepo.Create(ctx, a); err != nil {
		uc.logger.Errorw("failed to create agent", "error", err)
		return nil, asAppError(err, "failed to create agent")
	}

	uc.logger.Infow("agent created successfully", "agent_id", a.ID(), "max_tickets", a.MaxTickets())
	return dto.ToAgentDTO(a, u), nil
}

type ListAgentsUseCase struct {
	userRepo  user.Repository
	agentRepo user.AgentRepository
	logger    logger.Interface
}

func NewListAgentsUseCase(userRepo user.Repository, agentRepo user.AgentRepository, logger logger.Interface) *ListAgentsUseCase {
	return &ListAgentsUseCase{userRepo: userRepo, agentRepo: agentRepo, logger: logger}
}

// Execute lists agents, optionally for one team, with their users.
func (uc *ListAgentsUseCase) Execute(ctx context.Context, teamID string) ([]*dto.AgentDTO, error) {
	agents, err := uc.agentRepo.List(ctx, teamID)
	if err != nil {
		uc.logger.Errorw("failed to list agents", "team_id", teamID, "error", err)
		return nil, asAppError(err, "failed to list agents")
	}

	userIDs := make([]string, 0, len(agents))
	for _, a := range agents {
		userIDs = append(userIDs, a.UserID())
	}
	users, err := uc.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, asAppError(err, "failed to load agent users")
	}
	byID := make(map[string]*user.User, len(users))
	for _, u := range users {
		byID[u.ID()] = u
	}

	out := make([]*dto.AgentDTO, 0, len(agents))
	for _, a := range agents {
		out = append(out, dto.ToAgentDTO(a, byID[a.UserID()]))
	}
	return out, nil
}
