package usecases

import (
	"context"

	"github.com/customerly-inc/customerly/internal/application/directory/dto"
	"github.com/customerly-inc/customerly/internal/domain/user"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

type CreateTeamUseCase struct {
	teamRepo user.TeamRepository
	logger   logger.Interface
}

func NewCreateTeamUseCase(teamRepo user.TeamRepository, logger logger.Interface) *CreateTeamUseCase {
	return &CreateTeamUseCase{teamRepo: teamRepo, logger: logger}
}

func (uc *CreateTeamUseCase) Execute(ctx context.Context, name string) (*dto.TeamDTO, error) {
	uc.logger.Infow("executing create team use case", "name", name)

	team, err := user.NewTeam(name)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.teamRepo.Create(ctx, team); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError("a team with this name already exists")
		}
		return nil, asAppError(err, "failed to create team")
	}

	uc.logger.Infow("team created successfully", "team_id", team.ID())
	return dto.ToTeamDTO(team), nil
}

type ListTeamsUseCase struct {
	teamRepo user.TeamRepository
	logger   logger.Interface
}

func NewListTeamsUseCase(teamRepo user.TeamRepository, logger logger.Interface) *ListTeamsUseCase {
	return &ListTeamsUseCase{teamRepo: teamRepo, logger: logger}
}

func (uc *ListTeamsUseCase) Execute(ctx context.Context) ([]*dto.TeamDTO, error) {
	teams, err := uc.teamRepo.List(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list teams", "error", err)
		return nil, asAppError(err, "failed to list teams")
	}
	out := make([]*dto.TeamDTO, 0, len(teams))
	for _, t := range teams {
		out = append(out, dto.ToTeamDTO(t))
	}
	return out, nil
}
