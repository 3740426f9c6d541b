package usecases

import (
	"context"

	"github.com/customerly-inc/customerly/internal/application/directory/dto"
	"github.com/customerly-inc/customerly/internal/domain/user"
	vo "github.com/customerly-inc/customerly/internal/domain/user/valueobjects"
	"github.com/customerly-inc/customerly/internal/shared/authorization"
	"github.com/customerly-inc/customerly/internal/shared/constants"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

// CacheInvalidator drops a cached user after a write.
type CacheInvalidator interface {
	InvalidateUser(userID string)
}

type CreateUserCommand struct {
	Email     string
	Name      string
	Role      string
	AvatarURL string
}

type CreateUserUseCase struct {
	userRepo user.Repository
	logger   logger.Interface
}

func NewCreateUserUseCase(userRepo user.Repository, logger logger.Interface) *CreateUserUseCase {
	return &CreateUserUseCase{userRepo: userRepo, logger: logger}
}

func (uc *CreateUserUseCase) Execute(ctx context.Context, cmd CreateUserCommand) (*dto.UserDTO, error) {
	uc.logger.Infow("executing create user use case", "email", cmd.Email, "role", cmd.Role)

	email, err := vo.NewEmail(cmd.Email)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	role := vo.RoleCustomer
	if cmd.Role != "" {
		if role, err = vo.NewRole(cmd.Role); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	if _, err := uc.userRepo.GetByEmail(ctx, email.String()); err == nil {
		return nil, errors.NewConflictError("a user with this email already exists")
	} else if !errors.IsNotFoundError(err) {
		return nil, asAppError(err, "failed to check email")
	}

	u, err := user.NewUser(email, cmd.Name, role, cmd.AvatarURL)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.userRepo.Create(ctx, u); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError("a user with this email already exists")
		}
		uc.logger.Errorw("failed to create user", "error", err)
		return nil, asAppError(err, "failed to create user")
	}

	uc.logger.Infow("user created successfully", "user_id", u.ID(), "role", role.String())
	return dto.ToUserDTO(u), nil
}

type GetUserUseCase struct {
	userRepo user.Repository
	logger   logger.Interface
}

func NewGetUserUseCase(userRepo user.Repository, logger logger.Interface) *GetUserUseCase {
	return &GetUserUseCase{userRepo: userRepo, logger: logger}
}

// Execute returns a user. Customers may only look themselves up.
func (uc *GetUserUseCase) Execute(ctx context.Context, actor authorization.Actor, userID string) (*dto.UserDTO, error) {
	if !actor.IsStaff() && actor.UserID != userID {
		return nil, errors.NewForbiddenError("access denied")
	}
	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, asAppError(err, "failed to load user")
	}
	return dto.ToUserDTO(u), nil
}

type ListUsersQuery struct {
	Role     string
	Search   string
	Page     int
	PageSize int
}

type ListUsersResult struct {
	Users    []*dto.UserDTO
	Total    int64
	Page     int
	PageSize int
}

type ListUsersUseCase struct {
	userRepo user.Repository
	logger   logger.Interface
}

func NewListUsersUseCase(userRepo user.Repository, logger logger.Interface) *ListUsersUseCase {
	return &ListUsersUseCase{userRepo: userRepo, logger: logger}
}

func (uc *ListUsersUseCase) Execute(ctx context.Context, query ListUsersQuery) (*ListUsersResult, error) {
	if query.Page < 1 {
		query.Page = constants.DefaultPage
	}
	if query.PageSize <= 0 {
		query.PageSize = constants.DefaultPageSize
	}
	if query.PageSize > constants.MaxPageSize {
		query.PageSize = constants.MaxPageSize
	}
	if query.Role != "" {
		if _, err := vo.NewRole(query.Role); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	users, total, err := uc.userRepo.List(ctx, user.ListFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
		Role:     query.Role,
		Search:   query.Search,
	})
	if err != nil {
		uc.logger.Errorw("failed to list users", "error", err)
		return nil, asAppError(err, "failed to list users")
	}

	items := make([]*dto.UserDTO, 0, len(users))
	for _, u := range users {
		items = append(items, dto.ToUserDTO(u))
	}
	return &ListUsersResult{Users: items, Total: total, Page: query.Page, PageSize: query.PageSize}, nil
}

type UpdateUserCommand struct {
	UserID    string
	Name      *string
	AvatarURL *string
	Role      *string
}

// UpdateUserUseCase edits a profile. Users may edit their own name and
// avatar; role changes and edits to others are admin only.
type UpdateUserUseCase struct {
	userRepo    user.Repository
	invalidator CacheInvalidator
	logger      logger.Interface
}

func NewUpdateUserUseCase(userRepo user.Repository, invalidator CacheInvalidator, logger logger.Interface) *UpdateUserUseCase {
	return &UpdateUserUseCase{userRepo: userRepo, invalidator: invalidator, logger: logger}
}

func (uc *UpdateUserUseCase) Execute(ctx context.Context, actor authorization.Actor, cmd UpdateUserCommand) (*dto.UserDTO, error) {
	uc.logger.Infow("executing update user use case", "user_id", cmd.UserID, "actor_id", actor.UserID)

	if !actor.IsAdmin() && (actor.UserID != cmd.UserID || cmd.Role != nil) {
		return nil, errors.NewForbiddenError("access denied")
	}
	u, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, asAppError(err, "failed to load user")
	}
	if err := u.UpdateProfile(cmd.Name, cmd.AvatarURL); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if cmd.Role != nil {
		role, err := vo.NewRole(*cmd.Role)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		if err := u.ChangeRole(role); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}
	if err := uc.userRepo.Update(ctx, u); err != nil {
		uc.logger.Errorw("failed to update user", "user_id", u.ID(), "error", err)
		return nil, asAppError(err, "failed to update user")
	}
	if uc.invalidator != nil {
		uc.invalidator.InvalidateUser(u.ID())
	}

	uc.logger.Infow("user updated successfully", "user_id", u.ID())
	return dto.ToUserDTO(u), nil
}

func asAppError(err error, message string) error {
	if errors.IsAppError(err) {
		return err
	}
	return errors.NewInternalError(message, err.Error())
}
