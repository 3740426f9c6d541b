// Package token issues API access tokens from the command line. It is how
// the first admin gets in before anyone can call POST /users.
package token

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/customerly-inc/customerly/internal/domain/user"
	vo "github.com/customerly-inc/customerly/internal/domain/user/valueobjects"
	"github.com/customerly-inc/customerly/internal/infrastructure/auth"
	"github.com/customerly-inc/customerly/internal/infrastructure/config"
	"github.com/customerly-inc/customerly/internal/infrastructure/database"
	"github.com/customerly-inc/customerly/internal/infrastructure/repository"
	"github.com/customerly-inc/customerly/internal/shared/authorization"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

var (
	configPath string
	opts       issueOptions
)

type issueOptions struct {
	Email  string
	Name   string
	Role   string
	Create bool
	TTL    time.Duration
}

// userStore is the part of the user repository the command needs.
type userStore interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, u *user.User) error
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API access token",
		Long: `Issue a signed access token for an existing user, or create the user first
with --create. The token is printed to stdout.`,
		Example: `  customerly token --email admin@example.com --create --role admin --name Admin
  customerly token --email agent@example.com --ttl 8h`,
		RunE: run,
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVar(&opts.Email, "email", "", "Email of the user (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "Display name when creating the user")
	cmd.Flags().StringVar(&opts.Role, "role", string(vo.RoleCustomer), "Role when creating the user (admin, agent, customer)")
	cmd.Flags().BoolVar(&opts.Create, "create", false, "Create the user if it does not exist")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, false); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	users := repository.NewUserRepository(database.Get(), log)
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpMinutes)

	tok, exp, created, err := issue(cmd.Context(), users, jwtSvc, opts)
	if err != nil {
		return err
	}
	if created {
		log.Infow("user created", "email", opts.Email, "role", opts.Role)
	}
	log.Infow("token issued", "email", opts.Email, "expires_at", exp)

	fmt.Fprintln(cmd.OutOrStdout(), tok)
	return nil
}

func issue(ctx context.Context, users userStore, jwtSvc *auth.JWTService, o issueOptions) (string, time.Time, bool, error) {
	u, err := users.GetByEmail(ctx, o.Email)
	created := false
	switch {
	case err == nil:
	case errors.IsNotFoundError(err) && o.Create:
		u, err = newUser(o)
		if err != nil {
			return "", time.Time{}, false, err
		}
		if err := users.Create(ctx, u); err != nil {
			return "", time.Time{}, false, err
		}
		created = true
	case errors.IsNotFoundError(err):
		return "", time.Time{}, false, fmt.Errorf("no user with email %s (pass --create to add one)", o.Email)
	default:
		return "", time.Time{}, false, err
	}

	tok, exp, err := jwtSvc.Generate(u.ID(), authorization.UserRole(u.Role()), o.TTL)
	if err != nil {
		return "", time.Time{}, false, fmt.Errorf("failed to sign token: %w", err)
	}
	return tok, exp, created, nil
}

func newUser(o issueOptions) (*user.User, error) {
	email, err := vo.NewEmail(o.Email)
	if err != nil {
		return nil, err
	}
	role, err := vo.NewRole(o.Role)
	if err != nil {
		return nil, err
	}
	name := o.Name
	if name == "" {
		name = email.String()
	}
	return user.NewUser(email, name, role, "")
}
