package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	GetByID(ctx context.Context, userID string) (*User, error)
	GetByIDs(ctx context.Context, userIDs []string) ([]*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter ListFilter) ([]*User, int64, error)
}

type ListFilter struct {
	Page     int
	PageSize int
	Role     string
	Search   string
}

type TeamRepository interface {
	Create(ctx context.Context, t *Team) error
	GetByID(ctx context.Context, teamID string) (*Team, error)
	List(ctx context.Context) ([]*Team, error)
}

type AgentRepository interface {
	Create(ctx context.Context, a *Agent) error
	Update(ctx context.Context, a *Agent) error
	// TakeTicket books one ticket against the agent's capacity in a single
	// conditional write. A full agent yields a conflict error.
	TakeTicket(ctx context.Context, agentID string) error
	// ReleaseTicket frees one booked ticket; it never goes below zero.
	ReleaseTicket(ctx context.Context, agentID string) error
	GetByID(ctx context.Context, agentID string) (*Agent, error)
	GetByUserID(ctx context.Context, userID string) (*Agent, error)
	List(ctx context.Context, teamID string) ([]*Agent, error)
}
