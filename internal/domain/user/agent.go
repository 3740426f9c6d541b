package user

import (
	"fmt"
	"time"

	"github.com/customerly-inc/customerly/internal/shared/biztime"
	"github.com/customerly-inc/customerly/internal/shared/id"
)

const DefaultMaxTickets = 20

// Agent is a staff user's membership in a team along with their ticket load.
type Agent struct {
	id             string
	userID         string
	teamID         string
	maxTickets     int
	currentTickets int
	createdAt      time.Time
	updatedAt      time.Time
}

func NewAgent(userID, teamID string, maxTickets int) (*Agent, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if teamID == "" {
		return nil, fmt.Errorf("team ID is required")
	}
	if maxTickets <= 0 {
		maxTickets = DefaultMaxTickets
	}
	now := biztime.NowUTC()
	return &Agent{
		id:         id.NewAgentID(),
		userID:     userID,
		teamID:     teamID,
		maxTickets: maxTickets,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructAgent(agentID, userID, teamID string, maxTickets, currentTickets int, createdAt, updatedAt time.Time) (*Agent, error) {
	if currentTickets < 0 || currentTickets > maxTickets {
		return nil, fmt.Errorf("current tickets must be between 0 and max tickets")
	}
	return &Agent{
		id:             agentID,
		userID:         userID,
		teamID:         teamID,
		maxTickets:     maxTickets,
		currentTickets: currentTickets,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

func (a *Agent) ID() string           { return a.id }
func (a *Agent) UserID() string       { return a.userID }
func (a *Agent) TeamID() string       { return a.teamID }
func (a *Agent) MaxTickets() int      { return a.maxTickets }
func (a *Agent) CurrentTickets() int  { return a.currentTickets }
func (a *Agent) CreatedAt() time.Time { return a.createdAt }
func (a *Agent) UpdatedAt() time.Time { return a.updatedAt }

func (a *Agent) HasCapacity() bool {
	return a.currentTickets < a.maxTickets
}

// TakeTicket books one more ticket against the agent's capacity.
func (a *Agent) TakeTicket() error {
	if !a.HasCapacity() {
		return fmt.Errorf("agent %s is at capacity (%d tickets)", a.id, a.maxTickets)
	}
	a.currentTickets++
	a.updatedAt = biztime.NowUTC()
	return nil
}

func (a *Agent) ReleaseTicket() {
	if a.currentTickets == 0 {
		return
	}
	a.currentTickets--
	a.updatedAt = biztime.NowUTC()
}
