package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/customerly-inc/customerly/internal/shared/biztime"
	"github.com/customerly-inc/customerly/internal/shared/id"
)

type Team struct {
	id        string
	name      string
	createdAt time.Time
	updatedAt time.Time
}

func NewTeam(name string) (*Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("team name is required")
	}
	if len(name) > maxNameLength {
		return nil, fmt.Errorf("team name cannot exceed %d characters", maxNameLength)
	}
	now := biztime.NowUTC()
	return &Team{id: id.NewTeamID(), name: name, createdAt: now, updatedAt: now}, nil
}

func ReconstructTeam(teamID, name string, createdAt, updatedAt time.Time) *Team {
	return &Team{id: teamID, name: name, createdAt: createdAt, updatedAt: updatedAt}
}

func (t *Team) ID() string           { return t.id }
func (t *Team) Name() string         { return t.name }
func (t *Team) CreatedAt() time.Time { return t.createdAt }
func (t *Team) UpdatedAt() time.Time { return t.updatedAt }
