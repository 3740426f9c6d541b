package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/customerly-inc/customerly/internal/domain/user"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

const (
	maxDirectoryEntries = 10000
	directoryTTL        = 5 * time.Minute
)

// DirectoryCache fronts the user and team repositories with an in-process
// LRU. Concurrent misses for the same key share one query. Agents are read
// through because their ticket load changes on every assignment.
type DirectoryCache struct {
	users  user.Repository
	teams  user.TeamRepository
	agents user.AgentRepository

	userCache *expirable.LRU[string, *user.User]
	teamCache *expirable.LRU[string, *user.Team]
	group     singleflight.Group
	logger    logger.Interface
}

func NewDirectoryCache(
	users user.Repository,
	teams user.TeamRepository,
	agents user.AgentRepository,
	ttl time.Duration,
	log logger.Interface,
) *DirectoryCache {
	if ttl <= 0 {
		ttl = directoryTTL
	}
	return &DirectoryCache{
		users:     users,
		teams:     teams,
		agents:    agents,
		userCache: expirable.NewLRU[string, *user.User](maxDirectoryEntries, nil, ttl),
		teamCache: expirable.NewLRU[string, *user.Team](maxDirectoryEntries, nil, ttl),
		logger:    log,
	}
}

func (c *DirectoryCache) GetUser(ctx context.Context, userID string) (*user.User, error) {
	if u, ok := c.userCache.Get(userID); ok {
		return u, nil
	}
	v, err, _ := c.group.Do("user:"+userID, func() (any, error) {
		u, err := c.users.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		c.userCache.Add(userID, u)
		return u, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*user.User), nil
}

// GetUsers returns the users that exist keyed by ID. Unknown IDs are
// absent from the map.
func (c *DirectoryCache) GetUsers(ctx context.Context, userIDs []string) (map[string]*user.User, error) {
	out := make(map[string]*user.User, len(userIDs))
	var missing []string
	for _, id := range userIDs {
		if _, seen := out[id]; seen || id == "" {
			continue
		}
		if u, ok := c.userCache.Get(id); ok {
			out[id] = u
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}

	loaded, err := c.users.GetByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, u := range loaded {
		c.userCache.Add(u.ID(), u)
		out[u.ID()] = u
	}
	if len(loaded) < len(missing) {
		c.logger.Debugw("directory lookup left users unresolved",
			"requested", len(missing), "found", len(loaded))
	}
	return out, nil
}

func (c *DirectoryCache) GetTeam(ctx context.Context, teamID string) (*user.Team, error) {
	if t, ok := c.teamCache.Get(teamID); ok {
		return t, nil
	}
	v, err, _ := c.group.Do("team:"+teamID, func() (any, error) {
		t, err := c.teams.GetByID(ctx, teamID)
		if err != nil {
			return nil, err
		}
		c.teamCache.Add(teamID, t)
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*user.Team), nil
}

func (c *DirectoryCache) GetAgent(ctx context.Context, agentID string) (*user.Agent, error) {
	return c.agents.GetByID(ctx, agentID)
}

// InvalidateUser drops a user after a profile or role change.
func (c *DirectoryCache) InvalidateUser(userID string) {
	c.userCache.Remove(userID)
}
