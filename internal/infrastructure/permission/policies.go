package permission

import (
	"fmt"

	"github.com/customerly-inc/customerly/internal/shared/authorization"
)

// DefaultPolicies is the baseline rule set. Row-level checks such as a
// customer only seeing their own tickets live in the use cases.
var DefaultPolicies = [][3]string{
	{"admin", "*", "*"},

	{"agent", authorization.ResourceTickets, authorization.ActionRead},
	{"agent", authorization.ResourceTickets, authorization.ActionCreate},
	{"agent", authorization.ResourceTickets, authorization.ActionWrite},
	{"agent", authorization.ResourceTickets, authorization.ActionAssign},
	{"agent", authorization.ResourceMessages, authorization.ActionRead},
	{"agent", authorization.ResourceMessages, authorization.ActionWrite},
	{"agent", authorization.ResourceAttachments, authorization.ActionRead},
	{"agent", authorization.ResourceAttachments, authorization.ActionWrite},
	{"agent", authorization.ResourceDirectory, authorization.ActionRead},
	{"agent", authorization.ResourceFeed, authorization.ActionRead},

	{"customer", authorization.ResourceTickets, authorization.ActionRead},
	{"customer", authorization.ResourceTickets, authorization.ActionCreate},
	{"customer", authorization.ResourceTickets, authorization.ActionWrite},
	{"customer", authorization.ResourceMessages, authorization.ActionRead},
	{"customer", authorization.ResourceMessages, authorization.ActionWrite},
	{"customer", authorization.ResourceAttachments, authorization.ActionRead},
	{"customer", authorization.ResourceAttachments, authorization.ActionWrite},
	{"customer", authorization.ResourceFeed, authorization.ActionRead},
}

// SeedDefaultPolicies adds any missing default rule. Existing rules,
// including ones an operator added, are left alone.
func (e *Enforcer) SeedDefaultPolicies() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	added := 0
	for _, p := range DefaultPolicies {
		ok, err := e.enforcer.AddPolicy(p[0], p[1], p[2])
		if err != nil {
			e.logger.Errorw("failed to add permission policy",
				"error", err,
				"role", p[0],
				"resource", p[1],
				"action", p[2])
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w", p[0], p[1], p[2], err)
		}
		if ok {
			added++
		}
	}

	if added > 0 {
		e.logger.Infow("default permissions seeded", "added", added)
	}
	return nil
}
