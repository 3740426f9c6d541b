package authorization

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/customerly-inc/customerly/internal/shared/constants"
	"github.com/customerly-inc/customerly/internal/shared/utils"
)

// Resources guarded by role policies.
const (
	ResourceTickets     = "tickets"
	ResourceMessages    = "messages"
	ResourceAttachments = "attachments"
	ResourceDirectory   = "directory"
	ResourceFeed        = "feed"
)

const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionWrite  = "write"
	ActionAssign = "assign"
	ActionDelete = "delete"
)

// Enforcer decides coarse role permissions.
type Enforcer interface {
	Enforce(role UserRole, resource, action string) (bool, error)
}

// RequirePermission aborts with 403 unless the caller's role may perform
// action on resource.
func RequirePermission(enforcer Enforcer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := enforcer.Enforce(CurrentRole(c), resource, action)
		if err != nil {
			utils.ErrorResponse(c, http.StatusInternalServerError, "permission check failed")
			c.Abort()
			return
		}
		if !allowed {
			utils.ErrorResponse(c, http.StatusForbidden, constants.ErrMsgForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
