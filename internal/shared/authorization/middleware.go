package authorization

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/customerly-inc/customerly/internal/shared/constants"
	"github.com/customerly-inc/customerly/internal/shared/utils"
)

// RequireRole aborts with 403 unless the authenticated role is listed.
func RequireRole(roles ...UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := UserRole(c.GetString(constants.ContextKeyUserRole))
		for _, r := range roles {
			if current == r {
				c.Next()
				return
			}
		}
		utils.ErrorResponse(c, http.StatusForbidden, constants.ErrMsgForbidden)
		c.Abort()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return RequireRole(RoleAdmin)
}

func RequireStaff() gin.HandlerFunc {
	return RequireRole(RoleAdmin, RoleAgent)
}

// CurrentRole reads the role set by the auth middleware.
func CurrentRole(c *gin.Context) UserRole {
	return ParseUserRole(c.GetString(constants.ContextKeyUserRole))
}

// ActorFromContext builds the caller identity set by the auth middleware.
func ActorFromContext(c *gin.Context) (Actor, error) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		return Actor{}, err
	}
	return Actor{UserID: userID, Role: CurrentRole(c)}, nil
}
