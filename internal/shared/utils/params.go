package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/customerly-inc/customerly/internal/shared/constants"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/id"
)

// ParseSIDParam reads a prefixed ID from a path parameter and checks its prefix.
func ParseSIDParam(c *gin.Context, paramName, prefix, entityName string) (string, error) {
	sid := c.Param(paramName)
	if sid == "" {
		return "", errors.NewValidationError(entityName + " ID is required")
	}
	if err := id.ValidatePrefix(sid, prefix); err != nil {
		return "", errors.NewValidationError(
			fmt.Sprintf("invalid %s ID format, expected %s_xxxxx", entityName, prefix),
		)
	}
	return sid, nil
}

// GetUserIDFromContext returns the authenticated user set by the auth middleware.
func GetUserIDFromContext(c *gin.Context) (string, error) {
	userID := c.GetString(constants.ContextKeyUserID)
	if userID == "" {
		return "", errors.NewUnauthorizedError(constants.ErrMsgUnauthorized)
	}
	return userID, nil
}
