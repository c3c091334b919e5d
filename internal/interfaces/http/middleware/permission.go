package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/videocc/videocc/internal/shared/authorization"
	"github.com/videocc/videocc/internal/shared/constants"
	"github.com/videocc/videocc/internal/shared/logger"
	"github.com/videocc/videocc/internal/shared/utils"
)

type policyEnforcer interface {
	Enforce(subject, object, action string) (bool, error)
}

// PermissionMiddleware checks the caller's role against the casbin policy.
type PermissionMiddleware struct {
	enforcer policyEnforcer
	logger   logger.Interface
}

func NewPermissionMiddleware(enforcer policyEnforcer, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		enforcer: enforcer,
		logger:   logger,
	}
}

func (m *PermissionMiddleware) RequirePermission(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(constants.ContextKeyUserID)
		if !exists {
			utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
			c.Abort()
			return
		}

		role := roleOf(c)
		allowed, err := m.enforcer.Enforce(role.String(), object, action)
		if err != nil {
			m.logger.Errorw("permission check failed", "error", err, "user_id", userID, "object", object, "action", action)
			utils.ErrorResponse(c, http.StatusInternalServerError, "permission check failed")
			c.Abort()
			return
		}

		if !allowed {
			m.logger.Warnw("permission denied", "user_id", userID, "role", role, "object", object, "action", action)
			utils.ErrorResponse(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

func roleOf(c *gin.Context) authorization.UserRole {
	v, _ := c.Get(constants.ContextKeyUserRole)
	switch v := v.(type) {
	case authorization.UserRole:
		return v
	case string:
		return authorization.ParseUserRole(v)
	default:
		return authorization.RoleMember
	}
}
