package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/videocc/videocc/internal/shared/constants"
	"github.com/videocc/videocc/internal/shared/errors"
)

// memberID extracts the authenticated member id set by the auth middleware.
func memberID(c *gin.Context) (uint, error) {
	v, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, errors.NewUnauthorizedError("user not authenticated")
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		return 0, errors.NewUnauthorizedError("user not authenticated")
	}
	return id, nil
}

func parseIDParam(c *gin.Context, name, label string) (uint, error) {
	idStr := c.Param(name)
	if idStr == "" {
		return 0, errors.NewValidationError(label + " is required")
	}

	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, errors.NewValidationError("Invalid " + label + " format")
	}

	if id == 0 {
		return 0, errors.NewValidationError(label + " cannot be zero")
	}

	return uint(id), nil
}

func bindError(err error) error {
	return errors.NewValidationError("Invalid request body", err.Error())
}
