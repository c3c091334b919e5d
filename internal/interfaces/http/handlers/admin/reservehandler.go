// Package admin holds the handlers behind the admin permission checks.
package admin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/videocc/videocc/internal/application/reserve/usecases"
	"github.com/videocc/videocc/internal/domain/fraud"
	"github.com/videocc/videocc/internal/shared/constants"
	"github.com/videocc/videocc/internal/shared/errors"
	"github.com/videocc/videocc/internal/shared/logger"
	"github.com/videocc/videocc/internal/shared/utils"
)

type fraudAnalytics interface {
	Analytics(ctx context.Context) (fraud.Analytics, error)
}

type ReserveHandler struct {
	adjustBalanceUC usecases.AdjustBalanceExecutor
	logger          logger.Interface
}

func NewReserveHandler(adjustBalanceUC usecases.AdjustBalanceExecutor, logger logger.Interface) *ReserveHandler {
	return &ReserveHandler{adjustBalanceUC: adjustBalanceUC, logger: logger}
}

type AdjustBalanceRequest struct {
	Operation string `json:"operation" binding:"required,oneof=add subtract set"`
	Amount    *int64 `json:"amount" binding:"required,gte=0"`
}

func (r *AdjustBalanceRequest) ToCommand(adminID uint) usecases.AdjustBalanceCommand {
	return usecases.AdjustBalanceCommand{
		Operation: r.Operation,
		Amount:    *r.Amount,
		AdminID:   adminID,
	}
}

// AdjustBalance handles POST /api/admin/vcc-balance
func (h *ReserveHandler) AdjustBalance(c *gin.Context) {
	adminID := c.GetUint(constants.ContextKeyUserID)

	var req AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for reserve adjustment", "error", err, "admin_id", adminID)
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request body", err.Error()))
		return
	}

	result, err := h.adjustBalanceUC.Execute(c.Request.Context(), req.ToCommand(adminID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "VCC token balance updated", result)
}

type FraudHandler struct {
	analytics fraudAnalytics
}

func NewFraudHandler(analytics fraudAnalytics) *FraudHandler {
	return &FraudHandler{analytics: analytics}
}

// Analytics handles GET /api/admin/fraud-analytics
func (h *FraudHandler) Analytics(c *gin.Context) {
	result, err := h.analytics.Analytics(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}
