package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/videocc/videocc/internal/application/videocall"
	"github.com/videocc/videocc/internal/shared/logger"
	"github.com/videocc/videocc/internal/shared/utils"
)

type VideoCallHandler struct {
	service videoCallService
	logger  logger.Interface
}

func NewVideoCallHandler(service videoCallService, logger logger.Interface) *VideoCallHandler {
	return &VideoCallHandler{service: service, logger: logger}
}

type StartCallRequest struct {
	ReceiverID uint `json:"receiver_id" binding:"required"`
}

type EndCallRequest struct {
	DurationSeconds int `json:"duration_seconds" binding:"gte=0,lte=86400"`
}

type PayForCallRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required,oneof=crypto tokens"`
	WalletAddress string `json:"wallet_address" binding:"required_if=PaymentMethod crypto"`
}

// StartCall handles POST /api/video-calls
func (h *VideoCallHandler) StartCall(c *gin.Context) {
	callerID, err := memberID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req StartCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for start call", "error", err, "caller_id", callerID)
		utils.ErrorResponseWithError(c, bindError(err))
		return
	}

	result, err := h.service.StartCall(c.Request.Context(), videocall.StartCallCommand{
		CallerID:   callerID,
		ReceiverID: req.ReceiverID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if !result.Allowed {
		utils.RejectedResponse(c, http.StatusForbidden, result.Message, result)
		return
	}

	utils.CreatedResponse(c, result, "Call started")
}

// EndCall handles POST /api/video-calls/:id/end
func (h *VideoCallHandler) EndCall(c *gin.Context) {
	callerID, err := memberID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	sessionID, err := parseIDParam(c, "id", "session ID")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req EndCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, bindError(err))
		return
	}

	session, err := h.service.EndCall(c.Request.Context(), videocall.EndCallCommand{
		SessionID:       sessionID,
		MemberID:        callerID,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Call ended", session)
}

// PayForCall handles POST /api/video-calls/:id/pay
func (h *VideoCallHandler) PayForCall(c *gin.Context) {
	callerID, err := memberID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	sessionID, err := parseIDParam(c, "id", "session ID")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req PayForCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, bindError(err))
		return
	}

	session, err := h.service.PayForCall(c.Request.Context(), videocall.PayForCallCommand{
		SessionID:     sessionID,
		MemberID:      callerID,
		Method:        req.PaymentMethod,
		WalletAddress: req.WalletAddress,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Payment processed successfully", session)
}

// BillingHistory handles GET /api/video-calls/billing
func (h *VideoCallHandler) BillingHistory(c *gin.Context) {
	callerID, err := memberID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	summary, err := h.service.BillingHistory(c.Request.Context(), callerID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", summary)
}

// DailyLimits handles GET /api/daily-limits
func (h *VideoCallHandler) DailyLimits(c *gin.Context) {
	id, err := memberID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	limits, err := h.service.DailyLimits(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", limits)
}
