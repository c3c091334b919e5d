package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/videocc/videocc/internal/application/messaging"
	"github.com/videocc/videocc/internal/shared/logger"
	"github.com/videocc/videocc/internal/shared/utils"
)

type MessageHandler struct {
	service messagingService
	logger  logger.Interface
}

func NewMessageHandler(service messagingService, logger logger.Interface) *MessageHandler {
	return &MessageHandler{service: service, logger: logger}
}

type SendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id" binding:"required"`
	Content    string `json:"content" binding:"required,max=2000"`
}

func (r *SendMessageRequest) ToCommand(senderID uint) messaging.SendMessageCommand {
	return messaging.SendMessageCommand{
		SenderID:   senderID,
		ReceiverID: r.ReceiverID,
		Content:    r.Content,
	}
}

type MessageResponse struct {
	ID         uint      `json:"id"`
	SenderID   uint      `json:"sender_id"`
	ReceiverID uint      `json:"receiver_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// SendMessage handles POST /api/messages
func (h *MessageHandler) SendMessage(c *gin.Context) {
	senderID, err := memberID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for send message", "error", err, "sender_id", senderID)
		utils.ErrorResponseWithError(c, bindError(err))
		return
	}

	result, err := h.service.SendMessage(c.Request.Context(), req.ToCommand(senderID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if !result.Decision.Allowed {
		utils.RejectedResponse(c, http.StatusForbidden, result.Decision.Message, result.Decision)
		return
	}

	msg := result.Message
	utils.CreatedResponse(c, MessageResponse{
		ID:         msg.ID(),
		SenderID:   msg.SenderID(),
		ReceiverID: msg.ReceiverID(),
		Content:    msg.Content(),
		CreatedAt:  msg.CreatedAt(),
	}, "Message sent")
}

// CanSendMessage handles GET /api/messages/permission/:userId
func (h *MessageHandler) CanSendMessage(c *gin.Context) {
	senderID, err := memberID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	receiverID, err := parseIDParam(c, "userId", "user ID")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	decision, err := h.service.CanSendMessageToUser(c.Request.Context(), senderID, receiverID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", decision)
}

// MessageLimits handles GET /api/message-limits/:userId
func (h *MessageHandler) MessageLimits(c *gin.Context) {
	senderID, err := memberID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	targetID, err := parseIDParam(c, "userId", "user ID")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	limits, err := h.service.MessageLimits(c.Request.Context(), senderID, targetID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", limits)
}
