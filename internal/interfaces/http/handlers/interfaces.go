package handlers

import (
	"context"

	"github.com/videocc/videocc/internal/application/messaging"
	"github.com/videocc/videocc/internal/application/videocall"
	"github.com/videocc/videocc/internal/domain/quota"
)

type messagingService interface {
	SendMessage(ctx context.Context, cmd messaging.SendMessageCommand) (*messaging.SendMessageResult, error)
	CanSendMessageToUser(ctx context.Context, senderID, receiverID uint) (messaging.SendDecision, error)
	MessageLimits(ctx context.Context, senderID, targetID uint) (*messaging.MessageLimits, error)
}

type videoCallService interface {
	StartCall(ctx context.Context, cmd videocall.StartCallCommand) (*videocall.StartCallResult, error)
	EndCall(ctx context.Context, cmd videocall.EndCallCommand) (*videocall.SessionDTO, error)
	PayForCall(ctx context.Context, cmd videocall.PayForCallCommand) (*videocall.SessionDTO, error)
	BillingHistory(ctx context.Context, callerID uint) (*videocall.BillingSummary, error)
	DailyLimits(ctx context.Context, memberID uint) (quota.CallAllowance, error)
}
