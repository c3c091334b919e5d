package messaging

import "github.com/videocc/videocc/internal/domain/quota"

// RejectReason says why a send was refused. Rejections are results, not
// errors; nothing is mutated when one is returned.
type RejectReason string

const (
	ReasonBlocked           RejectReason = "blocked"
	ReasonDailyMessageLimit RejectReason = "daily_message_limit"
	ReasonDailyContactLimit RejectReason = "daily_contact_limit"
	ReasonWaitingForReply   RejectReason = "waiting_for_reply"
)

var reasonMessages = map[RejectReason]string{
	ReasonBlocked:           "Cannot send message to this user",
	ReasonDailyMessageLimit: "Daily message limit exceeded",
	ReasonDailyContactLimit: "Daily limit of new conversations reached",
	ReasonWaitingForReply:   "Please wait for a reply before sending another message",
}

func (r RejectReason) Message() string {
	return reasonMessages[r]
}

type SendDecision struct {
	Allowed bool         `json:"allowed"`
	Reason  RejectReason `json:"reason,omitempty"`
	Message string       `json:"message,omitempty"`
}

func allowed() SendDecision {
	return SendDecision{Allowed: true}
}

func rejected(reason RejectReason) SendDecision {
	return SendDecision{Reason: reason, Message: reason.Message()}
}

// MessageLimits is the sender's quota view towards one target.
type MessageLimits struct {
	CanSendMessage bool                   `json:"can_send_message"`
	Contacts       quota.ContactAllowance `json:"contacts"`
}
