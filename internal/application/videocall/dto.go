package videocall

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/videocc/videocc/internal/domain/quota"
	"github.com/videocc/videocc/internal/domain/videocall"
)

type SessionDTO struct {
	ID              uint            `json:"id"`
	CallerID        uint            `json:"caller_id"`
	ReceiverID      uint            `json:"receiver_id"`
	IsMatch         bool            `json:"is_match"`
	CostPerMinute   decimal.Decimal `json:"cost_per_minute"`
	Status          string          `json:"status"`
	DurationSeconds int             `json:"duration_seconds"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	PaymentStatus   string          `json:"payment_status"`
	PaymentMethod   string          `json:"payment_method"`
	TransactionID   string          `json:"transaction_id,omitempty"`
	StartedAt       time.Time       `json:"started_at"`
	EndedAt         *time.Time      `json:"ended_at,omitempty"`
	BilledAt        *time.Time      `json:"billed_at,omitempty"`
}

func ToSessionDTO(s *videocall.Session) *SessionDTO {
	return &SessionDTO{
		ID:              s.ID(),
		CallerID:        s.CallerID(),
		ReceiverID:      s.ReceiverID(),
		IsMatch:         s.IsMatch(),
		CostPerMinute:   s.CostPerMinute(),
		Status:          string(s.Status()),
		DurationSeconds: s.DurationSeconds(),
		TotalCost:       s.TotalCost(),
		PaymentStatus:   string(s.PaymentStatus()),
		PaymentMethod:   string(s.PaymentMethod()),
		TransactionID:   s.TransactionID(),
		StartedAt:       s.StartedAt(),
		EndedAt:         s.EndedAt(),
		BilledAt:        s.BilledAt(),
	}
}

// RejectReason says why a call could not start.
type RejectReason string

const (
	ReasonMatchRequired  RejectReason = "match_required"
	ReasonDailyCallLimit RejectReason = "daily_call_limit"
)

var reasonMessages = map[RejectReason]string{
	ReasonMatchRequired:  "Video calls are only allowed with matched users for regular members",
	ReasonDailyCallLimit: "Daily video call limit reached",
}

func (r RejectReason) Message() string {
	return reasonMessages[r]
}

type StartCallResult struct {
	Allowed bool                `json:"allowed"`
	Reason  RejectReason        `json:"reason,omitempty"`
	Message string              `json:"message,omitempty"`
	Limits  quota.CallAllowance `json:"limits"`
	Session *SessionDTO         `json:"session,omitempty"`
}

type BillingSummary struct {
	Sessions    []*SessionDTO   `json:"sessions"`
	TotalUnpaid decimal.Decimal `json:"total_unpaid"`
}
