// Package videocall models a billed video call between a caller and a
// receiver: PENDING -> ACTIVE -> ENDED, with payment PENDING -> PAID.
package videocall

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
	StatusEnded   Status = "ended"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

type PaymentMethod string

const (
	// PaymentMethodPending marks a session whose payer has not chosen yet.
	PaymentMethodPending PaymentMethod = "pending"
	PaymentMethodVIPFree PaymentMethod = "vip_free"
	PaymentMethodCrypto  PaymentMethod = "crypto"
	PaymentMethodTokens  PaymentMethod = "tokens"
)

// IsPayable reports whether a member may settle a bill with this method.
func (m PaymentMethod) IsPayable() bool {
	return m == PaymentMethodCrypto || m == PaymentMethodTokens
}

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrAlreadyPaid       = errors.New("payment already processed")
	ErrNoPaymentRequired = errors.New("no payment required")
	ErrSessionEnded      = errors.New("session already ended")
	ErrSessionNotActive  = errors.New("session is not active")
)

// DefaultCostPerMinute is the platform rate in USD.
var DefaultCostPerMinute = decimal.RequireFromString("1.00")

type Session struct {
	id              uint
	callerID        uint
	receiverID      uint
	isMatch         bool
	costPerMinute   decimal.Decimal
	status          Status
	durationSeconds int
	totalCost       decimal.Decimal
	paymentStatus   PaymentStatus
	paymentMethod   PaymentMethod
	transactionID   string
	startedAt       time.Time
	endedAt         *time.Time
	billedAt        *time.Time
}

// NewSession creates a pending session billed at costPerMinute. VIP callers
// are marked vip_free up front.
func NewSession(callerID, receiverID uint, isMatch bool, costPerMinute decimal.Decimal, callerIsVIP bool, now time.Time) (*Session, error) {
	if callerID == 0 || receiverID == 0 {
		return nil, fmt.Errorf("caller and receiver are required")
	}
	if callerID == receiverID {
		return nil, fmt.Errorf("caller and receiver must differ")
	}
	if costPerMinute.IsNegative() {
		return nil, fmt.Errorf("cost per minute must not be negative")
	}
	method := PaymentMethodPending
	if callerIsVIP {
		method = PaymentMethodVIPFree
	}
	return &Session{
		callerID:      callerID,
		receiverID:    receiverID,
		isMatch:       isMatch,
		costPerMinute: costPerMinute,
		status:        StatusPending,
		totalCost:     decimal.Zero,
		paymentStatus: PaymentStatusPending,
		paymentMethod: method,
		startedAt:     now,
	}, nil
}

func ReconstructSession(id, callerID, receiverID uint, isMatch bool, costPerMinute decimal.Decimal, status Status,
	durationSeconds int, totalCost decimal.Decimal, paymentStatus PaymentStatus, paymentMethod PaymentMethod,
	transactionID string, startedAt time.Time, endedAt, billedAt *time.Time) *Session {
	return &Session{
		id:              id,
		callerID:        callerID,
		receiverID:      receiverID,
		isMatch:         isMatch,
		costPerMinute:   costPerMinute,
		status:          status,
		durationSeconds: durationSeconds,
		totalCost:       totalCost,
		paymentStatus:   paymentStatus,
		paymentMethod:   paymentMethod,
		transactionID:   transactionID,
		startedAt:       startedAt,
		endedAt:         endedAt,
		billedAt:        billedAt,
	}
}

func (s *Session) ID() uint                       { return s.id }
func (s *Session) CallerID() uint                 { return s.callerID }
func (s *Session) ReceiverID() uint               { return s.receiverID }
func (s *Session) IsMatch() bool                  { return s.isMatch }
func (s *Session) CostPerMinute() decimal.Decimal { return s.costPerMinute }
func (s *Session) Status() Status                 { return s.status }
func (s *Session) DurationSeconds() int           { return s.durationSeconds }
func (s *Session) TotalCost() decimal.Decimal     { return s.totalCost }
func (s *Session) PaymentStatus() PaymentStatus   { return s.paymentStatus }
func (s *Session) PaymentMethod() PaymentMethod   { return s.paymentMethod }
func (s *Session) TransactionID() string          { return s.transactionID }
func (s *Session) StartedAt() time.Time           { return s.startedAt }
func (s *Session) EndedAt() *time.Time            { return s.endedAt }
func (s *Session) BilledAt() *time.Time           { return s.billedAt }

func (s *Session) SetID(id uint) {
	s.id = id
}

// Activate moves a pending session to active once both sides are connected.
func (s *Session) Activate(now time.Time) error {
	if s.status != StatusPending {
		return fmt.Errorf("cannot activate session in status %s", s.status)
	}
	s.status = StatusActive
	s.startedAt = now
	return nil
}

// BilledMinutes rounds a call duration up to whole minutes.
func BilledMinutes(durationSeconds int) int64 {
	if durationSeconds <= 0 {
		return 0
	}
	return int64((durationSeconds + 59) / 60)
}

// CostFor is ceil(duration/60) * rate, rounded to cents.
func CostFor(durationSeconds int, costPerMinute decimal.Decimal) decimal.Decimal {
	return costPerMinute.Mul(decimal.NewFromInt(BilledMinutes(durationSeconds))).Round(2)
}

// End closes an active session and bills it. A VIP caller pays nothing and
// the session is settled immediately.
func (s *Session) End(durationSeconds int, callerIsVIP bool, now time.Time) error {
	switch s.status {
	case StatusEnded:
		return ErrSessionEnded
	case StatusActive:
	default:
		return ErrSessionNotActive
	}
	if durationSeconds < 0 {
		return fmt.Errorf("duration must not be negative")
	}

	s.status = StatusEnded
	s.durationSeconds = durationSeconds
	s.endedAt = &now
	s.billedAt = &now

	if callerIsVIP {
		s.totalCost = decimal.Zero
		s.paymentStatus = PaymentStatusPaid
		s.paymentMethod = PaymentMethodVIPFree
		return nil
	}
	s.totalCost = CostFor(durationSeconds, s.costPerMinute)
	s.paymentStatus = PaymentStatusPending
	return nil
}

// RequiresPayment is true for an unpaid session with a positive bill.
func (s *Session) RequiresPayment() bool {
	return s.paymentStatus != PaymentStatusPaid && s.totalCost.IsPositive()
}

// Pay settles the bill with method and records transactionID.
func (s *Session) Pay(method PaymentMethod, transactionID string) error {
	if s.paymentStatus == PaymentStatusPaid {
		return ErrAlreadyPaid
	}
	if !s.totalCost.IsPositive() {
		return ErrNoPaymentRequired
	}
	if !method.IsPayable() {
		return fmt.Errorf("unsupported payment method: %s", method)
	}
	s.paymentStatus = PaymentStatusPaid
	s.paymentMethod = method
	s.transactionID = transactionID
	return nil
}
