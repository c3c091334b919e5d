// Package purchase records approved crypto purchase requests. Settlement of
// the request happens outside this service; the record is the durable source
// the fraud history is rebuilt from.
package purchase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/videocc/videocc/internal/domain/fraud"
)

type Status string

const (
	StatusPending Status = "pending"
)

// Request is an approved purchase waiting for on-chain settlement.
type Request struct {
	id            uint
	requestID     string
	memberID      uint
	purchaseType  fraud.PurchaseType
	productID     string
	amountUSD     decimal.Decimal
	walletAddress string
	clientIP      string
	coins         int64
	vipDays       int
	status        Status
	createdAt     time.Time
}

// NewRequest builds the record of an admitted attempt.
func NewRequest(requestID string, attempt fraud.Purchase, productID string, coins int64, vipDays int) (*Request, error) {
	if requestID == "" {
		return nil, fmt.Errorf("request id is required")
	}
	if err := attempt.Validate(); err != nil {
		return nil, err
	}
	if coins < 0 || vipDays < 0 {
		return nil, fmt.Errorf("coins and vip days must not be negative")
	}
	return &Request{
		requestID:     requestID,
		memberID:      attempt.MemberID,
		purchaseType:  attempt.Type,
		productID:     productID,
		amountUSD:     attempt.AmountUSD,
		walletAddress: attempt.WalletAddress,
		clientIP:      attempt.ClientIP,
		coins:         coins,
		vipDays:       vipDays,
		status:        StatusPending,
		createdAt:     attempt.At,
	}, nil
}

func ReconstructRequest(id uint, requestID string, memberID uint, purchaseType fraud.PurchaseType, productID string,
	amountUSD decimal.Decimal, walletAddress, clientIP string, coins int64, vipDays int, status Status, createdAt time.Time) *Request {
	return &Request{
		id:            id,
		requestID:     requestID,
		memberID:      memberID,
		purchaseType:  purchaseType,
		productID:     productID,
		amountUSD:     amountUSD,
		walletAddress: walletAddress,
		clientIP:      clientIP,
		coins:         coins,
		vipDays:       vipDays,
		status:        status,
		createdAt:     createdAt,
	}
}

func (r *Request) ID() uint                         { return r.id }
func (r *Request) RequestID() string                { return r.requestID }
func (r *Request) MemberID() uint                   { return r.memberID }
func (r *Request) PurchaseType() fraud.PurchaseType { return r.purchaseType }
func (r *Request) ProductID() string                { return r.productID }
func (r *Request) AmountUSD() decimal.Decimal       { return r.amountUSD }
func (r *Request) WalletAddress() string            { return r.walletAddress }
func (r *Request) ClientIP() string                 { return r.clientIP }
func (r *Request) Coins() int64                     { return r.coins }
func (r *Request) VIPDays() int                     { return r.vipDays }
func (r *Request) Status() Status                   { return r.status }
func (r *Request) CreatedAt() time.Time             { return r.createdAt }

func (r *Request) SetID(id uint) {
	r.id = id
}

// AsPurchase converts the record back into a fraud history entry.
func (r *Request) AsPurchase() fraud.Purchase {
	return fraud.Purchase{
		MemberID:      r.memberID,
		WalletAddress: r.walletAddress,
		AmountUSD:     r.amountUSD,
		ClientIP:      r.clientIP,
		Type:          r.purchaseType,
		At:            r.createdAt,
	}
}

type Repository interface {
	Create(ctx context.Context, r *Request) error
	// ListSince returns requests created at or after since, oldest first.
	ListSince(ctx context.Context, since time.Time) ([]*Request, error)
}
