package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/videocc/videocc/internal/domain/fraud"
	"github.com/videocc/videocc/internal/domain/purchase"
	"github.com/videocc/videocc/internal/domain/reserve"
	"github.com/videocc/videocc/internal/shared/errors"
	"github.com/videocc/videocc/internal/shared/id"
	"github.com/videocc/videocc/internal/shared/logger"
)

// PurchaseResult is returned for approved and rejected attempts alike.
// Request is nil when Decision is a rejection.
type PurchaseResult struct {
	Decision         fraud.Decision `json:"decision"`
	Request          *RequestDTO    `json:"request,omitempty"`
	RemainingReserve *int64         `json:"remaining_vcc_tokens,omitempty"`
}

type RequestDTO struct {
	RequestID     string          `json:"request_id"`
	MemberID      uint            `json:"member_id"`
	Type          string          `json:"type"`
	ProductID     string          `json:"product_id"`
	AmountUSD     decimal.Decimal `json:"amount_usd"`
	WalletAddress string          `json:"wallet_address"`
	ClientIP      string          `json:"client_ip"`
	Coins         int64           `json:"coins,omitempty"`
	VIPDays       int             `json:"vip_days,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toRequestDTO(r *purchase.Request) *RequestDTO {
	return &RequestDTO{
		RequestID:     r.RequestID(),
		MemberID:      r.MemberID(),
		Type:          r.PurchaseType().String(),
		ProductID:     r.ProductID(),
		AmountUSD:     r.AmountUSD(),
		WalletAddress: r.WalletAddress(),
		ClientIP:      r.ClientIP(),
		Coins:         r.Coins(),
		VIPDays:       r.VIPDays(),
		Status:        string(r.Status()),
		CreatedAt:     r.CreatedAt(),
	}
}

// purchaseFlow is shared by the three crypto purchase use cases: fraud
// admission, then coin reservation, then the durable request record.
type purchaseFlow struct {
	tracker  PurchaseAdmitter
	ledger   reserve.Ledger
	requests purchase.Repository
	logger   logger.Interface
}

type product struct {
	id      string
	coins   int64
	vipDays int
}

func (f *purchaseFlow) run(ctx context.Context, attempt fraud.Purchase, p product) (*PurchaseResult, error) {
	result := &PurchaseResult{}

	decision, err := f.tracker.Admit(ctx, attempt, func(ctx context.Context, admitted fraud.Purchase) error {
		if p.coins > 0 {
			res, err := f.ledger.Reserve(ctx, p.coins)
			if err != nil {
				return err
			}
			if !res.OK {
				f.logger.Warnw("insufficient token reserve",
					"member_id", admitted.MemberID,
					"coins", p.coins,
					"available", res.Remaining,
				)
				return errors.NewUnavailableError("Insufficient VCC tokens in global pool",
					fmt.Sprintf("available=%d", res.Remaining))
			}
			result.RemainingReserve = &res.Remaining
		}

		req, err := purchase.NewRequest(id.NewPurchaseRequestID(), admitted, p.id, p.coins, p.vipDays)
		if err == nil {
			err = f.requests.Create(ctx, req)
		}
		if err != nil {
			f.refund(ctx, admitted.MemberID, p.coins)
			return err
		}
		result.Request = toRequestDTO(req)
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Decision = decision
	if decision.Valid {
		f.logger.Infow("purchase request accepted",
			"request_id", result.Request.RequestID,
			"member_id", attempt.MemberID,
			"type", attempt.Type,
		)
	}
	return result, nil
}

func (f *purchaseFlow) refund(ctx context.Context, memberID uint, coins int64) {
	if coins <= 0 {
		return
	}
	if _, err := f.ledger.Credit(ctx, coins); err != nil {
		f.logger.Errorw("failed to return reserved tokens",
			"member_id", memberID,
			"coins", coins,
			"error", err,
		)
	}
}
