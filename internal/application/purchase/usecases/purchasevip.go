package usecases

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/videocc/videocc/internal/domain/fraud"
	"github.com/videocc/videocc/internal/domain/purchase"
	"github.com/videocc/videocc/internal/domain/reserve"
	"github.com/videocc/videocc/internal/shared/logger"
	"github.com/videocc/videocc/internal/shared/utils"
)

type PurchaseVIPCommand struct {
	MemberID      uint            `json:"member_id" validate:"required"`
	PlanID        string          `json:"plan_id" validate:"required"`
	AmountUSD     decimal.Decimal `json:"amount_usd"`
	WalletAddress string          `json:"wallet_address" validate:"required"`
	DurationDays  int             `json:"duration_days" validate:"gte=1"`
	ClientIP      string          `json:"client_ip"`
}

type PurchaseVIPUseCase struct {
	flow purchaseFlow
}

func NewPurchaseVIPUseCase(
	tracker PurchaseAdmitter,
	ledger reserve.Ledger,
	requests purchase.Repository,
	logger logger.Interface,
) *PurchaseVIPUseCase {
	return &PurchaseVIPUseCase{flow: purchaseFlow{tracker: tracker, ledger: ledger, requests: requests, logger: logger}}
}

// Execute records a VIP purchase request. VIP is granted once the payment
// is confirmed, not here.
func (uc *PurchaseVIPUseCase) Execute(ctx context.Context, cmd PurchaseVIPCommand) (*PurchaseResult, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}
	return uc.flow.run(ctx, fraud.Purchase{
		MemberID:      cmd.MemberID,
		WalletAddress: cmd.WalletAddress,
		AmountUSD:     cmd.AmountUSD,
		ClientIP:      cmd.ClientIP,
		Type:          fraud.PurchaseTypeVIP,
	}, product{id: cmd.PlanID, vipDays: cmd.DurationDays})
}
