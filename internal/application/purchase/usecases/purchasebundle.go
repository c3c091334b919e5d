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

type PurchaseBundleCommand struct {
	MemberID      uint            `json:"member_id" validate:"required"`
	BundleID      string          `json:"bundle_id" validate:"required"`
	AmountUSD     decimal.Decimal `json:"amount_usd"`
	WalletAddress string          `json:"wallet_address" validate:"required"`
	VIPDays       int             `json:"vip_days" validate:"gte=7,lte=365"`
	Coins         int64           `json:"coins" validate:"gte=50,lte=5000"`
	ClientIP      string          `json:"client_ip"`
}

type PurchaseBundleUseCase struct {
	flow purchaseFlow
}

func NewPurchaseBundleUseCase(
	tracker PurchaseAdmitter,
	ledger reserve.Ledger,
	requests purchase.Repository,
	logger logger.Interface,
) *PurchaseBundleUseCase {
	return &PurchaseBundleUseCase{flow: purchaseFlow{tracker: tracker, ledger: ledger, requests: requests, logger: logger}}
}

func (uc *PurchaseBundleUseCase) Execute(ctx context.Context, cmd PurchaseBundleCommand) (*PurchaseResult, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}
	return uc.flow.run(ctx, fraud.Purchase{
		MemberID:      cmd.MemberID,
		WalletAddress: cmd.WalletAddress,
		AmountUSD:     cmd.AmountUSD,
		ClientIP:      cmd.ClientIP,
		Type:          fraud.PurchaseTypeBundle,
	}, product{id: cmd.BundleID, coins: cmd.Coins, vipDays: cmd.VIPDays})
}
