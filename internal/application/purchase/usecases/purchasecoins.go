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

type PurchaseCoinsCommand struct {
	MemberID      uint            `json:"member_id" validate:"required"`
	PackageID     string          `json:"package_id" validate:"required"`
	AmountUSD     decimal.Decimal `json:"amount_usd"`
	WalletAddress string          `json:"wallet_address" validate:"required"`
	Coins         int64           `json:"coins" validate:"gte=10,lte=10000"`
	ClientIP      string          `json:"client_ip"`
}

type PurchaseCoinsUseCase struct {
	flow purchaseFlow
}

func NewPurchaseCoinsUseCase(
	tracker PurchaseAdmitter,
	ledger reserve.Ledger,
	requests purchase.Repository,
	logger logger.Interface,
) *PurchaseCoinsUseCase {
	return &PurchaseCoinsUseCase{flow: purchaseFlow{tracker: tracker, ledger: ledger, requests: requests, logger: logger}}
}

// Execute reserves the coins from the global pool and records the request.
func (uc *PurchaseCoinsUseCase) Execute(ctx context.Context, cmd PurchaseCoinsCommand) (*PurchaseResult, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}
	return uc.flow.run(ctx, fraud.Purchase{
		MemberID:      cmd.MemberID,
		WalletAddress: cmd.WalletAddress,
		AmountUSD:     cmd.AmountUSD,
		ClientIP:      cmd.ClientIP,
		Type:          fraud.PurchaseTypeCoins,
	}, product{id: cmd.PackageID, coins: cmd.Coins})
}
