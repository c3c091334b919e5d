package usecases

import (
	"context"

	"github.com/videocc/videocc/internal/domain/reserve"
	"github.com/videocc/videocc/internal/shared/logger"
)

type BalanceResult struct {
	Balance int64 `json:"vcc_tokens"`
}

type GetBalanceExecutor interface {
	Execute(ctx context.Context) (*BalanceResult, error)
}

type GetBalanceUseCase struct {
	ledger reserve.Ledger
	logger logger.Interface
}

func NewGetBalanceUseCase(ledger reserve.Ledger, logger logger.Interface) *GetBalanceUseCase {
	return &GetBalanceUseCase{ledger: ledger, logger: logger}
}

func (uc *GetBalanceUseCase) Execute(ctx context.Context) (*BalanceResult, error) {
	balance, err := uc.ledger.Balance(ctx)
	if err != nil {
		uc.logger.Errorw("failed to read token reserve", "error", err)
		return nil, err
	}
	return &BalanceResult{Balance: balance}, nil
}
