package usecases

import (
	"context"

	"github.com/videocc/videocc/internal/domain/reserve"
	"github.com/videocc/videocc/internal/shared/errors"
	"github.com/videocc/videocc/internal/shared/logger"
	"github.com/videocc/videocc/internal/shared/utils"
)

type AdjustBalanceCommand struct {
	Operation string `json:"operation" validate:"required,oneof=add subtract set"`
	Amount    int64  `json:"amount" validate:"gte=0"`
	AdminID   uint   `json:"admin_id" validate:"required"`
}

type AdjustBalanceResult struct {
	Operation string `json:"operation"`
	Amount    int64  `json:"amount"`
	Balance   int64  `json:"vcc_tokens"`
}

type AdjustBalanceExecutor interface {
	Execute(ctx context.Context, cmd AdjustBalanceCommand) (*AdjustBalanceResult, error)
}

type AdjustBalanceUseCase struct {
	ledger reserve.Ledger
	logger logger.Interface
}

func NewAdjustBalanceUseCase(ledger reserve.Ledger, logger logger.Interface) *AdjustBalanceUseCase {
	return &AdjustBalanceUseCase{ledger: ledger, logger: logger}
}

func (uc *AdjustBalanceUseCase) Execute(ctx context.Context, cmd AdjustBalanceCommand) (*AdjustBalanceResult, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	op := reserve.Operation(cmd.Operation)
	if !op.IsValid() {
		return nil, errors.NewValidationError("invalid operation", cmd.Operation)
	}

	balance, err := reserve.Apply(ctx, uc.ledger, op, cmd.Amount)
	if err != nil {
		uc.logger.Errorw("failed to adjust token reserve", "operation", op, "amount", cmd.Amount, "error", err)
		return nil, err
	}

	uc.logger.Infow("token reserve adjusted",
		"admin_id", cmd.AdminID,
		"operation", op,
		"amount", cmd.Amount,
		"balance", balance,
	)
	return &AdjustBalanceResult{Operation: cmd.Operation, Amount: cmd.Amount, Balance: balance}, nil
}
