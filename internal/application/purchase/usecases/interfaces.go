package usecases

import (
	"context"

	"github.com/videocc/videocc/internal/domain/fraud"
)

// PurchaseAdmitter is the fraud tracker seen from the purchase flows.
type PurchaseAdmitter interface {
	Admit(ctx context.Context, attempt fraud.Purchase, commit func(ctx context.Context, attempt fraud.Purchase) error) (fraud.Decision, error)
}

type PurchaseVIPExecutor interface {
	Execute(ctx context.Context, cmd PurchaseVIPCommand) (*PurchaseResult, error)
}

type PurchaseCoinsExecutor interface {
	Execute(ctx context.Context, cmd PurchaseCoinsCommand) (*PurchaseResult, error)
}

type PurchaseBundleExecutor interface {
	Execute(ctx context.Context, cmd PurchaseBundleCommand) (*PurchaseResult, error)
}
