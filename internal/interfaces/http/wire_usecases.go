package http

import (
	memberApp "github.com/videocc/videocc/internal/application/member"
	"github.com/videocc/videocc/internal/application/messaging"
	purchaseUsecases "github.com/videocc/videocc/internal/application/purchase/usecases"
	quotaApp "github.com/videocc/videocc/internal/application/quota"
	reserveUsecases "github.com/videocc/videocc/internal/application/reserve/usecases"
	"github.com/videocc/videocc/internal/application/videocall"
)

// allUseCases holds the application services and use cases.
type allUseCases struct {
	quotaLedger      *quotaApp.Ledger
	messagingService *messaging.Service
	videoCallService *videocall.Service

	// Purchase
	purchaseVIPUC    *purchaseUsecases.PurchaseVIPUseCase
	purchaseCoinsUC  *purchaseUsecases.PurchaseCoinsUseCase
	purchaseBundleUC *purchaseUsecases.PurchaseBundleUseCase

	// Reserve
	getBalanceUC    *reserveUsecases.GetBalanceUseCase
	adjustBalanceUC *reserveUsecases.AdjustBalanceUseCase

	// Member
	expireVIPsUC *memberApp.ExpireVIPsUseCase
}
