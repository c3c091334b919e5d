package http

import (
	"github.com/videocc/videocc/internal/interfaces/http/handlers"
	adminHandlers "github.com/videocc/videocc/internal/interfaces/http/handlers/admin"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	healthHandler    *handlers.HealthHandler
	messageHandler   *handlers.MessageHandler
	videoCallHandler *handlers.VideoCallHandler
	purchaseHandler  *handlers.PurchaseHandler
	reserveHandler   *handlers.ReserveHandler

	// Admin
	adminReserveHandler *adminHandlers.ReserveHandler
	adminFraudHandler   *adminHandlers.FraudHandler
}

// ============================================================
// Section 4: Handlers
// ============================================================

func (c *Container) initHandlers() {
	ucs := c.ucs

	c.hdlrs = &allHandlers{
		healthHandler:    handlers.NewHealthHandler(c.db, c.redis),
		messageHandler:   handlers.NewMessageHandler(ucs.messagingService, c.log),
		videoCallHandler: handlers.NewVideoCallHandler(ucs.videoCallService, c.log),
		purchaseHandler: handlers.NewPurchaseHandler(
			ucs.purchaseVIPUC, ucs.purchaseCoinsUC, ucs.purchaseBundleUC, c.log,
		),
		reserveHandler: handlers.NewReserveHandler(ucs.getBalanceUC),

		adminReserveHandler: adminHandlers.NewReserveHandler(ucs.adjustBalanceUC, c.log),
		adminFraudHandler:   adminHandlers.NewFraudHandler(c.tracker),
	}
}
