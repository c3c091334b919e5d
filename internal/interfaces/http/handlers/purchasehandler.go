package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/videocc/videocc/internal/application/purchase/usecases"
	"github.com/videocc/videocc/internal/shared/logger"
	"github.com/videocc/videocc/internal/shared/utils"
)

type PurchaseHandler struct {
	purchaseVIPUC    usecases.PurchaseVIPExecutor
	purchaseCoinsUC  usecases.PurchaseCoinsExecutor
	purchaseBundleUC usecases.PurchaseBundleExecutor
	logger           logger.Interface
}

func NewPurchaseHandler(
	purchaseVIPUC usecases.PurchaseVIPExecutor,
	purchaseCoinsUC usecases.PurchaseCoinsExecutor,
	purchaseBundleUC usecases.PurchaseBundleExecutor,
	logger logger.Interface,
) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseVIPUC:    purchaseVIPUC,
		purchaseCoinsUC:  purchaseCoinsUC,
		purchaseBundleUC: purchaseBundleUC,
		logger:           logger,
	}
}

type PurchaseVIPRequest struct {
	PlanID        string          `json:"plan_id" binding:"required"`
	AmountUSD     decimal.Decimal `json:"amount_usd"`
	WalletAddress string          `json:"wallet_address" binding:"required"`
	DurationDays  int             `json:"duration_days" binding:"required"`
}

func (r *PurchaseVIPRequest) ToCommand(memberID uint, clientIP string) usecases.PurchaseVIPCommand {
	return usecases.PurchaseVIPCommand{
		MemberID:      memberID,
		PlanID:        r.PlanID,
		AmountUSD:     r.AmountUSD,
		WalletAddress: r.WalletAddress,
		DurationDays:  r.DurationDays,
		ClientIP:      clientIP,
	}
}

type PurchaseCoinsRequest struct {
	PackageID     string          `json:"package_id" binding:"required"`
	AmountUSD     decimal.Decimal `json:"amount_usd"`
	WalletAddress string          `json:"wallet_address" binding:"required"`
	Coins         int64           `json:"coins" binding:"required"`
}

func (r *PurchaseCoinsRequest) ToCommand(memberID uint, clientIP string) usecases.PurchaseCoinsCommand {
	return usecases.PurchaseCoinsCommand{
		MemberID:      memberID,
		PackageID:     r.PackageID,
		AmountUSD:     r.AmountUSD,
		WalletAddress: r.WalletAddress,
		Coins:         r.Coins,
		ClientIP:      clientIP,
	}
}

type PurchaseBundleRequest struct {
	BundleID      string          `json:"bundle_id" binding:"required"`
	AmountUSD     decimal.Decimal `json:"amount_usd"`
	WalletAddress string          `json:"wallet_address" binding:"required"`
	VIPDays       int             `json:"vip_days" binding:"required"`
	Coins         int64           `json:"coins" binding:"required"`
}

func (r *PurchaseBundleRequest) ToCommand(memberID uint, clientIP string) usecases.PurchaseBundleCommand {
	return usecases.PurchaseBundleCommand{
		MemberID:      memberID,
		BundleID:      r.BundleID,
		AmountUSD:     r.AmountUSD,
		WalletAddress: r.WalletAddress,
		VIPDays:       r.VIPDays,
		Coins:         r.Coins,
		ClientIP:      clientIP,
	}
}

// PurchaseVIP handles POST /api/purchases/vip-crypto
func (h *PurchaseHandler) PurchaseVIP(c *gin.Context) {
	id, err := memberID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req PurchaseVIPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for vip purchase", "error", err, "member_id", id)
		utils.ErrorResponseWithError(c, bindError(err))
		return
	}

	result, err := h.purchaseVIPUC.Execute(c.Request.Context(), req.ToCommand(id, c.ClientIP()))
	h.respond(c, result, err, "VIP purchase request created")
}

// PurchaseCoins handles POST /api/purchases/coins-crypto
func (h *PurchaseHandler) PurchaseCoins(c *gin.Context) {
	id, err := memberID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req PurchaseCoinsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for coin purchase", "error", err, "member_id", id)
		utils.ErrorResponseWithError(c, bindError(err))
		return
	}

	result, err := h.purchaseCoinsUC.Execute(c.Request.Context(), req.ToCommand(id, c.ClientIP()))
	h.respond(c, result, err, "Coin purchase request created")
}

// PurchaseBundle handles POST /api/purchases/bundle-crypto
func (h *PurchaseHandler) PurchaseBundle(c *gin.Context) {
	id, err := memberID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req PurchaseBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for bundle purchase", "error", err, "member_id", id)
		utils.ErrorResponseWithError(c, bindError(err))
		return
	}

	result, err := h.purchaseBundleUC.Execute(c.Request.Context(), req.ToCommand(id, c.ClientIP()))
	h.respond(c, result, err, "Bundle purchase request created")
}

// respond maps a fraud rejection to 400 with the reason and an accepted
// request to 201.
func (h *PurchaseHandler) respond(c *gin.Context, result *usecases.PurchaseResult, err error, message string) {
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if !result.Decision.Valid {
		utils.RejectedResponse(c, http.StatusBadRequest, result.Decision.Reason, result.Decision)
		return
	}
	utils.CreatedResponse(c, result, message)
}
