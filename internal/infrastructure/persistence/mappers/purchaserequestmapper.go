package mappers

import (
	"github.com/videocc/videocc/internal/domain/fraud"
	"github.com/videocc/videocc/internal/domain/purchase"
	"github.com/videocc/videocc/internal/infrastructure/persistence/models"
)

func PurchaseRequestToModel(r *purchase.Request) *models.PurchaseRequestModel {
	return &models.PurchaseRequestModel{
		ID:            r.ID(),
		RequestID:     r.RequestID(),
		MemberID:      r.MemberID(),
		PurchaseType:  r.PurchaseType().String(),
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

func PurchaseRequestToDomain(model *models.PurchaseRequestModel) *purchase.Request {
	return purchase.ReconstructRequest(
		model.ID,
		model.RequestID,
		model.MemberID,
		fraud.PurchaseType(model.PurchaseType),
		model.ProductID,
		model.AmountUSD,
		model.WalletAddress,
		model.ClientIP,
		model.Coins,
		model.VIPDays,
		purchase.Status(model.Status),
		model.CreatedAt,
	)
}
