package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/videocc/videocc/internal/domain/purchase"
	"github.com/videocc/videocc/internal/infrastructure/persistence/mappers"
	"github.com/videocc/videocc/internal/infrastructure/persistence/models"
	"github.com/videocc/videocc/internal/shared/db"
)

type PurchaseRequestRepository struct {
	db *gorm.DB
}

func NewPurchaseRequestRepository(db *gorm.DB) *PurchaseRequestRepository {
	return &PurchaseRequestRepository{db: db}
}

func (r *PurchaseRequestRepository) Create(ctx context.Context, req *purchase.Request) error {
	model := mappers.PurchaseRequestToModel(req)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create purchase request: %w", err)
	}
	req.SetID(model.ID)
	return nil
}

func (r *PurchaseRequestRepository) ListSince(ctx context.Context, since time.Time) ([]*purchase.Request, error) {
	var rows []models.PurchaseRequestModel
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.Since("created_at", since)).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase requests: %w", err)
	}
	out := make([]*purchase.Request, 0, len(rows))
	for i := range rows {
		out = append(out, mappers.PurchaseRequestToDomain(&rows[i]))
	}
	return out, nil
}
