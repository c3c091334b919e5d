package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/videocc/videocc/internal/domain/videocall"
	"github.com/videocc/videocc/internal/infrastructure/persistence/mappers"
	"github.com/videocc/videocc/internal/infrastructure/persistence/models"
	"github.com/videocc/videocc/internal/shared/db"
)

type VideoCallRepository struct {
	db *gorm.DB
}

func NewVideoCallRepository(db *gorm.DB) *VideoCallRepository {
	return &VideoCallRepository{db: db}
}

func (r *VideoCallRepository) Create(ctx context.Context, s *videocall.Session) error {
	model := mappers.VideoCallSessionToModel(s)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create video call session: %w", err)
	}
	s.SetID(model.ID)
	return nil
}

func (r *VideoCallRepository) Update(ctx context.Context, s *videocall.Session) error {
	model := mappers.VideoCallSessionToModel(s)
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.VideoCallSessionModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"status":           model.Status,
			"duration_seconds": model.DurationSeconds,
			"total_cost":       model.TotalCost,
			"payment_status":   model.PaymentStatus,
			"payment_method":   model.PaymentMethod,
			"transaction_id":   model.TransactionID,
			"started_at":       model.StartedAt,
			"ended_at":         model.EndedAt,
			"billed_at":        model.BilledAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update video call session: %w", err)
	}
	return nil
}

func (r *VideoCallRepository) GetByID(ctx context.Context, id uint) (*videocall.Session, error) {
	return r.get(db.GetTxFromContext(ctx, r.db), id)
}

func (r *VideoCallRepository) GetByIDForUpdate(ctx context.Context, id uint) (*videocall.Session, error) {
	return r.get(db.GetTxFromContext(ctx, r.db).Scopes(db.ForUpdate()), id)
}

func (r *VideoCallRepository) get(tx *gorm.DB, id uint) (*videocall.Session, error) {
	var model models.VideoCallSessionModel
	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, videocall.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get video call session: %w", err)
	}
	return mappers.VideoCallSessionToDomain(&model), nil
}

func (r *VideoCallRepository) ListByCaller(ctx context.Context, callerID uint) ([]*videocall.Session, error) {
	var rows []models.VideoCallSessionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("caller_id = ?", callerID).
		Order("started_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list video call sessions: %w", err)
	}
	sessions := make([]*videocall.Session, 0, len(rows))
	for i := range rows {
		sessions = append(sessions, mappers.VideoCallSessionToDomain(&rows[i]))
	}
	return sessions, nil
}
