package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/videocc/videocc/internal/domain/member"
	"github.com/videocc/videocc/internal/infrastructure/persistence/mappers"
	"github.com/videocc/videocc/internal/infrastructure/persistence/models"
	"github.com/videocc/videocc/internal/shared/db"
	apperrors "github.com/videocc/videocc/internal/shared/errors"
	"github.com/videocc/videocc/internal/shared/logger"
)

type MemberRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewMemberRepository(db *gorm.DB, logger logger.Interface) *MemberRepository {
	return &MemberRepository{db: db, logger: logger}
}

func (r *MemberRepository) Create(ctx context.Context, m *member.Member) error {
	model := mappers.MemberToModel(m)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("username already taken", m.Username())
		}
		return fmt.Errorf("failed to create member: %w", err)
	}
	m.SetID(model.ID)
	return nil
}

func (r *MemberRepository) Update(ctx context.Context, m *member.Member) error {
	model := mappers.MemberToModel(m)
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.MemberModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"gender":         model.Gender,
			"is_vip":         model.IsVIP,
			"vip_expires_at": model.VIPExpiresAt,
			"is_admin":       model.IsAdmin,
			"updated_at":     model.UpdatedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	return nil
}

func (r *MemberRepository) GetByID(ctx context.Context, id uint) (*member.Member, error) {
	var model models.MemberModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("member not found", fmt.Sprintf("id=%d", id))
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return mappers.MemberToDomain(&model), nil
}

func (r *MemberRepository) GetByUsername(ctx context.Context, username string) (*member.Member, error) {
	var model models.MemberModel
	if err := db.GetTxFromContext(ctx, r.db).Where("username = ?", username).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("member not found", username)
		}
		return nil, fmt.Errorf("failed to get member by username: %w", err)
	}
	return mappers.MemberToDomain(&model), nil
}

func (r *MemberRepository) IsBlocked(ctx context.Context, a, b uint) (bool, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.MemberBlockModel{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check block list: %w", err)
	}
	return count > 0, nil
}

func (r *MemberRepository) IsMutualFavorite(ctx context.Context, a, b uint) (bool, error) {
	if a == b {
		return false, nil
	}
	var count int64
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.MemberFavoriteModel{}).
		Where("(member_id = ? AND favorite_member_id = ?) OR (member_id = ? AND favorite_member_id = ?)", a, b, b, a).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check favorites: %w", err)
	}
	return count == 2, nil
}

func (r *MemberRepository) AddFavorite(ctx context.Context, memberID, favoriteID uint) error {
	err := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.MemberFavoriteModel{MemberID: memberID, FavoriteMemberID: favoriteID}).Error
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (r *MemberRepository) Block(ctx context.Context, blockerID, blockedID uint) error {
	err := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.MemberBlockModel{BlockerID: blockerID, BlockedID: blockedID}).Error
	if err != nil {
		return fmt.Errorf("failed to block member: %w", err)
	}
	return nil
}

func (r *MemberRepository) ExpireVIPs(ctx context.Context, now time.Time) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.MemberModel{}).
		Where("is_vip = ? AND vip_expires_at IS NOT NULL AND vip_expires_at <= ?", true, now).
		Updates(map[string]any{
			"is_vip":     false,
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire vip members: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		r.logger.Infow("expired vip memberships", "count", result.RowsAffected)
	}
	return result.RowsAffected, nil
}
