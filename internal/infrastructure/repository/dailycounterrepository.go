package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/videocc/videocc/internal/domain/quota"
	"github.com/videocc/videocc/internal/infrastructure/persistence/mappers"
	"github.com/videocc/videocc/internal/infrastructure/persistence/models"
	"github.com/videocc/videocc/internal/shared/db"
)

type DailyCounterRepository struct {
	db *gorm.DB
}

func NewDailyCounterRepository(db *gorm.DB) *DailyCounterRepository {
	return &DailyCounterRepository{db: db}
}

func (r *DailyCounterRepository) Get(ctx context.Context, memberID uint, day string) (*quota.DailyCounter, error) {
	return r.get(db.GetTxFromContext(ctx, r.db), memberID, day)
}

func (r *DailyCounterRepository) GetForUpdate(ctx context.Context, memberID uint, day string) (*quota.DailyCounter, error) {
	return r.get(db.GetTxFromContext(ctx, r.db).Scopes(db.ForUpdate()), memberID, day)
}

func (r *DailyCounterRepository) get(tx *gorm.DB, memberID uint, day string) (*quota.DailyCounter, error) {
	var model models.DailyCounterModel
	err := tx.Where("member_id = ? AND day = ?", memberID, day).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return quota.NewDailyCounter(memberID, day, model.CreatedAt), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily counter: %w", err)
	}
	return mappers.DailyCounterToDomain(&model)
}

// Save upserts on (member_id, day) so two first actions of a day cannot
// create two rows.
func (r *DailyCounterRepository) Save(ctx context.Context, c *quota.DailyCounter) error {
	model, err := mappers.DailyCounterToModel(c)
	if err != nil {
		return err
	}
	err = db.GetTxFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"messages_sent", "contacted_member_ids", "call_count", "call_seconds", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to save daily counter: %w", err)
	}
	if c.ID() == 0 {
		c.SetID(model.ID)
	}
	return nil
}
