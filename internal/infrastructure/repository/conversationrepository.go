package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/videocc/videocc/internal/domain/conversation"
	"github.com/videocc/videocc/internal/infrastructure/persistence/mappers"
	"github.com/videocc/videocc/internal/infrastructure/persistence/models"
	"github.com/videocc/videocc/internal/shared/db"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) Get(ctx context.Context, senderID, receiverID uint) (*conversation.Permission, error) {
	var model models.ConversationStateModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation state: %w", err)
	}
	return mappers.PermissionToDomain(&model), nil
}

func (r *ConversationRepository) Save(ctx context.Context, p *conversation.Permission) error {
	model := mappers.PermissionToModel(p)
	err := db.GetTxFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sender_id"}, {Name: "receiver_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"last_message_by_sender_at", "last_message_by_receiver_at", "can_sender_message_again", "updated_at",
		}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to save conversation state: %w", err)
	}
	if p.ID() == 0 {
		p.SetID(model.ID)
	}
	return nil
}

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *conversation.Message) error {
	model := mappers.MessageToModel(m)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	m.SetID(model.ID)
	return nil
}
