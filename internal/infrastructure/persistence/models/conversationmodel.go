package models

import (
	"time"

	"github.com/videocc/videocc/internal/shared/constants"
)

type ConversationStateModel struct {
	ID                      uint      `gorm:"primaryKey"`
	SenderID                uint      `gorm:"uniqueIndex:uk_sender_receiver;not null"`
	ReceiverID              uint      `gorm:"uniqueIndex:uk_sender_receiver;not null"`
	LastMessageBySenderAt   time.Time `gorm:"not null"`
	LastMessageByReceiverAt *time.Time
	CanSenderMessageAgain   bool `gorm:"not null;default:true"`
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

func (ConversationStateModel) TableName() string {
	return constants.TableConversationState
}

type MessageModel struct {
	ID         uint   `gorm:"primaryKey"`
	SenderID   uint   `gorm:"index;not null"`
	ReceiverID uint   `gorm:"index;not null"`
	Content    string `gorm:"type:text;not null"`
	CreatedAt  time.Time
}

func (MessageModel) TableName() string {
	return constants.TableMessages
}
