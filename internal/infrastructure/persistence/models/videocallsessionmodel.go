package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/videocc/videocc/internal/shared/constants"
)

type VideoCallSessionModel struct {
	ID              uint            `gorm:"primaryKey"`
	CallerID        uint            `gorm:"index;not null"`
	ReceiverID      uint            `gorm:"index;not null"`
	IsMatch         bool            `gorm:"not null;default:false"`
	CostPerMinute   decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Status          string          `gorm:"size:16;not null;index"`
	DurationSeconds int             `gorm:"not null;default:0"`
	TotalCost       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PaymentStatus   string          `gorm:"size:16;not null"`
	PaymentMethod   string          `gorm:"size:16;not null"`
	TransactionID   *string         `gorm:"size:64"`
	StartedAt       time.Time       `gorm:"index;not null"`
	EndedAt         *time.Time
	BilledAt        *time.Time
}

func (VideoCallSessionModel) TableName() string {
	return constants.TableVideoCallSessions
}
