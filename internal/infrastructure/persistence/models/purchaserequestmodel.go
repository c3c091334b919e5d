package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/videocc/videocc/internal/shared/constants"
)

type PurchaseRequestModel struct {
	ID            uint            `gorm:"primaryKey"`
	RequestID     string          `gorm:"uniqueIndex;size:40;not null"`
	MemberID      uint            `gorm:"index;not null"`
	PurchaseType  string          `gorm:"size:20;not null"`
	ProductID     string          `gorm:"size:64"`
	AmountUSD     decimal.Decimal `gorm:"column:amount_usd;type:decimal(10,2);not null"`
	WalletAddress string          `gorm:"size:64;index;not null"`
	ClientIP      string          `gorm:"size:64;index;not null"`
	Coins         int64           `gorm:"not null;default:0"`
	VIPDays       int             `gorm:"column:vip_days;not null;default:0"`
	Status        string          `gorm:"size:16;not null"`
	CreatedAt     time.Time       `gorm:"index"`
}

func (PurchaseRequestModel) TableName() string {
	return constants.TablePurchaseRequests
}
