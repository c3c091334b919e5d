package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/videocc/videocc/internal/shared/constants"
)

// DailyCounterModel has one row per member and business day.
type DailyCounterModel struct {
	ID                 uint           `gorm:"primaryKey"`
	MemberID           uint           `gorm:"uniqueIndex:uk_member_day;not null"`
	Day                string         `gorm:"uniqueIndex:uk_member_day;size:10;not null"`
	MessagesSent       int            `gorm:"not null;default:0"`
	ContactedMemberIDs datatypes.JSON `gorm:"column:contacted_member_ids"`
	CallCount          int            `gorm:"not null;default:0"`
	CallSeconds        int            `gorm:"not null;default:0"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (DailyCounterModel) TableName() string {
	return constants.TableDailyCounters
}
