package models

import (
	"time"

	"github.com/videocc/videocc/internal/shared/constants"
)

type MemberModel struct {
	ID           uint       `gorm:"primaryKey"`
	Username     string     `gorm:"uniqueIndex;size:64;not null"`
	Gender       string     `gorm:"size:16;not null"`
	IsVIP        bool       `gorm:"column:is_vip;not null;default:false"`
	VIPExpiresAt *time.Time `gorm:"column:vip_expires_at;index"`
	IsAdmin      bool       `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (MemberModel) TableName() string {
	return constants.TableMembers
}

type MemberFavoriteModel struct {
	ID               uint `gorm:"primaryKey"`
	MemberID         uint `gorm:"uniqueIndex:uk_member_favorite;not null"`
	FavoriteMemberID uint `gorm:"uniqueIndex:uk_member_favorite;index;not null"`
	CreatedAt        time.Time
}

func (MemberFavoriteModel) TableName() string {
	return constants.TableMemberFavorites
}

type MemberBlockModel struct {
	ID        uint `gorm:"primaryKey"`
	BlockerID uint `gorm:"uniqueIndex:uk_member_block;not null"`
	BlockedID uint `gorm:"uniqueIndex:uk_member_block;index;not null"`
	CreatedAt time.Time
}

func (MemberBlockModel) TableName() string {
	return constants.TableMemberBlocks
}
