package http

import (
	"gorm.io/gorm"

	"github.com/videocc/videocc/internal/domain/conversation"
	"github.com/videocc/videocc/internal/domain/member"
	"github.com/videocc/videocc/internal/domain/purchase"
	"github.com/videocc/videocc/internal/domain/quota"
	"github.com/videocc/videocc/internal/domain/videocall"
	"github.com/videocc/videocc/internal/infrastructure/cache"
	"github.com/videocc/videocc/internal/infrastructure/repository"
	"github.com/videocc/videocc/internal/shared/db"
	"github.com/videocc/videocc/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	memberRepo          member.Repository
	dailyCounterRepo    quota.DailyCounterRepository
	conversationRepo    conversation.Repository
	messageRepo         conversation.MessageRepository
	videoCallRepo       videocall.Repository
	purchaseRequestRepo purchase.Repository
	txManager           *db.TransactionManager
}

// newRepositories creates all repository instances from the database connection.
// Member reads go through a small LRU in front of the database.
func newRepositories(gdb *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		memberRepo:          cache.NewCachedMemberRepository(repository.NewMemberRepository(gdb, log), 0, 0),
		dailyCounterRepo:    repository.NewDailyCounterRepository(gdb),
		conversationRepo:    repository.NewConversationRepository(gdb),
		messageRepo:         repository.NewMessageRepository(gdb),
		videoCallRepo:       repository.NewVideoCallRepository(gdb),
		purchaseRequestRepo: repository.NewPurchaseRequestRepository(gdb),
		txManager:           db.NewTransactionManager(gdb),
	}
}
