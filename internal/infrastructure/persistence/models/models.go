// Package models holds the gorm row types of the storage collaborator.
package models

// All lists every model for AutoMigrate in development and tests.
func All() []any {
	return []any{
		&MemberModel{},
		&MemberFavoriteModel{},
		&MemberBlockModel{},
		&DailyCounterModel{},
		&ConversationStateModel{},
		&MessageModel{},
		&VideoCallSessionModel{},
		&PurchaseRequestModel{},
	}
}
