package constants

const (
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Gin context keys set by the auth and request id middleware.
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"

	TableMembers           = "members"
	TableMemberFavorites   = "member_favorites"
	TableMemberBlocks      = "member_blocks"
	TableDailyCounters     = "daily_counters"
	TableConversationState = "conversation_states"
	TableMessages          = "messages"
	TableVideoCallSessions = "video_call_sessions"
	TablePurchaseRequests  = "purchase_requests"
)
