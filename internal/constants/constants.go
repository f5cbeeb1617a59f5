package constants

// Session and context keys
const (
	ContextKeyUserID = "user_id"
	SessionName      = "taskdesk_session"
)

// Pagination bounds
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
