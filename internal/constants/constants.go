package constants

// Context keys
const (
	ContextKeyUserID = "user_id"
)

// Authentication
const (
	MinPasswordLength = 8
	TokenExpiryHours  = 24
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Organization hierarchy
const (
	MaxHierarchyDepth = 5
)

// Notices
const (
	DefaultNoticeExpirationDays = 30
	DefaultInviteExpirationDays = 14
)
