package constants

// Context keys
const (
	ContextKeyUserID = "user_id"
)

// Validation limits
const (
	MaxUsernameLength = 150
	MinPasswordLength = 8
	MaxTaskTextLength = 200
)

// Pagination
const (
	PageSize = 10
)

// Token claims
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)
