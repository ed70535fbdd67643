package constants

import "time"

// Context and session keys
const (
	ContextKeyCaller     = "caller"
	ContextKeyResourceID = "resource_id"
	SessionCookieName    = "marketplace_session"
	SessionKeyToken      = "token"
)

// Account rules
const (
	MinPasswordLength = 8
	MinUsernameLength = 3
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Task drafting
const (
	MaxAIGeneratedTasks = 10
)

// Caching
const (
	DefaultTaskListCacheTTL = 30 * time.Second
	TaskListCachePrefix     = "tasks:list"
)
