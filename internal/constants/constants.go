package constants

import "time"

const (
	// ContextKeyUserID is the session and gin context key holding the authenticated user ID.
	ContextKeyUserID = "user_id"
	// ContextKeyUser is the gin context key holding the authenticated *models.User.
	ContextKeyUser = "current_user"
	// ContextKeyProject is the gin context key holding the project loaded by RequireProjectAccess.
	ContextKeyProject = "project"

	SessionCookieName = "org_session"

	MinPasswordLength = 8

	// PageSize is the fixed number of results per page on every list endpoint.
	PageSize = 10
	// MaxPage caps requested page numbers so offsets stay in range.
	MaxPage = 100_000

	// InvitationValidity is how long an invitation can be redeemed after creation.
	InvitationValidity = 48 * time.Hour

	DefaultPlan     = "free"
	DefaultMaxUsers = 1
	FallbackSlug    = "org"
)
