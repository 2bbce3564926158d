package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/org-management-api/internal/models"
	"github.com/yukikurage/org-management-api/internal/utils"
)

// ErrInvitationConsumed is returned when the conditional update of an
// invitation matched no row: it was used, cancelled or expired concurrently.
var ErrInvitationConsumed = errors.New("invitation repository: invitation no longer pending")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID, including soft-deleted users, with the organization preloaded
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindActiveByID finds a user that is not soft-deleted
	FindActiveByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmailFold finds a user by email, ignoring case
	FindByEmailFold(ctx context.Context, email string) (*models.User, error)

	// FindByUsernameFold finds a user by username, ignoring case
	FindByUsernameFold(ctx context.Context, username string) (*models.User, error)

	// EmailTaken reports whether another user already uses the email, ignoring case
	EmailTaken(ctx context.Context, email string, excludeID uint64) (bool, error)

	// UsernameTaken reports whether another user already uses the username, ignoring case
	UsernameTaken(ctx context.Context, username string, excludeID uint64) (bool, error)

	// Save persists every field of the user
	Save(ctx context.Context, user *models.User) error

	// ListByOrganization lists non-deleted users of an organization, newest first
	ListByOrganization(ctx context.Context, filter MemberFilter) ([]models.User, int64, error)
}

// MemberFilter holds filtering options for listing organization users
type MemberFilter struct {
	OrganizationID uint64
	ActiveOnly     bool
	Pagination     utils.PaginationParams
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create creates an organization and affiliates its creator in one transaction
	Create(ctx context.Context, org *models.Organization, creator *models.User) error

	// FindByID finds an organization by ID
	FindByID(ctx context.Context, id uint64) (*models.Organization, error)

	// SlugExists reports whether a slug is taken, ignoring case. excludeID skips one organization.
	SlugExists(ctx context.Context, slug string, excludeID uint64) (bool, error)

	// Save persists every field of the organization
	Save(ctx context.Context, org *models.Organization) error

	// SoftDeleteAndDetach saves the organization flagged as deleted and detaches
	// all of its users in one transaction
	SoftDeleteAndDetach(ctx context.Context, org *models.Organization) (int64, error)
}

// InvitationRepository defines the interface for invitation data access
type InvitationRepository interface {
	// Create creates a new invitation
	Create(ctx context.Context, invitation *models.Invitation) error

	// FindByID finds an invitation by ID
	FindByID(ctx context.Context, id uint64) (*models.Invitation, error)

	// FindByToken finds an invitation by its token
	FindByToken(ctx context.Context, token string) (*models.Invitation, error)

	// List retrieves invitations of one organization, latest expiry first
	List(ctx context.Context, filter InvitationFilter) ([]models.Invitation, int64, error)

	// Redeem marks a pending invitation used and persists the redeeming user in
	// one transaction. ErrInvitationConsumed is returned when the invitation was
	// no longer pending at now.
	Redeem(ctx context.Context, invitation *models.Invitation, user *models.User, now time.Time) error

	// Cancel marks an unused invitation used. ErrInvitationConsumed is returned
	// when it was already used.
	Cancel(ctx context.Context, id uint64, now time.Time) error
}

// InvitationFilter holds filtering options for listing invitations
type InvitationFilter struct {
	OrganizationID uint64
	Used           *bool
	Pagination     utils.PaginationParams
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *models.Project) error

	// FindInOrganization finds a non-deleted project of the organization
	FindInOrganization(ctx context.Context, id, organizationID uint64) (*models.Project, error)

	// List retrieves non-deleted projects of an organization, newest first
	List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error)

	// Save persists every field of the project
	Save(ctx context.Context, project *models.Project) error
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	OrganizationID    uint64
	AppointedPersonID *uint64
	Pagination        utils.PaginationParams
}
