package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yukikurage/org-management-api/internal/models"
	"github.com/yukikurage/org-management-api/internal/repository"
	"github.com/yukikurage/org-management-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrMemberNotFound      = errors.New("user not found")
	ErrSelfModification    = errors.New("you cannot change your own role or membership")
	ErrEmptyMemberUpdate   = errors.New("no changes were requested")
	ErrAdminDeletionDenied = errors.New("admin users cannot be removed")
	ErrIllegalTransition   = errors.New("this role change is not allowed")
	ErrAdminDemotionDenied = fmt.Errorf("%w: admin users cannot be demoted to member", ErrIllegalTransition)
)

// MemberChange describes what UpdateMember did to the target.
type MemberChange string

const (
	MemberRemoved  MemberChange = "removed"
	MemberPromoted MemberChange = "promoted"
)

// UpdateMemberInput holds a requested change to another member. Delete takes
// priority over Role when both are set.
type UpdateMemberInput struct {
	Role   *models.Role
	Delete *bool
}

// MembershipService enforces who may change a member's role or remove them.
type MembershipService struct {
	userRepo repository.UserRepository
	orgRepo  repository.OrganizationRepository
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(userRepo repository.UserRepository, orgRepo repository.OrganizationRepository) *MembershipService {
	return &MembershipService{
		userRepo: userRepo,
		orgRepo:  orgRepo,
	}
}

// UpdateMember removes or promotes the target user on behalf of actor.
// Preconditions are checked in order: the target exists and is not deleted,
// shares the actor's organization, is not the actor, and something was
// requested.
func (s *MembershipService) UpdateMember(ctx context.Context, actor *models.User, targetID uint64, input UpdateMemberInput) (*models.User, MemberChange, error) {
	target, err := s.userRepo.FindActiveByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrMemberNotFound
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if actor.OrganizationID == nil || !target.BelongsTo(*actor.OrganizationID) {
		return nil, "", ErrCrossOrganization
	}
	if target.ID == actor.ID {
		return nil, "", ErrSelfModification
	}

	wantsDelete := input.Delete != nil && *input.Delete
	if !wantsDelete && input.Role == nil {
		return nil, "", ErrEmptyMemberUpdate
	}

	logger := zerolog.Ctx(ctx)

	if wantsDelete {
		if target.Role == models.RoleAdmin {
			return nil, "", ErrAdminDeletionDenied
		}

		orgID := *target.OrganizationID
		target.IsDeleted = true
		target.IsActive = false
		target.Role = models.RoleMember
		target.Detach()
		if err := s.userRepo.Save(ctx, target); err != nil {
			return nil, "", fmt.Errorf("failed to remove member: %w", err)
		}

		logger.Info().
			Uint64("user_id", target.ID).
			Uint64("organization_id", orgID).
			Uint64("removed_by", actor.ID).
			Msg("member removed")
		return target, MemberRemoved, nil
	}

	if err := checkRoleTransition(target.Role, *input.Role); err != nil {
		return nil, "", err
	}

	target.Role = models.RoleAdmin
	if err := s.userRepo.Save(ctx, target); err != nil {
		return nil, "", fmt.Errorf("failed to promote member: %w", err)
	}

	logger.Info().
		Uint64("user_id", target.ID).
		Uint64("promoted_by", actor.ID).
		Msg("member promoted to admin")
	return target, MemberPromoted, nil
}

// checkRoleTransition allows Member to Admin and nothing else.
func checkRoleTransition(from, to models.Role) error {
	switch {
	case from == models.RoleMember && to == models.RoleAdmin:
		return nil
	case from == models.RoleAdmin && to == models.RoleMember:
		return ErrAdminDemotionDenied
	default:
		return ErrIllegalTransition
	}
}

// ListMembers returns a page of the non-deleted users of the actor's
// organization, most recently joined first.
func (s *MembershipService) ListMembers(ctx context.Context, actor *models.User, params utils.PaginationParams) ([]models.User, int64, error) {
	return s.list(ctx, actor, false, params, ErrOrganizationNotFound)
}

// ListActiveUsers returns a page of the active, non-deleted users of the
// actor's organization.
func (s *MembershipService) ListActiveUsers(ctx context.Context, actor *models.User, params utils.PaginationParams) ([]models.User, int64, error) {
	return s.list(ctx, actor, true, params, ErrNoOrganization)
}

func (s *MembershipService) list(ctx context.Context, actor *models.User, activeOnly bool, params utils.PaginationParams, missing error) ([]models.User, int64, error) {
	org, err := actorOrganization(ctx, s.orgRepo, actor)
	if err != nil {
		return nil, 0, err
	}
	if org == nil {
		return nil, 0, missing
	}

	users, total, err := s.userRepo.ListByOrganization(ctx, repository.MemberFilter{
		OrganizationID: org.ID,
		ActiveOnly:     activeOnly,
		Pagination:     params,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}
	return users, total, nil
}
