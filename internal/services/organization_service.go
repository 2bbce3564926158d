package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yukikurage/org-management-api/internal/constants"
	"github.com/yukikurage/org-management-api/internal/models"
	"github.com/yukikurage/org-management-api/internal/repository"
	"github.com/yukikurage/org-management-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrNoOrganization          = errors.New("user is not affiliated with an organization")
	ErrOrganizationNotFound    = errors.New("organization not found")
	ErrCrossOrganization       = errors.New("resource belongs to another organization")
	ErrInvalidOrganizationName = errors.New("organization name cannot be empty")
	ErrInvalidSlug             = errors.New("slug is invalid")
	ErrSlugTaken               = errors.New("slug is already in use")
	ErrInvalidMaxUsers         = errors.New("max users must be at least 1")
)

// OrganizationService provides business logic for organization operations.
type OrganizationService struct {
	orgRepo repository.OrganizationRepository
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(orgRepo repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{
		orgRepo: orgRepo,
	}
}

// CreateOrganizationInput represents parameters to create a new organization.
type CreateOrganizationInput struct {
	Name     string
	Slug     string
	Plan     string
	MaxUsers *int
}

// UpdateOrganizationInput holds the fields of a partial organization update.
type UpdateOrganizationInput struct {
	Name      *string
	Slug      *string
	Plan      *string
	MaxUsers  *int
	IsActive  *bool
	IsDeleted *bool
}

// Create creates an organization and affiliates the acting user with it. A
// blank slug is generated from the name.
func (s *OrganizationService) Create(ctx context.Context, actor *models.User, input CreateOrganizationInput) (*models.Organization, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidOrganizationName
	}

	var (
		slug string
		err  error
	)
	if strings.TrimSpace(input.Slug) == "" {
		slug, err = s.generateSlug(ctx, name)
	} else {
		slug, err = s.validateSlug(ctx, input.Slug, 0)
	}
	if err != nil {
		return nil, err
	}

	org := &models.Organization{
		Name:     name,
		Slug:     slug,
		Plan:     constants.DefaultPlan,
		MaxUsers: constants.DefaultMaxUsers,
		IsActive: true,
	}
	if input.Plan != "" {
		org.Plan = input.Plan
	}
	if input.MaxUsers != nil {
		if *input.MaxUsers < 1 {
			return nil, ErrInvalidMaxUsers
		}
		org.MaxUsers = *input.MaxUsers
	}
	if actor.Email != "" {
		email := actor.Email
		org.OwnerEmail = &email
	}

	if err := s.orgRepo.Create(ctx, org, actor); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Uint64("organization_id", org.ID).
		Str("slug", org.Slug).
		Uint64("creator_id", actor.ID).
		Msg("organization created")

	return org, nil
}

// GetMine returns the actor's organization, or nil when the actor has none or
// it was deleted.
func (s *OrganizationService) GetMine(ctx context.Context, actor *models.User) (*models.Organization, error) {
	return actorOrganization(ctx, s.orgRepo, actor)
}

// UpdateMine applies a partial update to the actor's organization. It returns
// nil without error when the actor has no usable organization. Marking the
// organization deleted detaches every affiliated user in the same transaction.
func (s *OrganizationService) UpdateMine(ctx context.Context, actor *models.User, input UpdateOrganizationInput) (*models.Organization, error) {
	org, err := actorOrganization(ctx, s.orgRepo, actor)
	if err != nil || org == nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidOrganizationName
		}
		org.Name = name
	}
	if input.Slug != nil {
		slug, err := s.validateSlug(ctx, *input.Slug, org.ID)
		if err != nil {
			return nil, err
		}
		org.Slug = slug
	}
	if input.MaxUsers != nil {
		if *input.MaxUsers < 1 {
			return nil, ErrInvalidMaxUsers
		}
		org.MaxUsers = *input.MaxUsers
	}
	if input.Plan != nil {
		org.Plan = *input.Plan
	}
	if input.IsActive != nil {
		org.IsActive = *input.IsActive
	}

	if input.IsDeleted != nil && *input.IsDeleted {
		detached, err := s.orgRepo.SoftDeleteAndDetach(ctx, org)
		if err != nil {
			return nil, s.saveError(err)
		}
		zerolog.Ctx(ctx).Info().
			Uint64("organization_id", org.ID).
			Int64("detached_users", detached).
			Msg("organization deleted")
		return org, nil
	}

	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, s.saveError(err)
	}
	return org, nil
}

func (s *OrganizationService) saveError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSlugTaken
	}
	return fmt.Errorf("failed to update organization: %w", err)
}

// validateSlug normalizes a requested slug and checks it is free, ignoring
// the organization excludeID.
func (s *OrganizationService) validateSlug(ctx context.Context, raw string, excludeID uint64) (string, error) {
	slug := utils.Slugify(raw)
	if slug == "" {
		return "", ErrInvalidSlug
	}

	exists, err := s.orgRepo.SlugExists(ctx, slug, excludeID)
	if err != nil {
		return "", fmt.Errorf("failed to check slug: %w", err)
	}
	if exists {
		return "", ErrSlugTaken
	}
	return slug, nil
}

// generateSlug derives a slug from name, appending -2, -3, ... until it is free.
func (s *OrganizationService) generateSlug(ctx context.Context, name string) (string, error) {
	base, err := utils.SlugOrFallback(name, constants.FallbackSlug)
	if err != nil {
		return "", ErrInvalidSlug
	}
	// leave room for the numeric suffix within the 50 character column
	if len(base) > 40 {
		base = strings.Trim(base[:40], "-_")
	}

	candidate := base
	for i := 2; ; i++ {
		exists, err := s.orgRepo.SlugExists(ctx, candidate, 0)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// actorOrganization loads the actor's organization. It returns nil when the
// actor has none or it is soft-deleted.
func actorOrganization(ctx context.Context, orgRepo repository.OrganizationRepository, actor *models.User) (*models.Organization, error) {
	if actor == nil || actor.OrganizationID == nil {
		return nil, nil
	}

	org, err := orgRepo.FindByID(ctx, *actor.OrganizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	if !org.Usable() {
		return nil, nil
	}
	return org, nil
}
