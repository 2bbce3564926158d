package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yukikurage/org-management-api/internal/models"
	"github.com/yukikurage/org-management-api/internal/repository"
	"github.com/yukikurage/org-management-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrProjectForbidden     = errors.New("you do not have permission to modify this project")
	ErrProjectNameRequired  = errors.New("project name is required")
	ErrInvalidProjectStatus = errors.New("invalid status value")
	ErrAppointeeNotFound    = errors.New("appointed person does not exist or is inactive")
	ErrAppointeeOutsideOrg  = errors.New("appointed person must belong to the same organization")
)

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	orgRepo     repository.OrganizationRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, orgRepo repository.OrganizationRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		orgRepo:     orgRepo,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name              string
	Description       *string
	Status            models.ProjectStatus
	AppointedPersonID *uint64
}

// UpdateProjectInput represents input for updating a project
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *models.ProjectStatus
	IsDeleted   *bool
}

// Create creates a project in the actor's organization
func (s *ProjectService) Create(ctx context.Context, actor *models.User, input CreateProjectInput) (*models.Project, error) {
	org, err := actorOrganization(ctx, s.orgRepo, actor)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, ErrNoOrganization
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	status := input.Status
	if status == "" {
		status = models.ProjectStatusActive
	}
	if !status.Valid() {
		return nil, ErrInvalidProjectStatus
	}

	creatorID := actor.ID
	project := &models.Project{
		OrganizationID: org.ID,
		Name:           name,
		Description:    input.Description,
		Status:         status,
		CreatedByID:    &creatorID,
	}

	if input.AppointedPersonID != nil {
		appointee, err := s.findAppointee(ctx, *input.AppointedPersonID, org.ID)
		if err != nil {
			return nil, err
		}
		project.AppointedPersonID = &appointee.ID
		project.AppointedPerson = appointee
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Uint64("project_id", project.ID).
		Uint64("organization_id", org.ID).
		Msg("project created")

	return project, nil
}

// findAppointee loads an active, non-deleted user of the organization.
func (s *ProjectService) findAppointee(ctx context.Context, userID, orgID uint64) (*models.User, error) {
	user, err := s.userRepo.FindActiveByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointeeNotFound
		}
		return nil, fmt.Errorf("failed to find appointed person: %w", err)
	}
	if !user.IsActive {
		return nil, ErrAppointeeNotFound
	}
	if !user.BelongsTo(orgID) {
		return nil, ErrAppointeeOutsideOrg
	}
	return user, nil
}

// List returns a page of the organization's projects, newest first
func (s *ProjectService) List(ctx context.Context, actor *models.User, params utils.PaginationParams) ([]models.Project, int64, error) {
	return s.list(ctx, actor, nil, params)
}

// ListAppointed returns a page of the projects appointed to the actor
func (s *ProjectService) ListAppointed(ctx context.Context, actor *models.User, params utils.PaginationParams) ([]models.Project, int64, error) {
	actorID := actor.ID
	return s.list(ctx, actor, &actorID, params)
}

func (s *ProjectService) list(ctx context.Context, actor *models.User, appointedID *uint64, params utils.PaginationParams) ([]models.Project, int64, error) {
	org, err := actorOrganization(ctx, s.orgRepo, actor)
	if err != nil {
		return nil, 0, err
	}
	if org == nil {
		return nil, 0, ErrOrganizationNotFound
	}

	projects, total, err := s.projectRepo.List(ctx, repository.ProjectFilter{
		OrganizationID:    org.ID,
		AppointedPersonID: appointedID,
		Pagination:        params,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// Get returns a non-deleted project of the actor's organization
func (s *ProjectService) Get(ctx context.Context, actor *models.User, id uint64) (*models.Project, error) {
	org, err := actorOrganization(ctx, s.orgRepo, actor)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, ErrOrganizationNotFound
	}

	project, err := s.projectRepo.FindInOrganization(ctx, id, org.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// canModify reports whether the user may update the project: admins, testers
// and the appointed person.
func canModify(user *models.User, project *models.Project) bool {
	switch user.Role {
	case models.RoleAdmin, models.RoleTester:
		return true
	}
	return project.IsAppointed(user.ID)
}

// Update applies a partial update to a project of the actor's organization
func (s *ProjectService) Update(ctx context.Context, actor *models.User, id uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if !canModify(actor, project) {
		return nil, ErrProjectForbidden
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrProjectNameRequired
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidProjectStatus
		}
		project.Status = *input.Status
	}
	if input.IsDeleted != nil {
		project.IsDeleted = *input.IsDeleted
	}

	if err := s.projectRepo.Save(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Uint64("project_id", project.ID).
		Uint64("updated_by", actor.ID).
		Msg("project updated")

	return project, nil
}
