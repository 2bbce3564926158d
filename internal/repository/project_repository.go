package repository

import (
	"context"

	"github.com/yukikurage/org-management-api/internal/database"
	"github.com/yukikurage/org-management-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).
		Omit("Organization", "CreatedBy", "AppointedPerson").
		Create(project).Error
}

// FindInOrganization finds a non-deleted project of the organization with the appointed person preloaded
func (r *GormProjectRepository) FindInOrganization(ctx context.Context, id, organizationID uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).
		Preload("AppointedPerson").
		Where("projects.organization_id = ?", organizationID).
		Scopes(database.NotDeleted("projects")).
		First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List retrieves non-deleted projects ordered by creation time, newest first
func (r *GormProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error) {
	var projects []models.Project

	query := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("projects.organization_id = ?", filter.OrganizationID).
		Scopes(database.NotDeleted("projects"))

	if filter.AppointedPersonID != nil {
		query = query.Where("projects.appointed_person_id = ?", *filter.AppointedPersonID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("AppointedPerson").
		Order("projects.created_at DESC").
		Order("projects.id DESC").
		Scopes(database.Paginate(filter.Pagination)).
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Save persists every field of the project
func (r *GormProjectRepository) Save(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).
		Omit("Organization", "CreatedBy", "AppointedPerson").
		Save(project).Error
}
