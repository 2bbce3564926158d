package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/org-management-api/internal/models"
	"gorm.io/gorm"
)

// GormOrganizationRepository is a GORM implementation of OrganizationRepository
type GormOrganizationRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateOrganization is returned when creating an organization fails inside the creation transaction.
	ErrCreateOrganization = errors.New("organization repository: create organization failed")
	// ErrAffiliateCreator is returned when attaching the creator fails inside the creation transaction.
	ErrAffiliateCreator = errors.New("organization repository: affiliate creator failed")
)

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// Create creates an organization and affiliates its creator atomically.
func (r *GormOrganizationRepository) Create(ctx context.Context, org *models.Organization, creator *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateOrganization, err)
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", creator.ID).
			Update("organization_id", org.ID).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrAffiliateCreator, err)
		}

		creator.OrganizationID = &org.ID
		creator.Organization = org
		return nil
	})
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(ctx context.Context, id uint64) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// SlugExists reports whether a slug is taken, ignoring case
func (r *GormOrganizationRepository) SlugExists(ctx context.Context, slug string, excludeID uint64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Organization{}).
		Where("LOWER(slug) = LOWER(?)", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save persists every field of the organization
func (r *GormOrganizationRepository) Save(ctx context.Context, org *models.Organization) error {
	return r.db.WithContext(ctx).Save(org).Error
}

// SoftDeleteAndDetach flags the organization deleted and detaches every user in one transaction
func (r *GormOrganizationRepository) SoftDeleteAndDetach(ctx context.Context, org *models.Organization) (int64, error) {
	var detached int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org.IsDeleted = true
		if err := tx.Save(org).Error; err != nil {
			return err
		}

		n, err := detachUsers(tx, org.ID)
		if err != nil {
			return err
		}
		detached = n
		return nil
	})
	return detached, err
}
