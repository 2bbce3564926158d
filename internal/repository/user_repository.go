package repository

import (
	"context"

	"github.com/yukikurage/org-management-api/internal/database"
	"github.com/yukikurage/org-management-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Organization").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindActiveByID finds a user that is not soft-deleted
func (r *GormUserRepository) FindActiveByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Scopes(database.NotDeleted("users")).
		First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmailFold finds a user by email, ignoring case
func (r *GormUserRepository) FindByEmailFold(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsernameFold finds a user by username, ignoring case
func (r *GormUserRepository) FindByUsernameFold(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("LOWER(username) = LOWER(?)", username).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailTaken reports whether another user already uses the email
func (r *GormUserRepository) EmailTaken(ctx context.Context, email string, excludeID uint64) (bool, error) {
	return r.exists(ctx, "LOWER(email) = LOWER(?)", email, excludeID)
}

// UsernameTaken reports whether another user already uses the username
func (r *GormUserRepository) UsernameTaken(ctx context.Context, username string, excludeID uint64) (bool, error) {
	return r.exists(ctx, "LOWER(username) = LOWER(?)", username, excludeID)
}

func (r *GormUserRepository) exists(ctx context.Context, cond string, value string, excludeID uint64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.User{}).Where(cond, value)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save persists every field of the user
func (r *GormUserRepository) Save(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit("Organization").Save(user).Error
}

// ListByOrganization lists non-deleted users of an organization ordered by join date, newest first
func (r *GormUserRepository) ListByOrganization(ctx context.Context, filter MemberFilter) ([]models.User, int64, error) {
	var users []models.User

	query := r.db.WithContext(ctx).Model(&models.User{}).
		Where("users.organization_id = ?", filter.OrganizationID).
		Scopes(database.NotDeleted("users"))

	if filter.ActiveOnly {
		query = query.Where("users.is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("users.date_joined DESC").
		Order("users.id DESC").
		Scopes(database.Paginate(filter.Pagination)).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func detachUsers(tx *gorm.DB, organizationID uint64) (int64, error) {
	result := tx.Model(&models.User{}).
		Where("organization_id = ?", organizationID).
		Update("organization_id", nil)
	return result.RowsAffected, result.Error
}
