package repository

import (
	"context"
	"time"

	"github.com/yukikurage/org-management-api/internal/database"
	"github.com/yukikurage/org-management-api/internal/models"
	"gorm.io/gorm"
)

// GormInvitationRepository is a GORM implementation of InvitationRepository
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &GormInvitationRepository{db: db}
}

// Create creates a new invitation
func (r *GormInvitationRepository) Create(ctx context.Context, invitation *models.Invitation) error {
	return r.db.WithContext(ctx).Omit("Organization", "InvitedBy").Create(invitation).Error
}

// FindByID finds an invitation by ID
func (r *GormInvitationRepository) FindByID(ctx context.Context, id uint64) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.WithContext(ctx).First(&invitation, id).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// FindByToken finds an invitation by its token with the organization preloaded
func (r *GormInvitationRepository) FindByToken(ctx context.Context, token string) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.WithContext(ctx).
		Preload("Organization").
		Where("token = ?", token).
		First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// List retrieves invitations of one organization ordered by expiry, latest first
func (r *GormInvitationRepository) List(ctx context.Context, filter InvitationFilter) ([]models.Invitation, int64, error) {
	var invitations []models.Invitation

	query := r.db.WithContext(ctx).Model(&models.Invitation{}).
		Where("invitations.organization_id = ?", filter.OrganizationID)

	if filter.Used != nil {
		query = query.Where("invitations.is_used = ?", *filter.Used)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Organization").
		Preload("InvitedBy").
		Order("invitations.expires_at DESC").
		Order("invitations.id DESC").
		Scopes(database.Paginate(filter.Pagination)).
		Find(&invitations).Error; err != nil {
		return nil, 0, err
	}

	return invitations, total, nil
}

// Redeem consumes the invitation with a conditional update and writes the
// user in the same transaction. The update only matches a row that is still
// unused and unexpired at now, so concurrent redemptions of one token cannot
// both succeed.
func (r *GormInvitationRepository) Redeem(ctx context.Context, invitation *models.Invitation, user *models.User, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Invitation{}).
			Where("id = ? AND is_used = ? AND expires_at > ?", invitation.ID, false, now).
			Update("is_used", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInvitationConsumed
		}

		if err := tx.Omit("Organization").Save(user).Error; err != nil {
			return err
		}

		invitation.IsUsed = true
		return nil
	})
}

// Cancel marks an unused invitation used and records when it was cancelled.
func (r *GormInvitationRepository) Cancel(ctx context.Context, id uint64, now time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.Invitation{}).
		Where("id = ? AND is_used = ?", id, false).
		Updates(map[string]any{
			"is_used":      true,
			"cancelled_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvitationConsumed
	}
	return nil
}
