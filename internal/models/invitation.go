package models

import (
	"time"

	"github.com/yukikurage/org-management-api/internal/constants"
	"gorm.io/gorm"
)

// InvitationState is the derived state of an invitation at a point in time.
type InvitationState string

const (
	InvitationPending InvitationState = "pending"
	InvitationUsed    InvitationState = "used"
	InvitationExpired InvitationState = "expired"
)

type Invitation struct {
	ID             uint64     `gorm:"primarykey" json:"id"`
	OrganizationID uint64     `gorm:"not null;index" json:"organization_id"`
	Email          string     `gorm:"type:varchar(254);not null" json:"email"`
	Token          string     `gorm:"type:varchar(36);uniqueIndex;not null" json:"token"`
	InvitedByID    *uint64    `gorm:"index" json:"invited_by_id"`
	IsUsed         bool       `gorm:"not null;index" json:"is_used"`
	CancelledAt    *time.Time `json:"cancelled_at"`
	ExpiresAt      time.Time  `gorm:"not null;index" json:"expires_at"`
	CreatedAt      time.Time  `json:"created_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	InvitedBy    *User        `gorm:"foreignKey:InvitedByID;constraint:OnDelete:SET NULL" json:"-"`
}

// BeforeCreate fills in the default validity window.
func (i *Invitation) BeforeCreate(tx *gorm.DB) error {
	if i.ExpiresAt.IsZero() {
		i.ExpiresAt = time.Now().Add(constants.InvitationValidity)
	}
	return nil
}

// State returns the invitation state at now. Expired is never stored.
func (i *Invitation) State(now time.Time) InvitationState {
	switch {
	case i.IsUsed:
		return InvitationUsed
	case !now.Before(i.ExpiresAt):
		return InvitationExpired
	default:
		return InvitationPending
	}
}
