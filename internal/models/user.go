package models

import "time"

type User struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	Username       string    `gorm:"type:varchar(150);not null" json:"username"`
	Email          string    `gorm:"type:varchar(254);not null" json:"email"`
	FirstName      string    `gorm:"type:varchar(150);not null;default:''" json:"first_name"`
	LastName       string    `gorm:"type:varchar(150);not null;default:''" json:"last_name"`
	PasswordHash   string    `gorm:"type:varchar(255);not null" json:"-"`
	Role           Role      `gorm:"column:user_type;type:smallint;not null" json:"user_type"`
	IsActive       bool      `gorm:"not null" json:"is_active"`
	IsDeleted      bool      `gorm:"not null;index" json:"is_deleted"`
	OrganizationID *uint64   `gorm:"index" json:"organization_id"`
	DateJoined     time.Time `gorm:"autoCreateTime" json:"date_joined"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"-"`
}

// Lifecycle derives the account state from the persisted flags.
func (u *User) Lifecycle() Lifecycle {
	switch {
	case u.IsDeleted:
		return LifecycleDeleted
	case !u.IsActive:
		return LifecycleSuspended
	default:
		return LifecycleActive
	}
}

// BelongsTo reports whether the user is affiliated with the given organization.
func (u *User) BelongsTo(orgID uint64) bool {
	return u.OrganizationID != nil && *u.OrganizationID == orgID
}

// Detach clears the user's organization affiliation.
func (u *User) Detach() {
	u.OrganizationID = nil
	u.Organization = nil
}
