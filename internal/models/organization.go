package models

import "time"

type Organization struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Slug       string    `gorm:"type:varchar(50);not null" json:"slug"`
	OwnerEmail *string   `gorm:"type:varchar(254)" json:"owner_email"`
	Plan       string    `gorm:"type:varchar(100);not null" json:"plan"`
	MaxUsers   int       `gorm:"not null" json:"max_users"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
	IsDeleted  bool      `gorm:"not null" json:"is_deleted"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Users    []User    `gorm:"foreignKey:OrganizationID" json:"-"`
	Projects []Project `gorm:"foreignKey:OrganizationID" json:"-"`
}

// Usable reports whether the organization can be operated on (not soft-deleted).
func (o *Organization) Usable() bool {
	return o != nil && !o.IsDeleted
}
